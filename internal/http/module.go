// Package http assembles the API surface: each bounded context exposes a
// Module that mounts its own routes, keeping the router free of per-domain
// imports.
package http

import (
	"github.com/gin-gonic/gin"

	"partner_portal_backend/platform/config"
)

// Module is implemented by every HTTP-facing bounded context.
type Module interface {
	// Name identifies the module in startup logs.
	Name() string
	// RegisterRoutes mounts the module's endpoints on the shared groups.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext bundles what modules need at registration time so
// RegisterRoutes keeps a single-parameter signature.
type RouterContext struct {
	// Engine is the root gin engine, for modules needing engine-level hooks.
	Engine *gin.Engine
	// V1 is the public /api/v1 group.
	V1 *gin.RouterGroup
	// Protected is the JWT-guarded group under /api/v1.
	Protected *gin.RouterGroup
	// Config exposes only the JWT settings.
	Config config.JWTConfig
	// AuthMiddleware guards any extra groups a module creates itself.
	AuthMiddleware gin.HandlerFunc
}
