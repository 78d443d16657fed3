package http

import (
	"context"

	"partner_portal_backend/internal/events"
	"partner_portal_backend/platform/config"
	"partner_portal_backend/platform/logger"
)

// RouterConfig is the slice of configuration the router actually reads.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker backs the /health endpoint, typically a pool ping.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is the assembled application handed from the composition root to the
// router. Everything in it is fully initialized.
type App struct {
	Config   RouterConfig
	Logger   *logger.Logger
	Health   HealthChecker
	EventBus events.Bus
	// Modules are mounted in order; order only affects startup logs.
	Modules []Module
}
