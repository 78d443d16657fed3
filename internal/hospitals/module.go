// Package hospitals provides the hospital directory bounded context.
package hospitals

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"partner_portal_backend/internal/hospitals/handler"
	"partner_portal_backend/internal/hospitals/repository"
	"partner_portal_backend/internal/hospitals/service"
	apphttp "partner_portal_backend/internal/http"
	"partner_portal_backend/platform/validator"
)

// Module is the hospitals bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{handler: h, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "hospitals"
}

// Directory exposes hospital lookups for other modules.
func (m *Module) Directory() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts hospital routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/hospitals")
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
