// Package users provides the user directory bounded context.
package users

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "partner_portal_backend/internal/http"
	"partner_portal_backend/internal/users/handler"
	"partner_portal_backend/internal/users/repository"
	"partner_portal_backend/internal/users/service"
	"partner_portal_backend/platform/logger"
	"partner_portal_backend/platform/validator"
)

// Module is the users bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{handler: h, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "users"
}

// RosterReader exposes the sales roster lookup the leads module rotates
// assignments over.
func (m *Module) RosterReader() *repository.Repository {
	return m.repo
}

// Directory exposes user lookups for other modules.
func (m *Module) Directory() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts user routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/users")
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
