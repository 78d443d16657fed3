// Package partnerpoints provides the partner rate approval bounded context.
package partnerpoints

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"partner_portal_backend/internal/events"
	apphttp "partner_portal_backend/internal/http"
	"partner_portal_backend/internal/partnerpoints/handler"
	"partner_portal_backend/internal/partnerpoints/repository"
	"partner_portal_backend/internal/partnerpoints/service"
	"partner_portal_backend/platform/validator"
)

// Module is the partner points bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus)
	h := handler.New(svc, val)

	return &Module{handler: h, repo: repo, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "partnerpoints"
}

// RateReader exposes the approved-rate lookup the leads module resolves
// points against.
func (m *Module) RateReader() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts partner points routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/partner-points")
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
