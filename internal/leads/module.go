// Package leads provides the lead management bounded context module.
package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"partner_portal_backend/internal/events"
	apphttp "partner_portal_backend/internal/http"
	"partner_portal_backend/internal/leads/assignment"
	"partner_portal_backend/internal/leads/handler"
	"partner_portal_backend/internal/leads/management"
	"partner_portal_backend/internal/leads/points"
	"partner_portal_backend/internal/leads/repository"
	"partner_portal_backend/platform/logger"
	"partner_portal_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	management *management.Service
}

// NewModule wires the leads module. The sales roster and partner rate lookups
// are owned by other modules and injected as read-only collaborators.
func NewModule(
	pool *pgxpool.Pool,
	bus events.Bus,
	val *validator.Validator,
	store management.ObjectStore,
	bucket string,
	roster assignment.RosterReader,
	rates points.RateReader,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)

	resolver := points.NewResolver(rates)
	rotator := assignment.NewRotator(roster, repo)

	svc := management.New(repo, resolver, rotator, store, bucket, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, management: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ManagementService returns the lead management service for external use.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
