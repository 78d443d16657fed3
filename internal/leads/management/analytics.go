package management

import (
	"context"

	"golang.org/x/sync/errgroup"

	"partner_portal_backend/internal/leads/repository"
	"partner_portal_backend/internal/leads/transport"
	"partner_portal_backend/internal/shared/actor"
)

// Analytics returns aggregate counts scoped to the actor's view.
func (s *Service) Analytics(ctx context.Context, act actor.Actor) (transport.AnalyticsResponse, error) {
	scope := metricsScope(act)

	var metrics repository.LeadMetrics
	var duplicates int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.repo.GetMetrics(gctx, scope)
		if err != nil {
			return err
		}
		metrics = m
		return nil
	})
	g.Go(func() error {
		d, err := s.repo.CountDuplicates(gctx, scope)
		if err != nil {
			return err
		}
		duplicates = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return transport.AnalyticsResponse{}, err
	}

	return transport.AnalyticsResponse{
		TotalLeads:     metrics.TotalLeads,
		StatusCounts:   metrics.StatusCounts,
		TotalPoints:    metrics.TotalPoints,
		AssignedLeads:  metrics.AssignedLeads,
		DuplicateLeads: duplicates,
	}, nil
}

func metricsScope(act actor.Actor) repository.MetricsScope {
	var scope repository.MetricsScope
	switch act.Role {
	case actor.RoleAdmin:
		scope.HospitalID = act.HospitalID
	case actor.RolePartner:
		id := act.ID
		scope.PartnerID = &id
	case actor.RoleSalesPerson:
		id := act.ID
		scope.SalesPersonID = &id
	}
	return scope
}
