// Package service implements the partner points approval state machine.
//
// A rate moves PENDING -> APPROVED or PENDING -> REJECTED under superadmin
// review. A superadmin upsert jumps straight to APPROVED; an admin upsert of
// the same (partner, status) pair re-enters PENDING.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"partner_portal_backend/internal/events"
	"partner_portal_backend/internal/partnerpoints/repository"
	"partner_portal_backend/internal/partnerpoints/transport"
	"partner_portal_backend/internal/shared/actor"
	"partner_portal_backend/platform/apperr"
)

// Repository defines the data access the service needs.
type Repository interface {
	Upsert(ctx context.Context, params repository.UpsertParams) (repository.PartnerPoints, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.PartnerPoints, error)
	SetApprovalStatus(ctx context.Context, id uuid.UUID, approvalStatus string) (repository.PartnerPoints, error)
	ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]repository.PartnerPoints, error)
	ListPending(ctx context.Context) ([]repository.PartnerPoints, error)
}

type Service struct {
	repo Repository
	bus  events.Bus
}

func New(repo Repository, bus events.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

// Set upserts a partner's rate for a status. The resulting approval state
// depends on who is asking: superadmin rates apply immediately, admin rates
// await approval.
func (s *Service) Set(ctx context.Context, req transport.SetPartnerPointsRequest, act actor.Actor) (transport.PartnerPointsResponse, error) {
	var approvalStatus string
	switch {
	case act.IsSuperadmin():
		approvalStatus = repository.ApprovalApproved
	case act.IsAdmin():
		approvalStatus = repository.ApprovalPending
	default:
		return transport.PartnerPointsResponse{}, apperr.Forbidden("only admin or superadmin may set partner rates")
	}

	entry, err := s.repo.Upsert(ctx, repository.UpsertParams{
		PartnerID:      req.PartnerID,
		Status:         req.Status,
		Points:         req.Points,
		ApprovalStatus: approvalStatus,
	})
	if err != nil {
		return transport.PartnerPointsResponse{}, err
	}

	if approvalStatus == repository.ApprovalPending {
		s.bus.Publish(ctx, events.PartnerPointsSubmitted{
			BaseEvent: events.NewBaseEvent(),
			EntryID:   entry.ID,
			PartnerID: entry.PartnerID,
			Status:    entry.Status,
			Points:    entry.Points,
		})
	} else {
		s.bus.Publish(ctx, events.PartnerPointsApproved{
			BaseEvent: events.NewBaseEvent(),
			EntryID:   entry.ID,
			PartnerID: entry.PartnerID,
			Status:    entry.Status,
			Points:    entry.Points,
		})
	}

	return transport.ToPartnerPointsResponse(entry), nil
}

// Approve marks a rate APPROVED. Superadmin only; repeated calls overwrite
// the state and are effectively idempotent.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, act actor.Actor) (transport.PartnerPointsResponse, error) {
	entry, err := s.review(ctx, id, act, repository.ApprovalApproved)
	if err != nil {
		return transport.PartnerPointsResponse{}, err
	}

	s.bus.Publish(ctx, events.PartnerPointsApproved{
		BaseEvent: events.NewBaseEvent(),
		EntryID:   entry.ID,
		PartnerID: entry.PartnerID,
		Status:    entry.Status,
		Points:    entry.Points,
	})

	return transport.ToPartnerPointsResponse(entry), nil
}

// Reject marks a rate REJECTED. Superadmin only.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, act actor.Actor) (transport.PartnerPointsResponse, error) {
	entry, err := s.review(ctx, id, act, repository.ApprovalRejected)
	if err != nil {
		return transport.PartnerPointsResponse{}, err
	}

	s.bus.Publish(ctx, events.PartnerPointsRejected{
		BaseEvent: events.NewBaseEvent(),
		EntryID:   entry.ID,
		PartnerID: entry.PartnerID,
		Status:    entry.Status,
		Points:    entry.Points,
	})

	return transport.ToPartnerPointsResponse(entry), nil
}

func (s *Service) review(ctx context.Context, id uuid.UUID, act actor.Actor, approvalStatus string) (repository.PartnerPoints, error) {
	if !act.IsSuperadmin() {
		return repository.PartnerPoints{}, apperr.Forbidden("only superadmin may review partner rates")
	}

	entry, err := s.repo.SetApprovalStatus(ctx, id, approvalStatus)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.PartnerPoints{}, apperr.NotFound("partner points entry not found")
		}
		return repository.PartnerPoints{}, err
	}
	return entry, nil
}

// GetByID returns a single rate entry. Partners may read their own entries;
// admin and superadmin may read anyone's.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, act actor.Actor) (transport.PartnerPointsResponse, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.PartnerPointsResponse{}, apperr.NotFound("partner points entry not found")
		}
		return transport.PartnerPointsResponse{}, err
	}

	if !act.CanManageLeads() && act.ID != entry.PartnerID {
		return transport.PartnerPointsResponse{}, apperr.Forbidden("not allowed to read this rate")
	}
	return transport.ToPartnerPointsResponse(entry), nil
}

// GetForPartner returns all rates for one partner. Partners may read their
// own; admin and superadmin may read anyone's.
func (s *Service) GetForPartner(ctx context.Context, partnerID uuid.UUID, act actor.Actor) ([]transport.PartnerPointsResponse, error) {
	if !act.CanManageLeads() && act.ID != partnerID {
		return nil, apperr.Forbidden("not allowed to read these rates")
	}

	entries, err := s.repo.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	return transport.ToPartnerPointsResponses(entries), nil
}

// ListPending returns the superadmin review queue.
func (s *Service) ListPending(ctx context.Context, act actor.Actor) ([]transport.PartnerPointsResponse, error) {
	if !act.IsSuperadmin() {
		return nil, apperr.Forbidden("only superadmin may list pending rates")
	}

	entries, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return transport.ToPartnerPointsResponses(entries), nil
}
