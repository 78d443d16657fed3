// Package service implements hospital directory operations.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"partner_portal_backend/internal/hospitals/repository"
	"partner_portal_backend/internal/hospitals/transport"
	"partner_portal_backend/internal/shared/actor"
	"partner_portal_backend/platform/apperr"
)

type Repository interface {
	Create(ctx context.Context, params repository.UpsertHospitalParams) (repository.Hospital, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Hospital, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpsertHospitalParams) (repository.Hospital, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context, onlyID *uuid.UUID) ([]repository.Hospital, error)
}

type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{repo: repo}
}

func upsertParams(req transport.UpsertHospitalRequest) repository.UpsertHospitalParams {
	return repository.UpsertHospitalParams{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Country: req.Country,
		Phone:   req.Phone,
		Email:   req.Email,
	}
}

func (s *Service) Create(ctx context.Context, req transport.UpsertHospitalRequest, act actor.Actor) (transport.HospitalResponse, error) {
	if !act.IsSuperadmin() {
		return transport.HospitalResponse{}, apperr.Forbidden("only superadmins can create hospitals")
	}
	hospital, err := s.repo.Create(ctx, upsertParams(req))
	if err != nil {
		return transport.HospitalResponse{}, err
	}
	return transport.ToHospitalResponse(hospital), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpsertHospitalRequest, act actor.Actor) (transport.HospitalResponse, error) {
	if !act.IsSuperadmin() {
		return transport.HospitalResponse{}, apperr.Forbidden("only superadmins can update hospitals")
	}
	hospital, err := s.repo.Update(ctx, id, upsertParams(req))
	if errors.Is(err, repository.ErrNotFound) {
		return transport.HospitalResponse{}, apperr.NotFound("hospital not found")
	}
	if err != nil {
		return transport.HospitalResponse{}, err
	}
	return transport.ToHospitalResponse(hospital), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, act actor.Actor) error {
	if !act.IsSuperadmin() {
		return apperr.Forbidden("only superadmins can delete hospitals")
	}
	err := s.repo.SoftDelete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("hospital not found")
	}
	return err
}

// GetByID returns an active hospital. Non-superadmins only see their own.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, act actor.Actor) (transport.HospitalResponse, error) {
	hospital, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.HospitalResponse{}, apperr.NotFound("hospital not found")
	}
	if err != nil {
		return transport.HospitalResponse{}, err
	}
	if !hospital.IsActive {
		return transport.HospitalResponse{}, apperr.NotFound("hospital not found")
	}
	if !act.IsSuperadmin() && (act.HospitalID == nil || *act.HospitalID != hospital.ID) {
		return transport.HospitalResponse{}, apperr.Forbidden("not authorized")
	}
	return transport.ToHospitalResponse(hospital), nil
}

// List returns hospitals visible to the actor: superadmins see every active
// hospital, admins only their own, everyone else none.
func (s *Service) List(ctx context.Context, act actor.Actor) ([]transport.HospitalResponse, error) {
	switch {
	case act.IsSuperadmin():
		hospitals, err := s.repo.ListActive(ctx, nil)
		if err != nil {
			return nil, err
		}
		return transport.ToHospitalResponses(hospitals), nil
	case act.IsAdmin() && act.HospitalID != nil:
		hospitals, err := s.repo.ListActive(ctx, act.HospitalID)
		if err != nil {
			return nil, err
		}
		return transport.ToHospitalResponses(hospitals), nil
	default:
		return []transport.HospitalResponse{}, nil
	}
}
