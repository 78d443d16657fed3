// Package service implements the user directory operations and the
// admin-data handover workflow.
package service

import (
	"context"
	"errors"
	"regexp"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"partner_portal_backend/internal/shared/actor"
	"partner_portal_backend/internal/users/repository"
	"partner_portal_backend/internal/users/transport"
	"partner_portal_backend/platform/apperr"
	"partner_portal_backend/platform/logger"
	"partner_portal_backend/platform/phone"
)

// Repository is the persistence surface the service needs.
type Repository interface {
	Create(ctx context.Context, params repository.CreateUserParams) (repository.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.User, error)
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	Update(ctx context.Context, params repository.UpdateUserParams) (repository.User, error)
	SetOnboardingState(ctx context.Context, id uuid.UUID, isActive bool, status string, hospitalID *uuid.UUID) (repository.User, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params repository.ListParams) ([]repository.User, error)
	ReassignAdminData(ctx context.Context, params repository.ReassignAdminDataParams) error
}

const bcryptCost = 10

var tenDigits = regexp.MustCompile(`^[0-9]{10}$`)

type Service struct {
	repo Repository
	log  *logger.Logger
}

func New(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create registers a new user. Admins always create into their own hospital;
// superadmins choose the hospital. Partners and sales people must carry a
// ten-digit phone number because lead intake keys on it.
func (s *Service) Create(ctx context.Context, req transport.CreateUserRequest, act actor.Actor) (transport.UserResponse, error) {
	if !act.CanManageLeads() {
		return transport.UserResponse{}, apperr.Forbidden("only admins can create users")
	}

	if err := requirePhoneForRole(req.Role, req.Phone); err != nil {
		return transport.UserResponse{}, err
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return transport.UserResponse{}, apperr.BadRequest("email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return transport.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return transport.UserResponse{}, err
	}

	hospitalID := req.HospitalID
	if !act.IsSuperadmin() {
		hospitalID = act.HospitalID
	}

	params := repository.CreateUserParams{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		HospitalID:   hospitalID,
		PartnerType:  req.PartnerType,
		IsActive:     true,
	}
	if req.Phone != nil {
		normalized := phone.NormalizeLocal(*req.Phone)
		params.Phone = &normalized
	}
	if req.Role == string(actor.RoleAdmin) || req.Role == string(actor.RolePartner) || req.Role == string(actor.RoleSalesPerson) {
		status := repository.StatusActive
		params.Status = &status
	}

	user, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.UserResponse{}, err
	}

	return transport.ToUserResponse(user), nil
}

// GetByID returns a single active user, hospital-scoped for non-superadmins.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, act actor.Actor) (transport.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.UserResponse{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return transport.UserResponse{}, err
	}
	if !user.IsActive {
		return transport.UserResponse{}, apperr.NotFound("user not found")
	}
	if !act.IsSuperadmin() && !sameHospital(act.HospitalID, user.HospitalID) {
		return transport.UserResponse{}, apperr.Forbidden("not authorized")
	}
	return transport.ToUserResponse(user), nil
}

// Me returns the caller's own profile, regardless of role.
func (s *Service) Me(ctx context.Context, act actor.Actor) (transport.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, act.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.UserResponse{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return transport.UserResponse{}, err
	}
	return transport.ToUserResponse(user), nil
}

// UpdateMe patches the caller's own profile fields. Role, hospital, and
// activation state stay as stored.
func (s *Service) UpdateMe(ctx context.Context, req transport.UpdateProfileRequest, act actor.Actor) (transport.UserResponse, error) {
	existing, err := s.repo.GetByID(ctx, act.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.UserResponse{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return transport.UserResponse{}, err
	}

	params := repository.UpdateUserParams{
		ID:          existing.ID,
		FirstName:   existing.FirstName,
		LastName:    existing.LastName,
		Role:        existing.Role,
		HospitalID:  existing.HospitalID,
		Phone:       existing.Phone,
		PartnerType: existing.PartnerType,
		IsActive:    existing.IsActive,
	}
	if req.FirstName != nil {
		params.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		params.LastName = *req.LastName
	}
	if req.Phone != nil {
		normalized := phone.NormalizeLocal(*req.Phone)
		params.Phone = &normalized
	}

	if err := requirePhoneForRole(params.Role, params.Phone); err != nil {
		return transport.UserResponse{}, err
	}

	user, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return transport.ToUserResponse(user), nil
}

// List returns users visible to the actor. Non-superadmins only see their
// own hospital. Deactivated accounts stay hidden except when a superadmin
// reviews the unassigned ONBOARDING queue.
func (s *Service) List(ctx context.Context, req transport.ListUsersRequest, act actor.Actor) ([]transport.UserResponse, error) {
	params := repository.ListParams{
		Role:       req.Role,
		Status:     req.Status,
		ActiveOnly: true,
	}

	if act.IsSuperadmin() {
		params.HospitalID = req.HospitalID
		params.UnassignedOnly = req.Unassigned
		if req.Unassigned && req.Status != nil && *req.Status == repository.StatusOnboarding {
			params.ActiveOnly = false
		}
	} else {
		params.HospitalID = act.HospitalID
	}

	users, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return transport.ToUserResponses(users), nil
}

// Update patches a user. Role and hospital changes are superadmin-only;
// admin edits keep the existing values.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateUserRequest, act actor.Actor) (transport.UserResponse, error) {
	if !act.CanManageLeads() {
		return transport.UserResponse{}, apperr.Forbidden("only admins can update users")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.UserResponse{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return transport.UserResponse{}, err
	}
	if !act.IsSuperadmin() && !sameHospital(act.HospitalID, existing.HospitalID) {
		return transport.UserResponse{}, apperr.Forbidden("not authorized")
	}

	params := repository.UpdateUserParams{
		ID:          existing.ID,
		FirstName:   existing.FirstName,
		LastName:    existing.LastName,
		Role:        existing.Role,
		HospitalID:  existing.HospitalID,
		Phone:       existing.Phone,
		PartnerType: existing.PartnerType,
		IsActive:    existing.IsActive,
	}
	if req.FirstName != nil {
		params.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		params.LastName = *req.LastName
	}
	if act.IsSuperadmin() {
		if req.Role != nil {
			params.Role = *req.Role
		}
		if req.HospitalID != nil {
			params.HospitalID = req.HospitalID
		}
	}
	if req.Phone != nil {
		normalized := phone.NormalizeLocal(*req.Phone)
		params.Phone = &normalized
	}
	if req.PartnerType != nil {
		params.PartnerType = req.PartnerType
	}
	if req.IsActive != nil {
		params.IsActive = *req.IsActive
	}

	if err := requirePhoneForRole(params.Role, params.Phone); err != nil {
		return transport.UserResponse{}, err
	}

	user, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return transport.ToUserResponse(user), nil
}

// Delete removes a user. Superadmins delete permanently; admins deactivate
// accounts in their own hospital.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, act actor.Actor) error {
	if !act.CanManageLeads() {
		return apperr.Forbidden("only admins can delete users")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("user not found")
	}
	if err != nil {
		return err
	}
	if act.IsAdmin() && !sameHospital(act.HospitalID, existing.HospitalID) {
		return apperr.Forbidden("not authorized")
	}

	if act.IsSuperadmin() {
		err = s.repo.HardDelete(ctx, id)
	} else {
		err = s.repo.SoftDelete(ctx, id)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("user not found")
	}
	return err
}

// Approve activates a partner account that finished onboarding.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, act actor.Actor) (transport.UserResponse, error) {
	if !act.CanManageLeads() {
		return transport.UserResponse{}, apperr.Forbidden("only admins can approve partners")
	}
	return s.setOnboardingState(ctx, id, true, repository.StatusActive, nil)
}

// Reject deactivates a partner account and marks it REJECTED.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, act actor.Actor) (transport.UserResponse, error) {
	if !act.CanManageLeads() {
		return transport.UserResponse{}, apperr.Forbidden("only admins can reject partners")
	}
	return s.setOnboardingState(ctx, id, false, repository.StatusRejected, nil)
}

// ApproveAssign activates a partner and places them in a hospital in one
// step. Superadmin-only because it crosses hospital boundaries.
func (s *Service) ApproveAssign(ctx context.Context, id uuid.UUID, req transport.ApproveAssignRequest, act actor.Actor) (transport.UserResponse, error) {
	if !act.IsSuperadmin() {
		return transport.UserResponse{}, apperr.Forbidden("only superadmins can assign hospitals")
	}
	return s.setOnboardingState(ctx, id, true, repository.StatusActive, &req.HospitalID)
}

func (s *Service) setOnboardingState(ctx context.Context, id uuid.UUID, isActive bool, status string, hospitalID *uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.SetOnboardingState(ctx, id, isActive, status, hospitalID)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.UserResponse{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return transport.UserResponse{}, err
	}
	return transport.ToUserResponse(user), nil
}

// ReassignAdminData hands everything a departing admin owns to another
// admin and deletes the departing account, atomically. The data movement
// happens in a single repository transaction.
func (s *Service) ReassignAdminData(ctx context.Context, deletedAdminID uuid.UUID, req transport.ReassignAdminDataRequest, act actor.Actor) error {
	if !act.IsSuperadmin() {
		return apperr.Forbidden("only superadmins can reassign admin data")
	}

	deletedAdmin, err := s.repo.GetByID(ctx, deletedAdminID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("admin not found")
	}
	if err != nil {
		return err
	}
	targetAdmin, err := s.repo.GetByID(ctx, req.TargetAdminID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("admin not found")
	}
	if err != nil {
		return err
	}

	if targetAdmin.Role != string(actor.RoleAdmin) {
		return apperr.BadRequest("target user must be an admin")
	}
	if targetAdmin.HospitalID == nil {
		return apperr.BadRequest("target admin must be assigned to a hospital")
	}
	if deletedAdmin.HospitalID == nil {
		return apperr.BadRequest("deleted admin is not assigned to any hospital")
	}

	err = s.repo.ReassignAdminData(ctx, repository.ReassignAdminDataParams{
		DeletedAdminID:  deletedAdmin.ID,
		DeletedHospital: *deletedAdmin.HospitalID,
		TargetAdminID:   targetAdmin.ID,
		TargetHospital:  *targetAdmin.HospitalID,
	})
	if err != nil {
		s.log.DatabaseError("users.reassign_admin_data", err)
		return err
	}
	return nil
}

// requirePhoneForRole enforces the ten-digit phone rule for roles that feed
// lead intake.
func requirePhoneForRole(role string, phoneNumber *string) error {
	if role != string(actor.RolePartner) && role != string(actor.RoleSalesPerson) {
		return nil
	}
	if phoneNumber == nil || !tenDigits.MatchString(phone.NormalizeLocal(*phoneNumber)) {
		return apperr.Validation("phone number must be 10 digits for partners and sales people")
	}
	return nil
}

func sameHospital(a, b *uuid.UUID) bool {
	return a != nil && b != nil && *a == *b
}
