// Package transport defines the request and response DTOs for the users API.
package transport

import (
	"time"

	"github.com/google/uuid"

	"partner_portal_backend/internal/users/repository"
)

// Request DTOs
type CreateUserRequest struct {
	Email       string     `json:"email" validate:"required,email,max=254"`
	Password    string     `json:"password" validate:"required,min=8,max=72"`
	FirstName   string     `json:"firstName" validate:"required,min=1,max=100"`
	LastName    string     `json:"lastName" validate:"required,min=1,max=100"`
	Role        string     `json:"role" validate:"required,oneof=SUPERADMIN ADMIN PARTNER SALES_PERSON"`
	HospitalID  *uuid.UUID `json:"hospitalId,omitempty"`
	Phone       *string    `json:"phone,omitempty" validate:"omitempty,phone10"`
	PartnerType *string    `json:"partnerType,omitempty" validate:"omitempty,max=100"`
}

type UpdateUserRequest struct {
	FirstName   *string    `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName    *string    `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Role        *string    `json:"role,omitempty" validate:"omitempty,oneof=SUPERADMIN ADMIN PARTNER SALES_PERSON"`
	HospitalID  *uuid.UUID `json:"hospitalId,omitempty"`
	Phone       *string    `json:"phone,omitempty" validate:"omitempty,phone10"`
	PartnerType *string    `json:"partnerType,omitempty" validate:"omitempty,max=100"`
	IsActive    *bool      `json:"isActive,omitempty"`
}

// UpdateProfileRequest is the self-service subset of a user update. Role,
// hospital, and activation state are never editable through it.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,phone10"`
}

type ListUsersRequest struct {
	Role       *string    `form:"role" validate:"omitempty,oneof=SUPERADMIN ADMIN PARTNER SALES_PERSON"`
	HospitalID *uuid.UUID `form:"hospitalId"`
	// Unassigned selects users without a hospital; superadmins use it to
	// review the partner onboarding queue.
	Unassigned bool    `form:"unassigned"`
	Status     *string `form:"status" validate:"omitempty,oneof=ONBOARDING ACTIVE REJECTED"`
}

type ApproveAssignRequest struct {
	HospitalID uuid.UUID `json:"hospitalId" validate:"required"`
}

type ReassignAdminDataRequest struct {
	TargetAdminID uuid.UUID `json:"targetAdminId" validate:"required"`
}

// Response DTOs
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Role        string     `json:"role"`
	HospitalID  *uuid.UUID `json:"hospitalId,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	PartnerType *string    `json:"partnerType,omitempty"`
	Status      *string    `json:"status,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ToUserResponse maps a stored user to its API shape. The password hash
// never leaves the repository layer.
func ToUserResponse(u repository.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		HospitalID:  u.HospitalID,
		Phone:       u.Phone,
		PartnerType: u.PartnerType,
		Status:      u.Status,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func ToUserResponses(users []repository.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}
