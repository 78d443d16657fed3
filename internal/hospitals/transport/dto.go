// Package transport defines the request and response DTOs for the hospitals API.
package transport

import (
	"time"

	"github.com/google/uuid"

	"partner_portal_backend/internal/hospitals/repository"
)

type UpsertHospitalRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=200"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
	City    *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State   *string `json:"state,omitempty" validate:"omitempty,max=100"`
	Country *string `json:"country,omitempty" validate:"omitempty,max=100"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
}

type HospitalResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	City      *string   `json:"city,omitempty"`
	State     *string   `json:"state,omitempty"`
	Country   *string   `json:"country,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToHospitalResponse(h repository.Hospital) HospitalResponse {
	return HospitalResponse{
		ID:        h.ID,
		Name:      h.Name,
		Address:   h.Address,
		City:      h.City,
		State:     h.State,
		Country:   h.Country,
		Phone:     h.Phone,
		Email:     h.Email,
		IsActive:  h.IsActive,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}

func ToHospitalResponses(hospitals []repository.Hospital) []HospitalResponse {
	out := make([]HospitalResponse, 0, len(hospitals))
	for _, h := range hospitals {
		out = append(out, ToHospitalResponse(h))
	}
	return out
}
