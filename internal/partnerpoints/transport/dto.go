// Package transport defines request and response DTOs for partner point rates.
package transport

import (
	"time"

	"github.com/google/uuid"

	"partner_portal_backend/internal/partnerpoints/repository"
)

type SetPartnerPointsRequest struct {
	PartnerID uuid.UUID `json:"partnerId" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=NEW OPD_DONE IPD_DONE"`
	Points    int       `json:"points" validate:"min=0"`
}

type PartnerPointsResponse struct {
	ID             uuid.UUID `json:"id"`
	PartnerID      uuid.UUID `json:"partnerId"`
	Status         string    `json:"status"`
	Points         int       `json:"points"`
	ApprovalStatus string    `json:"approvalStatus"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func ToPartnerPointsResponse(entry repository.PartnerPoints) PartnerPointsResponse {
	return PartnerPointsResponse{
		ID:             entry.ID,
		PartnerID:      entry.PartnerID,
		Status:         entry.Status,
		Points:         entry.Points,
		ApprovalStatus: entry.ApprovalStatus,
		CreatedAt:      entry.CreatedAt,
		UpdatedAt:      entry.UpdatedAt,
	}
}

func ToPartnerPointsResponses(entries []repository.PartnerPoints) []PartnerPointsResponse {
	out := make([]PartnerPointsResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, ToPartnerPointsResponse(entry))
	}
	return out
}
