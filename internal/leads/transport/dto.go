// Package transport defines the request and response DTOs for the leads API.
package transport

import (
	"time"

	"github.com/google/uuid"

	"partner_portal_backend/internal/leads/repository"
)

// Request DTOs
type CreateLeadRequest struct {
	Name           string     `json:"name" form:"name" validate:"required,min=1,max=150"`
	Phone          string     `json:"phone" form:"phone" validate:"required,phone10"`
	Remarks        *string    `json:"remarks,omitempty" form:"remarks" validate:"omitempty,max=2000"`
	Status         *string    `json:"status,omitempty" form:"status" validate:"omitempty,oneof=NEW NOT_REACHABLE NOT_INTERESTED OPD_DONE IPD_DONE CLOSED"`
	Specialisation string     `json:"specialisation" form:"specialisation" validate:"required,max=100"`
	HospitalID     *uuid.UUID `json:"hospitalId,omitempty" form:"hospitalId"`
	PartnerID      *uuid.UUID `json:"partnerId,omitempty" form:"partnerId"`
	PointsOverride *int       `json:"pointsOverride,omitempty" form:"pointsOverride" validate:"omitempty,min=0"`
}

type UpdateLeadRequest struct {
	Name           *string `json:"name,omitempty" form:"name" validate:"omitempty,min=1,max=150"`
	Phone          *string `json:"phone,omitempty" form:"phone" validate:"omitempty,phone10"`
	Remarks        *string `json:"remarks,omitempty" form:"remarks" validate:"omitempty,max=2000"`
	Status         *string `json:"status,omitempty" form:"status" validate:"omitempty,oneof=NEW NOT_REACHABLE NOT_INTERESTED OPD_DONE IPD_DONE CLOSED"`
	Specialisation *string `json:"specialisation,omitempty" form:"specialisation" validate:"omitempty,max=100"`
	PointsOverride *int    `json:"pointsOverride,omitempty" form:"pointsOverride" validate:"omitempty,min=0"`
}

type ReassignLeadRequest struct {
	PartnerID     *uuid.UUID `json:"partnerId,omitempty"`
	SalesPersonID *uuid.UUID `json:"salesPersonId,omitempty"`
}

type AddRemarkRequest struct {
	Message *string `json:"message,omitempty" form:"message" validate:"omitempty,max=2000"`
}

type ListLeadsRequest struct {
	Status         *string `form:"status" validate:"omitempty,oneof=NEW NOT_REACHABLE NOT_INTERESTED OPD_DONE IPD_DONE CLOSED"`
	Specialisation *string `form:"specialisation" validate:"omitempty,max=100"`
	Search         string  `form:"search" validate:"max=100"`
	// IncludeDeleted keeps soft-deleted rows visible; honored for admin
	// and superadmin callers only.
	IncludeDeleted bool `form:"includeDeleted"`
	Page           int  `form:"page" validate:"omitempty,min=1"`
	PageSize       int  `form:"pageSize" validate:"omitempty,min=1,max=200"`
}

type ExportLeadsRequest struct {
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	Status        *string    `form:"status" validate:"omitempty,oneof=NEW NOT_REACHABLE NOT_INTERESTED OPD_DONE IPD_DONE CLOSED"`
	PartnerID     *uuid.UUID `form:"partnerId"`
	SalesPersonID *uuid.UUID `form:"salesPersonId"`
	// CreatedByID narrows the export to one author; superadmin-only.
	CreatedByID *uuid.UUID `form:"createdById"`
}

// Response DTOs
type DocumentResponse struct {
	ID          uuid.UUID `json:"id"`
	FileKey     string    `json:"fileKey"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}

type RemarkResponse struct {
	ID         uuid.UUID `json:"id"`
	AuthorID   uuid.UUID `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Message    *string   `json:"message,omitempty"`
	FileKey    *string   `json:"fileKey,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type LeadResponse struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	Phone          string             `json:"phone"`
	Status         string             `json:"status"`
	Points         int                `json:"points"`
	PointsOverride *int               `json:"pointsOverride,omitempty"`
	Specialisation string             `json:"specialisation"`
	Remarks        *string            `json:"remarks,omitempty"`
	HospitalID     uuid.UUID          `json:"hospitalId"`
	PartnerID      *uuid.UUID         `json:"partnerId,omitempty"`
	SalesPersonID  *uuid.UUID         `json:"salesPersonId,omitempty"`
	CreatedByID    uuid.UUID          `json:"createdById"`
	Documents      []DocumentResponse `json:"documents,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type AnalyticsResponse struct {
	TotalLeads     int            `json:"totalLeads"`
	StatusCounts   map[string]int `json:"statusCounts"`
	TotalPoints    int            `json:"totalPoints"`
	AssignedLeads  int            `json:"assignedLeads"`
	DuplicateLeads int            `json:"duplicateLeads"`
}

type BulkUploadResponse struct {
	Created    int      `json:"created"`
	Duplicates int      `json:"duplicates"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
}

// Mapping helpers

func ToLeadResponse(lead repository.Lead, docs []repository.LeadDocument) LeadResponse {
	resp := LeadResponse{
		ID:             lead.ID,
		Name:           lead.Name,
		Phone:          lead.Phone,
		Status:         lead.Status,
		Points:         lead.Points,
		PointsOverride: lead.PointsOverride,
		Specialisation: lead.Specialisation,
		Remarks:        lead.Remarks,
		HospitalID:     lead.HospitalID,
		PartnerID:      lead.PartnerID,
		SalesPersonID:  lead.SalesPersonID,
		CreatedByID:    lead.CreatedByID,
		CreatedAt:      lead.CreatedAt,
		UpdatedAt:      lead.UpdatedAt,
	}
	for _, doc := range docs {
		resp.Documents = append(resp.Documents, DocumentResponse{
			ID:          doc.ID,
			FileKey:     doc.FileKey,
			FileName:    doc.FileName,
			ContentType: doc.ContentType,
			CreatedAt:   doc.CreatedAt,
		})
	}
	return resp
}

func ToRemarkResponse(remark repository.LeadRemark) RemarkResponse {
	return RemarkResponse{
		ID:         remark.ID,
		AuthorID:   remark.AuthorID,
		AuthorName: remark.AuthorName,
		Message:    remark.Message,
		FileKey:    remark.FileKey,
		CreatedAt:  remark.CreatedAt,
	}
}
