package repository

import (
	"context"

	"github.com/google/uuid"
)

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	GetByIDWithDocuments(ctx context.Context, id uuid.UUID) (Lead, []LeadDocument, error)
	List(ctx context.Context, params ListParams) ([]Lead, int, error)
	ListForExport(ctx context.Context, params ListParams) ([]ExportRow, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error)
	Reassign(ctx context.Context, id uuid.UUID, params ReassignParams) (Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DuplicateFinder performs the system-wide active-lead phone check.
type DuplicateFinder interface {
	FindActiveDuplicate(ctx context.Context, phone string) (Lead, bool, error)
}

// AssignmentHistory exposes the lookup the round-robin rotator needs.
type AssignmentHistory interface {
	LastAssignedSalesPerson(ctx context.Context, hospitalID uuid.UUID) (*uuid.UUID, error)
}

// DocumentStore manages lead document records.
type DocumentStore interface {
	AddDocument(ctx context.Context, params CreateDocumentParams) (LeadDocument, error)
	ListDocuments(ctx context.Context, leadID uuid.UUID) ([]LeadDocument, error)
	ListDocumentFileKeys(ctx context.Context, leadID uuid.UUID) ([]string, error)
}

// RemarkStore manages the append-only remark log on leads.
type RemarkStore interface {
	AddRemark(ctx context.Context, params CreateRemarkParams) (LeadRemark, error)
	ListRemarks(ctx context.Context, leadID uuid.UUID) ([]LeadRemark, error)
}

// MetricsReader provides access to lead KPI aggregates.
type MetricsReader interface {
	GetMetrics(ctx context.Context, scope MetricsScope) (LeadMetrics, error)
	CountDuplicates(ctx context.Context, scope MetricsScope) (int, error)
}

// LeadsRepository is the complete interface for leads data operations,
// composed of the focused interfaces above.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	DuplicateFinder
	AssignmentHistory
	DocumentStore
	RemarkStore
	MetricsReader
}

// Ensure Repository implements LeadsRepository
var _ LeadsRepository = (*Repository)(nil)
