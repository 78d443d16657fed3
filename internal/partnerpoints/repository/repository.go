// Package repository provides pgx-backed persistence for partner point rates.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("partner points entry not found")

// Approval states for a partner rate.
const (
	ApprovalPending  = "PENDING"
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// PartnerPoints is a partner's custom point rate for one lead status.
// At most one row exists per (partner, status).
type PartnerPoints struct {
	ID             uuid.UUID
	PartnerID      uuid.UUID
	Status         string
	Points         int
	ApprovalStatus string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const entryColumns = `id, partner_id, status, points, approval_status, created_at, updated_at`

func scanEntry(row pgx.Row) (PartnerPoints, error) {
	var e PartnerPoints
	err := row.Scan(&e.ID, &e.PartnerID, &e.Status, &e.Points, &e.ApprovalStatus, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

type UpsertParams struct {
	PartnerID      uuid.UUID
	Status         string
	Points         int
	ApprovalStatus string
}

// Upsert writes the rate for (partner, status), replacing points and approval
// state when the pair already exists.
func (r *Repository) Upsert(ctx context.Context, params UpsertParams) (PartnerPoints, error) {
	entry, err := scanEntry(r.pool.QueryRow(ctx, `
		INSERT INTO partner_points (partner_id, status, points, approval_status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (partner_id, status)
		DO UPDATE SET points = EXCLUDED.points,
			approval_status = EXCLUDED.approval_status,
			updated_at = now()
		RETURNING `+entryColumns,
		params.PartnerID, params.Status, params.Points, params.ApprovalStatus,
	))
	if err != nil {
		return PartnerPoints{}, err
	}
	return entry, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (PartnerPoints, error) {
	entry, err := scanEntry(r.pool.QueryRow(ctx, `
		SELECT `+entryColumns+` FROM partner_points WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return PartnerPoints{}, ErrNotFound
	}
	return entry, err
}

// SetApprovalStatus overwrites the approval state. Repeated calls with the
// same target state are harmless.
func (r *Repository) SetApprovalStatus(ctx context.Context, id uuid.UUID, approvalStatus string) (PartnerPoints, error) {
	entry, err := scanEntry(r.pool.QueryRow(ctx, `
		UPDATE partner_points
		SET approval_status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+entryColumns,
		id, approvalStatus,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return PartnerPoints{}, ErrNotFound
	}
	return entry, err
}

func (r *Repository) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]PartnerPoints, error) {
	return r.list(ctx, `
		SELECT `+entryColumns+` FROM partner_points
		WHERE partner_id = $1
		ORDER BY status ASC
	`, partnerID)
}

// ListPending returns rates awaiting superadmin review, oldest first.
func (r *Repository) ListPending(ctx context.Context) ([]PartnerPoints, error) {
	return r.list(ctx, `
		SELECT `+entryColumns+` FROM partner_points
		WHERE approval_status = $1
		ORDER BY updated_at ASC
	`, ApprovalPending)
}

func (r *Repository) list(ctx context.Context, query string, args ...interface{}) ([]PartnerPoints, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]PartnerPoints, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

const approvedRateQuery = `
	SELECT points FROM partner_points
	WHERE partner_id = $1 AND status = $2 AND approval_status = 'APPROVED'
`

// ApprovedRate returns the approved rate for (partnerID, status) and whether
// one exists. Pending and rejected rows never resolve; this is the lookup the
// lead points resolver consumes.
func (r *Repository) ApprovedRate(ctx context.Context, partnerID uuid.UUID, status string) (int, bool, error) {
	var pts int
	err := r.pool.QueryRow(ctx, approvedRateQuery, partnerID, status).Scan(&pts)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return pts, true, nil
}
