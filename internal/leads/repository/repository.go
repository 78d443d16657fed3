// Package repository provides pgx-backed persistence for the leads bounded context.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"partner_portal_backend/internal/leads/domain"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID             uuid.UUID
	Name           string
	Phone          string
	Status         string
	Points         int
	PointsOverride *int
	Specialisation string
	Remarks        *string
	HospitalID     uuid.UUID
	PartnerID      *uuid.UUID
	SalesPersonID  *uuid.UUID
	CreatedByID    uuid.UUID
	IsDeleted      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const leadColumns = `id, name, phone, status, points, points_override, specialisation, remarks,
	hospital_id, partner_id, sales_person_id, created_by_id, is_deleted, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Phone, &lead.Status, &lead.Points, &lead.PointsOverride,
		&lead.Specialisation, &lead.Remarks, &lead.HospitalID, &lead.PartnerID, &lead.SalesPersonID,
		&lead.CreatedByID, &lead.IsDeleted, &lead.CreatedAt, &lead.UpdatedAt,
	)
	return lead, err
}

type CreateLeadParams struct {
	Name           string
	Phone          string
	Status         string
	Points         int
	PointsOverride *int
	Specialisation string
	Remarks        *string
	HospitalID     uuid.UUID
	PartnerID      *uuid.UUID
	SalesPersonID  *uuid.UUID
	CreatedByID    uuid.UUID
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			name, phone, status, points, points_override, specialisation, remarks,
			hospital_id, partner_id, sales_person_id, created_by_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+leadColumns,
		params.Name, params.Phone, params.Status, params.Points, params.PointsOverride,
		params.Specialisation, params.Remarks, params.HospitalID, params.PartnerID,
		params.SalesPersonID, params.CreatedByID,
	))
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE id = $1 AND is_deleted = false
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// GetByIDWithDocuments returns a lead with all its documents populated.
func (r *Repository) GetByIDWithDocuments(ctx context.Context, id uuid.UUID) (Lead, []LeadDocument, error) {
	lead, err := r.GetByID(ctx, id)
	if err != nil {
		return Lead{}, nil, err
	}

	docs, err := r.ListDocuments(ctx, id)
	if err != nil {
		return Lead{}, nil, err
	}

	return lead, docs, nil
}

const findActiveDuplicateQuery = `
	SELECT ` + leadColumns + `
	FROM leads
	WHERE phone = $1 AND is_deleted = false
	ORDER BY created_at DESC
	LIMIT 1
`

// FindActiveDuplicate returns the most recent non-deleted lead with the given
// phone, regardless of status or hospital. The check is deliberately
// system-wide: a phone already referred anywhere blocks a new referral.
func (r *Repository) FindActiveDuplicate(ctx context.Context, phone string) (Lead, bool, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, findActiveDuplicateQuery, phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, false, nil
	}
	if err != nil {
		return Lead{}, false, err
	}
	return lead, true, nil
}

type UpdateLeadParams struct {
	Name           string
	Phone          string
	Status         string
	Points         int
	PointsOverride *int
	Specialisation string
	Remarks        *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads
		SET name = $2, phone = $3, status = $4, points = $5, points_override = $6,
			specialisation = $7, remarks = $8, updated_at = now()
		WHERE id = $1 AND is_deleted = false
		RETURNING `+leadColumns,
		id, params.Name, params.Phone, params.Status, params.Points, params.PointsOverride,
		params.Specialisation, params.Remarks,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type ReassignParams struct {
	PartnerID     *uuid.UUID
	SalesPersonID *uuid.UUID
}

// Reassign updates only the ownership fields that are provided, leaving the
// other untouched.
func (r *Repository) Reassign(ctx context.Context, id uuid.UUID, params ReassignParams) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads
		SET partner_id = COALESCE($2, partner_id),
			sales_person_id = COALESCE($3, sales_person_id),
			updated_at = now()
		WHERE id = $1 AND is_deleted = false
		RETURNING `+leadColumns,
		id, params.PartnerID, params.SalesPersonID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// Delete hard-deletes the lead row. Documents are removed by the ON DELETE
// CASCADE constraint; callers must collect file keys beforehand for storage
// cleanup.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const lastAssignedSalesPersonQuery = `
	SELECT sales_person_id
	FROM leads
	WHERE hospital_id = $1 AND sales_person_id IS NOT NULL
	ORDER BY created_at DESC, id DESC
	LIMIT 1
`

// LastAssignedSalesPerson returns the sales person on the hospital's most
// recently created lead that has one, or nil when no lead has been assigned.
func (r *Repository) LastAssignedSalesPerson(ctx context.Context, hospitalID uuid.UUID) (*uuid.UUID, error) {
	var salesPersonID uuid.UUID
	err := r.pool.QueryRow(ctx, lastAssignedSalesPersonQuery, hospitalID).Scan(&salesPersonID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &salesPersonID, nil
}

type ListParams struct {
	HospitalID     *uuid.UUID
	PartnerID      *uuid.UUID
	SalesPersonID  *uuid.UUID
	CreatedByID    *uuid.UUID
	Status         *string
	Specialisation *string
	Search         *string
	From           *time.Time
	To             *time.Time

	// OnlyDuplicates switches the listing to the duplicate audit view.
	// By default DUPLICATE rows are excluded entirely.
	OnlyDuplicates bool

	// IncludeDeleted keeps soft-deleted rows in the result. Only the
	// admin views set this.
	IncludeDeleted bool

	Limit  int
	Offset int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	whereClause, args, argIdx := buildLeadListWhere(params)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leads WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM leads
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}

	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

func buildLeadListWhere(params ListParams) (string, []interface{}, int) {
	whereClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	if !params.IncludeDeleted {
		whereClauses = append(whereClauses, "is_deleted = false")
	}

	if params.OnlyDuplicates {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, domain.StatusDuplicate)
		argIdx++
	} else {
		whereClauses = append(whereClauses, fmt.Sprintf("status <> $%d", argIdx))
		args = append(args, domain.StatusDuplicate)
		argIdx++
		if params.Status != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
			args = append(args, *params.Status)
			argIdx++
		}
	}

	addEquals := func(column string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.HospitalID != nil {
		addEquals("hospital_id", *params.HospitalID)
	}
	if params.PartnerID != nil {
		addEquals("partner_id", *params.PartnerID)
	}
	if params.SalesPersonID != nil {
		addEquals("sales_person_id", *params.SalesPersonID)
	}
	if params.CreatedByID != nil {
		addEquals("created_by_id", *params.CreatedByID)
	}
	if params.Specialisation != nil {
		addEquals("specialisation", *params.Specialisation)
	}
	if params.From != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at <= $%d", argIdx))
		args = append(args, *params.To)
		argIdx++
	}
	if params.Search != nil && *params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(name ILIKE $%d OR phone ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*params.Search+"%")
		argIdx++
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}
