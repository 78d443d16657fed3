package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"partner_portal_backend/internal/leads/domain"
)

// ExportRow is a denormalized lead row for tabular export, with related
// entity names resolved.
type ExportRow struct {
	Name            string
	Phone           string
	Status          string
	Points          int
	Remarks         *string
	PartnerName     *string
	SalesPersonName *string
	HospitalName    string
	CreatedByName   string
	CreatedAt       time.Time
}

// ListForExport returns all leads matching the filters with related names
// joined in. Pagination is ignored: exports cover the whole result set.
func (r *Repository) ListForExport(ctx context.Context, params ListParams) ([]ExportRow, error) {
	whereClauses := []string{"l.is_deleted = false", "l.status <> $1"}
	args := []interface{}{domain.StatusDuplicate}
	argIdx := 2

	addEquals := func(column string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.Status != nil {
		addEquals("l.status", *params.Status)
	}
	if params.HospitalID != nil {
		addEquals("l.hospital_id", *params.HospitalID)
	}
	if params.PartnerID != nil {
		addEquals("l.partner_id", *params.PartnerID)
	}
	if params.SalesPersonID != nil {
		addEquals("l.sales_person_id", *params.SalesPersonID)
	}
	if params.CreatedByID != nil {
		addEquals("l.created_by_id", *params.CreatedByID)
	}
	if params.Specialisation != nil {
		addEquals("l.specialisation", *params.Specialisation)
	}
	if params.From != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("l.created_at >= $%d", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("l.created_at <= $%d", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT l.name, l.phone, l.status, l.points, l.remarks,
			p.first_name || ' ' || p.last_name,
			sp.first_name || ' ' || sp.last_name,
			h.name,
			cb.first_name || ' ' || cb.last_name,
			l.created_at
		FROM leads l
		JOIN hospitals h ON h.id = l.hospital_id
		JOIN users cb ON cb.id = l.created_by_id
		LEFT JOIN users p ON p.id = l.partner_id
		LEFT JOIN users sp ON sp.id = l.sales_person_id
		WHERE %s
		ORDER BY l.created_at DESC
	`, strings.Join(whereClauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ExportRow, 0)
	for rows.Next() {
		var row ExportRow
		if err := rows.Scan(
			&row.Name, &row.Phone, &row.Status, &row.Points, &row.Remarks,
			&row.PartnerName, &row.SalesPersonName, &row.HospitalName, &row.CreatedByName, &row.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	return out, rows.Err()
}
