package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"partner_portal_backend/internal/leads/domain"
)

// LeadMetrics aggregates KPI values for the dashboards. Duplicate audit rows
// are excluded from every figure.
type LeadMetrics struct {
	TotalLeads    int
	StatusCounts  map[string]int
	TotalPoints   int
	AssignedLeads int
}

// MetricsScope restricts the aggregates to one role's view of the data.
// Zero value means system-wide (superadmin).
type MetricsScope struct {
	HospitalID    *uuid.UUID
	PartnerID     *uuid.UUID
	SalesPersonID *uuid.UUID
}

// GetMetrics returns KPI aggregates for active (non-deleted, non-duplicate) leads.
func (r *Repository) GetMetrics(ctx context.Context, scope MetricsScope) (LeadMetrics, error) {
	whereClauses := []string{"is_deleted = false", "status <> $1"}
	args := []interface{}{domain.StatusDuplicate}
	argIdx := 2

	if scope.HospitalID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("hospital_id = $%d", argIdx))
		args = append(args, *scope.HospitalID)
		argIdx++
	}
	if scope.PartnerID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("partner_id = $%d", argIdx))
		args = append(args, *scope.PartnerID)
		argIdx++
	}
	if scope.SalesPersonID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("sales_person_id = $%d", argIdx))
		args = append(args, *scope.SalesPersonID)
		argIdx++
	}

	where := strings.Join(whereClauses, " AND ")

	metrics := LeadMetrics{StatusCounts: make(map[string]int)}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT status, COUNT(*), COALESCE(SUM(points), 0)
		FROM leads
		WHERE %s
		GROUP BY status
	`, where), args...)
	if err != nil {
		return LeadMetrics{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count, points int
		if err := rows.Scan(&status, &count, &points); err != nil {
			return LeadMetrics{}, err
		}
		metrics.StatusCounts[status] = count
		metrics.TotalLeads += count
		metrics.TotalPoints += points
	}
	if rows.Err() != nil {
		return LeadMetrics{}, rows.Err()
	}

	err = r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT COUNT(*) FROM leads WHERE %s AND sales_person_id IS NOT NULL
	`, where), args...).Scan(&metrics.AssignedLeads)
	if err != nil {
		return LeadMetrics{}, err
	}

	return metrics, nil
}

// CountDuplicates counts duplicate audit rows within the scope.
func (r *Repository) CountDuplicates(ctx context.Context, scope MetricsScope) (int, error) {
	whereClauses := []string{"is_deleted = false", "status = $1"}
	args := []interface{}{domain.StatusDuplicate}
	argIdx := 2

	if scope.HospitalID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("hospital_id = $%d", argIdx))
		args = append(args, *scope.HospitalID)
		argIdx++
	}
	if scope.PartnerID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("partner_id = $%d", argIdx))
		args = append(args, *scope.PartnerID)
		argIdx++
	}
	if scope.SalesPersonID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("sales_person_id = $%d", argIdx))
		args = append(args, *scope.SalesPersonID)
	}

	var count int
	err := r.pool.QueryRow(ctx, fmt.Sprintf(
		"SELECT COUNT(*) FROM leads WHERE %s", strings.Join(whereClauses, " AND "),
	), args...).Scan(&count)
	return count, err
}
