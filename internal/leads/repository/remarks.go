package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LeadRemark is an append-only chat message on a lead. Remarks are never
// updated or deleted.
type LeadRemark struct {
	ID         uuid.UUID
	LeadID     uuid.UUID
	AuthorID   uuid.UUID
	AuthorName string
	Message    *string
	FileKey    *string
	CreatedAt  time.Time
}

type CreateRemarkParams struct {
	LeadID   uuid.UUID
	AuthorID uuid.UUID
	Message  *string
	FileKey  *string
}

func (r *Repository) AddRemark(ctx context.Context, params CreateRemarkParams) (LeadRemark, error) {
	var remark LeadRemark
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_remarks (lead_id, author_id, message, file_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, lead_id, author_id, message, file_key, created_at
	`, params.LeadID, params.AuthorID, params.Message, params.FileKey).Scan(
		&remark.ID, &remark.LeadID, &remark.AuthorID, &remark.Message, &remark.FileKey, &remark.CreatedAt,
	)
	if err != nil {
		return LeadRemark{}, err
	}
	return remark, nil
}

func (r *Repository) ListRemarks(ctx context.Context, leadID uuid.UUID) ([]LeadRemark, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT lr.id, lr.lead_id, lr.author_id, u.first_name || ' ' || u.last_name, lr.message, lr.file_key, lr.created_at
		FROM lead_remarks lr
		JOIN users u ON u.id = lr.author_id
		WHERE lr.lead_id = $1
		ORDER BY lr.created_at ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	remarks := make([]LeadRemark, 0)
	for rows.Next() {
		var remark LeadRemark
		if err := rows.Scan(&remark.ID, &remark.LeadID, &remark.AuthorID, &remark.AuthorName, &remark.Message, &remark.FileKey, &remark.CreatedAt); err != nil {
			return nil, err
		}
		remarks = append(remarks, remark)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return remarks, nil
}
