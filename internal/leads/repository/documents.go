package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type LeadDocument struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	FileKey     string
	FileName    string
	ContentType string
	UploadedBy  *uuid.UUID
	CreatedAt   time.Time
}

type CreateDocumentParams struct {
	LeadID      uuid.UUID
	FileKey     string
	FileName    string
	ContentType string
	UploadedBy  *uuid.UUID
}

func (r *Repository) AddDocument(ctx context.Context, params CreateDocumentParams) (LeadDocument, error) {
	var doc LeadDocument
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_documents (lead_id, file_key, file_name, content_type, uploaded_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, lead_id, file_key, file_name, content_type, uploaded_by, created_at
	`, params.LeadID, params.FileKey, params.FileName, params.ContentType, params.UploadedBy).Scan(
		&doc.ID, &doc.LeadID, &doc.FileKey, &doc.FileName, &doc.ContentType, &doc.UploadedBy, &doc.CreatedAt,
	)
	if err != nil {
		return LeadDocument{}, err
	}
	return doc, nil
}

func (r *Repository) ListDocuments(ctx context.Context, leadID uuid.UUID) ([]LeadDocument, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, file_key, file_name, content_type, uploaded_by, created_at
		FROM lead_documents
		WHERE lead_id = $1
		ORDER BY created_at ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]LeadDocument, 0)
	for rows.Next() {
		var doc LeadDocument
		if err := rows.Scan(&doc.ID, &doc.LeadID, &doc.FileKey, &doc.FileName, &doc.ContentType, &doc.UploadedBy, &doc.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return docs, nil
}

// ListDocumentFileKeys returns the storage keys for a lead's documents.
// Used to clean up the object store after a hard delete.
func (r *Repository) ListDocumentFileKeys(ctx context.Context, leadID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT file_key FROM lead_documents WHERE lead_id = $1
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}
