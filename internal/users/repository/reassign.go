package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"partner_portal_backend/platform/apperr"
)

const opReassignAdminData = "users.ReassignAdminData"

// ReassignAdminDataParams carries the pre-validated source and target of an
// admin handover. The service resolves hospitals before calling so the
// transaction itself is pure data movement.
type ReassignAdminDataParams struct {
	DeletedAdminID  uuid.UUID
	DeletedHospital uuid.UUID
	TargetAdminID   uuid.UUID
	TargetHospital  uuid.UUID
}

// txBeginner is the slice of the pool the handover needs, kept narrow so the
// transaction sequencing is testable without a live database.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ReassignAdminData moves every partner, sales person and lead from the
// deleted admin's hospital to the target admin's hospital, repoints lead
// authorship, and deletes the source admin. All five statements run in one
// transaction: either the whole handover lands or none of it does.
func (r *Repository) ReassignAdminData(ctx context.Context, params ReassignAdminDataParams) error {
	return reassignAdminData(ctx, r.pool, params)
}

func reassignAdminData(ctx context.Context, db txBeginner, params ReassignAdminDataParams) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	err = reassignAdminDataTx(ctx, tx, params)
	if err != nil {
		return classifyReassignError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return classifyReassignError(err)
	}
	return nil
}

func reassignAdminDataTx(ctx context.Context, tx pgx.Tx, params ReassignAdminDataParams) error {
	if _, err := tx.Exec(ctx, `
		UPDATE users SET hospital_id = $2, updated_at = now()
		WHERE hospital_id = $1 AND role = 'PARTNER'
	`, params.DeletedHospital, params.TargetHospital); err != nil {
		return fmt.Errorf("repoint partners: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET hospital_id = $2, updated_at = now()
		WHERE hospital_id = $1 AND role = 'SALES_PERSON'
	`, params.DeletedHospital, params.TargetHospital); err != nil {
		return fmt.Errorf("repoint sales people: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE leads SET hospital_id = $2, updated_at = now()
		WHERE hospital_id = $1
	`, params.DeletedHospital, params.TargetHospital); err != nil {
		return fmt.Errorf("repoint leads: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE leads SET created_by_id = $2, updated_at = now()
		WHERE created_by_id = $1
	`, params.DeletedAdminID, params.TargetAdminID); err != nil {
		return fmt.Errorf("repoint lead authorship: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, params.DeletedAdminID)
	if err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// classifyReassignError surfaces constraint violations as client errors
// instead of opaque 500s. Anything else stays as-is for the caller to wrap.
func classifyReassignError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return apperr.Conflict("a unique constraint would be violated by the reassignment").WithOp(opReassignAdminData)
		case "23503":
			return apperr.BadRequest("a foreign key constraint failed during the reassignment").WithOp(opReassignAdminData)
		}
	}
	return err
}
