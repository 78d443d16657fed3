// Package repository provides PostgreSQL persistence for the user directory.
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
)

var ErrNotFound = errors.New("user not found")

// Onboarding statuses for partner accounts.
const (
	StatusOnboarding = "ONBOARDING"
	StatusActive     = "ACTIVE"
	StatusRejected   = "REJECTED"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         string
	HospitalID   *uuid.UUID
	Phone        *string
	PartnerType  *string
	Status       *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name the way list views render users.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

const userColumns = `id, email, password_hash, first_name, last_name, role, hospital_id, phone, partner_type, status, is_active, created_at, updated_at`

// activeSalesRosterQuery orders by (created_at, id) so the round-robin
// rotation over the roster is deterministic even when two sales people
// were created in the same instant.
const activeSalesRosterQuery = `
	SELECT id FROM users
	WHERE role = 'SALES_PERSON' AND is_active = true AND hospital_id = $1
	ORDER BY created_at ASC, id ASC
`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role,
		&u.HospitalID, &u.Phone, &u.PartnerType, &u.Status, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

type CreateUserParams struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         string
	HospitalID   *uuid.UUID
	Phone        *string
	PartnerType  *string
	Status       *string
	IsActive     bool
}

func (r *Repository) Create(ctx context.Context, params CreateUserParams) (User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, role, hospital_id, phone, partner_type, status, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+userColumns+`
	`, params.Email, params.PasswordHash, params.FirstName, params.LastName, params.Role,
		params.HospitalID, params.Phone, params.PartnerType, params.Status, params.IsActive)
	return scanUser(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

type UpdateUserParams struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Role        string
	HospitalID  *uuid.UUID
	Phone       *string
	PartnerType *string
	IsActive    bool
}

func (r *Repository) Update(ctx context.Context, params UpdateUserParams) (User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, role = $4, hospital_id = $5,
			phone = $6, partner_type = $7, is_active = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, params.ID, params.FirstName, params.LastName, params.Role, params.HospitalID,
		params.Phone, params.PartnerType, params.IsActive)
	return scanUser(row)
}

// SetOnboardingState flips a partner account's activation and onboarding
// status in one statement. An optional hospital assignment rides along for
// the approve-and-assign flow.
func (r *Repository) SetOnboardingState(ctx context.Context, id uuid.UUID, isActive bool, status string, hospitalID *uuid.UUID) (User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET is_active = $2, status = $3, hospital_id = COALESCE($4, hospital_id), updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, isActive, status, hospitalID)
	return scanUser(row)
}

func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) HardDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type ListParams struct {
	Role       *string
	HospitalID *uuid.UUID
	// UnassignedOnly selects users with no hospital, used for the pending
	// partner onboarding queue. Mutually exclusive with HospitalID.
	UnassignedOnly bool
	Status         *string
	// ActiveOnly hides deactivated accounts; the onboarding queue needs
	// them visible.
	ActiveOnly bool
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]User, error) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	addEquals := func(column string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.Role != nil {
		addEquals("role", *params.Role)
	}
	if params.UnassignedOnly {
		whereClauses = append(whereClauses, "hospital_id IS NULL")
	} else if params.HospitalID != nil {
		addEquals("hospital_id", *params.HospitalID)
	}
	if params.Status != nil {
		addEquals("status", *params.Status)
	}
	if params.ActiveOnly {
		whereClauses = append(whereClauses, "is_active = true")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE %s
		ORDER BY created_at DESC
	`, userColumns, strings.Join(whereClauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// ListActiveSalesPeople returns the hospital's active sales roster in
// rotation order.
func (r *Repository) ListActiveSalesPeople(ctx context.Context, hospitalID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, activeSalesRosterQuery, hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
