// Package repository provides PostgreSQL persistence for hospitals.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("hospital not found")

type Hospital struct {
	ID        uuid.UUID
	Name      string
	Address   *string
	City      *string
	State     *string
	Country   *string
	Phone     *string
	Email     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

const hospitalColumns = `id, name, address, city, state, country, phone, email, is_active, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanHospital(row pgx.Row) (Hospital, error) {
	var h Hospital
	err := row.Scan(
		&h.ID, &h.Name, &h.Address, &h.City, &h.State, &h.Country,
		&h.Phone, &h.Email, &h.IsActive, &h.CreatedAt, &h.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Hospital{}, ErrNotFound
	}
	if err != nil {
		return Hospital{}, err
	}
	return h, nil
}

type UpsertHospitalParams struct {
	Name    string
	Address *string
	City    *string
	State   *string
	Country *string
	Phone   *string
	Email   *string
}

func (r *Repository) Create(ctx context.Context, params UpsertHospitalParams) (Hospital, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO hospitals (name, address, city, state, country, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+hospitalColumns+`
	`, params.Name, params.Address, params.City, params.State, params.Country, params.Phone, params.Email)
	return scanHospital(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Hospital, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+hospitalColumns+` FROM hospitals WHERE id = $1`, id)
	return scanHospital(row)
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpsertHospitalParams) (Hospital, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE hospitals
		SET name = $2, address = $3, city = $4, state = $5, country = $6,
			phone = $7, email = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+hospitalColumns+`
	`, id, params.Name, params.Address, params.City, params.State, params.Country, params.Phone, params.Email)
	return scanHospital(row)
}

// SoftDelete retires a hospital. Historical leads keep pointing at it.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE hospitals SET is_active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListActive returns active hospitals, optionally narrowed to a single one
// for hospital-scoped callers.
func (r *Repository) ListActive(ctx context.Context, onlyID *uuid.UUID) ([]Hospital, error) {
	query := `SELECT ` + hospitalColumns + ` FROM hospitals WHERE is_active = true ORDER BY name ASC`
	args := []interface{}{}
	if onlyID != nil {
		query = `SELECT ` + hospitalColumns + ` FROM hospitals WHERE is_active = true AND id = $1`
		args = append(args, *onlyID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hospitals := make([]Hospital, 0)
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, err
		}
		hospitals = append(hospitals, h)
	}

	return hospitals, rows.Err()
}
