// Package points computes the incentive value awarded to a lead.
package points

import (
	"context"

	"github.com/google/uuid"

	"partner_portal_backend/internal/leads/domain"
)

// RateReader looks up a partner's approved custom point rate for a status.
type RateReader interface {
	// ApprovedRate returns the rate for (partnerID, status) and whether one
	// exists. Pending and rejected rates must never be returned.
	ApprovedRate(ctx context.Context, partnerID uuid.UUID, status string) (int, bool, error)
}

// Resolver computes the point value to assign to a lead.
//
// Precedence: explicit override (superadmin only) wins over everything,
// then an approved partner rate, then the static default for the status.
type Resolver struct {
	rates RateReader
}

func NewResolver(rates RateReader) *Resolver {
	return &Resolver{rates: rates}
}

// Resolve returns the point value for a lead in the given status.
// partnerID and override are both optional.
func (r *Resolver) Resolve(ctx context.Context, status string, partnerID *uuid.UUID, override *int) (int, error) {
	if override != nil {
		return *override, nil
	}

	if partnerID != nil {
		rate, ok, err := r.rates.ApprovedRate(ctx, *partnerID, status)
		if err != nil {
			return 0, err
		}
		if ok {
			return rate, nil
		}
	}

	return domain.DefaultPoints(status), nil
}
