// Package assignment distributes new leads across a hospital's active
// sales people in round-robin order.
package assignment

import (
	"context"

	"github.com/google/uuid"
)

// RosterReader lists a hospital's active sales people ordered by account
// creation time, ties broken by id.
type RosterReader interface {
	ListActiveSalesPeople(ctx context.Context, hospitalID uuid.UUID) ([]uuid.UUID, error)
}

// HistoryReader returns the sales person on the hospital's most recently
// created lead that has one, or nil when no lead has been assigned yet.
type HistoryReader interface {
	LastAssignedSalesPerson(ctx context.Context, hospitalID uuid.UUID) (*uuid.UUID, error)
}

// Rotator derives the next assignee entirely from persisted history.
// There is no rotation cursor; concurrent creations against the same
// hospital can pick the same person, which is accepted as best-effort
// fairness rather than a strict guarantee.
type Rotator struct {
	roster  RosterReader
	history HistoryReader
}

func NewRotator(roster RosterReader, history HistoryReader) *Rotator {
	return &Rotator{roster: roster, history: history}
}

// Next returns the next sales person for the hospital, or nil when the
// hospital has no active sales people.
func (r *Rotator) Next(ctx context.Context, hospitalID uuid.UUID) (*uuid.UUID, error) {
	roster, err := r.roster.ListActiveSalesPeople(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, nil
	}

	last, err := r.history.LastAssignedSalesPerson(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	if last != nil {
		for i, id := range roster {
			if id == *last {
				next := roster[(i+1)%len(roster)]
				return &next, nil
			}
		}
	}

	// No prior assignment, or the last assignee was deactivated since.
	first := roster[0]
	return &first, nil
}
