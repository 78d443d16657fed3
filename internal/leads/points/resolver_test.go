package points

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"partner_portal_backend/internal/leads/domain"
)

type rateKey struct {
	partnerID uuid.UUID
	status    string
}

// fakeRates returns only the rates seeded into approved; it stands in for
// the partner points store, which never surfaces pending or rejected rows.
type fakeRates struct {
	approved map[rateKey]int
	err      error
}

func (f *fakeRates) ApprovedRate(_ context.Context, partnerID uuid.UUID, status string) (int, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	rate, ok := f.approved[rateKey{partnerID, status}]
	return rate, ok, nil
}

func intPtr(v int) *int { return &v }

func TestResolveDefaults(t *testing.T) {
	r := NewResolver(&fakeRates{})

	tests := []struct {
		status string
		want   int
	}{
		{domain.StatusNew, 100},
		{domain.StatusOpdDone, 200},
		{domain.StatusIpdDone, 3500},
		{domain.StatusNotReachable, 0},
		{domain.StatusNotInterested, 0},
		{domain.StatusClosed, 0},
		{domain.StatusDuplicate, 0},
	}

	for _, tc := range tests {
		got, err := r.Resolve(context.Background(), tc.status, nil, nil)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", tc.status, err)
		}
		if got != tc.want {
			t.Errorf("Resolve(%q, nil, nil) = %d, want %d", tc.status, got, tc.want)
		}
	}
}

func TestResolveApprovedPartnerRateWins(t *testing.T) {
	partnerID := uuid.New()
	r := NewResolver(&fakeRates{approved: map[rateKey]int{
		{partnerID, domain.StatusNew}: 250,
	}})

	got, err := r.Resolve(context.Background(), domain.StatusNew, &partnerID, nil)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got != 250 {
		t.Errorf("Resolve with approved rate = %d, want 250", got)
	}

	// A status without a partner rate falls through to the default.
	got, err = r.Resolve(context.Background(), domain.StatusIpdDone, &partnerID, nil)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got != 3500 {
		t.Errorf("Resolve without approved rate = %d, want default 3500", got)
	}
}

func TestResolveUnapprovedRateIgnored(t *testing.T) {
	// The rate reader only surfaces approved rows, so a partner whose rate
	// is pending or rejected resolves to the default.
	partnerID := uuid.New()
	r := NewResolver(&fakeRates{approved: map[rateKey]int{}})

	got, err := r.Resolve(context.Background(), domain.StatusNew, &partnerID, nil)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got != 100 {
		t.Errorf("Resolve with no approved rate = %d, want default 100", got)
	}
}

func TestResolveOverrideWins(t *testing.T) {
	partnerID := uuid.New()
	r := NewResolver(&fakeRates{approved: map[rateKey]int{
		{partnerID, domain.StatusNew}: 250,
	}})

	got, err := r.Resolve(context.Background(), domain.StatusNew, &partnerID, intPtr(9999))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got != 9999 {
		t.Errorf("Resolve with override = %d, want 9999", got)
	}

	// An override of zero is still an override.
	got, err = r.Resolve(context.Background(), domain.StatusIpdDone, nil, intPtr(0))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got != 0 {
		t.Errorf("Resolve with zero override = %d, want 0", got)
	}
}

func TestResolvePropagatesRateError(t *testing.T) {
	partnerID := uuid.New()
	wantErr := errors.New("store down")
	r := NewResolver(&fakeRates{err: wantErr})

	_, err := r.Resolve(context.Background(), domain.StatusNew, &partnerID, nil)
	if !errors.Is(err, wantErr) {
		t.Errorf("Resolve error = %v, want %v", err, wantErr)
	}

	// The override path never touches the store.
	got, err := r.Resolve(context.Background(), domain.StatusNew, &partnerID, intPtr(500))
	if err != nil {
		t.Fatalf("Resolve with override should not hit the store: %v", err)
	}
	if got != 500 {
		t.Errorf("Resolve with override = %d, want 500", got)
	}
}
