package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"partner_portal_backend/internal/events"
	"partner_portal_backend/internal/partnerpoints/repository"
	"partner_portal_backend/internal/partnerpoints/transport"
	"partner_portal_backend/internal/shared/actor"
	"partner_portal_backend/platform/apperr"
)

type pairKey struct {
	partnerID uuid.UUID
	status    string
}

type fakeRepo struct {
	byID   map[uuid.UUID]repository.PartnerPoints
	byPair map[pairKey]uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:   make(map[uuid.UUID]repository.PartnerPoints),
		byPair: make(map[pairKey]uuid.UUID),
	}
}

func (f *fakeRepo) Upsert(_ context.Context, params repository.UpsertParams) (repository.PartnerPoints, error) {
	key := pairKey{params.PartnerID, params.Status}
	id, ok := f.byPair[key]
	if !ok {
		id = uuid.New()
		f.byPair[key] = id
	}
	entry := repository.PartnerPoints{
		ID:             id,
		PartnerID:      params.PartnerID,
		Status:         params.Status,
		Points:         params.Points,
		ApprovalStatus: params.ApprovalStatus,
	}
	f.byID[id] = entry
	return entry, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.PartnerPoints, error) {
	entry, ok := f.byID[id]
	if !ok {
		return repository.PartnerPoints{}, repository.ErrNotFound
	}
	return entry, nil
}

func (f *fakeRepo) SetApprovalStatus(_ context.Context, id uuid.UUID, approvalStatus string) (repository.PartnerPoints, error) {
	entry, ok := f.byID[id]
	if !ok {
		return repository.PartnerPoints{}, repository.ErrNotFound
	}
	entry.ApprovalStatus = approvalStatus
	f.byID[id] = entry
	return entry, nil
}

func (f *fakeRepo) ListByPartner(_ context.Context, partnerID uuid.UUID) ([]repository.PartnerPoints, error) {
	out := make([]repository.PartnerPoints, 0)
	for _, entry := range f.byID {
		if entry.PartnerID == partnerID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListPending(_ context.Context) ([]repository.PartnerPoints, error) {
	out := make([]repository.PartnerPoints, 0)
	for _, entry := range f.byID {
		if entry.ApprovalStatus == repository.ApprovalPending {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(_ context.Context, event events.Event) {
	f.published = append(f.published, event)
}

func (f *fakeBus) PublishSync(_ context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeBus) Subscribe(string, events.Handler) {}

func setReq(partnerID uuid.UUID, status string, pts int) transport.SetPartnerPointsRequest {
	return transport.SetPartnerPointsRequest{PartnerID: partnerID, Status: status, Points: pts}
}

func TestSetApprovalStateByRole(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, &fakeBus{})
	partnerID := uuid.New()

	admin := actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin}
	entry, err := svc.Set(context.Background(), setReq(partnerID, "NEW", 250), admin)
	if err != nil {
		t.Fatalf("admin Set error: %v", err)
	}
	if entry.ApprovalStatus != repository.ApprovalPending {
		t.Errorf("admin-set rate state = %q, want PENDING", entry.ApprovalStatus)
	}

	sa := actor.Actor{ID: uuid.New(), Role: actor.RoleSuperadmin}
	entry, err = svc.Set(context.Background(), setReq(partnerID, "OPD_DONE", 400), sa)
	if err != nil {
		t.Fatalf("superadmin Set error: %v", err)
	}
	if entry.ApprovalStatus != repository.ApprovalApproved {
		t.Errorf("superadmin-set rate state = %q, want APPROVED", entry.ApprovalStatus)
	}

	partner := actor.Actor{ID: partnerID, Role: actor.RolePartner}
	if _, err := svc.Set(context.Background(), setReq(partnerID, "NEW", 999), partner); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("partner Set error = %v, want forbidden", err)
	}
}

func TestUpsertKeepsOneRowPerPair(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, &fakeBus{})
	partnerID := uuid.New()
	sa := actor.Actor{ID: uuid.New(), Role: actor.RoleSuperadmin}
	admin := actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin}

	first, err := svc.Set(context.Background(), setReq(partnerID, "NEW", 250), sa)
	if err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// An admin edit of the same pair re-enters PENDING on the same row.
	second, err := svc.Set(context.Background(), setReq(partnerID, "NEW", 300), admin)
	if err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert created a second row for the same (partner, status) pair")
	}
	if second.ApprovalStatus != repository.ApprovalPending {
		t.Errorf("re-edited rate state = %q, want PENDING", second.ApprovalStatus)
	}
	if second.Points != 300 {
		t.Errorf("re-edited rate points = %d, want 300", second.Points)
	}
	if len(repo.byID) != 1 {
		t.Errorf("stored rows = %d, want 1", len(repo.byID))
	}
}

func TestApproveRejectSuperadminOnly(t *testing.T) {
	repo := newFakeRepo()
	bus := &fakeBus{}
	svc := New(repo, bus)
	partnerID := uuid.New()
	admin := actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin}
	sa := actor.Actor{ID: uuid.New(), Role: actor.RoleSuperadmin}

	entry, err := svc.Set(context.Background(), setReq(partnerID, "IPD_DONE", 4000), admin)
	if err != nil {
		t.Fatalf("Set error: %v", err)
	}

	if _, err := svc.Approve(context.Background(), entry.ID, admin); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("admin Approve error = %v, want forbidden", err)
	}

	approved, err := svc.Approve(context.Background(), entry.ID, sa)
	if err != nil {
		t.Fatalf("Approve error: %v", err)
	}
	if approved.ApprovalStatus != repository.ApprovalApproved {
		t.Errorf("state after approve = %q, want APPROVED", approved.ApprovalStatus)
	}

	// Repeated review calls simply overwrite the state.
	rejected, err := svc.Reject(context.Background(), entry.ID, sa)
	if err != nil {
		t.Fatalf("Reject error: %v", err)
	}
	if rejected.ApprovalStatus != repository.ApprovalRejected {
		t.Errorf("state after reject = %q, want REJECTED", rejected.ApprovalStatus)
	}

	if _, err := svc.Approve(context.Background(), uuid.New(), sa); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Approve on missing entry error = %v, want not found", err)
	}
}

func TestGetForPartnerScope(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, &fakeBus{})
	partnerID := uuid.New()
	sa := actor.Actor{ID: uuid.New(), Role: actor.RoleSuperadmin}

	if _, err := svc.Set(context.Background(), setReq(partnerID, "NEW", 250), sa); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	self := actor.Actor{ID: partnerID, Role: actor.RolePartner}
	entries, err := svc.GetForPartner(context.Background(), partnerID, self)
	if err != nil {
		t.Fatalf("own GetForPartner error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("entries = %d, want 1", len(entries))
	}

	other := actor.Actor{ID: uuid.New(), Role: actor.RolePartner}
	if _, err := svc.GetForPartner(context.Background(), partnerID, other); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("foreign GetForPartner error = %v, want forbidden", err)
	}

	if _, err := svc.ListPending(context.Background(), other); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("partner ListPending error = %v, want forbidden", err)
	}
}

func TestGetByIDScope(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, &fakeBus{})
	partnerID := uuid.New()
	sa := actor.Actor{ID: uuid.New(), Role: actor.RoleSuperadmin}

	entry, err := svc.Set(context.Background(), setReq(partnerID, "IPD_DONE", 4000), sa)
	if err != nil {
		t.Fatalf("Set error: %v", err)
	}

	self := actor.Actor{ID: partnerID, Role: actor.RolePartner}
	got, err := svc.GetByID(context.Background(), entry.ID, self)
	if err != nil {
		t.Fatalf("own GetByID error: %v", err)
	}
	if got.Points != 4000 {
		t.Errorf("points = %d, want 4000", got.Points)
	}

	other := actor.Actor{ID: uuid.New(), Role: actor.RolePartner}
	if _, err := svc.GetByID(context.Background(), entry.ID, other); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("foreign GetByID error = %v, want forbidden", err)
	}

	if _, err := svc.GetByID(context.Background(), uuid.New(), sa); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("missing GetByID error = %v, want not found", err)
	}
}
