package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"partner_portal_backend/internal/hospitals/repository"
	"partner_portal_backend/internal/hospitals/transport"
	"partner_portal_backend/internal/shared/actor"
	"partner_portal_backend/platform/apperr"
)

type fakeRepo struct {
	hospitals map[uuid.UUID]repository.Hospital
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{hospitals: make(map[uuid.UUID]repository.Hospital)}
}

func (f *fakeRepo) Create(_ context.Context, params repository.UpsertHospitalParams) (repository.Hospital, error) {
	h := repository.Hospital{
		ID: uuid.New(), Name: params.Name, Address: params.Address, City: params.City,
		State: params.State, Country: params.Country, Phone: params.Phone, Email: params.Email,
		IsActive: true,
	}
	f.hospitals[h.ID] = h
	return h, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Hospital, error) {
	h, ok := f.hospitals[id]
	if !ok {
		return repository.Hospital{}, repository.ErrNotFound
	}
	return h, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, params repository.UpsertHospitalParams) (repository.Hospital, error) {
	h, ok := f.hospitals[id]
	if !ok {
		return repository.Hospital{}, repository.ErrNotFound
	}
	h.Name = params.Name
	f.hospitals[id] = h
	return h, nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	h, ok := f.hospitals[id]
	if !ok {
		return repository.ErrNotFound
	}
	h.IsActive = false
	f.hospitals[id] = h
	return nil
}

func (f *fakeRepo) ListActive(_ context.Context, onlyID *uuid.UUID) ([]repository.Hospital, error) {
	out := make([]repository.Hospital, 0)
	for _, h := range f.hospitals {
		if !h.IsActive {
			continue
		}
		if onlyID != nil && h.ID != *onlyID {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func superadmin() actor.Actor {
	return actor.Actor{ID: uuid.New(), Role: actor.RoleSuperadmin}
}

func TestWriteOperationsAreSuperadminOnly(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo)
	hospitalID := uuid.New()
	admin := actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin, HospitalID: &hospitalID}
	req := transport.UpsertHospitalRequest{Name: "City Care"}

	if _, err := svc.Create(context.Background(), req, admin); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("admin Create error = %v, want forbidden", err)
	}
	if _, err := svc.Update(context.Background(), hospitalID, req, admin); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("admin Update error = %v, want forbidden", err)
	}
	if err := svc.Delete(context.Background(), hospitalID, admin); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("admin Delete error = %v, want forbidden", err)
	}

	created, err := svc.Create(context.Background(), req, superadmin())
	if err != nil {
		t.Fatalf("superadmin Create error: %v", err)
	}
	if created.Name != "City Care" || !created.IsActive {
		t.Errorf("created = %+v, want active City Care", created)
	}
}

func TestDeleteIsSoft(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo)
	sa := superadmin()

	created, err := svc.Create(context.Background(), transport.UpsertHospitalRequest{Name: "City Care"}, sa)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID, sa); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	stored, ok := repo.hospitals[created.ID]
	if !ok {
		t.Fatalf("delete removed the row instead of retiring it")
	}
	if stored.IsActive {
		t.Errorf("deleted hospital still active")
	}

	// Retired hospitals read as gone.
	if _, err := svc.GetByID(context.Background(), created.ID, sa); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("GetByID after delete error = %v, want not found", err)
	}
}

func TestListScopesByRole(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo)
	sa := superadmin()

	first, _ := svc.Create(context.Background(), transport.UpsertHospitalRequest{Name: "Alpha"}, sa)
	if _, err := svc.Create(context.Background(), transport.UpsertHospitalRequest{Name: "Beta"}, sa); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	all, err := svc.List(context.Background(), sa)
	if err != nil {
		t.Fatalf("superadmin List error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("superadmin list = %d hospitals, want 2", len(all))
	}

	admin := actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin, HospitalID: &first.ID}
	own, err := svc.List(context.Background(), admin)
	if err != nil {
		t.Fatalf("admin List error: %v", err)
	}
	if len(own) != 1 || own[0].ID != first.ID {
		t.Errorf("admin list = %+v, want only own hospital", own)
	}

	partner := actor.Actor{ID: uuid.New(), Role: actor.RolePartner, HospitalID: &first.ID}
	none, err := svc.List(context.Background(), partner)
	if err != nil {
		t.Fatalf("partner List error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("partner list = %d hospitals, want 0", len(none))
	}
}

func TestGetByIDScope(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo)
	sa := superadmin()

	created, err := svc.Create(context.Background(), transport.UpsertHospitalRequest{Name: "Alpha"}, sa)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	foreign := uuid.New()
	admin := actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin, HospitalID: &foreign}
	if _, err := svc.GetByID(context.Background(), created.ID, admin); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("foreign admin GetByID error = %v, want forbidden", err)
	}

	own := actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin, HospitalID: &created.ID}
	if _, err := svc.GetByID(context.Background(), created.ID, own); err != nil {
		t.Errorf("own admin GetByID error = %v", err)
	}
}
