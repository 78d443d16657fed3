package management

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"partner_portal_backend/internal/adapters/storage"
	"partner_portal_backend/internal/events"
	"partner_portal_backend/internal/leads/domain"
	"partner_portal_backend/internal/leads/repository"
	"partner_portal_backend/internal/leads/transport"
	"partner_portal_backend/internal/shared/actor"
	"partner_portal_backend/platform/apperr"
	"partner_portal_backend/platform/logger"
)

// ===== fakes =====

type fakeRepo struct {
	leads     map[uuid.UUID]repository.Lead
	documents map[uuid.UUID][]repository.LeadDocument
	remarks   map[uuid.UUID][]repository.LeadRemark
	createErr error

	exportRows   []repository.ExportRow
	exportParams *repository.ListParams
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		leads:     make(map[uuid.UUID]repository.Lead),
		documents: make(map[uuid.UUID][]repository.LeadDocument),
		remarks:   make(map[uuid.UUID][]repository.LeadRemark),
	}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok || lead.IsDeleted {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeRepo) GetByIDWithDocuments(ctx context.Context, id uuid.UUID) (repository.Lead, []repository.LeadDocument, error) {
	lead, err := f.GetByID(ctx, id)
	if err != nil {
		return repository.Lead{}, nil, err
	}
	return lead, f.documents[id], nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.Lead, int, error) {
	out := make([]repository.Lead, 0)
	for _, lead := range f.leads {
		if lead.IsDeleted {
			continue
		}
		if params.OnlyDuplicates != (lead.Status == domain.StatusDuplicate) {
			continue
		}
		if params.HospitalID != nil && lead.HospitalID != *params.HospitalID {
			continue
		}
		if params.PartnerID != nil && (lead.PartnerID == nil || *lead.PartnerID != *params.PartnerID) {
			continue
		}
		if params.SalesPersonID != nil && (lead.SalesPersonID == nil || *lead.SalesPersonID != *params.SalesPersonID) {
			continue
		}
		out = append(out, lead)
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListForExport(_ context.Context, params repository.ListParams) ([]repository.ExportRow, error) {
	f.exportParams = &params
	return f.exportRows, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	if f.createErr != nil {
		return repository.Lead{}, f.createErr
	}
	lead := repository.Lead{
		ID:             uuid.New(),
		Name:           params.Name,
		Phone:          params.Phone,
		Status:         params.Status,
		Points:         params.Points,
		PointsOverride: params.PointsOverride,
		Specialisation: params.Specialisation,
		Remarks:        params.Remarks,
		HospitalID:     params.HospitalID,
		PartnerID:      params.PartnerID,
		SalesPersonID:  params.SalesPersonID,
		CreatedByID:    params.CreatedByID,
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, params repository.UpdateLeadParams) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok || lead.IsDeleted {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.Name = params.Name
	lead.Phone = params.Phone
	lead.Status = params.Status
	lead.Points = params.Points
	lead.PointsOverride = params.PointsOverride
	lead.Specialisation = params.Specialisation
	lead.Remarks = params.Remarks
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) Reassign(_ context.Context, id uuid.UUID, params repository.ReassignParams) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok || lead.IsDeleted {
		return repository.Lead{}, repository.ErrNotFound
	}
	if params.PartnerID != nil {
		lead.PartnerID = params.PartnerID
	}
	if params.SalesPersonID != nil {
		lead.SalesPersonID = params.SalesPersonID
	}
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.leads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.leads, id)
	delete(f.documents, id)
	return nil
}

func (f *fakeRepo) FindActiveDuplicate(_ context.Context, phone string) (repository.Lead, bool, error) {
	for _, lead := range f.leads {
		if lead.Phone == phone && !lead.IsDeleted {
			return lead, true, nil
		}
	}
	return repository.Lead{}, false, nil
}

func (f *fakeRepo) AddDocument(_ context.Context, params repository.CreateDocumentParams) (repository.LeadDocument, error) {
	doc := repository.LeadDocument{
		ID:          uuid.New(),
		LeadID:      params.LeadID,
		FileKey:     params.FileKey,
		FileName:    params.FileName,
		ContentType: params.ContentType,
		UploadedBy:  params.UploadedBy,
	}
	f.documents[params.LeadID] = append(f.documents[params.LeadID], doc)
	return doc, nil
}

func (f *fakeRepo) ListDocuments(_ context.Context, leadID uuid.UUID) ([]repository.LeadDocument, error) {
	return f.documents[leadID], nil
}

func (f *fakeRepo) ListDocumentFileKeys(_ context.Context, leadID uuid.UUID) ([]string, error) {
	keys := make([]string, 0)
	for _, doc := range f.documents[leadID] {
		keys = append(keys, doc.FileKey)
	}
	return keys, nil
}

func (f *fakeRepo) AddRemark(_ context.Context, params repository.CreateRemarkParams) (repository.LeadRemark, error) {
	remark := repository.LeadRemark{
		ID:       uuid.New(),
		LeadID:   params.LeadID,
		AuthorID: params.AuthorID,
		Message:  params.Message,
		FileKey:  params.FileKey,
	}
	f.remarks[params.LeadID] = append(f.remarks[params.LeadID], remark)
	return remark, nil
}

func (f *fakeRepo) ListRemarks(_ context.Context, leadID uuid.UUID) ([]repository.LeadRemark, error) {
	return f.remarks[leadID], nil
}

func (f *fakeRepo) GetMetrics(_ context.Context, _ repository.MetricsScope) (repository.LeadMetrics, error) {
	return repository.LeadMetrics{StatusCounts: map[string]int{}}, nil
}

func (f *fakeRepo) CountDuplicates(_ context.Context, _ repository.MetricsScope) (int, error) {
	count := 0
	for _, lead := range f.leads {
		if lead.Status == domain.StatusDuplicate && !lead.IsDeleted {
			count++
		}
	}
	return count, nil
}

type fakeResolver struct {
	rates map[string]int // key: partnerID/status
}

func (f *fakeResolver) Resolve(_ context.Context, status string, partnerID *uuid.UUID, override *int) (int, error) {
	if override != nil {
		return *override, nil
	}
	if partnerID != nil {
		if rate, ok := f.rates[partnerID.String()+"/"+status]; ok {
			return rate, nil
		}
	}
	return domain.DefaultPoints(status), nil
}

type fakeRotator struct {
	next *uuid.UUID
	err  error
}

func (f *fakeRotator) Next(_ context.Context, _ uuid.UUID) (*uuid.UUID, error) {
	return f.next, f.err
}

type fakeStore struct {
	uploaded   []string
	deleted    []string
	uploadErr  error
	deleteErr  error
	presignErr error
}

func (f *fakeStore) UploadFile(_ context.Context, _, folder, fileName, _ string, _ io.Reader, _ int64) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	key := folder + "/" + fileName
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeStore) GenerateDownloadURL(_ context.Context, _, fileKey string) (*storage.PresignedURL, error) {
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	return &storage.PresignedURL{URL: "https://files.test/" + fileKey, FileKey: fileKey}, nil
}

func (f *fakeStore) DeleteObject(_ context.Context, _, fileKey string) error {
	f.deleted = append(f.deleted, fileKey)
	return f.deleteErr
}

func (f *fakeStore) ValidateContentType(string) error { return nil }
func (f *fakeStore) ValidateFileSize(int64) error     { return nil }

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

// ===== helpers =====

type fixture struct {
	svc   *Service
	repo  *fakeRepo
	bus   *fakeBus
	store *fakeStore
}

func newFixture(rotatorNext *uuid.UUID) *fixture {
	repo := newFakeRepo()
	bus := &fakeBus{}
	store := &fakeStore{}
	svc := New(repo, &fakeResolver{}, &fakeRotator{next: rotatorNext}, store, "lead-documents", bus, logger.New("test"))
	return &fixture{svc: svc, repo: repo, bus: bus, store: store}
}

func superadmin() actor.Actor {
	return actor.Actor{ID: uuid.New(), Role: actor.RoleSuperadmin}
}

func adminOf(hospitalID uuid.UUID) actor.Actor {
	return actor.Actor{ID: uuid.New(), Role: actor.RoleAdmin, HospitalID: &hospitalID}
}

func partnerOf(hospitalID uuid.UUID) actor.Actor {
	return actor.Actor{ID: uuid.New(), Role: actor.RolePartner, HospitalID: &hospitalID}
}

func createReq(phone string) transport.CreateLeadRequest {
	return transport.CreateLeadRequest{
		Name:           "Ravi Kumar",
		Phone:          phone,
		Specialisation: "Cardiology",
	}
}

// ===== tests =====

func TestCreateAssignsDefaultsAndSalesPerson(t *testing.T) {
	hospitalID := uuid.New()
	salesID := uuid.New()
	fx := newFixture(&salesID)

	resp, err := fx.svc.Create(context.Background(), createReq("9876543210"), adminOf(hospitalID), nil)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if resp.Status != domain.StatusNew {
		t.Errorf("status = %q, want NEW", resp.Status)
	}
	if resp.Points != 100 {
		t.Errorf("points = %d, want default 100", resp.Points)
	}
	if resp.SalesPersonID == nil || *resp.SalesPersonID != salesID {
		t.Errorf("salesPersonId = %v, want %v", resp.SalesPersonID, salesID)
	}
	if resp.HospitalID != hospitalID {
		t.Errorf("hospitalId = %v, want actor's hospital %v", resp.HospitalID, hospitalID)
	}

	var sawCreated, sawAssigned bool
	for _, e := range fx.bus.published {
		switch e.(type) {
		case events.LeadCreated:
			sawCreated = true
		case events.LeadAssigned:
			sawAssigned = true
		}
	}
	if !sawCreated || !sawAssigned {
		t.Errorf("events published = created:%v assigned:%v, want both", sawCreated, sawAssigned)
	}
}

func TestCreateEmptyRosterLeavesUnassigned(t *testing.T) {
	fx := newFixture(nil)

	resp, err := fx.svc.Create(context.Background(), createReq("9876543210"), adminOf(uuid.New()), nil)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if resp.SalesPersonID != nil {
		t.Errorf("salesPersonId = %v, want nil with empty roster", resp.SalesPersonID)
	}
}

func TestCreateDuplicatePhone(t *testing.T) {
	hospitalID := uuid.New()
	fx := newFixture(nil)
	admin := adminOf(hospitalID)

	if _, err := fx.svc.Create(context.Background(), createReq("9876543210"), admin, nil); err != nil {
		t.Fatalf("first Create error: %v", err)
	}

	_, err := fx.svc.Create(context.Background(), createReq("9876543210"), admin, nil)
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("second Create error = %v, want bad request", err)
	}

	appErr := err.(*apperr.Error)
	dup, ok := appErr.Details.(transport.LeadResponse)
	if !ok {
		t.Fatalf("error details = %T, want LeadResponse", appErr.Details)
	}
	if dup.Status != domain.StatusDuplicate {
		t.Errorf("audit row status = %q, want DUPLICATE", dup.Status)
	}
	if dup.Points != 0 {
		t.Errorf("audit row points = %d, want 0", dup.Points)
	}

	// The intended lead was not created, but the audit row was.
	normal, duplicates := 0, 0
	for _, lead := range fx.repo.leads {
		if lead.Status == domain.StatusDuplicate {
			duplicates++
		} else {
			normal++
		}
	}
	if normal != 1 || duplicates != 1 {
		t.Errorf("stored leads = %d normal, %d duplicate; want 1 and 1", normal, duplicates)
	}

	// A distinct phone still goes through.
	resp, err := fx.svc.Create(context.Background(), createReq("1234509876"), admin, nil)
	if err != nil {
		t.Fatalf("distinct phone Create error: %v", err)
	}
	if resp.Status != domain.StatusNew || resp.Points != 100 {
		t.Errorf("distinct phone lead = %q/%d, want NEW/100", resp.Status, resp.Points)
	}
}

func TestCreateDuplicateMatchesDuplicateRows(t *testing.T) {
	// Repeat submissions of an already-duplicated phone keep accumulating
	// audit rows.
	fx := newFixture(nil)
	admin := adminOf(uuid.New())

	fx.svc.Create(context.Background(), createReq("9876543210"), admin, nil)
	fx.svc.Create(context.Background(), createReq("9876543210"), admin, nil)
	fx.svc.Create(context.Background(), createReq("9876543210"), admin, nil)

	duplicates := 0
	for _, lead := range fx.repo.leads {
		if lead.Status == domain.StatusDuplicate {
			duplicates++
		}
	}
	if duplicates != 2 {
		t.Errorf("duplicate audit rows = %d, want 2", duplicates)
	}
}

func TestCreatePartnerForcedScope(t *testing.T) {
	hospitalID := uuid.New()
	fx := newFixture(nil)
	partner := partnerOf(hospitalID)

	someoneElse := uuid.New()
	closed := domain.StatusClosed
	req := createReq("9876543210")
	req.Status = &closed
	req.PartnerID = &someoneElse

	resp, err := fx.svc.Create(context.Background(), req, partner, nil)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if resp.Status != domain.StatusNew {
		t.Errorf("status = %q, want forced NEW", resp.Status)
	}
	if resp.PartnerID == nil || *resp.PartnerID != partner.ID {
		t.Errorf("partnerId = %v, want actor %v", resp.PartnerID, partner.ID)
	}
}

func TestCreateOverrideSuperadminOnly(t *testing.T) {
	fx := newFixture(nil)
	override := 9999

	req := createReq("9876543210")
	req.PointsOverride = &override
	if _, err := fx.svc.Create(context.Background(), req, adminOf(uuid.New()), nil); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("admin override error = %v, want forbidden", err)
	}

	hospitalID := uuid.New()
	req = createReq("9876543211")
	req.PointsOverride = &override
	req.HospitalID = &hospitalID
	resp, err := fx.svc.Create(context.Background(), req, superadmin(), nil)
	if err != nil {
		t.Fatalf("superadmin override error: %v", err)
	}
	if resp.Points != 9999 {
		t.Errorf("points = %d, want override 9999", resp.Points)
	}
}

func TestCreateSuperadminRequiresHospital(t *testing.T) {
	fx := newFixture(nil)

	_, err := fx.svc.Create(context.Background(), createReq("9876543210"), superadmin(), nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("Create error = %v, want validation", err)
	}
}

func TestUpdateStatusRecomputesPoints(t *testing.T) {
	hospitalID := uuid.New()
	fx := newFixture(nil)
	admin := adminOf(hospitalID)

	created, err := fx.svc.Create(context.Background(), createReq("9876543210"), admin, nil)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	ipd := domain.StatusIpdDone
	updated, err := fx.svc.Update(context.Background(), created.ID, transport.UpdateLeadRequest{Status: &ipd}, admin, nil)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Points != 3500 {
		t.Errorf("points after NEW -> IPD_DONE = %d, want 3500", updated.Points)
	}

	// A non-status update leaves points untouched.
	name := "Ravi K"
	updated, err = fx.svc.Update(context.Background(), created.ID, transport.UpdateLeadRequest{Name: &name}, admin, nil)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Points != 3500 {
		t.Errorf("points after name-only update = %d, want unchanged 3500", updated.Points)
	}
}

func TestUpdateSuperadminOverrideWinsVerbatim(t *testing.T) {
	hospitalID := uuid.New()
	fx := newFixture(nil)
	admin := adminOf(hospitalID)

	created, err := fx.svc.Create(context.Background(), createReq("9876543210"), admin, nil)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	override := 9999
	closed := domain.StatusClosed
	sa := superadmin()
	updated, err := fx.svc.Update(context.Background(), created.ID, transport.UpdateLeadRequest{
		Status:         &closed,
		PointsOverride: &override,
	}, sa, nil)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Points != 9999 {
		t.Errorf("points = %d, want override 9999 regardless of status", updated.Points)
	}

	if _, err := fx.svc.Update(context.Background(), created.ID, transport.UpdateLeadRequest{PointsOverride: &override}, admin, nil); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("admin override error = %v, want forbidden", err)
	}
}

func TestUpdateStatusChangeClearsStoredOverride(t *testing.T) {
	hospitalID := uuid.New()
	fx := newFixture(nil)
	sa := superadmin()

	override := 9999
	req := createReq("9876543210")
	req.HospitalID = &hospitalID
	req.PointsOverride = &override
	created, err := fx.svc.Create(context.Background(), req, sa, nil)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.Points != 9999 {
		t.Fatalf("points at creation = %d, want override 9999", created.Points)
	}

	ipd := domain.StatusIpdDone
	admin := adminOf(hospitalID)
	updated, err := fx.svc.Update(context.Background(), created.ID, transport.UpdateLeadRequest{Status: &ipd}, admin, nil)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Points != 3500 {
		t.Errorf("points after NEW -> IPD_DONE = %d, want recomputed 3500", updated.Points)
	}
	if updated.PointsOverride != nil {
		t.Errorf("pointsOverride after recompute = %d, want cleared", *updated.PointsOverride)
	}
}

func TestDeletePartnerOwnership(t *testing.T) {
	hospitalID := uuid.New()
	fx := newFixture(nil)
	owner := partnerOf(hospitalID)
	other := partnerOf(hospitalID)

	created, err := fx.svc.Create(context.Background(), createReq("9876543210"), owner, nil)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := fx.svc.Delete(context.Background(), created.ID, other); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("foreign partner delete error = %v, want forbidden", err)
	}

	if err := fx.svc.Delete(context.Background(), created.ID, owner); err != nil {
		t.Fatalf("owner delete error: %v", err)
	}
	if _, ok := fx.repo.leads[created.ID]; ok {
		t.Error("lead row still present after hard delete")
	}
}

func TestDeleteFileRemovalIsBestEffort(t *testing.T) {
	hospitalID := uuid.New()
	fx := newFixture(nil)
	admin := adminOf(hospitalID)

	created, err := fx.svc.Create(context.Background(), createReq("9876543210"), admin, []Upload{
		{FileName: "report.pdf", ContentType: "application/pdf", Size: 100, Reader: strings.NewReader("x")},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if len(created.Documents) != 1 {
		t.Fatalf("documents = %d, want 1", len(created.Documents))
	}

	fx.store.deleteErr = errors.New("storage unreachable")
	if err := fx.svc.Delete(context.Background(), created.ID, admin); err != nil {
		t.Fatalf("Delete must tolerate storage failures, got: %v", err)
	}
	if _, ok := fx.repo.leads[created.ID]; ok {
		t.Error("lead row still present after delete with storage failure")
	}
	if len(fx.store.deleted) != 1 {
		t.Errorf("storage delete attempts = %d, want 1", len(fx.store.deleted))
	}
}

func TestDocumentUploadFailureDoesNotFailCreate(t *testing.T) {
	fx := newFixture(nil)
	fx.store.uploadErr = errors.New("bucket gone")

	created, err := fx.svc.Create(context.Background(), createReq("9876543210"), adminOf(uuid.New()), []Upload{
		{FileName: "report.pdf", ContentType: "application/pdf", Size: 100, Reader: strings.NewReader("x")},
	})
	if err != nil {
		t.Fatalf("Create must tolerate upload failures, got: %v", err)
	}
	if len(created.Documents) != 0 {
		t.Errorf("documents = %d, want 0 after failed upload", len(created.Documents))
	}
}

func TestReassignValidation(t *testing.T) {
	hospitalID := uuid.New()
	fx := newFixture(nil)
	admin := adminOf(hospitalID)

	created, err := fx.svc.Create(context.Background(), createReq("9876543210"), admin, nil)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := fx.svc.Reassign(context.Background(), created.ID, transport.ReassignLeadRequest{}, admin); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("empty reassign error = %v, want validation", err)
	}

	partner := partnerOf(hospitalID)
	if _, err := fx.svc.Reassign(context.Background(), created.ID, transport.ReassignLeadRequest{PartnerID: &partner.ID}, partner); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("partner reassign error = %v, want forbidden", err)
	}

	otherAdmin := adminOf(uuid.New())
	newSales := uuid.New()
	if _, err := fx.svc.Reassign(context.Background(), created.ID, transport.ReassignLeadRequest{SalesPersonID: &newSales}, otherAdmin); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("cross-hospital reassign error = %v, want forbidden", err)
	}

	resp, err := fx.svc.Reassign(context.Background(), created.ID, transport.ReassignLeadRequest{SalesPersonID: &newSales}, admin)
	if err != nil {
		t.Fatalf("Reassign error: %v", err)
	}
	if resp.SalesPersonID == nil || *resp.SalesPersonID != newSales {
		t.Errorf("salesPersonId = %v, want %v", resp.SalesPersonID, newSales)
	}
	if resp.PartnerID != nil {
		t.Errorf("partnerId = %v, want untouched nil", resp.PartnerID)
	}
}

func TestListExcludesDuplicates(t *testing.T) {
	hospitalID := uuid.New()
	fx := newFixture(nil)
	admin := adminOf(hospitalID)

	fx.svc.Create(context.Background(), createReq("9876543210"), admin, nil)
	fx.svc.Create(context.Background(), createReq("9876543210"), admin, nil) // duplicate

	list, err := fx.svc.List(context.Background(), transport.ListLeadsRequest{}, admin)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if list.Total != 1 {
		t.Errorf("list total = %d, want 1 (duplicates excluded)", list.Total)
	}

	dups, err := fx.svc.ListDuplicates(context.Background(), transport.ListLeadsRequest{}, admin)
	if err != nil {
		t.Fatalf("ListDuplicates error: %v", err)
	}
	if dups.Total != 1 {
		t.Errorf("duplicates total = %d, want 1", dups.Total)
	}

	partner := partnerOf(hospitalID)
	if _, err := fx.svc.ListDuplicates(context.Background(), transport.ListLeadsRequest{}, partner); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("partner duplicates view error = %v, want forbidden", err)
	}
}

func TestBulkUploadCSV(t *testing.T) {
	hospitalID := uuid.New()
	fx := newFixture(nil)
	admin := adminOf(hospitalID)

	csvData := "name,phone,specialisation,remarks\n" +
		"Ravi Kumar,9876543210,Cardiology,first\n" +
		"Sita Devi,9876543210,Urology,same phone\n" +
		"Arun Singh,1234509876,ENT,\n" +
		"Bad Row,12345,Oncology,short phone\n"

	resp, err := fx.svc.BulkUploadCSV(context.Background(), strings.NewReader(csvData), admin, nil)
	if err != nil {
		t.Fatalf("BulkUploadCSV error: %v", err)
	}
	if resp.Created != 2 {
		t.Errorf("created = %d, want 2", resp.Created)
	}
	if resp.Duplicates != 1 {
		t.Errorf("duplicates = %d, want 1", resp.Duplicates)
	}
	if resp.Failed != 1 {
		t.Errorf("failed = %d, want 1 (malformed phone)", resp.Failed)
	}
}

func TestExportCSVScopesAndRenders(t *testing.T) {
	hospitalID := uuid.New()
	fx := newFixture(nil)

	partnerName := "Priya Sharma"
	fx.repo.exportRows = []repository.ExportRow{
		{
			Name:          "Ravi Kumar",
			Phone:         "9876543210",
			Status:        "OPD_DONE",
			Points:        200,
			PartnerName:   &partnerName,
			HospitalName:  "City Care",
			CreatedByName: "Priya Sharma",
			CreatedAt:     time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		},
	}

	partner := partnerOf(hospitalID)
	data, err := fx.svc.ExportCSV(context.Background(), transport.ExportLeadsRequest{}, partner)
	if err != nil {
		t.Fatalf("ExportCSV error: %v", err)
	}
	if fx.repo.exportParams == nil || fx.repo.exportParams.PartnerID == nil {
		t.Fatal("export params missing partner scope")
	}
	if *fx.repo.exportParams.PartnerID != partner.ID {
		t.Errorf("export partner scope = %s, want actor id %s", fx.repo.exportParams.PartnerID, partner.ID)
	}

	out := string(data)
	if !strings.HasPrefix(out, "Name,Phone,Status,Points,") {
		t.Errorf("csv missing header: %q", out)
	}
	if !strings.Contains(out, "Ravi Kumar,9876543210,OPD_DONE,200") {
		t.Errorf("csv missing lead row: %q", out)
	}
	if !strings.Contains(out, "2026-03-14T10:30:00Z") {
		t.Errorf("csv missing created-at timestamp: %q", out)
	}
}

func TestExportCSVAuthorFilterIsSuperadminOnly(t *testing.T) {
	hospitalID := uuid.New()
	authorID := uuid.New()
	req := transport.ExportLeadsRequest{CreatedByID: &authorID}

	fx := newFixture(nil)
	if _, err := fx.svc.ExportCSV(context.Background(), req, superadmin()); err != nil {
		t.Fatalf("ExportCSV error: %v", err)
	}
	if fx.repo.exportParams.CreatedByID == nil || *fx.repo.exportParams.CreatedByID != authorID {
		t.Error("superadmin author filter was not forwarded")
	}

	fx = newFixture(nil)
	if _, err := fx.svc.ExportCSV(context.Background(), req, adminOf(hospitalID)); err != nil {
		t.Fatalf("ExportCSV error: %v", err)
	}
	if fx.repo.exportParams.CreatedByID != nil {
		t.Error("admin export must not honor the author filter")
	}
	if fx.repo.exportParams.HospitalID == nil || *fx.repo.exportParams.HospitalID != hospitalID {
		t.Error("admin export must be scoped to the admin's hospital")
	}
}

func TestDocumentURLScopeAndLookup(t *testing.T) {
	hospitalID := uuid.New()
	fx := newFixture(nil)
	admin := adminOf(hospitalID)

	upload := Upload{
		FileName:    "prescription.pdf",
		ContentType: "application/pdf",
		Size:        1024,
		Reader:      strings.NewReader("pdf bytes"),
	}
	created, err := fx.svc.Create(context.Background(), createReq("9876543210"), admin, []Upload{upload})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if len(created.Documents) != 1 {
		t.Fatalf("documents = %d, want 1", len(created.Documents))
	}
	docID := created.Documents[0].ID

	signed, err := fx.svc.DocumentURL(context.Background(), created.ID, docID, admin)
	if err != nil {
		t.Fatalf("DocumentURL error: %v", err)
	}
	if signed.URL == "" || signed.FileKey != created.Documents[0].FileKey {
		t.Errorf("signed = %+v, want URL for file key %q", signed, created.Documents[0].FileKey)
	}

	outsider := partnerOf(hospitalID)
	if _, err := fx.svc.DocumentURL(context.Background(), created.ID, docID, outsider); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("foreign DocumentURL error = %v, want forbidden", err)
	}

	if _, err := fx.svc.DocumentURL(context.Background(), created.ID, uuid.New(), admin); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("unknown document error = %v, want not found", err)
	}

	fx.store.presignErr = io.ErrUnexpectedEOF
	if _, err := fx.svc.DocumentURL(context.Background(), created.ID, docID, admin); !apperr.Is(err, apperr.KindInternal) {
		t.Errorf("presign failure error = %v, want internal", err)
	}
}
