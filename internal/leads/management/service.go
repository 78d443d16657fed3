// Package management orchestrates the lead lifecycle: intake with duplicate
// detection, points resolution, round-robin sales assignment, updates,
// deletion, and ownership reassignment.
package management

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"

	"partner_portal_backend/internal/adapters/storage"
	"partner_portal_backend/internal/events"
	"partner_portal_backend/internal/leads/domain"
	"partner_portal_backend/internal/leads/repository"
	"partner_portal_backend/internal/leads/transport"
	"partner_portal_backend/internal/shared/actor"
	"partner_portal_backend/platform/apperr"
	"partner_portal_backend/platform/logger"
	"partner_portal_backend/platform/phone"
)

// Repository defines the data access the management service needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	repository.DuplicateFinder
	repository.DocumentStore
	repository.RemarkStore
	repository.MetricsReader
}

// PointsResolver computes the point value for a lead.
type PointsResolver interface {
	Resolve(ctx context.Context, status string, partnerID *uuid.UUID, override *int) (int, error)
}

// SalesRotator selects the next sales person for a hospital.
type SalesRotator interface {
	Next(ctx context.Context, hospitalID uuid.UUID) (*uuid.UUID, error)
}

// ObjectStore is the slice of the storage adapter used for lead files.
type ObjectStore interface {
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*storage.PresignedURL, error)
	DeleteObject(ctx context.Context, bucket, fileKey string) error
	ValidateContentType(contentType string) error
	ValidateFileSize(sizeBytes int64) error
}

// Upload is one incoming file attachment.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Service handles lead lifecycle operations.
type Service struct {
	repo     Repository
	resolver PointsResolver
	rotator  SalesRotator
	store    ObjectStore
	bucket   string
	bus      events.Bus
	log      *logger.Logger
}

func New(repo Repository, resolver PointsResolver, rotator SalesRotator, store ObjectStore, bucket string, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		rotator:  rotator,
		store:    store,
		bucket:   bucket,
		bus:      bus,
		log:      log,
	}
}

// Create runs the full intake flow: duplicate check, partner forcing, points
// resolution, round-robin assignment, persistence, and best-effort document
// attachment.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest, act actor.Actor, files []Upload) (transport.LeadResponse, error) {
	req.Phone = phone.NormalizeLocal(req.Phone)

	// The HTTP layer validates too, but bulk ingestion comes straight here.
	if strings.TrimSpace(req.Name) == "" {
		return transport.LeadResponse{}, apperr.Validation("name is required")
	}
	if !isTenDigits(req.Phone) {
		return transport.LeadResponse{}, apperr.Validation("phone must be exactly 10 digits")
	}
	if !domain.IsKnownSpecialisation(req.Specialisation) {
		return transport.LeadResponse{}, apperr.Validation("unknown specialisation")
	}

	hospitalID, err := resolveHospital(req.HospitalID, act)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	status := domain.StatusNew
	if req.Status != nil {
		status = *req.Status
	}
	partnerID := req.PartnerID
	override := req.PointsOverride

	// Partners always submit on their own behalf: ownership and status are
	// forced regardless of what the client sent.
	if act.IsPartner() {
		partnerID = &act.ID
		status = domain.StatusNew
		override = nil
	} else if override != nil && !act.IsSuperadmin() {
		return transport.LeadResponse{}, apperr.Forbidden("only superadmin may override points")
	}

	if !domain.IsOperatorStatus(status) {
		return transport.LeadResponse{}, apperr.Validation("status cannot be set directly")
	}

	if existing, found, err := s.repo.FindActiveDuplicate(ctx, req.Phone); err != nil {
		return transport.LeadResponse{}, err
	} else if found {
		return s.recordDuplicate(ctx, req, act, hospitalID, partnerID, existing)
	}

	pts, err := s.resolver.Resolve(ctx, status, partnerID, override)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	salesPersonID, err := s.rotator.Next(ctx, hospitalID)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		Name:           req.Name,
		Phone:          req.Phone,
		Status:         status,
		Points:         pts,
		PointsOverride: override,
		Specialisation: req.Specialisation,
		Remarks:        req.Remarks,
		HospitalID:     hospitalID,
		PartnerID:      partnerID,
		SalesPersonID:  salesPersonID,
		CreatedByID:    act.ID,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	docs := s.attachDocuments(ctx, lead.ID, act.ID, files)

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        lead.ID,
		HospitalID:    lead.HospitalID,
		PartnerID:     lead.PartnerID,
		SalesPersonID: lead.SalesPersonID,
		Status:        lead.Status,
		Points:        lead.Points,
	})
	if lead.SalesPersonID != nil {
		s.bus.Publish(ctx, events.LeadAssigned{
			BaseEvent:     events.NewBaseEvent(),
			LeadID:        lead.ID,
			HospitalID:    lead.HospitalID,
			SalesPersonID: *lead.SalesPersonID,
			LeadName:      lead.Name,
		})
	}

	return transport.ToLeadResponse(lead, docs), nil
}

// recordDuplicate writes the audit row for a rejected intake and returns the
// client-visible error carrying it.
func (s *Service) recordDuplicate(ctx context.Context, req transport.CreateLeadRequest, act actor.Actor, hospitalID uuid.UUID, partnerID *uuid.UUID, matched repository.Lead) (transport.LeadResponse, error) {
	dup, err := s.repo.Create(ctx, repository.CreateLeadParams{
		Name:           req.Name,
		Phone:          req.Phone,
		Status:         domain.StatusDuplicate,
		Points:         0,
		Specialisation: req.Specialisation,
		Remarks:        req.Remarks,
		HospitalID:     hospitalID,
		PartnerID:      partnerID,
		CreatedByID:    act.ID,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadDuplicateDetected{
		BaseEvent:       events.NewBaseEvent(),
		DuplicateLeadID: dup.ID,
		MatchedLeadID:   matched.ID,
		Phone:           req.Phone,
		HospitalID:      hospitalID,
	})

	return transport.LeadResponse{}, apperr.BadRequest("Phone no already exists in the system").
		WithDetails(transport.ToLeadResponse(dup, nil))
}

// GetByID retrieves a lead with its documents, enforcing role scope.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, act actor.Actor) (transport.LeadResponse, error) {
	lead, docs, err := s.repo.GetByIDWithDocuments(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	if err := canAccess(lead, act); err != nil {
		return transport.LeadResponse{}, err
	}
	return transport.ToLeadResponse(lead, docs), nil
}

// DocumentURL mints a presigned download link for one of the lead's
// documents, enforcing the same role scope as reading the lead itself.
func (s *Service) DocumentURL(ctx context.Context, leadID, documentID uuid.UUID, act actor.Actor) (*storage.PresignedURL, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("lead not found")
		}
		return nil, err
	}
	if err := canAccess(lead, act); err != nil {
		return nil, err
	}

	docs, err := s.repo.ListDocuments(ctx, leadID)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if doc.ID == documentID {
			signed, err := s.store.GenerateDownloadURL(ctx, s.bucket, doc.FileKey)
			if err != nil {
				s.log.StorageError("presign", doc.FileKey, err)
				return nil, apperr.Internal("could not generate download link")
			}
			return signed, nil
		}
	}
	return nil, apperr.NotFound("document not found")
}

// Update applies field changes. Points are recomputed only when the status
// changes, which also clears any stored override; a superadmin-supplied
// override wins verbatim.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest, act actor.Actor, files []Upload) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	if err := canAccess(lead, act); err != nil {
		return transport.LeadResponse{}, err
	}
	if req.PointsOverride != nil && !act.IsSuperadmin() {
		return transport.LeadResponse{}, apperr.Forbidden("only superadmin may override points")
	}

	params := repository.UpdateLeadParams{
		Name:           lead.Name,
		Phone:          lead.Phone,
		Status:         lead.Status,
		Points:         lead.Points,
		PointsOverride: lead.PointsOverride,
		Specialisation: lead.Specialisation,
		Remarks:        lead.Remarks,
	}
	if req.Name != nil {
		params.Name = *req.Name
	}
	if req.Phone != nil {
		params.Phone = phone.NormalizeLocal(*req.Phone)
	}
	if req.Remarks != nil {
		params.Remarks = req.Remarks
	}
	if req.Specialisation != nil {
		if !domain.IsKnownSpecialisation(*req.Specialisation) {
			return transport.LeadResponse{}, apperr.Validation("unknown specialisation")
		}
		params.Specialisation = *req.Specialisation
	}
	if req.Status != nil {
		if !domain.IsOperatorStatus(*req.Status) {
			return transport.LeadResponse{}, apperr.Validation("status cannot be set directly")
		}
		params.Status = *req.Status
	}

	switch {
	case req.PointsOverride != nil:
		params.Points = *req.PointsOverride
		params.PointsOverride = req.PointsOverride
	case params.Status != lead.Status:
		// A recompute starts fresh: the stored override belongs to the old
		// status and must not survive it.
		pts, err := s.resolver.Resolve(ctx, params.Status, lead.PartnerID, nil)
		if err != nil {
			return transport.LeadResponse{}, err
		}
		params.Points = pts
		params.PointsOverride = nil
	}

	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	s.attachDocuments(ctx, updated.ID, act.ID, files)
	docs, _ := s.repo.ListDocuments(ctx, updated.ID)

	return transport.ToLeadResponse(updated, docs), nil
}

// Delete hard-deletes the lead and its documents, with best-effort removal of
// stored files. Partners may only delete their own leads.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, act actor.Actor) error {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("lead not found")
		}
		return err
	}

	switch {
	case act.CanManageLeads():
	case act.IsPartner() && lead.PartnerID != nil && *lead.PartnerID == act.ID:
	default:
		return apperr.Forbidden("not allowed to delete this lead")
	}

	fileKeys, err := s.repo.ListDocumentFileKeys(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("lead not found")
		}
		return err
	}

	// File removal is best-effort: a missing or unreachable object must not
	// resurrect the lead.
	for _, key := range fileKeys {
		if err := s.store.DeleteObject(ctx, s.bucket, key); err != nil {
			s.log.StorageError("delete", key, err)
		}
	}

	return nil
}

// List returns the actor's role-scoped view of leads. Duplicate audit rows
// are always excluded here.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest, act actor.Actor) (transport.LeadListResponse, error) {
	params := scopedListParams(req, act)

	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	return buildListResponse(leads, total, params), nil
}

// ListDuplicates returns the duplicate audit view, restricted to admin and
// superadmin.
func (s *Service) ListDuplicates(ctx context.Context, req transport.ListLeadsRequest, act actor.Actor) (transport.LeadListResponse, error) {
	if !act.CanManageLeads() {
		return transport.LeadListResponse{}, apperr.Forbidden("duplicate view is restricted")
	}

	params := scopedListParams(req, act)
	params.OnlyDuplicates = true
	params.Status = nil

	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	return buildListResponse(leads, total, params), nil
}

// Reassign transfers partner and/or sales ownership of a lead. New owners are
// deliberately not checked for activity or hospital membership.
func (s *Service) Reassign(ctx context.Context, id uuid.UUID, req transport.ReassignLeadRequest, act actor.Actor) (transport.LeadResponse, error) {
	if !act.CanManageLeads() {
		return transport.LeadResponse{}, apperr.Forbidden("reassignment is restricted")
	}
	if req.PartnerID == nil && req.SalesPersonID == nil {
		return transport.LeadResponse{}, apperr.Validation("provide partnerId or salesPersonId")
	}

	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	if act.IsAdmin() && (act.HospitalID == nil || *act.HospitalID != lead.HospitalID) {
		return transport.LeadResponse{}, apperr.Forbidden("lead belongs to another hospital")
	}

	updated, err := s.repo.Reassign(ctx, id, repository.ReassignParams{
		PartnerID:     req.PartnerID,
		SalesPersonID: req.SalesPersonID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	if req.SalesPersonID != nil {
		s.bus.Publish(ctx, events.LeadAssigned{
			BaseEvent:     events.NewBaseEvent(),
			LeadID:        updated.ID,
			HospitalID:    updated.HospitalID,
			SalesPersonID: *req.SalesPersonID,
			LeadName:      updated.Name,
		})
	}

	docs, _ := s.repo.ListDocuments(ctx, updated.ID)
	return transport.ToLeadResponse(updated, docs), nil
}

// attachDocuments uploads and records files. Failures are logged and skipped;
// document attachment never fails the surrounding operation.
func (s *Service) attachDocuments(ctx context.Context, leadID uuid.UUID, uploaderID uuid.UUID, files []Upload) []repository.LeadDocument {
	docs := make([]repository.LeadDocument, 0, len(files))
	for _, f := range files {
		if err := s.store.ValidateContentType(f.ContentType); err != nil {
			s.log.StorageError("upload", f.FileName, err)
			continue
		}
		if err := s.store.ValidateFileSize(f.Size); err != nil {
			s.log.StorageError("upload", f.FileName, err)
			continue
		}

		fileKey, err := s.store.UploadFile(ctx, s.bucket, "leads/"+leadID.String(), f.FileName, f.ContentType, f.Reader, f.Size)
		if err != nil {
			s.log.StorageError("upload", f.FileName, err)
			continue
		}

		uploader := uploaderID
		doc, err := s.repo.AddDocument(ctx, repository.CreateDocumentParams{
			LeadID:      leadID,
			FileKey:     fileKey,
			FileName:    f.FileName,
			ContentType: f.ContentType,
			UploadedBy:  &uploader,
		})
		if err != nil {
			s.log.DatabaseError("add lead document", err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

func isTenDigits(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func resolveHospital(requested *uuid.UUID, act actor.Actor) (uuid.UUID, error) {
	if act.IsSuperadmin() {
		if requested == nil {
			return uuid.Nil, apperr.Validation("hospitalId is required")
		}
		return *requested, nil
	}
	if act.HospitalID == nil {
		return uuid.Nil, apperr.Validation("actor has no hospital")
	}
	return *act.HospitalID, nil
}

// canAccess enforces role scope on a single lead.
func canAccess(lead repository.Lead, act actor.Actor) error {
	switch act.Role {
	case actor.RoleSuperadmin:
		return nil
	case actor.RoleAdmin:
		if act.HospitalID != nil && *act.HospitalID == lead.HospitalID {
			return nil
		}
	case actor.RolePartner:
		if lead.PartnerID != nil && *lead.PartnerID == act.ID {
			return nil
		}
	case actor.RoleSalesPerson:
		if lead.SalesPersonID != nil && *lead.SalesPersonID == act.ID {
			return nil
		}
	}
	return apperr.Forbidden("not allowed to access this lead")
}

// scopedListParams applies the actor's role scope on top of the request filters.
func scopedListParams(req transport.ListLeadsRequest, act actor.Actor) repository.ListParams {
	params := repository.ListParams{
		Status:         req.Status,
		Specialisation: req.Specialisation,
	}
	if req.Search != "" {
		search := req.Search
		params.Search = &search
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 50
	}
	params.Limit = pageSize
	params.Offset = (page - 1) * pageSize

	if req.IncludeDeleted && act.CanManageLeads() {
		params.IncludeDeleted = true
	}

	switch act.Role {
	case actor.RoleAdmin:
		params.HospitalID = act.HospitalID
	case actor.RolePartner:
		id := act.ID
		params.PartnerID = &id
	case actor.RoleSalesPerson:
		id := act.ID
		params.SalesPersonID = &id
	}

	return params
}

func buildListResponse(leads []repository.Lead, total int, params repository.ListParams) transport.LeadListResponse {
	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, transport.ToLeadResponse(lead, nil))
	}

	pageSize := params.Limit
	page := params.Offset/pageSize + 1
	totalPages := (total + pageSize - 1) / pageSize

	return transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
