package management

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"partner_portal_backend/internal/leads/repository"
	"partner_portal_backend/internal/leads/transport"
	"partner_portal_backend/internal/shared/actor"
	"partner_portal_backend/platform/apperr"
)

// AddRemark appends a chat message and/or attachment to a lead's remark log.
// The log is append-only.
func (s *Service) AddRemark(ctx context.Context, leadID uuid.UUID, req transport.AddRemarkRequest, act actor.Actor, file *Upload) (transport.RemarkResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.RemarkResponse{}, apperr.NotFound("lead not found")
		}
		return transport.RemarkResponse{}, err
	}
	if err := canAccess(lead, act); err != nil {
		return transport.RemarkResponse{}, err
	}

	var fileKey *string
	if file != nil {
		if err := s.store.ValidateContentType(file.ContentType); err != nil {
			return transport.RemarkResponse{}, apperr.Validation(err.Error())
		}
		if err := s.store.ValidateFileSize(file.Size); err != nil {
			return transport.RemarkResponse{}, apperr.Validation(err.Error())
		}
		key, err := s.store.UploadFile(ctx, s.bucket, "remarks/"+leadID.String(), file.FileName, file.ContentType, file.Reader, file.Size)
		if err != nil {
			return transport.RemarkResponse{}, err
		}
		fileKey = &key
	}

	if (req.Message == nil || *req.Message == "") && fileKey == nil {
		return transport.RemarkResponse{}, apperr.Validation("remark needs a message or a file")
	}

	remark, err := s.repo.AddRemark(ctx, repository.CreateRemarkParams{
		LeadID:   leadID,
		AuthorID: act.ID,
		Message:  req.Message,
		FileKey:  fileKey,
	})
	if err != nil {
		return transport.RemarkResponse{}, err
	}

	return transport.ToRemarkResponse(remark), nil
}

// ListRemarks returns the lead's remark log in creation order.
func (s *Service) ListRemarks(ctx context.Context, leadID uuid.UUID, act actor.Actor) ([]transport.RemarkResponse, error) {
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

	remarks, err := s.repo.ListRemarks(ctx, leadID)
	if err != nil {
		return nil, err
	}

	out := make([]transport.RemarkResponse, 0, len(remarks))
	for _, remark := range remarks {
		out = append(out, transport.ToRemarkResponse(remark))
	}
	return out, nil
}
