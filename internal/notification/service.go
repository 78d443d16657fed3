// Package notification turns domain events into emails. It has no HTTP
// surface: it subscribes to the bus and delivers best-effort.
package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"partner_portal_backend/internal/email"
	"partner_portal_backend/internal/events"
	hospitalrepo "partner_portal_backend/internal/hospitals/repository"
	userrepo "partner_portal_backend/internal/users/repository"
	"partner_portal_backend/platform/logger"
)

// UserDirectory resolves recipients for outgoing mail.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (userrepo.User, error)
}

// HospitalDirectory resolves hospital names for mail content.
type HospitalDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (hospitalrepo.Hospital, error)
}

type Service struct {
	sender    email.Sender
	users     UserDirectory
	hospitals HospitalDirectory
	log       *logger.Logger
}

func New(sender email.Sender, users UserDirectory, hospitals HospitalDirectory, log *logger.Logger) *Service {
	return &Service{sender: sender, users: users, hospitals: hospitals, log: log}
}

// Register subscribes the notification handlers on the bus. Delivery
// failures are logged and never propagate back into the workflows that
// raised the events.
func (s *Service) Register(bus events.Bus) {
	bus.Subscribe(events.LeadAssigned{}.EventName(), events.HandlerFunc(s.onLeadAssigned))
	bus.Subscribe(events.PartnerPointsApproved{}.EventName(), events.HandlerFunc(s.onPartnerPointsApproved))
	bus.Subscribe(events.PartnerPointsRejected{}.EventName(), events.HandlerFunc(s.onPartnerPointsRejected))
}

func (s *Service) onLeadAssigned(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadAssigned)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	salesPerson, err := s.users.GetByID(ctx, e.SalesPersonID)
	if err != nil {
		s.log.Error("lead-assigned mail skipped", "leadId", e.LeadID, "error", err)
		return nil
	}

	hospitalName := ""
	if hospital, err := s.hospitals.GetByID(ctx, e.HospitalID); err == nil {
		hospitalName = hospital.Name
	}

	if err := s.sender.SendLeadAssignedEmail(ctx, salesPerson.Email, salesPerson.FullName(), e.LeadName, hospitalName); err != nil {
		s.log.Error("lead-assigned mail failed", "leadId", e.LeadID, "to", salesPerson.Email, "error", err)
	}
	return nil
}

func (s *Service) onPartnerPointsApproved(ctx context.Context, event events.Event) error {
	e, ok := event.(events.PartnerPointsApproved)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	partner, err := s.users.GetByID(ctx, e.PartnerID)
	if err != nil {
		s.log.Error("rate-approved mail skipped", "partnerId", e.PartnerID, "error", err)
		return nil
	}

	if err := s.sender.SendPartnerPointsApprovedEmail(ctx, partner.Email, partner.FullName(), e.Status, e.Points); err != nil {
		s.log.Error("rate-approved mail failed", "to", partner.Email, "error", err)
	}
	return nil
}

func (s *Service) onPartnerPointsRejected(ctx context.Context, event events.Event) error {
	e, ok := event.(events.PartnerPointsRejected)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	partner, err := s.users.GetByID(ctx, e.PartnerID)
	if err != nil {
		s.log.Error("rate-rejected mail skipped", "partnerId", e.PartnerID, "error", err)
		return nil
	}

	if err := s.sender.SendPartnerPointsRejectedEmail(ctx, partner.Email, partner.FullName(), e.Status); err != nil {
		s.log.Error("rate-rejected mail failed", "to", partner.Email, "error", err)
	}
	return nil
}
