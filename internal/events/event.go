// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"partner_portal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created.
type LeadCreated struct {
	BaseEvent
	LeadID        uuid.UUID  `json:"leadId"`
	HospitalID    uuid.UUID  `json:"hospitalId"`
	PartnerID     *uuid.UUID `json:"partnerId,omitempty"`
	SalesPersonID *uuid.UUID `json:"salesPersonId,omitempty"`
	Status        string     `json:"status"`
	Points        int        `json:"points"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadAssigned is published when a lead gains or changes its sales person.
type LeadAssigned struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	HospitalID    uuid.UUID `json:"hospitalId"`
	SalesPersonID uuid.UUID `json:"salesPersonId"`
	LeadName      string    `json:"leadName"`
}

func (e LeadAssigned) EventName() string { return "leads.lead.assigned" }

// LeadDuplicateDetected is published when intake rejects a lead because the
// phone number matched an existing active lead.
type LeadDuplicateDetected struct {
	BaseEvent
	DuplicateLeadID uuid.UUID `json:"duplicateLeadId"`
	MatchedLeadID   uuid.UUID `json:"matchedLeadId"`
	Phone           string    `json:"phone"`
	HospitalID      uuid.UUID `json:"hospitalId"`
}

func (e LeadDuplicateDetected) EventName() string { return "leads.lead.duplicate_detected" }

// =============================================================================
// Partner Points Domain Events
// =============================================================================

// PartnerPointsSubmitted is published when an admin submits a partner rate
// that now awaits superadmin approval.
type PartnerPointsSubmitted struct {
	BaseEvent
	EntryID   uuid.UUID `json:"entryId"`
	PartnerID uuid.UUID `json:"partnerId"`
	Status    string    `json:"status"`
	Points    int       `json:"points"`
}

func (e PartnerPointsSubmitted) EventName() string { return "partnerpoints.submitted" }

// PartnerPointsApproved is published when a superadmin approves a partner rate.
type PartnerPointsApproved struct {
	BaseEvent
	EntryID   uuid.UUID `json:"entryId"`
	PartnerID uuid.UUID `json:"partnerId"`
	Status    string    `json:"status"`
	Points    int       `json:"points"`
}

func (e PartnerPointsApproved) EventName() string { return "partnerpoints.approved" }

// PartnerPointsRejected is published when a superadmin rejects a partner rate.
type PartnerPointsRejected struct {
	BaseEvent
	EntryID   uuid.UUID `json:"entryId"`
	PartnerID uuid.UUID `json:"partnerId"`
	Status    string    `json:"status"`
	Points    int       `json:"points"`
}

func (e PartnerPointsRejected) EventName() string { return "partnerpoints.rejected" }
