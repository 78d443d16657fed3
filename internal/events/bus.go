package events

import (
	platformevents "partner_portal_backend/platform/events"
	"partner_portal_backend/platform/logger"
)

// InMemoryBus aliases the platform bus so modules depend on this package
// alone for both the bus and the event definitions.
type InMemoryBus = platformevents.InMemoryBus

func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
