// Package domain provides core business rules for the leads bounded context.
package domain

const (
	StatusNew           = "NEW"
	StatusNotReachable  = "NOT_REACHABLE"
	StatusNotInterested = "NOT_INTERESTED"
	StatusOpdDone       = "OPD_DONE"
	StatusIpdDone       = "IPD_DONE"
	StatusClosed        = "CLOSED"

	// StatusDuplicate marks the audit row written when a phone number
	// collides with an existing active lead. System-assigned only.
	StatusDuplicate = "DUPLICATE"

	// StatusDeleted is a system-only marker; operators never set it.
	StatusDeleted = "DELETED"
)

// operatorStatuses are the statuses a caller may set on a lead.
// DUPLICATE and DELETED are system-assigned and excluded.
var operatorStatuses = map[string]bool{
	StatusNew:           true,
	StatusNotReachable:  true,
	StatusNotInterested: true,
	StatusOpdDone:       true,
	StatusIpdDone:       true,
	StatusClosed:        true,
}

// defaultPoints are the point values awarded per status when no partner
// rate or explicit override applies.
var defaultPoints = map[string]int{
	StatusNew:     100,
	StatusOpdDone: 200,
	StatusIpdDone: 3500,
}

// IsOperatorStatus returns true if a caller is allowed to set this status.
func IsOperatorStatus(status string) bool {
	return operatorStatuses[status]
}

// IsKnownStatus returns true for any status in the lifecycle, including the
// system-assigned markers.
func IsKnownStatus(status string) bool {
	return operatorStatuses[status] || status == StatusDuplicate || status == StatusDeleted
}

// DefaultPoints returns the static default point value for a status.
// Statuses without an incentive attached yield 0.
func DefaultPoints(status string) int {
	return defaultPoints[status]
}
