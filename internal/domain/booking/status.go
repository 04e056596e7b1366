package booking

import "fmt"

// Status represents the current state of a booking in its lifecycle.
type Status string

const (
	// Automatic statuses, derived from dates and payment state.
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusUnpaid     Status = "unpaid"

	// Manual statuses, set only by explicit user action. The derivation
	// engine never overwrites these.
	StatusCancelled Status = "cancelled"
	StatusArchived  Status = "archived"
	StatusDraft     Status = "draft"
)

var allStatuses = map[Status]bool{
	StatusPending:    true,
	StatusConfirmed:  true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusUnpaid:     true,
	StatusCancelled:  true,
	StatusArchived:   true,
	StatusDraft:      true,
}

var manualStatuses = map[Status]bool{
	StatusCancelled: true,
	StatusArchived:  true,
	StatusDraft:     true,
}

// AutomaticStatuses lists the statuses the derivation engine may assign.
// Used by repositories to filter the status refresh working set.
var AutomaticStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusUnpaid,
}

// IsValid returns true if the status is a recognized booking status.
func (s Status) IsValid() bool {
	return allStatuses[s]
}

// IsManual returns true for statuses that only a human action can set or
// clear. A booking in a manual status is invisible to automatic derivation.
func (s Status) IsManual() bool {
	return manualStatuses[s]
}

// CanBeCancelled returns true if the booking may be cancelled from this
// status. Already-terminal manual statuses cannot be cancelled again.
func (s Status) CanBeCancelled() bool {
	return !s.IsManual()
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
