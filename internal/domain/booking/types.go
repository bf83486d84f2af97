package booking

import "github.com/google/uuid"

// Status is the closed set of booking lifecycle states. Transition methods on
// Booking are the only writers; nothing outside this package mutates status.
type Status string

const (
	StatusPending             Status = "pending"
	StatusAccepted            Status = "accepted"
	StatusAlternativeProposed Status = "alternative_proposed"
	StatusConfirmed           Status = "confirmed"
	StatusInProgress          Status = "in_progress"
	StatusCompleted           Status = "completed"
	StatusRejected            Status = "rejected"
	StatusCancelled           Status = "cancelled"
	StatusExpired             Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusAlternativeProposed, StatusConfirmed,
		StatusInProgress, StatusCompleted, StatusRejected, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is legal. Terminal bookings
// are retained for history, never deleted.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusRejected, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleVendor
}

// Actor identifies who is driving a transition. Role disambiguates accept/reject
// on an alternative offer: the vendor proposed it, so only the customer resolves it.
type Actor struct {
	ID   uuid.UUID
	Role Role
}
