package booking

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInterval   = errors.New("interval end must be after start")
	ErrInvalidTransition = errors.New("transition not allowed from current status")
	ErrValidation        = errors.New("booking validation failed")
	ErrActorNotAllowed   = errors.New("actor may not perform this transition")
)

// Booking tracks one customer request through negotiation and execution.
// Every field is private; the transition methods below are the only writers,
// and each either applies fully or leaves the booking untouched.
type Booking struct {
	id              uuid.UUID
	bookingNumber   string
	customerID      uuid.UUID
	vendorID        uuid.UUID
	serviceID       uuid.UUID
	pricingOptionID *uuid.UUID

	requested   TimeSlot
	confirmed   *TimeSlot
	alternative *AlternativeOffer

	customerMessage    string
	customerPhone      string
	customerAddress    string
	vendorMessage      string
	rejectionReason    string
	cancellationReason string

	status        Status
	queuePosition *int32
	cancelledBy   *uuid.UUID

	version   int64
	createdAt time.Time
	updatedAt time.Time

	confirmedAt *time.Time
	startedAt   *time.Time
	completedAt *time.Time
	cancelledAt *time.Time
}

type NewBookingParams struct {
	CustomerID      uuid.UUID
	VendorID        uuid.UUID
	ServiceID       uuid.UUID
	PricingOptionID *uuid.UUID
	Requested       TimeSlot
	CustomerMessage string
	CustomerPhone   string
	CustomerAddress string
}

func NewBooking(p NewBookingParams, now time.Time) (*Booking, error) {
	if p.CustomerID == uuid.Nil || p.VendorID == uuid.Nil || p.ServiceID == uuid.Nil {
		return nil, ErrValidation
	}
	if p.Requested.IsZero() {
		return nil, ErrInvalidInterval
	}

	now = now.UTC()
	return &Booking{
		id:              uuid.New(),
		bookingNumber:   newBookingNumber(now),
		customerID:      p.CustomerID,
		vendorID:        p.VendorID,
		serviceID:       p.ServiceID,
		pricingOptionID: p.PricingOptionID,
		requested:       p.Requested,
		customerMessage: strings.TrimSpace(p.CustomerMessage),
		customerPhone:   strings.TrimSpace(p.CustomerPhone),
		customerAddress: strings.TrimSpace(p.CustomerAddress),
		status:          StatusPending,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rehydrates a persisted booking without running creation rules.
type ReconstructParams struct {
	ID                 uuid.UUID
	BookingNumber      string
	CustomerID         uuid.UUID
	VendorID           uuid.UUID
	ServiceID          uuid.UUID
	PricingOptionID    *uuid.UUID
	Requested          TimeSlot
	Confirmed          *TimeSlot
	Alternative        *AlternativeOffer
	CustomerMessage    string
	CustomerPhone      string
	CustomerAddress    string
	VendorMessage      string
	RejectionReason    string
	CancellationReason string
	Status             Status
	QueuePosition      *int32
	CancelledBy        *uuid.UUID
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ConfirmedAt        *time.Time
	StartedAt          *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
}

func Reconstruct(p ReconstructParams) *Booking {
	return &Booking{
		id:                 p.ID,
		bookingNumber:      p.BookingNumber,
		customerID:         p.CustomerID,
		vendorID:           p.VendorID,
		serviceID:          p.ServiceID,
		pricingOptionID:    p.PricingOptionID,
		requested:          p.Requested,
		confirmed:          p.Confirmed,
		alternative:        p.Alternative,
		customerMessage:    p.CustomerMessage,
		customerPhone:      p.CustomerPhone,
		customerAddress:    p.CustomerAddress,
		vendorMessage:      p.VendorMessage,
		rejectionReason:    p.RejectionReason,
		cancellationReason: p.CancellationReason,
		status:             p.Status,
		queuePosition:      p.QueuePosition,
		cancelledBy:        p.CancelledBy,
		version:            p.Version,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
		confirmedAt:        p.ConfirmedAt,
		startedAt:          p.StartedAt,
		completedAt:        p.CompletedAt,
		cancelledAt:        p.CancelledAt,
	}
}

// Accept confirms a time window. From pending only the vendor accepts the
// requested window; from alternative_proposed only the customer accepts the
// vendor's offer, and an offer past its expiry can no longer be honored.
// The caller is responsible for the overlap check against persisted confirmed
// bookings; acceptance and that check must share one atomic commit.
func (b *Booking) Accept(actor Actor, now time.Time) error {
	now = now.UTC()
	switch b.status {
	case StatusPending:
		if actor.Role != RoleVendor || actor.ID != b.vendorID {
			return ErrActorNotAllowed
		}
		slot := b.requested
		b.confirmed = &slot
	case StatusAlternativeProposed:
		if actor.Role != RoleCustomer || actor.ID != b.customerID {
			return ErrActorNotAllowed
		}
		if b.alternative == nil || b.alternative.ExpiredAt(now) {
			// Stale offers must be swept to expired; they are never acceptable.
			return ErrInvalidTransition
		}
		slot := b.alternative.Slot
		b.confirmed = &slot
		b.alternative = nil
	default:
		return ErrInvalidTransition
	}

	b.status = StatusConfirmed
	b.confirmedAt = &now
	b.queuePosition = nil
	b.touch(now)
	return nil
}

// AcceptTargetSlot returns the slot Accept would confirm, without mutating.
// The overlap check needs the target window before committing.
func (b *Booking) AcceptTargetSlot() (TimeSlot, error) {
	switch b.status {
	case StatusPending:
		return b.requested, nil
	case StatusAlternativeProposed:
		if b.alternative == nil {
			return TimeSlot{}, ErrInvalidTransition
		}
		return b.alternative.Slot, nil
	default:
		return TimeSlot{}, ErrInvalidTransition
	}
}

func (b *Booking) Reject(actor Actor, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrValidation
	}
	now = now.UTC()
	switch b.status {
	case StatusPending:
		if actor.Role != RoleVendor || actor.ID != b.vendorID {
			return ErrActorNotAllowed
		}
	case StatusAlternativeProposed:
		if actor.Role != RoleCustomer || actor.ID != b.customerID {
			return ErrActorNotAllowed
		}
		if b.alternative == nil || b.alternative.ExpiredAt(now) {
			// A dead offer belongs to the expired path, not rejected.
			return ErrInvalidTransition
		}
		b.alternative = nil
	default:
		return ErrInvalidTransition
	}

	b.status = StatusRejected
	b.rejectionReason = reason
	b.queuePosition = nil
	b.touch(now)
	return nil
}

func (b *Booking) ProposeAlternative(actor Actor, slot TimeSlot, message string, now time.Time, offerWindow time.Duration) error {
	if b.status != StatusPending {
		return ErrInvalidTransition
	}
	if actor.Role != RoleVendor || actor.ID != b.vendorID {
		return ErrActorNotAllowed
	}
	if slot.IsZero() {
		return ErrInvalidInterval
	}

	now = now.UTC()
	b.status = StatusAlternativeProposed
	b.alternative = &AlternativeOffer{
		Slot:      slot,
		Message:   strings.TrimSpace(message),
		ExpiresAt: now.Add(offerWindow),
	}
	b.queuePosition = nil
	b.touch(now)
	return nil
}

// ExpireAlternative is the sweep transition. It reports false without error
// when the booking is no longer an unexpired-offer candidate, so sweeping is
// idempotent by construction.
func (b *Booking) ExpireAlternative(now time.Time) (bool, error) {
	if b.status != StatusAlternativeProposed {
		return false, nil
	}
	if b.alternative == nil || !b.alternative.ExpiredAt(now.UTC()) {
		return false, nil
	}
	b.status = StatusExpired
	b.alternative = nil
	b.queuePosition = nil
	b.touch(now)
	return true, nil
}

// Start is vendor-only; the customer waits for the vendor to show up.
func (b *Booking) Start(actor Actor, now time.Time) error {
	if b.status != StatusConfirmed {
		return ErrInvalidTransition
	}
	if actor.Role != RoleVendor || actor.ID != b.vendorID {
		return ErrActorNotAllowed
	}
	now = now.UTC()
	if b.confirmed == nil || now.Before(b.confirmed.Start()) {
		return ErrValidation
	}
	b.status = StatusInProgress
	b.startedAt = &now
	b.touch(now)
	return nil
}

func (b *Booking) Complete(actor Actor, now time.Time) error {
	if b.status != StatusInProgress && b.status != StatusConfirmed {
		return ErrInvalidTransition
	}
	if actor.Role != RoleVendor || actor.ID != b.vendorID {
		return ErrActorNotAllowed
	}
	now = now.UTC()
	b.status = StatusCompleted
	b.completedAt = &now
	b.touch(now)
	return nil
}

func (b *Booking) Cancel(actor Actor, reason string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return ErrValidation
	}
	if b.status.IsTerminal() {
		return ErrInvalidTransition
	}
	if actor.ID != b.customerID && actor.ID != b.vendorID {
		return ErrActorNotAllowed
	}
	now = now.UTC()
	if b.status == StatusAlternativeProposed && (b.alternative == nil || b.alternative.ExpiredAt(now)) {
		// Already dead in all but storage; the sweep owns this transition.
		return ErrInvalidTransition
	}
	b.status = StatusCancelled
	b.cancellationReason = strings.TrimSpace(reason)
	b.alternative = nil
	b.queuePosition = nil
	id := actor.ID
	b.cancelledBy = &id
	b.cancelledAt = &now
	b.touch(now)
	return nil
}

func (b *Booking) SetVendorMessage(msg string, now time.Time) {
	b.vendorMessage = strings.TrimSpace(msg)
	b.touch(now)
}

// SetQueuePosition records advisory display-only ordering. nil clears it.
func (b *Booking) SetQueuePosition(pos *int32) {
	b.queuePosition = pos
}

// AuthoritativeSlot is the one interval business logic reads for the current
// status: confirmed once agreed, the live offer during negotiation, otherwise
// the customer's original ask.
func (b *Booking) AuthoritativeSlot() TimeSlot {
	switch b.status {
	case StatusConfirmed, StatusInProgress, StatusCompleted:
		if b.confirmed != nil {
			return *b.confirmed
		}
	case StatusAlternativeProposed:
		if b.alternative != nil {
			return b.alternative.Slot
		}
	}
	return b.requested
}

func (b *Booking) touch(now time.Time) {
	b.updatedAt = now.UTC()
}

func (b *Booking) ID() uuid.UUID                  { return b.id }
func (b *Booking) BookingNumber() string          { return b.bookingNumber }
func (b *Booking) CustomerID() uuid.UUID          { return b.customerID }
func (b *Booking) VendorID() uuid.UUID            { return b.vendorID }
func (b *Booking) ServiceID() uuid.UUID           { return b.serviceID }
func (b *Booking) PricingOptionID() *uuid.UUID    { return b.pricingOptionID }
func (b *Booking) Requested() TimeSlot            { return b.requested }
func (b *Booking) Confirmed() *TimeSlot           { return b.confirmed }
func (b *Booking) Alternative() *AlternativeOffer { return b.alternative }
func (b *Booking) CustomerMessage() string        { return b.customerMessage }
func (b *Booking) CustomerPhone() string          { return b.customerPhone }
func (b *Booking) CustomerAddress() string        { return b.customerAddress }
func (b *Booking) VendorMessage() string          { return b.vendorMessage }
func (b *Booking) RejectionReason() string        { return b.rejectionReason }
func (b *Booking) CancellationReason() string     { return b.cancellationReason }
func (b *Booking) Status() Status                 { return b.status }
func (b *Booking) QueuePosition() *int32          { return b.queuePosition }
func (b *Booking) CancelledBy() *uuid.UUID        { return b.cancelledBy }
func (b *Booking) Version() int64                 { return b.version }
func (b *Booking) CreatedAt() time.Time           { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time           { return b.updatedAt }
func (b *Booking) ConfirmedAt() *time.Time        { return b.confirmedAt }
func (b *Booking) StartedAt() *time.Time          { return b.startedAt }
func (b *Booking) CompletedAt() *time.Time        { return b.completedAt }
func (b *Booking) CancelledAt() *time.Time        { return b.cancelledAt }
