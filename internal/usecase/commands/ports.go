package commands

import (
	"context"
	"time"

	"booking-core/internal/domain/booking"
	"booking-core/internal/infra/db"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// Write-side ports. Repositories take the transaction handle explicitly so a
// whole transition commits or rolls back as one unit.
type BookingRepository interface {
	Create(ctx context.Context, q db.Querier, b *booking.Booking, breakdown []byte) error
	Update(ctx context.Context, q db.Querier, b *booking.Booking, breakdown []byte) error
	FindForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*booking.Booking, error)
	LockVendorScope(ctx context.Context, q db.Querier, bookingID uuid.UUID) error
	LockConfirmedOverlapping(ctx context.Context, q db.Querier, vendorID uuid.UUID, slot booking.TimeSlot, excludeID uuid.UUID) (int, error)
	ListPendingOverlapping(ctx context.Context, q db.Querier, vendorID uuid.UUID, slot booking.TimeSlot, excludeID uuid.UUID) ([]uuid.UUID, error)
	SetQueuePositions(ctx context.Context, q db.Querier, ids []uuid.UUID) error
	ExpireStaleAlternatives(ctx context.Context, q db.Querier, now time.Time) ([]uuid.UUID, error)
}

type CatalogRepository interface {
	PricingContext(ctx context.Context, serviceID uuid.UUID) (*shared.PricingContext, error)
}

// Event is what leaves the core after a transition commits. Delivery is best
// effort; the booking row is the source of truth either way.
type Event struct {
	Topic      string
	BookingID  uuid.UUID
	CustomerID uuid.UUID
	VendorID   uuid.UUID
	OccurredAt time.Time
}

const (
	TopicBookingRequested   = "booking_requested"
	TopicBookingConfirmed   = "booking_confirmed"
	TopicBookingRejected    = "booking_rejected"
	TopicAlternativeOffered = "alternative_offered"
	TopicBookingStarted     = "booking_started"
	TopicBookingCompleted   = "booking_completed"
	TopicBookingCancelled   = "booking_cancelled"
	TopicOfferExpired       = "offer_expired"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event)
}
