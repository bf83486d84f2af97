package queries

import (
	"context"
	"encoding/json"
	"time"

	"booking-core/internal/domain/booking"
	"booking-core/internal/infra"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/errs"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID              uuid.UUID  `json:"id"`
	BookingNumber   string     `json:"booking_number"`
	CustomerID      uuid.UUID  `json:"customer_id"`
	VendorID        uuid.UUID  `json:"vendor_id"`
	ServiceID       uuid.UUID  `json:"service_id"`
	ServiceName     string     `json:"service_name"`
	PricingOptionID *uuid.UUID `json:"pricing_option_id,omitempty"`

	RequestedStart       time.Time  `json:"requested_start"`
	RequestedEnd         time.Time  `json:"requested_end"`
	ConfirmedStart       *time.Time `json:"confirmed_start,omitempty"`
	ConfirmedEnd         *time.Time `json:"confirmed_end,omitempty"`
	AlternativeStart     *time.Time `json:"alternative_start,omitempty"`
	AlternativeEnd       *time.Time `json:"alternative_end,omitempty"`
	AlternativeMessage   *string    `json:"alternative_message,omitempty"`
	AlternativeExpiresAt *time.Time `json:"alternative_expires_at,omitempty"`

	CustomerMessage    *string `json:"customer_message,omitempty"`
	CustomerPhone      *string `json:"customer_phone,omitempty"`
	CustomerAddress    *string `json:"customer_address,omitempty"`
	VendorMessage      *string `json:"vendor_message,omitempty"`
	RejectionReason    *string `json:"rejection_reason,omitempty"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`

	Status        string          `json:"status"`
	QueuePosition *int32          `json:"queue_position,omitempty"`
	Breakdown     json.RawMessage `json:"breakdown,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

type BookingListItem struct {
	ID                   uuid.UUID  `json:"id"`
	BookingNumber        string     `json:"booking_number"`
	ServiceID            uuid.UUID  `json:"service_id"`
	ServiceName          string     `json:"service_name"`
	Status               string     `json:"status"`
	QueuePosition        *int32     `json:"queue_position,omitempty"`
	Start                time.Time  `json:"start"`
	End                  time.Time  `json:"end"`
	TotalCents           *int64     `json:"total_cents,omitempty"`
	AlternativeExpiresAt *time.Time `json:"alternative_expires_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

type BookingQueries interface {
	GetByID(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*BookingView, error)
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int32) ([]*BookingListItem, error)
	FindByVendor(ctx context.Context, vendorID uuid.UUID, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int32) ([]*BookingListItem, error)
}

var (
	ErrBookingNotFound = errs.New("booking not found")
	ErrAccessDenied    = errs.New("access denied")
	ErrInvalidCursor   = errs.New("invalid cursor")
)

type bookingQueriesImpl struct {
	store BookingReadStore
	clock clock.Clock
}

func NewBookingQueries(store BookingReadStore, clk clock.Clock) BookingQueries {
	return &bookingQueriesImpl{store: store, clock: clk}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, id uuid.UUID) (*BookingView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if view.CustomerID != actorID && view.VendorID != actorID {
		return nil, ErrAccessDenied
	}
	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	presentExpiry(view, q.clock.Now())
	return view, nil
}

func (q *bookingQueriesImpl) ListByCustomer(ctx context.Context, customerID uuid.UUID, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error) {
	return q.list(ctx, customerID, after, limit, q.store.FindByCustomer)
}

func (q *bookingQueriesImpl) ListByVendor(ctx context.Context, vendorID uuid.UUID, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error) {
	return q.list(ctx, vendorID, after, limit, q.store.FindByVendor)
}

type listFn func(ctx context.Context, partyID uuid.UUID, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int32) ([]*BookingListItem, error)

func (q *bookingQueriesImpl) list(ctx context.Context, partyID uuid.UUID, after *Cursor, limit int, fetch listFn) ([]*BookingListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	var afterCreatedAt *time.Time
	var afterID *uuid.UUID
	if after != nil && after.After != "" {
		t, id, err := DecodeAfterCursor(after.After)
		if err != nil {
			return nil, nil, errs.Mark(err, ErrInvalidCursor)
		}
		afterCreatedAt = &t
		afterID = &id
	}

	items, err := fetch(ctx, partyID, afterCreatedAt, afterID, int32(limit)) //nolint:gosec // limit capped by ValidateLimit
	if err != nil {
		return nil, nil, err
	}

	now := q.clock.Now()
	for _, item := range items {
		presentItemExpiry(item, now)
	}

	var next *Cursor
	if len(items) == limit {
		last := items[len(items)-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
	}
	return items, next, nil
}

// presentExpiry reports a stale counter-offer as expired even before the
// sweep commits it; customer-facing reads never see an acceptable-looking
// offer that is already past its window.
func presentExpiry(view *BookingView, now time.Time) {
	view.Status = expiredStatus(view.Status, view.AlternativeExpiresAt, now)
}

func presentItemExpiry(item *BookingListItem, now time.Time) {
	item.Status = expiredStatus(item.Status, item.AlternativeExpiresAt, now)
}

func expiredStatus(status string, expiresAt *time.Time, now time.Time) string {
	if status != booking.StatusAlternativeProposed.String() {
		return status
	}
	if expiresAt != nil && now.After(*expiresAt) {
		return booking.StatusExpired.String()
	}
	return status
}
