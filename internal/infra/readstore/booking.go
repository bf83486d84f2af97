package readstore

import (
	"context"
	"time"

	"booking-core/internal/infra"
	"booking-core/internal/infra/db"
	"booking-core/internal/pkg/pgconv"
	"booking-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// BookingReadStore serves the query side straight from the pool; reads never
// join a write transaction.
type BookingReadStore struct {
	db db.Querier
}

func NewBookingReadStore(q db.Querier) *BookingReadStore {
	return &BookingReadStore{db: q}
}

const bookingViewQuery = `
	SELECT
		b.id, b.booking_number, b.customer_id, b.vendor_id, b.service_id, s.name,
		b.pricing_option_id,
		b.requested_start, b.requested_end, b.confirmed_start, b.confirmed_end,
		b.alternative_start, b.alternative_end, b.alternative_message, b.alternative_expires_at,
		b.customer_message, b.customer_phone, b.customer_address, b.vendor_message,
		b.rejection_reason, b.cancellation_reason,
		b.status, b.queue_position, b.breakdown,
		b.created_at, b.updated_at, b.confirmed_at, b.started_at, b.completed_at, b.cancelled_at
	FROM bookings b
	JOIN services s ON s.id = b.service_id`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := r.db.QueryRow(ctx, bookingViewQuery+` WHERE b.id = $1`, id)
	view, err := scanBookingView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return view, nil
}

const bookingListQuery = `
	SELECT
		b.id, b.booking_number, b.service_id, s.name, b.status, b.queue_position,
		COALESCE(b.confirmed_start, b.alternative_start, b.requested_start),
		COALESCE(b.confirmed_end, b.alternative_end, b.requested_end),
		(b.breakdown ->> 'total_cents')::BIGINT,
		b.alternative_expires_at,
		b.created_at
	FROM bookings b
	JOIN services s ON s.id = b.service_id`

func (r *BookingReadStore) FindByCustomer(ctx context.Context, customerID uuid.UUID, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	return r.findByParty(ctx, "b.customer_id", customerID, afterCreatedAt, afterID, limit)
}

func (r *BookingReadStore) FindByVendor(ctx context.Context, vendorID uuid.UUID, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	return r.findByParty(ctx, "b.vendor_id", vendorID, afterCreatedAt, afterID, limit)
}

func (r *BookingReadStore) findByParty(ctx context.Context, column string, partyID uuid.UUID, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	var rows pgx.Rows
	var err error
	if afterCreatedAt != nil && afterID != nil {
		// Keyset pagination over (created_at, id) descending.
		rows, err = r.db.Query(ctx, bookingListQuery+`
			WHERE `+column+` = $1 AND (b.created_at, b.id) < ($2, $3)
			ORDER BY b.created_at DESC, b.id DESC
			LIMIT $4`,
			partyID, *afterCreatedAt, *afterID, limit)
	} else {
		rows, err = r.db.Query(ctx, bookingListQuery+`
			WHERE `+column+` = $1
			ORDER BY b.created_at DESC, b.id DESC
			LIMIT $2`,
			partyID, limit)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var items []*queries.BookingListItem
	for rows.Next() {
		var (
			item       queries.BookingListItem
			queuePos   pgtype.Int4
			totalCents pgtype.Int8
			altExpires pgtype.Timestamptz
		)
		if err := rows.Scan(
			&item.ID, &item.BookingNumber, &item.ServiceID, &item.ServiceName,
			&item.Status, &queuePos, &item.Start, &item.End, &totalCents, &altExpires, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list row", err)
		}
		item.QueuePosition = pgconv.Int32PtrFromPgtype(queuePos)
		if totalCents.Valid {
			v := totalCents.Int64
			item.TotalCents = &v
		}
		item.AlternativeExpiresAt = pgconv.TimePtrFromPgtype(altExpires)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking list rows", err)
	}
	return items, nil
}

func scanBookingView(row pgx.Row) (*queries.BookingView, error) {
	var (
		view                          queries.BookingView
		pricingOptionID               pgtype.UUID
		confirmedStart, confirmedEnd  pgtype.Timestamptz
		altStart, altEnd, altExpires  pgtype.Timestamptz
		altMessage                    pgtype.Text
		custMessage, custPhone        pgtype.Text
		custAddress, vendorMessage    pgtype.Text
		rejectionReason, cancelReason pgtype.Text
		queuePos                      pgtype.Int4
		breakdown                     []byte
		confirmedAt, startedAt        pgtype.Timestamptz
		completedAt, cancelledAt      pgtype.Timestamptz
	)

	if err := row.Scan(
		&view.ID, &view.BookingNumber, &view.CustomerID, &view.VendorID, &view.ServiceID, &view.ServiceName,
		&pricingOptionID,
		&view.RequestedStart, &view.RequestedEnd, &confirmedStart, &confirmedEnd,
		&altStart, &altEnd, &altMessage, &altExpires,
		&custMessage, &custPhone, &custAddress, &vendorMessage,
		&rejectionReason, &cancelReason,
		&view.Status, &queuePos, &breakdown,
		&view.CreatedAt, &view.UpdatedAt, &confirmedAt, &startedAt, &completedAt, &cancelledAt,
	); err != nil {
		return nil, err
	}

	view.PricingOptionID = pgconv.UUIDPtrFromPgtype(pricingOptionID)
	view.ConfirmedStart = pgconv.TimePtrFromPgtype(confirmedStart)
	view.ConfirmedEnd = pgconv.TimePtrFromPgtype(confirmedEnd)
	view.AlternativeStart = pgconv.TimePtrFromPgtype(altStart)
	view.AlternativeEnd = pgconv.TimePtrFromPgtype(altEnd)
	view.AlternativeMessage = pgconv.StringPtrFromPgtype(altMessage)
	view.AlternativeExpiresAt = pgconv.TimePtrFromPgtype(altExpires)
	view.CustomerMessage = pgconv.StringPtrFromPgtype(custMessage)
	view.CustomerPhone = pgconv.StringPtrFromPgtype(custPhone)
	view.CustomerAddress = pgconv.StringPtrFromPgtype(custAddress)
	view.VendorMessage = pgconv.StringPtrFromPgtype(vendorMessage)
	view.RejectionReason = pgconv.StringPtrFromPgtype(rejectionReason)
	view.CancellationReason = pgconv.StringPtrFromPgtype(cancelReason)
	view.QueuePosition = pgconv.Int32PtrFromPgtype(queuePos)
	view.Breakdown = breakdown
	view.ConfirmedAt = pgconv.TimePtrFromPgtype(confirmedAt)
	view.StartedAt = pgconv.TimePtrFromPgtype(startedAt)
	view.CompletedAt = pgconv.TimePtrFromPgtype(completedAt)
	view.CancelledAt = pgconv.TimePtrFromPgtype(cancelledAt)
	return &view, nil
}
