package repository

import (
	"context"
	"errors"
	"time"

	"booking-core/internal/domain/booking"
	"booking-core/internal/infra"
	"booking-core/internal/infra/db"
	"booking-core/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const pgErrCodeUniqueViolation = "23505"

// BookingRepository is the write side. All mutations go through Update's
// optimistic version check; losing the check surfaces as KindConflict.
type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

const bookingColumns = `
	id, booking_number, customer_id, vendor_id, service_id, pricing_option_id,
	requested_start, requested_end, confirmed_start, confirmed_end,
	alternative_start, alternative_end, alternative_message, alternative_expires_at,
	customer_message, customer_phone, customer_address, vendor_message,
	rejection_reason, cancellation_reason,
	status, queue_position, cancelled_by, version,
	created_at, updated_at, confirmed_at, started_at, completed_at, cancelled_at`

func (r *BookingRepository) Create(ctx context.Context, q db.Querier, b *booking.Booking, breakdown []byte) error {
	_, err := q.Exec(ctx, `
		INSERT INTO bookings (
			id, booking_number, customer_id, vendor_id, service_id, pricing_option_id,
			requested_start, requested_end,
			customer_message, customer_phone, customer_address,
			status, breakdown, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		b.ID(), b.BookingNumber(), b.CustomerID(), b.VendorID(), b.ServiceID(),
		pgconv.UUIDPtrToPgtype(b.PricingOptionID()),
		b.Requested().Start(), b.Requested().End(),
		pgconv.StringToPgtype(b.CustomerMessage()),
		pgconv.StringToPgtype(b.CustomerPhone()),
		pgconv.StringToPgtype(b.CustomerAddress()),
		b.Status().String(), breakdown, b.Version(), b.CreatedAt(), b.UpdatedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr("booking number already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

// Update persists the full mutable state of the booking. The WHERE clause
// carries the version the caller loaded; zero affected rows means a concurrent
// transition won the race. A nil breakdown leaves the cached one untouched.
func (r *BookingRepository) Update(ctx context.Context, q db.Querier, b *booking.Booking, breakdown []byte) error {
	var confirmedStart, confirmedEnd pgtype.Timestamptz
	if c := b.Confirmed(); c != nil {
		confirmedStart = pgconv.TimeToPgtype(c.Start())
		confirmedEnd = pgconv.TimeToPgtype(c.End())
	}
	var altStart, altEnd, altExpires pgtype.Timestamptz
	var altMessage pgtype.Text
	if a := b.Alternative(); a != nil {
		altStart = pgconv.TimeToPgtype(a.Slot.Start())
		altEnd = pgconv.TimeToPgtype(a.Slot.End())
		altExpires = pgconv.TimeToPgtype(a.ExpiresAt)
		altMessage = pgconv.StringToPgtype(a.Message)
	}

	tag, err := q.Exec(ctx, `
		UPDATE bookings SET
			confirmed_start = $1, confirmed_end = $2,
			alternative_start = $3, alternative_end = $4,
			alternative_message = $5, alternative_expires_at = $6,
			vendor_message = $7, rejection_reason = $8, cancellation_reason = $9,
			status = $10, queue_position = $11, cancelled_by = $12,
			breakdown = COALESCE($13, breakdown),
			version = version + 1, updated_at = $14,
			confirmed_at = $15, started_at = $16, completed_at = $17, cancelled_at = $18
		WHERE id = $19 AND version = $20`,
		confirmedStart, confirmedEnd,
		altStart, altEnd, altMessage, altExpires,
		pgconv.StringToPgtype(b.VendorMessage()),
		pgconv.StringToPgtype(b.RejectionReason()),
		pgconv.StringToPgtype(b.CancellationReason()),
		b.Status().String(),
		pgconv.Int32PtrToPgtype(b.QueuePosition()),
		pgconv.UUIDPtrToPgtype(b.CancelledBy()),
		breakdown,
		b.UpdatedAt(),
		pgconv.TimePtrToPgtype(b.ConfirmedAt()),
		pgconv.TimePtrToPgtype(b.StartedAt()),
		pgconv.TimePtrToPgtype(b.CompletedAt()),
		pgconv.TimePtrToPgtype(b.CancelledAt()),
		b.ID(), b.Version(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking version moved under us", nil, infra.KindConflict)
	}
	return nil
}

// FindForUpdate loads the booking with a row lock, serializing concurrent
// transitions against the same id for the duration of the transaction.
func (r *BookingRepository) FindForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*booking.Booking, error) {
	row := q.QueryRow(ctx, `SELECT`+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
	b, err := scanBooking(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load booking", err)
	}
	return b, nil
}

// LockVendorScope takes a transaction-scoped advisory lock on the booking's
// vendor. Accept paths grab it before any row lock, so two accepts against the
// same vendor serialize no matter which rows each one goes on to touch; rows
// already confirmed, still negotiating, or still pending all sit outside each
// other's lock sets otherwise. No-op when the booking does not exist.
func (r *BookingRepository) LockVendorScope(ctx context.Context, q db.Querier, bookingID uuid.UUID) error {
	_, err := q.Exec(ctx, `
		SELECT pg_advisory_xact_lock(hashtextextended(vendor_id::text, 0))
		FROM bookings WHERE id = $1`,
		bookingID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to lock vendor scope", err)
	}
	return nil
}

// LockConfirmedOverlapping locks and counts confirmed or running bookings for
// the vendor whose window overlaps the candidate slot. Locking, not just
// counting, keeps two simultaneous accepts of colliding windows from both
// passing the check.
func (r *BookingRepository) LockConfirmedOverlapping(ctx context.Context, q db.Querier, vendorID uuid.UUID, slot booking.TimeSlot, excludeID uuid.UUID) (int, error) {
	rows, err := q.Query(ctx, `
		SELECT id FROM bookings
		WHERE vendor_id = $1
		  AND status IN ('confirmed', 'in_progress')
		  AND confirmed_start < $2 AND confirmed_end > $3
		  AND id <> $4
		FOR UPDATE`,
		vendorID, slot.End(), slot.Start(), excludeID,
	)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to lock overlapping confirmed bookings", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, infra.WrapRepoErr("failed to iterate overlapping confirmed bookings", err)
	}
	return count, nil
}

// ListPendingOverlapping returns still-pending bookings for the vendor whose
// requested window overlaps the slot, oldest request first. Used to assign
// advisory queue positions after an accept.
func (r *BookingRepository) ListPendingOverlapping(ctx context.Context, q db.Querier, vendorID uuid.UUID, slot booking.TimeSlot, excludeID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx, `
		SELECT id FROM bookings
		WHERE vendor_id = $1
		  AND status = 'pending'
		  AND requested_start < $2 AND requested_end > $3
		  AND id <> $4
		ORDER BY created_at ASC, id ASC
		FOR UPDATE`,
		vendorID, slot.End(), slot.Start(), excludeID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list overlapping pending bookings", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan pending booking id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate pending bookings", err)
	}
	return ids, nil
}

// SetQueuePositions writes 1-based advisory positions in slice order.
// Display-only derived state: no version bump, no status change.
func (r *BookingRepository) SetQueuePositions(ctx context.Context, q db.Querier, ids []uuid.UUID) error {
	for i, id := range ids {
		if _, err := q.Exec(ctx,
			`UPDATE bookings SET queue_position = $1 WHERE id = $2`,
			i+1, id,
		); err != nil {
			return infra.WrapRepoErr("failed to set queue position", err)
		}
	}
	return nil
}

// ExpireStaleAlternatives transitions every stale offer in one statement.
// The WHERE clause re-checks status and expiry at commit time, so the sweep
// is idempotent and safe against concurrent user transitions.
func (r *BookingRepository) ExpireStaleAlternatives(ctx context.Context, q db.Querier, now time.Time) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx, `
		UPDATE bookings SET
			status = 'expired',
			alternative_start = NULL, alternative_end = NULL,
			alternative_message = NULL, alternative_expires_at = NULL,
			queue_position = NULL,
			version = version + 1, updated_at = $1
		WHERE status = 'alternative_proposed' AND alternative_expires_at < $1
		RETURNING id`,
		now.UTC(),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to expire stale alternatives", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan expired booking id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate expired bookings", err)
	}
	return ids, nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id, customerID, vendorID, serviceID uuid.UUID
		bookingNumber, status               string
		pricingOptionID, cancelledBy        pgtype.UUID
		requestedStart, requestedEnd        time.Time
		confirmedStart, confirmedEnd        pgtype.Timestamptz
		altStart, altEnd, altExpires        pgtype.Timestamptz
		altMessage                          pgtype.Text
		customerMessage, customerPhone      pgtype.Text
		customerAddress, vendorMessage      pgtype.Text
		rejectionReason, cancellationReason pgtype.Text
		queuePosition                       pgtype.Int4
		version                             int64
		createdAt, updatedAt                time.Time
		confirmedAt, startedAt              pgtype.Timestamptz
		completedAt, cancelledAt            pgtype.Timestamptz
	)

	if err := row.Scan(
		&id, &bookingNumber, &customerID, &vendorID, &serviceID, &pricingOptionID,
		&requestedStart, &requestedEnd, &confirmedStart, &confirmedEnd,
		&altStart, &altEnd, &altMessage, &altExpires,
		&customerMessage, &customerPhone, &customerAddress, &vendorMessage,
		&rejectionReason, &cancellationReason,
		&status, &queuePosition, &cancelledBy, &version,
		&createdAt, &updatedAt, &confirmedAt, &startedAt, &completedAt, &cancelledAt,
	); err != nil {
		return nil, err
	}

	var confirmed *booking.TimeSlot
	if confirmedStart.Valid && confirmedEnd.Valid {
		slot := booking.ReconstructTimeSlot(confirmedStart.Time, confirmedEnd.Time)
		confirmed = &slot
	}
	var alternative *booking.AlternativeOffer
	if altStart.Valid && altEnd.Valid && altExpires.Valid {
		alternative = &booking.AlternativeOffer{
			Slot:      booking.ReconstructTimeSlot(altStart.Time, altEnd.Time),
			Message:   pgconv.StringFromPgtype(altMessage),
			ExpiresAt: altExpires.Time,
		}
	}

	return booking.Reconstruct(booking.ReconstructParams{
		ID:                 id,
		BookingNumber:      bookingNumber,
		CustomerID:         customerID,
		VendorID:           vendorID,
		ServiceID:          serviceID,
		PricingOptionID:    pgconv.UUIDPtrFromPgtype(pricingOptionID),
		Requested:          booking.ReconstructTimeSlot(requestedStart, requestedEnd),
		Confirmed:          confirmed,
		Alternative:        alternative,
		CustomerMessage:    pgconv.StringFromPgtype(customerMessage),
		CustomerPhone:      pgconv.StringFromPgtype(customerPhone),
		CustomerAddress:    pgconv.StringFromPgtype(customerAddress),
		VendorMessage:      pgconv.StringFromPgtype(vendorMessage),
		RejectionReason:    pgconv.StringFromPgtype(rejectionReason),
		CancellationReason: pgconv.StringFromPgtype(cancellationReason),
		Status:             booking.Status(status),
		QueuePosition:      pgconv.Int32PtrFromPgtype(queuePosition),
		CancelledBy:        pgconv.UUIDPtrFromPgtype(cancelledBy),
		Version:            version,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
		ConfirmedAt:        pgconv.TimePtrFromPgtype(confirmedAt),
		StartedAt:          pgconv.TimePtrFromPgtype(startedAt),
		CompletedAt:        pgconv.TimePtrFromPgtype(completedAt),
		CancelledAt:        pgconv.TimePtrFromPgtype(cancelledAt),
	}), nil
}
