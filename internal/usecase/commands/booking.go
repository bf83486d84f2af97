package commands

import (
	"context"
	"encoding/json"
	"errors"

	"booking-core/internal/domain/booking"
	"booking-core/internal/domain/pricing"
	reqdto "booking-core/internal/handler/dto/request"
	"booking-core/internal/infra"
	"booking-core/internal/infra/db"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrBookingNotFound         = errs.New("booking not found")
	ErrServiceNotFound         = errs.New("service not found")
	ErrServiceInactive         = errs.New("service is not active")
	ErrBookingConflict         = errs.New("booking conflicts with a confirmed booking")
	ErrVersionConflict         = errs.New("booking was modified concurrently")
	ErrInvalidTransition       = errs.New("transition not allowed")
	ErrActorNotAllowed         = errs.New("actor not allowed")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

const (
	// Deadlock and serialization losers get this many fresh attempts before
	// the caller sees a conflict.
	txMaxRetries = 3
	// Extra draws allowed when a generated booking number collides.
	bookingNumberAttempts = 3
)

type BookingCommands interface {
	Create(ctx context.Context, actor booking.Actor, req reqdto.CreateBookingRequest) (*queries.BookingView, error)
	Accept(ctx context.Context, actor booking.Actor, id uuid.UUID) (*queries.BookingView, error)
	Reject(ctx context.Context, actor booking.Actor, id uuid.UUID, reason string) (*queries.BookingView, error)
	ProposeAlternative(ctx context.Context, actor booking.Actor, id uuid.UUID, req reqdto.ProposeAlternativeRequest) (*queries.BookingView, error)
	Start(ctx context.Context, actor booking.Actor, id uuid.UUID) (*queries.BookingView, error)
	Complete(ctx context.Context, actor booking.Actor, id uuid.UUID) (*queries.BookingView, error)
	Cancel(ctx context.Context, actor booking.Actor, id uuid.UUID, reason string) (*queries.BookingView, error)
	SweepExpiredAlternatives(ctx context.Context) (int, error)
}

type bookingUseCaseImpl struct {
	bookingRepo    BookingRepository
	catalogRepo    CatalogRepository
	calculator     *pricing.Calculator
	bookingQueries queries.BookingQueries
	dispatcher     Dispatcher
	db             *pgxpool.Pool
	clock          clock.Clock
	cfg            config.BookingConfig
}

func NewBookingUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	calculator *pricing.Calculator,
	bookingQueries queries.BookingQueries,
	dispatcher Dispatcher,
	db *pgxpool.Pool,
	clock clock.Clock,
	cfg config.BookingConfig,
) BookingCommands {
	return &bookingUseCaseImpl{
		bookingRepo:    bookingRepo,
		catalogRepo:    catalogRepo,
		calculator:     calculator,
		bookingQueries: bookingQueries,
		dispatcher:     dispatcher,
		db:             db,
		clock:          clock,
		cfg:            cfg,
	}
}

func (c *bookingUseCaseImpl) Create(ctx context.Context, actor booking.Actor, req reqdto.CreateBookingRequest) (*queries.BookingView, error) {
	if actor.Role != booking.RoleCustomer {
		return nil, ErrActorNotAllowed
	}

	pc, err := c.catalogRepo.PricingContext(ctx, req.ServiceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !pc.IsActive {
		return nil, ErrServiceInactive
	}

	tier, err := queries.ResolveTier(pc, req.PricingOptionID)
	if err != nil {
		return nil, err
	}

	slot, err := req.ToSlot()
	if err != nil {
		return nil, markDomainErr(err)
	}

	// The quote cached at creation covers the requested window; acceptance
	// recomputes it for whichever window actually gets confirmed.
	breakdown, err := c.computeBreakdown(pc, tier, slot)
	if err != nil {
		return nil, err
	}

	entity, err := booking.NewBooking(booking.NewBookingParams{
		CustomerID:      actor.ID,
		VendorID:        pc.VendorID,
		ServiceID:       req.ServiceID,
		PricingOptionID: req.PricingOptionID,
		Requested:       slot,
		CustomerMessage: req.GetMessage(),
		CustomerPhone:   req.GetPhone(),
		CustomerAddress: req.GetAddress(),
	}, c.clock.Now())
	if err != nil {
		return nil, markDomainErr(err)
	}

	// Same-day number collisions are rare but real; draw again instead of
	// surfacing the unique violation.
	for attempt := 0; ; attempt++ {
		_, err = shared.RunInTx(ctx, c.db, func(tx db.Querier) (struct{}, error) {
			return struct{}{}, c.bookingRepo.Create(ctx, tx, entity, breakdown)
		})
		if err == nil {
			break
		}
		if infra.IsKind(err, infra.KindDuplicateKey) && attempt < bookingNumberAttempts {
			entity.RefreshBookingNumber(c.clock.Now())
			continue
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	c.dispatch(ctx, TopicBookingRequested, entity)
	return c.bookingQueries.GetByIDSystem(ctx, entity.ID())
}

// Accept serializes all accepts for the vendor on an advisory lock, checks the
// target window against locked confirmed rows, and commits the transition and
// the recomputed price atomically. A zero-row optimistic update surfaces as a
// version conflict; a serialization loser that exhausts its retries does too.
func (c *bookingUseCaseImpl) Accept(ctx context.Context, actor booking.Actor, id uuid.UUID) (*queries.BookingView, error) {
	entity, err := shared.RunInTxWithRetry(ctx, c.db, txMaxRetries, func(tx db.Querier) (*booking.Booking, error) {
		// Vendor lock first, before any row lock, so concurrent accepts
		// cannot interleave past each other's overlap check.
		if err := c.bookingRepo.LockVendorScope(ctx, tx, id); err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}

		b, err := c.findForUpdate(ctx, tx, id)
		if err != nil {
			return nil, err
		}

		slot, err := b.AcceptTargetSlot()
		if err != nil {
			return nil, markDomainErr(err)
		}

		overlapping, err := c.bookingRepo.LockConfirmedOverlapping(ctx, tx, b.VendorID(), slot, b.ID())
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if overlapping > 0 {
			return nil, ErrBookingConflict
		}

		if err := b.Accept(actor, c.clock.Now()); err != nil {
			return nil, markDomainErr(err)
		}

		breakdown, err := c.recomputeBreakdown(ctx, b, slot)
		if err != nil {
			return nil, err
		}

		if err := c.update(ctx, tx, b, breakdown); err != nil {
			return nil, err
		}
		return b, c.refreshQueuePositions(ctx, tx, b.VendorID(), slot, b.ID())
	})
	if err != nil {
		if errors.Is(err, shared.ErrMaxRetriesExceeded) {
			return nil, ErrVersionConflict
		}
		return nil, err
	}

	c.dispatch(ctx, TopicBookingConfirmed, entity)
	return c.bookingQueries.GetByIDSystem(ctx, id)
}

func (c *bookingUseCaseImpl) Reject(ctx context.Context, actor booking.Actor, id uuid.UUID, reason string) (*queries.BookingView, error) {
	return c.transition(ctx, id, TopicBookingRejected, func(b *booking.Booking) error {
		return b.Reject(actor, reason, c.clock.Now())
	})
}

func (c *bookingUseCaseImpl) ProposeAlternative(ctx context.Context, actor booking.Actor, id uuid.UUID, req reqdto.ProposeAlternativeRequest) (*queries.BookingView, error) {
	slot, err := req.ToSlot()
	if err != nil {
		return nil, markDomainErr(err)
	}
	return c.transition(ctx, id, TopicAlternativeOffered, func(b *booking.Booking) error {
		return b.ProposeAlternative(actor, slot, req.GetMessage(), c.clock.Now(), c.cfg.OfferWindow)
	})
}

func (c *bookingUseCaseImpl) Start(ctx context.Context, actor booking.Actor, id uuid.UUID) (*queries.BookingView, error) {
	return c.transition(ctx, id, TopicBookingStarted, func(b *booking.Booking) error {
		return b.Start(actor, c.clock.Now())
	})
}

func (c *bookingUseCaseImpl) Complete(ctx context.Context, actor booking.Actor, id uuid.UUID) (*queries.BookingView, error) {
	return c.transition(ctx, id, TopicBookingCompleted, func(b *booking.Booking) error {
		return b.Complete(actor, c.clock.Now())
	})
}

func (c *bookingUseCaseImpl) Cancel(ctx context.Context, actor booking.Actor, id uuid.UUID, reason string) (*queries.BookingView, error) {
	return c.transition(ctx, id, TopicBookingCancelled, func(b *booking.Booking) error {
		return b.Cancel(actor, reason, c.clock.Now())
	})
}

// SweepExpiredAlternatives flips every stale counter-offer to expired in one
// statement. Running it twice over the same instant is a no-op the second
// time.
func (c *bookingUseCaseImpl) SweepExpiredAlternatives(ctx context.Context) (int, error) {
	ids, err := shared.RunInTxWithRetry(ctx, c.db, txMaxRetries, func(tx db.Querier) ([]uuid.UUID, error) {
		ids, err := c.bookingRepo.ExpireStaleAlternatives(ctx, tx, c.clock.Now())
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return ids, nil
	})
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		c.dispatcher.Dispatch(ctx, Event{
			Topic:      TopicOfferExpired,
			BookingID:  id,
			OccurredAt: c.clock.Now(),
		})
	}
	return len(ids), nil
}

// transition is the shared read-modify-write path for transitions that touch
// only the booking row itself.
func (c *bookingUseCaseImpl) transition(ctx context.Context, id uuid.UUID, topic string, fn func(b *booking.Booking) error) (*queries.BookingView, error) {
	entity, err := shared.RunInTx(ctx, c.db, func(tx db.Querier) (*booking.Booking, error) {
		b, err := c.findForUpdate(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if err := fn(b); err != nil {
			return nil, markDomainErr(err)
		}
		return b, c.update(ctx, tx, b, nil)
	})
	if err != nil {
		return nil, err
	}

	c.dispatch(ctx, topic, entity)
	return c.bookingQueries.GetByIDSystem(ctx, id)
}

func (c *bookingUseCaseImpl) findForUpdate(ctx context.Context, tx db.Querier, id uuid.UUID) (*booking.Booking, error) {
	b, err := c.bookingRepo.FindForUpdate(ctx, tx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return b, nil
}

func (c *bookingUseCaseImpl) update(ctx context.Context, tx db.Querier, b *booking.Booking, breakdown []byte) error {
	if err := c.bookingRepo.Update(ctx, tx, b, breakdown); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return ErrVersionConflict
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

// refreshQueuePositions renumbers the vendor's still-pending bookings that
// overlap the just-confirmed slot, in arrival order. The accepted booking is
// excluded; anything not overlapping keeps a NULL position.
func (c *bookingUseCaseImpl) refreshQueuePositions(ctx context.Context, tx db.Querier, vendorID uuid.UUID, slot booking.TimeSlot, excludeID uuid.UUID) error {
	ids, err := c.bookingRepo.ListPendingOverlapping(ctx, tx, vendorID, slot, excludeID)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := c.bookingRepo.SetQueuePositions(ctx, tx, ids); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *bookingUseCaseImpl) recomputeBreakdown(ctx context.Context, b *booking.Booking, slot booking.TimeSlot) ([]byte, error) {
	pc, err := c.catalogRepo.PricingContext(ctx, b.ServiceID())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	tier, err := queries.ResolveTier(pc, b.PricingOptionID())
	if err != nil {
		return nil, err
	}
	return c.computeBreakdown(pc, tier, slot)
}

func (c *bookingUseCaseImpl) computeBreakdown(pc *shared.PricingContext, tier *pricing.Tier, slot booking.TimeSlot) ([]byte, error) {
	bd, err := c.calculator.Compute(pricing.Rates{
		HourlyCents: pc.HourlyRateCents,
		DailyCents:  pc.DailyRateCents,
		Currency:    pc.Currency,
	}, tier, slot.Start(), slot.End())
	if err != nil {
		return nil, markDomainErr(err)
	}
	return json.Marshal(bd)
}

func (c *bookingUseCaseImpl) dispatch(ctx context.Context, topic string, b *booking.Booking) {
	c.dispatcher.Dispatch(ctx, Event{
		Topic:      topic,
		BookingID:  b.ID(),
		CustomerID: b.CustomerID(),
		VendorID:   b.VendorID(),
		OccurredAt: c.clock.Now(),
	})
}

func markDomainErr(err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidTransition):
		return errs.Mark(err, ErrInvalidTransition)
	case errors.Is(err, booking.ErrActorNotAllowed):
		return errs.Mark(err, ErrActorNotAllowed)
	case errors.Is(err, booking.ErrValidation):
		return errs.Mark(err, ErrDomainValidation)
	case errors.Is(err, booking.ErrInvalidInterval):
		return errs.Mark(err, queries.ErrInvalidInterval)
	case errors.Is(err, pricing.ErrInvalidInterval):
		return errs.Mark(err, queries.ErrInvalidInterval)
	case errors.Is(err, pricing.ErrCurrencyMismatch):
		return errs.Mark(err, queries.ErrCurrencyMismatch)
	default:
		return err
	}
}
