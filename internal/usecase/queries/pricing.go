package queries

import (
	"context"
	"errors"
	"time"

	"booking-core/internal/domain/pricing"
	"booking-core/internal/infra"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrServiceNotFound       = errs.New("service not found")
	ErrPricingOptionNotFound = errs.New("pricing option not found")
	ErrInvalidInterval       = errs.New("invalid pricing interval")
	ErrCurrencyMismatch      = errs.New("currency mismatch")
)

type CatalogReadStore interface {
	PricingContext(ctx context.Context, serviceID uuid.UUID) (*shared.PricingContext, error)
}

// PricingQueries is the preview path. It runs the exact same calculator the
// commit path runs, so a previewed price can never disagree with the price
// stored on acceptance.
type PricingQueries interface {
	Preview(ctx context.Context, serviceID uuid.UUID, tierID *uuid.UUID, start, end time.Time) (*pricing.Breakdown, error)
}

type pricingQueriesImpl struct {
	catalog    CatalogReadStore
	calculator *pricing.Calculator
}

func NewPricingQueries(catalog CatalogReadStore, calculator *pricing.Calculator) PricingQueries {
	return &pricingQueriesImpl{catalog: catalog, calculator: calculator}
}

func (q *pricingQueriesImpl) Preview(ctx context.Context, serviceID uuid.UUID, tierID *uuid.UUID, start, end time.Time) (*pricing.Breakdown, error) {
	pc, err := q.catalog.PricingContext(ctx, serviceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	tier, err := ResolveTier(pc, tierID)
	if err != nil {
		return nil, err
	}

	bd, err := q.calculator.Compute(pricing.Rates{
		HourlyCents: pc.HourlyRateCents,
		DailyCents:  pc.DailyRateCents,
		Currency:    pc.Currency,
	}, tier, start, end)
	if err != nil {
		return nil, markPricingError(err)
	}
	return bd, nil
}

// ResolveTier maps an optional tier id to the calculator input, shared by the
// preview and commit paths.
func ResolveTier(pc *shared.PricingContext, tierID *uuid.UUID) (*pricing.Tier, error) {
	if tierID == nil {
		return nil, nil
	}
	snap := pc.Tier(*tierID)
	if snap == nil {
		return nil, ErrPricingOptionNotFound
	}
	return &pricing.Tier{
		ID:              snap.ID,
		Label:           snap.Label,
		PriceCents:      snap.PriceCents,
		Currency:        snap.Currency,
		BillingInterval: pricing.BillingInterval(snap.BillingInterval),
		DurationMinutes: snap.DurationMinutes,
	}, nil
}

func markPricingError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrInvalidInterval):
		return errs.Mark(err, ErrInvalidInterval)
	case errors.Is(err, pricing.ErrCurrencyMismatch):
		return errs.Mark(err, ErrCurrencyMismatch)
	default:
		return err
	}
}
