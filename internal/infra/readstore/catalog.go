package readstore

import (
	"context"

	"booking-core/internal/infra"
	"booking-core/internal/infra/db"
	"booking-core/internal/pkg/pgconv"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// CatalogReadStore resolves services and their pricing options for the
// pricing side.
type CatalogReadStore struct {
	db db.Querier
}

func NewCatalogReadStore(q db.Querier) *CatalogReadStore {
	return &CatalogReadStore{db: q}
}

func (r *CatalogReadStore) PricingContext(ctx context.Context, serviceID uuid.UUID) (*shared.PricingContext, error) {
	var pc shared.PricingContext
	err := r.db.QueryRow(ctx, `
		SELECT id, vendor_id, name, hourly_rate_cents, daily_rate_cents, currency, is_active
		FROM services
		WHERE id = $1`, serviceID,
	).Scan(&pc.ServiceID, &pc.VendorID, &pc.ServiceName, &pc.HourlyRateCents, &pc.DailyRateCents, &pc.Currency, &pc.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("service not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find service", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, label, price_cents, currency, billing_interval, duration_minutes, sort_order, is_active
		FROM pricing_options
		WHERE service_id = $1
		ORDER BY sort_order, label`, serviceID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list pricing options", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tier     shared.TierSnapshot
			duration pgtype.Int4
		)
		if err := rows.Scan(&tier.ID, &tier.Label, &tier.PriceCents, &tier.Currency, &tier.BillingInterval, &duration, &tier.SortOrder, &tier.IsActive); err != nil {
			return nil, infra.WrapRepoErr("failed to scan pricing option row", err)
		}
		tier.DurationMinutes = pgconv.Int32PtrFromPgtype(duration)
		pc.Tiers = append(pc.Tiers, tier)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate pricing option rows", err)
	}
	return &pc, nil
}
