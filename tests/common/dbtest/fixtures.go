//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestService inserts an active service with the given base rates and
// returns its id.
func CreateTestService(t *testing.T, db DBLike, vendorID uuid.UUID, hourlyCents, dailyCents int64) uuid.UUID {
	t.Helper()

	serviceID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx,
		`INSERT INTO services (id, vendor_id, name, hourly_rate_cents, daily_rate_cents, currency, is_active)
		 VALUES ($1, $2, $3, $4, $5, 'USD', true)`,
		serviceID, vendorID, "Test Service "+serviceID.String()[:8], hourlyCents, dailyCents)
	require.NoError(t, err)

	return serviceID
}

// DeactivateService flips a service to inactive so new requests are refused.
func DeactivateService(t *testing.T, db DBLike, serviceID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE services SET is_active = false WHERE id = $1", serviceID)
	require.NoError(t, err)
}

func CreateTestPricingOption(t *testing.T, db DBLike, serviceID uuid.UUID, label string, priceCents int64, billingInterval string) uuid.UUID {
	t.Helper()

	optionID := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO pricing_options (id, service_id, label, price_cents, currency, billing_interval, sort_order)
		 VALUES ($1, $2, $3, $4, 'USD', $5, 0)`,
		optionID, serviceID, label, priceCents, billingInterval)
	require.NoError(t, err)

	return optionID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between tests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}
	return nil
}
