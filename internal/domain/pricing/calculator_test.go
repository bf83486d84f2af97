//go:build unit

package pricing_test

import (
	"testing"
	"time"

	"booking-core/internal/domain/pricing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monday is a weekday anchor; surcharge rules never fire on it during
// daytime hours.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

var baseRates = pricing.Rates{HourlyCents: 2000, DailyCents: 10000, Currency: "USD"}

func plainCalculator() *pricing.Calculator {
	return pricing.NewCalculator(pricing.Rules{}, 0.05)
}

func TestComputeMethodSelection(t *testing.T) {
	calc := plainCalculator()

	tests := []struct {
		name       string
		start, end time.Time
		method     pricing.Method
		totalHours int
		fullDays   int
		extraHours int
		base       int64
		fee        int64
		total      int64
	}{
		{
			name:  "partial hours round up",
			start: monday.Add(9 * time.Hour), end: monday.Add(17*time.Hour + 30*time.Minute),
			method: pricing.MethodHourly, totalHours: 9, fullDays: 0, extraHours: 9,
			base: 18000, fee: 900, total: 18900,
		},
		{
			name:  "exact days bill daily",
			start: monday.Add(9 * time.Hour), end: monday.Add(9*time.Hour + 48*time.Hour),
			method: pricing.MethodDaily, totalHours: 48, fullDays: 2, extraHours: 0,
			base: 20000, fee: 1000, total: 21000,
		},
		{
			name:  "days plus remainder bill mixed",
			start: monday.Add(9 * time.Hour), end: monday.Add(9*time.Hour + 26*time.Hour),
			method: pricing.MethodMixed, totalHours: 26, fullDays: 1, extraHours: 2,
			base: 14000, fee: 700, total: 14700,
		},
		{
			name:  "single hour",
			start: monday.Add(10 * time.Hour), end: monday.Add(11 * time.Hour),
			method: pricing.MethodHourly, totalHours: 1, fullDays: 0, extraHours: 1,
			base: 2000, fee: 100, total: 2100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd, err := calc.Compute(baseRates, nil, tt.start, tt.end)
			require.NoError(t, err)

			assert.Equal(t, tt.method, bd.Method)
			assert.Equal(t, tt.totalHours, bd.TotalHours)
			assert.Equal(t, tt.fullDays, bd.FullDays)
			assert.Equal(t, tt.extraHours, bd.ExtraHours)
			assert.Equal(t, tt.base, bd.BaseCostCents)
			assert.Equal(t, tt.base, bd.SubtotalCents)
			assert.Equal(t, tt.fee, bd.PlatformFeeCents)
			assert.Equal(t, tt.total, bd.TotalCents)
			assert.Equal(t, "USD", bd.Currency)
			assert.Empty(t, bd.Surcharges)
			assert.Equal(t, bd.SubtotalCents+bd.PlatformFeeCents, bd.TotalCents)
		})
	}
}

func TestComputeInvalidInterval(t *testing.T) {
	calc := plainCalculator()
	start := monday.Add(10 * time.Hour)

	for name, end := range map[string]time.Time{
		"zero length":    start,
		"reversed":       start.Add(-time.Hour),
		"under a minute": start.Add(30 * time.Second),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := calc.Compute(baseRates, nil, start, end)
			assert.ErrorIs(t, err, pricing.ErrInvalidInterval)
		})
	}
}

func TestComputeRoundHalfUp(t *testing.T) {
	calc := plainCalculator()
	rates := pricing.Rates{HourlyCents: 2010, DailyCents: 10000, Currency: "USD"}

	// 5% of 2010 is 100.5; half cents round away from zero.
	bd, err := calc.Compute(rates, nil, monday.Add(10*time.Hour), monday.Add(11*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(101), bd.PlatformFeeCents)
	assert.Equal(t, int64(2111), bd.TotalCents)
}

func TestComputeTierOverrides(t *testing.T) {
	calc := plainCalculator()
	slot := func(hours int) (time.Time, time.Time) {
		return monday.Add(10 * time.Hour), monday.Add(time.Duration(10+hours) * time.Hour)
	}

	t.Run("hourly tier replaces the hourly rate", func(t *testing.T) {
		tier := &pricing.Tier{ID: uuid.New(), Label: "Premium", PriceCents: 3000, Currency: "USD", BillingInterval: pricing.BillingHourly}
		start, end := slot(2)
		bd, err := calc.Compute(baseRates, tier, start, end)
		require.NoError(t, err)
		assert.Equal(t, int64(6000), bd.BaseCostCents)
	})

	t.Run("daily tier replaces the daily rate", func(t *testing.T) {
		tier := &pricing.Tier{ID: uuid.New(), Label: "Weekly deal", PriceCents: 8000, Currency: "USD", BillingInterval: pricing.BillingDaily}
		start, end := slot(48)
		bd, err := calc.Compute(baseRates, tier, start, end)
		require.NoError(t, err)
		assert.Equal(t, pricing.MethodDaily, bd.Method)
		assert.Equal(t, int64(16000), bd.BaseCostCents)
	})

	t.Run("daily tier leaves the hourly remainder alone", func(t *testing.T) {
		tier := &pricing.Tier{ID: uuid.New(), PriceCents: 8000, Currency: "USD", BillingInterval: pricing.BillingDaily}
		start, end := slot(26)
		bd, err := calc.Compute(baseRates, tier, start, end)
		require.NoError(t, err)
		assert.Equal(t, pricing.MethodMixed, bd.Method)
		assert.Equal(t, int64(8000), bd.DailyCostCents)
		assert.Equal(t, int64(4000), bd.HourlyCostCents)
	})

	t.Run("currency mismatch is rejected", func(t *testing.T) {
		tier := &pricing.Tier{ID: uuid.New(), PriceCents: 3000, Currency: "EUR", BillingInterval: pricing.BillingHourly}
		start, end := slot(2)
		_, err := calc.Compute(baseRates, tier, start, end)
		assert.ErrorIs(t, err, pricing.ErrCurrencyMismatch)
	})
}

func TestComputeFixedTier(t *testing.T) {
	// Surcharge rules are armed to prove the fixed path bypasses them.
	calc := pricing.NewCalculator(pricing.Rules{
		WeekendSurchargeBps:    2500,
		AfterHoursSurchargeBps: 1500,
		AfterHoursStart:        18,
		AfterHoursEnd:          8,
		MultiDayDiscountBps:    1000,
		MultiDayThresholdDays:  3,
	}, 0.05)

	tier := &pricing.Tier{ID: uuid.New(), Label: "Move-out special", PriceCents: 15000, Currency: "USD", BillingInterval: pricing.BillingFixed}
	saturday := time.Date(2026, 3, 7, 20, 0, 0, 0, time.UTC)

	bd, err := calc.Compute(baseRates, tier, saturday, saturday.Add(3*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, pricing.MethodFixed, bd.Method)
	assert.Equal(t, int64(15000), bd.SubtotalCents)
	assert.Equal(t, int64(750), bd.PlatformFeeCents)
	assert.Equal(t, int64(15750), bd.TotalCents)
	assert.Empty(t, bd.Surcharges)
	assert.Zero(t, bd.DiscountCents)
	require.Len(t, bd.LineItems, 2)
	assert.Equal(t, "Fixed package", bd.LineItems[0].Label)
	assert.Equal(t, "Platform fee", bd.LineItems[1].Label)
}

func TestComputeSurcharges(t *testing.T) {
	t.Run("weekend", func(t *testing.T) {
		calc := pricing.NewCalculator(pricing.Rules{WeekendSurchargeBps: 2500}, 0.05)
		saturday := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)

		bd, err := calc.Compute(baseRates, nil, saturday, saturday.Add(2*time.Hour))
		require.NoError(t, err)

		require.Len(t, bd.Surcharges, 1)
		assert.Equal(t, "Weekend surcharge", bd.Surcharges[0].Label)
		assert.Equal(t, int64(1000), bd.Surcharges[0].AmountCents)
		assert.Equal(t, int64(5000), bd.SubtotalCents)
		assert.Equal(t, int64(250), bd.PlatformFeeCents)
		assert.Equal(t, int64(5250), bd.TotalCents)
	})

	t.Run("friday crossing midnight into saturday counts as weekend", func(t *testing.T) {
		calc := pricing.NewCalculator(pricing.Rules{WeekendSurchargeBps: 2500}, 0.05)
		friday := time.Date(2026, 3, 6, 23, 0, 0, 0, time.UTC)

		bd, err := calc.Compute(baseRates, nil, friday, friday.Add(2*time.Hour))
		require.NoError(t, err)
		require.Len(t, bd.Surcharges, 1)
	})

	t.Run("after hours evening", func(t *testing.T) {
		calc := pricing.NewCalculator(pricing.Rules{AfterHoursSurchargeBps: 1500, AfterHoursStart: 18, AfterHoursEnd: 8}, 0.05)
		start := monday.Add(19 * time.Hour)

		bd, err := calc.Compute(baseRates, nil, start, start.Add(2*time.Hour))
		require.NoError(t, err)

		require.Len(t, bd.Surcharges, 1)
		assert.Equal(t, "After-hours surcharge", bd.Surcharges[0].Label)
		assert.Equal(t, int64(600), bd.Surcharges[0].AmountCents)
		assert.Equal(t, int64(4830), bd.TotalCents)
	})

	t.Run("daytime weekday has no surcharge", func(t *testing.T) {
		calc := pricing.NewCalculator(pricing.Rules{WeekendSurchargeBps: 2500, AfterHoursSurchargeBps: 1500, AfterHoursStart: 18, AfterHoursEnd: 8}, 0.05)
		start := monday.Add(9 * time.Hour)

		bd, err := calc.Compute(baseRates, nil, start, start.Add(8*time.Hour))
		require.NoError(t, err)
		assert.Empty(t, bd.Surcharges)
	})

	t.Run("overnight booking is after hours", func(t *testing.T) {
		calc := pricing.NewCalculator(pricing.Rules{AfterHoursSurchargeBps: 1500, AfterHoursStart: 18, AfterHoursEnd: 8}, 0.05)
		start := monday.Add(10 * time.Hour)

		bd, err := calc.Compute(baseRates, nil, start, start.Add(24*time.Hour))
		require.NoError(t, err)
		require.Len(t, bd.Surcharges, 1)
	})
}

func TestComputeMultiDayDiscount(t *testing.T) {
	calc := pricing.NewCalculator(pricing.Rules{MultiDayDiscountBps: 1000, MultiDayThresholdDays: 3}, 0.05)
	start := monday.Add(9 * time.Hour)

	t.Run("at threshold", func(t *testing.T) {
		bd, err := calc.Compute(baseRates, nil, start, start.Add(72*time.Hour))
		require.NoError(t, err)

		assert.Equal(t, int64(30000), bd.BaseCostCents)
		assert.Equal(t, int64(3000), bd.DiscountCents)
		assert.Equal(t, int64(27000), bd.SubtotalCents)
		assert.Equal(t, int64(1350), bd.PlatformFeeCents)
		assert.Equal(t, int64(28350), bd.TotalCents)
	})

	t.Run("below threshold", func(t *testing.T) {
		bd, err := calc.Compute(baseRates, nil, start, start.Add(48*time.Hour))
		require.NoError(t, err)
		assert.Zero(t, bd.DiscountCents)
	})
}

// Identical inputs must yield identical breakdowns so the cached copy on a
// booking can always be reproduced.
func TestComputeDeterminism(t *testing.T) {
	calc := pricing.NewCalculator(pricing.Rules{
		WeekendSurchargeBps:    2500,
		AfterHoursSurchargeBps: 1500,
		AfterHoursStart:        18,
		AfterHoursEnd:          8,
		MultiDayDiscountBps:    1000,
		MultiDayThresholdDays:  3,
	}, 0.05)
	start := time.Date(2026, 3, 6, 19, 0, 0, 0, time.UTC)
	end := start.Add(80 * time.Hour)

	first, err := calc.Compute(baseRates, nil, start, end)
	require.NoError(t, err)
	second, err := calc.Compute(baseRates, nil, start, end)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	var surchargeSum int64
	for _, s := range first.Surcharges {
		surchargeSum += s.AmountCents
	}
	assert.Equal(t, first.BaseCostCents-first.DiscountCents+surchargeSum, first.SubtotalCents)
	assert.Equal(t, first.SubtotalCents+first.PlatformFeeCents, first.TotalCents)
}
