package pricing

import (
	"errors"
	"math"
	"time"
)

var (
	ErrInvalidInterval  = errors.New("pricing interval must have positive length")
	ErrCurrencyMismatch = errors.New("tier currency does not match service currency")
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * 60
	bpsDenominator = 10000
)

// Calculator reduces (base rates, optional tier, interval) to a Breakdown.
// It is a pure function over its inputs plus the immutable rule set it was
// constructed with; it performs no I/O and is safe for unlimited concurrent use.
type Calculator struct {
	rules          Rules
	platformFeeBps int64
}

func NewCalculator(rules Rules, platformFeeRate float64) *Calculator {
	return &Calculator{
		rules:          rules,
		platformFeeBps: int64(math.Round(platformFeeRate * bpsDenominator)),
	}
}

func (c *Calculator) Compute(rates Rates, tier *Tier, start, end time.Time) (*Breakdown, error) {
	start = start.UTC()
	end = end.UTC()

	// UTC instant subtraction, never wall-clock field math, so DST-spanning
	// intervals come out in real elapsed minutes.
	totalMinutes := int64(end.Sub(start) / time.Minute)
	if totalMinutes <= 0 {
		return nil, ErrInvalidInterval
	}
	if tier != nil && tier.Currency != "" && tier.Currency != rates.Currency {
		return nil, ErrCurrencyMismatch
	}

	totalHours := int(ceilDiv(totalMinutes, minutesPerHour))
	totalDays := float64(totalMinutes) / float64(minutesPerDay)
	fullDays := int(totalMinutes / minutesPerDay)
	extraHours := int(ceilDiv(totalMinutes-int64(fullDays)*minutesPerDay, minutesPerHour))

	bd := &Breakdown{
		TotalHours: totalHours,
		TotalDays:  totalDays,
		FullDays:   fullDays,
		ExtraHours: extraHours,
		Currency:   rates.Currency,
		Surcharges: []Line{},
		LineItems:  []Line{},
	}

	if tier != nil && tier.BillingInterval == BillingFixed {
		// Fixed packages bypass surcharge and discount rules entirely.
		bd.Method = MethodFixed
		bd.SubtotalCents = tier.PriceCents
		bd.PlatformFeeCents = applyBps(bd.SubtotalCents, c.platformFeeBps)
		bd.TotalCents = bd.SubtotalCents + bd.PlatformFeeCents
		bd.LineItems = append(bd.LineItems,
			Line{Label: lineFixedPackage, AmountCents: tier.PriceCents},
			Line{Label: linePlatformFee, AmountCents: bd.PlatformFeeCents},
		)
		return bd, nil
	}

	hourlyRate, dailyRate := effectiveRates(rates, tier)

	switch {
	case fullDays >= 1 && extraHours == 0:
		bd.Method = MethodDaily
		bd.DailyCostCents = int64(fullDays) * dailyRate
	case fullDays >= 1:
		bd.Method = MethodMixed
		bd.DailyCostCents = int64(fullDays) * dailyRate
		bd.HourlyCostCents = int64(extraHours) * hourlyRate
	default:
		bd.Method = MethodHourly
		bd.HourlyCostCents = int64(totalHours) * hourlyRate
	}
	bd.BaseCostCents = bd.DailyCostCents + bd.HourlyCostCents
	bd.LineItems = append(bd.LineItems, Line{Label: lineBaseRate, AmountCents: bd.BaseCostCents})

	// Surcharges apply to base cost in fixed order, then the multi-day
	// discount, then the platform fee on the resulting subtotal.
	if c.rules.WeekendSurchargeBps > 0 && touchesWeekend(start, end) {
		amount := applyBps(bd.BaseCostCents, c.rules.WeekendSurchargeBps)
		bd.Surcharges = append(bd.Surcharges, Line{Label: lineWeekendSurcharge, AmountCents: amount})
		bd.LineItems = append(bd.LineItems, Line{Label: lineWeekendSurcharge, AmountCents: amount})
	}
	if c.rules.AfterHoursSurchargeBps > 0 && c.rules.touchesAfterHours(start, end) {
		amount := applyBps(bd.BaseCostCents, c.rules.AfterHoursSurchargeBps)
		bd.Surcharges = append(bd.Surcharges, Line{Label: lineAfterHoursSurcharge, AmountCents: amount})
		bd.LineItems = append(bd.LineItems, Line{Label: lineAfterHoursSurcharge, AmountCents: amount})
	}
	if c.rules.MultiDayDiscountBps > 0 && c.rules.MultiDayThresholdDays > 0 && fullDays >= c.rules.MultiDayThresholdDays {
		bd.DiscountCents = applyBps(bd.BaseCostCents, c.rules.MultiDayDiscountBps)
		bd.LineItems = append(bd.LineItems, Line{Label: lineMultiDayDiscount, AmountCents: -bd.DiscountCents})
	}

	bd.SubtotalCents = bd.BaseCostCents - bd.DiscountCents
	for _, s := range bd.Surcharges {
		bd.SubtotalCents += s.AmountCents
	}

	bd.PlatformFeeCents = applyBps(bd.SubtotalCents, c.platformFeeBps)
	bd.TotalCents = bd.SubtotalCents + bd.PlatformFeeCents
	bd.LineItems = append(bd.LineItems, Line{Label: linePlatformFee, AmountCents: bd.PlatformFeeCents})

	return bd, nil
}

func effectiveRates(rates Rates, tier *Tier) (hourlyCents, dailyCents int64) {
	hourlyCents = rates.HourlyCents
	dailyCents = rates.DailyCents
	if tier == nil {
		return hourlyCents, dailyCents
	}
	switch tier.BillingInterval {
	case BillingHourly:
		hourlyCents = tier.PriceCents
	case BillingDaily:
		dailyCents = tier.PriceCents
	}
	return hourlyCents, dailyCents
}

func ceilDiv(n, d int64) int64 {
	return (n + d - 1) / d
}

// applyBps multiplies a non-negative cent amount by a basis-point rate with
// round-half-up, staying in integer arithmetic throughout.
func applyBps(amountCents, bps int64) int64 {
	return (amountCents*bps + bpsDenominator/2) / bpsDenominator
}
