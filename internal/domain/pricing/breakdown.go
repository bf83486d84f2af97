package pricing

import (
	"github.com/google/uuid"
)

type Method string

const (
	MethodHourly Method = "hourly"
	MethodDaily  Method = "daily"
	MethodMixed  Method = "mixed"
	MethodFixed  Method = "fixed"
)

type BillingInterval string

const (
	BillingHourly BillingInterval = "per_hour"
	BillingDaily  BillingInterval = "per_day"
	BillingFixed  BillingInterval = "fixed"
)

// Rates is the service's base pricing, read from the catalog. All money is
// integer cents; floats never touch monetary amounts.
type Rates struct {
	HourlyCents int64
	DailyCents  int64
	Currency    string
}

// Tier is a customer-selectable pricing option. A per-hour or per-day tier
// overrides the matching base rate; a fixed tier replaces the computation
// entirely.
type Tier struct {
	ID              uuid.UUID
	Label           string
	PriceCents      int64
	Currency        string
	BillingInterval BillingInterval
	DurationMinutes *int32
}

// Line is one display row of a breakdown. Discount lines carry a negative
// amount.
type Line struct {
	Label       string `json:"label"`
	AmountCents int64  `json:"amount_cents"`
}

// Breakdown is derived state: recomputed on demand from the same inputs and
// cached alongside the booking purely for display. Identical inputs always
// produce an identical Breakdown.
type Breakdown struct {
	TotalHours       int     `json:"total_hours"`
	TotalDays        float64 `json:"total_days"`
	FullDays         int     `json:"full_days"`
	ExtraHours       int     `json:"extra_hours"`
	BaseCostCents    int64   `json:"base_cost_cents"`
	DailyCostCents   int64   `json:"daily_cost_cents"`
	HourlyCostCents  int64   `json:"hourly_cost_cents"`
	Surcharges       []Line  `json:"surcharges"`
	DiscountCents    int64   `json:"discount_cents"`
	SubtotalCents    int64   `json:"subtotal_cents"`
	PlatformFeeCents int64   `json:"platform_fee_cents"`
	TotalCents       int64   `json:"total_cents"`
	Currency         string  `json:"currency"`
	LineItems        []Line  `json:"line_items"`
	Method           Method  `json:"calculation_method"`
}
