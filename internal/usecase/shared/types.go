package shared

import (
	"github.com/google/uuid"
)

// PricingContext is everything pricing needs about a service, read from the
// catalog collaborator in one shot.
type PricingContext struct {
	ServiceID       uuid.UUID
	VendorID        uuid.UUID
	ServiceName     string
	HourlyRateCents int64
	DailyRateCents  int64
	Currency        string
	IsActive        bool
	Tiers           []TierSnapshot
}

type TierSnapshot struct {
	ID              uuid.UUID
	Label           string
	PriceCents      int64
	Currency        string
	BillingInterval string
	DurationMinutes *int32
	SortOrder       int32
	IsActive        bool
}

// Tier returns the active tier with the given id, or nil.
func (pc *PricingContext) Tier(id uuid.UUID) *TierSnapshot {
	for i := range pc.Tiers {
		if pc.Tiers[i].ID == id && pc.Tiers[i].IsActive {
			return &pc.Tiers[i]
		}
	}
	return nil
}
