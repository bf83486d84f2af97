package components

import (
	"math"

	"booking-core/internal/domain/pricing"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		NewCalculator,
		func(cfg config.Config) config.BookingConfig { return cfg.Booking },
		queries.NewBookingQueries,
		queries.NewPricingQueries,
		commands.NewBookingUseCase,
	),
)

func NewCalculator(cfg config.Config) *pricing.Calculator {
	rules := pricing.Rules{
		WeekendSurchargeBps:    toBps(cfg.Pricing.WeekendSurchargeRate),
		AfterHoursSurchargeBps: toBps(cfg.Pricing.AfterHoursSurchargeRate),
		AfterHoursStart:        cfg.Pricing.AfterHoursStart,
		AfterHoursEnd:          cfg.Pricing.AfterHoursEnd,
		MultiDayDiscountBps:    toBps(cfg.Pricing.MultiDayDiscountRate),
		MultiDayThresholdDays:  cfg.Pricing.MultiDayThresholdDays,
	}
	return pricing.NewCalculator(rules, cfg.Pricing.PlatformFeeRate)
}

func toBps(rate float64) int64 {
	return int64(math.Round(rate * 10000))
}
