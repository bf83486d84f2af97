package pricing

import "time"

// Rules is the configurable surcharge/discount set. Percentages are basis
// points so rule arithmetic stays in integers. A zero rate disables the rule.
// The application order is fixed: weekend surcharge, after-hours surcharge,
// multi-day discount, platform fee — only the rates come from configuration.
type Rules struct {
	WeekendSurchargeBps    int64
	AfterHoursSurchargeBps int64
	AfterHoursStart        int // hour of day (UTC) after which the surcharge applies
	AfterHoursEnd          int // hour of day (UTC) before which the surcharge applies
	MultiDayDiscountBps    int64
	MultiDayThresholdDays  int
}

const (
	lineBaseRate            = "Base rate"
	lineWeekendSurcharge    = "Weekend surcharge"
	lineAfterHoursSurcharge = "After-hours surcharge"
	lineMultiDayDiscount    = "Multi-day discount"
	linePlatformFee         = "Platform fee"
	lineFixedPackage        = "Fixed package"
)

// touchesWeekend reports whether any calendar day covered by [start,end)
// falls on Saturday or Sunday in UTC.
func touchesWeekend(start, end time.Time) bool {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for day.Before(end) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return true
		}
		day = day.AddDate(0, 0, 1)
	}
	return false
}

// touchesAfterHours reports whether any part of the interval falls outside the
// daytime window [AfterHoursEnd, AfterHoursStart) — i.e. it is after-hours
// unless it sits entirely inside one day's window.
func (r Rules) touchesAfterHours(start, end time.Time) bool {
	sameDay := start.Year() == end.Year() && start.YearDay() == end.YearDay()
	if !sameDay {
		return true
	}
	if start.Hour() < r.AfterHoursEnd {
		return true
	}
	if end.Hour() > r.AfterHoursStart {
		return true
	}
	if end.Hour() == r.AfterHoursStart && (end.Minute() > 0 || end.Second() > 0 || end.Nanosecond() > 0) {
		return true
	}
	return false
}
