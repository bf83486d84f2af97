package booking

import (
	"fmt"
	"time"
)

// TimeSlot is a half-open [start,end) interval stored in UTC. All duration math
// runs over the UTC instants, never wall-clock fields, so intervals spanning a
// DST transition come out in real elapsed minutes.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	start = start.UTC()
	end = end.UTC()
	if !end.After(start) {
		return TimeSlot{}, ErrInvalidInterval
	}
	return TimeSlot{start: start, end: end}, nil
}

// ReconstructTimeSlot rehydrates a persisted slot without re-validating;
// the schema already guarantees end > start.
func ReconstructTimeSlot(start, end time.Time) TimeSlot {
	return TimeSlot{start: start.UTC(), end: end.UTC()}
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

func (ts TimeSlot) Minutes() int64 {
	return int64(ts.end.Sub(ts.start) / time.Minute)
}

func (ts TimeSlot) IsZero() bool {
	return ts.start.IsZero() && ts.end.IsZero()
}

// Overlaps uses the standard open-interval test: existingStart < newEnd AND
// existingEnd > newStart. Back-to-back slots do not overlap.
func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && ts.end.After(other.start)
}

func (ts TimeSlot) String() string {
	return fmt.Sprintf("[%s,%s)", ts.start.Format(time.RFC3339), ts.end.Format(time.RFC3339))
}

// AlternativeOffer is a vendor counter-proposal pending customer resolution.
// It exists if and only if the booking is alternative_proposed.
type AlternativeOffer struct {
	Slot      TimeSlot
	Message   string
	ExpiresAt time.Time
}

func (o AlternativeOffer) ExpiredAt(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
