//go:build unit

package booking_test

import (
	"testing"
	"time"

	"booking-core/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func TestNewTimeSlot(t *testing.T) {
	t.Run("valid slot", func(t *testing.T) {
		slot, err := booking.NewTimeSlot(base, base.Add(2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, base, slot.Start())
		assert.Equal(t, base.Add(2*time.Hour), slot.End())
		assert.Equal(t, int64(120), slot.Minutes())
	})

	t.Run("end equal to start", func(t *testing.T) {
		_, err := booking.NewTimeSlot(base, base)
		assert.ErrorIs(t, err, booking.ErrInvalidInterval)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := booking.NewTimeSlot(base, base.Add(-time.Hour))
		assert.ErrorIs(t, err, booking.ErrInvalidInterval)
	})

	t.Run("normalizes to UTC", func(t *testing.T) {
		jst := time.FixedZone("JST", 9*3600)
		slot, err := booking.NewTimeSlot(base.In(jst), base.Add(time.Hour).In(jst))
		require.NoError(t, err)
		assert.Equal(t, time.UTC, slot.Start().Location())
		assert.True(t, slot.Start().Equal(base))
	})
}

func TestTimeSlotOverlaps(t *testing.T) {
	mk := func(startHour, endHour int) booking.TimeSlot {
		slot, err := booking.NewTimeSlot(
			base.Add(time.Duration(startHour)*time.Hour),
			base.Add(time.Duration(endHour)*time.Hour),
		)
		require.NoError(t, err)
		return slot
	}

	tests := []struct {
		name string
		a, b booking.TimeSlot
		want bool
	}{
		{name: "identical", a: mk(0, 2), b: mk(0, 2), want: true},
		{name: "partial overlap", a: mk(0, 2), b: mk(1, 3), want: true},
		{name: "containment", a: mk(0, 4), b: mk(1, 2), want: true},
		{name: "back to back does not overlap", a: mk(0, 2), b: mk(2, 4), want: false},
		{name: "disjoint", a: mk(0, 1), b: mk(3, 4), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestAlternativeOfferExpiry(t *testing.T) {
	slot, err := booking.NewTimeSlot(base, base.Add(time.Hour))
	require.NoError(t, err)

	offer := booking.AlternativeOffer{Slot: slot, ExpiresAt: base}

	assert.False(t, offer.ExpiredAt(base.Add(-time.Second)))
	assert.False(t, offer.ExpiredAt(base), "offer is still live at the exact expiry instant")
	assert.True(t, offer.ExpiredAt(base.Add(time.Second)))
}
