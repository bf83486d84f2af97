package booking

import (
	"crypto/rand"
	"fmt"
	"time"
)

// newBookingNumber builds the human-readable identifier shown to both parties,
// e.g. BK-20260831-7F3A2C. The random suffix keeps it unique without another
// round-trip to storage; the date prefix keeps support lookups sane.
func newBookingNumber(now time.Time) string {
	var suffix [3]byte
	_, _ = rand.Read(suffix[:])
	return fmt.Sprintf("BK-%s-%X", now.UTC().Format("20060102"), suffix)
}

// RefreshBookingNumber draws a new number after a same-day suffix collision.
// Only meaningful before the first insert succeeds.
func (b *Booking) RefreshBookingNumber(now time.Time) {
	b.bookingNumber = newBookingNumber(now)
}
