package notify

import (
	"context"
	"log/slog"

	"booking-core/internal/usecase/commands"
)

// LogDispatcher emits transition events as structured log lines. Downstream
// delivery (mail, push) is owned by another service that tails these events.
type LogDispatcher struct{}

func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

func (d *LogDispatcher) Dispatch(_ context.Context, ev commands.Event) {
	slog.Info("booking event",
		"topic", ev.Topic,
		"booking_id", ev.BookingID,
		"customer_id", ev.CustomerID,
		"vendor_id", ev.VendorID,
		"occurred_at", ev.OccurredAt,
	)
}
