package jobs

import (
	"context"
	"log/slog"
	"time"

	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/commands"

	"github.com/robfig/cron/v3"
)

const sweepTimeout = 30 * time.Second

// Sweeper periodically expires stale counter-offers. The sweep statement is
// idempotent, so overlapping runs across replicas are harmless.
type Sweeper struct {
	cron     *cron.Cron
	commands commands.BookingCommands
	schedule string
}

func NewSweeper(cmd commands.BookingCommands, cfg config.BookingConfig) *Sweeper {
	return &Sweeper{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		commands: cmd,
		schedule: cfg.SweepSchedule,
	}
}

func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("offer sweeper started", "schedule", s.schedule)
	return nil
}

// Stop halts scheduling and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		slog.Warn("offer sweeper stop timed out")
	}
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	n, err := s.commands.SweepExpiredAlternatives(ctx)
	if err != nil {
		slog.Error("offer sweep failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("expired stale offers", "count", n)
	}
}
