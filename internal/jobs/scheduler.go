package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// refreshTimeout bounds one scheduled fetch.
const refreshTimeout = 30 * time.Second

// Fetcher is the slice of the weather service the scheduler needs.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (json.RawMessage, error)
}

// Scheduler triggers a weather fetch for a fixed location on a fixed
// interval (hourly in production). Nothing is cached — the run exists to
// exercise the upstream and leave a log trail, and a failure is logged and
// forgotten until the next tick.
type Scheduler struct {
	weather  Fetcher
	location string
	interval time.Duration
	logger   *slog.Logger

	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
}

// NewScheduler creates a Scheduler. The interval is injectable so tests can
// tick in milliseconds.
func NewScheduler(weather Fetcher, location string, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		weather:  weather,
		location: location,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the periodic refresh in the background. The first fetch
// happens after one full interval, not at startup.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		s.logger.Info("weather refresh scheduler starting",
			slog.String("location", s.location),
			slog.Duration("interval", s.interval),
		)
		s.wg.Add(1)
		go s.run()
	})
}

// Stop shuts the scheduler down and waits for an in-flight fetch.
func (s *Scheduler) Stop() {
	close(s.done)
	s.wg.Wait()
	s.logger.Info("weather refresh scheduler stopped")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.refresh()
		}
	}
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	data, err := s.weather.Fetch(ctx, s.location)
	if err != nil {
		s.logger.Error("scheduled weather refresh failed",
			slog.String("location", s.location),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Info("scheduled weather refresh completed",
		slog.String("location", s.location),
		slog.Int("bytes", len(data)),
	)
}
