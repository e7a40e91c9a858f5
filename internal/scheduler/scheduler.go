package scheduler

import (
	"context"
	"log/slog"
	"time"

	"countries_fetcher/internal/domain"
)

// Loader runs one fetch-or-cache load.
type Loader interface {
	Load(ctx context.Context) (*domain.LoadResult, error)
}

type Scheduler struct {
	loader   Loader
	interval time.Duration
	timeout  time.Duration
	onResult func(*domain.LoadResult)
	logger   *slog.Logger
}

type Option func(*Scheduler)

// WithResultHandler is called after every load that produced countries.
func WithResultHandler(fn func(*domain.LoadResult)) Option {
	return func(s *Scheduler) {
		s.onResult = fn
	}
}

// WithLoadTimeout bounds each load. Defaults to five minutes.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.timeout = d
	}
}

func NewScheduler(loader Loader, interval time.Duration, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		loader:   loader,
		interval: interval,
		timeout:  5 * time.Minute,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads once, then again every interval until ctx is done. Loads never
// overlap.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runLoad(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runLoad(ctx)
		}
	}
}

func (s *Scheduler) runLoad(ctx context.Context) {
	loadCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.loader.Load(loadCtx)
	if err != nil {
		s.logger.Error("load failed", "error", err)
		return
	}
	if result.Empty() {
		return
	}
	if s.onResult != nil {
		s.onResult(result)
	}
}
