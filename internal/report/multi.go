package report

import (
	"context"

	"countries_fetcher/internal/domain"
	"countries_fetcher/internal/service"
)

// Multi forwards every event to each reporter in order.
type Multi []service.Reporter

func (m Multi) Progress(ctx context.Context, p domain.Progress) {
	for _, r := range m {
		r.Progress(ctx, p)
	}
}

func (m Multi) Warn(ctx context.Context, loadID, message string) {
	for _, r := range m {
		r.Warn(ctx, loadID, message)
	}
}

func (m Multi) Complete(ctx context.Context, result *domain.LoadResult) {
	for _, r := range m {
		r.Complete(ctx, result)
	}
}

func (m Multi) Failed(ctx context.Context, loadID, message string) {
	for _, r := range m {
		r.Failed(ctx, loadID, message)
	}
}
