package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"countries_fetcher/internal/domain"
)

type Probe interface {
	Online(ctx context.Context) bool
}

type Source interface {
	ID() string
	BaseURL() string
	FetchAll(ctx context.Context) (string, error)
}

type Decoder interface {
	Decode(raw string) ([]domain.Country, error)
}

type CacheStore interface {
	Save(ctx context.Context, blob string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Reporter is the presentation boundary a load reports back to.
// Implementations must be safe to call from the loading goroutine.
type Reporter interface {
	Progress(ctx context.Context, p domain.Progress)
	Warn(ctx context.Context, loadID, message string)
	Complete(ctx context.Context, result *domain.LoadResult)
	Failed(ctx context.Context, loadID, message string)
}
