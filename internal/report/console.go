package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"countries_fetcher/internal/domain"
)

// Console prints load progress for a terminal user. Safe for concurrent use.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	logger *slog.Logger
}

func NewConsole(out io.Writer, logger *slog.Logger) *Console {
	return &Console{
		out:    out,
		logger: logger.With("component", "console_reporter"),
	}
}

func (c *Console) Progress(_ context.Context, p domain.Progress) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, "[%3d%%] %s\n", p.Percent, p.Message)
	c.logger.Debug("load progress", "load_id", p.LoadID, "percent", p.Percent)
}

func (c *Console) Warn(_ context.Context, loadID, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, "Warning: %s\n", message)
	c.logger.Warn("load warning", "load_id", loadID, "message", message)
}

func (c *Console) Complete(_ context.Context, result *domain.LoadResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Info("load complete",
		"load_id", result.ID,
		"origin", result.Origin,
		"countries", len(result.Countries),
	)
}

func (c *Console) Failed(_ context.Context, loadID, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, "Error: %s\n", message)
	c.logger.Error("load failed", "load_id", loadID, "message", message)
}
