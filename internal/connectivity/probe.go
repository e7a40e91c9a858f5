package connectivity

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const (
	DefaultURL     = "http://clients3.google.com/generate_204"
	DefaultTimeout = 1 * time.Second
)

// Probe answers whether the network is reachable. It is safe for
// concurrent use.
type Probe struct {
	httpClient *http.Client
	url        string
	logger     *slog.Logger
}

// NewProbe creates a probe against url. The timeout is kept short because
// the check also runs on every selection change.
func NewProbe(url string, timeout time.Duration, logger *slog.Logger) *Probe {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Probe{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		logger:     logger.With("component", "connectivity"),
	}
}

// Online returns true only when the endpoint answers 204 No Content.
// Failures are never returned to the caller.
func (p *Probe) Online(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.logger.Debug("create probe request", "error", err)
		return false
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Debug("network unreachable", "error", err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusNoContent
}
