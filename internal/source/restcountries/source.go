package restcountries

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"countries_fetcher/internal/domain"
)

const (
	SourceID   = "restcountries"
	SourceName = "REST Countries"

	DefaultBaseURL = "https://restcountries.com"
	DefaultPath    = "/v3.1/all"
)

// Config holds REST Countries source configuration.
type Config struct {
	BaseURL string
	Path    string
	Timeout time.Duration
}

// Source fetches the full country dataset from the REST Countries API.
type Source struct {
	httpClient *http.Client
	baseURL    string
	path       string
	logger     *slog.Logger
}

// New creates a new REST Countries source.
func New(cfg Config, logger *slog.Logger) *Source {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}

	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		path:    "/" + strings.TrimLeft(cfg.Path, "/"),
		logger:  logger.With("source", SourceID),
	}
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// BaseURL returns the API base URL, used in user-facing messages.
func (s *Source) BaseURL() string {
	return s.baseURL
}

// FetchAll issues a single GET for the whole dataset and returns the raw
// JSON payload. Non-2xx responses are reported as domain.ErrFetch.
func (s *Source) FetchAll(ctx context.Context) (string, error) {
	url := s.baseURL + s.path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", domain.ErrFetch, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "CountriesFetcher/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: execute request: %w", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %w", domain.ErrFetch, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: unexpected status: %d", domain.ErrFetch, resp.StatusCode)
	}

	s.logger.Debug("fetched countries payload",
		"url", url,
		"bytes", len(body),
	)

	return string(body), nil
}

// Codec decodes raw REST Countries payloads. It holds no state.
type Codec struct{}

// Decode implements the payload decoding used by the load service.
func (Codec) Decode(raw string) ([]domain.Country, error) {
	return Decode(raw)
}

// Decode parses a raw REST Countries JSON array into domain countries,
// preserving payload order.
func Decode(raw string) ([]domain.Country, error) {
	var apiCountries []APICountry
	if err := json.Unmarshal([]byte(raw), &apiCountries); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}

	return transform(apiCountries), nil
}

func transform(apiCountries []APICountry) []domain.Country {
	countries := make([]domain.Country, 0, len(apiCountries))

	for _, c := range apiCountries {
		country := domain.Country{
			Name:        c.Name.Common,
			Capitals:    c.Capital,
			Region:      c.Region,
			SubRegion:   c.Subregion,
			Area:        c.Area,
			Population:  c.Population,
			Gini:        c.Gini,
			Languages:   c.Languages,
			Borders:     c.Borders,
			Continents:  c.Continents,
			TimeZones:   c.Timezones,
			ISOCode2:    c.CCA2,
			Independent: c.Independent,
		}

		if c.Flags != nil {
			country.FlagURL = c.Flags.PNG
		}

		if len(c.Currencies) > 0 {
			country.Currencies = make(map[string]domain.Currency, len(c.Currencies))
			for code, cur := range c.Currencies {
				country.Currencies[code] = domain.Currency{
					Name:   cur.Name,
					Symbol: cur.Symbol,
				}
			}
		}

		if len(c.LatLng) > 0 {
			country.LatLng.Lat = c.LatLng[0]
		}
		if len(c.LatLng) > 1 {
			country.LatLng.Lng = c.LatLng[1]
		}

		countries = append(countries, country)
	}

	return countries
}
