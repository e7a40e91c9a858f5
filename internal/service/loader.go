package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"countries_fetcher/internal/domain"
)

const timestampLayout = "02-01-2006 15:04:05"

// LoadService decides between the live API and the local cache, persists
// fresh payloads and hands the sorted countries to the reporter.
//
// Only one Load is expected to run at a time.
type LoadService struct {
	probe    Probe
	source   Source
	decoder  Decoder
	cache    CacheStore
	reporter Reporter
	logger   *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewLoadService wires the load workflow. cache may be nil when the local
// database could not be opened; loads then work online only.
func NewLoadService(
	probe Probe,
	source Source,
	decoder Decoder,
	cache CacheStore,
	reporter Reporter,
	logger *slog.Logger,
) *LoadService {
	if reporter == nil {
		reporter = nopReporter{}
	}

	return &LoadService{
		probe:    probe,
		source:   source,
		decoder:  decoder,
		cache:    cache,
		reporter: reporter,
		logger:   logger.With("source", source.ID()),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Load runs probe, acquire, persist, decode and finalize in order.
//
// Handled failures (unreachable API, empty cache) end the load with an
// empty result and a nil error after the reporter has been told. A
// decode failure or context cancellation is also returned as an error.
func (s *LoadService) Load(ctx context.Context) (*domain.LoadResult, error) {
	start := s.now()
	result := &domain.LoadResult{ID: s.newID()}
	logger := s.logger.With("load_id", result.ID)

	logger.Info("starting load", "cache_available", s.cache != nil)

	online := s.probe.Online(ctx)
	s.progress(ctx, result.ID, 10, "Checking Internet connection!")
	logger.Debug("connectivity checked", "online", online)

	if err := ctx.Err(); err != nil {
		return s.finish(result, start), err
	}

	var (
		raw string
		ok  bool
	)
	if online {
		raw, ok = s.fromNetwork(ctx, result, logger)
	} else {
		raw, ok = s.fromCache(ctx, result, logger)
	}
	if !ok {
		return s.finish(result, start), ctx.Err()
	}

	if err := ctx.Err(); err != nil {
		return s.finish(result, start), err
	}

	s.progress(ctx, result.ID, 60, "Deserializing countries JSON!")
	countries, err := s.decoder.Decode(raw)
	if err != nil {
		logger.Error("decode failed", "origin", result.Origin, "error", err)
		s.reporter.Failed(ctx, result.ID, "Countries data could not be read: "+err.Error())
		return s.finish(result, start), fmt.Errorf("decode payload: %w", err)
	}
	s.progress(ctx, result.ID, 70, "Countries successfully deserialized!")

	if len(countries) == 0 {
		msg := "No countries stored in the local database!"
		if online {
			msg = "No countries were fetched from the API!\nPlease try again later!"
		}
		logger.Warn("load produced no countries", "origin", result.Origin)
		s.reporter.Failed(ctx, result.ID, msg)
		return s.finish(result, start), nil
	}

	domain.SortByName(countries)
	result.Countries = countries
	s.finish(result, start)

	var summary string
	if result.Origin == domain.OriginNetwork {
		summary = fmt.Sprintf("%d countries fetched from API %s\nat %s",
			len(countries), s.source.BaseURL(), result.CompletedAt.Format(timestampLayout))
	} else {
		summary = fmt.Sprintf("%d countries loaded from local database\nat %s",
			len(countries), result.CompletedAt.Format(timestampLayout))
	}
	s.progress(ctx, result.ID, 100, summary)

	logger.Info("load completed",
		"origin", result.Origin,
		"countries", len(result.Countries),
		"warnings", len(result.Warnings),
		"duration", result.Duration,
	)

	s.reporter.Complete(ctx, result)
	return result, nil
}

func (s *LoadService) fromNetwork(ctx context.Context, result *domain.LoadResult, logger *slog.Logger) (string, bool) {
	s.progress(ctx, result.ID, 20, "Establishing an online connection!")
	s.progress(ctx, result.ID, 30, "Fetching countries from the API!")

	raw, err := s.source.FetchAll(ctx)
	if err != nil {
		logger.Warn("fetch failed, cache left untouched", "error", err)
		s.reporter.Failed(ctx, result.ID,
			fmt.Sprintf("Countries fetch from the API %s was unsuccessful!", s.source.BaseURL()))
		return "", false
	}
	result.Origin = domain.OriginNetwork
	s.progress(ctx, result.ID, 40, "Countries successfully fetched from the API!")

	s.progress(ctx, result.ID, 50, "Deleting and saving countries in the local database!")
	if err := s.persist(ctx, raw); err != nil {
		logger.Warn("persist failed, continuing with fetched data", "error", err)
		s.warn(ctx, result, "Countries could not be saved in the local database: "+err.Error())
	}

	return raw, true
}

func (s *LoadService) persist(ctx context.Context, raw string) error {
	if s.cache == nil {
		return fmt.Errorf("%w: local database unavailable", domain.ErrStorageWrite)
	}
	if err := s.cache.Clear(ctx); err != nil {
		return err
	}
	return s.cache.Save(ctx, raw)
}

func (s *LoadService) fromCache(ctx context.Context, result *domain.LoadResult, logger *slog.Logger) (string, bool) {
	if s.cache == nil {
		logger.Warn("offline without local database")
		s.reporter.Failed(ctx, result.ID, "No Internet connection and no local database available!")
		return "", false
	}

	s.progress(ctx, result.ID, 20, "Establishing connection to the local database!")
	s.progress(ctx, result.ID, 30, "Reading the countries JSON from the database!")

	raw, err := s.cache.Load(ctx)
	if err != nil {
		logger.Error("cache read failed", "error", err)
		s.reporter.Failed(ctx, result.ID, "Error fetching countries from the local database: "+err.Error())
		return "", false
	}
	if strings.TrimSpace(raw) == "" {
		logger.Warn("cache is empty")
		s.reporter.Failed(ctx, result.ID, "No countries stored in the local database!")
		return "", false
	}

	result.Origin = domain.OriginCache
	s.progress(ctx, result.ID, 50, "Countries JSON retrieved from the database!")
	return raw, true
}

func (s *LoadService) progress(ctx context.Context, loadID string, percent int, message string) {
	s.reporter.Progress(ctx, domain.Progress{
		LoadID:  loadID,
		Percent: percent,
		Message: message,
	})
}

func (s *LoadService) warn(ctx context.Context, result *domain.LoadResult, message string) {
	result.Warnings = append(result.Warnings, message)
	s.reporter.Warn(ctx, result.ID, message)
}

func (s *LoadService) finish(result *domain.LoadResult, start time.Time) *domain.LoadResult {
	result.CompletedAt = s.now()
	result.Duration = result.CompletedAt.Sub(start)
	return result
}

type nopReporter struct{}

func (nopReporter) Progress(context.Context, domain.Progress) {}
func (nopReporter) Warn(context.Context, string, string) {}
func (nopReporter) Complete(context.Context, *domain.LoadResult) {}
func (nopReporter) Failed(context.Context, string, string) {}
