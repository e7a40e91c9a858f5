package domain

import "time"

// Origin identifies where a load got its data from.
type Origin string

const (
	OriginNone    Origin = ""
	OriginNetwork Origin = "network"
	OriginCache   Origin = "cache"
)

// Progress is a single step report emitted while a load runs.
type Progress struct {
	LoadID  string
	Percent int
	Message string
}

// LoadResult holds the outcome of one fetch-or-cache load.
type LoadResult struct {
	ID          string
	Origin      Origin
	Countries   []Country
	Warnings    []string
	CompletedAt time.Time
	Duration    time.Duration
}

// Empty reports whether the load produced no countries.
func (r *LoadResult) Empty() bool {
	return r == nil || len(r.Countries) == 0
}
