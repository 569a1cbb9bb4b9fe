package model

import "time"

// ProjectResult is the single-project output object.
type ProjectResult struct {
	ProjectID       string      `json:"project_id"`
	ProjectName     string      `json:"project_name"`
	ProjectLocation Location    `json:"project_location"`
	Highlights      []Highlight `json:"highlights"`
	TotalHighlights int         `json:"total_highlights"`
	POICount        int         `json:"poi_count"`
	GolfCount       int         `json:"golf_count"`
	AirportCount    int         `json:"airport_count"`
	FromCache       bool        `json:"from_cache"`
	CacheAgeDays    int         `json:"cache_age_days,omitempty"`
	ProcessedAt     time.Time   `json:"processed_at"`
}

// ProjectSummary is the per-project line item in a batch result.
type ProjectSummary struct {
	ProjectID       string `json:"project_id"`
	ProjectName     string `json:"project_name"`
	HighlightsCount int    `json:"highlights_count"`
	POICount        int    `json:"poi_count"`
	GolfCount       int    `json:"golf_count"`
	AirportCount    int    `json:"airport_count"`
	FromCache       bool   `json:"from_cache"`
	CacheAgeDays    int    `json:"cache_age_days,omitempty"`
}

// ProjectFailure records a project that could not be processed.
type ProjectFailure struct {
	ProjectID string `json:"project_id"`
	Error     string `json:"error"`
}

// BatchResult is the aggregated output of batch mode. Counts always add up:
// ProcessedCount + CachedCount + FailedCount == TotalProjects.
type BatchResult struct {
	TotalProjects   int              `json:"totalProjects"`
	ProcessedCount  int              `json:"processedCount"`
	CachedCount     int              `json:"cachedCount"`
	FailedCount     int              `json:"failedCount"`
	TotalHighlights int              `json:"totalHighlights"`
	Highlights      []Highlight      `json:"highlights"`
	Preview         []Highlight      `json:"preview"`
	Processed       []ProjectSummary `json:"processed_projects"`
	Cached          []ProjectSummary `json:"cached_projects"`
	Failed          []ProjectFailure `json:"failed_projects"`
	ProcessedAt     time.Time        `json:"processed_at"`
}
