package model

import "time"

// Priority is the highlight's display tier.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Category groups highlights by broad kind.
type Category string

const (
	CategoryPOI            Category = "poi"
	CategoryRecreation     Category = "recreation"
	CategoryTransportation Category = "transportation"
)

// Highlight is the persisted output unit. The full set for a project is
// replaced as a unit on every fresh computation.
type Highlight struct {
	ID              string    `json:"-"`
	ProjectID       string    `json:"project_id"`
	Type            string    `json:"poi_type"`
	Name            string    `json:"name"`
	Address         string    `json:"address,omitempty"`
	Description     string    `json:"description,omitempty"`
	DistanceKm      float64   `json:"distance_km"`
	Score           float64   `json:"step1_score"`
	Rating          *float64  `json:"rating,omitempty"`
	RatingCount     *int      `json:"rating_count,omitempty"`
	DrivingDistance string    `json:"driving_distance,omitempty"`
	DistanceSource  string    `json:"distance_source,omitempty"`
	Lat             *float64  `json:"lat,omitempty"`
	Lng             *float64  `json:"lng,omitempty"`
	Priority        Priority  `json:"priority"`
	Category        Category  `json:"category"`
	FromCache       bool      `json:"from_cache"`
	AgeDays         int       `json:"days_old,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
