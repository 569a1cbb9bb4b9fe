package model

// Candidate is a point of interest, airport, or venue under consideration.
// Fields are read-only within the pipeline; optional attributes are pointers
// so absent values stay distinguishable from zeros.
type Candidate struct {
	ID          string   `json:"id,omitempty"`
	Type        string   `json:"poi_type"`
	Name        string   `json:"name"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Address     string   `json:"address,omitempty"`
	PrimaryType string   `json:"primary_type,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	RatingCount *int     `json:"rating_count,omitempty"`

	// Airport attributes.
	AirportClass string `json:"airport_class,omitempty"`
	IATACode     string `json:"iata_code,omitempty"`

	// Optional attributes carried into highlight descriptions.
	BusinessStatus       string `json:"business_status,omitempty"`
	WheelchairAccessible bool   `json:"wheelchair_accessible,omitempty"`

	// ImportanceHint is a source-provided score (airports only).
	ImportanceHint *float64 `json:"score,omitempty"`

	// CircleKm is the great-circle distance from the project site, annotated
	// by the spatial finder. It is a pre-filter value only; highlights always
	// carry the resolved distance instead.
	CircleKm float64 `json:"circle_distance_km"`
}

// RatingValue returns the rating or 0 when absent.
func (c Candidate) RatingValue() float64 {
	if c.Rating == nil {
		return 0
	}
	return *c.Rating
}

// RatingCountValue returns the rating count or 0 when absent.
func (c Candidate) RatingCountValue() int {
	if c.RatingCount == nil {
		return 0
	}
	return *c.RatingCount
}

// DistanceSource records how a travel distance was obtained.
type DistanceSource string

const (
	// DistanceRoute means the value came from the routing collaborator.
	DistanceRoute DistanceSource = "route"
	// DistanceCircle means the value is a great-circle fallback.
	DistanceCircle DistanceSource = "circle"
)

// Distance is a resolved travel distance in km with its provenance.
// Downstream logic treats both sources uniformly as numeric km; the tag is
// kept for debugging.
type Distance struct {
	Km     float64        `json:"km"`
	Source DistanceSource `json:"source"`
}

// ScoredCandidate is a candidate with its resolved distance and computed scores.
type ScoredCandidate struct {
	Candidate
	Distance      Distance `json:"distance"`
	RatingScore   float64  `json:"rating_score"`
	DistanceScore float64  `json:"distance_score"`
	Score         float64  `json:"score"`
	Priority      Priority `json:"priority"`
	Category      Category `json:"category"`
}
