// Package scoring converts candidates and resolved distances into ranked,
// categorized scored candidates.
package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/sells-group/highlights-cli/internal/model"
)

const (
	// Alpha dampens the rating-count contribution to the composite score.
	Alpha = 0.7

	// MaxDistanceKm is the hard post-resolution cutoff for POI scoring.
	// It is applied after routing-distance resolution and is distinct from
	// the geo pre-filter radius used to fetch candidates.
	MaxDistanceKm = 15.0

	// defaultAirportScore is used when the source provides no importance hint.
	defaultAirportScore = 50.0
)

// POICategories is the fixed list of generic POI categories, one highlight
// winner each.
var POICategories = []string{
	"school",
	"hospital",
	"shopping_mall",
	"market",
	"park",
	"metro_station",
	"hotel",
	"railway_station",
	"college",
	"tourist_attraction",
}

// hospitalBrands is the fixed allow-list of hospital chains that triple a
// hospital's score when the name contains one of them.
var hospitalBrands = []string{"max", "fortis", "apollo", "medanta", "blk"}

// ScorePOIs computes composite scores for one POI category and returns the
// surviving candidates ranked for selection. Candidates whose resolved
// distance exceeds MaxDistanceKm are excluded regardless of the fetch radius.
// distances must be index-aligned with candidates.
func ScorePOIs(category string, candidates []model.Candidate, distances []model.Distance) []model.ScoredCandidate {
	scored := make([]model.ScoredCandidate, 0, len(candidates))

	for i, c := range candidates {
		var dist model.Distance
		if i < len(distances) {
			dist = distances[i]
		} else {
			dist = model.Distance{Source: model.DistanceCircle}
		}

		if dist.Km > MaxDistanceKm {
			continue
		}

		ratingScore := c.RatingValue() * math.Pow(float64(c.RatingCountValue())+1, Alpha)
		distanceScore := 1 / (1 + dist.Km)
		score := ratingScore * distanceScore
		score *= categoryMultiplier(category, c)

		scored = append(scored, model.ScoredCandidate{
			Candidate:     c,
			Distance:      dist,
			RatingScore:   ratingScore,
			DistanceScore: distanceScore,
			Score:         score,
			Priority:      poiPriority(category),
			Category:      model.CategoryPOI,
		})
	}

	// Proximity trumps rating for transit access: metro stations rank by
	// distance score alone. Everything else ranks by composite score.
	if category == "metro_station" {
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].DistanceScore > scored[j].DistanceScore
		})
	} else {
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Score > scored[j].Score
		})
	}

	return scored
}

// categoryMultiplier applies the category-specific score adjustments.
func categoryMultiplier(category string, c model.Candidate) float64 {
	switch category {
	case "hospital":
		name := strings.ToLower(c.Name)
		for _, brand := range hospitalBrands {
			if strings.Contains(name, brand) {
				return 3
			}
		}
	case "hotel":
		if strings.Contains(strings.ToLower(c.PrimaryType), "5-star") {
			return 1.5
		}
	}
	return 1
}

func poiPriority(category string) model.Priority {
	if category == "hospital" || category == "metro_station" {
		return model.PriorityHigh
	}
	return model.PriorityMedium
}

// ScoreGolf scores golf courses with the recreation formula (no distance
// factor) but orders them by resolved distance ascending. The divergence
// between scoring formula and selection order is intentional.
func ScoreGolf(candidates []model.Candidate, distances []model.Distance) []model.ScoredCandidate {
	scored := make([]model.ScoredCandidate, 0, len(candidates))

	for i, c := range candidates {
		var dist model.Distance
		if i < len(distances) {
			dist = distances[i]
		} else {
			dist = model.Distance{Source: model.DistanceCircle}
		}

		score := c.RatingValue() * math.Log(float64(c.RatingCountValue())+1)

		scored = append(scored, model.ScoredCandidate{
			Candidate: c,
			Distance:  dist,
			Score:     score,
			Priority:  model.PriorityMedium,
			Category:  model.CategoryRecreation,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Distance.Km < scored[j].Distance.Km
	})

	return scored
}

// SelectAirports keeps the airports in their nearest-by-geo-query order,
// carrying forward the source importance hint as the score. Priority follows
// the airport class and its resolved distance.
func SelectAirports(candidates []model.Candidate, distances []model.Distance, keep int) []model.ScoredCandidate {
	if keep > len(candidates) {
		keep = len(candidates)
	}
	scored := make([]model.ScoredCandidate, 0, keep)

	for i := 0; i < keep; i++ {
		c := candidates[i]
		var dist model.Distance
		if i < len(distances) {
			dist = distances[i]
		} else {
			dist = model.Distance{Source: model.DistanceCircle}
		}

		score := defaultAirportScore
		if c.ImportanceHint != nil {
			score = *c.ImportanceHint
		}

		scored = append(scored, model.ScoredCandidate{
			Candidate: c,
			Distance:  dist,
			Score:     score,
			Priority:  airportPriority(c.AirportClass, dist.Km),
			Category:  model.CategoryTransportation,
		})
	}

	return scored
}

func airportPriority(class string, km float64) model.Priority {
	switch {
	case class == "large_airport" && km < 30:
		return model.PriorityHigh
	case class == "medium_airport" && km < 20:
		return model.PriorityMedium
	case km < 10:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}
