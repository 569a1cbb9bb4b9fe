package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/highlights-cli/internal/model"
)

// poiHighlight builds the highlight record for a POI category winner.
func poiHighlight(projectID, category string, sc model.ScoredCandidate, now time.Time) model.Highlight {
	h := baseHighlight(projectID, sc, now)
	h.Type = category
	h.Description = poiDescription(category, sc)
	return h
}

// golfHighlight builds the highlight record for a golf course.
func golfHighlight(projectID string, sc model.ScoredCandidate, now time.Time) model.Highlight {
	h := baseHighlight(projectID, sc, now)
	h.Type = "golf_course"
	h.Description = poiDescription("golf_course", sc)
	return h
}

// airportHighlight builds the highlight record for an airport.
func airportHighlight(projectID string, sc model.ScoredCandidate, now time.Time) model.Highlight {
	h := baseHighlight(projectID, sc, now)
	h.Type = "airport"
	h.Rating = nil
	h.RatingCount = nil
	h.Description = airportDescription(sc)
	return h
}

func baseHighlight(projectID string, sc model.ScoredCandidate, now time.Time) model.Highlight {
	lat, lng := sc.Lat, sc.Lng
	return model.Highlight{
		ProjectID:       projectID,
		Name:            sc.Name,
		Address:         sc.Address,
		DistanceKm:      sc.Distance.Km,
		Score:           sc.Score,
		Rating:          sc.Rating,
		RatingCount:     sc.RatingCount,
		DrivingDistance: fmt.Sprintf("%.1f km", sc.Distance.Km),
		DistanceSource:  string(sc.Distance.Source),
		Lat:             &lat,
		Lng:             &lng,
		Priority:        sc.Priority,
		Category:        sc.Category,
		FromCache:       false,
		CreatedAt:       now,
	}
}

// poiDescription renders human-readable context for a POI highlight:
// distance, rating, operational status, accessibility, and type-specific
// notes.
func poiDescription(category string, sc model.ScoredCandidate) string {
	parts := []string{
		fmt.Sprintf("%s located %.2fkm from project site.", humanizeType(category), sc.Distance.Km),
	}

	if sc.Rating != nil && sc.RatingCount != nil {
		parts = append(parts, fmt.Sprintf("Rated %.1f/5.0 based on %d reviews.", *sc.Rating, *sc.RatingCount))
	}

	switch sc.BusinessStatus {
	case "":
	case "OPERATIONAL":
		parts = append(parts, "Currently operational.")
	default:
		parts = append(parts, fmt.Sprintf("Status: %s.", sc.BusinessStatus))
	}

	if sc.WheelchairAccessible {
		parts = append(parts, "Wheelchair accessible.")
	}

	switch category {
	case "hospital":
		parts = append(parts, "Important for emergency medical services access.")
	case "school", "college":
		parts = append(parts, "Consider traffic patterns during school hours.")
	case "metro_station", "railway_station":
		parts = append(parts, "Provides public transportation connectivity.")
	}

	return strings.Join(parts, " ")
}

// airportDescription renders distance, IATA code, and airport class.
func airportDescription(sc model.ScoredCandidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Airport located %.1fkm from project site.", sc.Distance.Km)
	if sc.IATACode != "" {
		fmt.Fprintf(&b, " IATA Code: %s.", sc.IATACode)
	}
	if sc.AirportClass != "" {
		fmt.Fprintf(&b, " Type: %s.", humanizeType(sc.AirportClass))
	}
	return b.String()
}

// humanizeType turns a snake_case type token into a display title. A fresh
// caser per call: cases.Caser carries state and is not safe to share across
// batch goroutines.
func humanizeType(t string) string {
	if t == "" {
		return "Location"
	}
	return cases.Title(language.English).String(strings.ReplaceAll(t, "_", " "))
}

// sortByScore orders highlights by score descending, stable so equal scores
// keep source order (POIs, then golf, then airports).
func sortByScore(highlights []model.Highlight) {
	sort.SliceStable(highlights, func(i, j int) bool {
		return highlights[i].Score > highlights[j].Score
	})
}

func freshResult(project *model.Project, highlights []model.Highlight, now time.Time) *model.ProjectResult {
	r := &model.ProjectResult{
		ProjectID:       project.ID,
		ProjectName:     project.Name,
		ProjectLocation: project.Location(),
		Highlights:      highlights,
		TotalHighlights: len(highlights),
		FromCache:       false,
		ProcessedAt:     now,
	}
	r.POICount, r.GolfCount, r.AirportCount = countByType(highlights)
	return r
}

func cachedResult(project *model.Project, highlights []model.Highlight, now time.Time) *model.ProjectResult {
	r := &model.ProjectResult{
		ProjectID:       project.ID,
		ProjectName:     project.Name,
		ProjectLocation: project.Location(),
		Highlights:      highlights,
		TotalHighlights: len(highlights),
		FromCache:       true,
		ProcessedAt:     now,
	}
	if len(highlights) > 0 {
		r.CacheAgeDays = highlights[0].AgeDays
	}
	r.POICount, r.GolfCount, r.AirportCount = countByType(highlights)
	return r
}

// countByType splits the set into generic POIs, golf courses, and airports.
func countByType(highlights []model.Highlight) (pois, golf, airports int) {
	for _, h := range highlights {
		switch h.Type {
		case "golf_course":
			golf++
		case "airport":
			airports++
		default:
			pois++
		}
	}
	return pois, golf, airports
}

// summarize reduces a project result to its batch line item.
func summarize(r *model.ProjectResult) model.ProjectSummary {
	return model.ProjectSummary{
		ProjectID:       r.ProjectID,
		ProjectName:     r.ProjectName,
		HighlightsCount: r.TotalHighlights,
		POICount:        r.POICount,
		GolfCount:       r.GolfCount,
		AirportCount:    r.AirportCount,
		FromCache:       r.FromCache,
		CacheAgeDays:    r.CacheAgeDays,
	}
}
