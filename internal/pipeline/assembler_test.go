package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/highlights-cli/internal/model"
)

func TestPOIDescription(t *testing.T) {
	sc := model.ScoredCandidate{
		Candidate: model.Candidate{
			Name:           "Fortis Hospital",
			Rating:         ptrF(4.5),
			RatingCount:    ptrI(200),
			BusinessStatus: "OPERATIONAL",
		},
		Distance: model.Distance{Km: 2.35, Source: model.DistanceRoute},
	}

	got := poiDescription("hospital", sc)
	assert.Equal(t,
		"Hospital located 2.35km from project site. Rated 4.5/5.0 based on 200 reviews. Currently operational. Important for emergency medical services access.",
		got)
}

func TestPOIDescriptionMinimal(t *testing.T) {
	sc := model.ScoredCandidate{
		Candidate: model.Candidate{Name: "City Mall"},
		Distance:  model.Distance{Km: 1.2},
	}
	assert.Equal(t, "Shopping Mall located 1.20km from project site.", poiDescription("shopping_mall", sc))
}

func TestPOIDescriptionAccessibilityAndStatus(t *testing.T) {
	sc := model.ScoredCandidate{
		Candidate: model.Candidate{
			Name:                 "Metro Hub",
			BusinessStatus:       "CLOSED_TEMPORARILY",
			WheelchairAccessible: true,
		},
		Distance: model.Distance{Km: 0.8},
	}

	got := poiDescription("metro_station", sc)
	assert.Contains(t, got, "Status: CLOSED_TEMPORARILY.")
	assert.Contains(t, got, "Wheelchair accessible.")
	assert.Contains(t, got, "Provides public transportation connectivity.")
}

func TestAirportDescription(t *testing.T) {
	sc := model.ScoredCandidate{
		Candidate: model.Candidate{
			Name:         "Indira Gandhi International Airport",
			AirportClass: "large_airport",
			IATACode:     "DEL",
		},
		Distance: model.Distance{Km: 22.67},
	}
	assert.Equal(t,
		"Airport located 22.7km from project site. IATA Code: DEL. Type: Large Airport.",
		airportDescription(sc))
}

func TestAirportDescriptionNoIATA(t *testing.T) {
	sc := model.ScoredCandidate{
		Candidate: model.Candidate{AirportClass: "small_airport"},
		Distance:  model.Distance{Km: 5},
	}
	assert.Equal(t, "Airport located 5.0km from project site. Type: Small Airport.", airportDescription(sc))
}

func TestHumanizeType(t *testing.T) {
	assert.Equal(t, "Shopping Mall", humanizeType("shopping_mall"))
	assert.Equal(t, "Golf Course", humanizeType("golf_course"))
	assert.Equal(t, "Location", humanizeType(""))
}

func TestAirportHighlightDropsRating(t *testing.T) {
	sc := model.ScoredCandidate{
		Candidate: model.Candidate{
			Name:        "Hindon Airport",
			Rating:      ptrF(4.0),
			RatingCount: ptrI(30),
		},
		Distance: model.Distance{Km: 18, Source: model.DistanceCircle},
		Score:    50,
		Priority: model.PriorityLow,
		Category: model.CategoryTransportation,
	}

	h := airportHighlight("101", sc, time.Now())
	assert.Equal(t, "airport", h.Type)
	assert.Nil(t, h.Rating)
	assert.Nil(t, h.RatingCount)
	assert.Equal(t, "circle", h.DistanceSource)
	assert.Equal(t, "18.0 km", h.DrivingDistance)
}

func TestSortByScoreStable(t *testing.T) {
	hs := []model.Highlight{
		{Name: "a", Score: 10},
		{Name: "b", Score: 30},
		{Name: "c", Score: 10},
		{Name: "d", Score: 20},
	}
	sortByScore(hs)

	names := make([]string, len(hs))
	for i, h := range hs {
		names[i] = h.Name
	}
	// Equal scores keep input order.
	assert.Equal(t, []string{"b", "d", "a", "c"}, names)
}

func TestCountByType(t *testing.T) {
	hs := []model.Highlight{
		{Type: "hospital"},
		{Type: "school"},
		{Type: "golf_course"},
		{Type: "airport"},
		{Type: "airport"},
	}
	pois, golf, airports := countByType(hs)
	assert.Equal(t, 2, pois)
	assert.Equal(t, 1, golf)
	assert.Equal(t, 2, airports)
}
