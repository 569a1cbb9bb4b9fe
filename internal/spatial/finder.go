// Package spatial finds candidate points around a center: a cheap bounding-box
// pre-filter against the point repository, then an exact great-circle filter.
package spatial

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/highlights-cli/internal/geo"
	"github.com/sells-group/highlights-cli/internal/model"
)

// Result caps per source. Fixed constants, not configurable per call.
const (
	GenericPOILimit = 100
	CategoryLimit   = 50
	AirportLimit    = 20
)

// Repository is the external point repository. It returns rows whose raw
// coordinates fall inside the box; the final radius filter belongs to the
// caller.
type Repository interface {
	POIsInBox(ctx context.Context, box geo.BBox, category string) ([]model.Candidate, error)
	AirportsInBox(ctx context.Context, box geo.BBox) ([]model.Candidate, error)
	GetProject(ctx context.Context, projectID string) (*model.Project, error)
}

// Finder narrows repository rows to the true search disk.
type Finder struct {
	repo Repository
}

// NewFinder creates a Finder over the given repository.
func NewFinder(repo Repository) *Finder {
	return &Finder{repo: repo}
}

// FindPOIs returns POIs of the given category within radiusKm of center,
// nearest first. An empty category searches all POI types with the larger
// generic cap.
func (f *Finder) FindPOIs(ctx context.Context, center model.Location, radiusKm float64, category string) ([]model.Candidate, error) {
	box := geo.BoundingBox(center.Lat, center.Lng, radiusKm)
	rows, err := f.repo.POIsInBox(ctx, box, category)
	if err != nil {
		return nil, eris.Wrapf(err, "spatial: poi box query %q", category)
	}

	limit := CategoryLimit
	if category == "" {
		limit = GenericPOILimit
	}
	return narrow(rows, center, radiusKm, limit), nil
}

// FindAirports returns airports within radiusKm of center, nearest first.
func (f *Finder) FindAirports(ctx context.Context, center model.Location, radiusKm float64) ([]model.Candidate, error) {
	box := geo.BoundingBox(center.Lat, center.Lng, radiusKm)
	rows, err := f.repo.AirportsInBox(ctx, box)
	if err != nil {
		return nil, eris.Wrap(err, "spatial: airport box query")
	}
	return narrow(rows, center, radiusKm, AirportLimit), nil
}

// narrow annotates each candidate with its exact great-circle distance,
// drops everything beyond the radius (the box is a superset of the disk,
// never the final filter), sorts nearest first, and truncates to the cap.
func narrow(rows []model.Candidate, center model.Location, radiusKm float64, limit int) []model.Candidate {
	kept := make([]model.Candidate, 0, len(rows))
	for _, c := range rows {
		c.CircleKm = geo.Haversine(center.Lat, center.Lng, c.Lat, c.Lng)
		if c.CircleKm <= radiusKm {
			kept = append(kept, c)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].CircleKm < kept[j].CircleKm
	})

	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}
