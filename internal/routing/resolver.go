// Package routing resolves travel distances for candidate batches, degrading
// to great-circle estimates whenever the routing collaborator cannot answer.
package routing

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/highlights-cli/internal/geo"
	"github.com/sells-group/highlights-cli/internal/model"
	"github.com/sells-group/highlights-cli/pkg/google"
)

// BatchSize is the number of destinations sent per Distance Matrix request.
const BatchSize = google.MaxMatrixDestinations

// Matrix is the routing collaborator. Absence of credentials (Available() ==
// false) is a valid, expected operating mode.
type Matrix interface {
	Available() bool
	DistanceMatrix(ctx context.Context, origin google.LatLng, destinations []google.LatLng) ([]google.MatrixElement, error)
}

// Resolver turns destination lists into resolved distances. It never returns
// an error: every failure mode degrades to a circle-distance estimate.
type Resolver struct {
	matrix  Matrix
	limiter *rate.Limiter
}

// NewResolver creates a resolver that pauses between batches to respect the
// collaborator's rate limits. A nil matrix disables routing entirely.
func NewResolver(matrix Matrix, pause time.Duration) *Resolver {
	if pause <= 0 {
		pause = 100 * time.Millisecond
	}
	return &Resolver{
		matrix:  matrix,
		limiter: rate.NewLimiter(rate.Every(pause), 1),
	}
}

// Resolve returns one distance per destination, index-aligned with the input.
// The result length always equals len(destinations), whatever fails.
func (r *Resolver) Resolve(ctx context.Context, origin model.Location, destinations []model.Location) []model.Distance {
	distances := make([]model.Distance, 0, len(destinations))

	// No credential: circle-distance for everything, no call attempted.
	if r.matrix == nil || !r.matrix.Available() {
		for _, d := range destinations {
			distances = append(distances, r.fallback(origin, d))
		}
		return distances
	}

	for start := 0; start < len(destinations); start += BatchSize {
		end := min(start+BatchSize, len(destinations))
		batch := destinations[start:end]
		distances = append(distances, r.resolveBatch(ctx, origin, batch)...)
	}

	// A short result here would be a bug in the batch logic; pad rather
	// than let callers index out of range.
	for len(distances) < len(destinations) {
		distances = append(distances, model.Distance{Km: 0, Source: model.DistanceCircle})
	}

	return distances
}

// resolveBatch handles one batch of up to BatchSize destinations with a
// single request attempt; the throttle between batches is a pause, not a
// retry mechanism.
func (r *Resolver) resolveBatch(ctx context.Context, origin model.Location, batch []model.Location) []model.Distance {
	out := make([]model.Distance, 0, len(batch))

	if err := r.limiter.Wait(ctx); err != nil {
		for _, d := range batch {
			out = append(out, r.fallback(origin, d))
		}
		return out
	}

	dests := make([]google.LatLng, len(batch))
	for i, d := range batch {
		dests[i] = google.LatLng{Lat: d.Lat, Lng: d.Lng}
	}

	elements, err := r.matrix.DistanceMatrix(ctx, google.LatLng{Lat: origin.Lat, Lng: origin.Lng}, dests)
	if err != nil {
		zap.L().Warn("routing: batch failed, using circle distances",
			zap.Int("batch_size", len(batch)),
			zap.Error(err),
		)
		for _, d := range batch {
			out = append(out, r.fallback(origin, d))
		}
		return out
	}

	for i, d := range batch {
		if i < len(elements) && elements[i].Status == "OK" {
			if km, ok := parseKm(elements[i].DistanceText); ok {
				out = append(out, model.Distance{Km: km, Source: model.DistanceRoute})
				continue
			}
		}
		out = append(out, r.fallback(origin, d))
	}

	return out
}

// fallback computes the circle distance rounded to one decimal place.
func (r *Resolver) fallback(origin, dest model.Location) model.Distance {
	km := geo.Haversine(origin.Lat, origin.Lng, dest.Lat, dest.Lng)
	return model.Distance{
		Km:     math.Round(km*10) / 10,
		Source: model.DistanceCircle,
	}
}

// parseKm extracts the numeric km value from a distance text like "7.2 km"
// or "1,234 km".
func parseKm(text string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSuffix(text, " km"), ",", "")
	km, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return km, true
}
