// Package pipeline orchestrates highlight computation for project sites:
// cache gate, candidate retrieval, distance resolution, scoring, assembly,
// and persistence.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/highlights-cli/internal/highlight"
	"github.com/sells-group/highlights-cli/internal/model"
	"github.com/sells-group/highlights-cli/internal/resilience"
	"github.com/sells-group/highlights-cli/internal/scoring"
	"github.com/sells-group/highlights-cli/pkg/google"
)

// Winner counts per source.
const (
	golfKeep    = 2
	airportKeep = 2
)

// ProjectSource resolves project ids to geocoded project records.
type ProjectSource interface {
	GetProject(ctx context.Context, projectID string) (*model.Project, error)
}

// Finder retrieves candidates around a center point.
type Finder interface {
	FindPOIs(ctx context.Context, center model.Location, radiusKm float64, category string) ([]model.Candidate, error)
	FindAirports(ctx context.Context, center model.Location, radiusKm float64) ([]model.Candidate, error)
}

// Resolver turns candidate coordinates into travel distances.
type Resolver interface {
	Resolve(ctx context.Context, origin model.Location, destinations []model.Location) []model.Distance
}

// Searcher is the venue search collaborator used for golf courses.
type Searcher interface {
	Available() bool
	TextSearch(ctx context.Context, query string, location google.LatLng, radiusMeters int) ([]google.Place, error)
}

// Options tunes a Processor. Zero values fall back to sensible defaults.
type Options struct {
	POIRadiusKm     float64
	AirportRadiusKm float64
	GolfRadiusKm    float64
	TTL             time.Duration
	SearchRetries   int
}

func (o Options) withDefaults() Options {
	if o.POIRadiusKm <= 0 {
		o.POIRadiusKm = 15
	}
	if o.AirportRadiusKm <= 0 {
		o.AirportRadiusKm = 40
	}
	if o.GolfRadiusKm <= 0 {
		o.GolfRadiusKm = 15
	}
	if o.TTL <= 0 {
		o.TTL = 60 * 24 * time.Hour
	}
	if o.SearchRetries <= 0 {
		o.SearchRetries = 2
	}
	return o
}

// Processor computes and persists highlight sets. It is safe for concurrent
// use; concurrent calls for the same project id are coalesced.
type Processor struct {
	projects ProjectSource
	finder   Finder
	resolver Resolver
	search   Searcher
	store    highlight.Store
	opts     Options
	now      func() time.Time

	flight singleflight.Group
}

// NewProcessor wires a Processor from its collaborators.
func NewProcessor(projects ProjectSource, finder Finder, resolver Resolver, search Searcher, store highlight.Store, opts Options) *Processor {
	return &Processor{
		projects: projects,
		finder:   finder,
		resolver: resolver,
		search:   search,
		store:    store,
		opts:     opts.withDefaults(),
		now:      time.Now,
	}
}

// ProcessProject computes highlights for one project. Fresh highlights inside
// the TTL window short-circuit the pipeline unless force is set. Concurrent
// calls for the same project id share a single execution.
func (p *Processor) ProcessProject(ctx context.Context, projectID string, force bool) (*model.ProjectResult, error) {
	key := projectID
	if force {
		key = projectID + "!force"
	}
	v, err, _ := p.flight.Do(key, func() (any, error) {
		return p.process(ctx, projectID, force)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.ProjectResult), nil
}

func (p *Processor) process(ctx context.Context, projectID string, force bool) (*model.ProjectResult, error) {
	project, err := p.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: load project %s", projectID)
	}

	log := zap.L().With(zap.String("project_id", projectID))

	if !force {
		cached, err := p.store.RecentForProject(ctx, projectID, p.opts.TTL)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: cache lookup")
		}
		if len(cached) > 0 {
			log.Info("serving cached highlights",
				zap.Int("count", len(cached)),
				zap.Int("age_days", cached[0].AgeDays),
			)
			return cachedResult(project, cached, p.now()), nil
		}
	}

	log.Info("computing fresh highlights")
	center := project.Location()
	now := p.now()

	highlights := make([]model.Highlight, 0, len(scoring.POICategories)+golfKeep+airportKeep)
	highlights = append(highlights, p.poiWinners(ctx, projectID, center, now)...)
	highlights = append(highlights, p.golfWinners(ctx, projectID, center, now)...)
	highlights = append(highlights, p.airportWinners(ctx, projectID, center, now)...)

	sortByScore(highlights)

	if err := p.store.ReplaceForProject(ctx, projectID, highlights); err != nil {
		return nil, eris.Wrap(err, "pipeline: persist highlights")
	}

	log.Info("highlights computed", zap.Int("count", len(highlights)))
	return freshResult(project, highlights, now), nil
}

// poiWinners picks at most one highlight per generic POI category.
func (p *Processor) poiWinners(ctx context.Context, projectID string, center model.Location, now time.Time) []model.Highlight {
	winners := make([]model.Highlight, 0, len(scoring.POICategories))

	for _, category := range scoring.POICategories {
		candidates, err := p.finder.FindPOIs(ctx, center, p.opts.POIRadiusKm, category)
		if err != nil {
			zap.L().Warn("poi lookup failed",
				zap.String("project_id", projectID),
				zap.String("category", category),
				zap.Error(err),
			)
			continue
		}
		if len(candidates) == 0 {
			continue
		}

		distances := p.resolver.Resolve(ctx, center, locations(candidates))
		scored := scoring.ScorePOIs(category, candidates, distances)
		if len(scored) == 0 {
			continue
		}
		winners = append(winners, poiHighlight(projectID, category, scored[0], now))
	}
	return winners
}

// golfWinners searches golf courses near the center and keeps the two
// nearest. No search credentials or no matches mean no golf highlights.
func (p *Processor) golfWinners(ctx context.Context, projectID string, center model.Location, now time.Time) []model.Highlight {
	if p.search == nil || !p.search.Available() {
		return nil
	}

	retry := resilience.RetryConfig{
		MaxAttempts: p.opts.SearchRetries + 1,
		OnRetry:     resilience.RetryLogger("google", "places text search"),
	}
	places, err := resilience.Do(ctx, retry, func(ctx context.Context) ([]google.Place, error) {
		loc := google.LatLng{Lat: center.Lat, Lng: center.Lng}
		return p.search.TextSearch(ctx, "golf course", loc, int(p.opts.GolfRadiusKm*1000))
	})
	if err != nil {
		zap.L().Warn("golf search failed",
			zap.String("project_id", projectID),
			zap.Error(err),
		)
		return nil
	}

	candidates := golfCandidates(places)
	if len(candidates) == 0 {
		return nil
	}

	distances := p.resolver.Resolve(ctx, center, locations(candidates))
	scored := scoring.ScoreGolf(candidates, distances)
	if len(scored) > golfKeep {
		scored = scored[:golfKeep]
	}

	winners := make([]model.Highlight, 0, len(scored))
	for _, sc := range scored {
		winners = append(winners, golfHighlight(projectID, sc, now))
	}
	return winners
}

// airportWinners keeps the two nearest airports.
func (p *Processor) airportWinners(ctx context.Context, projectID string, center model.Location, now time.Time) []model.Highlight {
	candidates, err := p.finder.FindAirports(ctx, center, p.opts.AirportRadiusKm)
	if err != nil {
		zap.L().Warn("airport lookup failed",
			zap.String("project_id", projectID),
			zap.Error(err),
		)
		return nil
	}
	if len(candidates) == 0 {
		return nil
	}

	distances := p.resolver.Resolve(ctx, center, locations(candidates))
	scored := scoring.SelectAirports(candidates, distances, airportKeep)

	winners := make([]model.Highlight, 0, len(scored))
	for _, sc := range scored {
		winners = append(winners, airportHighlight(projectID, sc, now))
	}
	return winners
}

// ListHighlights returns the stored highlight set for a project, newest
// computation first by score.
func (p *Processor) ListHighlights(ctx context.Context, projectID string) ([]model.Highlight, error) {
	rows, err := p.store.ListForProject(ctx, projectID)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: list highlights %s", projectID)
	}
	return rows, nil
}

// golfCandidates converts search results to candidates, keeping only venues
// whose name actually mentions golf. Text search matches loosely.
func golfCandidates(places []google.Place) []model.Candidate {
	out := make([]model.Candidate, 0, len(places))
	for _, pl := range places {
		if !strings.Contains(strings.ToLower(pl.Name), "golf") {
			continue
		}
		c := model.Candidate{
			ID:      pl.PlaceID,
			Type:    "golf_course",
			Name:    pl.Name,
			Lat:     pl.Geometry.Location.Lat,
			Lng:     pl.Geometry.Location.Lng,
			Address: pl.Address(),
		}
		if pl.Rating > 0 {
			r := pl.Rating
			c.Rating = &r
		}
		if pl.UserRatingsTotal > 0 {
			n := pl.UserRatingsTotal
			c.RatingCount = &n
		}
		out = append(out, c)
	}
	return out
}

func locations(candidates []model.Candidate) []model.Location {
	locs := make([]model.Location, len(candidates))
	for i, c := range candidates {
		locs[i] = model.Location{Lat: c.Lat, Lng: c.Lng}
	}
	return locs
}
