package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/highlights-cli/internal/model"
	"github.com/sells-group/highlights-cli/internal/spatial"
	"github.com/sells-group/highlights-cli/pkg/google"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }

type fakeProjects struct {
	projects map[string]*model.Project
	calls    atomic.Int64
	entered  chan struct{}
	release  chan struct{}
}

func (f *fakeProjects) GetProject(_ context.Context, id string) (*model.Project, error) {
	f.calls.Add(1)
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	p, ok := f.projects[id]
	if !ok {
		return nil, spatial.ErrProjectNotFound
	}
	return p, nil
}

type fakeFinder struct {
	pois     map[string][]model.Candidate
	airports []model.Candidate
	poiCalls atomic.Int64
}

func (f *fakeFinder) FindPOIs(_ context.Context, _ model.Location, _ float64, category string) ([]model.Candidate, error) {
	f.poiCalls.Add(1)
	return f.pois[category], nil
}

func (f *fakeFinder) FindAirports(_ context.Context, _ model.Location, _ float64) ([]model.Candidate, error) {
	return f.airports, nil
}

type fakeResolver struct {
	calls atomic.Int64
}

func (f *fakeResolver) Resolve(_ context.Context, _ model.Location, destinations []model.Location) []model.Distance {
	f.calls.Add(1)
	out := make([]model.Distance, len(destinations))
	for i := range destinations {
		out[i] = model.Distance{Km: float64(i + 1), Source: model.DistanceRoute}
	}
	return out
}

type fakeSearcher struct {
	available bool
	places    []google.Place
	err       error
}

func (f *fakeSearcher) Available() bool { return f.available }

func (f *fakeSearcher) TextSearch(_ context.Context, _ string, _ google.LatLng, _ int) ([]google.Place, error) {
	return f.places, f.err
}

type memStore struct {
	mu           sync.Mutex
	recent       map[string][]model.Highlight
	saved        map[string][]model.Highlight
	replaceCalls int
}

func newMemStore() *memStore {
	return &memStore{
		recent: map[string][]model.Highlight{},
		saved:  map[string][]model.Highlight{},
	}
}

func (s *memStore) RecentForProject(_ context.Context, projectID string, _ time.Duration) ([]model.Highlight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recent[projectID], nil
}

func (s *memStore) ListForProject(_ context.Context, projectID string) ([]model.Highlight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[projectID], nil
}

func (s *memStore) ReplaceForProject(_ context.Context, projectID string, highlights []model.Highlight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceCalls++
	s.saved[projectID] = highlights
	return nil
}

func (s *memStore) Migrate(context.Context) error { return nil }
func (s *memStore) Close() error                  { return nil }

func testProject(id string) *model.Project {
	return &model.Project{ID: id, Name: "Skyline Towers", Latitude: 28.5355, Longitude: 77.3910, City: "Noida"}
}

func newTestProcessor(projects *fakeProjects, finder *fakeFinder, resolver *fakeResolver, search Searcher, store *memStore) *Processor {
	return NewProcessor(projects, finder, resolver, search, store, Options{})
}

func TestProcessProjectCachedShortCircuits(t *testing.T) {
	projects := &fakeProjects{projects: map[string]*model.Project{"101": testProject("101")}}
	finder := &fakeFinder{}
	resolver := &fakeResolver{}
	store := newMemStore()
	store.recent["101"] = []model.Highlight{
		{ProjectID: "101", Type: "hospital", Name: "Fortis", Score: 90, FromCache: true, AgeDays: 12},
		{ProjectID: "101", Type: "school", Name: "DPS", Score: 40, FromCache: true, AgeDays: 12},
	}

	p := newTestProcessor(projects, finder, resolver, &fakeSearcher{}, store)

	result, err := p.ProcessProject(context.Background(), "101", false)
	require.NoError(t, err)

	assert.True(t, result.FromCache)
	assert.Equal(t, 12, result.CacheAgeDays)
	assert.Equal(t, 2, result.TotalHighlights)
	assert.Equal(t, 2, result.POICount)

	// The cache gate must suppress all downstream work.
	assert.Zero(t, finder.poiCalls.Load())
	assert.Zero(t, resolver.calls.Load())
	assert.Zero(t, store.replaceCalls)
}

func TestProcessProjectFresh(t *testing.T) {
	projects := &fakeProjects{projects: map[string]*model.Project{"101": testProject("101")}}
	finder := &fakeFinder{
		pois: map[string][]model.Candidate{
			"hospital": {
				{Name: "Fortis Hospital", Lat: 28.54, Lng: 77.39, Rating: ptrF(4.5), RatingCount: ptrI(200)},
				{Name: "City Clinic", Lat: 28.55, Lng: 77.40, Rating: ptrF(3.9), RatingCount: ptrI(40)},
			},
			"school": {
				{Name: "Delhi Public School", Lat: 28.53, Lng: 77.38, Rating: ptrF(4.2), RatingCount: ptrI(95)},
			},
		},
		airports: []model.Candidate{
			{Name: "Indira Gandhi International Airport", AirportClass: "large_airport", IATACode: "DEL", Lat: 28.55, Lng: 77.10, ImportanceHint: ptrF(95)},
			{Name: "Hindon Airport", AirportClass: "medium_airport", Lat: 28.70, Lng: 77.35},
			{Name: "Safdarjung Airport", AirportClass: "small_airport", Lat: 28.58, Lng: 77.20},
		},
	}
	search := &fakeSearcher{
		available: true,
		places: []google.Place{
			{Name: "Noida Golf Course", Rating: 4.4, UserRatingsTotal: 800},
			{Name: "Jaypee Greens Golf Resort", Rating: 4.6, UserRatingsTotal: 1200},
			{Name: "Driving Range Cafe", Rating: 4.0, UserRatingsTotal: 50},
		},
	}
	store := newMemStore()

	p := newTestProcessor(projects, finder, &fakeResolver{}, search, store)

	result, err := p.ProcessProject(context.Background(), "101", false)
	require.NoError(t, err)

	assert.False(t, result.FromCache)
	assert.Equal(t, 2, result.POICount)
	assert.Equal(t, 2, result.GolfCount) // range cafe filtered out by name
	assert.Equal(t, 2, result.AirportCount)
	assert.Equal(t, 6, result.TotalHighlights)

	// Persisted set matches the returned set.
	assert.Equal(t, 1, store.replaceCalls)
	assert.Equal(t, result.Highlights, store.saved["101"])

	// Global ordering is score descending.
	for i := 1; i < len(result.Highlights); i++ {
		assert.GreaterOrEqual(t, result.Highlights[i-1].Score, result.Highlights[i].Score)
	}

	// The airport importance hint carries through; the hint-less airport
	// defaults to 50.
	var airportScores []float64
	for _, h := range result.Highlights {
		if h.Type == "airport" {
			airportScores = append(airportScores, h.Score)
		}
	}
	assert.ElementsMatch(t, []float64{95, 50}, airportScores)
}

func TestProcessProjectForceBypassesCache(t *testing.T) {
	projects := &fakeProjects{projects: map[string]*model.Project{"101": testProject("101")}}
	store := newMemStore()
	store.recent["101"] = []model.Highlight{{ProjectID: "101", Type: "park", Score: 5, AgeDays: 3}}

	p := newTestProcessor(projects, &fakeFinder{}, &fakeResolver{}, &fakeSearcher{}, store)

	result, err := p.ProcessProject(context.Background(), "101", true)
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, 1, store.replaceCalls)
}

func TestProcessProjectNotFound(t *testing.T) {
	projects := &fakeProjects{projects: map[string]*model.Project{}}
	p := newTestProcessor(projects, &fakeFinder{}, &fakeResolver{}, &fakeSearcher{}, newMemStore())

	_, err := p.ProcessProject(context.Background(), "missing", false)
	require.Error(t, err)
	assert.ErrorContains(t, err, "project not found")
}

func TestProcessProjectGolfSkippedWithoutCredentials(t *testing.T) {
	projects := &fakeProjects{projects: map[string]*model.Project{"101": testProject("101")}}
	finder := &fakeFinder{
		pois: map[string][]model.Candidate{
			"park": {{Name: "Central Park", Lat: 28.54, Lng: 77.39, Rating: ptrF(4.1), RatingCount: ptrI(60)}},
		},
	}
	store := newMemStore()

	p := newTestProcessor(projects, finder, &fakeResolver{}, &fakeSearcher{available: false}, store)

	result, err := p.ProcessProject(context.Background(), "101", false)
	require.NoError(t, err)
	assert.Zero(t, result.GolfCount)
	assert.Equal(t, 1, result.POICount)
}

func TestProcessProjectConcurrentCallsCoalesce(t *testing.T) {
	projects := &fakeProjects{
		projects: map[string]*model.Project{"101": testProject("101")},
		entered:  make(chan struct{}, 2),
		release:  make(chan struct{}),
	}
	store := newMemStore()
	p := newTestProcessor(projects, &fakeFinder{}, &fakeResolver{}, &fakeSearcher{}, store)

	var wg sync.WaitGroup
	results := make([]*model.ProjectResult, 2)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := p.ProcessProject(context.Background(), "101", false)
			assert.NoError(t, err)
			results[i] = r
		}()
	}

	// Wait for the first caller to enter, give the second caller time to
	// join the in-flight computation, then let it finish.
	<-projects.entered
	time.Sleep(50 * time.Millisecond)
	close(projects.release)
	wg.Wait()

	assert.EqualValues(t, 1, projects.calls.Load())
	assert.Equal(t, 1, store.replaceCalls)
	assert.Equal(t, results[0], results[1])
}
