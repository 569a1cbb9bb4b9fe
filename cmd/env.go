package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/highlights-cli/internal/highlight"
	"github.com/sells-group/highlights-cli/internal/pipeline"
	"github.com/sells-group/highlights-cli/internal/routing"
	"github.com/sells-group/highlights-cli/internal/spatial"
	"github.com/sells-group/highlights-cli/pkg/google"
)

// env holds the wired pipeline and its closeable resources.
type env struct {
	Processor *pipeline.Processor
	store     highlight.Store
	source    *highlight.PostgresStore

	// storeIsSource is set when highlights share the spatial source pool.
	storeIsSource bool
}

// initEnv wires the full pipeline from config: the Postgres spatial source,
// the highlight store backend, the Google clients, and the processor.
func initEnv(ctx context.Context) (*env, error) {
	if cfg.Store.DatabaseURL == "" {
		return nil, eris.New("store.database_url is required")
	}

	// The spatial source (projects, POIs, airports) always lives in Postgres.
	source, err := highlight.NewPostgres(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "connect postgres")
	}

	var store highlight.Store
	storeIsSource := false
	switch cfg.Store.Driver {
	case "", "postgres":
		store = source
		storeIsSource = true
	case "sqlite":
		s, err := highlight.NewSQLite(cfg.Store.SQLitePath)
		if err != nil {
			source.Close()
			return nil, eris.Wrap(err, "open sqlite")
		}
		store = s
	default:
		source.Close()
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	repo := spatial.NewPostgresRepository(source.Pool())
	finder := spatial.NewFinder(repo)

	gclient := google.NewClient(cfg.Google.MapsAPIKey,
		google.WithMatrixBaseURL(cfg.Google.MatrixBaseURL),
		google.WithPlacesBaseURL(cfg.Google.PlacesBaseURL),
		google.WithTimeout(time.Duration(cfg.Google.TimeoutSecs)*time.Second),
	)
	if !gclient.Available() {
		zap.L().Warn("no google maps api key configured; using circle distances, skipping golf search")
	}

	resolver := routing.NewResolver(gclient, time.Duration(cfg.Routing.PauseMs)*time.Millisecond)

	processor := pipeline.NewProcessor(repo, finder, resolver, gclient, store, pipeline.Options{
		POIRadiusKm:     cfg.Search.POIRadiusKm,
		AirportRadiusKm: cfg.Search.AirportRadiusKm,
		GolfRadiusKm:    cfg.Search.GolfRadiusKm,
		TTL:             cfg.Cache.TTL(),
		SearchRetries:   cfg.Google.SearchRetries,
	})

	return &env{Processor: processor, store: store, source: source, storeIsSource: storeIsSource}, nil
}

// Close releases database resources.
func (e *env) Close() {
	if e.store != nil && !e.storeIsSource {
		if err := e.store.Close(); err != nil {
			zap.L().Warn("close store", zap.Error(err))
		}
	}
	if e.source != nil {
		if err := e.source.Close(); err != nil {
			zap.L().Warn("close postgres", zap.Error(err))
		}
	}
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "encode result")
	}
	fmt.Println(string(out))
	return nil
}
