package highlight

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/highlights-cli/internal/db"
	"github.com/sells-group/highlights-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresStore wraps an existing pool (used by tests and the serve mode).
func NewPostgresStore(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool returns the underlying database pool for subsystems that need direct
// query access (e.g., the point repository sharing one connection pool).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS location_highlights (
	id               TEXT PRIMARY KEY,
	project_id       TEXT NOT NULL,
	poi_type         TEXT NOT NULL,
	name             TEXT NOT NULL,
	address          TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT '',
	distance_km      DOUBLE PRECISION NOT NULL,
	score            DOUBLE PRECISION NOT NULL,
	rating           DOUBLE PRECISION,
	rating_count     INTEGER,
	driving_distance TEXT NOT NULL DEFAULT '',
	distance_source  TEXT NOT NULL DEFAULT '',
	lat              DOUBLE PRECISION,
	lng              DOUBLE PRECISION,
	priority         TEXT NOT NULL DEFAULT 'medium',
	category         TEXT NOT NULL DEFAULT 'poi',
	from_cache       BOOLEAN NOT NULL DEFAULT false,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_location_highlights_project ON location_highlights(project_id);
CREATE INDEX IF NOT EXISTS idx_location_highlights_project_created ON location_highlights(project_id, created_at DESC);
`

// Migrate creates the highlight schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

const highlightColumns = `id, project_id, poi_type, name, address, description,
	distance_km, score, rating, rating_count, driving_distance, distance_source,
	lat, lng, priority, category, created_at`

// RecentForProject implements Store.
func (s *PostgresStore) RecentForProject(ctx context.Context, projectID string, ttl time.Duration) ([]model.Highlight, error) {
	now := time.Now().UTC()
	cutoff := now.Add(-ttl)

	rows, err := s.pool.Query(ctx,
		`SELECT `+highlightColumns+`
		 FROM location_highlights
		 WHERE project_id = $1 AND created_at >= $2
		 ORDER BY score DESC`,
		projectID, cutoff,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query recent highlights %s", projectID)
	}
	defer rows.Close()

	highlights, err := scanHighlights(rows)
	if err != nil {
		return nil, err
	}
	for i := range highlights {
		highlights[i].FromCache = true
		highlights[i].AgeDays = ageDays(highlights[i].CreatedAt, now)
	}
	return highlights, nil
}

// ListForProject implements Store.
func (s *PostgresStore) ListForProject(ctx context.Context, projectID string) ([]model.Highlight, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+highlightColumns+`
		 FROM location_highlights
		 WHERE project_id = $1
		 ORDER BY score DESC`,
		projectID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query highlights %s", projectID)
	}
	defer rows.Close()

	return scanHighlights(rows)
}

// rowScanner matches pgx.Rows for the columns selected above.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanHighlights(rows rowScanner) ([]model.Highlight, error) {
	var highlights []model.Highlight
	for rows.Next() {
		var h model.Highlight
		if err := rows.Scan(
			&h.ID, &h.ProjectID, &h.Type, &h.Name, &h.Address, &h.Description,
			&h.DistanceKm, &h.Score, &h.Rating, &h.RatingCount,
			&h.DrivingDistance, &h.DistanceSource, &h.Lat, &h.Lng,
			&h.Priority, &h.Category, &h.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan highlight row")
		}
		highlights = append(highlights, h)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate highlight rows")
	}
	return highlights, nil
}

// ReplaceForProject implements Store. Delete and insert share one
// transaction.
func (s *PostgresStore) ReplaceForProject(ctx context.Context, projectID string, highlights []model.Highlight) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin replace")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx,
		`DELETE FROM location_highlights WHERE project_id = $1`, projectID,
	); err != nil {
		return eris.Wrapf(err, "postgres: delete highlights %s", projectID)
	}

	if len(highlights) > 0 {
		now := time.Now().UTC()
		rows := make([][]any, 0, len(highlights))
		for _, h := range highlights {
			id := h.ID
			if id == "" {
				id = uuid.New().String()
			}
			createdAt := h.CreatedAt
			if createdAt.IsZero() {
				createdAt = now
			}
			rows = append(rows, []any{
				id, projectID, h.Type, h.Name, h.Address, h.Description,
				h.DistanceKm, h.Score, h.Rating, h.RatingCount,
				h.DrivingDistance, h.DistanceSource, h.Lat, h.Lng,
				string(h.Priority), string(h.Category), false, createdAt,
			})
		}

		if _, err := db.CopyFrom(ctx, tx, "location_highlights", []string{
			"id", "project_id", "poi_type", "name", "address", "description",
			"distance_km", "score", "rating", "rating_count",
			"driving_distance", "distance_source", "lat", "lng",
			"priority", "category", "from_cache", "created_at",
		}, rows); err != nil {
			return eris.Wrapf(err, "postgres: insert highlights %s", projectID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "postgres: commit replace")
	}
	return nil
}
