package highlight

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/highlights-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS location_highlights (
	id               TEXT PRIMARY KEY,
	project_id       TEXT NOT NULL,
	poi_type         TEXT NOT NULL,
	name             TEXT NOT NULL,
	address          TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT '',
	distance_km      REAL NOT NULL,
	score            REAL NOT NULL,
	rating           REAL,
	rating_count     INTEGER,
	driving_distance TEXT NOT NULL DEFAULT '',
	distance_source  TEXT NOT NULL DEFAULT '',
	lat              REAL,
	lng              REAL,
	priority         TEXT NOT NULL DEFAULT 'medium',
	category         TEXT NOT NULL DEFAULT 'poi',
	from_cache       INTEGER NOT NULL DEFAULT 0,
	created_at       DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_location_highlights_project ON location_highlights(project_id);
CREATE INDEX IF NOT EXISTS idx_location_highlights_project_created ON location_highlights(project_id, created_at DESC);
`

// Migrate creates the highlight schema.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecentForProject implements Store.
func (s *SQLiteStore) RecentForProject(ctx context.Context, projectID string, ttl time.Duration) ([]model.Highlight, error) {
	now := time.Now().UTC()
	cutoff := now.Add(-ttl)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+highlightColumns+`
		 FROM location_highlights
		 WHERE project_id = ? AND created_at >= ?
		 ORDER BY score DESC`,
		projectID, cutoff,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query recent highlights %s", projectID)
	}
	defer rows.Close()

	highlights, err := scanSQLHighlights(rows)
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
func (s *SQLiteStore) ListForProject(ctx context.Context, projectID string) ([]model.Highlight, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+highlightColumns+`
		 FROM location_highlights
		 WHERE project_id = ?
		 ORDER BY score DESC`,
		projectID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query highlights %s", projectID)
	}
	defer rows.Close()

	return scanSQLHighlights(rows)
}

func scanSQLHighlights(rows *sql.Rows) ([]model.Highlight, error) {
	var highlights []model.Highlight
	for rows.Next() {
		var h model.Highlight
		if err := rows.Scan(
			&h.ID, &h.ProjectID, &h.Type, &h.Name, &h.Address, &h.Description,
			&h.DistanceKm, &h.Score, &h.Rating, &h.RatingCount,
			&h.DrivingDistance, &h.DistanceSource, &h.Lat, &h.Lng,
			&h.Priority, &h.Category, &h.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan highlight row")
		}
		highlights = append(highlights, h)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate highlight rows")
	}
	return highlights, nil
}

// ReplaceForProject implements Store. Delete and insert share one
// transaction.
func (s *SQLiteStore) ReplaceForProject(ctx context.Context, projectID string, highlights []model.Highlight) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin replace")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM location_highlights WHERE project_id = ?`, projectID,
	); err != nil {
		return eris.Wrapf(err, "sqlite: delete highlights %s", projectID)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO location_highlights
		 (id, project_id, poi_type, name, address, description,
		  distance_km, score, rating, rating_count, driving_distance,
		  distance_source, lat, lng, priority, category, from_cache, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	now := time.Now().UTC()
	for _, h := range highlights {
		id := h.ID
		if id == "" {
			id = uuid.New().String()
		}
		createdAt := h.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		if _, err := stmt.ExecContext(ctx,
			id, projectID, h.Type, h.Name, h.Address, h.Description,
			h.DistanceKm, h.Score, h.Rating, h.RatingCount,
			h.DrivingDistance, h.DistanceSource, h.Lat, h.Lng,
			string(h.Priority), string(h.Category), false, createdAt,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert highlight %s", h.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "sqlite: commit replace")
	}
	return nil
}
