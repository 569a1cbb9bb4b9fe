package spatial

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/highlights-cli/internal/db"
	"github.com/sells-group/highlights-cli/internal/geo"
	"github.com/sells-group/highlights-cli/internal/model"
)

// PostgresRepository implements Repository against the geodata tables
// (projects, poi_surrounding, airports).
type PostgresRepository struct {
	pool db.Pool
}

// NewPostgresRepository creates a PostgresRepository with the given pool.
func NewPostgresRepository(pool db.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ErrProjectNotFound is returned when a project id does not exist.
var ErrProjectNotFound = eris.New("spatial: project not found")

// GetProject retrieves a project by id.
func (r *PostgresRepository) GetProject(ctx context.Context, projectID string) (*model.Project, error) {
	var p model.Project
	err := r.pool.QueryRow(ctx,
		`SELECT project_id, project_name, latitude, longitude, COALESCE(city, '')
		 FROM projects WHERE project_id = $1`,
		projectID,
	).Scan(&p.ID, &p.Name, &p.Latitude, &p.Longitude, &p.City)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, eris.Wrapf(err, "spatial: get project %s", projectID)
	}
	return &p, nil
}

// POIsInBox returns POI rows inside the bounding box. An empty category
// matches all POI types.
func (r *PostgresRepository) POIsInBox(ctx context.Context, box geo.BBox, category string) ([]model.Candidate, error) {
	sql := `
		SELECT id, poi_type, name, COALESCE(address, ''), COALESCE(primary_type, ''),
		       rating, rating_count, COALESCE(business_status, ''),
		       COALESCE(wheelchair_accessible, false), lat, lng
		FROM poi_surrounding
		WHERE lat BETWEEN $1 AND $2
		AND lng BETWEEN $3 AND $4`
	args := []any{box.MinLat, box.MaxLat, box.MinLng, box.MaxLng}
	if category != "" {
		sql += ` AND poi_type = $5`
		args = append(args, category)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrap(err, "spatial: query pois")
	}
	defer rows.Close()

	var candidates []model.Candidate
	for rows.Next() {
		var c model.Candidate
		if err := rows.Scan(
			&c.ID, &c.Type, &c.Name, &c.Address, &c.PrimaryType,
			&c.Rating, &c.RatingCount, &c.BusinessStatus,
			&c.WheelchairAccessible, &c.Lat, &c.Lng,
		); err != nil {
			return nil, eris.Wrap(err, "spatial: scan poi row")
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "spatial: iterate poi rows")
	}
	return candidates, nil
}

// AirportsInBox returns airport rows inside the bounding box.
func (r *PostgresRepository) AirportsInBox(ctx context.Context, box geo.BBox) ([]model.Candidate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, COALESCE(type, ''), COALESCE(iata_code, ''),
		       COALESCE(municipality, ''), score, latitude_deg, longitude_deg
		FROM airports
		WHERE latitude_deg BETWEEN $1 AND $2
		AND longitude_deg BETWEEN $3 AND $4`,
		box.MinLat, box.MaxLat, box.MinLng, box.MaxLng,
	)
	if err != nil {
		return nil, eris.Wrap(err, "spatial: query airports")
	}
	defer rows.Close()

	var candidates []model.Candidate
	for rows.Next() {
		var c model.Candidate
		var municipality string
		if err := rows.Scan(
			&c.ID, &c.Name, &c.AirportClass, &c.IATACode,
			&municipality, &c.ImportanceHint, &c.Lat, &c.Lng,
		); err != nil {
			return nil, eris.Wrap(err, "spatial: scan airport row")
		}
		c.Type = "airport"
		c.Address = municipality
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "spatial: iterate airport rows")
	}
	return candidates, nil
}
