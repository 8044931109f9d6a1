package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hanamagouda9611/map-poi-app/internal/core/domain"
	"github.com/hanamagouda9611/map-poi-app/internal/pkg/geospatial"
)

// POIRepo implements ports.POIRepository with pgx and PostGIS.
//
// Points are written with ST_MakePoint(x, y) and read back with ST_X/ST_Y;
// the x/y values always come from geospatial.Point so the axis order is
// decided in exactly one place.
type POIRepo struct {
	db *DB
}

// NewPOIRepo creates a new POIRepo.
func NewPOIRepo(db *DB) *POIRepo {
	return &POIRepo{db: db}
}

// List returns all POIs ordered by id.
func (r *POIRepo) List(ctx context.Context) ([]domain.PointOfInterest, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, description, ST_X(location) AS x, ST_Y(location) AS y
		FROM pois
		ORDER BY id
	`)
	if err != nil {
		return nil, domain.NewInternalError("list pois", err)
	}
	defer rows.Close()

	pois := make([]domain.PointOfInterest, 0)
	for rows.Next() {
		var p domain.PointOfInterest
		var pt geospatial.Point
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &pt.X, &pt.Y); err != nil {
			return nil, domain.NewInternalError("scan poi", err)
		}
		p.Location = domain.GeoPointFromPoint(pt)
		pois = append(pois, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewInternalError("list pois", err)
	}
	return pois, nil
}

// GetByID returns a POI by id.
func (r *POIRepo) GetByID(ctx context.Context, id int64) (*domain.PointOfInterest, error) {
	var p domain.PointOfInterest
	var pt geospatial.Point
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, description, ST_X(location) AS x, ST_Y(location) AS y
		FROM pois WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Description, &pt.X, &pt.Y)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("get poi %d", id), err)
	}
	p.Location = domain.GeoPointFromPoint(pt)
	return &p, nil
}

// Create inserts a POI and returns its new id.
func (r *POIRepo) Create(ctx context.Context, name, description string, loc domain.GeoPoint) (int64, error) {
	if err := checkRecord(name, description, loc); err != nil {
		return 0, err
	}

	pt := loc.Point()
	var id int64
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO pois (name, description, location)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), $5))
		RETURNING id
	`, name, description, pt.X, pt.Y, geospatial.SRID).Scan(&id)
	if err != nil {
		return 0, domain.NewInternalError("insert poi", err)
	}
	return id, nil
}

// Update replaces name, description and location in one statement.
func (r *POIRepo) Update(ctx context.Context, id int64, name, description string, loc domain.GeoPoint) error {
	if err := checkRecord(name, description, loc); err != nil {
		return err
	}

	pt := loc.Point()
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE pois
		SET name = $1,
		    description = $2,
		    location = ST_SetSRID(ST_MakePoint($3, $4), $5)
		WHERE id = $6
	`, name, description, pt.X, pt.Y, geospatial.SRID, id)
	if err != nil {
		return domain.NewInternalError(fmt.Sprintf("update poi %d", id), err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a POI. Deleting a missing id succeeds.
func (r *POIRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM pois WHERE id = $1`, id)
	if err != nil {
		return false, domain.NewInternalError(fmt.Sprintf("delete poi %d", id), err)
	}
	return tag.RowsAffected() > 0, nil
}

func checkRecord(name, description string, loc domain.GeoPoint) error {
	switch {
	case strings.TrimSpace(name) == "":
		return domain.NewValidationError("name is required")
	case strings.TrimSpace(description) == "":
		return domain.NewValidationError("description is required")
	case !geospatial.ValidLatitude(loc.Lat):
		return domain.NewValidationError("lat must be between -90 and 90")
	case !geospatial.ValidLongitude(loc.Lng):
		return domain.NewValidationError("lng must be between -180 and 180")
	}
	return nil
}
