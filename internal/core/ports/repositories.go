package ports

import (
	"context"

	"github.com/hanamagouda9611/map-poi-app/internal/core/domain"
)

// POIRepository persists points of interest.
type POIRepository interface {
	// List returns every POI ordered by id ascending.
	List(ctx context.Context) ([]domain.PointOfInterest, error)
	// GetByID returns domain.ErrNotFound when no row has the id.
	GetByID(ctx context.Context, id int64) (*domain.PointOfInterest, error)
	Create(ctx context.Context, name, description string, loc domain.GeoPoint) (int64, error)
	// Update returns domain.ErrNotFound when no row was affected.
	Update(ctx context.Context, id int64, name, description string, loc domain.GeoPoint) error
	// Delete reports whether a row existed. A missing id is not an error.
	Delete(ctx context.Context, id int64) (bool, error)
}
