package postgres_test

import (
	"context"
	"testing"

	"github.com/hanamagouda9611/map-poi-app/internal/adapters/postgres"
	"github.com/hanamagouda9611/map-poi-app/internal/core/domain"
)

// A nil DB proves validation happens before any statement is issued.
func TestPOIRepo_Create_RejectsMissingFields(t *testing.T) {
	repo := postgres.NewPOIRepo(nil)
	ctx := context.Background()
	loc := domain.GeoPoint{Lat: 12.97, Lng: 77.59}

	if _, err := repo.Create(ctx, "", "desc", loc); domain.KindOf(err) != domain.KindValidation {
		t.Errorf("expected validation error for empty name, got %v", err)
	}
	if _, err := repo.Create(ctx, "name", " ", loc); domain.KindOf(err) != domain.KindValidation {
		t.Errorf("expected validation error for blank description, got %v", err)
	}
	if _, err := repo.Create(ctx, "name", "desc", domain.GeoPoint{Lat: 120, Lng: 0}); domain.KindOf(err) != domain.KindValidation {
		t.Errorf("expected validation error for lat out of range, got %v", err)
	}
}

func TestPOIRepo_Update_RejectsMissingFields(t *testing.T) {
	repo := postgres.NewPOIRepo(nil)
	err := repo.Update(context.Background(), 1, "", "desc", domain.GeoPoint{})
	if domain.KindOf(err) != domain.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}
