package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanamagouda9611/map-poi-app/internal/core/domain"
	"github.com/hanamagouda9611/map-poi-app/internal/core/usecases"
)

// recordingRepo stores created locations and fails when err is set.
type recordingRepo struct {
	created []domain.GeoPoint
	err     error
}

func (r *recordingRepo) List(ctx context.Context) ([]domain.PointOfInterest, error) { return nil, nil }
func (r *recordingRepo) GetByID(ctx context.Context, id int64) (*domain.PointOfInterest, error) {
	return nil, domain.ErrNotFound
}
func (r *recordingRepo) Create(ctx context.Context, name, description string, loc domain.GeoPoint) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.created = append(r.created, loc)
	return int64(len(r.created)), nil
}
func (r *recordingRepo) Update(ctx context.Context, id int64, name, description string, loc domain.GeoPoint) error {
	return nil
}
func (r *recordingRepo) Delete(ctx context.Context, id int64) (bool, error) { return false, nil }

const sample = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [77.5946, 12.9716]},
     "properties": {"name": "Cafe", "description": "Coffee shop"}},
    {"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]},
     "properties": {"name": "Road", "description": "Not a point"}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [10, 95]},
     "properties": {"name": "Nowhere", "description": "Latitude out of range"}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [2.2945, 48.8584]},
     "properties": {"name": "Tower", "description": ""}},
    {"type": "Feature", "geometry": null, "properties": {"name": "Ghost", "description": "No geometry"}},
    {"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 0]]]},
     "properties": {"name": "Square", "description": "An area"}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [1]},
     "properties": {"name": "Half", "description": "One coordinate"}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": "12,77"},
     "properties": {"name": "Text", "description": "String coordinates"}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [4.9, 52.37]},
     "properties": {"name": 42, "description": "Numeric name", "rating": 4.5}}
  ]
}`

func TestImportFeatures_SwapsCoordinateOrder(t *testing.T) {
	repo := &recordingRepo{}
	svc := usecases.NewPOIService(repo)

	rep, err := importFeatures(context.Background(), svc, strings.NewReader(sample), false)
	require.NoError(t, err)

	assert.Equal(t, report{Created: 1, Skipped: 8}, rep)
	require.Len(t, repo.created, 1)
	assert.Equal(t, domain.GeoPoint{Lat: 12.9716, Lng: 77.5946}, repo.created[0])
}

func TestImportFeatures_DryRunWritesNothing(t *testing.T) {
	rep, err := importFeatures(context.Background(), nil, strings.NewReader(sample), true)
	require.NoError(t, err)
	assert.Equal(t, report{Created: 1, Skipped: 8}, rep)
}

func TestImportFeatures_StoreFailureAborts(t *testing.T) {
	repo := &recordingRepo{err: domain.NewInternalError("create poi", errors.New("connection reset"))}
	svc := usecases.NewPOIService(repo)

	_, err := importFeatures(context.Background(), svc, strings.NewReader(sample), false)
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestImportFeatures_RejectsOtherDocuments(t *testing.T) {
	_, err := importFeatures(context.Background(), nil, strings.NewReader(`{"type":"Feature"}`), true)
	assert.ErrorContains(t, err, "expected FeatureCollection")

	_, err = importFeatures(context.Background(), nil, strings.NewReader(`not json`), true)
	assert.ErrorContains(t, err, "decode geojson")
}

func TestFeatureInput_OnlyWellFormedPoints(t *testing.T) {
	tests := []struct {
		name string
		geom string
		ok   bool
	}{
		{"point", `{"type":"Point","coordinates":[77.59,12.97]}`, true},
		{"point with altitude", `{"type":"Point","coordinates":[77.59,12.97,920]}`, true},
		{"multipoint", `{"type":"MultiPoint","coordinates":[[1,2],[3,4]]}`, false},
		{"linestring", `{"type":"LineString","coordinates":[[1,2],[3,4]]}`, false},
		{"short point", `{"type":"Point","coordinates":[1]}`, false},
		{"nested point", `{"type":"Point","coordinates":[[1,2]]}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g geometry
			require.NoError(t, json.Unmarshal([]byte(tt.geom), &g))

			in, ok := featureInput(feature{Geometry: &g, Properties: map[string]any{"name": "n", "description": "d"}})
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, 12.97, *in.Lat)
				assert.Equal(t, 77.59, *in.Lng)
				assert.Equal(t, "n", in.Name)
			}
		})
	}
}
