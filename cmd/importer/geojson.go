package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/hanamagouda9611/map-poi-app/internal/core/domain"
)

// featureCollection is the subset of GeoJSON the importer reads.
type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

// Properties are free-form in GeoJSON; only string name and description
// are read.
type feature struct {
	Type       string         `json:"type"`
	Geometry   *geometry      `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// geometry keeps coordinates raw: only Points ([lng, lat]) are decoded,
// other geometry types nest arrays and are skipped.
type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// poiCreator is satisfied by usecases.POIService.
type poiCreator interface {
	Create(ctx context.Context, in domain.POIInput) (int64, error)
}

// report counts the outcome of one import run.
type report struct {
	Created int
	Skipped int
}

// importFeatures creates one POI per Point feature. Features that are not
// points or that fail validation are skipped and logged; any other error
// aborts the run.
func importFeatures(ctx context.Context, svc poiCreator, r io.Reader, dryRun bool) (report, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return report{}, fmt.Errorf("decode geojson: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return report{}, fmt.Errorf("expected FeatureCollection, got %q", fc.Type)
	}

	var rep report
	for i, f := range fc.Features {
		log := slog.With("feature", i, "name", f.Properties["name"])

		in, ok := featureInput(f)
		if !ok {
			log.Warn("skipping feature without point geometry")
			rep.Skipped++
			continue
		}
		if dryRun {
			if err := in.Validate(); err != nil {
				log.Warn("skipping invalid feature", "error", err)
				rep.Skipped++
				continue
			}
			rep.Created++
			continue
		}

		id, err := svc.Create(ctx, in)
		switch {
		case domain.KindOf(err) == domain.KindValidation:
			log.Warn("skipping invalid feature", "error", err)
			rep.Skipped++
		case err != nil:
			return rep, fmt.Errorf("feature %d: %w", i, err)
		default:
			log.Debug("poi created", "id", id)
			rep.Created++
		}
	}
	return rep, nil
}

// featureInput swaps GeoJSON [lng, lat] into the lat/lng request form.
func featureInput(f feature) (domain.POIInput, bool) {
	if f.Geometry == nil || f.Geometry.Type != "Point" {
		return domain.POIInput{}, false
	}
	var coords []float64
	if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil || len(coords) < 2 {
		return domain.POIInput{}, false
	}
	lng := coords[0]
	lat := coords[1]
	return domain.POIInput{
		Name:        stringProp(f.Properties, "name"),
		Description: stringProp(f.Properties, "description"),
		Lat:         &lat,
		Lng:         &lng,
	}, true
}

func stringProp(props map[string]any, key string) string {
	v, _ := props[key].(string)
	return v
}
