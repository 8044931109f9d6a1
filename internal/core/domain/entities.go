package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/hanamagouda9611/map-poi-app/internal/pkg/geospatial"
)

// PointOfInterest is a named, described location on the map.
type PointOfInterest struct {
	ID          int64
	Name        string
	Description string
	Location    GeoPoint
}

// poiWire is the flat JSON shape shared by the REST API, the cache and events.
type poiWire struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

func (p PointOfInterest) MarshalJSON() ([]byte, error) {
	return json.Marshal(poiWire{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Lat:         p.Location.Lat,
		Lng:         p.Location.Lng,
	})
}

func (p *PointOfInterest) UnmarshalJSON(data []byte) error {
	var w poiWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = PointOfInterest{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Location:    GeoPoint{Lat: w.Lat, Lng: w.Lng},
	}
	return nil
}

// POIInput carries the mutable fields of a create or update request.
// Coordinates are pointers so that an absent value is distinguishable from 0.
type POIInput struct {
	Name        string
	Description string
	Lat         *float64
	Lng         *float64
}

// Validate reports the first missing or out-of-range field as a validation error.
func (in POIInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return NewValidationError("name is required")
	case strings.TrimSpace(in.Description) == "":
		return NewValidationError("description is required")
	case in.Lat == nil:
		return NewValidationError("lat is required")
	case in.Lng == nil:
		return NewValidationError("lng is required")
	case !geospatial.ValidLatitude(*in.Lat):
		return NewValidationError("lat must be between -90 and 90")
	case !geospatial.ValidLongitude(*in.Lng):
		return NewValidationError("lng must be between -180 and 180")
	}
	return nil
}

// Location returns the submitted coordinate. Call only after Validate succeeds.
func (in POIInput) Location() GeoPoint {
	return GeoPoint{Lat: *in.Lat, Lng: *in.Lng}
}

// POIEventType names a change to the POI collection.
type POIEventType string

const (
	POICreated POIEventType = "created"
	POIUpdated POIEventType = "updated"
	POIDeleted POIEventType = "deleted"
)

// POIEvent is published after a successful mutation.
type POIEvent struct {
	ID         string           `json:"id"`
	Type       POIEventType     `json:"type"`
	POIID      int64            `json:"poi_id"`
	POI        *PointOfInterest `json:"poi,omitempty"` // nil for deletions
	OccurredAt time.Time        `json:"occurred_at"`
}
