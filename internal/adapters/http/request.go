package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hanamagouda9611/map-poi-app/internal/core/domain"
)

// poiRequest is the body of create and update calls. Coordinates are kept
// raw so that numbers, numeric strings (as sent by HTML form state) and
// null/absent values can be told apart.
type poiRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Lat         json.RawMessage `json:"lat"`
	Lng         json.RawMessage `json:"lng"`
}

// parsePOIBody decodes the request body into a domain.POIInput.
// Structural problems are validation errors; field presence is checked
// later by POIInput.Validate.
func parsePOIBody(c *fiber.Ctx) (domain.POIInput, error) {
	var req poiRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return domain.POIInput{}, domain.NewValidationError(typeErr.Field + " has the wrong type")
		}
		return domain.POIInput{}, domain.NewValidationError("request body must be a JSON object")
	}

	lat, err := parseCoordinate("lat", req.Lat)
	if err != nil {
		return domain.POIInput{}, err
	}
	lng, err := parseCoordinate("lng", req.Lng)
	if err != nil {
		return domain.POIInput{}, err
	}

	return domain.POIInput{
		Name:        req.Name,
		Description: req.Description,
		Lat:         lat,
		Lng:         lng,
	}, nil
}

// parseCoordinate returns nil for an absent, null or empty-string value.
func parseCoordinate(field string, raw json.RawMessage) (*float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, domain.NewValidationError(field + " must be a number")
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, domain.NewValidationError(field + " must be a number")
		}
		return &v, nil
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, domain.NewValidationError(field + " must be a number")
	}
	return &v, nil
}

// parseID reads the :id route parameter.
func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("id must be an integer")
	}
	return id, nil
}
