package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hanamagouda9611/map-poi-app/internal/core/domain"
)

// CreatedResponse is returned by POST /api/pois.
type CreatedResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

// UpdatedResponse is returned by PUT /api/pois/:id.
type UpdatedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ListPOIsHandler returns every POI ordered by id. An empty store yields [].
func ListPOIsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pois, err := deps.POIs.List(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		if pois == nil {
			pois = []domain.PointOfInterest{}
		}
		return c.JSON(pois)
	}
}

// GetPOIHandler returns a single POI.
func GetPOIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return respondError(c, err)
		}
		poi, err := deps.POIs.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(poi)
	}
}

// CreatePOIHandler validates the body and stores a new POI.
func CreatePOIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in, err := parsePOIBody(c)
		if err != nil {
			return respondError(c, err)
		}
		id, err := deps.POIs.Create(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(CreatedResponse{Success: true, ID: id})
	}
}

// UpdatePOIHandler replaces name, description and location of a POI.
func UpdatePOIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return respondError(c, err)
		}
		in, err := parsePOIBody(c)
		if err != nil {
			return respondError(c, err)
		}
		if err := deps.POIs.Update(c.UserContext(), id, in); err != nil {
			return respondError(c, err)
		}
		return c.JSON(UpdatedResponse{Success: true, Message: "POI updated successfully"})
	}
}

// DeletePOIHandler removes a POI. Deleting an unknown id is not an error.
func DeletePOIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return respondError(c, err)
		}
		if err := deps.POIs.Delete(c.UserContext(), id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
