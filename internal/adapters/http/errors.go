package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/hanamagouda9611/map-poi-app/internal/core/domain"
	"github.com/hanamagouda9611/map-poi-app/internal/pkg/logging"
)

// APIError is a structured error response.
type APIError struct {
	Success   bool   `json:"success"` // always false
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, internal_error
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

type errorMapping struct {
	status int
	code   string
	// message replaces the error text when set, so internals never leak.
	message string
}

// errorTable decides the response for each error kind. Kinds missing from
// the table fall back to the internal-error entry.
var errorTable = map[domain.ErrorKind]errorMapping{
	domain.KindValidation: {status: fiber.StatusBadRequest, code: "bad_request"},
	domain.KindNotFound:   {status: fiber.StatusNotFound, code: "not_found"},
	domain.KindInternal:   {status: fiber.StatusInternalServerError, code: "internal_error", message: "Internal server error"},
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// respondError maps err through errorTable. Internal errors are logged with
// full detail and answered with a static message.
func respondError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	m, ok := errorTable[kind]
	if !ok {
		kind = domain.KindInternal
		m = errorTable[domain.KindInternal]
	}

	msg := m.message
	if msg == "" {
		var de *domain.Error
		if errors.As(err, &de) {
			msg = de.Message
		}
	}

	if kind == domain.KindInternal {
		logging.FromContext(c.UserContext()).Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
	}
	return newError(c, m.status, m.code, msg)
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}
