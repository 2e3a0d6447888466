package handlers

import (
	"errors"

	"classhub/internal/core/domain"
	"classhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// handleDomainError maps domain errors onto HTTP responses. Workflow
// rule violations surface as 422 so clients can tell them apart from
// malformed requests.
func handleDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Resource not found")
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to access this resource")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Invalid input")
	case errors.Is(err, domain.ErrSubmissionWindowClosed):
		return response.UnprocessableEntity(c, "Submission window closed")
	case errors.Is(err, domain.ErrDuplicateActiveSubmission):
		return response.Conflict(c, "An ungraded submission already exists for this homework")
	case errors.Is(err, domain.ErrResubmissionNotAllowed):
		return response.UnprocessableEntity(c, "Resubmission is not allowed for this homework")
	case errors.Is(err, domain.ErrHomeworkLocked):
		return response.UnprocessableEntity(c, "Homework has submissions and cannot be modified")
	case errors.Is(err, domain.ErrServiceUnavailable):
		return response.ServiceUnavailable(c, "Storage temporarily unavailable, please retry")
	default:
		return response.InternalServerError(c, "Internal server error")
	}
}

// parseIDParam reads a positive integer route parameter
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return uint(id), nil
}
