package handlers

import (
	"classhub/internal/adapters/http/middleware"
	"classhub/internal/core/services"
	"classhub/internal/pkg/response"
	"classhub/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// GradeHandler handles grading ledger endpoints
type GradeHandler struct {
	gradingService *services.GradingService
}

// NewGradeHandler creates a new grade handler
func NewGradeHandler(gradingService *services.GradingService) *GradeHandler {
	return &GradeHandler{gradingService: gradingService}
}

// Grade handles grading a submission
func (h *GradeHandler) Grade(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid submission id")
	}

	var input services.GradeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	input.SubmissionID = submissionID
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	entry, err := h.gradingService.Grade(c.Context(), p, &input)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Created(c, "Submission graded successfully", fiber.Map{
		"grade": entry,
	})
}

// Recompute re-applies the late policy to one submission's latest grade
func (h *GradeHandler) Recompute(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid submission id")
	}

	entry, err := h.gradingService.Recompute(c.Context(), p, submissionID)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Created(c, "Grade recomputed successfully", fiber.Map{
		"grade": entry,
	})
}

// RecomputeHomework recomputes all graded submissions of a homework
func (h *GradeHandler) RecomputeHomework(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	homeworkID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid homework id")
	}

	count, err := h.gradingService.RecomputeHomework(c.Context(), p, homeworkID)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Grades recomputed successfully", fiber.Map{
		"recomputed": count,
	})
}

// Current returns the effective grade of a submission
func (h *GradeHandler) Current(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid submission id")
	}

	grade, err := h.gradingService.Current(c.Context(), p, submissionID)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Grade retrieved successfully", fiber.Map{
		"grade": grade,
	})
}

// History returns the full grade ledger of a submission
func (h *GradeHandler) History(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid submission id")
	}

	history, err := h.gradingService.History(c.Context(), p, submissionID)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Grade history retrieved successfully", fiber.Map{
		"history": history,
	})
}
