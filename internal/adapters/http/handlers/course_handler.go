package handlers

import (
	"classhub/internal/adapters/http/middleware"
	"classhub/internal/core/services"
	"classhub/internal/pkg/pagination"
	"classhub/internal/pkg/response"
	"classhub/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// CourseHandler handles course and enrollment endpoints
type CourseHandler struct {
	courseService *services.CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService *services.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// Create handles course creation
func (h *CourseHandler) Create(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateCourseInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	course, err := h.courseService.CreateCourse(c.Context(), p, &input)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Created(c, "Course created successfully", fiber.Map{
		"course": course,
	})
}

// Get returns one course
func (h *CourseHandler) Get(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	course, err := h.courseService.GetCourse(c.Context(), p, courseID)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Course retrieved successfully", fiber.Map{
		"course": course,
	})
}

// Update handles course update
func (h *CourseHandler) Update(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	var input services.UpdateCourseInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	course, err := h.courseService.UpdateCourse(c.Context(), p, courseID, &input)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Course updated successfully", fiber.Map{
		"course": course,
	})
}

// Delete handles course deletion
func (h *CourseHandler) Delete(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	if err := h.courseService.DeleteCourse(c.Context(), p, courseID); err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Course deleted successfully", nil)
}

// List returns the courses visible to the caller with pagination
func (h *CourseHandler) List(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	courses, total, err := h.courseService.ListCourses(c.Context(), p, params.Offset, params.Limit)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Courses retrieved successfully", pagination.NewResponse(courses, params, total))
}

// Enroll adds or replaces an enrollment on a course
func (h *CourseHandler) Enroll(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	var input services.EnrollInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	enrollment, err := h.courseService.Enroll(c.Context(), p, courseID, &input)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Created(c, "User enrolled successfully", fiber.Map{
		"enrollment": enrollment,
	})
}

// Unenroll removes an enrollment from a course
func (h *CourseHandler) Unenroll(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	if err := h.courseService.Unenroll(c.Context(), p, courseID, userID); err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "User unenrolled successfully", nil)
}

// ListEnrollments returns the enrollments of a course
func (h *CourseHandler) ListEnrollments(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	enrollments, err := h.courseService.ListEnrollments(c.Context(), p, courseID)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Enrollments retrieved successfully", fiber.Map{
		"enrollments": enrollments,
	})
}
