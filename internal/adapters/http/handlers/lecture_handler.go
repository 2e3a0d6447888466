package handlers

import (
	"io"

	"classhub/internal/adapters/http/middleware"
	"classhub/internal/core/services"
	"classhub/internal/pkg/response"
	"classhub/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// LectureHandler handles lecture endpoints
type LectureHandler struct {
	lectureService *services.LectureService
}

// NewLectureHandler creates a new lecture handler
func NewLectureHandler(lectureService *services.LectureService) *LectureHandler {
	return &LectureHandler{lectureService: lectureService}
}

// Create handles lecture creation
func (h *LectureHandler) Create(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateLectureInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	lecture, err := h.lectureService.CreateLecture(c.Context(), p, &input)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Created(c, "Lecture created successfully", fiber.Map{
		"lecture": lecture,
	})
}

// Get returns one lecture
func (h *LectureHandler) Get(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	lectureID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid lecture id")
	}

	lecture, err := h.lectureService.GetLecture(c.Context(), p, lectureID)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Lecture retrieved successfully", fiber.Map{
		"lecture": lecture,
	})
}

// Update handles lecture update, including publishing
func (h *LectureHandler) Update(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	lectureID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid lecture id")
	}

	var input services.UpdateLectureInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	lecture, err := h.lectureService.UpdateLecture(c.Context(), p, lectureID, &input)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Lecture updated successfully", fiber.Map{
		"lecture": lecture,
	})
}

// Delete handles lecture deletion
func (h *LectureHandler) Delete(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	lectureID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid lecture id")
	}

	if err := h.lectureService.DeleteLecture(c.Context(), p, lectureID); err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Lecture deleted successfully", nil)
}

// ListByCourse returns a course's lectures
func (h *LectureHandler) ListByCourse(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	courseID, err := parseIDParam(c, "courseId")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	lectures, err := h.lectureService.ListLectures(c.Context(), p, courseID)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Lectures retrieved successfully", fiber.Map{
		"lectures": lectures,
	})
}

// UploadPresentation stores a presentation file for a lecture
func (h *LectureHandler) UploadPresentation(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	lectureID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid lecture id")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "Presentation file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Failed to read presentation file")
	}
	defer file.Close()

	lecture, err := h.lectureService.UploadPresentation(c.Context(), p, lectureID, fileHeader.Filename, file)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Presentation uploaded successfully", fiber.Map{
		"lecture": lecture,
	})
}

// DownloadPresentation streams a lecture's presentation file
func (h *LectureHandler) DownloadPresentation(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	lectureID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid lecture id")
	}

	reader, err := h.lectureService.DownloadPresentation(c.Context(), p, lectureID)
	if err != nil {
		return handleDomainError(c, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return response.InternalServerError(c, "Failed to read presentation")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(data)
}
