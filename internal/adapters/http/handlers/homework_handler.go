package handlers

import (
	"io"

	"classhub/internal/adapters/http/middleware"
	"classhub/internal/core/services"
	"classhub/internal/pkg/response"
	"classhub/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// HomeworkHandler handles homework and submission endpoints
type HomeworkHandler struct {
	homeworkService *services.HomeworkService
}

// NewHomeworkHandler creates a new homework handler
func NewHomeworkHandler(homeworkService *services.HomeworkService) *HomeworkHandler {
	return &HomeworkHandler{homeworkService: homeworkService}
}

// Create handles homework creation
func (h *HomeworkHandler) Create(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateHomeworkInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	homework, err := h.homeworkService.CreateHomework(c.Context(), p, &input)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Created(c, "Homework created successfully", fiber.Map{
		"homework": homework,
	})
}

// Get returns one homework
func (h *HomeworkHandler) Get(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	homeworkID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid homework id")
	}

	homework, err := h.homeworkService.GetHomework(c.Context(), p, homeworkID)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Homework retrieved successfully", fiber.Map{
		"homework": homework,
	})
}

// Update handles homework update
func (h *HomeworkHandler) Update(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	homeworkID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid homework id")
	}

	var input services.UpdateHomeworkInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	homework, err := h.homeworkService.UpdateHomework(c.Context(), p, homeworkID, &input)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Homework updated successfully", fiber.Map{
		"homework": homework,
	})
}

// ListByCourse returns a course's homework
func (h *HomeworkHandler) ListByCourse(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	courseID, err := parseIDParam(c, "courseId")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	homework, err := h.homeworkService.ListHomework(c.Context(), p, courseID)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Homework retrieved successfully", fiber.Map{
		"homework": homework,
	})
}

// Submit handles a homework submission. Sent as multipart form data with
// a "content" field and an optional "attachment" file.
func (h *HomeworkHandler) Submit(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	homeworkID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid homework id")
	}

	input := services.SubmitInput{
		HomeworkID: homeworkID,
		Content:    c.FormValue("content"),
	}

	if fileHeader, err := c.FormFile("attachment"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return response.BadRequest(c, "Failed to read attachment")
		}
		defer file.Close()
		input.AttachmentName = fileHeader.Filename
		input.Attachment = file
	}

	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	submission, err := h.homeworkService.Submit(c.Context(), p, &input)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Created(c, "Submission accepted", fiber.Map{
		"submission": submission,
	})
}

// GetSubmission returns one submission
func (h *HomeworkHandler) GetSubmission(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid submission id")
	}

	submission, err := h.homeworkService.GetSubmission(c.Context(), p, submissionID)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Submission retrieved successfully", fiber.Map{
		"submission": submission,
	})
}

// ListSubmissions returns all submissions of a homework for graders
func (h *HomeworkHandler) ListSubmissions(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	homeworkID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid homework id")
	}

	submissions, err := h.homeworkService.ListSubmissions(c.Context(), p, homeworkID)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Submissions retrieved successfully", fiber.Map{
		"submissions": submissions,
	})
}

// ListMySubmissions returns the caller's own submissions for a homework
func (h *HomeworkHandler) ListMySubmissions(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	homeworkID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid homework id")
	}

	submissions, err := h.homeworkService.ListMySubmissions(c.Context(), p, homeworkID)
	if err != nil {
		return handleDomainError(c, err)
	}

	return response.Success(c, "Submissions retrieved successfully", fiber.Map{
		"submissions": submissions,
	})
}

// DownloadAttachment streams a submission's attachment
func (h *HomeworkHandler) DownloadAttachment(c *fiber.Ctx) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	submissionID, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid submission id")
	}

	reader, err := h.homeworkService.DownloadAttachment(c.Context(), p, submissionID)
	if err != nil {
		return handleDomainError(c, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return response.InternalServerError(c, "Failed to read attachment")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(data)
}
