package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"classhub/internal/adapters/persistence/models"
	"classhub/internal/adapters/persistence/repositories"
	"classhub/internal/core/domain"
)

// HomeworkService runs the submission state machine: deadline and
// resubmission rules, the duplicate-active guard, and homework lifecycle.
type HomeworkService struct {
	homeworkRepo   repositories.HomeworkRepository
	submissionRepo repositories.SubmissionRepository
	courseRepo     repositories.CourseRepository
	blobs          BlobStore
	notifier       Notifier
	authz          *Authorizer
	now            func() time.Time
}

// NewHomeworkService creates a new homework service. now may be nil for
// wall clock.
func NewHomeworkService(
	homeworkRepo repositories.HomeworkRepository,
	submissionRepo repositories.SubmissionRepository,
	courseRepo repositories.CourseRepository,
	blobs BlobStore,
	notifier Notifier,
	authz *Authorizer,
	now func() time.Time,
) *HomeworkService {
	if now == nil {
		now = time.Now
	}
	return &HomeworkService{
		homeworkRepo:   homeworkRepo,
		submissionRepo: submissionRepo,
		courseRepo:     courseRepo,
		blobs:          blobs,
		notifier:       notifier,
		authz:          authz,
		now:            now,
	}
}

// CreateHomeworkInput represents homework creation input
type CreateHomeworkInput struct {
	CourseID            uint      `json:"course_id" validate:"required"`
	LectureID           uint      `json:"lecture_id"`
	Title               string    `json:"title" validate:"required,max=200"`
	Description         string    `json:"description"`
	DueAt               time.Time `json:"due_at" validate:"required"`
	GraceMinutes        int       `json:"grace_minutes" validate:"gte=0"`
	MaxLateMinutes      int       `json:"max_late_minutes" validate:"gte=0"`
	MaxScore            float64   `json:"max_score" validate:"gte=1"`
	LatePolicy          string    `json:"late_policy" validate:"required,oneof=NONE PERCENTAGE_DECAY FIXED_PENALTY"`
	DecayPerDay         float64   `json:"decay_per_day" validate:"gte=0,lte=1"`
	PenaltyPerDay       float64   `json:"penalty_per_day" validate:"gte=0"`
	ResubmissionAllowed bool      `json:"resubmission_allowed"`
}

// UpdateHomeworkInput represents homework update input. Once submissions
// exist only the due date may move, and only forward.
type UpdateHomeworkInput struct {
	Title         string     `json:"title" validate:"omitempty,max=200"`
	Description   string     `json:"description"`
	DueAt         *time.Time `json:"due_at"`
	LatePolicy    string     `json:"late_policy" validate:"omitempty,oneof=NONE PERCENTAGE_DECAY FIXED_PENALTY"`
	DecayPerDay   *float64   `json:"decay_per_day"`
	PenaltyPerDay *float64   `json:"penalty_per_day"`
}

// SubmitInput represents submission input
type SubmitInput struct {
	HomeworkID     uint   `json:"homework_id" validate:"required"`
	Content        string `json:"content" validate:"required"`
	AttachmentName string `json:"attachment_name"`
	Attachment     io.Reader
}

// CreateHomework creates a homework assignment (course staff only)
func (s *HomeworkService) CreateHomework(ctx context.Context, p domain.Principal, input *CreateHomeworkInput) (*models.Homework, error) {
	course, err := s.courseRepo.GetByID(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID}
	if !s.authz.Can(ctx, p, domain.ActionCreateHomework, res) {
		return nil, domain.ErrForbidden
	}

	homework := &models.Homework{
		CourseID:            input.CourseID,
		LectureID:           input.LectureID,
		Title:               input.Title,
		Description:         input.Description,
		DueAt:               input.DueAt,
		GraceMinutes:        input.GraceMinutes,
		MaxLateMinutes:      input.MaxLateMinutes,
		MaxScore:            input.MaxScore,
		LatePolicy:          input.LatePolicy,
		DecayPerDay:         input.DecayPerDay,
		PenaltyPerDay:       input.PenaltyPerDay,
		ResubmissionAllowed: input.ResubmissionAllowed,
		CreatedBy:           p.UserID,
	}
	if err := s.homeworkRepo.Create(ctx, homework); err != nil {
		return nil, err
	}

	log.Printf("✅ Homework created: %q (course %d, due %s)", homework.Title, homework.CourseID, homework.DueAt.Format(time.RFC3339))
	return homework, nil
}

// GetHomework returns a homework visible to the principal
func (s *HomeworkService) GetHomework(ctx context.Context, p domain.Principal, homeworkID uint) (*models.Homework, error) {
	homework, course, err := s.homeworkWithCourse(ctx, homeworkID)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID, Published: true}
	if !s.authz.Can(ctx, p, domain.ActionViewLecture, res) {
		return nil, domain.ErrForbidden
	}
	return homework, nil
}

// ListHomework lists a course's homework for an enrolled principal
func (s *HomeworkService) ListHomework(ctx context.Context, p domain.Principal, courseID uint) ([]*models.Homework, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID, Published: true}
	if !s.authz.Can(ctx, p, domain.ActionViewLecture, res) {
		return nil, domain.ErrForbidden
	}
	return s.homeworkRepo.ListByCourse(ctx, courseID)
}

// UpdateHomework updates a homework. A homework with submissions is
// locked except for extending the due date and editing the late policy
// (the retroactive-policy edit that a ledger recompute follows).
func (s *HomeworkService) UpdateHomework(ctx context.Context, p domain.Principal, homeworkID uint, input *UpdateHomeworkInput) (*models.Homework, error) {
	homework, course, err := s.homeworkWithCourse(ctx, homeworkID)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID}
	if !s.authz.Can(ctx, p, domain.ActionCreateHomework, res) {
		return nil, domain.ErrForbidden
	}

	count, err := s.submissionRepo.CountByHomework(ctx, homeworkID)
	if err != nil {
		return nil, err
	}

	if count > 0 {
		if input.Title != "" || input.Description != "" {
			return nil, domain.ErrHomeworkLocked
		}
		if input.DueAt != nil && input.DueAt.Before(homework.DueAt) {
			return nil, domain.ErrHomeworkLocked
		}
	}

	if input.Title != "" {
		homework.Title = input.Title
	}
	if input.Description != "" {
		homework.Description = input.Description
	}
	if input.DueAt != nil {
		homework.DueAt = *input.DueAt
	}
	if input.LatePolicy != "" {
		homework.LatePolicy = input.LatePolicy
	}
	if input.DecayPerDay != nil {
		homework.DecayPerDay = *input.DecayPerDay
	}
	if input.PenaltyPerDay != nil {
		homework.PenaltyPerDay = *input.PenaltyPerDay
	}

	if err := s.homeworkRepo.Update(ctx, homework); err != nil {
		return nil, err
	}
	return homework, nil
}

// Submit creates a submission, applying the deadline and resubmission
// rules. Late submissions are accepted with LateSubmitted status until
// the hard cutoff; after that the window is closed. The attachment is
// uploaded before the creation guard runs, so no lock spans the blob
// call.
func (s *HomeworkService) Submit(ctx context.Context, p domain.Principal, input *SubmitInput) (*models.Submission, error) {
	homework, course, err := s.homeworkWithCourse(ctx, input.HomeworkID)
	if err != nil {
		return nil, err
	}

	// Authorization first: unauthorized callers never learn workflow state
	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID}
	if !s.authz.Can(ctx, p, domain.ActionSubmit, res) {
		return nil, domain.ErrForbidden
	}

	now := s.now()
	rule := homework.DeadlineRule()
	if now.After(rule.ClosedAt()) {
		return nil, domain.ErrSubmissionWindowClosed
	}

	prior, err := s.submissionRepo.GetLatest(ctx, input.HomeworkID, p.UserID)
	switch {
	case err == nil:
		if prior.IsActive() {
			return nil, domain.ErrDuplicateActiveSubmission
		}
		// prior is graded: this is a resubmission
		if !homework.ResubmissionAllowed {
			return nil, domain.ErrResubmissionNotAllowed
		}
		if !s.authz.Can(ctx, p, domain.ActionResubmit, res) {
			return nil, domain.ErrForbidden
		}
	case errors.Is(err, domain.ErrNotFound):
		// first submission
	default:
		return nil, err
	}

	attachmentRef := ""
	if input.Attachment != nil {
		key := fmt.Sprintf("homework_submissions/%s%s", uuid.New().String(), filepath.Ext(input.AttachmentName))
		attachmentRef, err = s.blobs.Put(ctx, key, input.Attachment)
		if err != nil {
			return nil, err
		}
	}

	status := domain.StatusSubmitted
	if now.After(rule.OnTimeUntil()) {
		status = domain.StatusLateSubmitted
	}

	submission := &models.Submission{
		HomeworkID:    input.HomeworkID,
		StudentID:     p.UserID,
		Content:       input.Content,
		AttachmentRef: attachmentRef,
		Status:        string(status),
		SubmittedAt:   now,
	}

	// The guard re-checks for an active submission under the row lock;
	// of two concurrent creators exactly one commits.
	if err := s.submissionRepo.CreateActive(ctx, submission); err != nil {
		if attachmentRef != "" {
			if derr := s.blobs.Delete(ctx, attachmentRef); derr != nil {
				log.Printf("⚠️ Failed to delete orphaned attachment %s: %v", attachmentRef, derr)
			}
		}
		return nil, err
	}

	s.notifier.Notify(p.UserID, "submission_accepted", fmt.Sprintf("homework %d submission %d (%s)", homework.ID, submission.ID, status))

	log.Printf("✅ Submission %d created for homework %d by student %d [%s]", submission.ID, homework.ID, p.UserID, status)
	return submission, nil
}

// GetSubmission returns a submission to its owner or course staff
func (s *HomeworkService) GetSubmission(ctx context.Context, p domain.Principal, submissionID uint) (*models.Submission, error) {
	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	_, course, err := s.homeworkWithCourse(ctx, submission.HomeworkID)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{
		CourseID:      course.ID,
		CourseOwnerID: course.OwnerID,
		OwnerUserID:   submission.StudentID,
	}
	if !s.authz.Can(ctx, p, domain.ActionViewGrade, res) {
		return nil, domain.ErrForbidden
	}
	return submission, nil
}

// ListSubmissions lists all submissions of a homework (course staff only)
func (s *HomeworkService) ListSubmissions(ctx context.Context, p domain.Principal, homeworkID uint) ([]*models.Submission, error) {
	_, course, err := s.homeworkWithCourse(ctx, homeworkID)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID}
	if !s.authz.Can(ctx, p, domain.ActionGrade, res) {
		return nil, domain.ErrForbidden
	}
	return s.submissionRepo.ListByHomework(ctx, homeworkID)
}

// ListMySubmissions returns the principal's own submission history for a
// homework, newest first
func (s *HomeworkService) ListMySubmissions(ctx context.Context, p domain.Principal, homeworkID uint) ([]*models.Submission, error) {
	return s.submissionRepo.ListByStudent(ctx, homeworkID, p.UserID)
}

// DownloadAttachment opens a submission's attachment blob
func (s *HomeworkService) DownloadAttachment(ctx context.Context, p domain.Principal, submissionID uint) (io.ReadCloser, error) {
	submission, err := s.GetSubmission(ctx, p, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.AttachmentRef == "" {
		return nil, domain.ErrNotFound
	}
	return s.blobs.Get(ctx, submission.AttachmentRef)
}

func (s *HomeworkService) homeworkWithCourse(ctx context.Context, homeworkID uint) (*models.Homework, *models.Course, error) {
	homework, err := s.homeworkRepo.GetByID(ctx, homeworkID)
	if err != nil {
		return nil, nil, err
	}
	course, err := s.courseRepo.GetByID(ctx, homework.CourseID)
	if err != nil {
		return nil, nil, err
	}
	return homework, course, nil
}
