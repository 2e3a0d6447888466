package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"classhub/internal/adapters/persistence/models"
	"classhub/internal/adapters/persistence/repositories"
	"classhub/internal/core/domain"
	"classhub/internal/pkg/retry"
)

const (
	ledgerRetryAttempts = 3
	ledgerRetryBaseWait = 100 * time.Millisecond
)

// GradingService maintains the append-only grade ledger. Entries are
// appended, never mutated; a regrade carries a new raw score while a
// recompute re-applies the late policy to the stored one.
type GradingService struct {
	gradeRepo      repositories.GradeRepository
	submissionRepo repositories.SubmissionRepository
	homeworkRepo   repositories.HomeworkRepository
	courseRepo     repositories.CourseRepository
	notifier       Notifier
	authz          *Authorizer
	now            func() time.Time
}

// NewGradingService creates a new grading service. now may be nil for
// wall clock.
func NewGradingService(
	gradeRepo repositories.GradeRepository,
	submissionRepo repositories.SubmissionRepository,
	homeworkRepo repositories.HomeworkRepository,
	courseRepo repositories.CourseRepository,
	notifier Notifier,
	authz *Authorizer,
	now func() time.Time,
) *GradingService {
	if now == nil {
		now = time.Now
	}
	return &GradingService{
		gradeRepo:      gradeRepo,
		submissionRepo: submissionRepo,
		homeworkRepo:   homeworkRepo,
		courseRepo:     courseRepo,
		notifier:       notifier,
		authz:          authz,
		now:            now,
	}
}

// GradeInput represents grading input
type GradeInput struct {
	SubmissionID uint    `json:"submission_id" validate:"required"`
	RawScore     float64 `json:"raw_score" validate:"gte=0"`
	Comment      string  `json:"comment"`
}

// Grade appends a grade entry for a submission and marks it Graded.
// The raw score is stored as given; the adjusted score is derived by the
// homework's late policy and clamped to [0, max score].
func (s *GradingService) Grade(ctx context.Context, p domain.Principal, input *GradeInput) (*models.GradeEntry, error) {
	submission, homework, course, err := s.submissionChain(ctx, input.SubmissionID)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID}
	if !s.authz.Can(ctx, p, domain.ActionGrade, res) {
		return nil, domain.ErrForbidden
	}

	if input.RawScore < 0 || input.RawScore > homework.MaxScore {
		return nil, domain.ErrInvalidInput
	}

	lateDays := domain.LateDays(submission.SubmittedAt, homework.DueAt)
	adjusted := domain.ApplyLatePolicy(input.RawScore, lateDays, homework.PolicyParams())

	entry := &models.GradeEntry{
		SubmissionID:  submission.ID,
		Kind:          string(domain.GradeKindGrade),
		RawScore:      input.RawScore,
		AdjustedScore: adjusted,
		LateDays:      lateDays,
		GraderID:      p.UserID,
		Comment:       input.Comment,
		GradedAt:      s.now(),
	}
	if err := s.appendEntry(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.submissionRepo.UpdateStatus(ctx, submission.ID, string(domain.StatusGraded)); err != nil {
		return nil, err
	}

	s.notifier.Notify(submission.StudentID, "grade_posted", fmt.Sprintf("submission %d scored %.1f/%.0f", submission.ID, adjusted, homework.MaxScore))

	log.Printf("✅ Submission %d graded: raw %.1f adjusted %.1f (%d late days)", submission.ID, entry.RawScore, entry.AdjustedScore, lateDays)
	return entry, nil
}

// Recompute re-applies the homework's current late policy to the stored
// raw score of the submission's latest grade, appending a recompute
// entry. Used after a retroactive late-policy edit; distinguished in the
// ledger from a regrade.
func (s *GradingService) Recompute(ctx context.Context, p domain.Principal, submissionID uint) (*models.GradeEntry, error) {
	submission, homework, course, err := s.submissionChain(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID}
	if !s.authz.Can(ctx, p, domain.ActionGrade, res) {
		return nil, domain.ErrForbidden
	}

	return s.recomputeOne(ctx, p, submission, homework)
}

// RecomputeHomework recomputes every graded submission of a homework.
// Cancelable between submissions: each recompute is one atomic append,
// so cancellation never leaves a half-applied policy.
func (s *GradingService) RecomputeHomework(ctx context.Context, p domain.Principal, homeworkID uint) (int, error) {
	homework, err := s.homeworkRepo.GetByID(ctx, homeworkID)
	if err != nil {
		return 0, err
	}
	course, err := s.courseRepo.GetByID(ctx, homework.CourseID)
	if err != nil {
		return 0, err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID}
	if !s.authz.Can(ctx, p, domain.ActionGrade, res) {
		return 0, domain.ErrForbidden
	}

	submissions, err := s.submissionRepo.ListByHomework(ctx, homeworkID)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, submission := range submissions {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if submission.Status != string(domain.StatusGraded) {
			continue
		}
		if _, err := s.recomputeOne(ctx, p, submission, homework); err != nil {
			return done, err
		}
		done++
	}

	log.Printf("✅ Recomputed %d submissions for homework %d", done, homeworkID)
	return done, nil
}

// Current returns the latest ledger entry for a submission
func (s *GradingService) Current(ctx context.Context, p domain.Principal, submissionID uint) (*models.GradeResponse, error) {
	submission, homework, course, err := s.submissionChain(ctx, submissionID)
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

	entry, err := s.gradeRepo.Current(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	return entry.ToResponse(homework.MaxScore), nil
}

// History returns the full ordered ledger for a submission, oldest first
func (s *GradingService) History(ctx context.Context, p domain.Principal, submissionID uint) ([]*models.GradeResponse, error) {
	submission, homework, course, err := s.submissionChain(ctx, submissionID)
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

	entries, err := s.gradeRepo.History(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	out := make([]*models.GradeResponse, len(entries))
	for i, entry := range entries {
		out[i] = entry.ToResponse(homework.MaxScore)
	}
	return out, nil
}

func (s *GradingService) recomputeOne(ctx context.Context, p domain.Principal, submission *models.Submission, homework *models.Homework) (*models.GradeEntry, error) {
	current, err := s.gradeRepo.Current(ctx, submission.ID)
	if err != nil {
		return nil, err
	}

	lateDays := domain.LateDays(submission.SubmittedAt, homework.DueAt)
	adjusted := domain.ApplyLatePolicy(current.RawScore, lateDays, homework.PolicyParams())

	entry := &models.GradeEntry{
		SubmissionID:  submission.ID,
		Kind:          string(domain.GradeKindRecompute),
		RawScore:      current.RawScore,
		AdjustedScore: adjusted,
		LateDays:      lateDays,
		GraderID:      p.UserID,
		Comment:       current.Comment,
		GradedAt:      s.now(),
	}
	if err := s.appendEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// appendEntry writes one ledger row, retrying transient storage failures
// with bounded backoff. Exhausted retries surface as ServiceUnavailable;
// the workflow itself never retries.
func (s *GradingService) appendEntry(ctx context.Context, entry *models.GradeEntry) error {
	err := retry.Do(ctx, ledgerRetryAttempts, ledgerRetryBaseWait, func() error {
		return s.gradeRepo.Append(ctx, entry)
	})
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		log.Printf("❌ Ledger append failed after retries: %v", err)
		return domain.ErrServiceUnavailable
	}
	return nil
}

func (s *GradingService) submissionChain(ctx context.Context, submissionID uint) (*models.Submission, *models.Homework, *models.Course, error) {
	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, nil, nil, err
	}
	homework, err := s.homeworkRepo.GetByID(ctx, submission.HomeworkID)
	if err != nil {
		return nil, nil, nil, err
	}
	course, err := s.courseRepo.GetByID(ctx, homework.CourseID)
	if err != nil {
		return nil, nil, nil, err
	}
	return submission, homework, course, nil
}
