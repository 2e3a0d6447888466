package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classhub/internal/adapters/persistence/models"
	"classhub/internal/core/domain"
)

// submissionRepository implements SubmissionRepository interface
type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// CreateActive inserts a submission under the per-(homework, student)
// serialization guard. Existing rows for the pair are locked for the
// duration of the check-and-insert, so of two concurrent creators exactly
// one commits; the other observes the committed row and fails with
// ErrDuplicateActiveSubmission. The lock is held only across this
// transaction, never across blob uploads or other external calls.
func (r *submissionRepository) CreateActive(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prior []*models.Submission
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("homework_id = ? AND student_id = ?", submission.HomeworkID, submission.StudentID).
			Order("submitted_at DESC").
			Find(&prior).Error
		if err != nil {
			return err
		}

		for _, p := range prior {
			if p.IsActive() {
				return domain.ErrDuplicateActiveSubmission
			}
		}

		// submitted-at must increase across resubmissions of the pair
		if len(prior) > 0 && !submission.SubmittedAt.After(prior[0].SubmittedAt) {
			return domain.ErrInvalidInput
		}

		return tx.Create(submission).Error
	})
}

// GetByID gets a submission by ID
func (r *submissionRepository) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &submission, nil
}

// GetLatest gets the most recent submission for a (homework, student) pair
func (r *submissionRepository) GetLatest(ctx context.Context, homeworkID, studentID uint) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Where("homework_id = ? AND student_id = ?", homeworkID, studentID).
		Order("submitted_at DESC").
		First(&submission).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &submission, nil
}

// UpdateStatus transitions a submission's workflow status
func (r *submissionRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByHomework lists all submissions for a homework
func (r *submissionRepository) ListByHomework(ctx context.Context, homeworkID uint) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := r.db.WithContext(ctx).
		Where("homework_id = ?", homeworkID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

// ListByStudent lists a student's submission history for a homework,
// newest first
func (r *submissionRepository) ListByStudent(ctx context.Context, homeworkID, studentID uint) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := r.db.WithContext(ctx).
		Where("homework_id = ? AND student_id = ?", homeworkID, studentID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

// CountByHomework counts submissions for a homework
func (r *submissionRepository) CountByHomework(ctx context.Context, homeworkID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("homework_id = ?", homeworkID).
		Count(&count).Error
	return count, err
}
