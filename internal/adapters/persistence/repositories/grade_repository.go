package repositories

import (
	"context"

	"gorm.io/gorm"

	"classhub/internal/adapters/persistence/models"
)

// gradeRepository implements the append-only GradeRepository interface
type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository creates a new grade ledger repository
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

// Append adds one ledger entry. No update or delete path exists on this
// repository: prior entries are superseded, never overwritten.
func (r *gradeRepository) Append(ctx context.Context, entry *models.GradeEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Current returns the latest entry for a submission by graded-at
func (r *gradeRepository) Current(ctx context.Context, submissionID uint) (*models.GradeEntry, error) {
	var entry models.GradeEntry
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("graded_at DESC, id DESC").
		First(&entry).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &entry, nil
}

// History returns the full ordered ledger for a submission, oldest first
func (r *gradeRepository) History(ctx context.Context, submissionID uint) ([]*models.GradeEntry, error) {
	var entries []*models.GradeEntry
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("graded_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}
