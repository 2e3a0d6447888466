package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classhub/internal/adapters/persistence/models"
)

// enrollmentRepository implements EnrollmentRepository interface
type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// Upsert creates an enrollment or replaces the role of an existing one.
// The unique index on (course_id, user_id) guarantees one row per pair.
func (r *enrollmentRepository) Upsert(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role"}),
	}).Create(enrollment).Error
}

// Delete removes an enrollment
func (r *enrollmentRepository) Delete(ctx context.Context, courseID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Delete(&models.Enrollment{}).Error
}

// Get fetches one enrollment
func (r *enrollmentRepository) Get(ctx context.Context, courseID, userID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		First(&enrollment).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &enrollment, nil
}

// ListByCourse lists all enrollments of a course
func (r *enrollmentRepository) ListByCourse(ctx context.Context, courseID uint) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&enrollments).Error
	return enrollments, err
}

// ListByUser lists all enrollments of a user
func (r *enrollmentRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&enrollments).Error
	return enrollments, err
}
