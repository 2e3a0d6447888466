package repositories

import (
	"context"

	"gorm.io/gorm"

	"classhub/internal/adapters/persistence/models"
)

// courseRepository implements CourseRepository interface
type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// Create creates a new course
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

// GetByID gets a course by ID
func (r *courseRepository) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&course).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &course, nil
}

// Update updates a course
func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

// Delete soft deletes a course
func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Course{}, id).Error
}

// ListByOwner lists courses owned by a teacher with pagination
func (r *courseRepository) ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]*models.Course, int64, error) {
	var courses []*models.Course
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Course{}).Where("owner_id = ?", ownerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(q, offset, limit).Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// ListByIDs lists courses by id set with pagination
func (r *courseRepository) ListByIDs(ctx context.Context, ids []uint, offset, limit int) ([]*models.Course, int64, error) {
	var courses []*models.Course
	var total int64

	if len(ids) == 0 {
		return courses, 0, nil
	}

	q := r.db.WithContext(ctx).Model(&models.Course{}).Where("id IN ?", ids)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(q, offset, limit).Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// paginate applies offset/limit; limit <= 0 means unbounded
func paginate(q *gorm.DB, offset, limit int) *gorm.DB {
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	return q
}
