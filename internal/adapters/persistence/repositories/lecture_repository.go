package repositories

import (
	"context"

	"gorm.io/gorm"

	"classhub/internal/adapters/persistence/models"
)

// lectureRepository implements LectureRepository interface
type lectureRepository struct {
	db *gorm.DB
}

// NewLectureRepository creates a new lecture repository
func NewLectureRepository(db *gorm.DB) LectureRepository {
	return &lectureRepository{db: db}
}

// Create creates a new lecture
func (r *lectureRepository) Create(ctx context.Context, lecture *models.Lecture) error {
	return r.db.WithContext(ctx).Create(lecture).Error
}

// GetByID gets a lecture by ID
func (r *lectureRepository) GetByID(ctx context.Context, id uint) (*models.Lecture, error) {
	var lecture models.Lecture
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&lecture).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &lecture, nil
}

// Update updates a lecture
func (r *lectureRepository) Update(ctx context.Context, lecture *models.Lecture) error {
	return r.db.WithContext(ctx).Save(lecture).Error
}

// Delete soft deletes a lecture
func (r *lectureRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Lecture{}, id).Error
}

// ListByCourse lists lectures of a course in display order
func (r *lectureRepository) ListByCourse(ctx context.Context, courseID uint, publishedOnly bool) ([]*models.Lecture, error) {
	var lectures []*models.Lecture
	q := r.db.WithContext(ctx).Where("course_id = ?", courseID)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	err := q.Order("order_index ASC, created_at ASC").Find(&lectures).Error
	return lectures, err
}
