package repositories

import (
	"context"

	"gorm.io/gorm"

	"classhub/internal/adapters/persistence/models"
)

// homeworkRepository implements HomeworkRepository interface
type homeworkRepository struct {
	db *gorm.DB
}

// NewHomeworkRepository creates a new homework repository
func NewHomeworkRepository(db *gorm.DB) HomeworkRepository {
	return &homeworkRepository{db: db}
}

// Create creates a new homework
func (r *homeworkRepository) Create(ctx context.Context, homework *models.Homework) error {
	return r.db.WithContext(ctx).Create(homework).Error
}

// GetByID gets a homework by ID
func (r *homeworkRepository) GetByID(ctx context.Context, id uint) (*models.Homework, error) {
	var homework models.Homework
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&homework).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &homework, nil
}

// Update updates a homework
func (r *homeworkRepository) Update(ctx context.Context, homework *models.Homework) error {
	return r.db.WithContext(ctx).Save(homework).Error
}

// Delete soft deletes a homework
func (r *homeworkRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Homework{}, id).Error
}

// ListByCourse lists homework assignments of a course
func (r *homeworkRepository) ListByCourse(ctx context.Context, courseID uint) ([]*models.Homework, error) {
	var homework []*models.Homework
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("due_at ASC").
		Find(&homework).Error
	return homework, err
}
