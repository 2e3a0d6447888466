package repositories

import (
	"context"

	"classhub/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// CourseRepository defines course repository interface
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error
	ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]*models.Course, int64, error)
	ListByIDs(ctx context.Context, ids []uint, offset, limit int) ([]*models.Course, int64, error)
}

// EnrollmentRepository defines the enrollment registry interface.
// Upsert replaces the role when the (course, user) pair already exists.
type EnrollmentRepository interface {
	Upsert(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, courseID, userID uint) error
	Get(ctx context.Context, courseID, userID uint) (*models.Enrollment, error)
	ListByCourse(ctx context.Context, courseID uint) ([]*models.Enrollment, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Enrollment, error)
}

// LectureRepository defines lecture repository interface
type LectureRepository interface {
	Create(ctx context.Context, lecture *models.Lecture) error
	GetByID(ctx context.Context, id uint) (*models.Lecture, error)
	Update(ctx context.Context, lecture *models.Lecture) error
	Delete(ctx context.Context, id uint) error
	ListByCourse(ctx context.Context, courseID uint, publishedOnly bool) ([]*models.Lecture, error)
}

// HomeworkRepository defines homework repository interface
type HomeworkRepository interface {
	Create(ctx context.Context, homework *models.Homework) error
	GetByID(ctx context.Context, id uint) (*models.Homework, error)
	Update(ctx context.Context, homework *models.Homework) error
	Delete(ctx context.Context, id uint) error
	ListByCourse(ctx context.Context, courseID uint) ([]*models.Homework, error)
}

// SubmissionRepository defines submission repository interface.
// CreateActive is the compare-and-set guard of the workflow: it commits the
// new row only if no active submission exists for (homework, student) at
// commit time, and fails with domain.ErrDuplicateActiveSubmission otherwise.
// Concurrent callers are serialized; exactly one wins.
type SubmissionRepository interface {
	CreateActive(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uint) (*models.Submission, error)
	GetLatest(ctx context.Context, homeworkID, studentID uint) (*models.Submission, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	ListByHomework(ctx context.Context, homeworkID uint) ([]*models.Submission, error)
	ListByStudent(ctx context.Context, homeworkID, studentID uint) ([]*models.Submission, error)
	CountByHomework(ctx context.Context, homeworkID uint) (int64, error)
}

// GradeRepository defines the append-only grading ledger interface.
// Append never mutates prior entries; Current returns the entry with the
// latest graded-at timestamp.
type GradeRepository interface {
	Append(ctx context.Context, entry *models.GradeEntry) error
	Current(ctx context.Context, submissionID uint) (*models.GradeEntry, error)
	History(ctx context.Context, submissionID uint) ([]*models.GradeEntry, error)
}
