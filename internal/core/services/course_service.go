package services

import (
	"context"
	"errors"
	"log"

	"classhub/internal/adapters/persistence/models"
	"classhub/internal/adapters/persistence/repositories"
	"classhub/internal/core/domain"
)

// CourseService handles courses and the enrollment registry
type CourseService struct {
	courseRepo     repositories.CourseRepository
	enrollmentRepo repositories.EnrollmentRepository
	userRepo       repositories.UserRepository
	authz          *Authorizer
}

// NewCourseService creates a new course service
func NewCourseService(
	courseRepo repositories.CourseRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	userRepo repositories.UserRepository,
	authz *Authorizer,
) *CourseService {
	return &CourseService{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		userRepo:       userRepo,
		authz:          authz,
	}
}

// CreateCourseInput represents course creation input
type CreateCourseInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
}

// UpdateCourseInput represents course update input
type UpdateCourseInput struct {
	Title       string `json:"title" validate:"omitempty,max=200"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// EnrollInput represents enrollment input
type EnrollInput struct {
	UserID uint   `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=STUDENT INSTRUCTOR TA"`
}

// CreateCourse creates a course owned by the calling teacher. The owner
// is enrolled as instructor so every later staff check goes through the
// same registry.
func (s *CourseService) CreateCourse(ctx context.Context, p domain.Principal, input *CreateCourseInput) (*models.Course, error) {
	if !s.authz.Can(ctx, p, domain.ActionCreateCourse, domain.Resource{}) {
		return nil, domain.ErrForbidden
	}

	course := &models.Course{
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     p.UserID,
		IsActive:    true,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		CourseID: course.ID,
		UserID:   p.UserID,
		Role:     string(domain.EnrollInstructor),
	}
	if err := s.enrollmentRepo.Upsert(ctx, enrollment); err != nil {
		return nil, err
	}

	log.Printf("✅ Course created: %q (ID: %d) by user %d", course.Title, course.ID, p.UserID)
	return course, nil
}

// GetCourse returns a course visible to the principal
func (s *CourseService) GetCourse(ctx context.Context, p domain.Principal, courseID uint) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID, Published: true}
	if !s.authz.Can(ctx, p, domain.ActionViewLecture, res) {
		return nil, domain.ErrForbidden
	}
	return course, nil
}

// UpdateCourse updates course metadata (course staff only)
func (s *CourseService) UpdateCourse(ctx context.Context, p domain.Principal, courseID uint, input *UpdateCourseInput) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID}
	if !s.authz.Can(ctx, p, domain.ActionManageCourse, res) {
		return nil, domain.ErrForbidden
	}

	if input.Title != "" {
		course.Title = input.Title
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.IsActive != nil {
		course.IsActive = *input.IsActive
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse removes a course (owner only, via ManageCourse on the
// owner check)
func (s *CourseService) DeleteCourse(ctx context.Context, p domain.Principal, courseID uint) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	if course.OwnerID != p.UserID {
		return domain.ErrForbidden
	}
	return s.courseRepo.Delete(ctx, courseID)
}

// ListCourses lists the courses visible to the principal: every course
// the user is enrolled in, plus owned courses for teachers.
func (s *CourseService) ListCourses(ctx context.Context, p domain.Principal, offset, limit int) ([]*models.Course, int64, error) {
	enrollments, err := s.enrollmentRepo.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.CourseID)
	}

	if p.Role == domain.RoleTeacher {
		owned, _, err := s.courseRepo.ListByOwner(ctx, p.UserID, 0, 0)
		if err != nil {
			return nil, 0, err
		}
		seen := make(map[uint]bool, len(ids))
		for _, id := range ids {
			seen[id] = true
		}
		for _, c := range owned {
			if !seen[c.ID] {
				ids = append(ids, c.ID)
			}
		}
	}

	return s.courseRepo.ListByIDs(ctx, ids, offset, limit)
}

// Enroll adds or replaces an enrollment on a course. Role constraints
// follow account roles: students hold student enrollments, teachers hold
// instructor/TA enrollments.
func (s *CourseService) Enroll(ctx context.Context, p domain.Principal, courseID uint, input *EnrollInput) (*models.Enrollment, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID}
	if !s.authz.Can(ctx, p, domain.ActionManageCourse, res) {
		return nil, domain.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	role := domain.EnrollmentRole(input.Role)
	if role == domain.EnrollStudent && user.Role != string(domain.RoleStudent) {
		return nil, domain.ErrInvalidInput
	}
	if role.IsStaff() && user.Role != string(domain.RoleTeacher) {
		return nil, domain.ErrInvalidInput
	}

	enrollment := &models.Enrollment{
		CourseID: courseID,
		UserID:   input.UserID,
		Role:     input.Role,
	}
	if err := s.enrollmentRepo.Upsert(ctx, enrollment); err != nil {
		return nil, err
	}

	log.Printf("✅ User %d enrolled in course %d as %s", input.UserID, courseID, input.Role)
	return enrollment, nil
}

// Unenroll removes an enrollment
func (s *CourseService) Unenroll(ctx context.Context, p domain.Principal, courseID, userID uint) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID}
	if !s.authz.Can(ctx, p, domain.ActionManageCourse, res) {
		return domain.ErrForbidden
	}

	return s.enrollmentRepo.Delete(ctx, courseID, userID)
}

// ListEnrollments lists enrollments of a course (course staff only)
func (s *CourseService) ListEnrollments(ctx context.Context, p domain.Principal, courseID uint) ([]*models.Enrollment, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID}
	if !s.authz.Can(ctx, p, domain.ActionManageCourse, res) {
		return nil, domain.ErrForbidden
	}

	return s.enrollmentRepo.ListByCourse(ctx, courseID)
}

// RoleOf returns the principal's enrollment role on a course, if any
func (s *CourseService) RoleOf(ctx context.Context, courseID, userID uint) (domain.EnrollmentRole, bool) {
	enrollment, err := s.enrollmentRepo.Get(ctx, courseID, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Printf("⚠️ enrollment lookup failed: %v", err)
		}
		return "", false
	}
	return domain.EnrollmentRole(enrollment.Role), true
}
