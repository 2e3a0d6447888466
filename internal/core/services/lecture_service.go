package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/google/uuid"

	"classhub/internal/adapters/persistence/models"
	"classhub/internal/adapters/persistence/repositories"
	"classhub/internal/core/domain"
)

// LectureService handles lectures and their presentation blobs
type LectureService struct {
	lectureRepo repositories.LectureRepository
	courseRepo  repositories.CourseRepository
	blobs       BlobStore
	authz       *Authorizer
}

// NewLectureService creates a new lecture service
func NewLectureService(
	lectureRepo repositories.LectureRepository,
	courseRepo repositories.CourseRepository,
	blobs BlobStore,
	authz *Authorizer,
) *LectureService {
	return &LectureService{
		lectureRepo: lectureRepo,
		courseRepo:  courseRepo,
		blobs:       blobs,
		authz:       authz,
	}
}

// CreateLectureInput represents lecture creation input
type CreateLectureInput struct {
	CourseID    uint   `json:"course_id" validate:"required"`
	Topic       string `json:"topic" validate:"required,max=200"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}

// UpdateLectureInput represents lecture update input
type UpdateLectureInput struct {
	Topic       string `json:"topic" validate:"omitempty,max=200"`
	Description string `json:"description"`
	OrderIndex  *int   `json:"order_index"`
	IsPublished *bool  `json:"is_published"`
}

// CreateLecture creates a lecture on a course (course staff only)
func (s *LectureService) CreateLecture(ctx context.Context, p domain.Principal, input *CreateLectureInput) (*models.Lecture, error) {
	course, err := s.courseRepo.GetByID(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID}
	if !s.authz.Can(ctx, p, domain.ActionCreateLecture, res) {
		return nil, domain.ErrForbidden
	}

	lecture := &models.Lecture{
		CourseID:    input.CourseID,
		Topic:       input.Topic,
		Description: input.Description,
		OrderIndex:  input.OrderIndex,
	}
	if err := s.lectureRepo.Create(ctx, lecture); err != nil {
		return nil, err
	}

	log.Printf("✅ Lecture created: %q (course %d)", lecture.Topic, lecture.CourseID)
	return lecture, nil
}

// GetLecture returns a lecture visible to the principal
func (s *LectureService) GetLecture(ctx context.Context, p domain.Principal, lectureID uint) (*models.Lecture, error) {
	lecture, course, err := s.lectureWithCourse(ctx, lectureID)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID, Published: lecture.IsPublished}
	if !s.authz.Can(ctx, p, domain.ActionViewLecture, res) {
		return nil, domain.ErrForbidden
	}
	return lecture, nil
}

// UpdateLecture updates lecture fields, including publication state
func (s *LectureService) UpdateLecture(ctx context.Context, p domain.Principal, lectureID uint, input *UpdateLectureInput) (*models.Lecture, error) {
	lecture, course, err := s.lectureWithCourse(ctx, lectureID)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID}
	if !s.authz.Can(ctx, p, domain.ActionCreateLecture, res) {
		return nil, domain.ErrForbidden
	}

	if input.Topic != "" {
		lecture.Topic = input.Topic
	}
	if input.Description != "" {
		lecture.Description = input.Description
	}
	if input.OrderIndex != nil {
		lecture.OrderIndex = *input.OrderIndex
	}
	if input.IsPublished != nil {
		lecture.IsPublished = *input.IsPublished
	}

	if err := s.lectureRepo.Update(ctx, lecture); err != nil {
		return nil, err
	}
	return lecture, nil
}

// DeleteLecture removes a lecture and its presentation blob
func (s *LectureService) DeleteLecture(ctx context.Context, p domain.Principal, lectureID uint) error {
	lecture, course, err := s.lectureWithCourse(ctx, lectureID)
	if err != nil {
		return err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID}
	if !s.authz.Can(ctx, p, domain.ActionCreateLecture, res) {
		return domain.ErrForbidden
	}

	if err := s.lectureRepo.Delete(ctx, lectureID); err != nil {
		return err
	}
	if lecture.PresentationRef != "" {
		if err := s.blobs.Delete(ctx, lecture.PresentationRef); err != nil {
			log.Printf("⚠️ Failed to delete presentation blob %s: %v", lecture.PresentationRef, err)
		}
	}
	return nil
}

// ListLectures lists a course's lectures. Staff see everything, students
// only published lectures.
func (s *LectureService) ListLectures(ctx context.Context, p domain.Principal, courseID uint) ([]*models.Lecture, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID}
	staff := s.authz.Can(ctx, p, domain.ActionCreateLecture, res)
	if !staff {
		res.Published = true
		if !s.authz.Can(ctx, p, domain.ActionViewLecture, res) {
			return nil, domain.ErrForbidden
		}
	}

	return s.lectureRepo.ListByCourse(ctx, courseID, !staff)
}

// UploadPresentation stores a presentation file in the blob store and
// binds its reference to the lecture. The previous blob, if any, is
// deleted best-effort after the reference swap.
func (s *LectureService) UploadPresentation(ctx context.Context, p domain.Principal, lectureID uint, filename string, content io.Reader) (*models.Lecture, error) {
	lecture, course, err := s.lectureWithCourse(ctx, lectureID)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID}
	if !s.authz.Can(ctx, p, domain.ActionCreateLecture, res) {
		return nil, domain.ErrForbidden
	}

	key := fmt.Sprintf("presentations/%s%s", uuid.New().String(), filepath.Ext(filename))
	ref, err := s.blobs.Put(ctx, key, content)
	if err != nil {
		return nil, err
	}

	oldRef := lecture.PresentationRef
	lecture.PresentationRef = ref
	if err := s.lectureRepo.Update(ctx, lecture); err != nil {
		return nil, err
	}

	if oldRef != "" {
		if err := s.blobs.Delete(ctx, oldRef); err != nil {
			log.Printf("⚠️ Failed to delete old presentation blob %s: %v", oldRef, err)
		}
	}
	return lecture, nil
}

// DownloadPresentation opens the lecture's presentation blob for a
// principal allowed to view the lecture
func (s *LectureService) DownloadPresentation(ctx context.Context, p domain.Principal, lectureID uint) (io.ReadCloser, error) {
	lecture, course, err := s.lectureWithCourse(ctx, lectureID)
	if err != nil {
		return nil, err
	}

	res := domain.Resource{CourseID: course.ID, CourseOwnerID: course.OwnerID, Published: lecture.IsPublished}
	if !s.authz.Can(ctx, p, domain.ActionViewLecture, res) {
		return nil, domain.ErrForbidden
	}

	if lecture.PresentationRef == "" {
		return nil, domain.ErrNotFound
	}
	return s.blobs.Get(ctx, lecture.PresentationRef)
}

func (s *LectureService) lectureWithCourse(ctx context.Context, lectureID uint) (*models.Lecture, *models.Course, error) {
	lecture, err := s.lectureRepo.GetByID(ctx, lectureID)
	if err != nil {
		return nil, nil, err
	}
	course, err := s.courseRepo.GetByID(ctx, lecture.CourseID)
	if err != nil {
		return nil, nil, err
	}
	return lecture, course, nil
}
