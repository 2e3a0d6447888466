package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"classhub/internal/adapters/persistence/models"
	"classhub/internal/core/domain"
)

func createLecture(t *testing.T, env *testEnv, svc *LectureService) *models.Lecture {
	t.Helper()
	lecture, err := svc.CreateLecture(context.Background(), env.principal(env.teacher), &CreateLectureInput{
		CourseID: env.course.ID,
		Topic:    "Hash tables",
	})
	if err != nil {
		t.Fatalf("CreateLecture: %v", err)
	}
	return lecture
}

func TestLectureVisibility(t *testing.T) {
	env := newTestEnv()
	svc := env.lectureService()
	ctx := context.Background()
	lecture := createLecture(t, env, svc)

	// Unpublished: staff only
	if _, err := svc.GetLecture(ctx, env.principal(env.teacher), lecture.ID); err != nil {
		t.Errorf("staff view: %v", err)
	}
	if _, err := svc.GetLecture(ctx, env.principal(env.student), lecture.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("student view of unpublished err = %v", err)
	}

	// Publish, then the enrolled student sees it
	published := true
	if _, err := svc.UpdateLecture(ctx, env.principal(env.teacher), lecture.ID, &UpdateLectureInput{IsPublished: &published}); err != nil {
		t.Fatalf("UpdateLecture: %v", err)
	}
	if _, err := svc.GetLecture(ctx, env.principal(env.student), lecture.ID); err != nil {
		t.Errorf("student view of published: %v", err)
	}
}

func TestListLecturesFiltersUnpublished(t *testing.T) {
	env := newTestEnv()
	svc := env.lectureService()
	ctx := context.Background()

	createLecture(t, env, svc)
	visible := createLecture(t, env, svc)
	published := true
	if _, err := svc.UpdateLecture(ctx, env.principal(env.teacher), visible.ID, &UpdateLectureInput{IsPublished: &published}); err != nil {
		t.Fatalf("UpdateLecture: %v", err)
	}

	staffList, err := svc.ListLectures(ctx, env.principal(env.teacher), env.course.ID)
	if err != nil {
		t.Fatalf("staff ListLectures: %v", err)
	}
	if len(staffList) != 2 {
		t.Errorf("staff sees %d lectures, want 2", len(staffList))
	}

	studentList, err := svc.ListLectures(ctx, env.principal(env.student), env.course.ID)
	if err != nil {
		t.Fatalf("student ListLectures: %v", err)
	}
	if len(studentList) != 1 {
		t.Errorf("student sees %d lectures, want 1", len(studentList))
	}
}

func TestUploadPresentationSwapsBlob(t *testing.T) {
	env := newTestEnv()
	svc := env.lectureService()
	ctx := context.Background()
	teacher := env.principal(env.teacher)
	lecture := createLecture(t, env, svc)

	first, err := svc.UploadPresentation(ctx, teacher, lecture.ID, "v1.pdf", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("UploadPresentation: %v", err)
	}
	if first.PresentationRef == "" {
		t.Fatal("no presentation ref stored")
	}

	second, err := svc.UploadPresentation(ctx, teacher, lecture.ID, "v2.pdf", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("second UploadPresentation: %v", err)
	}
	if second.PresentationRef == first.PresentationRef {
		t.Error("ref not replaced")
	}

	// The old blob is gone, only the replacement remains
	if env.blobs.Len() != 1 {
		t.Errorf("blobs = %d, want 1", env.blobs.Len())
	}

	// Students cannot download while unpublished
	if _, err := svc.DownloadPresentation(ctx, env.principal(env.student), lecture.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("student download err = %v", err)
	}
}

func TestDeleteLectureRemovesBlob(t *testing.T) {
	env := newTestEnv()
	svc := env.lectureService()
	ctx := context.Background()
	teacher := env.principal(env.teacher)
	lecture := createLecture(t, env, svc)

	if _, err := svc.UploadPresentation(ctx, teacher, lecture.ID, "deck.pdf", strings.NewReader("bytes")); err != nil {
		t.Fatalf("UploadPresentation: %v", err)
	}

	if err := svc.DeleteLecture(ctx, teacher, lecture.ID); err != nil {
		t.Fatalf("DeleteLecture: %v", err)
	}
	if env.blobs.Len() != 0 {
		t.Errorf("blobs = %d, want 0", env.blobs.Len())
	}
}
