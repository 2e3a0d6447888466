package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"classhub/internal/adapters/persistence/models"
	"classhub/internal/core/domain"
)

func TestCreateActiveGuard(t *testing.T) {
	store := NewStore()
	repo := store.Submissions()
	ctx := context.Background()
	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	first := &models.Submission{HomeworkID: 1, StudentID: 2, Status: string(domain.StatusSubmitted), SubmittedAt: base}
	if err := repo.CreateActive(ctx, first); err != nil {
		t.Fatalf("CreateActive: %v", err)
	}

	// Second active submission for the same pair is rejected
	dup := &models.Submission{HomeworkID: 1, StudentID: 2, Status: string(domain.StatusSubmitted), SubmittedAt: base.Add(time.Minute)}
	if err := repo.CreateActive(ctx, dup); !errors.Is(err, domain.ErrDuplicateActiveSubmission) {
		t.Errorf("err = %v, want ErrDuplicateActiveSubmission", err)
	}

	// A different student is unaffected
	other := &models.Submission{HomeworkID: 1, StudentID: 3, Status: string(domain.StatusSubmitted), SubmittedAt: base}
	if err := repo.CreateActive(ctx, other); err != nil {
		t.Errorf("other student blocked: %v", err)
	}
}

func TestCreateActiveRequiresIncreasingTimestamps(t *testing.T) {
	store := NewStore()
	repo := store.Submissions()
	ctx := context.Background()
	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	first := &models.Submission{HomeworkID: 1, StudentID: 2, Status: string(domain.StatusGraded), SubmittedAt: base}
	if err := repo.CreateActive(ctx, first); err != nil {
		t.Fatalf("CreateActive: %v", err)
	}

	// Resubmission at or before the prior timestamp is invalid
	stale := &models.Submission{HomeworkID: 1, StudentID: 2, Status: string(domain.StatusSubmitted), SubmittedAt: base}
	if err := repo.CreateActive(ctx, stale); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}

	fresh := &models.Submission{HomeworkID: 1, StudentID: 2, Status: string(domain.StatusSubmitted), SubmittedAt: base.Add(time.Minute)}
	if err := repo.CreateActive(ctx, fresh); err != nil {
		t.Errorf("later resubmission rejected: %v", err)
	}
}

func TestGradeLedgerOrdering(t *testing.T) {
	store := NewStore()
	repo := store.Grades()
	ctx := context.Background()
	base := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	for i, raw := range []float64{60, 75, 90} {
		entry := &models.GradeEntry{SubmissionID: 5, Kind: "GRADE", RawScore: raw, GradedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := repo.Append(ctx, entry); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	current, err := repo.Current(ctx, 5)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if current.RawScore != 90 {
		t.Errorf("current raw = %v, want latest", current.RawScore)
	}

	history, err := repo.History(ctx, 5)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history = %d entries", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].GradedAt.Before(history[i-1].GradedAt) {
			t.Error("history not in chronological order")
		}
	}
}

func TestEnrollmentUpsertReplaces(t *testing.T) {
	store := NewStore()
	repo := store.Enrollments()
	ctx := context.Background()

	if err := repo.Upsert(ctx, &models.Enrollment{CourseID: 1, UserID: 2, Role: "TA"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(ctx, &models.Enrollment{CourseID: 1, UserID: 2, Role: "INSTRUCTOR"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.Get(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Role != "INSTRUCTOR" {
		t.Errorf("role = %s, want INSTRUCTOR", got.Role)
	}

	all, err := repo.ListByCourse(ctx, 1)
	if err != nil {
		t.Fatalf("ListByCourse: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("enrollments = %d, want 1", len(all))
	}
}
