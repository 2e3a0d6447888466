package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"classhub/internal/adapters/persistence/models"
	"classhub/internal/core/domain"
)

// gradedFixture submits one homework for the fixture student and leaves
// the clock just past the submission time
func gradedFixture(t *testing.T, env *testEnv, submitAt time.Time) (*HomeworkService, *GradingService, *models.Homework, *models.Submission) {
	t.Helper()
	hwSvc := env.homeworkService()
	gradeSvc := env.gradingService()
	homework := createHomework(t, env, hwSvc, nil)

	env.clock.Set(submitAt)
	submission, err := hwSvc.Submit(context.Background(), env.principal(env.student), &SubmitInput{
		HomeworkID: homework.ID,
		Content:    "answer",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	env.clock.Advance(time.Hour)
	return hwSvc, gradeSvc, homework, submission
}

func TestGradeAppliesLatePolicy(t *testing.T) {
	env := newTestEnv()
	// 1.5 days past due floors to 1 chargeable day
	_, gradeSvc, _, submission := gradedFixture(t, env, time.Date(2024, 1, 12, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	entry, err := gradeSvc.Grade(ctx, env.principal(env.teacher), &GradeInput{
		SubmissionID: submission.ID,
		RawScore:     90,
		Comment:      "solid work",
	})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}

	if entry.Kind != string(domain.GradeKindGrade) {
		t.Errorf("Kind = %s", entry.Kind)
	}
	if entry.LateDays != 1 {
		t.Errorf("LateDays = %d, want 1", entry.LateDays)
	}
	if entry.AdjustedScore != 81 {
		t.Errorf("AdjustedScore = %v, want 81", entry.AdjustedScore)
	}
	if entry.RawScore != 90 {
		t.Errorf("RawScore = %v, want 90", entry.RawScore)
	}

	// Submission leaves the active state
	stored, err := env.store.Submissions().GetByID(ctx, submission.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != string(domain.StatusGraded) {
		t.Errorf("status = %s, want GRADED", stored.Status)
	}

	events := env.notifier.Events()
	if len(events) == 0 || events[len(events)-1] != "grade_posted" {
		t.Errorf("events = %v", events)
	}
}

func TestGradeOnTimeUnchanged(t *testing.T) {
	env := newTestEnv()
	_, gradeSvc, _, submission := gradedFixture(t, env, hwDue.Add(-time.Hour))

	entry, err := gradeSvc.Grade(context.Background(), env.principal(env.teacher), &GradeInput{
		SubmissionID: submission.ID,
		RawScore:     88,
	})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if entry.LateDays != 0 || entry.AdjustedScore != 88 {
		t.Errorf("entry = %+v", entry)
	}
}

func TestGradeValidatesScoreBounds(t *testing.T) {
	env := newTestEnv()
	_, gradeSvc, _, submission := gradedFixture(t, env, hwDue.Add(-time.Hour))
	ctx := context.Background()
	teacher := env.principal(env.teacher)

	for _, raw := range []float64{-1, 101} {
		_, err := gradeSvc.Grade(ctx, teacher, &GradeInput{SubmissionID: submission.ID, RawScore: raw})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("raw %v err = %v, want ErrInvalidInput", raw, err)
		}
	}
}

func TestGradeForbiddenForStudent(t *testing.T) {
	env := newTestEnv()
	_, gradeSvc, _, submission := gradedFixture(t, env, hwDue.Add(-time.Hour))

	_, err := gradeSvc.Grade(context.Background(), env.principal(env.student), &GradeInput{
		SubmissionID: submission.ID,
		RawScore:     100,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestRegradeAppendsToLedger(t *testing.T) {
	env := newTestEnv()
	_, gradeSvc, _, submission := gradedFixture(t, env, hwDue.Add(-time.Hour))
	ctx := context.Background()
	teacher := env.principal(env.teacher)

	if _, err := gradeSvc.Grade(ctx, teacher, &GradeInput{SubmissionID: submission.ID, RawScore: 70}); err != nil {
		t.Fatalf("Grade: %v", err)
	}
	env.clock.Advance(time.Hour)
	if _, err := gradeSvc.Grade(ctx, teacher, &GradeInput{SubmissionID: submission.ID, RawScore: 85}); err != nil {
		t.Fatalf("regrade: %v", err)
	}

	history, err := gradeSvc.History(ctx, teacher, submission.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history = %d entries, want 2", len(history))
	}
	if history[0].RawScore != 70 || history[1].RawScore != 85 {
		t.Errorf("history order wrong: %v then %v", history[0].RawScore, history[1].RawScore)
	}

	current, err := gradeSvc.Current(ctx, teacher, submission.ID)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if current.RawScore != 85 {
		t.Errorf("current raw = %v, want the latest entry", current.RawScore)
	}
	if current.LetterGrade != "B" {
		t.Errorf("letter = %s, want B", current.LetterGrade)
	}
}

func TestRecomputeAfterPolicyChange(t *testing.T) {
	env := newTestEnv()
	// One late day charged
	hwSvc, gradeSvc, homework, submission := gradedFixture(t, env, hwDue.Add(26*time.Hour))
	ctx := context.Background()
	teacher := env.principal(env.teacher)

	if _, err := gradeSvc.Grade(ctx, teacher, &GradeInput{SubmissionID: submission.ID, RawScore: 90}); err != nil {
		t.Fatalf("Grade: %v", err)
	}

	// Retroactive policy edit: 10%/day becomes 20%/day
	decay := 0.20
	if _, err := hwSvc.UpdateHomework(ctx, teacher, homework.ID, &UpdateHomeworkInput{DecayPerDay: &decay}); err != nil {
		t.Fatalf("UpdateHomework: %v", err)
	}

	env.clock.Advance(time.Hour)
	entry, err := gradeSvc.Recompute(ctx, teacher, submission.ID)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	if entry.Kind != string(domain.GradeKindRecompute) {
		t.Errorf("Kind = %s, want RECOMPUTE", entry.Kind)
	}
	if entry.RawScore != 90 {
		t.Errorf("recompute changed the raw score: %v", entry.RawScore)
	}
	if entry.AdjustedScore != 72 {
		t.Errorf("AdjustedScore = %v, want 72", entry.AdjustedScore)
	}

	// Both the grade and the recompute survive in the ledger
	history, err := gradeSvc.History(ctx, teacher, submission.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("history = %d entries, want 2", len(history))
	}
}

func TestRecomputeHomeworkBatch(t *testing.T) {
	env := newTestEnv()
	hwSvc := env.homeworkService()
	gradeSvc := env.gradingService()
	homework := createHomework(t, env, hwSvc, nil)
	ctx := context.Background()
	teacher := env.principal(env.teacher)

	// Two graded late submissions plus one ungraded
	var graded []*models.Submission
	for i, email := range []string{"s1@example.edu", "s2@example.edu", "s3@example.edu"} {
		student := env.addUser(ctx, email, domain.RoleStudent)
		env.enroll(ctx, student.ID, domain.EnrollStudent)

		env.clock.Set(hwDue.Add(25 * time.Hour))
		sub, err := hwSvc.Submit(ctx, env.principal(student), &SubmitInput{HomeworkID: homework.ID, Content: "late"})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		env.clock.Advance(time.Hour)
		if i < 2 {
			if _, err := gradeSvc.Grade(ctx, teacher, &GradeInput{SubmissionID: sub.ID, RawScore: 80}); err != nil {
				t.Fatalf("Grade: %v", err)
			}
			graded = append(graded, sub)
		}
	}

	decay := 0.50
	if _, err := hwSvc.UpdateHomework(ctx, teacher, homework.ID, &UpdateHomeworkInput{DecayPerDay: &decay}); err != nil {
		t.Fatalf("UpdateHomework: %v", err)
	}

	count, err := gradeSvc.RecomputeHomework(ctx, teacher, homework.ID)
	if err != nil {
		t.Fatalf("RecomputeHomework: %v", err)
	}
	if count != 2 {
		t.Errorf("recomputed = %d, want 2 (ungraded submissions skipped)", count)
	}

	for _, sub := range graded {
		current, err := gradeSvc.Current(ctx, teacher, sub.ID)
		if err != nil {
			t.Fatalf("Current: %v", err)
		}
		if current.AdjustedScore != 40 {
			t.Errorf("adjusted = %v, want 40 after 50%%/day decay", current.AdjustedScore)
		}
	}
}

func TestRecomputeHomeworkCancelable(t *testing.T) {
	env := newTestEnv()
	hwSvc := env.homeworkService()
	gradeSvc := env.gradingService()
	homework := createHomework(t, env, hwSvc, nil)
	ctx := context.Background()
	teacher := env.principal(env.teacher)

	env.clock.Set(hwDue.Add(-time.Hour))
	sub, err := hwSvc.Submit(ctx, env.principal(env.student), &SubmitInput{HomeworkID: homework.ID, Content: "x"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	env.clock.Advance(time.Hour)
	if _, err := gradeSvc.Grade(ctx, teacher, &GradeInput{SubmissionID: sub.ID, RawScore: 50}); err != nil {
		t.Fatalf("Grade: %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	count, err := gradeSvc.RecomputeHomework(canceled, teacher, homework.ID)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestGradeRetriesTransientAppendFailure(t *testing.T) {
	env := newTestEnv()
	hwSvc := env.homeworkService()
	homework := createHomework(t, env, hwSvc, nil)
	ctx := context.Background()

	env.clock.Set(hwDue.Add(-time.Hour))
	sub, err := hwSvc.Submit(ctx, env.principal(env.student), &SubmitInput{HomeworkID: homework.ID, Content: "x"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	flaky := &flakyGradeRepo{inner: env.store.Grades(), failures: 2}
	gradeSvc := NewGradingService(flaky, env.store.Submissions(), env.store.Homework(), env.store.Courses(), env.notifier, env.authz, env.clock.Now)

	entry, err := gradeSvc.Grade(ctx, env.principal(env.teacher), &GradeInput{SubmissionID: sub.ID, RawScore: 95})
	if err != nil {
		t.Fatalf("Grade after transient failures: %v", err)
	}
	if entry.AdjustedScore != 95 {
		t.Errorf("adjusted = %v", entry.AdjustedScore)
	}
}

func TestGradeExhaustedRetriesSurfaceUnavailable(t *testing.T) {
	env := newTestEnv()
	hwSvc := env.homeworkService()
	homework := createHomework(t, env, hwSvc, nil)
	ctx := context.Background()

	env.clock.Set(hwDue.Add(-time.Hour))
	sub, err := hwSvc.Submit(ctx, env.principal(env.student), &SubmitInput{HomeworkID: homework.ID, Content: "x"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	flaky := &flakyGradeRepo{inner: env.store.Grades(), failures: 100}
	gradeSvc := NewGradingService(flaky, env.store.Submissions(), env.store.Homework(), env.store.Courses(), env.notifier, env.authz, env.clock.Now)

	_, err = gradeSvc.Grade(ctx, env.principal(env.teacher), &GradeInput{SubmissionID: sub.ID, RawScore: 95})
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Errorf("err = %v, want ErrServiceUnavailable", err)
	}

	// The submission stays active; grading can be retried later
	stored, err := env.store.Submissions().GetByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !stored.IsActive() {
		t.Error("submission marked graded despite ledger failure")
	}
}

func TestStudentViewsOwnGradeOnly(t *testing.T) {
	env := newTestEnv()
	_, gradeSvc, _, submission := gradedFixture(t, env, hwDue.Add(-time.Hour))
	ctx := context.Background()

	if _, err := gradeSvc.Grade(ctx, env.principal(env.teacher), &GradeInput{SubmissionID: submission.ID, RawScore: 77}); err != nil {
		t.Fatalf("Grade: %v", err)
	}

	// Owner sees it
	current, err := gradeSvc.Current(ctx, env.principal(env.student), submission.ID)
	if err != nil {
		t.Fatalf("owner Current: %v", err)
	}
	if current.LetterGrade != "C" {
		t.Errorf("letter = %s, want C", current.LetterGrade)
	}

	// A classmate does not
	classmate := env.addUser(ctx, "mallory@example.edu", domain.RoleStudent)
	env.enroll(ctx, classmate.ID, domain.EnrollStudent)

	if _, err := gradeSvc.Current(ctx, env.principal(classmate), submission.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("classmate Current err = %v", err)
	}
	if _, err := gradeSvc.History(ctx, env.principal(classmate), submission.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("classmate History err = %v", err)
	}
}
