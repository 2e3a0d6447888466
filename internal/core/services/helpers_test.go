package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"classhub/internal/adapters/persistence/memory"
	"classhub/internal/adapters/persistence/models"
	"classhub/internal/config"
	"classhub/internal/core/domain"
)

// fakeClock is an adjustable clock for deadline tests
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeBlobStore keeps blobs in a map; Put can be forced to fail
type fakeBlobStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	failPut bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (f *fakeBlobStore) Put(_ context.Context, key string, r io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut {
		return "", errors.New("blob store down")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.blobs[key] = data
	return key, nil
}

func (f *fakeBlobStore) Get(_ context.Context, ref string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[ref]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobStore) Delete(_ context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, ref)
	return nil
}

func (f *fakeBlobStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.blobs)
}

// captureNotifier records delivered events
type captureNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *captureNotifier) Notify(_ uint, event, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *captureNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

// flakyGradeRepo wraps the store's grade repo, failing the first n appends
type flakyGradeRepo struct {
	inner    *memory.GradeRepo
	mu       sync.Mutex
	failures int
}

func (r *flakyGradeRepo) Append(ctx context.Context, entry *models.GradeEntry) error {
	r.mu.Lock()
	if r.failures > 0 {
		r.failures--
		r.mu.Unlock()
		return errors.New("transient storage error")
	}
	r.mu.Unlock()
	return r.inner.Append(ctx, entry)
}

func (r *flakyGradeRepo) Current(ctx context.Context, submissionID uint) (*models.GradeEntry, error) {
	return r.inner.Current(ctx, submissionID)
}

func (r *flakyGradeRepo) History(ctx context.Context, submissionID uint) ([]*models.GradeEntry, error) {
	return r.inner.History(ctx, submissionID)
}

// testEnv is a full in-memory classroom fixture: one course owned by a
// teacher, with one enrolled student.
type testEnv struct {
	store    *memory.Store
	authz    *Authorizer
	blobs    *fakeBlobStore
	notifier *captureNotifier
	clock    *fakeClock

	teacher *models.User
	student *models.User
	course  *models.Course
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	env := &testEnv{
		store:    store,
		authz:    NewAuthorizer(store.Enrollments()),
		blobs:    newFakeBlobStore(),
		notifier: &captureNotifier{},
		clock:    newFakeClock(time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)),
	}

	ctx := context.Background()
	env.teacher = env.addUser(ctx, "teacher@example.edu", domain.RoleTeacher)
	env.student = env.addUser(ctx, "student@example.edu", domain.RoleStudent)

	env.course = &models.Course{Title: "Algorithms", OwnerID: env.teacher.ID, IsActive: true}
	if err := store.Courses().Create(ctx, env.course); err != nil {
		panic(err)
	}
	env.enroll(ctx, env.teacher.ID, domain.EnrollInstructor)
	env.enroll(ctx, env.student.ID, domain.EnrollStudent)
	return env
}

func (e *testEnv) addUser(ctx context.Context, email string, role domain.Role) *models.User {
	user := &models.User{Email: email, Password: "hashed", Role: string(role), IsActive: true}
	if err := e.store.Users().Create(ctx, user); err != nil {
		panic(err)
	}
	return user
}

func (e *testEnv) enroll(ctx context.Context, userID uint, role domain.EnrollmentRole) {
	err := e.store.Enrollments().Upsert(ctx, &models.Enrollment{
		CourseID: e.course.ID,
		UserID:   userID,
		Role:     string(role),
	})
	if err != nil {
		panic(err)
	}
}

func (e *testEnv) principal(u *models.User) domain.Principal {
	return domain.Principal{UserID: u.ID, Role: domain.Role(u.Role)}
}

func (e *testEnv) homeworkService() *HomeworkService {
	return NewHomeworkService(e.store.Homework(), e.store.Submissions(), e.store.Courses(), e.blobs, e.notifier, e.authz, e.clock.Now)
}

func (e *testEnv) gradingService() *GradingService {
	return NewGradingService(e.store.Grades(), e.store.Submissions(), e.store.Homework(), e.store.Courses(), e.notifier, e.authz, e.clock.Now)
}

func (e *testEnv) courseService() *CourseService {
	return NewCourseService(e.store.Courses(), e.store.Enrollments(), e.store.Users(), e.authz)
}

func (e *testEnv) lectureService() *LectureService {
	return NewLectureService(e.store.Lectures(), e.store.Courses(), e.blobs, e.authz)
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
}
