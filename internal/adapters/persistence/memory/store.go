// Package memory provides in-memory implementations of the repository
// interfaces. They back the unit tests and carry the same guard semantics
// as the SQL repositories, with a store-wide mutex standing in for row
// locks.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"classhub/internal/adapters/persistence/models"
	"classhub/internal/core/domain"
)

// Store holds all entity maps behind one mutex
type Store struct {
	mu sync.Mutex

	nextID        uint
	users         map[uint]models.User
	refreshTokens map[uint]models.RefreshToken
	courses       map[uint]models.Course
	enrollments   map[uint]models.Enrollment
	lectures      map[uint]models.Lecture
	homework      map[uint]models.Homework
	submissions   map[uint]models.Submission
	grades        map[uint]models.GradeEntry
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		nextID:        1,
		users:         make(map[uint]models.User),
		refreshTokens: make(map[uint]models.RefreshToken),
		courses:       make(map[uint]models.Course),
		enrollments:   make(map[uint]models.Enrollment),
		lectures:      make(map[uint]models.Lecture),
		homework:      make(map[uint]models.Homework),
		submissions:   make(map[uint]models.Submission),
		grades:        make(map[uint]models.GradeEntry),
	}
}

func (s *Store) allocID() uint {
	id := s.nextID
	s.nextID++
	return id
}

// ---- UserRepository ----

// Users returns the store as a UserRepository
func (s *Store) Users() *UserRepo { return &UserRepo{s} }

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEntry
		}
	}
	user.ID = r.s.allocID()
	user.CreatedAt = time.Now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepo) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.users[user.ID] = *user
	return nil
}

// ---- RefreshTokenRepository ----

// RefreshTokens returns the store as a RefreshTokenRepository
func (s *Store) RefreshTokens() *RefreshTokenRepo { return &RefreshTokenRepo{s} }

type RefreshTokenRepo struct{ s *Store }

func (r *RefreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	token.ID = r.s.allocID()
	token.CreatedAt = time.Now()
	r.s.refreshTokens[token.ID] = *token
	return nil
}

func (r *RefreshTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.refreshTokens {
		if t.TokenHash == tokenHash {
			out := t
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *RefreshTokenRepo) Revoke(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.refreshTokens[id]
	if !ok {
		return domain.ErrNotFound
	}
	if t.RevokedAt == nil {
		now := time.Now()
		t.RevokedAt = &now
		r.s.refreshTokens[id] = t
	}
	return nil
}

func (r *RefreshTokenRepo) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.s.refreshTokens {
		if t.TokenHash == tokenHash && t.RevokedAt == nil {
			now := time.Now()
			t.RevokedAt = &now
			r.s.refreshTokens[id] = t
		}
	}
	return nil
}

func (r *RefreshTokenRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.s.refreshTokens {
		if t.UserID == userID && t.RevokedAt == nil {
			now := time.Now()
			t.RevokedAt = &now
			r.s.refreshTokens[id] = t
		}
	}
	return nil
}

func (r *RefreshTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var removed int64
	now := time.Now()
	for id, t := range r.s.refreshTokens {
		if now.After(t.ExpiresAt) {
			delete(r.s.refreshTokens, id)
			removed++
		}
	}
	return removed, nil
}

// ---- CourseRepository ----

// Courses returns the store as a CourseRepository
func (s *Store) Courses() *CourseRepo { return &CourseRepo{s} }

type CourseRepo struct{ s *Store }

func (r *CourseRepo) Create(_ context.Context, course *models.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	course.ID = r.s.allocID()
	course.CreatedAt = time.Now()
	r.s.courses[course.ID] = *course
	return nil
}

func (r *CourseRepo) GetByID(_ context.Context, id uint) (*models.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *CourseRepo) Update(_ context.Context, course *models.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.courses[course.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.courses[course.ID] = *course
	return nil
}

func (r *CourseRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.courses, id)
	return nil
}

func (r *CourseRepo) ListByOwner(_ context.Context, ownerID uint, offset, limit int) ([]*models.Course, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*models.Course
	for _, c := range r.s.courses {
		if c.OwnerID == ownerID {
			out := c
			all = append(all, &out)
		}
	}
	return pageCourses(all, offset, limit)
}

func (r *CourseRepo) ListByIDs(_ context.Context, ids []uint, offset, limit int) ([]*models.Course, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[uint]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var all []*models.Course
	for _, c := range r.s.courses {
		if want[c.ID] {
			out := c
			all = append(all, &out)
		}
	}
	return pageCourses(all, offset, limit)
}

func pageCourses(all []*models.Course, offset, limit int) ([]*models.Course, int64, error) {
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ---- EnrollmentRepository ----

// Enrollments returns the store as an EnrollmentRepository
func (s *Store) Enrollments() *EnrollmentRepo { return &EnrollmentRepo{s} }

type EnrollmentRepo struct{ s *Store }

func (r *EnrollmentRepo) Upsert(_ context.Context, enrollment *models.Enrollment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, e := range r.s.enrollments {
		if e.CourseID == enrollment.CourseID && e.UserID == enrollment.UserID {
			e.Role = enrollment.Role
			r.s.enrollments[id] = e
			enrollment.ID = e.ID
			return nil
		}
	}
	enrollment.ID = r.s.allocID()
	enrollment.CreatedAt = time.Now()
	r.s.enrollments[enrollment.ID] = *enrollment
	return nil
}

func (r *EnrollmentRepo) Delete(_ context.Context, courseID, userID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, e := range r.s.enrollments {
		if e.CourseID == courseID && e.UserID == userID {
			delete(r.s.enrollments, id)
		}
	}
	return nil
}

func (r *EnrollmentRepo) Get(_ context.Context, courseID, userID uint) (*models.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.enrollments {
		if e.CourseID == courseID && e.UserID == userID {
			out := e
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *EnrollmentRepo) ListByCourse(_ context.Context, courseID uint) ([]*models.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Enrollment
	for _, e := range r.s.enrollments {
		if e.CourseID == courseID {
			copy := e
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *EnrollmentRepo) ListByUser(_ context.Context, userID uint) ([]*models.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Enrollment
	for _, e := range r.s.enrollments {
		if e.UserID == userID {
			copy := e
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- LectureRepository ----

// Lectures returns the store as a LectureRepository
func (s *Store) Lectures() *LectureRepo { return &LectureRepo{s} }

type LectureRepo struct{ s *Store }

func (r *LectureRepo) Create(_ context.Context, lecture *models.Lecture) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	lecture.ID = r.s.allocID()
	lecture.CreatedAt = time.Now()
	r.s.lectures[lecture.ID] = *lecture
	return nil
}

func (r *LectureRepo) GetByID(_ context.Context, id uint) (*models.Lecture, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lectures[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &l, nil
}

func (r *LectureRepo) Update(_ context.Context, lecture *models.Lecture) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lectures[lecture.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.lectures[lecture.ID] = *lecture
	return nil
}

func (r *LectureRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.lectures, id)
	return nil
}

func (r *LectureRepo) ListByCourse(_ context.Context, courseID uint, publishedOnly bool) ([]*models.Lecture, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Lecture
	for _, l := range r.s.lectures {
		if l.CourseID != courseID {
			continue
		}
		if publishedOnly && !l.IsPublished {
			continue
		}
		copy := l
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ---- HomeworkRepository ----

// Homework returns the store as a HomeworkRepository
func (s *Store) Homework() *HomeworkRepo { return &HomeworkRepo{s} }

type HomeworkRepo struct{ s *Store }

func (r *HomeworkRepo) Create(_ context.Context, homework *models.Homework) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	homework.ID = r.s.allocID()
	homework.CreatedAt = time.Now()
	r.s.homework[homework.ID] = *homework
	return nil
}

func (r *HomeworkRepo) GetByID(_ context.Context, id uint) (*models.Homework, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.homework[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &h, nil
}

func (r *HomeworkRepo) Update(_ context.Context, homework *models.Homework) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.homework[homework.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.homework[homework.ID] = *homework
	return nil
}

func (r *HomeworkRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.homework, id)
	return nil
}

func (r *HomeworkRepo) ListByCourse(_ context.Context, courseID uint) ([]*models.Homework, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Homework
	for _, h := range r.s.homework {
		if h.CourseID == courseID {
			copy := h
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueAt.Before(out[j].DueAt) })
	return out, nil
}

// ---- SubmissionRepository ----

// Submissions returns the store as a SubmissionRepository
func (s *Store) Submissions() *SubmissionRepo { return &SubmissionRepo{s} }

type SubmissionRepo struct{ s *Store }

// CreateActive mirrors the SQL guard: the store mutex serializes the
// check-and-insert, so concurrent creators for one (homework, student)
// pair resolve to exactly one winner.
func (r *SubmissionRepo) CreateActive(_ context.Context, submission *models.Submission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var latest *models.Submission
	for _, existing := range r.s.submissions {
		if existing.HomeworkID != submission.HomeworkID || existing.StudentID != submission.StudentID {
			continue
		}
		if existing.IsActive() {
			return domain.ErrDuplicateActiveSubmission
		}
		if latest == nil || existing.SubmittedAt.After(latest.SubmittedAt) {
			copy := existing
			latest = &copy
		}
	}

	if latest != nil && !submission.SubmittedAt.After(latest.SubmittedAt) {
		return domain.ErrInvalidInput
	}

	submission.ID = r.s.allocID()
	submission.CreatedAt = time.Now()
	r.s.submissions[submission.ID] = *submission
	return nil
}

func (r *SubmissionRepo) GetByID(_ context.Context, id uint) (*models.Submission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.submissions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sub, nil
}

func (r *SubmissionRepo) GetLatest(_ context.Context, homeworkID, studentID uint) (*models.Submission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *models.Submission
	for _, sub := range r.s.submissions {
		if sub.HomeworkID != homeworkID || sub.StudentID != studentID {
			continue
		}
		if latest == nil || sub.SubmittedAt.After(latest.SubmittedAt) {
			copy := sub
			latest = &copy
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	return latest, nil
}

func (r *SubmissionRepo) UpdateStatus(_ context.Context, id uint, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.submissions[id]
	if !ok {
		return domain.ErrNotFound
	}
	sub.Status = status
	r.s.submissions[id] = sub
	return nil
}

func (r *SubmissionRepo) ListByHomework(_ context.Context, homeworkID uint) ([]*models.Submission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Submission
	for _, sub := range r.s.submissions {
		if sub.HomeworkID == homeworkID {
			copy := sub
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (r *SubmissionRepo) ListByStudent(_ context.Context, homeworkID, studentID uint) ([]*models.Submission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Submission
	for _, sub := range r.s.submissions {
		if sub.HomeworkID == homeworkID && sub.StudentID == studentID {
			copy := sub
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (r *SubmissionRepo) CountByHomework(_ context.Context, homeworkID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, sub := range r.s.submissions {
		if sub.HomeworkID == homeworkID {
			count++
		}
	}
	return count, nil
}

// ---- GradeRepository ----

// Grades returns the store as a GradeRepository
func (s *Store) Grades() *GradeRepo { return &GradeRepo{s} }

type GradeRepo struct{ s *Store }

func (r *GradeRepo) Append(_ context.Context, entry *models.GradeEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = r.s.allocID()
	r.s.grades[entry.ID] = *entry
	return nil
}

func (r *GradeRepo) Current(_ context.Context, submissionID uint) (*models.GradeEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var current *models.GradeEntry
	for _, g := range r.s.grades {
		if g.SubmissionID != submissionID {
			continue
		}
		if current == nil || g.GradedAt.After(current.GradedAt) ||
			(g.GradedAt.Equal(current.GradedAt) && g.ID > current.ID) {
			copy := g
			current = &copy
		}
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	return current, nil
}

func (r *GradeRepo) History(_ context.Context, submissionID uint) ([]*models.GradeEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.GradeEntry
	for _, g := range r.s.grades {
		if g.SubmissionID == submissionID {
			copy := g
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].GradedAt.Equal(out[j].GradedAt) {
			return out[i].GradedAt.Before(out[j].GradedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
