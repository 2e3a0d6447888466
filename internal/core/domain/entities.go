package domain

import "time"

// Role represents a user's account-level role
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
)

// EnrollmentRole represents a user's role within one course
type EnrollmentRole string

const (
	EnrollStudent    EnrollmentRole = "STUDENT"
	EnrollInstructor EnrollmentRole = "INSTRUCTOR"
	EnrollTA         EnrollmentRole = "TA"
)

// IsStaff reports whether the enrollment role may manage course content
func (r EnrollmentRole) IsStaff() bool {
	return r == EnrollInstructor || r == EnrollTA
}

// Principal is the authenticated identity making a request.
// Produced by token verification; immutable for the request's lifetime.
type Principal struct {
	UserID  uint
	Role    Role
	TokenID string
}

// LatePolicy selects how lateness adjusts a raw score
type LatePolicy string

const (
	LatePolicyNone            LatePolicy = "NONE"
	LatePolicyPercentageDecay LatePolicy = "PERCENTAGE_DECAY"
	LatePolicyFixedPenalty    LatePolicy = "FIXED_PENALTY"
)

// SubmissionStatus is the state of a submission in the grading workflow
type SubmissionStatus string

const (
	StatusSubmitted     SubmissionStatus = "SUBMITTED"
	StatusLateSubmitted SubmissionStatus = "LATE_SUBMITTED"
	StatusGraded        SubmissionStatus = "GRADED"
)

// IsActive reports whether the submission still blocks new submissions
// for the same (homework, student) pair.
func (s SubmissionStatus) IsActive() bool {
	return s == StatusSubmitted || s == StatusLateSubmitted
}

// GradeKind distinguishes a regrade (new raw score) from a recompute
// (late policy re-applied to a stored raw score) in the ledger.
type GradeKind string

const (
	GradeKindGrade     GradeKind = "GRADE"
	GradeKindRecompute GradeKind = "RECOMPUTE"
)

// DeadlineRule bundles a homework's submission-window parameters
type DeadlineRule struct {
	DueAt         time.Time
	GracePeriod   time.Duration
	MaxLateWindow time.Duration
}

// OnTimeUntil returns the last instant a submission counts as on time
func (d DeadlineRule) OnTimeUntil() time.Time {
	return d.DueAt.Add(d.GracePeriod)
}

// ClosedAt returns the hard cutoff after which submissions are rejected
func (d DeadlineRule) ClosedAt() time.Time {
	return d.DueAt.Add(d.MaxLateWindow)
}

// LetterGrade maps an adjusted percentage to the classic letter scale
func LetterGrade(percent float64) string {
	switch {
	case percent >= 90:
		return "A"
	case percent >= 80:
		return "B"
	case percent >= 70:
		return "C"
	case percent >= 60:
		return "D"
	default:
		return "F"
	}
}
