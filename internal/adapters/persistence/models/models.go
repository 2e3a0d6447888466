package models

import (
	"time"

	"gorm.io/gorm"

	"classhub/internal/core/domain"
)

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	FirstName string         `gorm:"size:150" json:"first_name"`
	LastName  string         `gorm:"size:150" json:"last_name"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'STUDENT';index" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// FullName returns the display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// Course represents courses table
type Course struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:200;not null;index" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	OwnerID     uint           `gorm:"index;not null" json:"owner_id"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Owner       User           `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Course) TableName() string {
	return "courses"
}

// Enrollment represents enrollments table.
// Unique per (course, user); re-enrolling with a different role replaces.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_course_user" json:"course_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_course_user;index" json:"user_id"`
	Role      string    `gorm:"size:20;not null" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	Course    Course    `gorm:"foreignKey:CourseID" json:"-"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// Lecture represents lectures table
type Lecture struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CourseID        uint           `gorm:"index;not null" json:"course_id"`
	Topic           string         `gorm:"size:200;not null;index" json:"topic"`
	Description     string         `gorm:"type:text" json:"description"`
	OrderIndex      int            `gorm:"default:0" json:"order_index"`
	PresentationRef string         `gorm:"size:255" json:"presentation_ref,omitempty"`
	IsPublished     bool           `gorm:"default:false;index" json:"is_published"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	Course          Course         `gorm:"foreignKey:CourseID" json:"-"`
}

func (Lecture) TableName() string {
	return "lectures"
}

// Homework represents homework table
type Homework struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	CourseID            uint           `gorm:"index;not null" json:"course_id"`
	LectureID           uint           `gorm:"index" json:"lecture_id,omitempty"`
	Title               string         `gorm:"size:200;not null" json:"title"`
	Description         string         `gorm:"type:text" json:"description"`
	DueAt               time.Time      `gorm:"not null;index" json:"due_at"`
	GraceMinutes        int            `gorm:"default:0" json:"grace_minutes"`
	MaxLateMinutes      int            `gorm:"default:0" json:"max_late_minutes"`
	MaxScore            float64        `gorm:"default:100" json:"max_score"`
	LatePolicy          string         `gorm:"size:30;default:'NONE'" json:"late_policy"`
	DecayPerDay         float64        `gorm:"default:0" json:"decay_per_day"`
	PenaltyPerDay       float64        `gorm:"default:0" json:"penalty_per_day"`
	ResubmissionAllowed bool           `gorm:"default:false" json:"resubmission_allowed"`
	CreatedBy           uint           `gorm:"index" json:"created_by"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
	Course              Course         `gorm:"foreignKey:CourseID" json:"-"`
}

func (Homework) TableName() string {
	return "homework"
}

// DeadlineRule returns the homework's submission-window parameters
func (h *Homework) DeadlineRule() domain.DeadlineRule {
	return domain.DeadlineRule{
		DueAt:         h.DueAt,
		GracePeriod:   time.Duration(h.GraceMinutes) * time.Minute,
		MaxLateWindow: time.Duration(h.MaxLateMinutes) * time.Minute,
	}
}

// PolicyParams returns the homework's late-policy parameters
func (h *Homework) PolicyParams() domain.PolicyParams {
	return domain.PolicyParams{
		Policy:        domain.LatePolicy(h.LatePolicy),
		DecayPerDay:   h.DecayPerDay,
		PenaltyPerDay: h.PenaltyPerDay,
		MaxScore:      h.MaxScore,
	}
}

// Submission represents homework_submissions table. Rows are append-only:
// a resubmission is a new row, never an update of the old one.
type Submission struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	HomeworkID    uint      `gorm:"not null;index:idx_homework_student" json:"homework_id"`
	StudentID     uint      `gorm:"not null;index:idx_homework_student" json:"student_id"`
	Content       string    `gorm:"type:text" json:"content"`
	AttachmentRef string    `gorm:"size:255" json:"attachment_ref,omitempty"`
	Status        string    `gorm:"size:20;not null;index" json:"status"`
	SubmittedAt   time.Time `gorm:"not null;index" json:"submitted_at"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	Homework      Homework  `gorm:"foreignKey:HomeworkID" json:"-"`
	Student       User      `gorm:"foreignKey:StudentID" json:"-"`
}

func (Submission) TableName() string {
	return "homework_submissions"
}

// IsActive reports whether this submission still blocks new ones
func (s *Submission) IsActive() bool {
	return domain.SubmissionStatus(s.Status).IsActive()
}

// GradeEntry represents one row of the append-only grades ledger.
// Entries are never updated or deleted, only superseded by later ones.
type GradeEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SubmissionID  uint      `gorm:"not null;index" json:"submission_id"`
	Kind          string    `gorm:"size:20;not null" json:"kind"`
	RawScore      float64   `gorm:"not null" json:"raw_score"`
	AdjustedScore float64   `gorm:"not null" json:"adjusted_score"`
	LateDays      int       `gorm:"default:0" json:"late_days"`
	GraderID      uint      `gorm:"index" json:"grader_id"`
	Comment       string    `gorm:"type:text" json:"comment"`
	GradedAt      time.Time `gorm:"not null;index" json:"graded_at"`
}

func (GradeEntry) TableName() string {
	return "grade_entries"
}

// GradeResponse DTO adds the derived letter grade
type GradeResponse struct {
	ID            uint      `json:"id"`
	SubmissionID  uint      `json:"submission_id"`
	Kind          string    `json:"kind"`
	RawScore      float64   `json:"raw_score"`
	AdjustedScore float64   `json:"adjusted_score"`
	LateDays      int       `json:"late_days"`
	GraderID      uint      `json:"grader_id"`
	Comment       string    `json:"comment,omitempty"`
	GradedAt      time.Time `json:"graded_at"`
	LetterGrade   string    `json:"letter_grade"`
}

// ToResponse derives the letter grade from the adjusted percentage
func (g *GradeEntry) ToResponse(maxScore float64) *GradeResponse {
	percent := 0.0
	if maxScore > 0 {
		percent = g.AdjustedScore / maxScore * 100
	}
	return &GradeResponse{
		ID:            g.ID,
		SubmissionID:  g.SubmissionID,
		Kind:          g.Kind,
		RawScore:      g.RawScore,
		AdjustedScore: g.AdjustedScore,
		LateDays:      g.LateDays,
		GraderID:      g.GraderID,
		Comment:       g.Comment,
		GradedAt:      g.GradedAt,
		LetterGrade:   domain.LetterGrade(percent),
	}
}

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Course{},
		&Enrollment{},
		&Lecture{},
		&Homework{},
		&Submission{},
		&GradeEntry{},
	)
}
