package domain

import "errors"

// Authentication errors - always surfaced as unauthenticated, no detail leaked
var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenRevoked   = errors.New("token has been revoked")
)

// Authorization errors
var (
	ErrForbidden = errors.New("forbidden")
)

// Workflow errors - surfaced with the specific rule violated
var (
	ErrSubmissionWindowClosed    = errors.New("submission window closed")
	ErrDuplicateActiveSubmission = errors.New("an active submission already exists")
	ErrResubmissionNotAllowed    = errors.New("resubmission not allowed")
	ErrHomeworkLocked            = errors.New("homework has submissions and cannot be modified")
)

// Common errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrServiceUnavailable = errors.New("service unavailable")
)
