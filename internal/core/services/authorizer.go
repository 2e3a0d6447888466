package services

import (
	"context"

	"classhub/internal/adapters/persistence/repositories"
	"classhub/internal/core/domain"
)

// Authorizer binds the pure decision function to the enrollment registry.
// Lookup failures deny: an authorization check never errors, it fails
// closed.
type Authorizer struct {
	enrollmentRepo repositories.EnrollmentRepository
}

// NewAuthorizer creates a new authorizer
func NewAuthorizer(enrollmentRepo repositories.EnrollmentRepository) *Authorizer {
	return &Authorizer{enrollmentRepo: enrollmentRepo}
}

// Can decides whether the principal may perform the action on the resource
func (a *Authorizer) Can(ctx context.Context, p domain.Principal, action domain.Action, res domain.Resource) bool {
	return domain.Can(p, action, res, a.Lookup(ctx))
}

// Lookup returns an enrollment lookup bound to the request context
func (a *Authorizer) Lookup(ctx context.Context) domain.EnrollmentLookup {
	return func(courseID, userID uint) (domain.EnrollmentRole, bool) {
		enrollment, err := a.enrollmentRepo.Get(ctx, courseID, userID)
		if err != nil {
			return "", false
		}
		return domain.EnrollmentRole(enrollment.Role), true
	}
}
