package domain

// Action enumerates everything a principal can ask to do
type Action int

const (
	ActionCreateCourse Action = iota
	ActionManageCourse
	ActionCreateLecture
	ActionViewLecture
	ActionCreateHomework
	ActionSubmit
	ActionResubmit
	ActionGrade
	ActionViewGrade
)

// Resource is the snapshot of resource state an authorization decision
// needs. Zero value is valid for course-creation checks.
type Resource struct {
	CourseID      uint
	CourseOwnerID uint
	// OwnerUserID is the submission owner for grade-view checks
	OwnerUserID uint
	// Published applies to lecture views; unpublished lectures are staff-only
	Published bool
}

// EnrollmentLookup resolves the enrollment role of a user on a course.
// The second return is false when the user is not enrolled.
type EnrollmentLookup func(courseID, userID uint) (EnrollmentRole, bool)

// Can decides whether the principal may perform the action on the resource.
// It is a pure function of its arguments: no ambient state, no storage
// access beyond the supplied lookup.
func Can(p Principal, action Action, res Resource, lookup EnrollmentLookup) bool {
	switch action {
	case ActionCreateCourse:
		return p.Role == RoleTeacher

	case ActionManageCourse, ActionCreateLecture, ActionCreateHomework, ActionGrade:
		return isCourseStaff(p, res, lookup)

	case ActionViewLecture:
		if isCourseStaff(p, res, lookup) {
			return true
		}
		if !res.Published {
			return false
		}
		_, enrolled := lookup(res.CourseID, p.UserID)
		return enrolled

	case ActionSubmit, ActionResubmit:
		role, enrolled := lookup(res.CourseID, p.UserID)
		return enrolled && role == EnrollStudent

	case ActionViewGrade:
		if res.OwnerUserID != 0 && p.UserID == res.OwnerUserID {
			return true
		}
		return isCourseStaff(p, res, lookup)
	}
	return false
}

// isCourseStaff reports whether the principal owns the course or holds an
// instructor/TA enrollment on it.
func isCourseStaff(p Principal, res Resource, lookup EnrollmentLookup) bool {
	if res.CourseOwnerID != 0 && p.UserID == res.CourseOwnerID {
		return true
	}
	role, enrolled := lookup(res.CourseID, p.UserID)
	return enrolled && role.IsStaff()
}
