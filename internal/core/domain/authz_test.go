package domain

import "testing"

// lookupFromMap builds an EnrollmentLookup over a fixed enrollment table
func lookupFromMap(enrollments map[[2]uint]EnrollmentRole) EnrollmentLookup {
	return func(courseID, userID uint) (EnrollmentRole, bool) {
		role, ok := enrollments[[2]uint{courseID, userID}]
		return role, ok
	}
}

func TestCanDecisionTable(t *testing.T) {
	const (
		owner      = 1
		instructor = 2
		ta         = 3
		student    = 4
		outsider   = 5
	)

	lookup := lookupFromMap(map[[2]uint]EnrollmentRole{
		{10, instructor}: EnrollInstructor,
		{10, ta}:         EnrollTA,
		{10, student}:    EnrollStudent,
	})

	course := Resource{CourseID: 10, CourseOwnerID: owner}
	published := Resource{CourseID: 10, CourseOwnerID: owner, Published: true}
	unpublished := Resource{CourseID: 10, CourseOwnerID: owner, Published: false}

	tests := []struct {
		name   string
		p      Principal
		action Action
		res    Resource
		want   bool
	}{
		{"teacher creates course", Principal{UserID: owner, Role: RoleTeacher}, ActionCreateCourse, Resource{}, true},
		{"student cannot create course", Principal{UserID: student, Role: RoleStudent}, ActionCreateCourse, Resource{}, false},

		{"owner manages course", Principal{UserID: owner, Role: RoleTeacher}, ActionManageCourse, course, true},
		{"instructor manages course", Principal{UserID: instructor, Role: RoleTeacher}, ActionManageCourse, course, true},
		{"TA manages course", Principal{UserID: ta, Role: RoleTeacher}, ActionManageCourse, course, true},
		{"student cannot manage course", Principal{UserID: student, Role: RoleStudent}, ActionManageCourse, course, false},
		{"outsider cannot manage course", Principal{UserID: outsider, Role: RoleTeacher}, ActionManageCourse, course, false},

		{"instructor creates homework", Principal{UserID: instructor, Role: RoleTeacher}, ActionCreateHomework, course, true},
		{"student cannot create homework", Principal{UserID: student, Role: RoleStudent}, ActionCreateHomework, course, false},

		{"enrolled student views published lecture", Principal{UserID: student, Role: RoleStudent}, ActionViewLecture, published, true},
		{"enrolled student cannot view unpublished lecture", Principal{UserID: student, Role: RoleStudent}, ActionViewLecture, unpublished, false},
		{"staff views unpublished lecture", Principal{UserID: ta, Role: RoleTeacher}, ActionViewLecture, unpublished, true},
		{"owner views unpublished lecture", Principal{UserID: owner, Role: RoleTeacher}, ActionViewLecture, unpublished, true},
		{"outsider cannot view published lecture", Principal{UserID: outsider, Role: RoleStudent}, ActionViewLecture, published, false},

		{"enrolled student submits", Principal{UserID: student, Role: RoleStudent}, ActionSubmit, course, true},
		{"instructor cannot submit", Principal{UserID: instructor, Role: RoleTeacher}, ActionSubmit, course, false},
		{"outsider cannot submit", Principal{UserID: outsider, Role: RoleStudent}, ActionSubmit, course, false},
		{"enrolled student resubmits", Principal{UserID: student, Role: RoleStudent}, ActionResubmit, course, true},

		{"instructor grades", Principal{UserID: instructor, Role: RoleTeacher}, ActionGrade, course, true},
		{"student cannot grade", Principal{UserID: student, Role: RoleStudent}, ActionGrade, course, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Can(tt.p, tt.action, tt.res, lookup); got != tt.want {
				t.Errorf("Can() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanViewGrade(t *testing.T) {
	lookup := lookupFromMap(map[[2]uint]EnrollmentRole{
		{10, 2}: EnrollInstructor,
		{10, 4}: EnrollStudent,
		{10, 5}: EnrollStudent,
	})

	res := Resource{CourseID: 10, CourseOwnerID: 1, OwnerUserID: 4}

	if !Can(Principal{UserID: 4, Role: RoleStudent}, ActionViewGrade, res, lookup) {
		t.Error("submission owner denied own grade")
	}
	if !Can(Principal{UserID: 2, Role: RoleTeacher}, ActionViewGrade, res, lookup) {
		t.Error("instructor denied grade view")
	}
	if Can(Principal{UserID: 5, Role: RoleStudent}, ActionViewGrade, res, lookup) {
		t.Error("classmate allowed to view another student's grade")
	}
}

func TestCanFailsClosedWhenNotEnrolled(t *testing.T) {
	empty := lookupFromMap(nil)
	res := Resource{CourseID: 10, CourseOwnerID: 1, Published: true}

	actions := []Action{ActionManageCourse, ActionCreateLecture, ActionViewLecture, ActionCreateHomework, ActionSubmit, ActionGrade}
	for _, action := range actions {
		if Can(Principal{UserID: 99, Role: RoleStudent}, action, res, empty) {
			t.Errorf("action %d allowed without enrollment", action)
		}
	}
}
