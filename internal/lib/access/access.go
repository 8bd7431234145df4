// Package access decides which console actions a role may perform. Handlers
// reject forbidden writes and the front end hides the matching buttons, both
// from the same table.
package access

import "SchoolDesk/entity"

type Action string

const (
	View              Action = "view"
	Create            Action = "create"
	Update            Action = "update"
	Delete            Action = "delete"
	ManageGrades      Action = "manage_grades"
	ManageAssignments Action = "manage_assignments"
	ManagePayments    Action = "manage_payments"
	ManageSchoolYears Action = "manage_school_years"
)

var allActions = []Action{
	View, Create, Update, Delete,
	ManageGrades, ManageAssignments, ManagePayments, ManageSchoolYears,
}

var policy = map[string]map[Action]bool{
	entity.AdminRole:     grant(allActions...),
	entity.DirectorRole:  grant(allActions...),
	entity.SecretaryRole: grant(View, Create, Update, Delete, ManageGrades, ManageAssignments, ManagePayments),
	entity.TeacherRole:   grant(View, ManageGrades, ManageAssignments),
}

func grant(actions ...Action) map[Action]bool {
	m := make(map[Action]bool, len(actions))
	for _, a := range actions {
		m[a] = true
	}
	return m
}

// Can reports whether role may perform action. Unknown roles may only view.
func Can(action Action, role string) bool {
	actions, ok := policy[role]
	if !ok {
		return action == View
	}
	return actions[action]
}

// Capabilities lists every action with its verdict for role.
func Capabilities(role string) map[Action]bool {
	caps := make(map[Action]bool, len(allActions))
	for _, a := range allActions {
		caps[a] = Can(a, role)
	}
	return caps
}

// WriteAction is the action guarding writes on a resource screen. Grades,
// assignments and payments have their own capability; everything else uses
// the generic verb.
func WriteAction(resource string, verb Action) Action {
	switch resource {
	case "grades":
		return ManageGrades
	case "assignments":
		return ManageAssignments
	case "payments":
		return ManagePayments
	case "school-years":
		return ManageSchoolYears
	}
	return verb
}
