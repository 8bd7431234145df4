package access

import (
	"SchoolDesk/entity"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	tests := []struct {
		role   string
		action Action
		want   bool
	}{
		{entity.AdminRole, ManageSchoolYears, true},
		{entity.DirectorRole, Delete, true},
		{entity.SecretaryRole, Create, true},
		{entity.SecretaryRole, ManageSchoolYears, false},
		{entity.TeacherRole, View, true},
		{entity.TeacherRole, ManageGrades, true},
		{entity.TeacherRole, ManageAssignments, true},
		{entity.TeacherRole, Create, false},
		{entity.TeacherRole, Delete, false},
		{entity.TeacherRole, ManagePayments, false},
		{"parent", View, true},
		{"parent", Update, false},
		{"", Create, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Can(tt.action, tt.role), "%s %s", tt.role, tt.action)
	}
}

func TestWriteAction(t *testing.T) {
	assert.Equal(t, ManageGrades, WriteAction("grades", Create))
	assert.Equal(t, ManagePayments, WriteAction("payments", Delete))
	assert.Equal(t, ManageSchoolYears, WriteAction("school-years", Update))
	assert.Equal(t, Create, WriteAction("classrooms", Create))
}

func TestCapabilitiesCoverAllActions(t *testing.T) {
	caps := Capabilities(entity.TeacherRole)
	assert.Len(t, caps, len(allActions))
	assert.True(t, caps[ManageGrades])
	assert.False(t, caps[Delete])
}
