package class

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var classes = []Class{
	{
		ID: "1", Name: "Mathematics", Section: "10A", TeacherID: "4", StudentIDs: []string{"1", "2"},
		Schedule: []ScheduleSlot{{Day: time.Monday, StartTime: "09:00", EndTime: "10:00"}, {Day: time.Friday, StartTime: "09:00", EndTime: "10:00"}},
	},
	{ID: "2", Name: "English", Section: "10B", TeacherID: "5", StudentIDs: []string{"3", "7"}},
	{ID: "3", Name: "Physics", Section: "11A", TeacherID: "4", StudentIDs: []string{"8", "1"}},
}

func TestClass(t *testing.T) {
	maths := classes[0]
	assert.True(t, maths.Enrolled("2"))
	assert.False(t, maths.Enrolled("3"))
	assert.True(t, maths.MeetsOn(time.Friday))
	assert.False(t, maths.MeetsOn(time.Saturday))
	assert.False(t, classes[1].MeetsOn(time.Monday))
}

func TestQueryFilter_Match(t *testing.T) {
	tests := []struct {
		name   string
		filter QueryFilter
		want   []string
	}{
		{name: "empty", want: []string{"1", "2", "3"}},
		{name: "teacher", filter: QueryFilter{TeacherID: "4"}, want: []string{"1", "3"}},
		{name: "student", filter: QueryFilter{StudentID: "1"}, want: []string{"1", "3"}},
		{name: "teacher & student", filter: QueryFilter{TeacherID: "5", StudentID: "1"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := make([]Class, 0)
			for _, c := range classes {
				if tt.filter.Match(c) {
					found = append(found, c)
				}
			}
			assert.Equal(t, tt.want, IDs(found))
		})
	}
}

func TestStudentIDs(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3", "7", "8"}, StudentIDs(classes))
	assert.Equal(t, []string{}, StudentIDs(nil))
}
