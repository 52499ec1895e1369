package model

import (
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationIssues(t *testing.T, raw RawModelInput) []Issue {
	t.Helper()
	_, err := ProcessRawInput(raw)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	return validationErr.Issues
}

func hasIssue(issues []Issue, record, field string) bool {
	return lo.SomeBy(issues, func(issue Issue) bool {
		return issue.Record == record && issue.Field == field
	})
}

func TestValidationReportsEveryOffendingRecord(t *testing.T) {
	//** Arrange
	raw := sampleRawInput()
	raw.Courses[0].Faculty = "F9"
	raw.Courses[1].Students = 0
	raw.Rooms[1].Capacity = 0
	raw.Rooms = append(raw.Rooms, Room{Id: "R1", Type: "Lab", Capacity: 10})
	raw.Slots[2].Start = "9am"

	//** Act
	issues := validationIssues(t, raw)

	//** Assert
	assert.True(t, hasIssue(issues, `course "CS101"`, "Faculty"))
	assert.True(t, hasIssue(issues, `course "MA101"`, "Students"))
	assert.True(t, hasIssue(issues, `room "R2"`, "Capacity"))
	assert.True(t, hasIssue(issues, `room "R1"`, "Id"))
	assert.True(t, hasIssue(issues, `slot "TUE-0"`, "Start"))
	assert.GreaterOrEqual(t, len(issues), 5)
}

func TestValidationSessionRules(t *testing.T) {
	raw := sampleRawInput()
	raw.Courses[0].Sessions = map[ClassType]int{Lecture: 0}
	raw.Courses[1].RoomTypes = map[ClassType]string{}
	raw.Courses = append(raw.Courses, Course{
		Code: "PH101", Faculty: "F1", Group: "G1", Students: 10,
		Sessions:  map[ClassType]int{"seminar": 1, Lecture: -1},
		RoomTypes: map[ClassType]string{Lecture: "LectureHall"},
	})

	issues := validationIssues(t, raw)

	assert.True(t, hasIssue(issues, `course "CS101"`, "Sessions"))
	assert.True(t, hasIssue(issues, `course "MA101"`, "RoomTypes"))
	assert.True(t, lo.SomeBy(issues, func(issue Issue) bool {
		return issue.Record == `course "PH101"` && issue.Field != "Sessions"
	}))
}

func TestValidationSlotOrdering(t *testing.T) {
	raw := sampleRawInput()
	raw.Slots = append(raw.Slots,
		Slot{Id: "TUE-2", Day: "Tuesday", Index: 2, Start: "11:00", End: "12:00", Type: ClassSlot},
		Slot{Id: "MON-2", Day: "Monday", Index: 2, Start: "10:30", End: "10:15", Type: ClassSlot},
		Slot{Id: "MON-X", Day: "Monday", Index: 0, Start: "08:00", End: "09:00", Type: ClassSlot},
	)

	issues := validationIssues(t, raw)

	assert.True(t, hasIssue(issues, `slot "TUE-2"`, "Index"))
	assert.True(t, hasIssue(issues, `slot "MON-2"`, "End"))
	assert.True(t, hasIssue(issues, `slot "MON-2"`, "Start"))
	assert.True(t, hasIssue(issues, `slot "MON-X"`, "Index"))
}

func TestValidationEmptyTables(t *testing.T) {
	issues := validationIssues(t, RawModelInput{})

	assert.True(t, hasIssue(issues, "courses", ""))
	assert.True(t, hasIssue(issues, "rooms", ""))
	assert.True(t, hasIssue(issues, "slots", ""))
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Issues: []Issue{
		{Record: `room "R1"`, Field: "Capacity", Message: "too small"},
		{Record: "slots", Message: "at least one slot is required"},
	}}

	assert.Equal(t, `input validation failed with 2 issue(s): room "R1".Capacity: too small; slots: at least one slot is required`, err.Error())
}
