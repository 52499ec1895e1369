package ga

import (
	"testing"

	"github.com/limaJavier/timetabling/pkg/model"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(input model.ModelInput) []Diagnostic {
	return analyzeFeasibility(input, enumerateSessions(input), newPredicateEvaluator(input))
}

func reasons(diagnostics []Diagnostic) []Reason {
	return lo.Map(diagnostics, func(diagnostic Diagnostic, _ int) Reason { return diagnostic.Reason })
}

func TestFeasibleInputHasNoDiagnostics(t *testing.T) {
	assert.Empty(t, analyze(mediumInput(t)))
	assert.Empty(t, analyze(crowdedInput(t)))
}

func TestRoomDiagnostics(t *testing.T) {
	//** Arrange
	input := processInput(t, model.RawModelInput{
		Courses: []model.Course{
			lectureCourse("CS101", "F1", "G1", 80, 1, "LectureHall"),
			lectureCourse("PH101", "F1", "G2", 10, 1, "PhysicsLab"),
		},
		Faculty: []model.Faculty{{Id: "F1"}},
		Rooms:   []model.Room{{Id: "R1", Type: "LectureHall", Capacity: 40}},
		Slots:   classSlots([]string{"MON"}, 2),
	})

	//** Act
	diagnostics := analyze(input)

	//** Assert
	require.Len(t, diagnostics, 2)
	assert.Equal(t, Diagnostic{
		Session:   0,
		Course:    "CS101",
		ClassType: model.Lecture,
		Ordinal:   0,
		Reason:    NoFittingRoom,
		Detail:    `no room of type "LectureHall" holds 80 students`,
	}, diagnostics[0])
	assert.Equal(t, NoRoomOfType, diagnostics[1].Reason)
	assert.Equal(t, "PH101", diagnostics[1].Course)
}

func TestUnqualifiedFaculty(t *testing.T) {
	input := processInput(t, model.RawModelInput{
		Courses: []model.Course{lectureCourse("CS101", "F1", "G1", 10, 2, "LectureHall")},
		Faculty: []model.Faculty{{Id: "F1", Name: "Ada", Courses: []string{"MA101"}}},
		Rooms:   []model.Room{{Id: "R1", Type: "LectureHall", Capacity: 40}},
		Slots:   classSlots([]string{"MON"}, 2),
	})

	diagnostics := analyze(input)

	assert.Equal(t, []Reason{UnqualifiedFaculty, UnqualifiedFaculty}, reasons(diagnostics))
	assert.Contains(t, diagnostics[0].Detail, "Ada")
}

func TestNoAssignableSlot(t *testing.T) {
	slots := classSlots([]string{"MON"}, 2)
	slots[0].Type = model.BreakSlot
	slots[1].Type = model.LunchSlot
	input := processInput(t, model.RawModelInput{
		Courses: []model.Course{lectureCourse("CS101", "F1", "G1", 10, 1, "LectureHall")},
		Faculty: []model.Faculty{{Id: "F1"}},
		Rooms:   []model.Room{{Id: "R1", Type: "LectureHall", Capacity: 40}},
		Slots:   slots,
	})

	assert.Equal(t, []Reason{NoAssignableSlot}, reasons(analyze(input)))
}

func TestOversubscription(t *testing.T) {
	//** Arrange
	input := processInput(t, model.RawModelInput{
		Courses: []model.Course{
			lectureCourse("CS101", "F1", "G1", 10, 2, "LectureHall"),
			lectureCourse("CS102", "F2", "G1", 10, 1, "LectureHall"),
			lectureCourse("MA101", "F1", "G2", 10, 1, "LectureHall"),
		},
		Faculty: []model.Faculty{{Id: "F1"}, {Id: "F2"}},
		Rooms: []model.Room{
			{Id: "R1", Type: "LectureHall", Capacity: 40},
			{Id: "R2", Type: "LectureHall", Capacity: 40},
			{Id: "R3", Type: "LectureHall", Capacity: 40},
		},
		Slots: classSlots([]string{"MON"}, 2),
	})

	//** Act
	diagnostics := analyze(input)

	//** Assert
	require.Len(t, diagnostics, 2)
	// Group G1 needs three sessions in two slots, the last one is flagged
	assert.Equal(t, GroupOversubscribed, diagnostics[0].Reason)
	assert.Equal(t, "CS102", diagnostics[0].Course)
	// Faculty F1 teaches CS101 twice and MA101 once
	assert.Equal(t, FacultyOversubscribed, diagnostics[1].Reason)
	assert.Equal(t, "MA101", diagnostics[1].Course)
}

func TestRoomTimeExhausted(t *testing.T) {
	//** Arrange
	input := processInput(t, model.RawModelInput{
		Courses: []model.Course{
			lectureCourse("CS101", "F1", "G1", 30, 1, "LectureHall"),
			lectureCourse("CS102", "F2", "G2", 30, 1, "LectureHall"),
			lectureCourse("CS103", "F3", "G3", 30, 1, "LectureHall"),
			lectureCourse("CS104", "F4", "G4", 10, 1, "LectureHall"),
		},
		Faculty: []model.Faculty{{Id: "F1"}, {Id: "F2"}, {Id: "F3"}, {Id: "F4"}},
		Rooms: []model.Room{
			{Id: "R1", Type: "LectureHall", Capacity: 40},
			{Id: "R2", Type: "LectureHall", Capacity: 20},
		},
		Slots: classSlots([]string{"MON"}, 2),
	})

	//** Act
	diagnostics := analyze(input)

	//** Assert
	// Three sessions compete for the two R1 cells
	require.Len(t, diagnostics, 1)
	assert.Equal(t, RoomTimeExhausted, diagnostics[0].Reason)
	assert.Contains(t, []string{"CS101", "CS102", "CS103"}, diagnostics[0].Course)
}
