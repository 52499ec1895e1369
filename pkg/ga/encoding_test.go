package ga

import (
	"math/rand/v2"
	"testing"

	"github.com/limaJavier/timetabling/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerateSessions(t *testing.T) {
	//** Arrange
	input := mediumInput(t)

	//** Act
	sessions := enumerateSessions(input)

	//** Assert
	require.Len(t, sessions, 12)
	assert.Equal(t, Session{Course: 0, Code: "CS101", ClassType: model.Lecture, Ordinal: 0, Faculty: 0, Group: 0, Students: 30, RoomType: "LectureHall"}, sessions[0])
	assert.Equal(t, 2, sessions[2].Ordinal)

	// Lectures come before practicals within a course
	assert.Equal(t, "CS103", sessions[6].Code)
	assert.Equal(t, model.Lecture, sessions[7].ClassType)
	assert.Equal(t, model.Practical, sessions[8].ClassType)
	assert.Equal(t, "Lab", sessions[8].RoomType)
	assert.Equal(t, 1, sessions[8].Group)
	assert.Equal(t, "MA101", sessions[11].Code)
	assert.Equal(t, 0, sessions[11].Faculty)
}

func TestRandomChromosomesUseCandidates(t *testing.T) {
	//** Arrange
	input := mediumInput(t)
	encoder := NewEncoder(input)
	rng := rand.New(rand.NewPCG(1, 2))

	for range 50 {
		//** Act
		chromosome := encoder.Random(rng)

		//** Assert
		require.Len(t, chromosome.Genes, encoder.Length())
		for i, gene := range chromosome.Genes {
			assert.Contains(t, encoder.slots, gene.Slot)
			assert.Contains(t, encoder.rooms[i], gene.Room)
		}
	}
	// CS101 needs 30 seats, only R1 fits
	assert.Equal(t, []int{0}, encoder.rooms[0])
	// MA101 has 18 students, both lecture halls fit
	assert.Equal(t, []int{0, 1}, encoder.rooms[10])
	// CS103 practicals go to the lab
	assert.Equal(t, []int{2}, encoder.rooms[8])
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	//** Arrange
	input := mediumInput(t)
	encoder := NewEncoder(input)
	rng := rand.New(rand.NewPCG(3, 4))

	for range 20 {
		chromosome := encoder.Random(rng)

		//** Act
		assignments := encoder.Decode(chromosome)
		encoded, err := encoder.Encode(assignments)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, chromosome, encoded)
	}
}

func TestDecode(t *testing.T) {
	input := singleCourseInput(t)
	encoder := NewEncoder(input)

	assignments := encoder.Decode(Chromosome{Genes: []Gene{{Slot: 1, Room: 0}, {Slot: 2, Room: 0}}})

	assert.Equal(t, []model.Assignment{
		{Day: "MON", Slot: "MON-1", Start: "09:00", End: "09:50", Course: "CS101", ClassType: model.Lecture, Session: 0, Group: "G1", Faculty: "F1", Room: "R1"},
		{Day: "TUE", Slot: "TUE-0", Start: "08:00", End: "08:50", Course: "CS101", ClassType: model.Lecture, Session: 1, Group: "G1", Faculty: "F1", Room: "R1"},
	}, assignments)
}

func TestEncodeRejectsForeignAssignments(t *testing.T) {
	input := singleCourseInput(t)
	encoder := NewEncoder(input)
	assignments := encoder.Decode(Chromosome{Genes: []Gene{{Slot: 0, Room: 0}, {Slot: 1, Room: 0}}})

	t.Run("Wrong length", func(t *testing.T) {
		_, err := encoder.Encode(assignments[:1])
		assert.Error(t, err)
	})

	t.Run("Out of order", func(t *testing.T) {
		_, err := encoder.Encode([]model.Assignment{assignments[1], assignments[0]})
		assert.Error(t, err)
	})

	t.Run("Unknown slot", func(t *testing.T) {
		wrong := []model.Assignment{assignments[0], assignments[1]}
		wrong[1].Slot = "SUN-9"
		_, err := encoder.Encode(wrong)
		assert.Error(t, err)
	})
}

func TestDecodePanicsOnLengthMismatch(t *testing.T) {
	encoder := NewEncoder(singleCourseInput(t))

	assert.Panics(t, func() {
		encoder.Decode(Chromosome{Genes: []Gene{{Slot: 0, Room: 0}}})
	})
}

func TestLeastBadCandidates(t *testing.T) {
	slots := classSlots([]string{"MON"}, 3)
	slots[0].Type = model.BreakSlot
	input := processInput(t, model.RawModelInput{
		Courses: []model.Course{
			lectureCourse("BIG", "F1", "G1", 60, 1, "LectureHall"),
			lectureCourse("PHY", "F1", "G2", 25, 1, "PhysicsLab"),
			lectureCourse("HUGE", "F1", "G3", 500, 1, "PhysicsLab"),
		},
		Faculty: []model.Faculty{{Id: "F1"}},
		Rooms: []model.Room{
			{Id: "R1", Type: "LectureHall", Capacity: 40},
			{Id: "R2", Type: "LectureHall", Capacity: 50},
			{Id: "R3", Type: "Lab", Capacity: 30},
			{Id: "R4", Type: "Lab", Capacity: 20},
		},
		Slots: slots,
	})

	encoder := NewEncoder(input)

	// Break slots are never drawn while class slots exist
	assert.Equal(t, []int{1, 2}, encoder.slots)
	// Right type but too small: the largest room of the type
	assert.Equal(t, []int{1}, encoder.rooms[0])
	// Unknown type: every room that fits
	assert.Equal(t, []int{0, 1, 2}, encoder.rooms[1])
	// Unknown type and nothing fits: the largest room overall
	assert.Equal(t, []int{1}, encoder.rooms[2])
}

func TestEncoderFallsBackToEverySlot(t *testing.T) {
	slots := classSlots([]string{"MON"}, 2)
	slots[0].Type = model.HolidaySlot
	input := processInput(t, model.RawModelInput{
		Courses: []model.Course{lectureCourse("CS101", "F1", "G1", 10, 1, "LectureHall")},
		Faculty: []model.Faculty{{Id: "F1"}},
		Rooms:   []model.Room{{Id: "R1", Type: "LectureHall", Capacity: 40}},
		Slots:   slots,
	})

	encoder := NewEncoder(input)

	// The holiday makes the whole day unassignable
	assert.Equal(t, []int{0, 1}, encoder.slots)
}

func TestEncoderPanicsWithoutSlots(t *testing.T) {
	assert.Panics(t, func() {
		NewEncoder(model.ModelInput{Rooms: []model.Room{{Id: "R1", Type: "LectureHall", Capacity: 1}}})
	})
}
