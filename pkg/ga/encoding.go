package ga

import (
	"fmt"
	"log"
	"math/rand/v2"
	"slices"

	"github.com/limaJavier/timetabling/pkg/model"
	"github.com/samber/lo"
)

// Session is one required class-session of one course. Its faculty and student group are fixed by the course, only
// its slot and room are searched for
type Session struct {
	Course    int
	Code      string
	ClassType model.ClassType
	Ordinal   int
	Faculty   int
	Group     int
	Students  int
	RoomType  string
}

// Gene is the current (slot, room) choice of the session at the same position of the chromosome
type Gene struct {
	Slot int
	Room int
}

// Chromosome is one candidate timetable. Its length always equals the total number of sessions
type Chromosome struct {
	Genes []Gene
}

func (chromosome Chromosome) Clone() Chromosome {
	return Chromosome{Genes: slices.Clone(chromosome.Genes)}
}

// enumerateSessions lists every required session: courses in input order, class types in enumeration order and
// ordinals in ascending order
func enumerateSessions(modelInput model.ModelInput) []Session {
	total := lo.SumBy(modelInput.Courses, func(course model.Course) int { return course.TotalSessions() })
	sessions := make([]Session, 0, total)

	for courseIndex, course := range modelInput.Courses {
		for _, classType := range model.ClassTypes {
			for ordinal := range course.Sessions[classType] {
				sessions = append(sessions, Session{
					Course:    courseIndex,
					Code:      course.Code,
					ClassType: classType,
					Ordinal:   ordinal,
					Faculty:   modelInput.CourseFaculty[courseIndex],
					Group:     modelInput.GroupIndex[course.Group],
					Students:  course.Students,
					RoomType:  course.RoomTypes[classType],
				})
			}
		}
	}

	return sessions
}

// Encoder maps sessions to genes and back. Candidate lists are computed once and only read afterwards, so a single
// encoder is shared by every worker of a run
type Encoder struct {
	modelInput model.ModelInput
	sessions   []Session
	slots      []int   // Candidate slots, shared by every session
	rooms      [][]int // Candidate rooms per session
}

func NewEncoder(modelInput model.ModelInput) *Encoder {
	return newEncoder(modelInput, newPredicateEvaluator(modelInput))
}

func newEncoder(modelInput model.ModelInput, evaluator predicateEvaluator) *Encoder {
	if len(modelInput.Slots) == 0 {
		log.Panicf("cannot encode a timetable without slots")
	} else if len(modelInput.Rooms) == 0 {
		log.Panicf("cannot encode a timetable without rooms")
	}

	allSlots := lo.Range(len(modelInput.Slots))
	allRooms := lo.Range(len(modelInput.Rooms))

	// Non-assignable slots are only used when nothing else exists, the fitness evaluator penalizes them
	slots := lo.Filter(allSlots, func(slot int, _ int) bool { return evaluator.Assignable(slot) })
	if len(slots) == 0 {
		slots = allSlots
	}

	sessions := enumerateSessions(modelInput)
	rooms := make([][]int, len(sessions))
	for i, session := range sessions {
		rooms[i] = candidateRooms(session, allRooms, modelInput, evaluator)
	}

	return &Encoder{
		modelInput: modelInput,
		sessions:   sessions,
		slots:      slots,
		rooms:      rooms,
	}
}

// candidateRooms returns the legal rooms of a session or, when there are none, the least-bad ones:
// the largest rooms of the right type, then rooms of another type that fit, then the largest rooms overall
func candidateRooms(session Session, allRooms []int, modelInput model.ModelInput, evaluator predicateEvaluator) []int {
	legal := lo.Filter(allRooms, func(room int, _ int) bool {
		return evaluator.RoomTypeMatches(session, room) && evaluator.Fits(session, room)
	})
	if len(legal) > 0 {
		return legal
	}

	largest := func(rooms []int) []int {
		capacity := lo.Max(lo.Map(rooms, func(room int, _ int) int { return modelInput.Rooms[room].Capacity }))
		return lo.Filter(rooms, func(room int, _ int) bool { return modelInput.Rooms[room].Capacity == capacity })
	}

	if typed := lo.Filter(allRooms, func(room int, _ int) bool { return evaluator.RoomTypeMatches(session, room) }); len(typed) > 0 {
		return largest(typed)
	}
	if fitting := lo.Filter(allRooms, func(room int, _ int) bool { return evaluator.Fits(session, room) }); len(fitting) > 0 {
		return fitting
	}
	return largest(allRooms)
}

// Sessions returns the session enumerated at every chromosome position
func (encoder *Encoder) Sessions() []Session {
	return encoder.sessions
}

// Length returns the fixed chromosome length
func (encoder *Encoder) Length() int {
	return len(encoder.sessions)
}

// Random builds a chromosome whose every gene is a random candidate
func (encoder *Encoder) Random(rng *rand.Rand) Chromosome {
	chromosome := Chromosome{Genes: make([]Gene, len(encoder.sessions))}
	for i := range chromosome.Genes {
		encoder.Redraw(rng, &chromosome.Genes[i], i)
	}
	return chromosome
}

// Redraw replaces the gene of the session at the given position with a fresh random candidate
func (encoder *Encoder) Redraw(rng *rand.Rand, gene *Gene, session int) {
	rooms := encoder.rooms[session]
	gene.Slot = encoder.slots[rng.IntN(len(encoder.slots))]
	gene.Room = rooms[rng.IntN(len(rooms))]
}

// Decode turns the chromosome into its timetable, one assignment per gene in chromosome order
func (encoder *Encoder) Decode(chromosome Chromosome) []model.Assignment {
	encoder.assertLength(chromosome)

	assignments := make([]model.Assignment, len(chromosome.Genes))
	for i, gene := range chromosome.Genes {
		session := encoder.sessions[i]
		slot := encoder.modelInput.Slots[gene.Slot]

		assignments[i] = model.Assignment{
			Day:       slot.Day,
			Slot:      slot.Id,
			Start:     slot.Start,
			End:       slot.End,
			Course:    session.Code,
			ClassType: session.ClassType,
			Session:   session.Ordinal,
			Group:     encoder.modelInput.Groups[session.Group],
			Faculty:   encoder.modelInput.Faculty[session.Faculty].Id,
			Room:      encoder.modelInput.Rooms[gene.Room].Id,
		}
	}
	return assignments
}

// Encode turns a decoded timetable back into its chromosome. Assignments must be in chromosome order
func (encoder *Encoder) Encode(assignments []model.Assignment) (Chromosome, error) {
	if len(assignments) != len(encoder.sessions) {
		return Chromosome{}, fmt.Errorf("expected %d assignments, got %d", len(encoder.sessions), len(assignments))
	}

	chromosome := Chromosome{Genes: make([]Gene, len(assignments))}
	for i, assignment := range assignments {
		session := encoder.sessions[i]
		if assignment.Course != session.Code || assignment.ClassType != session.ClassType || assignment.Session != session.Ordinal {
			return Chromosome{}, fmt.Errorf("assignment %d is %v/%v#%d but the session at that position is %v/%v#%d",
				i, assignment.Course, assignment.ClassType, assignment.Session, session.Code, session.ClassType, session.Ordinal)
		}

		slot, ok := encoder.modelInput.SlotIndex[assignment.Slot]
		if !ok {
			return Chromosome{}, fmt.Errorf("assignment %d references unknown slot %q", i, assignment.Slot)
		}
		room, ok := encoder.modelInput.RoomIndex[assignment.Room]
		if !ok {
			return Chromosome{}, fmt.Errorf("assignment %d references unknown room %q", i, assignment.Room)
		}

		chromosome.Genes[i] = Gene{Slot: slot, Room: room}
	}
	return chromosome, nil
}

func (encoder *Encoder) assertLength(chromosome Chromosome) {
	if len(chromosome.Genes) != len(encoder.sessions) {
		log.Panicf("chromosome length %d does not match the %d required sessions", len(chromosome.Genes), len(encoder.sessions))
	}
}
