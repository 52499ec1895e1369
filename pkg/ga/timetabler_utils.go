package ga

import (
	"github.com/limaJavier/timetabling/pkg/model"
)

type sessionKey struct {
	course    string
	classType model.ClassType
	ordinal   int
}

// verify re-checks every hard constraint on a decoded timetable, independently of the chromosome that produced it
func verify(assignments []model.Assignment, modelInput model.ModelInput) bool {
	evaluator := newPredicateEvaluator(modelInput)
	sessions := enumerateSessions(modelInput)

	//** Index required sessions
	required := make(map[sessionKey]Session, len(sessions))
	for _, session := range sessions {
		required[sessionKey{session.Code, session.ClassType, session.Ordinal}] = session
	}
	if len(assignments) != len(required) {
		return false
	}

	slots := len(modelInput.Slots)
	facultyIndexer := model.NewIndexer(len(modelInput.Faculty), slots)
	roomIndexer := model.NewIndexer(len(modelInput.Rooms), slots)
	groupIndexer := model.NewIndexer(len(modelInput.Groups), slots)
	facultyAssistance := make([]bool, facultyIndexer.Cells())
	roomAssistance := make([]bool, roomIndexer.Cells())
	groupAssistance := make([]bool, groupIndexer.Cells())

	placed := make(map[sessionKey]bool, len(assignments))

	for _, assignment := range assignments {
		key := sessionKey{assignment.Course, assignment.ClassType, assignment.Session}
		session, ok := required[key]
		slot, slotOk := modelInput.SlotIndex[assignment.Slot]
		room, roomOk := modelInput.RoomIndex[assignment.Room]
		faculty, facultyOk := modelInput.FacultyIndex[assignment.Faculty]
		group, groupOk := modelInput.GroupIndex[assignment.Group]

		// Check that:
		// - The session is required and placed only once
		// - Every referenced entity exists and matches the course's faculty and group
		// - The slot accepts sessions and the faculty may teach the course
		// - The room is of the required type and holds the students
		// - Neither the faculty, the room nor the group is already busy at the slot
		if !ok || placed[key] || !slotOk || !roomOk || !facultyOk || !groupOk ||
			faculty != session.Faculty || group != session.Group ||
			!evaluator.Assignable(slot) || !evaluator.Qualified(session) ||
			!evaluator.RoomTypeMatches(session, room) || !evaluator.Fits(session, room) ||
			facultyAssistance[facultyIndexer.Index(faculty, slot)] ||
			roomAssistance[roomIndexer.Index(room, slot)] ||
			groupAssistance[groupIndexer.Index(group, slot)] {
			return false
		}

		placed[key] = true
		facultyAssistance[facultyIndexer.Index(faculty, slot)] = true
		roomAssistance[roomIndexer.Index(room, slot)] = true
		groupAssistance[groupIndexer.Index(group, slot)] = true
	}

	return len(placed) == len(required)
}
