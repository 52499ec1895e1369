package ga

import (
	"fmt"

	"github.com/limaJavier/timetabling/pkg/model"
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// Above this many session-cell pairs the room-time matching is skipped, the graph is built pair by pair
const maxMatchingPairs = 4_000_000

type Reason string

const (
	NoRoomOfType          Reason = "no-room-of-type"
	NoFittingRoom         Reason = "no-fitting-room"
	UnqualifiedFaculty    Reason = "unqualified-faculty"
	NoAssignableSlot      Reason = "no-assignable-slot"
	GroupOversubscribed   Reason = "group-oversubscribed"
	FacultyOversubscribed Reason = "faculty-oversubscribed"
	RoomTimeExhausted     Reason = "room-time-exhausted"
)

// Diagnostic flags a session that no timetable can place without violating a hard constraint
type Diagnostic struct {
	Session   int             `json:"session"` // Chromosome position
	Course    string          `json:"course"`
	ClassType model.ClassType `json:"classType"`
	Ordinal   int             `json:"ordinal"`
	Reason    Reason          `json:"reason"`
	Detail    string          `json:"detail"`
}

func (diagnostic Diagnostic) String() string {
	return fmt.Sprintf("%v/%v#%d: %v (%v)", diagnostic.Course, diagnostic.ClassType, diagnostic.Ordinal, diagnostic.Reason, diagnostic.Detail)
}

func newDiagnostic(position int, session Session, reason Reason, format string, args ...any) Diagnostic {
	return Diagnostic{
		Session:   position,
		Course:    session.Code,
		ClassType: session.ClassType,
		Ordinal:   session.Ordinal,
		Reason:    reason,
		Detail:    fmt.Sprintf(format, args...),
	}
}

// analyzeFeasibility looks for sessions that are structurally impossible to place. An empty result does not prove the
// input feasible, every check is a necessary condition only
func analyzeFeasibility(modelInput model.ModelInput, sessions []Session, evaluator predicateEvaluator) []Diagnostic {
	diagnostics := make([]Diagnostic, 0)

	assignableSlots := lo.Filter(lo.Range(len(modelInput.Slots)), func(slot int, _ int) bool { return evaluator.Assignable(slot) })
	legalRooms := make([][]int, len(sessions))

	//** Per session
	for i, session := range sessions {
		typed := modelInput.RoomsByType[session.RoomType]
		legalRooms[i] = lo.Filter(typed, func(room int, _ int) bool { return evaluator.Fits(session, room) })

		if len(typed) == 0 {
			diagnostics = append(diagnostics, newDiagnostic(i, session, NoRoomOfType, "no room of type %q exists", session.RoomType))
		} else if len(legalRooms[i]) == 0 {
			diagnostics = append(diagnostics, newDiagnostic(i, session, NoFittingRoom,
				"no room of type %q holds %d students", session.RoomType, session.Students))
		}
		if !evaluator.Qualified(session) {
			diagnostics = append(diagnostics, newDiagnostic(i, session, UnqualifiedFaculty,
				"faculty %q cannot teach %v", modelInput.FacultyName(session.Faculty), session.Code))
		}
		if len(assignableSlots) == 0 {
			diagnostics = append(diagnostics, newDiagnostic(i, session, NoAssignableSlot, "no slot accepts sessions"))
		}
	}
	if len(assignableSlots) == 0 {
		return diagnostics
	}

	//** Per group and faculty
	oversubscribed := func(reason Reason, key func(Session) int, name func(int) string) {
		positions := lo.GroupBy(lo.Range(len(sessions)), func(i int) int { return key(sessions[i]) })
		for _, entity := range lo.Uniq(lo.Map(sessions, func(session Session, _ int) int { return key(session) })) {
			if len(positions[entity]) <= len(assignableSlots) {
				continue
			}
			// Sessions beyond the available slots are the ones flagged
			for _, i := range positions[entity][len(assignableSlots):] {
				diagnostics = append(diagnostics, newDiagnostic(i, sessions[i], reason, "%v needs %d sessions but only %d slots are assignable",
					name(entity), len(positions[entity]), len(assignableSlots)))
			}
		}
	}
	oversubscribed(GroupOversubscribed,
		func(session Session) int { return session.Group },
		func(group int) string { return fmt.Sprintf("group %q", modelInput.Groups[group]) },
	)
	oversubscribed(FacultyOversubscribed,
		func(session Session) int { return session.Faculty },
		func(faculty int) string { return fmt.Sprintf("faculty %q", modelInput.FacultyName(faculty)) },
	)

	//** Room-time matching
	diagnostics = append(diagnostics, matchRoomTime(modelInput, sessions, legalRooms, assignableSlots)...)

	return diagnostics
}

// matchRoomTime matches sessions to the (slot, room) cells they may legally occupy. A session left out of a maximum
// matching cannot be given a cell of its own
func matchRoomTime(modelInput model.ModelInput, sessions []Session, legalRooms [][]int, assignableSlots []int) []Diagnostic {
	indexer := model.NewIndexer(len(modelInput.Rooms), len(modelInput.Slots))

	// Sessions without any legal room are already reported
	candidates := lo.Filter(lo.Range(len(sessions)), func(i int, _ int) bool { return len(legalRooms[i]) > 0 })
	rooms := lo.Uniq(lo.Flatten(lo.Map(candidates, func(i int, _ int) []int { return legalRooms[i] })))

	cells := make([]int, 0, len(rooms)*len(assignableSlots))
	for _, room := range rooms {
		for _, slot := range assignableSlots {
			cells = append(cells, indexer.Index(room, slot))
		}
	}
	if len(candidates) == 0 || len(candidates)*len(cells) > maxMatchingPairs {
		return nil
	}

	legal := make([]map[int]bool, len(sessions))
	for _, i := range candidates {
		legal[i] = lo.SliceToMap(legalRooms[i], func(room int) (int, bool) { return room, true })
	}

	neighbours := func(sessionAny any, cellAny any) (bool, error) {
		room, _ := indexer.Attributes(cellAny.(int))
		return legal[sessionAny.(int)][room], nil
	}

	candidatesAny, cellsAny := lo.Map(candidates, func(i int, _ int) any { return i }), lo.Map(cells, func(cell int, _ int) any { return cell })
	graph, err := bipartitegraph.NewBipartiteGraph(candidatesAny, cellsAny, neighbours)
	if err != nil {
		// The predicate never fails
		panic(err)
	}

	matching := graph.LargestMatching()
	if len(matching) == len(candidates) {
		return nil
	}

	matched := make(map[int]bool, len(matching))
	for _, edge := range matching {
		matched[candidates[edge.Node1]] = true
	}

	diagnostics := make([]Diagnostic, 0, len(candidates)-len(matching))
	for _, i := range candidates {
		if !matched[i] {
			diagnostics = append(diagnostics, newDiagnostic(i, sessions[i], RoomTimeExhausted,
				"every legal (slot, room) pair is taken by another session"))
		}
	}
	return diagnostics
}
