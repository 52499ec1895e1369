package ga

import (
	"github.com/limaJavier/timetabling/pkg/model"
)

type predicateEvaluatorStandard struct {
	modelInput model.ModelInput
	assignable []bool // Per slot
	qualified  []bool // Per course
}

func newPredicateEvaluator(modelInput model.ModelInput) predicateEvaluator {
	evaluator := predicateEvaluatorStandard{
		modelInput: modelInput,
		assignable: make([]bool, len(modelInput.Slots)),
		qualified:  make([]bool, len(modelInput.Courses)),
	}

	for slot := range modelInput.Slots {
		evaluator.assignable[slot] = modelInput.Assignable(slot)
	}
	for course := range modelInput.Courses {
		evaluator.qualified[course] = modelInput.Qualified(course)
	}

	return &evaluator
}

func (evaluator *predicateEvaluatorStandard) Assignable(slot int) bool {
	return evaluator.assignable[slot]
}

func (evaluator *predicateEvaluatorStandard) Qualified(session Session) bool {
	return evaluator.qualified[session.Course]
}

func (evaluator *predicateEvaluatorStandard) RoomTypeMatches(session Session, room int) bool {
	return evaluator.modelInput.Rooms[room].Type == session.RoomType
}

func (evaluator *predicateEvaluatorStandard) Fits(session Session, room int) bool {
	return evaluator.modelInput.Rooms[room].Capacity >= session.Students
}
