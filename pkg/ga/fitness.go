package ga

import (
	"log"

	"github.com/limaJavier/timetabling/pkg/model"
)

// Breakdown counts every violation of one chromosome by penalty source
type Breakdown struct {
	FacultyClashes     int `json:"facultyClashes"`
	RoomClashes        int `json:"roomClashes"`
	GroupClashes       int `json:"groupClashes"`
	UnassignableSlots  int `json:"unassignableSlots"`
	UnqualifiedFaculty int `json:"unqualifiedFaculty"`
	CapacityViolations int `json:"capacityViolations"`
	RoomTypeMismatches int `json:"roomTypeMismatches"`
	Penalty            int `json:"penalty"`
}

// Hard returns the number of hard-constraint violations
func (breakdown Breakdown) Hard() int {
	return breakdown.FacultyClashes + breakdown.RoomClashes + breakdown.GroupClashes + breakdown.UnassignableSlots + breakdown.UnqualifiedFaculty
}

type fitnessEvaluator struct {
	sessions  []Session
	evaluator predicateEvaluator
	weights   Weights

	facultyIndexer model.Indexer
	roomIndexer    model.Indexer
	groupIndexer   model.Indexer
}

func newFitnessEvaluator(modelInput model.ModelInput, sessions []Session, evaluator predicateEvaluator, weights Weights) *fitnessEvaluator {
	slots := len(modelInput.Slots)
	return &fitnessEvaluator{
		sessions:       sessions,
		evaluator:      evaluator,
		weights:        weights,
		facultyIndexer: model.NewIndexer(len(modelInput.Faculty), slots),
		roomIndexer:    model.NewIndexer(len(modelInput.Rooms), slots),
		groupIndexer:   model.NewIndexer(len(modelInput.Groups), slots),
	}
}

// Evaluate returns the weighted penalty of the chromosome, 0 meaning every constraint is satisfied
func (fitness *fitnessEvaluator) Evaluate(chromosome Chromosome) int {
	return fitness.Breakdown(chromosome).Penalty
}

// Breakdown counts the violations of the chromosome. A clash of n sessions on the same cell counts as n-1 violations
func (fitness *fitnessEvaluator) Breakdown(chromosome Chromosome) Breakdown {
	if len(chromosome.Genes) != len(fitness.sessions) {
		log.Panicf("chromosome length %d does not match the %d required sessions", len(chromosome.Genes), len(fitness.sessions))
	}

	facultyOccupancy := make([]int, fitness.facultyIndexer.Cells())
	roomOccupancy := make([]int, fitness.roomIndexer.Cells())
	groupOccupancy := make([]int, fitness.groupIndexer.Cells())

	var breakdown Breakdown
	occupy := func(occupancy []int, index int) int {
		occupancy[index]++
		if occupancy[index] > 1 {
			return 1
		}
		return 0
	}

	for i, gene := range chromosome.Genes {
		session := fitness.sessions[i]

		//** Hard
		breakdown.FacultyClashes += occupy(facultyOccupancy, fitness.facultyIndexer.Index(session.Faculty, gene.Slot))
		breakdown.RoomClashes += occupy(roomOccupancy, fitness.roomIndexer.Index(gene.Room, gene.Slot))
		breakdown.GroupClashes += occupy(groupOccupancy, fitness.groupIndexer.Index(session.Group, gene.Slot))
		if !fitness.evaluator.Assignable(gene.Slot) {
			breakdown.UnassignableSlots++
		}
		if !fitness.evaluator.Qualified(session) {
			breakdown.UnqualifiedFaculty++
		}

		//** Soft
		if !fitness.evaluator.Fits(session, gene.Room) {
			breakdown.CapacityViolations++
		}
		if !fitness.evaluator.RoomTypeMatches(session, gene.Room) {
			breakdown.RoomTypeMismatches++
		}
	}

	weights := fitness.weights
	breakdown.Penalty = breakdown.FacultyClashes*weights.FacultyClash +
		breakdown.RoomClashes*weights.RoomClash +
		breakdown.GroupClashes*weights.GroupClash +
		breakdown.UnassignableSlots*weights.UnassignableSlot +
		breakdown.UnqualifiedFaculty*weights.UnqualifiedFaculty +
		breakdown.CapacityViolations*weights.Capacity +
		breakdown.RoomTypeMismatches*weights.RoomType

	return breakdown
}
