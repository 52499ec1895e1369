package ga

import (
	"context"
)

type StopReason string

const (
	StopPerfect        StopReason = "perfect"
	StopPlateau        StopReason = "plateau"
	StopMaxGenerations StopReason = "max-generations"
	StopCancelled      StopReason = "cancelled"
)

// convergenceController decides after every generation whether the search goes on
type convergenceController struct {
	maxGenerations int
	patience       int // 0 disables plateau detection

	best       int
	stale      int // Generations since best last improved
	generation int
	observed   bool
}

func newConvergenceController(maxGenerations, patience int) *convergenceController {
	return &convergenceController{
		maxGenerations: maxGenerations,
		patience:       patience,
	}
}

// observe records the best-so-far penalty after initialization (generation 0) or after a generation
func (controller *convergenceController) observe(generation, best int) {
	controller.generation = generation
	if !controller.observed || best < controller.best {
		controller.best = best
		controller.stale = 0
	} else if generation > 0 {
		controller.stale++
	}
	controller.observed = true
}

// shouldStop returns the reason the search must stop, if any. Reasons are checked in a fixed order: perfect score,
// plateau, generation limit and finally cancellation
func (controller *convergenceController) shouldStop(ctx context.Context) (StopReason, bool) {
	if controller.observed && controller.best == 0 {
		return StopPerfect, true
	} else if controller.patience > 0 && controller.stale >= controller.patience {
		return StopPlateau, true
	} else if controller.generation >= controller.maxGenerations {
		return StopMaxGenerations, true
	} else if ctx.Err() != nil {
		return StopCancelled, true
	}
	return "", false
}
