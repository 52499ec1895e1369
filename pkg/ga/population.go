package ga

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

type phase int

const (
	initializing phase = iota
	evolving
	converged
)

func (p phase) String() string {
	switch p {
	case initializing:
		return "initializing"
	case evolving:
		return "evolving"
	case converged:
		return "converged"
	}
	return "unknown"
}

type individual struct {
	chromosome Chromosome
	penalty    int
}

// population holds the chromosomes of one generation and their penalties, position by position
type population struct {
	chromosomes []Chromosome
	penalties   []int
}

// best returns a deep copy of the member with the lowest penalty, the lowest position winning ties
func (current population) best() individual {
	winner := 0
	for i, penalty := range current.penalties {
		if penalty < current.penalties[winner] {
			winner = i
		}
	}
	return individual{
		chromosome: current.chromosomes[winner].Clone(),
		penalty:    current.penalties[winner],
	}
}

type searchOutcome struct {
	best        individual
	generations int
	stopReason  StopReason
	history     []int // Best-so-far penalty after initialization and after every generation
}

type populationManager struct {
	config  Config
	encoder *Encoder
	fitness *fitnessEvaluator
	logger  *zap.Logger
	workers int
	phase   phase
}

func newPopulationManager(config Config, encoder *Encoder, fitness *fitnessEvaluator, logger *zap.Logger) *populationManager {
	workers := config.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &populationManager{
		config:  config,
		encoder: encoder,
		fitness: fitness,
		logger:  logger,
		workers: workers,
	}
}

func (manager *populationManager) setPhase(next phase) {
	manager.logger.Debug("population phase changed", zap.Stringer("from", manager.phase), zap.Stringer("to", next))
	manager.phase = next
}

// run searches until the convergence controller stops it and returns the best chromosome ever evaluated
func (manager *populationManager) run(ctx context.Context, seed uint64) searchOutcome {
	controller := newConvergenceController(manager.config.MaxGenerations, manager.config.PlateauPatience)

	//** Initialize
	manager.phase = initializing
	current := manager.initialize(seed)
	best := current.best()
	history := []int{best.penalty}
	controller.observe(0, best.penalty)

	//** Evolve
	manager.setPhase(evolving)
	generation := 0
	var reason StopReason
	for {
		var stop bool
		if reason, stop = controller.shouldStop(ctx); stop {
			break
		}

		generation++
		current = manager.evolve(seed, generation, current, best)
		if candidate := current.best(); candidate.penalty < best.penalty {
			best = candidate
		}
		history = append(history, best.penalty)
		controller.observe(generation, best.penalty)

		manager.logger.Debug("generation evolved",
			zap.Int("generation", generation),
			zap.Int("best", best.penalty),
			zap.Int("stale", controller.stale),
		)
	}
	manager.setPhase(converged)

	return searchOutcome{
		best:        best,
		generations: generation,
		stopReason:  reason,
		history:     history,
	}
}

// initialize fills the population with random chromosomes, slot i drawing from its own stream
func (manager *populationManager) initialize(seed uint64) population {
	chromosomes := make([]Chromosome, manager.config.PopulationSize)

	p := pool.New().WithMaxGoroutines(manager.workers)
	for i := range chromosomes {
		p.Go(func() {
			chromosomes[i] = manager.encoder.Random(stream(seed, 0, i))
		})
	}
	p.Wait()

	return population{
		chromosomes: chromosomes,
		penalties:   manager.evaluate(chromosomes),
	}
}

// evolve breeds the next generation out of the previous one, which is only read. Children are independent of each
// other and of worker scheduling since slot i of generation g always draws from the same stream
func (manager *populationManager) evolve(seed uint64, generation int, previous population, elite individual) population {
	chromosomes := make([]Chromosome, len(previous.chromosomes))

	start := 0
	if manager.config.Elitism {
		chromosomes[0] = elite.chromosome.Clone()
		start = 1
	}

	p := pool.New().WithMaxGoroutines(manager.workers)
	for i := start; i < len(chromosomes); i++ {
		p.Go(func() {
			rng := stream(seed, generation, i)
			a := tournament(rng, previous.penalties, manager.config.TournamentSize)
			b := tournament(rng, previous.penalties, manager.config.TournamentSize)
			child := crossover(rng, previous.chromosomes[a], previous.chromosomes[b], manager.config.CrossoverRate)
			mutate(rng, manager.encoder, &child, manager.config.MutationRate)
			chromosomes[i] = child
		})
	}
	p.Wait()

	return population{
		chromosomes: chromosomes,
		penalties:   manager.evaluate(chromosomes),
	}
}

// evaluate scores every chromosome into a fresh slice. Chromosomes are only read
func (manager *populationManager) evaluate(chromosomes []Chromosome) []int {
	penalties := make([]int, len(chromosomes))

	p := pool.New().WithMaxGoroutines(manager.workers)
	for i, chromosome := range chromosomes {
		p.Go(func() {
			penalties[i] = manager.fitness.Evaluate(chromosome)
		})
	}
	p.Wait()

	return penalties
}
