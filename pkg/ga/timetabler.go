package ga

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/limaJavier/timetabling/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type Timetabler interface {
	Build(
		ctx context.Context,
		modelInput model.ModelInput,
	) (Result, error)

	Verify(
		assignments []model.Assignment,
		modelInput model.ModelInput,
	) bool
}

type Status string

const (
	StatusOptimal    Status = "optimal"
	StatusBestEffort Status = "best-effort"
	StatusInfeasible Status = "infeasible"
)

var ErrInfeasible = errors.New("timetable is infeasible")

// InfeasibleError names the sessions no timetable can place. It is returned together with the best-effort result
type InfeasibleError struct {
	Diagnostics []Diagnostic
}

func (err *InfeasibleError) Error() string {
	return fmt.Sprintf("%v: %d session(s) cannot be placed: %v", ErrInfeasible, len(err.Diagnostics), strings.Join(
		lo.Map(err.Diagnostics, func(diagnostic Diagnostic, _ int) string { return diagnostic.String() }), "; ",
	))
}

func (err *InfeasibleError) Unwrap() error {
	return ErrInfeasible
}

type TrialSummary struct {
	Seed        uint64     `json:"seed"`
	Penalty     int        `json:"penalty"`
	Generations int        `json:"generations"`
	StopReason  StopReason `json:"stopReason"`
}

type Result struct {
	Assignments []model.Assignment `json:"assignments"`
	Penalty     int                `json:"penalty"`
	Breakdown   Breakdown          `json:"breakdown"`
	Generations int                `json:"generations"`
	StopReason  StopReason         `json:"stopReason"`
	Status      Status             `json:"status"`
	Seed        uint64             `json:"seed"`    // Seed of the trial that produced the assignments
	History     []int              `json:"history"` // Best-so-far penalty of the winning trial, per generation
	Diagnostics []Diagnostic       `json:"diagnostics"`
	Trials      []TrialSummary     `json:"trials"`
	Duration    time.Duration      `json:"duration"`
}

type geneticTimetabler struct {
	config Config
	logger *zap.Logger
}

func NewGeneticTimetabler(config Config, logger *zap.Logger) (Timetabler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &geneticTimetabler{
		config: config,
		logger: logger,
	}, nil
}

func (timetabler *geneticTimetabler) Build(ctx context.Context, modelInput model.ModelInput) (Result, error) {
	start := time.Now()

	//** Initialize dependencies
	evaluator := newPredicateEvaluator(modelInput)
	encoder := newEncoder(modelInput, evaluator)
	sessions := encoder.Sessions()
	fitness := newFitnessEvaluator(modelInput, sessions, evaluator, timetabler.config.Weights)
	manager := newPopulationManager(timetabler.config, encoder, fitness, timetabler.logger)

	//** Analyze feasibility
	diagnostics := analyzeFeasibility(modelInput, sessions, evaluator)
	for _, diagnostic := range diagnostics {
		timetabler.logger.Warn("session cannot be placed",
			zap.String("course", diagnostic.Course),
			zap.String("classType", string(diagnostic.ClassType)),
			zap.Int("ordinal", diagnostic.Ordinal),
			zap.String("reason", string(diagnostic.Reason)),
			zap.String("detail", diagnostic.Detail),
		)
	}

	seed := rand.Uint64()
	if timetabler.config.Seed != nil {
		seed = *timetabler.config.Seed
	}

	timetabler.logger.Info("timetable construction started",
		zap.Int("sessions", len(sessions)),
		zap.Uint64("seed", seed),
		zap.Int("trials", timetabler.config.Trials),
		zap.Int("population", timetabler.config.PopulationSize),
		zap.Int("workers", manager.workers),
	)

	//** Search
	var best searchOutcome
	var bestSeed uint64
	trials := make([]TrialSummary, 0, timetabler.config.Trials)
	for i := range timetabler.config.Trials {
		trialSeed := seed + uint64(i)
		outcome := manager.run(ctx, trialSeed)
		trials = append(trials, TrialSummary{
			Seed:        trialSeed,
			Penalty:     outcome.best.penalty,
			Generations: outcome.generations,
			StopReason:  outcome.stopReason,
		})
		timetabler.logger.Debug("trial finished",
			zap.Int("trial", i),
			zap.Uint64("seed", trialSeed),
			zap.Int("penalty", outcome.best.penalty),
			zap.String("stopReason", string(outcome.stopReason)),
		)

		if i == 0 || outcome.best.penalty < best.best.penalty {
			best, bestSeed = outcome, trialSeed
		}
		if best.best.penalty == 0 || outcome.stopReason == StopCancelled {
			break
		}
	}

	//** Assemble result
	breakdown := fitness.Breakdown(best.best.chromosome)
	result := Result{
		Assignments: encoder.Decode(best.best.chromosome),
		Penalty:     breakdown.Penalty,
		Breakdown:   breakdown,
		Generations: best.generations,
		StopReason:  best.stopReason,
		Seed:        bestSeed,
		History:     best.history,
		Diagnostics: diagnostics,
		Trials:      trials,
		Duration:    time.Since(start),
	}
	switch {
	case len(diagnostics) > 0:
		result.Status = StatusInfeasible
	case result.Penalty == 0:
		result.Status = StatusOptimal
	default:
		result.Status = StatusBestEffort
	}

	timetabler.logger.Info("timetable construction finished",
		zap.String("status", string(result.Status)),
		zap.Int("penalty", result.Penalty),
		zap.Int("generations", result.Generations),
		zap.String("stopReason", string(result.StopReason)),
		zap.Duration("duration", result.Duration),
	)

	if len(diagnostics) > 0 {
		return result, &InfeasibleError{Diagnostics: diagnostics}
	}
	return result, nil
}

func (timetabler *geneticTimetabler) Verify(assignments []model.Assignment, modelInput model.ModelInput) bool {
	return verify(assignments, modelInput)
}
