package ga

import (
	"fmt"
	"slices"
)

// Weights of every penalty source. Hard weights must all be strictly greater than soft weights so that the search
// settles feasibility before polish
type Weights struct {
	// Hard
	FacultyClash       int `env:"FACULTY_CLASH"`
	RoomClash          int `env:"ROOM_CLASH"`
	GroupClash         int `env:"GROUP_CLASH"`
	UnassignableSlot   int `env:"UNASSIGNABLE_SLOT"`
	UnqualifiedFaculty int `env:"UNQUALIFIED_FACULTY"`

	// Soft
	Capacity int `env:"CAPACITY"`
	RoomType int `env:"ROOM_TYPE"`
}

func (weights Weights) hard() []int {
	return []int{weights.FacultyClash, weights.RoomClash, weights.GroupClash, weights.UnassignableSlot, weights.UnqualifiedFaculty}
}

func (weights Weights) soft() []int {
	return []int{weights.Capacity, weights.RoomType}
}

func (weights Weights) Validate() error {
	if slices.Min(slices.Concat(weights.hard(), weights.soft())) < 0 {
		return fmt.Errorf("penalty weights must be non-negative: %+v", weights)
	}
	if hard, soft := slices.Min(weights.hard()), slices.Max(weights.soft()); hard <= soft {
		return fmt.Errorf("every hard weight must be greater than every soft weight (smallest hard %d, largest soft %d)", hard, soft)
	}
	return nil
}

type Config struct {
	PopulationSize  int     `env:"POPULATION_SIZE"`
	MaxGenerations  int     `env:"MAX_GENERATIONS"`
	TournamentSize  int     `env:"TOURNAMENT_SIZE"`
	CrossoverRate   float64 `env:"CROSSOVER_RATE"`
	MutationRate    float64 `env:"MUTATION_RATE"` // Per gene
	Elitism         bool    `env:"ELITISM"`
	PlateauPatience int     `env:"PLATEAU_PATIENCE"` // Generations without improvement before stopping; 0 disables plateau detection
	Workers         int     `env:"WORKERS"`          // Goroutines per parallel phase; 0 means GOMAXPROCS
	Trials          int     `env:"TRIALS"`           // Independent searches with consecutive seeds, the best one is kept
	Seed            *uint64 `env:"SEED"`             // Nil means a random seed is drawn and reported
	Weights         Weights `envPrefix:"WEIGHT_"`
}

func DefaultConfig() Config {
	return Config{
		PopulationSize:  80,
		MaxGenerations:  150,
		TournamentSize:  3,
		CrossoverRate:   0.9,
		MutationRate:    0.08,
		Elitism:         true,
		PlateauPatience: 30,
		Workers:         0,
		Trials:          1,
		Weights: Weights{
			FacultyClash:       1000,
			RoomClash:          1000,
			GroupClash:         1000,
			UnassignableSlot:   1000,
			UnqualifiedFaculty: 1000,
			Capacity:           100,
			RoomType:           10,
		},
	}
}

func (config Config) Validate() error {
	if config.PopulationSize < 2 {
		return fmt.Errorf("population size must be at least 2: %d", config.PopulationSize)
	} else if config.MaxGenerations < 1 {
		return fmt.Errorf("max generations must be at least 1: %d", config.MaxGenerations)
	} else if config.TournamentSize < 1 {
		return fmt.Errorf("tournament size must be at least 1: %d", config.TournamentSize)
	} else if config.CrossoverRate < 0 || config.CrossoverRate > 1 {
		return fmt.Errorf("crossover rate must be within [0, 1]: %v", config.CrossoverRate)
	} else if config.MutationRate < 0 || config.MutationRate > 1 {
		return fmt.Errorf("mutation rate must be within [0, 1]: %v", config.MutationRate)
	} else if config.PlateauPatience < 0 {
		return fmt.Errorf("plateau patience must be non-negative: %d", config.PlateauPatience)
	} else if config.Workers < 0 {
		return fmt.Errorf("workers must be non-negative: %d", config.Workers)
	} else if config.Trials < 1 {
		return fmt.Errorf("trials must be at least 1: %d", config.Trials)
	}
	return config.Weights.Validate()
}
