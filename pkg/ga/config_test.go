package ga

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := map[string]func(config *Config){
		"Population too small":    func(config *Config) { config.PopulationSize = 1 },
		"No generations":          func(config *Config) { config.MaxGenerations = 0 },
		"No tournament":           func(config *Config) { config.TournamentSize = 0 },
		"Crossover rate above 1":  func(config *Config) { config.CrossoverRate = 1.5 },
		"Negative mutation rate":  func(config *Config) { config.MutationRate = -0.1 },
		"Negative patience":       func(config *Config) { config.PlateauPatience = -1 },
		"Negative workers":        func(config *Config) { config.Workers = -2 },
		"No trials":               func(config *Config) { config.Trials = 0 },
		"Negative weight":         func(config *Config) { config.Weights.RoomType = -1 },
		"Soft weight equals hard": func(config *Config) { config.Weights.Capacity = config.Weights.RoomClash },
		"Hard weight below soft":  func(config *Config) { config.Weights.UnassignableSlot = 5 },
	}

	for name, corrupt := range tests {
		t.Run(name, func(t *testing.T) {
			config := DefaultConfig()
			corrupt(&config)
			assert.Error(t, config.Validate())
		})
	}
}
