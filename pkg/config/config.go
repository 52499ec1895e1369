package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/limaJavier/timetabling/pkg/ga"
	"github.com/mitchellh/mapstructure"
)

const EnvPrefix = "TIMETABLE_"

type Log struct {
	Level  string `env:"LEVEL"`
	Format string `env:"FORMAT"` // "console" or "json"
}

type Config struct {
	Engine ga.Config
	Log    Log `envPrefix:"LOG_"`
}

func Default() Config {
	return Config{
		Engine: ga.DefaultConfig(),
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load layers the configuration: defaults, then the JSON file (when path is not empty), then TIMETABLE_* environment
// variables. The result is validated
func Load(path string) (Config, error) {
	config := Default()

	if path != "" {
		if err := decodeFile(path, &config); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&config, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("cannot parse environment: %w", err)
	}

	if err := config.Engine.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid engine configuration: %w", err)
	}
	return config, nil
}

// decodeFile overrides the fields present in the file. Keys match field names case-insensitively and unknown keys are
// rejected
func decodeFile(path string, config *Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read config file: %w", err)
	}

	// Numbers are kept as json.Number so that 64-bit seeds survive decoding
	decoder := json.NewDecoder(bytes.NewReader(content))
	decoder.UseNumber()
	var configJson map[string]any
	if err := decoder.Decode(&configJson); err != nil {
		return fmt.Errorf("cannot parse config file: %w", err)
	}

	mapDecoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      config,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	if err := mapDecoder.Decode(configJson); err != nil {
		return fmt.Errorf("cannot decode config file: %w", err)
	}
	return nil
}
