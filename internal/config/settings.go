// Package config handles loading and defaulting the run-time tunables
// of a distributed timetabling run from a TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Settings holds every tunable of a run. Field names mirror
// original_source/settings.h, trimmed of the XML-specific bits (that
// format is out of scope here; TOML replaces it, per the teacher's own
// config idiom).
type Settings struct {
	// PopulationSize is the target population size before LCM-based
	// rounding up to a multiple of lcm(world size, survivor count).
	PopulationSize int `toml:"population_size"`
	// SurvivorRatio is the fraction of each round's population kept by
	// tournament selection.
	SurvivorRatio float64 `toml:"survivor_ratio"`
	// Rounds is the number of generations to run.
	Rounds int `toml:"rounds"`
	// RebalanceWindow is how many rounds pass between dynamic per-rank
	// workload rebalancing decisions (every W rounds, skipping 0 and 1).
	RebalanceWindow int `toml:"rebalance_window"`
	// MutationProbability is the chance a given offspring is produced by
	// mutating one survivor instead of by crossover.
	MutationProbability float64 `toml:"mutation_probability"`
	// CrossoverProbability is the chance a given offspring is produced by
	// crossover of two survivors instead of by mutation of one.
	// Always derived as 1-MutationProbability after loading (see Load),
	// exactly as the original computes it post-load rather than reading
	// it from its settings file; the field stays exported so callers can
	// read the resolved value.
	CrossoverProbability float64 `toml:"-"`
	// StatsRoundDivisor controls how often (every N rounds) population
	// statistics are logged.
	StatsRoundDivisor int `toml:"stats_round_divisor"`

	// InputPath is the entity dataset (professors, classrooms, students,
	// subjects) to load for the run.
	InputPath string `toml:"input_path"`
	// OutputPath is where the final best Timetable is exported as JSON.
	OutputPath string `toml:"output_path"`
}

// DefaultSettings returns conservative defaults suitable for a small
// local smoke-test run.
func DefaultSettings() Settings {
	s := Settings{
		PopulationSize:       64,
		SurvivorRatio:        0.5,
		Rounds:               100,
		RebalanceWindow:      3,
		MutationProbability:  0.1,
		StatsRoundDivisor:    10,
		InputPath:            "./input.json",
		OutputPath:           "./result.json",
	}
	s.CrossoverProbability = 1 - s.MutationProbability
	return s
}

// Load reads Settings from a TOML file at path. A missing file is not
// an error: it yields DefaultSettings, matching the teacher's
// LoadConfig fallback behaviour. CrossoverProbability is always derived
// as 1-MutationProbability after parsing, never read from the file.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return DefaultSettings(), fmt.Errorf("config: read %s: %w", path, err)
	}

	settings := DefaultSettings()
	if err := toml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	settings.CrossoverProbability = 1 - settings.MutationProbability
	return settings, nil
}

// Validate catches the settings combinations that would make the
// cluster's population-sizing or rebalancing arithmetic meaningless.
func (s Settings) Validate() error {
	if s.PopulationSize <= 0 {
		return fmt.Errorf("config: population_size must be positive, got %d", s.PopulationSize)
	}
	if s.SurvivorRatio <= 0 || s.SurvivorRatio > 1 {
		return fmt.Errorf("config: survivor_ratio must be in (0, 1], got %v", s.SurvivorRatio)
	}
	if s.Rounds <= 0 {
		return fmt.Errorf("config: rounds must be positive, got %d", s.Rounds)
	}
	if s.RebalanceWindow <= 0 {
		return fmt.Errorf("config: rebalance_window must be positive, got %d", s.RebalanceWindow)
	}
	return nil
}
