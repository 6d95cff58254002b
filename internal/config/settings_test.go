package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != DefaultSettings() {
		t.Fatalf("expected defaults for a missing file, got %+v", got)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	body := "population_size = 200\nrounds = 50\nsurvivor_ratio = 0.4\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed writing fixture: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PopulationSize != 200 || got.Rounds != 50 || got.SurvivorRatio != 0.4 {
		t.Fatalf("expected overrides to apply, got %+v", got)
	}
	// Fields absent from the TOML body should keep their defaults.
	if got.RebalanceWindow != DefaultSettings().RebalanceWindow {
		t.Fatalf("expected unset field to keep its default, got %v", got.RebalanceWindow)
	}
}

func TestValidateRejectsBadPopulationSize(t *testing.T) {
	s := DefaultSettings()
	s.PopulationSize = 0
	if err := s.Validate(); err == nil {
		t.Fatal("expected an error for a non-positive population size")
	}
}

func TestLoadDerivesCrossoverProbabilityFromMutationProbability(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	body := "mutation_probability = 0.3\ncrossover_probability = 0.9\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed writing fixture: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CrossoverProbability != 0.7 {
		t.Fatalf("expected crossover_probability to be derived as 1-0.3=0.7 regardless of the file, got %v", got.CrossoverProbability)
	}
}

func TestValidateRejectsBadSurvivorRatio(t *testing.T) {
	s := DefaultSettings()
	s.SurvivorRatio = 1.5
	if err := s.Validate(); err == nil {
		t.Fatal("expected an error for a survivor ratio above 1")
	}
}
