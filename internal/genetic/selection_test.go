package genetic

import (
	"math/rand"
	"testing"
)

func individualsWithScores(scores ...float64) []Individual {
	out := make([]Individual, len(scores))
	for i, s := range scores {
		out[i] = Individual{Fitness: Fitness{Score: s}}
	}
	return out
}

// TestSelectKeepsFittestPerGroup covers spec.md Scenario C: a population
// with clearly separated scores must always keep the global best.
func TestSelectKeepsFittestPerGroup(t *testing.T) {
	sel := NewTournamentSelection(2)
	individuals := individualsWithScores(1, 2, 3, 4)
	rng := rand.New(rand.NewSource(1))

	survivors, err := sel.Select(individuals, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(survivors) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(survivors))
	}

	found4 := false
	for _, s := range survivors {
		if s.Fitness.Score == 4 {
			found4 = true
		}
	}
	if !found4 {
		t.Fatal("expected the single best individual to always survive")
	}
}

func TestSelectRejectsUnevenGroups(t *testing.T) {
	sel := NewTournamentSelection(3)
	individuals := individualsWithScores(1, 2, 3, 4)
	rng := rand.New(rand.NewSource(1))

	if _, err := sel.Select(individuals, rng); err == nil {
		t.Fatal("expected an error for a population size not divisible by group count")
	}
}

// TestSelectIndicesMatchesSelect covers the distributed engine's actual
// call path (SelectIndices, broadcast, then index into the locally held
// population) against the indexed Individuals it should be equivalent
// to — the two must never disagree given the same rng draws.
func TestSelectIndicesMatchesSelect(t *testing.T) {
	sel := NewTournamentSelection(2)
	individuals := individualsWithScores(1, 2, 3, 4)

	indices, err := sel.SelectIndices(individuals, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, err := sel.Select(individuals, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(indices) != len(want) {
		t.Fatalf("expected %d indices, got %d", len(want), len(indices))
	}
	for i, idx := range indices {
		if individuals[idx].Fitness.Score != want[i].Fitness.Score {
			t.Fatalf("index %d resolves to score %v, expected %v", idx, individuals[idx].Fitness.Score, want[i].Fitness.Score)
		}
	}
}
