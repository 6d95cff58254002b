package genetic

import (
	"math/rand"

	"github.com/MaxHalford/eaopt"
	"github.com/sstanovnik-port/timetable-ga/internal/domain"
)

// Operators bundles the three evolutionary cores (each already bound to
// its entity tables) a TimetableGenome needs to mutate, cross, and score
// itself, plus the fixed crossover kind. cmd/tt-local
// wires one of these into eaopt's single-process GA as a smoke test;
// cluster.Engine drives the same three cores directly for the distributed
// round loop instead of going through eaopt.Genome.
type Operators struct {
	Fitness   *FitnessCore
	Mutation  *MutationCore
	Crossover *CrossoverCore

	// CrossoverKind is fixed per Operators rather than rolled per call,
	// since eaopt.Genome.Crossover has no way to thread extra arguments.
	CrossoverKind CrossoverKind
}

// TimetableGenome adapts a *domain.Timetable to eaopt.Genome. eaopt
// minimizes fitness, while every domain score in this package is
// maximize-is-better, so Evaluate is the one and only place the sign
// gets flipped.
type TimetableGenome struct {
	Timetable *domain.Timetable
	ops       *Operators
}

// NewTimetableGenome wraps tt for use with an eaopt.GA built from ops.
func NewTimetableGenome(tt *domain.Timetable, ops *Operators) *TimetableGenome {
	return &TimetableGenome{Timetable: tt, ops: ops}
}

// Evaluate implements eaopt.Genome. eaopt only ever reads this value to
// rank individuals, never the diagnostic counters on Fitness, so those
// are dropped here.
func (g *TimetableGenome) Evaluate() (float64, error) {
	result := g.ops.Fitness.Calculate(g.Timetable)
	return -result.Score, nil
}

// Mutate implements eaopt.Genome, delegating to MutationCore. A roll
// whose precondition isn't met (see MutationCore.Mutate) is retried
// immediately: eaopt's interface has no room for a "try again" signal,
// and retrying a cheap in-memory operator is harmless.
func (g *TimetableGenome) Mutate(rng *rand.Rand) {
	for attempt := 0; attempt < 10; attempt++ {
		if g.ops.Mutation.Mutate(g.Timetable, rng) {
			return
		}
	}
}

// Crossover implements eaopt.Genome.
func (g *TimetableGenome) Crossover(other eaopt.Genome, rng *rand.Rand) {
	partner := other.(*TimetableGenome)
	g.ops.Crossover.Cross(g.Timetable, partner.Timetable, g.ops.CrossoverKind, rng)
}

// Clone implements eaopt.Genome.
func (g *TimetableGenome) Clone() eaopt.Genome {
	return &TimetableGenome{Timetable: g.Timetable.Clone(), ops: g.ops}
}
