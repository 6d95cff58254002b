package cluster

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/k0kubun/pp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sstanovnik-port/timetable-ga/internal/domain"
	"github.com/sstanovnik-port/timetable-ga/internal/genetic"
	"github.com/sstanovnik-port/timetable-ga/internal/stats"
)

// Engine drives the distributed round loop described in SPEC_FULL.md
// §4.G, grounded on main.cpp's round loop (lines ~221-545) and bootstrap
// (lines ~59-189). It owns the entity tables every rank evaluates
// against and the tunables that shape selection pressure.
type Engine struct {
	rounds            int
	survivorRatio     float64
	rebalanceWindow   int
	crossoverProb     float64
	statsRoundDivisor int

	professors map[domain.ProfessorID]domain.Professor
	classrooms map[domain.ClassroomID]domain.Classroom
	students   map[domain.StudentID]domain.Student
	subjects   map[domain.SubjectID]domain.Subject

	logger *logrus.Logger
}

// Option configures an Engine, following the teacher's functional-options
// pattern (lib.go's `type Config func(*Scheduler)`).
type Option func(*Engine)

// WithRounds sets the number of generations to run. Default 100.
func WithRounds(rounds int) Option { return func(e *Engine) { e.rounds = rounds } }

// WithSurvivorRatio sets the fraction of the global population kept by
// tournament selection each round. Default 0.5.
func WithSurvivorRatio(ratio float64) Option { return func(e *Engine) { e.survivorRatio = ratio } }

// WithRebalanceWindow sets how many rounds pass between dynamic per-rank
// workload rebalancing decisions. Default 3.
func WithRebalanceWindow(window int) Option {
	return func(e *Engine) { e.rebalanceWindow = window }
}

// WithCrossoverProbability sets the chance an offspring is produced via
// crossover of two distinct survivors rather than mutation of one.
// Callers deriving this from a mutation probability should pass
// 1-mutationProbability, as config.Settings does. Default 0.7.
func WithCrossoverProbability(p float64) Option { return func(e *Engine) { e.crossoverProb = p } }

// WithLogger overrides the engine's logger. Default logrus.StandardLogger().
func WithLogger(l *logrus.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithStatsRoundDivisor sets how often (every N rounds) rank 0 logs
// population fitness statistics. Default 10.
func WithStatsRoundDivisor(n int) Option { return func(e *Engine) { e.statsRoundDivisor = n } }

// NewEngine builds an Engine bound to a fixed entity set.
func NewEngine(
	professors map[domain.ProfessorID]domain.Professor,
	classrooms map[domain.ClassroomID]domain.Classroom,
	students map[domain.StudentID]domain.Student,
	subjects map[domain.SubjectID]domain.Subject,
	opts ...Option,
) *Engine {
	e := &Engine{
		rounds:            100,
		survivorRatio:     0.5,
		rebalanceWindow:   3,
		crossoverProb:     0.7,
		statsRoundDivisor: 10,
		professors:        professors,
		classrooms:        classrooms,
		students:          students,
		subjects:          subjects,
		logger:            logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of a distributed run: the best Timetable found
// across every rank and every round, plus its fitness.
type Result struct {
	Best  *domain.Timetable
	Score float64
}

// Run spawns worldSize goroutines ("ranks") and evolves a population of
// roughly populationSize individuals for e.rounds generations, following
// the 8-step round structure of SPEC_FULL.md §4.G. Only the result
// computed on rank 0 is meaningful; every other rank's return value is
// discarded once the group completes, mirroring the original's "only
// rank 0 exports" convention.
//
// Unlike the original, there is no literal entity-data bootstrap
// broadcast: every rank here is a goroutine in the same process sharing
// the same immutable entity tables and Settings by construction, so
// there is nothing to serialize. World.Bootstrap is still used as a
// synchronization barrier (every rank starts its first round together),
// preserving the lockstep property even though no payload crosses it.
func (e *Engine) Run(ctx context.Context, worldSize, populationSize int) (Result, error) {
	world := NewWorld(worldSize)
	ranks := NewRanks(world)

	totalPopulation, survivorGroups := effectivePopulationSize(worldSize, populationSize, e.survivorRatio)
	counts := evenSplit(totalPopulation, worldSize)

	results := make([]Result, worldSize)

	group, gctx := errgroup.WithContext(ctx)
	for i := 0; i < worldSize; i++ {
		rank := ranks[i]
		idx := i
		group.Go(func() error {
			result, err := e.runRank(gctx, rank, counts[idx], survivorGroups)
			results[idx] = result
			return err
		})
	}

	if err := group.Wait(); err != nil {
		return Result{}, err
	}
	return results[0], nil
}

// runRank is the body every rank goroutine executes. It owns its own
// RNG and genetic operator instances — none of FitnessCore, MutationCore
// or the RNG are safe to share across goroutines, so each rank gets a
// private copy, exactly as the original's one-process-per-rank model
// gives each rank its own memory.
func (e *Engine) runRank(ctx context.Context, rank *Rank, localCount, survivorGroups int) (Result, error) {
	rng := rand.New(rand.NewSource(rankSeed(rank.ID)))

	fitness := genetic.NewFitnessCore(e.professors, e.classrooms, e.students, e.subjects)
	mutation := genetic.NewMutationCore(e.classrooms, e.subjects)
	crossover := genetic.NewCrossoverCore().WithCrossoverLogger(e.logger)
	selection := genetic.NewTournamentSelection(survivorGroups)

	subjectSlice := make(map[domain.SubjectID]domain.Subject, len(e.subjects))
	for k, v := range e.subjects {
		subjectSlice[k] = v
	}
	onWeightsRepaired := func(id domain.SubjectID) {
		e.logger.Warnf("rank %d: subject %d TA weights did not sum to 1, repaired to a uniform distribution", rank.ID, id)
	}
	generator := domain.NewTimetableGenerator(e.professors, e.classrooms, e.students, subjectSlice, rng, onWeightsRepaired)

	var maxStudentID domain.StudentID
	for id := range e.students {
		if id > maxStudentID {
			maxStudentID = id
		}
	}

	local := make([]*domain.Timetable, localCount)
	for i := range local {
		local[i] = generator.Generate()
		if offender := local[i].ValidateStudents(maxStudentID); offender != 0 {
			e.logger.Errorf("rank %d: generated timetable references unknown student %d", rank.ID, offender)
			return Result{}, fmt.Errorf("cluster: rank %d generated a timetable referencing unknown student %d", rank.ID, offender)
		}
	}

	rank.Barrier(rank.World.Bootstrap)

	var best Result
	count := localCount
	var windowElapsed float64

	for round := 0; round < e.rounds; round++ {
		if err := ctx.Err(); err != nil {
			return best, err
		}

		fitnessStart := time.Now()

		records := make([]TimetableRecord, len(local))
		for i, tt := range local {
			score := fitness.Calculate(tt).Score
			records[i] = TimetableRecord{Timetable: tt, Score: score}
			if best.Best == nil || score > best.Score {
				best = Result{Best: tt, Score: score}
			}
		}

		windowElapsed += time.Since(fitnessStart).Seconds()

		global := rank.AllGatherTimetables(records)

		individuals := make([]genetic.Individual, len(global))
		scores := make([]float64, len(global))
		for i, rec := range global {
			individuals[i] = genetic.Individual{Timetable: rec.Timetable, Fitness: genetic.Fitness{Score: rec.Score}}
			scores[i] = rec.Score
			if best.Best == nil || rec.Score > best.Score {
				best = Result{Best: rec.Timetable, Score: rec.Score}
			}
		}

		if rank.ID == 0 && e.statsRoundDivisor > 0 && round%e.statsRoundDivisor == 0 {
			snapshot := stats.Calculate(scores)
			e.logger.WithFields(logrus.Fields{
				"round":  round,
				"min":    snapshot.Min,
				"max":    snapshot.Max,
				"mean":   snapshot.Mean,
				"median": snapshot.Median,
			}).Info("population statistics")
			if e.logger.IsLevelEnabled(logrus.DebugLevel) {
				pp.Println(snapshot)
			}
		}

		// Selection runs once, on rank 0, over the gathered population
		// every rank already holds an identical copy of (AllGatherTimetables
		// concatenates in ascending-rank order on every rank alike). The
		// result is broadcast rather than independently recomputed, so the
		// survivor index set is identical on every rank (spec.md §5)
		// instead of each rank's private RNG picking a different set from
		// the same population.
		var selected selectionBroadcast
		if rank.ID == 0 {
			indices, err := selection.SelectIndices(individuals, rng)
			selected = selectionBroadcast{indices: indices, err: err}
		}
		broadcastAny := rank.Broadcast(rank.World.Survivors, 0, selected)
		selected = broadcastAny.(selectionBroadcast)
		if selected.err != nil {
			return best, selected.err
		}
		survivorIndices := selected.indices

		filterStart := time.Now()
		survivorTimetables := make([]*domain.Timetable, len(survivorIndices))
		for i, idx := range survivorIndices {
			survivorTimetables[i] = global[idx].Timetable
		}
		windowElapsed += time.Since(filterStart).Seconds()

		if shouldRebalance(round, e.rebalanceWindow) {
			contributions := rank.AllGather(rank.World.Rebalance, rebalanceContribution{count: count, elapsed: windowElapsed})
			counts := make([]int, len(contributions))
			times := make([]float64, len(contributions))
			for i, c := range contributions {
				contribution := c.(rebalanceContribution)
				counts[i] = contribution.count
				times[i] = contribution.elapsed
			}
			newCounts := rebalance(counts, times)
			count = newCounts[rank.ID]
			windowElapsed = 0
		}

		repopStart := time.Now()
		local = e.repopulate(survivorTimetables, count, rng, crossover, mutation)
		windowElapsed += time.Since(repopStart).Seconds()

		rank.Barrier(rank.World.RoundBarrier)
	}

	return best, nil
}

// selectionBroadcast is the payload rank 0 broadcasts through
// World.Survivors: either the winning survivor indices, or an error that
// every rank (not just rank 0) returns from runRank together, so a
// selection failure can't leave other ranks blocked forever waiting on
// a collective rank 0 never reaches.
type selectionBroadcast struct {
	indices []int
	err     error
}

// rebalanceContribution is one rank's contribution to the rebalance
// all-gather: its current local population share and the wall-clock
// time it spent on fitness/filter/repopulate work since the last
// rebalance window. Gathering both together, rather than just the
// elapsed time, lets every rank reconstruct the real per-rank count
// vector instead of assuming every other rank currently holds the same
// count it does — an assumption that only holds before the first
// rebalance ever runs.
type rebalanceContribution struct {
	count   int
	elapsed float64
}

// repopulate draws one child at a time from survivors (with replacement)
// until target offspring have been produced, following SPEC_FULL.md
// §4.G step 8 exactly: each child is either a crossover of two distinct
// survivors (with probability e.crossoverProb) or a mutation of a
// single survivor. A mutation roll that can't find what it needs (e.g.
// no tutorial partner) is discarded and retried with a fresh draw,
// rather than ever falling back to an unmutated clone.
func (e *Engine) repopulate(survivors []*domain.Timetable, target int, rng *rand.Rand, crossover *genetic.CrossoverCore, mutation *genetic.MutationCore) []*domain.Timetable {
	if len(survivors) == 0 || target <= 0 {
		return nil
	}

	next := make([]*domain.Timetable, 0, target)
	for len(next) < target {
		if rng.Float64() < e.crossoverProb {
			i := rng.Intn(len(survivors))
			j := i
			if len(survivors) > 1 {
				for j == i {
					j = rng.Intn(len(survivors))
				}
			}
			child := survivors[i].Clone()
			other := survivors[j].Clone()
			crossover.Cross(child, other, genetic.CrossoverKind(rng.Intn(4)), rng)
			next = append(next, child)
			continue
		}

		child := survivors[rng.Intn(len(survivors))].Clone()
		if !mutation.Mutate(child, rng) {
			continue
		}
		next = append(next, child)
	}
	return next
}
