package genetic

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/sstanovnik-port/timetable-ga/internal/domain"
)

// Individual pairs a Timetable with its already-computed Fitness, the
// unit tournament selection operates on.
type Individual struct {
	Timetable *domain.Timetable
	Fitness   Fitness
}

// TournamentSelection implements the original's group-tournament
// survivor selection: shuffle the population, split it into Groups
// contiguous buckets of equal size, and keep the single fittest member
// of each bucket. The caller (cluster.Engine) is responsible for ensuring
// population size is a multiple of Groups — via the LCM-based population
// sizing in §4.G — before calling Select.
type TournamentSelection struct {
	Groups int
}

// NewTournamentSelection builds a selector that produces exactly groups
// survivors per call.
func NewTournamentSelection(groups int) *TournamentSelection {
	return &TournamentSelection{Groups: groups}
}

// Select returns the fittest member of each of t.Groups contiguous
// shuffled buckets. It errors if len(individuals) is not a multiple of
// t.Groups, since that would make the bucket partition uneven — the
// original guarantees this never happens via LCM-based population
// sizing (§4.G), so hitting this path signals a caller bug, not a
// recoverable runtime condition.
func (t *TournamentSelection) Select(individuals []Individual, rng *rand.Rand) ([]Individual, error) {
	indices, err := t.SelectIndices(individuals, rng)
	if err != nil {
		return nil, err
	}
	survivors := make([]Individual, len(indices))
	for i, idx := range indices {
		survivors[i] = individuals[idx]
	}
	return survivors, nil
}

// SelectIndices is Select's actual implementation, returning the
// survivors' positions within individuals rather than copies of the
// Individuals themselves. A distributed caller that all-gathers the
// same population on every rank only needs to agree on which positions
// survived — selection still runs once (on the rank that owns the
// authoritative RNG draw) and the index list is what gets broadcast, so
// every rank ends up filtering the identical gathered slice the same
// way (spec.md §5, "survivor index sets are identical on all ranks").
func (t *TournamentSelection) SelectIndices(individuals []Individual, rng *rand.Rand) ([]int, error) {
	n := len(individuals)
	if t.Groups <= 0 || n%t.Groups != 0 {
		return nil, fmt.Errorf("genetic: population size %d is not a multiple of group count %d", n, t.Groups)
	}

	shuffled := make([]int, n)
	for i := range shuffled {
		shuffled[i] = i
	}
	rng.Shuffle(n, func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	bucketSize := n / t.Groups
	survivors := make([]int, 0, t.Groups)
	for g := 0; g < t.Groups; g++ {
		bucket := shuffled[g*bucketSize : (g+1)*bucketSize]
		sort.Slice(bucket, func(i, j int) bool {
			return individuals[bucket[i]].Fitness.Score > individuals[bucket[j]].Fitness.Score
		})
		survivors = append(survivors, bucket[0])
	}
	return survivors, nil
}
