package genetic

import (
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/sstanovnik-port/timetable-ga/internal/domain"
)

// CrossoverKind enumerates the four crossover operators.
type CrossoverKind int

const (
	// CrossoverWholeSubject swaps an entire subject's entries between
	// parents with 0.5 probability per subject.
	CrossoverWholeSubject CrossoverKind = iota
	// CrossoverStudentsFromOther copies the other parent's per-entry
	// student rosters onto this parent's entries, subject by subject.
	CrossoverStudentsFromOther
	// CrossoverProfessorsFromOther does the same for professor/TA rosters.
	CrossoverProfessorsFromOther
	// CrossoverClassroomFromOther does the same for classroom assignment.
	CrossoverClassroomFromOther
	crossoverKindCount
)

// CrossoverCore recombines two Timetables subject by subject. Modes 1-3
// require both parents to carry the same per-subject entry count;
// mismatched counts (two generated timetables can split a subject's
// students into different numbers of tutorial pairs, since each pair is
// sized by a randomly chosen classroom's capacity) are logged, not
// fatal, and fall back to whole-subject-swap behaviour for that subject.
type CrossoverCore struct {
	logger *logrus.Logger
}

// NewCrossoverCore builds a crossover operator. It carries no entity
// dependencies: crossover only ever moves data between two timetables.
// It defaults to logrus.StandardLogger(); use WithCrossoverLogger to
// override it.
func NewCrossoverCore() *CrossoverCore { return &CrossoverCore{logger: logrus.StandardLogger()} }

// WithCrossoverLogger overrides the logger used for the subject-count
// mismatch warning.
func (c *CrossoverCore) WithCrossoverLogger(l *logrus.Logger) *CrossoverCore {
	c.logger = l
	return c
}

// Cross mutates a and b in place, producing two offspring from the two
// parents via the given operator, using rng for both the mode's
// per-subject coin flips and any mode 0 fallback.
func (c *CrossoverCore) Cross(a, b *domain.Timetable, kind CrossoverKind, rng *rand.Rand) {
	a.Sort()
	b.Sort()

	groupsA := groupBySubject(a.Entries)
	groupsB := groupBySubject(b.Entries)

	// Subjects are walked in ascending ID order rather than raw map
	// order: every mode below draws rng once per subject, and that draw
	// must not depend on Go's randomized map iteration order.
	subjects := make([]domain.SubjectID, 0, len(groupsA))
	for subject := range groupsA {
		subjects = append(subjects, subject)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i] < subjects[j] })

	for _, subject := range subjects {
		entriesA := groupsA[subject]
		entriesB, ok := groupsB[subject]
		if !ok {
			continue
		}

		if len(entriesA) != len(entriesB) {
			// Assertion in the original: logged, not fatal. Count mismatch
			// makes positional alignment meaningless, so fall back to a
			// whole-subject swap for this subject only.
			c.logger.Warnf("crossover: subject %d entry count mismatch (%d vs %d), falling back to whole-subject swap", subject, len(entriesA), len(entriesB))
			c.swapSubject(a, b, subject, entriesA, entriesB, rng)
			continue
		}

		switch kind {
		case CrossoverWholeSubject:
			c.swapSubject(a, b, subject, entriesA, entriesB, rng)
		case CrossoverStudentsFromOther:
			c.mixField(a, b, subject, entriesA, entriesB, rng, func(dst, src *domain.TimetableEntry) {
				dst.SetStudents(src.Students())
			})
		case CrossoverProfessorsFromOther:
			c.mixField(a, b, subject, entriesA, entriesB, rng, func(dst, src *domain.TimetableEntry) {
				dst.SetProfessors(src.Professors())
			})
		case CrossoverClassroomFromOther:
			c.mixField(a, b, subject, entriesA, entriesB, rng, func(dst, src *domain.TimetableEntry) {
				dst.Classroom = src.Classroom
			})
		}
	}

	a.Invalidate()
	b.Invalidate()
}

// swapSubject exchanges a subject's whole entry slice between the two
// timetables with 0.5 probability, grounded in the original's per-subject
// coin flip for crossover mode 0.
func (c *CrossoverCore) swapSubject(a, b *domain.Timetable, subject domain.SubjectID, entriesA, entriesB []*domain.TimetableEntry, rng *rand.Rand) {
	if rng.Float64() >= 0.5 {
		return
	}
	a.Entries = replaceSubject(a.Entries, subject, entriesB)
	b.Entries = replaceSubject(b.Entries, subject, entriesA)
}

// mixField reproduces original_source/genetic/crossover.cpp's
// perform_crossover modes 1-3: a single per-subject coin ("pick_left")
// chooses which parent supplies the structural base (day, hour, and for
// modes 1/2 classroom) for this subject's entries, and the named field
// is *always* overwritten from the complementary parent regardless of
// the coin — the original never leaves the named field untouched.
//
// The original produces a single offspring from (left, right); this port
// produces two (a and b stay the evolving pair through repopulation), so
// the coin picks a's base parent and b gets the complementary base,
// keeping both outputs full recombinations rather than one real child
// and one untouched parent.
func (c *CrossoverCore) mixField(a, b *domain.Timetable, subject domain.SubjectID, entriesA, entriesB []*domain.TimetableEntry, rng *rand.Rand, overwrite func(dst, src *domain.TimetableEntry)) {
	baseA, otherA := entriesA, entriesB
	baseB, otherB := entriesB, entriesA
	if rng.Float64() >= 0.5 {
		baseA, otherA = entriesB, entriesA
		baseB, otherB = entriesA, entriesB
	}

	newA := buildMixedSubject(baseA, otherA, overwrite)
	newB := buildMixedSubject(baseB, otherB, overwrite)

	a.Entries = replaceSubject(a.Entries, subject, newA)
	b.Entries = replaceSubject(b.Entries, subject, newB)
}

// buildMixedSubject clones each of base's entries (carrying its day, hour
// and classroom) and overwrites only the named field from the
// positionally paired entry of other.
func buildMixedSubject(base, other []*domain.TimetableEntry, overwrite func(dst, src *domain.TimetableEntry)) []*domain.TimetableEntry {
	out := make([]*domain.TimetableEntry, len(base))
	for i := range base {
		clone := base[i].Clone()
		overwrite(clone, other[i])
		out[i] = clone
	}
	return out
}

func replaceSubject(entries []*domain.TimetableEntry, subject domain.SubjectID, replacement []*domain.TimetableEntry) []*domain.TimetableEntry {
	out := make([]*domain.TimetableEntry, 0, len(entries))
	for _, e := range entries {
		if e.Subject != subject {
			out = append(out, e)
		}
	}
	for _, e := range replacement {
		out = append(out, e.Clone())
	}
	return out
}

func groupBySubject(entries []*domain.TimetableEntry) map[domain.SubjectID][]*domain.TimetableEntry {
	groups := make(map[domain.SubjectID][]*domain.TimetableEntry)
	for _, e := range entries {
		groups[e.Subject] = append(groups[e.Subject], e)
	}
	return groups
}
