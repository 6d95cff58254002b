package genetic

import (
	"math/rand"

	"github.com/sstanovnik-port/timetable-ga/internal/domain"
)

// MutationKind enumerates the six mutation operators, matching the
// original's switch over an integer "mutation type" roll.
type MutationKind int

const (
	MutateClassroom MutationKind = iota
	MutateDay
	MutateHour
	MutateDayAndHour
	MutateStudentShuffle
	MutateTAWeightedSwap
	mutationKindCount
)

// MutationCore applies one of the six mutation operators to a single
// randomly chosen entry (or entry pair) of a Timetable. It is bound to
// the same entity tables the Timetable's subjects/classrooms come from.
type MutationCore struct {
	classrooms map[domain.ClassroomID]domain.Classroom
	subjects   map[domain.SubjectID]domain.Subject
}

// NewMutationCore builds a mutation operator bound to a fixed entity set.
func NewMutationCore(classrooms map[domain.ClassroomID]domain.Classroom, subjects map[domain.SubjectID]domain.Subject) *MutationCore {
	return &MutationCore{classrooms: classrooms, subjects: subjects}
}

// Mutate picks a random entry and applies a random mutation kind in
// place, touching the entry's tutorial partner too when the chosen
// operator requires preserving the double-cycle invariant. It returns
// false when the roll landed on an operator whose precondition wasn't
// met (e.g. no tutorial partner found, or fewer than two pairs for a
// student shuffle) — callers are expected to retry with a fresh roll
// rather than treat this as an error, matching the original's "return
// empty optional, caller loops" convention.
func (m *MutationCore) Mutate(tt *domain.Timetable, rng *rand.Rand) bool {
	if len(tt.Entries) == 0 {
		return false
	}
	kind := MutationKind(rng.Intn(int(mutationKindCount)))
	idx := rng.Intn(len(tt.Entries))
	entry := tt.Entries[idx]

	ok := false
	switch kind {
	case MutateClassroom:
		ok = m.mutateClassroom(tt, entry, rng)
	case MutateDay:
		ok = m.mutateDay(tt, entry, rng)
	case MutateHour:
		ok = m.mutateHour(tt, entry, rng)
	case MutateDayAndHour:
		ok = m.mutateDay(tt, entry, rng) && m.mutateHour(tt, entry, rng)
	case MutateStudentShuffle:
		ok = m.mutateStudentShuffle(tt, entry, rng)
	case MutateTAWeightedSwap:
		ok = m.mutateTAWeightedSwap(tt, entry, rng)
	}

	if ok {
		tt.Invalidate()
	}
	return ok
}

// findTutorialPartner scans tt for the unique other entry forming a
// double-cycle pair with entry. No back-reference is stored on the
// entry itself (see SPEC_FULL.md §9), so every operator that needs a
// partner recomputes it on demand.
func findTutorialPartner(tt *domain.Timetable, entry *domain.TimetableEntry) *domain.TimetableEntry {
	for _, e := range tt.Entries {
		if e != entry && entry.IsMatchingTutorial(e) {
			return e
		}
	}
	return nil
}

// tutorialPairsForSubject groups subject's tutorial entries into their
// double-cycle pairs.
func tutorialPairsForSubject(tt *domain.Timetable, subject domain.SubjectID) [][2]*domain.TimetableEntry {
	seen := make(map[*domain.TimetableEntry]bool)
	var pairs [][2]*domain.TimetableEntry
	for _, e := range tt.Entries {
		if e.Lectures || e.Subject != subject || seen[e] {
			continue
		}
		partner := findTutorialPartner(tt, e)
		if partner == nil {
			continue
		}
		seen[e] = true
		seen[partner] = true
		pairs = append(pairs, [2]*domain.TimetableEntry{e, partner})
	}
	return pairs
}

// mutateClassroom resamples entry's classroom. A lecture change is
// propagated to every other lecture entry IsMatchingLecture considers
// "the same lecture block" (same subject/day, hour gap<=2); a tutorial
// change is propagated to entry's unique double-cycle partner.
func (m *MutationCore) mutateClassroom(tt *domain.Timetable, entry *domain.TimetableEntry, rng *rand.Rand) bool {
	subject, ok := m.subjects[entry.Subject]
	if !ok {
		return false
	}
	rooms := subject.PossibleClassrooms(m.classrooms, entry.Lectures)
	if len(rooms) == 0 {
		return false
	}
	room := rooms[rng.Intn(len(rooms))].ID

	if entry.Lectures {
		for _, e := range tt.Entries {
			if e == entry || entry.IsMatchingLecture(e) {
				e.Classroom = room
			}
		}
		return true
	}

	partner := findTutorialPartner(tt, entry)
	if partner == nil {
		return false
	}
	entry.Classroom = room
	partner.Classroom = room
	return true
}

// mutateDay resamples entry's day, carrying a tutorial's partner along
// so the pair stays same-day as the double-cycle invariant requires.
func (m *MutationCore) mutateDay(tt *domain.Timetable, entry *domain.TimetableEntry, rng *rand.Rand) bool {
	newDay := domain.DayID(rng.Intn(int(domain.MaxDay) + 1))

	if entry.Lectures {
		entry.Day = newDay
		return true
	}

	partner := findTutorialPartner(tt, entry)
	if partner == nil {
		return false
	}
	entry.Day = newDay
	partner.Day = newDay
	return true
}

// mutateHour resamples entry's hour. For a tutorial, the partner's hour
// is adjusted to keep the pair adjacent, preserving whichever side of
// entry it started on.
func (m *MutationCore) mutateHour(tt *domain.Timetable, entry *domain.TimetableEntry, rng *rand.Rand) bool {
	newHour := domain.HourID(int(domain.EarliestHour) + rng.Intn(int(domain.LatestHour)-int(domain.EarliestHour)+1))

	if entry.Lectures {
		entry.Hour = newHour
		return true
	}

	partner := findTutorialPartner(tt, entry)
	if partner == nil {
		return false
	}
	partnerWasBelow := partner.Hour < entry.Hour
	entry.Hour = newHour
	if partnerWasBelow {
		partner.Hour = newHour - 1
	} else {
		partner.Hour = newHour + 1
	}
	return true
}

// mutateStudentShuffle finds another tutorial pair of the same subject,
// merges both pairs' student rosters, permutes, and splits the merged
// roster back into the two pairs' original sizes — writing an identical
// student set into both halves of each pair, as the double-cycle
// invariant requires.
func (m *MutationCore) mutateStudentShuffle(tt *domain.Timetable, entry *domain.TimetableEntry, rng *rand.Rand) bool {
	if entry.Lectures {
		return false
	}
	pairs := tutorialPairsForSubject(tt, entry.Subject)
	if len(pairs) < 2 {
		return false
	}

	var ownPair *[2]*domain.TimetableEntry
	var others [][2]*domain.TimetableEntry
	for i, p := range pairs {
		if p[0] == entry || p[1] == entry {
			ownPair = &pairs[i]
		} else {
			others = append(others, p)
		}
	}
	if ownPair == nil || len(others) == 0 {
		return false
	}
	otherPair := others[rng.Intn(len(others))]

	rosterA := ownPair[0].Students()
	rosterB := otherPair[0].Students()
	sizeA, sizeB := len(rosterA), len(rosterB)
	if sizeA == 0 && sizeB == 0 {
		return false
	}

	merged := append(append([]domain.StudentID(nil), rosterA...), rosterB...)
	rng.Shuffle(len(merged), func(i, j int) { merged[i], merged[j] = merged[j], merged[i] })

	newA := append([]domain.StudentID(nil), merged[:sizeA]...)
	newB := append([]domain.StudentID(nil), merged[sizeA:]...)

	ownPair[0].SetStudents(newA)
	ownPair[1].SetStudents(newA)
	otherPair[0].SetStudents(newB)
	otherPair[1].SetStudents(newB)
	return true
}

// mutateTAWeightedSwap draws a replacement TA from the subject's
// weighted distribution and, unless it happens to equal the TA it
// would replace (a no-op), swaps it into both halves of entry's
// tutorial pair.
func (m *MutationCore) mutateTAWeightedSwap(tt *domain.Timetable, entry *domain.TimetableEntry, rng *rand.Rand) bool {
	if entry.Lectures {
		return false
	}
	subject, ok := m.subjects[entry.Subject]
	if !ok || len(subject.TeachingAssistants) == 0 {
		return false
	}
	partner := findTutorialPartner(tt, entry)
	if partner == nil {
		return false
	}

	current := entry.Professors()
	if len(current) == 0 {
		return false
	}
	candidate := weightedPick(subject.TeachingAssistants, subject.TAWeights, rng)

	replaceIdx := rng.Intn(len(current))
	outgoing := current[replaceIdx]
	if candidate == outgoing {
		return false
	}

	swap := func(e *domain.TimetableEntry) {
		profs := e.Professors()
		for i, p := range profs {
			if p == outgoing {
				profs[i] = candidate
				break
			}
		}
		e.SetProfessors(profs)
	}
	swap(entry)
	swap(partner)
	return true
}

// weightedPick draws one of ids using weights as an (already
// normalized) cumulative-distribution source, mirroring the original's
// assistant_weighted_distribution built from a running sum.
func weightedPick(ids []domain.ProfessorID, weights []float64, rng *rand.Rand) domain.ProfessorID {
	roll := rng.Float64()
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if roll <= cumulative {
			return ids[i]
		}
	}
	return ids[len(ids)-1]
}
