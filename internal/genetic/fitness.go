// Package genetic implements the three evolutionary operators (fitness,
// mutation, crossover) plus tournament selection, all operating on
// *domain.Timetable.
package genetic

import (
	"math"

	"github.com/sstanovnik-port/timetable-ga/internal/domain"
)

// Score constants are part of this component's ABI — changing them
// changes the fitness landscape every worker in a cluster evaluates
// against, so they are named constants rather than magic numbers.
const (
	prohibitiveScore = -99999.0

	startTooEarlyScore                  = prohibitiveScore
	endTooLateScore                     = prohibitiveScore
	timetableEntryOverlapScore          = prohibitiveScore
	tutorialsNotDoubleCycleScore        = prohibitiveScore
	professorOverlapScore               = prohibitiveScore
	subjectLectureOverlapScore          = prohibitiveScore
	subjectLectureTutorialsOverlapScore = prohibitiveScore
	professorOverLoadScore              = prohibitiveScore
	classroomOverCapacityScore          = prohibitiveScore

	studentOverlapScore     = -30.0
	softLatestHourScore     = -20.0
	nonAttachedLectureScore = -50.0

	studentPreferredStartBonus  = 20.0
	studentPreferredEndBonus    = 10.0
	lecturesMergedBonus         = 5.0
	tutorialsAfterLecturesBonus = 5.0

	studentEntryGroupingScore = 20.0
)

// Fitness is the scalar score plus a per-category occurrence count
// vector, mirroring fitness_t. The counts are diagnostic only — they
// never feed back into Score — but they're what a round's "print
// details" output is built from.
type Fitness struct {
	Score float64

	NonAttachedLecture               int
	StartTooEarly                    int
	EndTooLate                       int
	EndTooLateSoft                   int
	ClassroomOverCapacity            int
	TimetableEntryOverlap            int
	ProfessorOverlap                 int
	StudentOverlap                   int
	SubjectLectureTutorialsOverlap   int
	SubjectLectureOverlap            int
	TutorialsDoubleCycle             int
	ProfessorOverLoad                int
	StudentPreferredStart            int
	StudentPreferredEnd              int
	LecturesMerged                   int
	TutorialsAfterLectures           int
	StudentEntryGroupingSmaller      int
	StudentEntryGroupingLarger       int
}

func (f *Fitness) add(amount float64) { f.Score += amount }

// FitnessCore scores a Timetable via a catalogue of hard/soft penalties
// and bonuses. It owns reusable per-evaluation scratch state keyed by
// professor/student/subject id, explicitly cleared at the start of every
// Calculate call. A FitnessCore is not safe for concurrent use — each
// worker (goroutine, in this port) must own one.
type FitnessCore struct {
	professors map[domain.ProfessorID]domain.Professor
	classrooms map[domain.ClassroomID]domain.Classroom
	students   map[domain.StudentID]domain.Student
	subjects   map[domain.SubjectID]domain.Subject

	professorLoads    map[domain.ProfessorID]uint
	subjectLectureEnd map[domain.SubjectID]dayHour

	tutorialHasPair map[int]struct{}

	studentStartOK map[domain.StudentID]bool
	studentEndOK   map[domain.StudentID]bool
	studentTimes   map[domain.StudentID][]int
}

type dayHour struct {
	day  domain.DayID
	hour domain.HourID
}

// NewFitnessCore builds an evaluator bound to a fixed set of entities.
func NewFitnessCore(
	professors map[domain.ProfessorID]domain.Professor,
	classrooms map[domain.ClassroomID]domain.Classroom,
	students map[domain.StudentID]domain.Student,
	subjects map[domain.SubjectID]domain.Subject,
) *FitnessCore {
	return &FitnessCore{
		professors:        professors,
		classrooms:        classrooms,
		students:          students,
		subjects:          subjects,
		professorLoads:    make(map[domain.ProfessorID]uint, len(professors)),
		subjectLectureEnd: make(map[domain.SubjectID]dayHour, len(subjects)),
		tutorialHasPair:   make(map[int]struct{}),
		studentStartOK:    make(map[domain.StudentID]bool, len(students)),
		studentEndOK:      make(map[domain.StudentID]bool, len(students)),
		studentTimes:      make(map[domain.StudentID][]int, len(students)),
	}
}

func (c *FitnessCore) resetUtilities() {
	clear(c.professorLoads)
	for id := range c.subjects {
		c.subjectLectureEnd[id] = dayHour{}
	}
	clear(c.tutorialHasPair)
	for id := range c.students {
		c.studentStartOK[id] = true
		c.studentEndOK[id] = true
	}
	clear(c.studentTimes)
}

// Calculate computes the fitness of timetable, sorting it first (a
// prerequisite of the O(n^2) pairwise pass below). The evaluator's
// scratch state is reset at the start, so repeated calls on a freshly
// reset evaluator are deterministic (Testable Property 5).
//
// Known quirk, reproduced intentionally: if exactly one tutorial entry
// ends the pass unpaired, its PROHIBITIVE penalty is subtracted back out.
// The original author's comment calls this "seems to be a bug" — we
// reproduce the behaviour rather than silently fixing it, per spec.
func (c *FitnessCore) Calculate(tt *domain.Timetable) Fitness {
	c.resetUtilities()
	var result Fitness

	tt.Sort()
	entries := tt.Entries
	if len(entries) == 0 {
		return result
	}

	savedLectureEntry := entries[0]

	for outerIdx, e1 := range entries {
		if e1.Hour < domain.EarliestHour {
			result.add(startTooEarlyScore)
			result.StartTooEarly++
		}
		if e1.Hour > domain.LatestHour {
			result.add(endTooLateScore)
			result.EndTooLate++
		} else if e1.Hour > domain.SoftLatestHour {
			result.add(softLatestHourScore)
			result.EndTooLateSoft++
		}

		if !e1.Lectures {
			for _, p := range e1.Professors() {
				c.professorLoads[p]++
			}
		}

		capacity := c.classrooms[e1.Classroom].TutorialCapacity
		if e1.Lectures {
			capacity = c.classrooms[e1.Classroom].LectureCapacity
		}
		if uint(e1.StudentCount()) > capacity {
			result.add(classroomOverCapacityScore)
			result.ClassroomOverCapacity++
		}

		if e1.Lectures {
			if e1.Subject == savedLectureEntry.Subject && e1.Day == savedLectureEntry.Day && int(e1.Hour)-int(savedLectureEntry.Hour) > 1 {
				result.add(nonAttachedLectureScore)
				result.NonAttachedLecture++
			}
			savedLectureEntry = e1
		}

		end := c.subjectLectureEnd[e1.Subject]
		if e1.Day > end.day || (e1.Day == end.day && e1.Hour > end.hour) {
			if e1.Lectures {
				c.subjectLectureEnd[e1.Subject] = dayHour{e1.Day, e1.Hour}
			} else {
				result.add(tutorialsAfterLecturesBonus)
				result.TutorialsAfterLectures++
			}
		}

		packedTime := PackedSlotTime(e1.Day, e1.Hour, domain.EarliestHour, domain.LatestHour)
		for _, s := range e1.Students() {
			if e1.Hour < domain.StudentPreferredStart {
				c.studentStartOK[s] = false
			}
			if e1.Hour > domain.StudentPreferredEnd {
				c.studentEndOK[s] = false
			}
			c.studentTimes[s] = append(c.studentTimes[s], packedTime)
		}

		foundTutorialMatch := e1.Lectures

		for innerIdx := outerIdx + 1; innerIdx < len(entries); innerIdx++ {
			e2 := entries[innerIdx]

			if e1.Day == e2.Day && e1.Hour == e2.Hour {
				if e1.Classroom == e2.Classroom {
					result.add(timetableEntryOverlapScore)
					result.TimetableEntryOverlap++
				}

				overlappingProfessors := countOverlapsProf(e1.Professors(), e2.Professors())
				if overlappingProfessors > 0 {
					result.add(professorOverlapScore)
					result.ProfessorOverlap++
				}

				studentOverlaps := countOverlapsStudent(e1.Students(), e2.Students())
				result.add(float64(studentOverlaps) * studentOverlapScore)
				result.StudentOverlap += studentOverlaps

				if e1.Subject == e2.Subject {
					if e1.Lectures && !e2.Lectures {
						result.add(subjectLectureTutorialsOverlapScore)
						result.SubjectLectureTutorialsOverlap++
					}
					if e1.Lectures && e2.Lectures {
						result.add(subjectLectureOverlapScore)
						result.SubjectLectureOverlap++
					}
				}
			}

			if !foundTutorialMatch {
				_, alreadyPaired := c.tutorialHasPair[outerIdx]
				if e1.IsMatchingTutorial(e2) || alreadyPaired {
					foundTutorialMatch = true
					c.tutorialHasPair[innerIdx] = struct{}{}
					c.tutorialHasPair[outerIdx] = struct{}{}
				}
			}

			if e1.IsMatchingLectureStrict(e2) {
				result.add(lecturesMergedBonus)
				result.LecturesMerged++
			}
		}

		if !foundTutorialMatch {
			result.add(tutorialsNotDoubleCycleScore)
			result.TutorialsDoubleCycle++
		}
	}

	for id, load := range c.professorLoads {
		if load > c.professors[id].AvailableHours {
			result.add(professorOverLoadScore)
			result.ProfessorOverLoad++
		}
	}

	for id := range c.students {
		if c.studentStartOK[id] {
			result.add(studentPreferredStartBonus)
			result.StudentPreferredStart++
		}
		if c.studentEndOK[id] {
			result.add(studentPreferredEndBonus)
			result.StudentPreferredEnd++
		}
	}

	uniformVariance := math.Pow(float64(PackedSlotTime(4, domain.LatestHour, domain.EarliestHour, domain.LatestHour)), 2) / 12

	for _, times := range c.studentTimes {
		variance := welfordVariance(times)
		normalized := (uniformVariance - variance) / uniformVariance
		result.add(normalized * studentEntryGroupingScore)
		if normalized < 0 {
			result.StudentEntryGroupingLarger++
		} else {
			result.StudentEntryGroupingSmaller++
		}
	}

	// Known-quirk workaround: see doc comment above.
	if result.TutorialsDoubleCycle == 1 {
		result.TutorialsDoubleCycle = 0
		result.Score -= tutorialsNotDoubleCycleScore
	}

	return result
}

// welfordVariance computes the population variance of times via
// Welford's online algorithm (numerically stable for the long per-
// student sequences a whole-semester timetable can produce). Fewer than
// 2 points yields a variance of 0, matching the original.
func welfordVariance(times []int) float64 {
	if len(times) < 2 {
		return 0
	}
	var n int
	var mean, m2 float64
	for _, t := range times {
		n++
		delta := float64(t) - mean
		mean += delta / float64(n)
		m2 += delta * (float64(t) - mean)
	}
	return m2 / float64(n)
}

// PackedSlotTime linearly encodes (day, hour) into a single integer used
// for the per-student grouping-variance calculation.
func PackedSlotTime(day domain.DayID, hour domain.HourID, earliestHour, latestHour domain.HourID) int {
	return int(day)*int(latestHour-earliestHour) + (int(hour) - int(earliestHour))
}

func countOverlapsStudent(a, b []domain.StudentID) int {
	return countOverlapsSlice(a, b)
}

func countOverlapsProf(a, b []domain.ProfessorID) int {
	return countOverlapsSlice(a, b)
}

// countOverlapsSlice mirrors utils::count_overlaps: both inputs are the
// normalized (sorted, deduped) output of TimetableEntry.Students/Professors,
// so a merge-style scan suffices.
func countOverlapsSlice[T uint8 | uint16](a, b []T) int {
	count := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			count++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return count
}
