package domain

import (
	"math/rand"
)

// TimetableGenerator produces a random but structurally valid Timetable.
// It owns a persistent RNG and some precomputed per-subject data, mirroring
// the original's TimetableGenerator class.
type TimetableGenerator struct {
	professors map[ProfessorID]Professor
	classrooms map[ClassroomID]Classroom
	students   map[StudentID]Student
	subjects   []Subject

	rand *rand.Rand
}

// NewTimetableGenerator precomputes each subject's student roster. The
// optional onWeightsRepaired callback fires once per subject whose TA
// weights needed fixing up, so a caller with a logger (cluster.Engine)
// can warn about it without this package importing one.
func NewTimetableGenerator(
	professors map[ProfessorID]Professor,
	classrooms map[ClassroomID]Classroom,
	students map[StudentID]Student,
	subjects map[SubjectID]Subject,
	rng *rand.Rand,
	onWeightsRepaired ...func(SubjectID),
) *TimetableGenerator {
	g := &TimetableGenerator{
		professors: professors,
		classrooms: classrooms,
		students:   students,
		rand:       rng,
	}
	for _, s := range subjects {
		if repaired := s.PopulateStudents(students); repaired && len(onWeightsRepaired) > 0 {
			onWeightsRepaired[0](s.ID)
		}
		g.subjects = append(g.subjects, s)
	}
	return g
}

// Generate emits a fresh Timetable: three contiguous lecture entries per
// subject, then enough tutorial double-cycle pairs to cover every
// enrolled student. The caller is expected to validate the result via
// Timetable.ValidateStudents and abort the job on failure (§7 "fails fast").
func (g *TimetableGenerator) Generate() *Timetable {
	tt := NewTimetable()

	for _, subject := range g.subjects {
		lectureRooms := subject.PossibleClassrooms(g.classrooms, true)
		tutorialRooms := subject.PossibleClassrooms(g.classrooms, false)

		day := DayID(g.rand.Intn(int(MaxDay) + 1))
		startHour := HourID(int(EarliestHour) + g.rand.Intn(int(LatestHour)-2-int(EarliestHour)+1))
		lectureRoom := lectureRooms[g.rand.Intn(len(lectureRooms))].ID

		for j := HourID(0); j < 3; j++ {
			tt.Entries = append(tt.Entries, NewTimetableEntry(
				day, startHour+j, subject.ID, true, lectureRoom,
				append([]StudentID(nil), subject.Students...),
				append([]ProfessorID(nil), subject.Professors...),
			))
		}

		students := append([]StudentID(nil), subject.Students...)
		g.rand.Shuffle(len(students), func(i, j int) { students[i], students[j] = students[j], students[i] })

		processed := 0
		remaining := len(students)
		for remaining > 0 {
			tutorialDay := DayID(g.rand.Intn(int(MaxDay) + 1))
			tutorialStart := HourID(int(EarliestHour) + g.rand.Intn(int(LatestHour)-1-int(EarliestHour)+1))
			room := tutorialRooms[g.rand.Intn(len(tutorialRooms))]

			end := processed + int(room.TutorialCapacity)
			if end > len(students) {
				end = len(students)
			}
			group := students[processed:end]

			// The TA is drawn from the subject's weight vector, read as a
			// cumulative distribution.
			ta := subject.TeachingAssistants[len(subject.TeachingAssistants)-1]
			roll, cumulative := g.rand.Float64(), 0.0
			for i, w := range subject.TAWeights {
				cumulative += w
				if roll <= cumulative {
					ta = subject.TeachingAssistants[i]
					break
				}
			}

			first := NewTimetableEntry(tutorialDay, tutorialStart, subject.ID, false, room.ID,
				append([]StudentID(nil), group...), []ProfessorID{ta})
			second := first.Clone()
			second.Hour = tutorialStart + 1

			tt.Entries = append(tt.Entries, first, second)

			processed += int(room.TutorialCapacity)
			remaining -= int(room.TutorialCapacity)
		}
	}

	tt.Invalidate()
	return tt
}
