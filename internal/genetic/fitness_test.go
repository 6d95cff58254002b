package genetic

import (
	"testing"

	"github.com/sstanovnik-port/timetable-ga/internal/domain"
)

func fixtureEntities() (map[domain.ProfessorID]domain.Professor, map[domain.ClassroomID]domain.Classroom, map[domain.StudentID]domain.Student, map[domain.SubjectID]domain.Subject) {
	professors := map[domain.ProfessorID]domain.Professor{
		1: {ID: 1, AvailableHours: 10},
	}
	classrooms := map[domain.ClassroomID]domain.Classroom{
		1: {ID: 1, LectureCapacity: 2, TutorialCapacity: 2},
	}
	students := map[domain.StudentID]domain.Student{
		1: {ID: 1, Subjects: []domain.SubjectID{0}},
		2: {ID: 2, Subjects: []domain.SubjectID{0}},
	}
	subjects := map[domain.SubjectID]domain.Subject{0: {ID: 0}}
	return professors, classrooms, students, subjects
}

// TestCalculateIsDeterministicOnRepeatedCalls covers Testable Property 5:
// calling Calculate twice on an unmodified timetable with a freshly
// constructed core yields identical scores.
func TestCalculateIsDeterministicOnRepeatedCalls(t *testing.T) {
	professors, classrooms, students, subjects := fixtureEntities()
	tt := domain.NewTimetable()
	tt.Entries = append(tt.Entries, domain.NewTimetableEntry(0, domain.EarliestHour, 0, true, 1, []domain.StudentID{1, 2}, []domain.ProfessorID{1}))

	core := NewFitnessCore(professors, classrooms, students, subjects)
	first := core.Calculate(tt)
	second := core.Calculate(tt)

	if first.Score != second.Score {
		t.Fatalf("expected deterministic score, got %v then %v", first.Score, second.Score)
	}
}

func TestClassroomOverCapacityPenalized(t *testing.T) {
	professors, classrooms, students, subjects := fixtureEntities()
	classrooms[1] = domain.Classroom{ID: 1, LectureCapacity: 1, TutorialCapacity: 1}

	tt := domain.NewTimetable()
	tt.Entries = append(tt.Entries, domain.NewTimetableEntry(0, domain.EarliestHour, 0, true, 1, []domain.StudentID{1, 2}, []domain.ProfessorID{1}))

	core := NewFitnessCore(professors, classrooms, students, subjects)
	result := core.Calculate(tt)

	if result.ClassroomOverCapacity != 1 {
		t.Fatalf("expected 1 over-capacity violation, got %d", result.ClassroomOverCapacity)
	}
}

func TestProfessorOverloadPenalized(t *testing.T) {
	professors, classrooms, students, subjects := fixtureEntities()
	professors[1] = domain.Professor{ID: 1, AvailableHours: 1}

	tt := domain.NewTimetable()
	tt.Entries = append(tt.Entries,
		domain.NewTimetableEntry(0, domain.EarliestHour, 0, false, 1, []domain.StudentID{1}, []domain.ProfessorID{1}),
		domain.NewTimetableEntry(1, domain.EarliestHour, 0, false, 1, []domain.StudentID{2}, []domain.ProfessorID{1}),
	)

	core := NewFitnessCore(professors, classrooms, students, subjects)
	result := core.Calculate(tt)

	if result.ProfessorOverLoad != 1 {
		t.Fatalf("expected 1 professor-overload violation, got %d", result.ProfessorOverLoad)
	}
}

// TestSingleUnpairedTutorialBugWorkaround covers spec.md Scenario F: for
// a single stray tutorial entry with no double-cycle partner, both the
// TutorialsDoubleCycle count (reset to 0) and the score penalty are
// reversed, reproducing the upstream quirk.
func TestSingleUnpairedTutorialBugWorkaround(t *testing.T) {
	professors, classrooms, students, subjects := fixtureEntities()

	tt := domain.NewTimetable()
	tt.Entries = append(tt.Entries,
		domain.NewTimetableEntry(0, domain.EarliestHour, 0, false, 1, []domain.StudentID{1}, []domain.ProfessorID{1}),
	)

	core := NewFitnessCore(professors, classrooms, students, subjects)
	result := core.Calculate(tt)

	if result.TutorialsDoubleCycle != 0 {
		t.Fatalf("expected the lone unpaired tutorial's violation count reset to 0, got %d", result.TutorialsDoubleCycle)
	}
	if result.Score <= -1000 {
		t.Fatalf("expected the PROHIBITIVE penalty to be reversed for a single stray tutorial, got score %v", result.Score)
	}
}

func TestStudentOverlapPenalizedProportionally(t *testing.T) {
	professors, classrooms, students, subjects := fixtureEntities()
	classrooms[2] = domain.Classroom{ID: 2, LectureCapacity: 5, TutorialCapacity: 5}

	tt := domain.NewTimetable()
	tt.Entries = append(tt.Entries,
		domain.NewTimetableEntry(0, domain.EarliestHour, 0, false, 1, []domain.StudentID{1, 2}, []domain.ProfessorID{1}),
		domain.NewTimetableEntry(0, domain.EarliestHour, 1, false, 2, []domain.StudentID{1, 2}, nil),
	)
	subjects[1] = domain.Subject{ID: 1}

	core := NewFitnessCore(professors, classrooms, students, subjects)
	result := core.Calculate(tt)

	if result.StudentOverlap != 2 {
		t.Fatalf("expected 2 overlapping student-slots, got %d", result.StudentOverlap)
	}
}

func TestPackedSlotTimeOrdersByDayThenHour(t *testing.T) {
	a := PackedSlotTime(0, domain.EarliestHour, domain.EarliestHour, domain.LatestHour)
	b := PackedSlotTime(1, domain.EarliestHour, domain.EarliestHour, domain.LatestHour)
	if b <= a {
		t.Fatalf("expected day 1 to pack strictly after day 0, got %d and %d", a, b)
	}
}
