package domain

import "sort"

// TimetableEntry is one scheduled slot: either a lecture (3 per subject,
// contiguous hours) or one half of a tutorial "double-cycle" pair.
type TimetableEntry struct {
	Day       DayID
	Hour      HourID
	Subject   SubjectID
	Lectures  bool // true = lecture, false = tutorial
	Classroom ClassroomID

	students   idSet[StudentID]
	professors idSet[ProfessorID]
}

// NewTimetableEntry builds an entry, normalizing the student/professor
// lists into a sorted, deduplicated ordered set.
func NewTimetableEntry(day, hour DayID, subject SubjectID, lectures bool, classroom ClassroomID, students []StudentID, professors []ProfessorID) *TimetableEntry {
	return &TimetableEntry{
		Day:        day,
		Hour:       hour,
		Subject:    subject,
		Lectures:   lectures,
		Classroom:  classroom,
		students:   newIDSet(students...),
		professors: newIDSet(professors...),
	}
}

// Students returns the entry's enrolled students in ascending order.
func (e *TimetableEntry) Students() []StudentID { return append([]StudentID(nil), e.students...) }

// Professors returns the entry's assigned staff in ascending order.
func (e *TimetableEntry) Professors() []ProfessorID { return append([]ProfessorID(nil), e.professors...) }

// SetStudents replaces the entry's student roster (used by mutation/crossover).
func (e *TimetableEntry) SetStudents(students []StudentID) { e.students = newIDSet(students...) }

// SetProfessors replaces the entry's staff (used by mutation's TA swap).
func (e *TimetableEntry) SetProfessors(professors []ProfessorID) {
	e.professors = newIDSet(professors...)
}

// StudentCount and ProfessorCount avoid forcing a caller to copy a slice
// just to check a classroom-capacity bound.
func (e *TimetableEntry) StudentCount() int   { return len(e.students) }
func (e *TimetableEntry) ProfessorCount() int { return len(e.professors) }

// Clone deep-copies an entry.
func (e *TimetableEntry) Clone() *TimetableEntry {
	return &TimetableEntry{
		Day:        e.Day,
		Hour:       e.Hour,
		Subject:    e.Subject,
		Lectures:   e.Lectures,
		Classroom:  e.Classroom,
		students:   e.students.clone(),
		professors: e.professors.clone(),
	}
}

// IsMatchingLecture reports whether e and other are the same subject's
// lectures on the same day, within 2 hours of each other (never true
// comparing an entry with itself).
func (e *TimetableEntry) IsMatchingLecture(other *TimetableEntry) bool {
	if !e.Lectures || !other.Lectures || e == other {
		return false
	}
	diff := hourDiff(e.Hour, other.Hour)
	return e.Subject == other.Subject && e.Day == other.Day && e.Hour != other.Hour && diff <= 2
}

// IsMatchingLectureStrict is the neighbouring-only (gap<=1) variant, used
// for the "lectures merged" bonus.
func (e *TimetableEntry) IsMatchingLectureStrict(other *TimetableEntry) bool {
	if !e.Lectures || !other.Lectures || e == other {
		return false
	}
	diff := hourDiff(e.Hour, other.Hour)
	return e.Subject == other.Subject && e.Day == other.Day && e.Hour != other.Hour && diff <= 1
}

// IsMatchingTutorial reports whether e and other form a double-cycle
// tutorial pair: same subject/day/classroom/students, adjacent hours.
// Deliberately recomputed on demand (no stored partner pointer) so
// mutation is free to change any partner-defining field without having
// to repair a back-reference — see SPEC_FULL.md §9.
func (e *TimetableEntry) IsMatchingTutorial(other *TimetableEntry) bool {
	if e.Lectures || other.Lectures || e == other {
		return false
	}
	diff := hourDiff(e.Hour, other.Hour)
	return e.Subject == other.Subject &&
		e.Day == other.Day &&
		e.Hour != other.Hour &&
		e.Classroom == other.Classroom &&
		diff <= 1 &&
		e.students.equal(other.students)
}

func hourDiff(a, b HourID) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// compareSubjectLecturesClassroomTime is the canonical sort order:
// ascending by subject, then lectures before tutorials, then classroom,
// then day, then hour. This is what makes tutorial pairs land as
// adjacent (h, h+1) runs and aligns crossover's per-subject segments.
func compareSubjectLecturesClassroomTime(a, b *TimetableEntry) bool {
	if a.Subject != b.Subject {
		return a.Subject < b.Subject
	}
	if a.Lectures != b.Lectures {
		return a.Lectures // lectures (true) sort before tutorials (false)
	}
	if a.Classroom != b.Classroom {
		return a.Classroom < b.Classroom
	}
	if a.Day != b.Day {
		return a.Day < b.Day
	}
	return a.Hour < b.Hour
}

// Timetable is an unordered multiset of entries plus a dirty bit for the
// canonical sort order.
type Timetable struct {
	Entries []*TimetableEntry
	sorted  bool
}

// NewTimetable returns an empty, unsorted Timetable.
func NewTimetable() *Timetable {
	return &Timetable{}
}

// Clone deep-copies every entry; the clone starts unsorted regardless of
// the source's state (the original only clones entries, not computed
// properties).
func (t *Timetable) Clone() *Timetable {
	clone := &Timetable{Entries: make([]*TimetableEntry, len(t.Entries))}
	for i, e := range t.Entries {
		clone.Entries[i] = e.Clone()
	}
	return clone
}

// Sort materializes the canonical order on first call; subsequent calls
// are no-ops until Invalidate is called. This is the "flag + vector"
// dirty-sort pattern exposed as an idempotent operation per SPEC_FULL.md §9.
func (t *Timetable) Sort() {
	if t.sorted {
		return
	}
	sort.Slice(t.Entries, func(i, j int) bool {
		return compareSubjectLecturesClassroomTime(t.Entries[i], t.Entries[j])
	})
	t.sorted = true
}

// Invalidate clears the dirty bit; call after any mutating operation.
func (t *Timetable) Invalidate() { t.sorted = false }

// ValidateStudents returns the id of the first student referenced by any
// entry whose id exceeds maxStudentID, or 0 if every entry is valid.
func (t *Timetable) ValidateStudents(maxStudentID StudentID) StudentID {
	for _, e := range t.Entries {
		for _, s := range e.students {
			if s > maxStudentID {
				return s
			}
		}
	}
	return 0
}
