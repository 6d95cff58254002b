package domain

import "math"

// Professor is both a lecturer and, when present in a Subject's teaching
// assistant list, a TA. AvailableHours is ignored for pure lecturers.
type Professor struct {
	ID             ProfessorID `json:"id"`
	Name           string      `json:"name"`
	AvailableHours uint        `json:"available_hours"`
}

// Classroom bounds how many students can be seated for lectures vs tutorials.
type Classroom struct {
	ID               ClassroomID `json:"id"`
	LectureCapacity  uint        `json:"lecture_capacity"`
	TutorialCapacity uint        `json:"tutorial_capacity"`
}

// Student enrolls in a set of subjects.
type Student struct {
	ID       StudentID   `json:"id"`
	Subjects []SubjectID `json:"subjects"`
}

// NewProfessor, NewClassroom, and NewStudent are plain constructors for
// callers (tests, or a future entity loader) that want named arguments
// instead of struct literals; entity parsing itself is out of scope
// here (see SPEC_FULL.md §6), so LoadDataset's JSON tags remain the only
// decoding path.
func NewProfessor(id ProfessorID, name string, availableHours uint) Professor {
	return Professor{ID: id, Name: name, AvailableHours: availableHours}
}

func NewClassroom(id ClassroomID, lectureCapacity, tutorialCapacity uint) Classroom {
	return Classroom{ID: id, LectureCapacity: lectureCapacity, TutorialCapacity: tutorialCapacity}
}

func NewStudent(id StudentID, subjects ...SubjectID) Student {
	return Student{ID: id, Subjects: subjects}
}

// taWeightTolerance is how far a TA weight vector's sum may drift from 1
// before it is considered broken and replaced with a uniform distribution.
const taWeightTolerance = 0.001

// Subject carries its allowed classrooms, staff, and a TA weight
// distribution used for both generation and mutation's TA-swap operator.
type Subject struct {
	ID                 SubjectID     `json:"id"`
	LectureClassrooms  []ClassroomID `json:"lecture_classrooms"`
	TutorialClassrooms []ClassroomID `json:"tutorial_classrooms"`
	Professors         []ProfessorID `json:"professors"`
	TeachingAssistants []ProfessorID `json:"teaching_assistants"`
	TAWeights          []float64     `json:"ta_weights"`

	// Students is derived from the global student roster by PopulateStudents.
	Students []StudentID `json:"-"`
}

// NewSubject builds a Subject; Students is left empty until PopulateStudents runs.
func NewSubject(id SubjectID, lectureClassrooms, tutorialClassrooms []ClassroomID, professors, teachingAssistants []ProfessorID, taWeights []float64) Subject {
	return Subject{
		ID:                 id,
		LectureClassrooms:  lectureClassrooms,
		TutorialClassrooms: tutorialClassrooms,
		Professors:         professors,
		TeachingAssistants: teachingAssistants,
		TAWeights:          taWeights,
	}
}

// PopulateStudents fills Students with every student enrolled in this
// subject, and repairs a TA weight vector that doesn't sum to 1 within
// taWeightTolerance by replacing it with a uniform distribution. It
// reports whether a repair happened so a caller with a logger (see
// cluster.Engine) can warn about it; this stays a pure data-shaping step
// usable in tests without a logger.
func (s *Subject) PopulateStudents(students map[StudentID]Student) bool {
	s.Students = s.Students[:0]
	for id, student := range students {
		for _, sub := range student.Subjects {
			if sub == s.ID {
				s.Students = append(s.Students, id)
				break
			}
		}
	}

	if !s.weightsValid() {
		s.repairWeightsUniform()
		return true
	}
	return false
}

func (s *Subject) weightsValid() bool {
	if len(s.TAWeights) != len(s.TeachingAssistants) {
		return false
	}
	sum := 0.0
	for _, w := range s.TAWeights {
		sum += w
	}
	return math.Abs(sum-1) <= taWeightTolerance
}

func (s *Subject) repairWeightsUniform() {
	n := len(s.TeachingAssistants)
	weights := make([]float64, n)
	if n > 0 {
		uniform := 1.0 / float64(n)
		for i := range weights {
			weights[i] = uniform
		}
	}
	s.TAWeights = weights
}

// PossibleClassrooms returns the subset of classrooms allowed for this
// subject's lectures (lecture=true) or tutorials (lecture=false).
func (s *Subject) PossibleClassrooms(classrooms map[ClassroomID]Classroom, lecture bool) []Classroom {
	allowed := s.TutorialClassrooms
	if lecture {
		allowed = s.LectureClassrooms
	}
	result := make([]Classroom, 0, len(allowed))
	for _, id := range allowed {
		if c, ok := classrooms[id]; ok {
			result = append(result, c)
		}
	}
	return result
}
