package domain

import (
	"encoding/json"
	"fmt"
	"os"
)

// Dataset is the on-disk JSON shape an input file is loaded from: the
// full entity set a run generates and scores timetables against.
type Dataset struct {
	Professors []Professor `json:"professors"`
	Classrooms []Classroom `json:"classrooms"`
	Students   []Student   `json:"students"`
	Subjects   []Subject   `json:"subjects"`
}

// LoadDataset reads and indexes a Dataset from path.
func LoadDataset(path string) (map[ProfessorID]Professor, map[ClassroomID]Classroom, map[StudentID]Student, map[SubjectID]Subject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("domain: read dataset %s: %w", path, err)
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("domain: parse dataset %s: %w", path, err)
	}

	professors := make(map[ProfessorID]Professor, len(ds.Professors))
	for _, p := range ds.Professors {
		professors[p.ID] = p
	}
	classrooms := make(map[ClassroomID]Classroom, len(ds.Classrooms))
	for _, c := range ds.Classrooms {
		classrooms[c.ID] = c
	}
	students := make(map[StudentID]Student, len(ds.Students))
	for _, s := range ds.Students {
		students[s.ID] = s
	}
	subjects := make(map[SubjectID]Subject, len(ds.Subjects))
	for _, s := range ds.Subjects {
		subjects[s.ID] = s
	}

	return professors, classrooms, students, subjects, nil
}
