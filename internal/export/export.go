// Package export serializes a final Timetable to the JSON schema
// external tooling consumes.
package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sstanovnik-port/timetable-ga/internal/domain"
)

// Entry is the wire representation of a single domain.TimetableEntry.
type Entry struct {
	Day       domain.DayID       `json:"day"`
	Hour      domain.HourID      `json:"hour"`
	Subject   domain.SubjectID   `json:"subject"`
	Lectures  bool               `json:"lectures"`
	Classroom domain.ClassroomID `json:"classroom"`
	Students  []domain.StudentID `json:"students"`
	Professors []domain.ProfessorID `json:"professors"`
}

// Document is the top-level exported shape.
type Document struct {
	TimetableEntries []Entry `json:"timetable_entries"`
	Score            float64 `json:"score"`
}

// Build converts tt (sorted into canonical order first, so repeated
// exports of an unchanged timetable are byte-identical) and its final
// fitness score into the wire Document.
func Build(tt *domain.Timetable, score float64) Document {
	tt.Sort()
	doc := Document{
		TimetableEntries: make([]Entry, len(tt.Entries)),
		Score:            score,
	}
	for i, e := range tt.Entries {
		students := e.Students()
		if students == nil {
			students = []domain.StudentID{}
		}
		professors := e.Professors()
		if professors == nil {
			professors = []domain.ProfessorID{}
		}
		doc.TimetableEntries[i] = Entry{
			Day:        e.Day,
			Hour:       e.Hour,
			Subject:    e.Subject,
			Lectures:   e.Lectures,
			Classroom:  e.Classroom,
			Students:   students,
			Professors: professors,
		}
	}
	return doc
}

// WriteFile writes tt to path as indented JSON.
func WriteFile(path string, tt *domain.Timetable, score float64) error {
	doc := Build(tt, score)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
