package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure for schedule import.
type ImportSchema struct {
	Project ProjectImport `json:"project"`
	Tasks   []TaskImport  `json:"tasks"`
}

// ProjectImport defines the project-level fields in the import file.
type ProjectImport struct {
	ShortID   string `json:"short_id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
}

// TaskImport defines one schedule row in the import file. Outline numbers
// carry the hierarchy; summary-ness is derived after import, never declared.
type TaskImport struct {
	Outline         string              `json:"outline"`
	Name            string              `json:"name"`
	DurationHours   float64             `json:"duration_hours"`
	Milestone       bool                `json:"milestone,omitempty"`
	PercentComplete int                 `json:"percent_complete,omitempty"`
	ConstraintType  string              `json:"constraint_type,omitempty"`
	ConstraintDate  *string             `json:"constraint_date,omitempty"`
	Predecessors    []PredecessorImport `json:"predecessors,omitempty"`
	Notes           string              `json:"notes,omitempty"`
}

// PredecessorImport defines one dependency link by outline number.
type PredecessorImport struct {
	Outline   string  `json:"outline"`
	Type      string  `json:"type,omitempty"`
	Lag       float64 `json:"lag,omitempty"`
	LagFormat string  `json:"lag_format,omitempty"`
}

// LoadImportSchema reads and parses a schedule import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
