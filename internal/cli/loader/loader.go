package loader

import (
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/lvyanru/triagectl/internal/cli/types"
)

// RosterKind is the only kind a roster file may declare
const RosterKind = "Roster"

// RosterFile is a dashboard roster loaded from a YAML file
type RosterFile struct {
	// Kind must be "Roster"
	Kind string `json:"kind"`
	// Patients in arrival order
	Patients []types.Patient `json:"patients"`
}

// LoadFromFile loads a roster definition from a YAML file
func LoadFromFile(filepath string) (*RosterFile, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a roster document. Patients without an id
// get the next free one.
func Parse(data []byte) (*RosterFile, error) {
	var roster RosterFile
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if roster.Kind == "" {
		return nil, fmt.Errorf("'kind' field is required")
	}
	if roster.Kind != RosterKind {
		return nil, fmt.Errorf("invalid kind '%s', must be '%s'", roster.Kind, RosterKind)
	}

	var maxID int64
	seen := make(map[int64]bool, len(roster.Patients))
	for i := range roster.Patients {
		p := &roster.Patients[i]
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return nil, fmt.Errorf("patients[%d].name is required", i)
		}
		if !p.Urgency.Valid() {
			return nil, fmt.Errorf("patients[%d].urgency '%s' is invalid, must be one of: red, orange, yellow, green", i, p.Urgency)
		}
		if p.Age < 0 {
			return nil, fmt.Errorf("patients[%d].age must not be negative", i)
		}
		if p.ID == 0 {
			continue
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("patients[%d].id %d is duplicated", i, p.ID)
		}
		seen[p.ID] = true
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	for i := range roster.Patients {
		if roster.Patients[i].ID == 0 {
			maxID++
			roster.Patients[i].ID = maxID
		}
	}

	return &roster, nil
}
