// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Save writes the registry back as indented JSON.
func (r *ActivityRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Check reports structural problems: duplicate task types and activities without an input schema.
func (r *ActivityRegistry) Check() []string {
	var problems []string
	seen := map[string]bool{}
	for _, a := range r.Activities {
		if a.TaskType == "" {
			problems = append(problems, fmt.Sprintf("activity %q has no taskType", a.ID))
			continue
		}
		if seen[a.TaskType] {
			problems = append(problems, fmt.Sprintf("duplicate taskType %q", a.TaskType))
		}
		seen[a.TaskType] = true
		if len(a.InputSchema) == 0 {
			problems = append(problems, fmt.Sprintf("activity %q has no inputSchema", a.ID))
		}
	}
	return problems
}
