// Package validation checks job variables against the input schemas published in the activity registry.
package validation

import (
	"fmt"
	"strings"

	apperrors "scholarship-workers/internal/common/errors"
	"scholarship-workers/pkg/registry"

	"github.com/xeipuuv/gojsonschema"
)

// Validator holds one compiled schema per task type.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewValidator compiles the input schema of every registered activity.
func NewValidator(reg *registry.ActivityRegistry) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(reg.Activities))}
	for _, a := range reg.Activities {
		if len(a.InputSchema) == 0 {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile input schema for %s: %w", a.TaskType, err)
		}
		v.schemas[a.TaskType] = schema
	}
	return v, nil
}

// FromFile loads the registry at path and compiles it.
func FromFile(path string) (*Validator, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return nil, err
	}
	return NewValidator(reg)
}

// ValidateJSON validates a raw job variables document. Unknown task types pass.
func (v *Validator) ValidateJSON(taskType, document string) error {
	if v == nil {
		return nil
	}
	schema, ok := v.schemas[taskType]
	if !ok {
		return nil
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(document))
	if err != nil {
		return apperrors.NewInvalidRequestError(fmt.Sprintf("malformed variables: %v", err))
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		msgs[i] = desc.String()
	}
	return apperrors.NewInvalidRequestError(strings.Join(msgs, "; "))
}
