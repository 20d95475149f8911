package validation

import (
	"testing"

	apperrors "scholarship-workers/internal/common/errors"
	"scholarship-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *registry.ActivityRegistry {
	return &registry.ActivityRegistry{Activities: []registry.Activity{{
		ID:       "recommend-scholarships",
		TaskType: "recommend-scholarships",
		InputSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"subjectId"},
			"properties": map[string]interface{}{
				"subjectId":      map[string]interface{}{"type": "string", "minLength": 1},
				"candidateLimit": map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 200},
				"minScore":       map[string]interface{}{"type": "number", "minimum": 0, "maximum": 100},
			},
		},
	}}}
}

func TestValidator_ValidateJSON(t *testing.T) {
	v, err := NewValidator(testRegistry())
	require.NoError(t, err)

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"minimal", `{"subjectId":"stu-1"}`, false},
		{"full", `{"subjectId":"stu-1","candidateLimit":10,"minScore":75.5,"processVar":true}`, false},
		{"missing subject", `{"minScore":50}`, true},
		{"empty subject", `{"subjectId":""}`, true},
		{"score out of range", `{"subjectId":"stu-1","minScore":101}`, true},
		{"fractional limit", `{"subjectId":"stu-1","candidateLimit":2.5}`, true},
		{"not json", `{`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateJSON("recommend-scholarships", tt.doc)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidator_UnknownTaskTypePasses(t *testing.T) {
	v, err := NewValidator(testRegistry())
	require.NoError(t, err)
	assert.NoError(t, v.ValidateJSON("something-else", `{}`))

	var nilValidator *Validator
	assert.NoError(t, nilValidator.ValidateJSON("recommend-scholarships", `{}`))
}
