package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeCandidateLoadFailed, 3},
		{ErrCodeDatabaseConnectionFailed, 3},
		{ErrCodeSearchQueryFailed, 3},
		{ErrCodeQueryTimeout, 2},
		{ErrCodeScoringTimeout, 2},
		{ErrCodeSubjectNotFound, 0},
		{ErrCodeSubjectRoleInvalid, 0},
		{ErrCodeInvalidRequest, 0},
		{ErrCodeInternal, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetRetryCount(tt.code))
			assert.Equal(t, tt.want > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	bpmn := ConvertToBPMNError(NewSubjectNotFoundError("stu-1"))
	assert.Equal(t, "SUBJECT_NOT_FOUND", bpmn.Code)
	assert.False(t, bpmn.Retryable)
	assert.Equal(t, 0, bpmn.Retries)

	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "SUBJECT_NOT_FOUND", vars["errorCode"])
	assert.Equal(t, "subjectId: stu-1", vars["errorDetails"])
	assert.Equal(t, "SUBJECT_NOT_FOUND", vars["originalErrorCode"])

	bpmn = ConvertToBPMNError(NewCandidateLoadFailedError("postgres", fmt.Errorf("boom")))
	assert.True(t, bpmn.Retryable)
	assert.Equal(t, 3, bpmn.Retries)
}

func TestAsStandardError(t *testing.T) {
	cause := stderrors.New("connection reset")
	wrapped := fmt.Errorf("load pool: %w", NewCandidateLoadFailedError("postgres", cause))

	stdErr := AsStandardError(wrapped)
	require.NotNil(t, stdErr)
	assert.Equal(t, ErrCodeCandidateLoadFailed, stdErr.Code)
	assert.ErrorIs(t, wrapped, cause)
	assert.True(t, HasCode(wrapped, ErrCodeCandidateLoadFailed))

	unknown := AsStandardError(stderrors.New("nil map"))
	assert.Equal(t, ErrCodeInternal, unknown.Code)
	assert.False(t, unknown.Retryable)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeSubjectNotFound))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidRequest))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryTimeout))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchQueryFailed))
	assert.Equal(t, "SCORING", GetErrorCategory(ErrCodeScoringTimeout))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}
