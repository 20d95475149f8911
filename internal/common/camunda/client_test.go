package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(n int) RetryConfig {
	return RetryConfig{MaxRetries: n, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(3), logger.NewTestLogger(t), "dial", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("rpc error: code = Unavailable desc = connection refused")
		}
		return nil
	}, IsTransient)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(5), logger.NewNoOpLogger(), "dial", func(context.Context) error {
		calls++
		return errors.New("permission denied")
	}, IsTransient)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	cause := errors.New("connection reset by peer")
	err := Retry(context.Background(), fastRetry(2), logger.NewNoOpLogger(), "ping", func(context.Context) error {
		calls++
		return cause
	}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 3, calls)
}

func TestRetry_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rc := RetryConfig{MaxRetries: 3, BaseDelay: time.Hour}
	err := Retry(ctx, rc, logger.NewNoOpLogger(), "ping", func(context.Context) error {
		return errors.New("timeout")
	}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(errors.New("context deadline exceeded")))
	assert.True(t, IsTransient(errors.New("Unavailable: broker unreachable")))
	assert.False(t, IsTransient(errors.New("NOT_FOUND: job 12")))
}

func TestStartWorker_Disabled(t *testing.T) {
	w := StartWorker(nil, "rank-candidates", config.WorkerConfig{Enabled: false}, nil, logger.NewTestLogger(t))
	assert.Nil(t, w)
}
