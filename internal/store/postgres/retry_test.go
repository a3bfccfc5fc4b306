package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func fastPolicy() retryPolicy {
	return retryPolicy{maxAttempts: 3, initialDelay: time.Millisecond, maxDelay: 2 * time.Millisecond}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&pq.Error{Code: serializationFailure}))
	assert.True(t, isRetryable(fmt.Errorf("insert event: %w", &pq.Error{Code: deadlockDetected})))
	assert.False(t, isRetryable(&pq.Error{Code: "23505"}))
	assert.False(t, isRetryable(errors.New("invalid event")))
}

func TestRetryPolicy_ReplaysSerializationFailures(t *testing.T) {
	attempts := 0

	err := fastPolicy().execute(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("commit: %w", &pq.Error{Code: serializationFailure})
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryPolicy_StopsOnOtherErrors(t *testing.T) {
	attempts := 0
	boom := errors.New("boom")

	err := fastPolicy().execute(context.Background(), func() error {
		attempts++
		return boom
	})

	assert.Equal(t, boom, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryPolicy_GivesUp(t *testing.T) {
	attempts := 0

	err := fastPolicy().execute(context.Background(), func() error {
		attempts++
		return &pq.Error{Code: serializationFailure}
	})

	assert.Error(t, err)
	assert.True(t, isRetryable(err))
	assert.Equal(t, 3, attempts)
}
