package providers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		msg  string
		want FailureReason
	}{
		{"OpenAI API request failed (status=401): invalid api key", FailureAuth},
		{"OpenAI API request failed (status=429): Too Many Requests", FailureRateLimit},
		{"status=402 billing hard limit reached", FailureBilling},
		{"context deadline exceeded", FailureTimeout},
		{"Anthropic API request failed: overloaded_error", FailureOverloaded},
		{"status=400 max_tokens exceeds context length", FailureFormat},
		{"something unexpected", FailureUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			classified := ClassifyError(errors.New(tt.msg))
			require.NotNil(t, classified)
			assert.Equal(t, tt.want, classified.Reason)
		})
	}
}

func TestClassifyErrorNil(t *testing.T) {
	assert.Nil(t, ClassifyError(nil))
}

func TestClassifiedErrorUnwrap(t *testing.T) {
	base := errors.New("status=429 rate limit")
	classified := ClassifyError(base)
	assert.ErrorIs(t, classified, base)
	assert.Contains(t, classified.Error(), "rate_limit")
}

func TestRetryable(t *testing.T) {
	assert.True(t, FailureRateLimit.Retryable())
	assert.True(t, FailureTimeout.Retryable())
	assert.True(t, FailureOverloaded.Retryable())
	assert.False(t, FailureAuth.Retryable())
	assert.False(t, FailureBilling.Retryable())
	assert.False(t, FailureFormat.Retryable())
}
