package providers

import (
	"strings"
)

// FailureReason classifies a transport error well enough to decide whether
// to retry and what to tell the user.
type FailureReason string

const (
	FailureAuth       FailureReason = "auth"
	FailureRateLimit  FailureReason = "rate_limit"
	FailureBilling    FailureReason = "billing"
	FailureTimeout    FailureReason = "timeout"
	FailureOverloaded FailureReason = "overloaded"
	FailureFormat     FailureReason = "format"
	FailureUnknown    FailureReason = "unknown"
)

// ClassifiedError pairs a transport error with its classified reason.
type ClassifiedError struct {
	Reason FailureReason
	Err    error
}

func (e *ClassifiedError) Error() string {
	return string(e.Reason) + ": " + e.Err.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// ClassifyError inspects an error from a provider call and assigns a
// FailureReason. Classification is by message pattern because provider
// SDKs do not share error types; patterns mirror what the upstream APIs
// actually emit.
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())
	reason := FailureUnknown

	switch {
	case containsAny(msg, "status=401", "status=403", "unauthorized", "invalid api key", "invalid x-api-key", "authentication"):
		reason = FailureAuth
	case containsAny(msg, "status=429", "rate limit", "rate_limit", "too many requests"):
		reason = FailureRateLimit
	case containsAny(msg, "status=402", "billing", "quota", "insufficient_quota", "credit balance"):
		reason = FailureBilling
	case containsAny(msg, "timeout", "deadline exceeded", "context canceled"):
		reason = FailureTimeout
	case containsAny(msg, "status=529", "status=503", "overloaded", "service unavailable", "server_error", "status=500", "status=502"):
		reason = FailureOverloaded
	case containsAny(msg, "status=400", "status=422", "invalid_request", "invalidparameter", "max_tokens", "context length", "context window"):
		reason = FailureFormat
	}

	return &ClassifiedError{Reason: reason, Err: err}
}

// Retryable reports whether a reason is worth another attempt.
// Auth, billing, and format failures fail the same way every time.
func (r FailureReason) Retryable() bool {
	switch r {
	case FailureRateLimit, FailureTimeout, FailureOverloaded, FailureUnknown:
		return true
	default:
		return false
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
