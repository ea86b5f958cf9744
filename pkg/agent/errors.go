package agent

import (
	"errors"
	"fmt"

	"github.com/KarakuriAgent/clawdroid/pkg/providers"
)

// ErrCredentialMissing is returned before any model call when no API key
// is configured. The turn never starts.
var ErrCredentialMissing = errors.New("no API key configured")

// UpstreamError wraps a transport or model failure from either of the
// two model calls in a turn. The turn fails as a whole; conversation
// state is left untouched so the user can retry.
type UpstreamError struct {
	Phase string // "first_call", "synthesis", or "plain"
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream failure during %s: %v", e.Phase, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// UserFacingMessage maps an engine error to the text shown in the chat
// as an error message. Raw SDK errors leak keys and stack noise, so
// everything goes through the classifier first.
func UserFacingMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrCredentialMissing) {
		return "No API key is configured. Add one in settings before chatting."
	}

	classified := providers.ClassifyError(err)
	switch classified.Reason {
	case providers.FailureAuth:
		return "The API key was rejected. Check your credentials in settings."
	case providers.FailureRateLimit:
		return "The model is rate limiting requests. Wait a moment and try again."
	case providers.FailureBilling:
		return "The provider reported a billing or quota problem with your account."
	case providers.FailureTimeout:
		return "The model took too long to respond. Try again."
	case providers.FailureOverloaded:
		return "The model service is overloaded right now. Try again shortly."
	case providers.FailureFormat:
		return "The request was rejected by the model (too long or malformed). Try rephrasing or starting a new thread."
	default:
		return "Something went wrong talking to the model. Try again."
	}
}
