package providers

import (
	"context"

	"github.com/KarakuriAgent/clawdroid/pkg/providers/protocoltypes"
)

type (
	Message           = protocoltypes.Message
	CompletionRequest = protocoltypes.CompletionRequest
)

// Provider is the single-call transport abstraction. Implementations send
// one request and return the model's raw text reply. Tool orchestration is
// layered entirely above this interface; providers never see tool
// definitions because the directive protocol is carried in plain text.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	GetDefaultModel() string
}
