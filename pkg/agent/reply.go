package agent

import (
	"github.com/tidwall/gjson"

	"github.com/KarakuriAgent/clawdroid/pkg/extract"
	"github.com/KarakuriAgent/clawdroid/pkg/logger"
	"github.com/KarakuriAgent/clawdroid/pkg/tools"
)

// ReplyKind tags the two shapes a first-call response can take.
type ReplyKind int

const (
	// ReplyPlain means the model answered conversationally; the text is
	// the final answer and no second call happens.
	ReplyPlain ReplyKind = iota
	// ReplyDirective means the model asked for tool invocations.
	ReplyDirective
)

// Reply is the validated classification of a first-call response. Model
// output is untrusted text; this is the single place it becomes control
// flow.
type Reply struct {
	Kind ReplyKind
	// Text is the full raw response, kept for the plain path and for the
	// synthesis call's context on the directive path.
	Text string
	// Calls holds the requested invocations in directive key order, which
	// is the dispatch order. Only set for ReplyDirective.
	Calls []tools.Call
}

// ParseReply classifies a first-call response against the effective tool
// set. A response is a directive only when it contains a JSON object
// with "tools-required": true; anything else - prose, other JSON, a
// malformed object - is a plain reply, never an error.
//
// Tool keys outside the effective set are dropped: the model was never
// told about those tools, so a directive naming one is treated as if
// that key were absent. A directive whose every tool key is dropped
// degrades to a plain reply.
func ParseReply(text string, effective map[string]bool) Reply {
	plain := Reply{Kind: ReplyPlain, Text: text}

	object, raw, ok := extract.Object(text)
	if !ok {
		return plain
	}
	required, isBool := object["tools-required"].(bool)
	if !isBool || !required {
		return plain
	}

	// Re-parse the raw slice with gjson: map iteration loses the key
	// order the dispatch contract depends on.
	var calls []tools.Call
	gjson.Parse(raw).ForEach(func(key, value gjson.Result) bool {
		id := key.String()
		if id == "tools-required" {
			return true
		}
		if !effective[id] {
			logger.WarnCF("agent", "Directive names tool outside effective set", map[string]any{
				"tool": id,
			})
			return true
		}

		args, _ := value.Value().(map[string]any)
		if args == nil {
			if !value.IsObject() {
				logger.WarnCF("agent", "Directive tool args are not an object", map[string]any{
					"tool": id,
				})
				return true
			}
			args = map[string]any{}
		}
		calls = append(calls, tools.Call{ToolID: id, Args: args})
		return true
	})

	if len(calls) == 0 {
		return plain
	}
	return Reply{Kind: ReplyDirective, Text: text, Calls: calls}
}
