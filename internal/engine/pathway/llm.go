package pathway

import (
	"context"
	"encoding/json"

	"github.com/anatolykoptev/go_pathway/internal/engine"
)

// LLM is the generative-text capability this package depends on.
// engine.Completer satisfies it in production; tests inject doubles.
type LLM interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// shortLLM is an optional upgrade for one-shot completions with a
// capped token budget. engine.Completer provides it; plain doubles
// fall back to Complete.
type shortLLM interface {
	CompleteShort(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// completeCapped uses the short-completion path when available.
func completeCapped(ctx context.Context, c LLM, prompt string, maxTokens int) (string, error) {
	if sc, ok := c.(shortLLM); ok {
		return sc.CompleteShort(ctx, prompt, maxTokens)
	}
	return c.Complete(ctx, "", prompt)
}

// parseOutcome tags the result of one generative call.
// The LLM is an untrusted producer: its output is either parsed, present but
// malformed, or absent entirely. Malformed and absent degrade the same way
// but are counted separately for diagnosability.
type parseOutcome int

const (
	parsedOK parseOutcome = iota
	parseFailed
	unavailable
)

// completeJSON sends a prompt and decodes the fence-stripped response into T.
func completeJSON[T any](ctx context.Context, c LLM, system, prompt string) (*T, parseOutcome) {
	raw, err := c.Complete(ctx, system, prompt)
	if err != nil {
		return nil, unavailable
	}
	var out T
	if err := json.Unmarshal([]byte(engine.StripFences(raw)), &out); err != nil {
		engine.IncrLLMMalformed()
		return nil, parseFailed
	}
	return &out, parsedOK
}
