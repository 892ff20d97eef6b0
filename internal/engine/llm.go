package engine

import (
	"context"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// CurrentDate returns today's date in ISO 8601 format (UTC).
func CurrentDate() string {
	return time.Now().UTC().Format("2006-01-02")
}

// StripFences removes markdown code fences from LLM output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// CallLLM sends a prompt using the configured temperature and max_tokens.
func CallLLM(ctx context.Context, system, prompt string) (string, error) {
	IncrLLMCalls()
	resp, err := cfg.LLMClient.Complete(ctx, system, prompt)
	if err != nil {
		IncrLLMErrors()
		return "", err
	}
	return StripFences(resp), nil
}

// CallLLMShort sends a prompt with a low token budget for one-line completions.
func CallLLMShort(ctx context.Context, prompt string, maxTokens int) (string, error) {
	IncrLLMCalls()
	resp, err := cfg.LLMClient.Complete(ctx, "", prompt,
		llm.WithChatTemperature(0.3),
		llm.WithChatMaxTokens(maxTokens),
	)
	if err != nil {
		IncrLLMErrors()
		return "", err
	}
	return StripFences(resp), nil
}

// Completer adapts the configured go-kit client to the generative-text
// capability interface the pathway package expects. The zero value is ready
// to use once Init has run.
type Completer struct{}

// Complete sends system+user prompts to the configured LLM.
func (Completer) Complete(ctx context.Context, system, prompt string) (string, error) {
	return CallLLM(ctx, system, prompt)
}

// CompleteShort sends a prompt with a small token budget.
func (Completer) CompleteShort(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return CallLLMShort(ctx, prompt, maxTokens)
}
