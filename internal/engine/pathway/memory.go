package pathway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_pathway/internal/engine"
)

// MemoryClient records assessment summaries in an external memory
// service and recalls similar past assessments. Optional: a nil client
// is valid and all operations become no-ops.
type MemoryClient struct {
	baseURL    string
	serviceKey string
	http       *http.Client
}

// Package-level singleton, set from main.go. May stay nil.
var memoryClient *MemoryClient

// SetMemory installs the process-wide memory client.
func SetMemory(c *MemoryClient) { memoryClient = c }

// GetMemory returns the installed memory client (may be nil).
func GetMemory() *MemoryClient { return memoryClient }

// NewMemoryClient creates a memory service client.
func NewMemoryClient(baseURL, serviceKey string) *MemoryClient {
	return &MemoryClient{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

// RecordAssessment stores a short summary of a finished assessment.
func (c *MemoryClient) RecordAssessment(ctx context.Context, userID string, p *Plan) error {
	if c == nil {
		return nil
	}
	content := fmt.Sprintf("Assessment for role %s: %d gaps, %d phases, estimated %d months",
		p.TargetRole, len(p.Gaps), len(p.Phases), p.EstimatedMonths)
	body := map[string]any{
		"user_id": userID,
		"content": content,
		"info": map[string]any{
			"plan_id":     p.ID,
			"target_role": p.TargetRole,
		},
	}
	resp, err := c.post(ctx, "/memory/add", body)
	if err != nil {
		return fmt.Errorf("memory add: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("memory add: status %d: %s", resp.StatusCode, string(b))
	}
	return nil
}

// SimilarAssessment is one recalled past assessment.
type SimilarAssessment struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
	PlanID  string  `json:"plan_id,omitempty"`
}

// RecallSimilar returns past assessments ranked by similarity to query.
func (c *MemoryClient) RecallSimilar(ctx context.Context, userID, query string, topK int) ([]SimilarAssessment, error) {
	if c == nil {
		return nil, nil
	}
	body := map[string]any{
		"user_id": userID,
		"query":   query,
		"top_k":   topK,
	}
	resp, err := c.post(ctx, "/memory/search", body)
	if err != nil {
		return nil, fmt.Errorf("memory search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("memory search: status %d: %s", resp.StatusCode, string(b))
	}

	var raw struct {
		Results []struct {
			Content string         `json:"content"`
			Score   float64        `json:"score"`
			Info    map[string]any `json:"info"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("memory search decode: %w", err)
	}

	var out []SimilarAssessment
	for _, r := range raw.Results {
		sa := SimilarAssessment{Content: r.Content, Score: r.Score}
		if id, ok := r.Info["plan_id"].(string); ok {
			sa.PlanID = id
		}
		out = append(out, sa)
	}
	return out, nil
}

func (c *MemoryClient) post(ctx context.Context, path string, body any) (*http.Response, error) {
	engine.IncrMemoryRequests()
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.serviceKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	}
	return c.http.Do(req)
}
