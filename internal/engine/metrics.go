package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	LLMCalls         atomic.Int64
	LLMErrors        atomic.Int64
	LLMMalformed     atomic.Int64
	GithubRequests   atomic.Int64
	YouTubeRequests  atomic.Int64
	CourseraRequests atomic.Int64
	DocsRequests     atomic.Int64
	MemoryRequests   atomic.Int64
	PlansSaved       atomic.Int64
	PlansDegraded    atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"llm_calls":         metrics.LLMCalls.Load(),
		"llm_errors":        metrics.LLMErrors.Load(),
		"llm_malformed":     metrics.LLMMalformed.Load(),
		"github_requests":   metrics.GithubRequests.Load(),
		"youtube_requests":  metrics.YouTubeRequests.Load(),
		"coursera_requests": metrics.CourseraRequests.Load(),
		"docs_requests":     metrics.DocsRequests.Load(),
		"memory_requests":   metrics.MemoryRequests.Load(),
		"plans_saved":       metrics.PlansSaved.Load(),
		"plans_degraded":    metrics.PlansDegraded.Load(),
		"cache_hits":        hits,
		"cache_misses":      misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"llm_calls", "llm_errors", "llm_malformed",
		"github_requests", "youtube_requests", "coursera_requests", "docs_requests",
		"memory_requests",
		"plans_saved", "plans_degraded",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for this package and sub-packages.
func IncrLLMCalls()     { metrics.LLMCalls.Add(1) }
func IncrLLMErrors()    { metrics.LLMErrors.Add(1) }
func IncrLLMMalformed() { metrics.LLMMalformed.Add(1) }

func IncrGithubRequests()   { metrics.GithubRequests.Add(1) }
func IncrYouTubeRequests()  { metrics.YouTubeRequests.Add(1) }
func IncrCourseraRequests() { metrics.CourseraRequests.Add(1) }
func IncrDocsRequests()     { metrics.DocsRequests.Add(1) }
func IncrMemoryRequests()   { metrics.MemoryRequests.Add(1) }
func IncrPlansSaved()       { metrics.PlansSaved.Add(1) }
func IncrPlansDegraded()    { metrics.PlansDegraded.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
