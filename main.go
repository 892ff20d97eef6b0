// go_pathway — Skill-Gap Analysis & Learning-Plan MCP server.
//
// Extracts skills from resumes and job descriptions, computes prioritized
// skill gaps toward a target role, synthesizes phased learning plans with
// milestones and resources, and tracks milestone progress.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_pathway/internal/engine"
	"github.com/anatolykoptev/go_pathway/internal/engine/pathway"
	"github.com/anatolykoptev/go_pathway/internal/engine/sources"
	"github.com/anatolykoptev/go_pathway/internal/pathserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	deps, ok := initEngine()
	if !ok {
		return
	}

	slog.Info("starting go_pathway",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_pathway",
		Version: version,
	}, nil)

	pathserver.RegisterTools(server, deps)
	slog.Info("tools registered", slog.Int("count", 9))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_pathway",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() (pathserver.Deps, bool) {
	c := engine.Config{
		LLMAPIKey:             env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks:    env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:            env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:              env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:        env.Float("LLM_TEMPERATURE", 0.1),
		LLMMaxTokens:          env.Int("LLM_MAX_TOKENS", 16384),
		GithubToken:           env.Str("GITHUB_TOKEN", ""),
		YouTubeAPIKey:         env.Str("YOUTUBE_API_KEY", ""),
		Context7APIKey:        env.Str("CONTEXT7_API_KEY", ""),
		CourseraAPIBase:       env.Str("COURSERA_API_BASE", ""),
		MaxResourcesPerSource: env.Int("MAX_RESOURCES_PER_SOURCE", 5),
		MaxContentChars:       env.Int("MAX_CONTENT_CHARS", 6000),
		FetchTimeout:          env.Duration("FETCH_TIMEOUT", 10*time.Second),
		CacheMaxEntries:       env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval:  env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		DatabaseURL:           env.Str("DATABASE_URL", ""),
		StoreDir:              env.Str("STORE_DIR", ""),
		MemoryURL:             env.Str("MEMORY_URL", ""),
		MemoryServiceKey:      env.Str("MEMORY_SERVICE_KEY", ""),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
		llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
		llm.WithMaxTokens(c.LLMMaxTokens),
		llm.WithTemperature(c.LLMTemperature),
		llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
	)

	engine.Init(c)

	// Plan store: shared Postgres when DATABASE_URL is set, local SQLite otherwise.
	if c.DatabaseURL != "" {
		pg, err := pathway.ConnectPostgres(context.Background(), c.DatabaseURL)
		if err != nil {
			slog.Error("postgres store init failed", slog.Any("error", err))
			return pathserver.Deps{}, false
		}
		pathway.SetStore(pg)
		slog.Info("postgres plan store initialized")
	} else {
		st, err := pathway.OpenSQLite(c.StoreDir)
		if err != nil {
			slog.Error("sqlite store init failed", slog.Any("error", err))
			return pathserver.Deps{}, false
		}
		pathway.SetStore(st)
		slog.Info("sqlite plan store initialized")
	}

	// Assessment memory service (optional)
	if c.MemoryURL != "" {
		pathway.SetMemory(pathway.NewMemoryClient(c.MemoryURL, c.MemoryServiceKey))
		slog.Info("memory client initialized", slog.String("url", c.MemoryURL))
	}

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)

	completer := engine.Completer{}
	binder := pathway.NewBinder(sources.Coursera{}, sources.YouTube{}, sources.Docs{}, sources.GitHub{})
	return pathserver.Deps{
		Extractor:   pathway.NewExtractor(completer),
		Synthesizer: pathway.NewSynthesizer(completer, binder),
		Binder:      binder,
	}, true
}
