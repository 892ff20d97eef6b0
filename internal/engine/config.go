package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIKey          string
	LLMAPIKeyFallbacks []string
	LLMAPIBase         string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int

	GithubToken     string
	YouTubeAPIKey   string
	Context7APIKey  string
	CourseraAPIBase string

	MaxResourcesPerSource int
	MaxContentChars       int
	FetchTimeout          time.Duration

	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	DatabaseURL      string
	StoreDir         string // SQLite store location; empty = $HOME/.go_pathway
	MemoryURL        string
	MemoryServiceKey string

	HTTPClient *http.Client
	LLMClient  *llm.Client
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (pathway, sources).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
}
