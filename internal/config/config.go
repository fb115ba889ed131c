package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Common holds the parameters shared by every binary.
type Common struct {
	SourcesFile string
	CacheDir    string
}

// Pipeline configures one full fetch -> enrich -> augment pass.
type Pipeline struct {
	Common
	UseCache         bool
	KeywordLimit     int
	SummarySentences int
	MaxVideos        int
	MaxArticles      int
	FetchConcurrency int
	FetchTimeout     time.Duration
	MediaTimeout     time.Duration
	DedupeCapacity   int
	DedupeTTL        time.Duration
	YouTubeAPIKey    string
}

// API describes HTTP-layer configuration; the API binary also runs the
// pipeline, so it embeds the pipeline settings.
type API struct {
	Pipeline
	BindAddr        string
	RefreshInterval time.Duration
	LatestLimit     int
}

// RawBatchPath is where the fetcher cache lives inside the cache dir.
func (c Common) RawBatchPath() string {
	return filepath.Join(c.CacheDir, "normative_raw.json")
}

// CorpusPath is where the enriched corpus snapshot lives.
func (c Common) CorpusPath() string {
	return filepath.Join(c.CacheDir, "normative_elaborate.json")
}

// LoadPipeline builds a Pipeline config from environment variables.
func LoadPipeline() (*Pipeline, error) {
	c := &Pipeline{
		Common: Common{
			SourcesFile: getEnv("SOURCES_FILE", "sources.yaml"),
			CacheDir:    getEnv("CACHE_DIR", "data"),
		},
		UseCache:         getBool("PIPELINE_USE_CACHE", true),
		KeywordLimit:     getInt("PIPELINE_KEYWORD_LIMIT", 10),
		SummarySentences: getInt("PIPELINE_SUMMARY_SENTENCES", 5),
		MaxVideos:        getInt("PIPELINE_MAX_VIDEOS", 3),
		MaxArticles:      getInt("PIPELINE_MAX_ARTICLES", 3),
		FetchConcurrency: getInt("PIPELINE_FETCH_CONCURRENCY", 4),
		FetchTimeout:     getDuration("PIPELINE_FETCH_TIMEOUT", "30s"),
		MediaTimeout:     getDuration("PIPELINE_MEDIA_TIMEOUT", "10s"),
		DedupeCapacity:   getInt("PIPELINE_DEDUPE_CAPACITY", 10000),
		DedupeTTL:        getDuration("PIPELINE_DEDUPE_TTL", "24h"),
		YouTubeAPIKey:    getEnv("YOUTUBE_API_KEY", ""),
	}

	if c.KeywordLimit <= 0 {
		return nil, fmt.Errorf("PIPELINE_KEYWORD_LIMIT must be positive")
	}
	if c.SummarySentences <= 0 {
		return nil, fmt.Errorf("PIPELINE_SUMMARY_SENTENCES must be positive")
	}
	if c.MaxVideos <= 0 || c.MaxArticles <= 0 {
		return nil, fmt.Errorf("PIPELINE_MAX_VIDEOS and PIPELINE_MAX_ARTICLES must be positive")
	}
	if c.FetchConcurrency <= 0 {
		return nil, fmt.Errorf("PIPELINE_FETCH_CONCURRENCY must be positive")
	}
	if c.DedupeCapacity <= 0 {
		return nil, fmt.Errorf("PIPELINE_DEDUPE_CAPACITY must be positive")
	}

	return c, nil
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	pipe, err := LoadPipeline()
	if err != nil {
		return nil, err
	}

	c := &API{
		Pipeline:        *pipe,
		BindAddr:        getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		RefreshInterval: getDuration("API_REFRESH_INTERVAL", "6h"),
		LatestLimit:     getInt("API_LATEST_LIMIT", 5),
	}

	if c.LatestLimit <= 0 {
		return nil, fmt.Errorf("API_LATEST_LIMIT must be positive")
	}
	if c.RefreshInterval < 0 {
		return nil, fmt.Errorf("API_REFRESH_INTERVAL cannot be negative")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}
