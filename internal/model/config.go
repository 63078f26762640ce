package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the complete runtime configuration
type Config struct {
	Thresholds   ThresholdConfig    `yaml:"thresholds" mapstructure:"thresholds"`
	Scoring      ScoringConfig      `yaml:"scoring" mapstructure:"scoring"`
	Sources      SourcesConfig      `yaml:"sources" mapstructure:"sources"`
	Bias         BiasConfig         `yaml:"bias" mapstructure:"bias"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	APIs         APIConfig          `yaml:"apis" mapstructure:"apis"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	History      HistoryConfig      `yaml:"history" mapstructure:"history"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Monitor      MonitorConfig      `yaml:"monitor" mapstructure:"monitor"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// ThresholdConfig holds the credibility tier boundaries
type ThresholdConfig struct {
	High   float64 `yaml:"high" mapstructure:"high"`
	Medium float64 `yaml:"medium" mapstructure:"medium"`
	Low    float64 `yaml:"low" mapstructure:"low"`
}

// ScoringConfig tunes the aggregate scorer
type ScoringConfig struct {
	// ConfidenceDivisor is the number of signals that counts as full confidence
	ConfidenceDivisor float64 `yaml:"confidence_divisor" mapstructure:"confidence_divisor"`
}

// SourcesConfig drives the domain reputation lookup
type SourcesConfig struct {
	Reliable   []string          `yaml:"reliable" mapstructure:"reliable"`
	Unreliable []string          `yaml:"unreliable" mapstructure:"unreliable"`
	DomainMap  map[string]string `yaml:"domain_map,omitempty" mapstructure:"domain_map"` // domain -> high|low|unknown
}

// BiasConfig lists phrases that indicate biased or sensational writing
type BiasConfig struct {
	Phrases []string `yaml:"phrases" mapstructure:"phrases"`
}

// HTTPConfig controls outbound HTTP
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// CacheConfig controls caching of collaborator responses
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig throttles requests per collaborator host
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// APIConfig holds third-party search and fact-check credentials
type APIConfig struct {
	NewsAPIKey      string `yaml:"news_api_key,omitempty" mapstructure:"news_api_key"`
	NewsAPIURL      string `yaml:"news_api_url" mapstructure:"news_api_url"`
	GoogleAPIKey    string `yaml:"google_api_key,omitempty" mapstructure:"google_api_key"`
	CustomSearchID  string `yaml:"custom_search_id,omitempty" mapstructure:"custom_search_id"`
	CustomSearchURL string `yaml:"custom_search_url" mapstructure:"custom_search_url"`
	FactCheckURL    string `yaml:"fact_check_url" mapstructure:"fact_check_url"`
	Language        string `yaml:"language" mapstructure:"language"`
}

// LLMConfig configures the AI credibility judgment
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, gemini, anthropic, ollama, "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// HistoryConfig controls persistent analysis logging
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	DBPath  string `yaml:"db_path" mapstructure:"db_path"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// FeedConfig is one monitored RSS feed
type FeedConfig struct {
	Name   string `yaml:"name" mapstructure:"name"`
	URL    string `yaml:"url" mapstructure:"url"`
	Domain string `yaml:"domain" mapstructure:"domain"`
}

// MonitorConfig controls live RSS monitoring
type MonitorConfig struct {
	Schedule     string       `yaml:"schedule" mapstructure:"schedule"`
	ItemsPerFeed int          `yaml:"items_per_feed" mapstructure:"items_per_feed"`
	Feeds        []FeedConfig `yaml:"feeds" mapstructure:"feeds"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".newscred")

	return &Config{
		Thresholds: ThresholdConfig{High: 0.8, Medium: 0.5, Low: 0.3},
		Scoring:    ScoringConfig{ConfidenceDivisor: 5},
		Sources: SourcesConfig{
			Reliable: []string{
				"reuters.com", "ap.org", "bbc.com", "npr.org", "pbs.org",
				"wsj.com", "nytimes.com", "washingtonpost.com", "theguardian.com",
				"cnn.com", "abcnews.go.com", "cbsnews.com", "nbcnews.com",
			},
			Unreliable: []string{
				"infowars.com", "breitbart.com", "theonion.com", "satirewire.com",
				"clickhole.com", "reductress.com",
			},
		},
		Bias: BiasConfig{
			Phrases: []string{
				"shocking", "unbelievable", "exclusive", "breaking exclusive",
				"you won't believe", "doctors hate this", "they don't want you to know",
				"mainstream media", "fake news", "conspiracy",
			},
		},
		HTTP: HTTPConfig{
			Timeout:       10 * time.Second,
			UserAgent:     "NewsCred/0.1 (+https://github.com/ppiankov/newscred)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       filepath.Join(base, "cache"),
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   6 * time.Hour,
		},
		Concurrency:  ConcurrencyConfig{Workers: 4},
		RateLimiting: RateLimitingConfig{RequestsPerSecond: 2, BurstSize: 5},
		APIs: APIConfig{
			NewsAPIURL:      "https://newsapi.org/v2",
			CustomSearchURL: "https://www.googleapis.com/customsearch/v1",
			FactCheckURL:    "https://factchecktools.googleapis.com/v1alpha1/claims:search",
			Language:        "en",
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 1000,
		},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  filepath.Join(base, "history.db"),
		},
		Server: ServerConfig{Addr: ":5000"},
		Monitor: MonitorConfig{
			Schedule:     "@every 5m",
			ItemsPerFeed: 3,
			Feeds: []FeedConfig{
				{Name: "BBC News", URL: "http://feeds.bbci.co.uk/news/rss.xml", Domain: "bbc.com"},
				{Name: "Reuters", URL: "https://www.reuters.com/rssFeed/topNews", Domain: "reuters.com"},
				{Name: "AP News", URL: "https://rssfeed.app/rss/ap-news-top-stories", Domain: "apnews.com"},
				{Name: "CNN", URL: "http://rss.cnn.com/rss/edition.rss", Domain: "cnn.com"},
				{Name: "NPR", URL: "https://feeds.npr.org/1001/rss.xml", Domain: "npr.org"},
			},
		},
		Output: OutputConfig{IncludeFooter: true},
	}
}
