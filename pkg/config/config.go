// Package config loads the feedgate YAML configuration, applies defaults and validates it.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" json:"server" jsonschema:"description=Admin API server configuration"`
	Database   DatabaseConfig   `yaml:"database" json:"database" jsonschema:"description=Database configuration"`
	Schedule   ScheduleConfig   `yaml:"schedule" json:"schedule" jsonschema:"description=Fetch scheduler configuration"`
	Quota      QuotaConfig      `yaml:"quota" json:"quota" jsonschema:"description=Quota guard configuration"`
	Admission  AdmissionConfig  `yaml:"admission" json:"admission" jsonschema:"description=Admission rollout configuration"`
	Worker     WorkerConfig     `yaml:"worker" json:"worker" jsonschema:"description=Job queue worker configuration"`
	LLM        LLMConfig        `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for summary generation"`
	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Content extraction configuration"`
}

// ServerConfig holds admin API settings
type ServerConfig struct {
	Listen  string        `yaml:"listen" json:"listen" jsonschema:"required,default=:8080,description=HTTP server listen address"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"required,default=30s,description=HTTP server timeout"`
	Token   string        `yaml:"token" json:"token" jsonschema:"description=Bearer token for mutating admin endpoints (optional)"`
	BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Base URL for RSS and OPML links"`
}

// DatabaseConfig holds sqlite connection settings
type DatabaseConfig struct {
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"required,description=Database connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,minimum=0,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,minimum=0,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,minimum=0,description=Connection maximum lifetime in seconds"`
}

// ScheduleConfig holds fetch scheduler settings
type ScheduleConfig struct {
	TickInterval    time.Duration `yaml:"tick_interval" json:"tick_interval" jsonschema:"default=1m,description=How often due feeds are evaluated"`
	Tolerance       time.Duration `yaml:"tolerance" json:"tolerance" jsonschema:"default=5m,description=A feed is due this early before its interval elapses"`
	InterFeedDelay  time.Duration `yaml:"inter_feed_delay" json:"inter_feed_delay" jsonschema:"default=2s,description=Pause between sequential feed fetches"`
	DefaultInterval int           `yaml:"default_interval" json:"default_interval" jsonschema:"default=30,minimum=1,maximum=1440,description=Fetch interval in minutes for newly registered feeds"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout" json:"fetch_timeout" jsonschema:"default=30s,description=Timeout of a single feed download"`
	UserAgent       string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Feedgate/1.0,description=User agent for feed requests"`
}

// QuotaConfig holds quota guard settings
type QuotaConfig struct {
	OutcomeWindow     int `yaml:"outcome_window" json:"outcome_window" jsonschema:"default=20,minimum=1,description=Job outcomes kept per feed for the error rate"`
	MinOutcomeSamples int `yaml:"min_outcome_samples" json:"min_outcome_samples" jsonschema:"default=5,minimum=1,description=Outcomes needed before the error rate is evaluated"`
}

// AdmissionConfig holds the default rollout policy, used until one is persisted
type AdmissionConfig struct {
	Mode           string `yaml:"mode" json:"mode" jsonschema:"default=off,enum=off,enum=emergency_off,enum=canary,enum=on,description=Default rollout mode"`
	Percentage     int    `yaml:"percentage" json:"percentage" jsonschema:"default=0,minimum=0,maximum=100,description=Canary percentage"`
	Shadow         bool   `yaml:"shadow" json:"shadow" jsonschema:"default=false,description=Evaluate admissions without enqueueing"`
	MaxItemsPerJob int    `yaml:"max_items_per_job" json:"max_items_per_job" jsonschema:"default=50,minimum=1,description=Item ids kept per job"`
}

// WorkerConfig holds job queue worker settings
type WorkerConfig struct {
	Count        int           `yaml:"count" json:"count" jsonschema:"default=2,minimum=1,description=Number of queue workers"`
	BatchSize    int           `yaml:"batch_size" json:"batch_size" jsonschema:"default=5,minimum=1,description=Jobs claimed at once"`
	IdleInterval time.Duration `yaml:"idle_interval" json:"idle_interval" jsonschema:"default=5s,description=Sleep when the queue is empty"`
	CostCeiling  float64       `yaml:"cost_ceiling" json:"cost_ceiling" jsonschema:"default=0.5,minimum=0,description=Estimated cost in USD above which jobs are rejected"`
	RetryCeiling int           `yaml:"retry_ceiling" json:"retry_ceiling" jsonschema:"default=3,minimum=1,description=Failures before a job is dead-lettered"`
	DrainTimeout time.Duration `yaml:"drain_timeout" json:"drain_timeout" jsonschema:"default=30s,description=Time in-flight jobs get on shutdown"`
	ReapSchedule string        `yaml:"reap_schedule" json:"reap_schedule" jsonschema:"default=@every 1m,description=Cron schedule of the stale job reaper"`
	StaleAfter   time.Duration `yaml:"stale_after" json:"stale_after" jsonschema:"default=15m,description=Processing jobs older than this are returned to the queue"`
}

// LLMConfig holds LLM configuration for summary generation
type LLMConfig struct {
	Endpoint        string        `yaml:"endpoint" json:"endpoint" jsonschema:"required,description=OpenAI-compatible API endpoint"`
	APIKey          string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model           string        `yaml:"model" json:"model" jsonschema:"required,description=Model name (e.g. gpt-4o-mini or llama3)"`
	Temperature     float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,minimum=0,maximum=2,description=Temperature for response generation"`
	MaxTokens       int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=500,minimum=1,description=Maximum tokens in response"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	SystemPrompt    string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt for the LLM (optional)"`
	MaxContentChars int           `yaml:"max_content_chars" json:"max_content_chars" jsonschema:"default=2000,minimum=1,description=Characters of item content sent per item"`
	InputPrice      float64       `yaml:"input_price" json:"input_price" jsonschema:"default=0.00015,minimum=0,description=USD per 1000 prompt tokens"`
	OutputPrice     float64       `yaml:"output_price" json:"output_price" jsonschema:"default=0.0006,minimum=0,description=USD per 1000 completion tokens"`
}

// ExtractionConfig holds content extraction settings
type ExtractionConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Extract article text for items without content"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per article"`
	MaxConcurrent int           `yaml:"max_concurrent" json:"max_concurrent" jsonschema:"default=5,minimum=1,description=Maximum concurrent extractions per job"`
	RateLimit     time.Duration `yaml:"rate_limit" json:"rate_limit" jsonschema:"default=1s,description=Rate limit between extractions"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Feedgate/1.0,description=User agent for HTTP requests"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=100,minimum=0,description=Minimum text length to consider valid"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// schema validation is supplementary, mismatches are only reported
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	// server
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}

	// database
	if c.Database.DSN == "" {
		c.Database.DSN = "file:feedgate.db?mode=rwc&_txlock=immediate&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	// schedule
	if c.Schedule.TickInterval == 0 {
		c.Schedule.TickInterval = time.Minute
	}
	if c.Schedule.Tolerance == 0 {
		c.Schedule.Tolerance = 5 * time.Minute
	}
	if c.Schedule.InterFeedDelay == 0 {
		c.Schedule.InterFeedDelay = 2 * time.Second
	}
	if c.Schedule.DefaultInterval == 0 {
		c.Schedule.DefaultInterval = 30
	}
	if c.Schedule.FetchTimeout == 0 {
		c.Schedule.FetchTimeout = 30 * time.Second
	}
	if c.Schedule.UserAgent == "" {
		c.Schedule.UserAgent = "Feedgate/1.0"
	}

	// quota
	if c.Quota.OutcomeWindow == 0 {
		c.Quota.OutcomeWindow = 20
	}
	if c.Quota.MinOutcomeSamples == 0 {
		c.Quota.MinOutcomeSamples = 5
	}

	// admission
	if c.Admission.Mode == "" {
		c.Admission.Mode = "off"
	}
	if c.Admission.MaxItemsPerJob == 0 {
		c.Admission.MaxItemsPerJob = 50
	}

	// worker
	if c.Worker.Count == 0 {
		c.Worker.Count = 2
	}
	if c.Worker.BatchSize == 0 {
		c.Worker.BatchSize = 5
	}
	if c.Worker.IdleInterval == 0 {
		c.Worker.IdleInterval = 5 * time.Second
	}
	if c.Worker.CostCeiling == 0 {
		c.Worker.CostCeiling = 0.5
	}
	if c.Worker.RetryCeiling == 0 {
		c.Worker.RetryCeiling = 3
	}
	if c.Worker.DrainTimeout == 0 {
		c.Worker.DrainTimeout = 30 * time.Second
	}
	if c.Worker.ReapSchedule == "" {
		c.Worker.ReapSchedule = "@every 1m"
	}
	if c.Worker.StaleAfter == 0 {
		c.Worker.StaleAfter = 15 * time.Minute
	}

	// llm
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.3
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 500
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 30 * time.Second
	}
	if c.LLM.MaxContentChars == 0 {
		c.LLM.MaxContentChars = 2000
	}

	// extraction
	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 30 * time.Second
	}
	if c.Extraction.MaxConcurrent == 0 {
		c.Extraction.MaxConcurrent = 5
	}
	if c.Extraction.RateLimit == 0 {
		c.Extraction.RateLimit = time.Second
	}
	if c.Extraction.UserAgent == "" {
		c.Extraction.UserAgent = "Feedgate/1.0"
	}
	if c.Extraction.MinTextLength == 0 {
		c.Extraction.MinTextLength = 100
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// llm
	if cfg.LLM.Endpoint == "" {
		return fmt.Errorf("llm.endpoint is required")
	}
	if cfg.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.InputPrice < 0 || cfg.LLM.OutputPrice < 0 {
		return fmt.Errorf("llm prices must be non-negative")
	}

	// schedule
	if cfg.Schedule.TickInterval < time.Second {
		return fmt.Errorf("schedule.tick_interval must be at least 1 second")
	}
	if cfg.Schedule.DefaultInterval < 1 || cfg.Schedule.DefaultInterval > 1440 {
		return fmt.Errorf("schedule.default_interval must be between 1 and 1440 minutes")
	}

	// admission
	switch cfg.Admission.Mode {
	case "off", "emergency_off", "canary", "on":
	default:
		return fmt.Errorf("admission.mode %q is not one of off, emergency_off, canary, on", cfg.Admission.Mode)
	}
	if cfg.Admission.Percentage < 0 || cfg.Admission.Percentage > 100 {
		return fmt.Errorf("admission.percentage must be between 0 and 100")
	}

	// worker
	if cfg.Worker.Count < 1 {
		return fmt.Errorf("worker.count must be at least 1")
	}
	if cfg.Worker.CostCeiling < 0 {
		return fmt.Errorf("worker.cost_ceiling must be non-negative")
	}
	if cfg.Worker.StaleAfter < time.Minute {
		return fmt.Errorf("worker.stale_after must be at least 1 minute")
	}

	// extraction
	if cfg.Extraction.Enabled {
		if cfg.Extraction.Timeout < time.Second {
			return fmt.Errorf("extraction timeout must be at least 1 second")
		}
		if cfg.Extraction.MinTextLength < 0 {
			return fmt.Errorf("extraction min_text_length must be non-negative")
		}
	}

	// server
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}
