package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/jobquery/internal/query"
)

// Config is the root configuration for jobquery.
type Config struct {
	Server   ServerConfig
	AI       AIConfig
	Store    StoreConfig
	Schema   *query.Schema
	Synonyms query.SynonymTable
}

// ServerConfig controls the HTTP boundary.
type ServerConfig struct {
	Addr        string
	AuthToken   string // empty disables bearer auth
	CORSOrigins []string
}

// AIConfig controls the term extraction model.
type AIConfig struct {
	Provider       string        // "openai" or "googleai"
	BaseURL        string        // openai only, defaults to https://api.openai.com/v1
	Model          string        // e.g. "gpt-4o-mini"
	APIKey         string        // expanded from env var by Load
	Timeout        time.Duration // per-attempt timeout
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// StoreConfig selects the listings database.
type StoreConfig struct {
	Driver string // "sqlite" or "postgres"
	DSN    string
	Table  string
}

const (
	ProviderOpenAI   = "openai"
	ProviderGoogleAI = "googleai"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	defaultAddr           = ":8000"
	defaultOpenAIBaseURL  = "https://api.openai.com/v1"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultGoogleAIModel  = "gemini-2.5-flash"
	defaultTimeout        = 30 * time.Second
	defaultMaxRetries     = 2
	defaultRetryBaseDelay = time.Second
	defaultSQLiteDSN      = "jobs.db"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Server rawServerConfig `yaml:"server"`
	AI     rawAIConfig     `yaml:"ai"`
	Store  rawStoreConfig  `yaml:"store"`
	Schema rawSchemaConfig `yaml:"schema"`
}

type rawServerConfig struct {
	Addr        string   `yaml:"addr"`
	AuthToken   string   `yaml:"auth_token"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type rawAIConfig struct {
	Provider       string `yaml:"provider"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	Timeout        string `yaml:"timeout"`
	MaxRetries     *int   `yaml:"max_retries"`
	RetryBaseDelay string `yaml:"retry_base_delay"`
}

type rawStoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Table  string `yaml:"table"`
}

type rawSchemaConfig struct {
	Concepts []query.Concept     `yaml:"concepts"`
	Synonyms map[string][]string `yaml:"synonyms"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	aiTimeout, err := parseDuration("ai.timeout", raw.AI.Timeout, defaultTimeout)
	if err != nil {
		return nil, err
	}
	retryDelay, err := parseDuration("ai.retry_base_delay", raw.AI.RetryBaseDelay, defaultRetryBaseDelay)
	if err != nil {
		return nil, err
	}
	maxRetries := defaultMaxRetries
	if raw.AI.MaxRetries != nil {
		maxRetries = *raw.AI.MaxRetries
	}

	provider := strings.ToLower(raw.AI.Provider)
	if provider == "" {
		provider = ProviderOpenAI
	}
	aiModel := raw.AI.Model
	if aiModel == "" {
		aiModel = defaultOpenAIModel
		if provider == ProviderGoogleAI {
			aiModel = defaultGoogleAIModel
		}
	}
	aiBaseURL := strings.TrimRight(raw.AI.BaseURL, "/")
	if aiBaseURL == "" && provider == ProviderOpenAI {
		aiBaseURL = defaultOpenAIBaseURL
	}

	driver := strings.ToLower(raw.Store.Driver)
	if driver == "" {
		driver = DriverSQLite
	}
	dsn := raw.Store.DSN
	if dsn == "" && driver == DriverSQLite {
		dsn = defaultSQLiteDSN
	}
	table := raw.Store.Table
	if table == "" {
		table = query.DefaultTable
	}

	addr := raw.Server.Addr
	if addr == "" {
		addr = defaultAddr
	}

	schema := query.DefaultSchema()
	if len(raw.Schema.Concepts) > 0 {
		schema, err = query.NewSchema(raw.Schema.Concepts)
		if err != nil {
			return nil, fmt.Errorf("schema.concepts: %w", err)
		}
	}
	synonyms := query.DefaultSynonyms()
	if raw.Schema.Synonyms != nil {
		synonyms = query.SynonymTable(raw.Schema.Synonyms)
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:        addr,
			AuthToken:   raw.Server.AuthToken,
			CORSOrigins: raw.Server.CORSOrigins,
		},
		AI: AIConfig{
			Provider:       provider,
			BaseURL:        aiBaseURL,
			Model:          aiModel,
			APIKey:         raw.AI.APIKey,
			Timeout:        aiTimeout,
			MaxRetries:     maxRetries,
			RetryBaseDelay: retryDelay,
		},
		Store: StoreConfig{
			Driver: driver,
			DSN:    dsn,
			Table:  table,
		},
		Schema:   schema,
		Synonyms: synonyms,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return d, nil
}

func validate(cfg *Config) error {
	switch cfg.AI.Provider {
	case ProviderOpenAI, ProviderGoogleAI:
	default:
		return fmt.Errorf("ai.provider must be %q or %q, got %q", ProviderOpenAI, ProviderGoogleAI, cfg.AI.Provider)
	}
	if cfg.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key is required")
	}
	if cfg.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive, got %v", cfg.AI.Timeout)
	}
	if cfg.AI.MaxRetries < 0 || cfg.AI.MaxRetries > 10 {
		return fmt.Errorf("ai.max_retries must be between 0 and 10, got %d", cfg.AI.MaxRetries)
	}
	if cfg.AI.RetryBaseDelay <= 0 {
		return fmt.Errorf("ai.retry_base_delay must be positive, got %v", cfg.AI.RetryBaseDelay)
	}

	switch cfg.Store.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("store.driver must be %q or %q, got %q", DriverSQLite, DriverPostgres, cfg.Store.Driver)
	}
	if cfg.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required when store.driver is %q", cfg.Store.Driver)
	}
	if err := query.ValidateIdentifier(cfg.Store.Table); err != nil {
		return fmt.Errorf("store.table: %w", err)
	}

	for _, o := range cfg.Server.CORSOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("server.cors_origins entry %q must be \"*\" or an http(s) origin", o)
		}
	}

	return nil
}
