package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amishk599/jobquery/internal/query"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
ai:
  api_key: sk-test
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("Server.Addr = %q, want :8000", cfg.Server.Addr)
	}
	if cfg.AI.Provider != ProviderOpenAI || cfg.AI.BaseURL != "https://api.openai.com/v1" || cfg.AI.Model != "gpt-4o-mini" {
		t.Errorf("AI = %+v", cfg.AI)
	}
	if cfg.AI.Timeout != 30*time.Second || cfg.AI.MaxRetries != 2 || cfg.AI.RetryBaseDelay != time.Second {
		t.Errorf("AI retry settings = %v/%d/%v", cfg.AI.Timeout, cfg.AI.MaxRetries, cfg.AI.RetryBaseDelay)
	}
	if cfg.Store.Driver != DriverSQLite || cfg.Store.DSN != "jobs.db" || cfg.Store.Table != query.DefaultTable {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if got := len(cfg.Schema.Concepts()); got != len(query.DefaultConcepts) {
		t.Errorf("Schema has %d concepts, want default %d", got, len(query.DefaultConcepts))
	}
	if len(cfg.Synonyms) == 0 {
		t.Error("expected default synonyms")
	}
}

func TestLoad_FullConfig(t *testing.T) {
	t.Setenv("TEST_JOBQUERY_KEY", "sk-from-env")
	path := writeConfig(t, `
server:
  addr: ":9090"
  auth_token: secret
  cors_origins:
    - http://localhost:3000
ai:
  provider: googleai
  api_key: ${TEST_JOBQUERY_KEY}
  timeout: 10s
  max_retries: 0
  retry_base_delay: 250ms
store:
  driver: postgres
  dsn: postgres://localhost/jobs
  table: listings
schema:
  concepts:
    - name: role
      column: TITLE
    - name: city
      column: LOCATION
  synonyms:
    sre: [site reliability engineer]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.AuthToken != "secret" || len(cfg.Server.CORSOrigins) != 1 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.AI.APIKey != "sk-from-env" {
		t.Errorf("APIKey = %q, want expanded env value", cfg.AI.APIKey)
	}
	if cfg.AI.Model != "gemini-2.5-flash" || cfg.AI.BaseURL != "" {
		t.Errorf("AI = %+v", cfg.AI)
	}
	if cfg.AI.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want explicit 0", cfg.AI.MaxRetries)
	}
	if cfg.AI.Timeout != 10*time.Second || cfg.AI.RetryBaseDelay != 250*time.Millisecond {
		t.Errorf("durations = %v/%v", cfg.AI.Timeout, cfg.AI.RetryBaseDelay)
	}
	if cfg.Store.Driver != DriverPostgres || cfg.Store.Table != "listings" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if names := cfg.Schema.ConceptNames(); len(names) != 2 || names[1] != "city" {
		t.Errorf("concepts = %v", names)
	}
	if _, ok := cfg.Synonyms["sre"]; !ok || len(cfg.Synonyms) != 1 {
		t.Errorf("Synonyms = %v", cfg.Synonyms)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "ai: [broken")

	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing api key", `
ai:
  model: gpt-4o-mini
`},
		{"unknown provider", `
ai:
  provider: llama
  api_key: k
`},
		{"bad timeout", `
ai:
  api_key: k
  timeout: soon
`},
		{"negative retries", `
ai:
  api_key: k
  max_retries: -1
`},
		{"unknown driver", `
ai:
  api_key: k
store:
  driver: mysql
`},
		{"postgres without dsn", `
ai:
  api_key: k
store:
  driver: postgres
`},
		{"injected table name", `
ai:
  api_key: k
store:
  table: "jobs; DROP TABLE users"
`},
		{"invalid column", `
ai:
  api_key: k
schema:
  concepts:
    - name: role
      column: "TITLE OR 1=1"
`},
		{"bad cors origin", `
ai:
  api_key: k
server:
  cors_origins: [localhost]
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatal("Load: expected validation error")
			}
		})
	}
}
