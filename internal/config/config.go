package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/tracker-spend/spendtrack/internal/categorize"
)

// FileName is the project config file name.
const FileName = "spendtrack.yaml"

// Environment variables that override open-banking credentials.
const (
	EnvSecretID  = "SPENDTRACK_SECRET_ID"
	EnvSecretKey = "SPENDTRACK_SECRET_KEY"
)

// Config represents the top-level spendtrack.yaml configuration.
type Config struct {
	Owner            string            `yaml:"owner"`
	Currency         string            `yaml:"currency"`
	Locale           string            `yaml:"locale"`            // BCP 47 tag for money formatting
	CategoryLanguage string            `yaml:"category_language"` // "en" or "it"
	Import           ImportConfig      `yaml:"import"`
	OpenBanking      OpenBankingConfig `yaml:"open_banking"`
	Budgets          []Budget          `yaml:"budgets,omitempty"`
	Goals            []Goal            `yaml:"goals,omitempty"`
	Git              GitConfig         `yaml:"git"`
	Log              LogConfig         `yaml:"log"`
}

// ImportConfig tunes statement parsing.
type ImportConfig struct {
	ScanRows int    `yaml:"scan_rows"`        // header search window for spreadsheets
	Format   string `yaml:"format,omitempty"` // forces a format for every file
}

// OpenBankingConfig points at the bank-data provider.
type OpenBankingConfig struct {
	BaseURL       string `yaml:"base_url"`
	SecretID      string `yaml:"secret_id,omitempty"`
	SecretKey     string `yaml:"secret_key,omitempty"`
	RequisitionID string `yaml:"requisition_id,omitempty"`
	LookbackDays  int    `yaml:"lookback_days"`
}

// Budget caps spending in one category over a date range.
type Budget struct {
	Name     string          `yaml:"name"`
	Category string          `yaml:"category"`
	Amount   decimal.Decimal `yaml:"amount"`
	Start    Date            `yaml:"start"`
	End      Date            `yaml:"end"`
}

// Goal tracks savings toward a target.
type Goal struct {
	Name     string          `yaml:"name"`
	Target   decimal.Decimal `yaml:"target"`
	Current  decimal.Decimal `yaml:"current"`
	Deadline Date            `yaml:"deadline,omitempty"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LogConfig controls logger output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Date is a calendar date stored as YYYY-MM-DD.
type Date struct {
	time.Time
}

// MarshalYAML implements yaml.Marshaler.
func (d Date) MarshalYAML() (interface{}, error) {
	if d.IsZero() {
		return "", nil
	}
	return d.Format("2006-01-02"), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	if node.Value == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse("2006-01-02", node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid date %q", node.Line, node.Value)
	}
	d.Time = t
	return nil
}

// Load reads a spendtrack.yaml file from disk and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// Validate checks that every budget names a taxonomy category, or none.
// Italian labels are rewritten to their canonical form.
func (c *Config) Validate() error {
	for i := range c.Budgets {
		b := &c.Budgets[i]
		if b.Category == "" {
			continue
		}
		canonical, ok := categorize.Canonical(b.Category)
		if !ok {
			return fmt.Errorf("budget %q: unknown category %q", b.Name, b.Category)
		}
		b.Category = canonical
	}
	return nil
}

// ApplyEnv overrides open-banking credentials from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvSecretID); v != "" {
		c.OpenBanking.SecretID = v
	}
	if v := os.Getenv(EnvSecretKey); v != "" {
		c.OpenBanking.SecretKey = v
	}
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(owner string) *Config {
	return &Config{
		Owner:            owner,
		Currency:         "EUR",
		Locale:           "it-IT",
		CategoryLanguage: "en",
		Import: ImportConfig{
			ScanRows: 25,
		},
		OpenBanking: OpenBankingConfig{
			BaseURL:      "https://bankaccountdata.gocardless.com",
			LookbackDays: 90,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Spendtrack",
			AuthorEmail: "import@spendtrack.local",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
