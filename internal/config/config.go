// Package config provides deployment configuration loading and validation
// for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/job-radar/internal/schemas"
)

// Store backend names accepted in config and on the command line.
const (
	StoreSheets   = "sheets"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// configSchemaPath is the JSON Schema the config file is validated against.
const configSchemaPath = "schemas/config.schema.json"

// Config represents the deployment configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// Google Sheets backend
	SpreadsheetID   string `json:"spreadsheet_id,omitempty"`   // Spreadsheet holding the jobs and settings tabs
	JobsSheet       string `json:"jobs_sheet,omitempty"`       // Tab name of the jobs table
	SettingsSheet   string `json:"settings_sheet,omitempty"`   // Tab name of the key/value settings table
	CredentialsFile string `json:"credentials_file,omitempty"` // Path to the service-account JSON

	// Postgres backend
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Ingestion
	Store               string   `json:"store,omitempty"`                // sheets, postgres, or memory
	GreenhouseCompanies []string `json:"greenhouse_companies,omitempty"` // Board slugs to crawl
	SimplifyURL         string   `json:"simplify_url,omitempty"`         // Override for the internship-list README URL
	UseBrowser          bool     `json:"use_browser,omitempty"`          // Render boards in a headless browser
	ScheduleHours       int      `json:"schedule_hours,omitempty"`       // Interval between scheduled runs
	Verbose             bool     `json:"verbose,omitempty"`              // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file and validates it against
// the config schema when the schema file is locatable.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if schemaPath := schemas.ResolveSchemaPath(configSchemaPath); schemaPath != "" {
		if err := schemas.ValidateJSON(schemaPath, path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyDefaults fills empty fields with the standard deployment defaults.
func (c *Config) ApplyDefaults() {
	if c.Store == "" {
		c.Store = StoreSheets
	}
	if c.JobsSheet == "" {
		c.JobsSheet = "Jobs"
	}
	if c.SettingsSheet == "" {
		c.SettingsSheet = "Settings"
	}
	if c.CredentialsFile == "" {
		c.CredentialsFile = "credentials/service_account.json"
	}
	if c.ScheduleHours == 0 {
		c.ScheduleHours = 6
	}
}

// Validate checks that the configuration has valid values. Required fields
// are checked per selected store; flag-level requirements are handled by the
// CLI after merging.
func (c *Config) Validate() error {
	switch c.Store {
	case "", StoreSheets, StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("config error: unknown store %q", c.Store)
	}

	if c.ScheduleHours < 0 {
		return fmt.Errorf("config error: 'schedule_hours' must be non-negative")
	}

	if c.Store == StoreSheets {
		if c.SpreadsheetID == "" {
			return fmt.Errorf("config error: 'spreadsheet_id' is required for the sheets store")
		}
		if c.CredentialsFile != "" {
			if _, err := os.Stat(c.CredentialsFile); os.IsNotExist(err) {
				return fmt.Errorf("config error: credentials file not found: %s", c.CredentialsFile)
			}
		}
	}

	if c.Store == StorePostgres && c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required for the postgres store")
	}

	return nil
}
