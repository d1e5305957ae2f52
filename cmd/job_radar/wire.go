package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/job-radar/internal/config"
	"github.com/jonathan/job-radar/internal/logging"
	"github.com/jonathan/job-radar/internal/schema"
	"github.com/jonathan/job-radar/internal/scrape"
	"github.com/jonathan/job-radar/internal/settings"
	"github.com/jonathan/job-radar/internal/store"
)

// defaultHeader is the column layout used when the backend has to be created
// from scratch (memory dry runs, fresh Postgres mirrors). Sheets deployments
// carry their own header row.
var defaultHeader = []string{
	string(schema.ColJobID),
	string(schema.ColJobTitle),
	string(schema.ColCompany),
	string(schema.ColLocation),
	string(schema.ColJobURL),
	string(schema.ColSource),
	string(schema.ColDatePosted),
	string(schema.ColDateFound),
	string(schema.ColRelevanceScore),
	string(schema.ColRoleType),
	string(schema.ColConfidence),
	string(schema.ColArchived),
	string(schema.ColLastUpdated),
	string(schema.ColApplied),
	string(schema.ColDateApplied),
	string(schema.ColApplicationStatus),
	string(schema.ColPriority),
	string(schema.ColNotes),
	string(schema.ColLocked),
}

// loadConfig merges the config file (if given), environment, and flags into
// one validated configuration.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}

	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v := os.Getenv("JOB_RADAR_SPREADSHEET_ID"); v != "" && cfg.SpreadsheetID == "" {
		cfg.SpreadsheetID = v
	}
	if v := os.Getenv("JOB_RADAR_DATABASE_URL"); v != "" && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("JOB_RADAR_CREDENTIALS_FILE"); v != "" && cfg.CredentialsFile == "" {
		cfg.CredentialsFile = v
	}

	if storeKind != "" {
		cfg.Store = storeKind
	}
	if verbose {
		cfg.Verbose = true
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logrus.Entry {
	level := "info"
	if cfg.Verbose {
		level = "debug"
	}
	return logging.New(level, os.Getenv("JOB_RADAR_LOG_FORMAT"))
}

// newJobsStore opens the configured backend for the jobs table.
func newJobsStore(ctx context.Context, cfg *config.Config) (store.TableStore, error) {
	switch cfg.Store {
	case config.StoreSheets:
		return store.NewSheets(ctx, cfg.CredentialsFile, cfg.SpreadsheetID, cfg.JobsSheet)
	case config.StorePostgres:
		return store.NewPostgres(ctx, cfg.DatabaseURL, "jobs", defaultHeader)
	case config.StoreMemory:
		return store.NewMemory(defaultHeader, nil), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// newSettingsStore opens the backend holding the key/value settings table.
// The memory backend gets permissive dry-run defaults.
func newSettingsStore(ctx context.Context, cfg *config.Config) (store.TableStore, error) {
	switch cfg.Store {
	case config.StoreSheets:
		return store.NewSheets(ctx, cfg.CredentialsFile, cfg.SpreadsheetID, cfg.SettingsSheet)
	case config.StorePostgres:
		return store.NewPostgres(ctx, cfg.DatabaseURL, "settings", []string{"key", "value"})
	case config.StoreMemory:
		return store.NewMemory([]string{"key", "value"}, [][]string{
			{"max_days_back", "30"},
			{"remote_allowed", "true"},
		}), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// loadSettings reads and normalizes the user preferences.
func loadSettings(ctx context.Context, cfg *config.Config) (*settings.Settings, error) {
	st, err := newSettingsStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s, err := settings.Load(ctx, st)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newFetcher(cfg *config.Config) *scrape.HTTPFetcher {
	return &scrape.HTTPFetcher{UseBrowser: cfg.UseBrowser}
}
