package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-radar/internal/config"
	"github.com/jonathan/job-radar/internal/schema"
	"github.com/jonathan/job-radar/internal/settings"
)

func TestDefaultHeader_CoversRequiredColumns(t *testing.T) {
	present := make(map[string]bool, len(defaultHeader))
	for _, col := range defaultHeader {
		present[col] = true
	}

	for _, col := range schema.Required {
		assert.True(t, present[string(col)], "required column %s missing from default header", col)
	}
	for _, col := range schema.DiffColumns {
		assert.True(t, present[string(col)], "diff column %s missing from default header", col)
	}
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	storeKind = config.StoreMemory
	verbose = true
	t.Cleanup(func() { storeKind = ""; verbose = false })

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, config.StoreMemory, cfg.Store)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "Jobs", cfg.JobsSheet)
}

func TestNewJobsStore_UnknownStore(t *testing.T) {
	cfg := &config.Config{Store: "redis"}
	st, err := newJobsStore(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, st)
}

func TestMemorySettingsStore_LoadsDryRunDefaults(t *testing.T) {
	cfg := &config.Config{Store: config.StoreMemory}

	st, err := newSettingsStore(context.Background(), cfg)
	require.NoError(t, err)

	s, err := settings.Load(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, 30, s.MaxDaysBack)
	assert.True(t, s.RemoteAllowed)
	assert.Empty(t, s.Keywords)
}
