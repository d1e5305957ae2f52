// Package settings loads user preferences from the key/value Settings table
// and turns them into typed filter criteria.
package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-radar/internal/matching"
	"github.com/jonathan/job-radar/internal/store"
)

// Settings are the user-tunable ingestion preferences. They live next to the
// jobs table so the user edits them in place, without redeploying.
type Settings struct {
	RequiredJobType []string `json:"required_job_type"`
	Keywords        []string `json:"keywords"`
	MaxDaysBack     int      `json:"max_days_back" validate:"gte=0"`
	MaxJobs         int      `json:"max_jobs" validate:"gte=0"`
	UsOnly          bool     `json:"us_only"`
	RemoteAllowed   bool     `json:"remote_allowed"`
}

var validate = validator.New()

// Load reads the Settings table (header row "key | value", one setting per
// row) and returns normalized, validated settings. Unknown keys are ignored;
// missing keys fall back to no-constraint defaults.
func Load(ctx context.Context, ts store.TableStore) (*Settings, error) {
	_, rows, err := ts.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings table: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("settings table is empty or malformed")
	}

	raw := make(map[string]string, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		key := strings.TrimSpace(row[0])
		if key == "" {
			continue
		}
		raw[key] = strings.TrimSpace(row[1])
	}

	s := &Settings{
		RequiredJobType: splitList(raw["required_job_type"]),
		Keywords:        splitList(raw["keywords"]),
		UsOnly:          parseFlag(raw["us_only"]),
		RemoteAllowed:   parseFlag(raw["remote_allowed"]),
	}

	if s.MaxDaysBack, err = parseInt(raw, "max_days_back"); err != nil {
		return nil, err
	}
	if s.MaxJobs, err = parseInt(raw, "max_jobs"); err != nil {
		return nil, err
	}

	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return s, nil
}

// Filter converts the settings into the rich listing filter.
func (s *Settings) Filter() matching.RichFilter {
	return matching.RichFilter{
		RequiredJobType: s.RequiredJobType,
		Keywords:        s.Keywords,
		MaxDaysBack:     s.MaxDaysBack,
		UsOnly:          s.UsOnly,
		RemoteAllowed:   s.RemoteAllowed,
	}
}

// Cap truncates a raw batch to the max_jobs limit. Zero means no limit.
func (s *Settings) Cap(n int) int {
	if s.MaxJobs > 0 && n > s.MaxJobs {
		return s.MaxJobs
	}
	return n
}

// splitList parses a comma-separated list, trimming and lowercasing entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseFlag treats any casing of "true" as on; everything else is off.
func parseFlag(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "true")
}

func parseInt(raw map[string]string, key string) (int, error) {
	value, ok := raw[key]
	if !ok || value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for setting %q: %w", key, err)
	}
	return n, nil
}
