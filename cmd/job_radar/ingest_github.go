package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-radar/internal/config"
	"github.com/jonathan/job-radar/internal/reconcile"
	"github.com/jonathan/job-radar/internal/scrape"
)

var ingestGitHubCmd = &cobra.Command{
	Use:   "ingest-github",
	Short: "Ingest listings from the SimplifyJobs internship list",
	Long:  "Scrape the SimplifyJobs GitHub README table, filter listings against the user preferences in the settings table, and reconcile the survivors into the jobs table.",
	RunE:  runIngestGitHub,
}

func init() {
	rootCmd.AddCommand(ingestGitHubCmd)
}

func runIngestGitHub(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	report, err := githubIngestion(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	return printReport(report)
}

// githubIngestion runs one full GitHub-list ingestion cycle.
func githubIngestion(ctx context.Context, cfg *config.Config, log *logrus.Entry) (*reconcile.Report, error) {
	prefs, err := loadSettings(ctx, cfg)
	if err != nil {
		return nil, err
	}

	scraper := scrape.NewSimplify(cfg.SimplifyURL, newFetcher(cfg), prefs.Filter(), nil, log)
	jobs, err := scraper.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("github ingestion failed: %w", err)
	}
	jobs = jobs[:prefs.Cap(len(jobs))]
	log.WithField("jobs", len(jobs)).Info("github listings scraped")

	st, err := newJobsStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return reconcile.Run(ctx, st, jobs, reconcile.Options{Log: log})
}

func printReport(report *reconcile.Report) error {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
