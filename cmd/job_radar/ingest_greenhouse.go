package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-radar/internal/config"
	"github.com/jonathan/job-radar/internal/matching"
	"github.com/jonathan/job-radar/internal/reconcile"
	"github.com/jonathan/job-radar/internal/scrape"
	"github.com/jonathan/job-radar/internal/settings"
	"github.com/jonathan/job-radar/internal/types"
)

var ingestGreenhouseCmd = &cobra.Command{
	Use:   "ingest-greenhouse",
	Short: "Ingest listings from Greenhouse company boards",
	Long:  "Crawl the configured Greenhouse boards concurrently, filter job titles against the user preferences, and reconcile the survivors into the jobs table.",
	RunE:  runIngestGreenhouse,
}

var greenhouseCompanies []string

func init() {
	ingestGreenhouseCmd.Flags().StringSliceVar(&greenhouseCompanies, "companies", nil, "Company board slugs to crawl (overrides config)")
	rootCmd.AddCommand(ingestGreenhouseCmd)
}

func runIngestGreenhouse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(greenhouseCompanies) > 0 {
		cfg.GreenhouseCompanies = greenhouseCompanies
	}
	log := newLogger(cfg)

	report, err := greenhouseIngestion(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	return printReport(report)
}

// greenhouseIngestion crawls every configured board concurrently and
// reconciles the combined batch in one pass.
func greenhouseIngestion(ctx context.Context, cfg *config.Config, log *logrus.Entry) (*reconcile.Report, error) {
	if len(cfg.GreenhouseCompanies) == 0 {
		return nil, fmt.Errorf("no greenhouse companies configured")
	}

	prefs, err := loadSettings(ctx, cfg)
	if err != nil {
		return nil, err
	}

	fetcher := newFetcher(cfg)

	var mu sync.Mutex
	var jobs []types.RawJob

	g, gctx := errgroup.WithContext(ctx)
	for _, slug := range cfg.GreenhouseCompanies {
		slug := slug
		g.Go(func() error {
			scraped, err := scrape.NewGreenhouse(slug, fetcher, log).Run(gctx)
			if err != nil {
				return fmt.Errorf("greenhouse board %s: %w", slug, err)
			}
			mu.Lock()
			jobs = append(jobs, scraped...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	jobs = selectGreenhouseJobs(jobs, prefs)
	log.WithField("jobs", len(jobs)).Info("greenhouse listings scraped and filtered")

	st, err := newJobsStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return reconcile.Run(ctx, st, jobs, reconcile.Options{Log: log})
}

// selectGreenhouseJobs applies the title filter and then the max_jobs cap.
// Filter first, cap the survivors: the same order the GitHub path uses, whose
// scraper filters internally before the cap is applied.
func selectGreenhouseJobs(jobs []types.RawJob, prefs *settings.Settings) []types.RawJob {
	filter := matching.TitleFilter{
		RoleLevelKeywords: prefs.RequiredJobType,
		RoleTypeKeywords:  prefs.Keywords,
	}
	jobs = matching.FilterJobs(jobs, filter)
	return jobs[:prefs.Cap(len(jobs))]
}
