package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-radar/internal/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run both ingestions on a recurring schedule",
	Long:  "Run the GitHub-list and Greenhouse ingestions immediately and then on a fixed interval until interrupted.",
	RunE:  runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	cycle := func(ctx context.Context) {
		if _, err := githubIngestion(ctx, cfg, log); err != nil {
			log.WithError(err).Error("github ingestion failed")
		}
		if len(cfg.GreenhouseCompanies) > 0 {
			if _, err := greenhouseIngestion(ctx, cfg, log); err != nil {
				log.WithError(err).Error("greenhouse ingestion failed")
			}
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := schedule.New(cycle, cfg.ScheduleHours, log)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	<-ctx.Done()
	return nil
}
