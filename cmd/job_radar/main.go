// Package main provides the entry point for the job radar CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "job_radar",
	Short: "Job posting radar and tracker sync",
	Long:  "Job radar scrapes job boards, filters listings against user preferences, and reconciles them into a shared tracking table without touching user-owned fields.",
}

var (
	configPath string
	storeKind  string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "Storage backend: sheets, postgres, or memory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
