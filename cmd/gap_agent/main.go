// Package main provides the entry point for the gap_agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gap_agent",
	Short: "Semantic job/resume gap analysis",
	Long: "gap_agent compares a job description with a resume, classifies every job requirement " +
		"as a strong match, a weak match or missing, and explains matches with a skill taxonomy.",
	SilenceUsage: true,
}

var (
	configFile string
	debugLog   bool
	jsonLog    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is gap_agent.yaml in current directory)")
	rootCmd.PersistentFlags().BoolVarP(&debugLog, "debug", "d", false, "verbose/debug logging")
	rootCmd.PersistentFlags().BoolVarP(&jsonLog, "json", "j", false, "json format for logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
