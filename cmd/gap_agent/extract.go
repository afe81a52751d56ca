package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-gap/internal/analysis"
	"github.com/jonathan/resume-gap/internal/observability"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the phrases extracted from a text",
	Long:  "Run the phrase extractor over a text file and print the candidate phrases in priority order.",
	RunE:  runExtract,
}

var (
	extractTextFile   string
	extractMaxPhrases int
	extractFormat     string
)

func init() {
	extractCmd.Flags().StringVar(&extractTextFile, "text", "", "Path to text file (required)")
	extractCmd.Flags().IntVar(&extractMaxPhrases, "max-phrases", analysis.DefaultMaxPhrases, "Maximum phrases to return")
	extractCmd.Flags().StringVar(&extractFormat, "format", "text", "Output format: text or json")
	_ = extractCmd.MarkFlagRequired("text")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	if extractFormat != "text" && extractFormat != "json" {
		return fmt.Errorf("unknown --format %q (want text or json)", extractFormat)
	}

	content, err := os.ReadFile(extractTextFile)
	if err != nil {
		return fmt.Errorf("failed to read text file: %w", err)
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	found := a.extractor.Extract(string(content), extractMaxPhrases)

	if extractFormat == "json" {
		jsonBytes, err := json.MarshalIndent(found, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintPhrases("EXTRACTED PHRASES", found)
	return nil
}
