package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-gap/internal/analysis"
	"github.com/jonathan/resume-gap/internal/observability"
	"github.com/jonathan/resume-gap/internal/schemas"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare a job description with a resume",
	Long: "Extract requirement phrases from a job description and evidence phrases from a resume, " +
		"score every requirement against its closest evidence and write an AnalysisResult JSON.",
	RunE: runAnalyze,
}

var (
	analyzeJobFile    string
	analyzeResumeFile string
	analyzeOutputFile string
	analyzeVerbose    bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeJobFile, "job", "", "Path to job description text file (required)")
	analyzeCmd.Flags().StringVar(&analyzeResumeFile, "resume", "", "Path to resume text file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print a human-readable summary")
	addAnalysisFlags(analyzeCmd)

	_ = analyzeCmd.MarkFlagRequired("job")
	_ = analyzeCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(analyzeCmd)
}

// addAnalysisFlags registers the threshold and provider overrides shared by
// analyze and batch.
func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("similarity-threshold", analysis.DefaultSimilarityThreshold, "Missing/weak boundary")
	cmd.Flags().Float64("weak-threshold", analysis.DefaultWeakThreshold, "Weak/strong boundary")
	cmd.Flags().Float64("taxonomy-weight", analysis.DefaultTaxonomyWeight, "Blend weight for taxonomy confidence")
	cmd.Flags().Int("max-phrases", analysis.DefaultMaxPhrases, "Maximum phrases extracted per text")
	cmd.Flags().Int("top-n", analysis.DefaultTopN, "Length of the top missing/matching lists")
	cmd.Flags().String("taxonomy", "", "Path to a taxonomy YAML file (default embedded)")
	cmd.Flags().String("provider", "", "Embedding provider: lexical or gemini")
	cmd.Flags().String("cache", "", "Embedding cache: none, memory, redis or postgres")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	jobText, err := os.ReadFile(analyzeJobFile)
	if err != nil {
		return fmt.Errorf("failed to read job file: %w", err)
	}
	resumeText, err := os.ReadFile(analyzeResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	analyzer, err := a.analyzer(ctx)
	if err != nil {
		return err
	}

	res, err := analyzer.Analyze(ctx, string(jobText), string(resumeText))
	if err != nil {
		return err
	}

	if analyzeVerbose {
		verboseOut := cmd.ErrOrStderr()
		if analyzeOutputFile != "" {
			verboseOut = cmd.OutOrStdout()
		}
		observability.NewPrinter(verboseOut).PrintResult(res)
	}

	if err := writeResult(res, analyzeOutputFile, cmd.OutOrStdout()); err != nil {
		return err
	}
	if analyzeOutputFile != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", analyzeOutputFile)
	}
	return nil
}

// writeResult validates res against the AnalysisResult schema and writes it
// to path, or to w when path is empty.
func writeResult(res *analysis.Result, path string, w io.Writer) error {
	if err := schemas.ValidateResult(res); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("generated JSON does not validate against schema: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema: %v\n", err)
	}

	jsonBytes, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonBytes = append(jsonBytes, '\n')

	if path == "" {
		_, err = w.Write(jsonBytes)
		return err
	}
	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
