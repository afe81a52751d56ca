package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-gap/internal/analysis"
	"github.com/jonathan/resume-gap/internal/schemas"
	schemafiles "github.com/jonathan/resume-gap/schemas"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze many job/resume pairs",
	Long: "Run independent analyses for every pair listed in a YAML file and write one " +
		"AnalysisResult JSON per pair. Paths in the file are relative to the file itself.",
	RunE: runBatch,
}

var (
	batchPairsFile   string
	batchOutputDir   string
	batchConcurrency int
)

func init() {
	batchCmd.Flags().StringVar(&batchPairsFile, "pairs", "", "Path to YAML file listing pairs (required)")
	batchCmd.Flags().StringVarP(&batchOutputDir, "out", "o", "", "Output directory (required)")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 4, "Maximum analyses in flight")
	addAnalysisFlags(batchCmd)

	_ = batchCmd.MarkFlagRequired("pairs")
	_ = batchCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(batchCmd)
}

// pair is one job/resume comparison in a batch file.
type pair struct {
	Name   string `yaml:"name"`
	Job    string `yaml:"job"`
	Resume string `yaml:"resume"`
}

type batchFile struct {
	Pairs []pair `yaml:"pairs"`
}

// loadPairs reads and schema-checks a batch file, resolving paths against
// its directory.
func loadPairs(path string) ([]pair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pairs file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse pairs file: %w", err)
	}
	if err := schemas.ValidateDocument(schemafiles.BatchPairs, raw); err != nil {
		return nil, fmt.Errorf("invalid pairs file: %w", err)
	}

	var file batchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse pairs file: %w", err)
	}

	base := filepath.Dir(path)
	seen := make(map[string]bool, len(file.Pairs))
	for i := range file.Pairs {
		p := &file.Pairs[i]
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate pair name %q", p.Name)
		}
		seen[p.Name] = true
		if !filepath.IsAbs(p.Job) {
			p.Job = filepath.Join(base, p.Job)
		}
		if !filepath.IsAbs(p.Resume) {
			p.Resume = filepath.Join(base, p.Resume)
		}
	}
	return file.Pairs, nil
}

func runBatch(cmd *cobra.Command, _ []string) error {
	if batchConcurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1")
	}
	pairs, err := loadPairs(batchPairsFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(batchOutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
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

	var (
		mu       sync.Mutex
		failures []error
		results  = make([]*analysis.Result, len(pairs))
	)
	g := new(errgroup.Group)
	g.SetLimit(batchConcurrency)
	for i, p := range pairs {
		g.Go(func() error {
			res, err := analyzePair(cmd, analyzer, p)
			if err != nil {
				a.logger.Error("pair failed", zap.String("pair", p.Name), zap.Error(err))
				mu.Lock()
				failures = append(failures, fmt.Errorf("%s: %w", p.Name, err))
				mu.Unlock()
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	out := cmd.OutOrStdout()
	for i, p := range pairs {
		res := results[i]
		if res == nil {
			_, _ = fmt.Fprintf(out, "%-24s FAILED\n", p.Name)
			continue
		}
		_, _ = fmt.Fprintf(out, "%-24s overall=%.2f coverage=%.2f missing=%d weak=%d actionable=%t\n",
			p.Name, res.OverallMatch, res.Coverage, len(res.Missing()), len(res.Weak()), res.Actionable)
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d pairs failed: %w", len(failures), len(pairs), errors.Join(failures...))
	}
	return nil
}

func analyzePair(cmd *cobra.Command, analyzer *analysis.Analyzer, p pair) (*analysis.Result, error) {
	jobText, err := os.ReadFile(p.Job)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}
	resumeText, err := os.ReadFile(p.Resume)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}

	res, err := analyzer.Analyze(cmd.Context(), string(jobText), string(resumeText))
	if err != nil {
		return nil, err
	}
	if err := writeResult(res, filepath.Join(batchOutputDir, p.Name+".json"), nil); err != nil {
		return nil, err
	}
	return res, nil
}
