package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-gap/internal/observability"
	"github.com/jonathan/resume-gap/internal/similarity"
)

var relatedCmd = &cobra.Command{
	Use:   "related",
	Short: "Recommend skills semantically close to a skill",
	Long: "Embed a skill and a candidate list and print the candidates closest to it. " +
		"Without --candidates every taxonomy skill is a candidate.",
	RunE: runRelated,
}

var similarityCmd = &cobra.Command{
	Use:   "similarity <text> <text>",
	Short: "Print the cosine similarity of two texts",
	Args:  cobra.ExactArgs(2),
	RunE:  runSimilarity,
}

var (
	relatedSkill      string
	relatedCandidates string
	relatedTopK       int
)

func init() {
	relatedCmd.Flags().StringVar(&relatedSkill, "skill", "", "Skill to find neighbours for (required)")
	relatedCmd.Flags().StringVar(&relatedCandidates, "candidates", "", "Comma-separated candidate skills (default all taxonomy skills)")
	relatedCmd.Flags().IntVarP(&relatedTopK, "top-k", "k", similarity.DefaultTopK, "Number of candidates to return")
	_ = relatedCmd.MarkFlagRequired("skill")

	for _, c := range []*cobra.Command{relatedCmd, similarityCmd} {
		c.Flags().String("provider", "", "Embedding provider: lexical or gemini")
		c.Flags().String("cache", "", "Embedding cache: none, memory, redis or postgres")
		rootCmd.AddCommand(c)
	}
}

func runRelated(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	engine, err := a.similarityEngine(cmd.Context())
	if err != nil {
		return err
	}

	candidates := splitList(relatedCandidates)
	if len(candidates) == 0 {
		candidates = a.taxonomy.Names()
	}

	related, err := engine.RelatedSkills(cmd.Context(), relatedSkill, candidates, relatedTopK)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintRelated(relatedSkill, related)
	return nil
}

func runSimilarity(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	engine, err := a.similarityEngine(cmd.Context())
	if err != nil {
		return err
	}
	score, err := engine.Pairwise(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%.4f\n", score)
	return err
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
