package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect the skill taxonomy",
}

var taxonomyExpandCmd = &cobra.Command{
	Use:   "expand <skill>",
	Short: "List a skill with its parent categories and related skills",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaxonomyExpand,
}

var taxonomyCheckCmd = &cobra.Command{
	Use:   "check <job-skill> <resume-skill>",
	Short: "Show how a resume skill relates to a job skill",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaxonomyCheck,
}

var taxonomySkillsCmd = &cobra.Command{
	Use:   "skills [text]",
	Short: "List known skills, or the skills mentioned in text",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTaxonomySkills,
}

var taxonomyCategory string

func init() {
	taxonomySkillsCmd.Flags().StringVar(&taxonomyCategory, "category", "", "Only list skills under this category")
	taxonomyCmd.PersistentFlags().String("taxonomy", "", "Path to a taxonomy YAML file (default embedded)")

	taxonomyCmd.AddCommand(taxonomyExpandCmd, taxonomyCheckCmd, taxonomySkillsCmd)
	rootCmd.AddCommand(taxonomyCmd)
}

func runTaxonomyExpand(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	skill := a.taxonomy.Canonical(args[0])
	if !a.taxonomy.Contains(skill) {
		return fmt.Errorf("unknown skill %q", args[0])
	}
	out := cmd.OutOrStdout()
	for _, s := range a.taxonomy.Expand(skill) {
		_, _ = fmt.Fprintln(out, s)
	}
	return nil
}

func runTaxonomyCheck(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	m := a.taxonomy.Match(args[0], args[1])
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "matched=%t confidence=%.2f type=%s\n", m.Matched(), m.Confidence, m.Type)
	return err
}

func runTaxonomySkills(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var skills []string
	switch {
	case len(args) == 1:
		skills = a.taxonomy.ExtractKnownSkills(args[0])
	case taxonomyCategory != "":
		skills = a.taxonomy.Children(strings.ToLower(taxonomyCategory))
	default:
		skills = a.taxonomy.Names()
	}

	out := cmd.OutOrStdout()
	for _, s := range skills {
		_, _ = fmt.Fprintln(out, s)
	}
	return nil
}
