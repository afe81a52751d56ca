// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-gap/internal/analysis"
	"github.com/jonathan/resume-gap/internal/similarity"
)

const (
	// boxWidth is the default width for formatted output boxes.
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists.
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to n runes, ending in "..." when it cuts.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintSummary outputs the headline numbers of an analysis.
func (p *Printer) PrintSummary(res *analysis.Result) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Analysis: %s\n", res.ID))
	sb.WriteString(fmt.Sprintf("Model:    %s\n", res.Model))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Overall match:  %5.1f%%\n", res.OverallMatch*100))
	sb.WriteString(fmt.Sprintf("Coverage:       %5.1f%%\n", res.Coverage*100))
	sb.WriteString(fmt.Sprintf("Requirements:   %d (resume phrases: %d)\n", res.JobPhraseCount, res.ResumePhraseCount))
	sb.WriteString(fmt.Sprintf("Strong / weak / missing: %d / %d / %d", len(res.Matches), len(res.Weak()), len(res.Missing())))
	if !res.Actionable {
		sb.WriteString("\n\n⚠ Not actionable: ")
		if res.JobPhraseCount == 0 {
			sb.WriteString("no requirements found in job text")
		} else {
			sb.WriteString("no evidence found in resume text")
		}
	}

	p.printBox("GAP ANALYSIS", sb.String())
}

// PrintMatches outputs the strongest matches with their evidence.
func (p *Printer) PrintMatches(res *analysis.Result) {
	if res == nil || len(res.Matches) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Matched %d requirements:\n\n", len(res.Matches)))

	count := min(len(res.Matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := res.Matches[i]
		sb.WriteString(fmt.Sprintf("✓ %s  (%.2f)\n", clip(m.JobRequirement, 40), m.Similarity))
		sb.WriteString(fmt.Sprintf("  ← %s\n", clip(m.ResumeEvidence, 50)))
		if m.TaxonomyHint != nil {
			sb.WriteString(fmt.Sprintf("  [%s: %s → %s]\n", m.TaxonomyHint.MatchType, m.TaxonomyHint.JobSkill, m.TaxonomyHint.ResumeSkill))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(res.Matches) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more matches", len(res.Matches)-maxItemsToShow))
	}

	p.printBox("STRONG MATCHES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGaps outputs the weakest requirements, most severe first.
func (p *Printer) PrintGaps(res *analysis.Result) {
	if res == nil {
		return
	}
	if len(res.Gaps) == 0 {
		p.printNoGaps()
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d gaps:\n\n", len(res.Gaps)))

	count := min(len(res.Gaps), maxItemsToShow)
	for i := 0; i < count; i++ {
		g := res.Gaps[i]
		sb.WriteString(fmt.Sprintf("%s %s  (%.2f, %s)\n", gapIcon(g), clip(g.JobRequirement, 36), g.Similarity, g.Severity))
		if g.BestMatch != "" {
			sb.WriteString(fmt.Sprintf("  closest: %s\n", clip(g.BestMatch, 45)))
		}
		if g.TaxonomyHint != nil {
			sb.WriteString(fmt.Sprintf("  [%s: %s → %s]\n", g.TaxonomyHint.MatchType, g.TaxonomyHint.JobSkill, g.TaxonomyHint.ResumeSkill))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(res.Gaps) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more gaps", len(res.Gaps)-maxItemsToShow))
	}

	p.printBox("GAPS", strings.TrimSuffix(sb.String(), "\n"))
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printNoGaps() {
	fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO GAPS FOUND")
	fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
}

func gapIcon(g analysis.GapRecord) string {
	if g.Status == analysis.StatusWeak {
		return "~"
	}
	return "✗"
}

// PrintPriorities outputs the top missing and top matching lists.
func (p *Printer) PrintPriorities(res *analysis.Result) {
	if res == nil || (len(res.TopMissingSkills) == 0 && len(res.TopMatchingSkills) == 0) {
		return
	}

	var sb strings.Builder
	if len(res.TopMissingSkills) > 0 {
		sb.WriteString("Address first:\n")
		for _, s := range res.TopMissingSkills {
			sb.WriteString(fmt.Sprintf("  • %s\n", s))
		}
		sb.WriteString("\n")
	}
	if len(res.TopMatchingSkills) > 0 {
		sb.WriteString("Lead with:\n")
		for _, s := range res.TopMatchingSkills {
			sb.WriteString(fmt.Sprintf("  • %s\n", s))
		}
	}

	p.printBox("PRIORITIES", strings.TrimSpace(sb.String()))
}

// PrintResult prints every section of an analysis.
func (p *Printer) PrintResult(res *analysis.Result) {
	p.PrintSummary(res)
	p.PrintMatches(res)
	p.PrintGaps(res)
	p.PrintPriorities(res)
}

// PrintPhrases outputs an extracted phrase list.
func (p *Printer) PrintPhrases(title string, phrases []string) {
	if len(phrases) == 0 {
		p.printBox(title, "(no phrases)")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d phrases:\n\n", len(phrases)))
	for i, phrase := range phrases {
		sb.WriteString(fmt.Sprintf("%2d. %s\n", i+1, phrase))
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRelated outputs related-skill recommendations for skill.
func (p *Printer) PrintRelated(skill string, related []similarity.Scored) {
	var sb strings.Builder
	if len(related) == 0 {
		sb.WriteString("(no candidates)")
	}
	for i, r := range related {
		sb.WriteString(fmt.Sprintf("#%d  %-30s %.3f\n", i+1, clip(r.Text, 30), r.Score))
	}
	p.printBox("RELATED TO "+strings.ToUpper(skill), strings.TrimSuffix(sb.String(), "\n"))
}
