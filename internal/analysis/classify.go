package analysis

import (
	"sort"

	"github.com/jonathan/resume-gap/internal/similarity"
	"github.com/jonathan/resume-gap/internal/taxonomy"
)

// classify walks the job-phrase axis of matrix and fills res.
func (a *Analyzer) classify(res *Result, jobPhrases, resumePhrases []string, matrix *similarity.Matrix, o Options) {
	resumeTerms := a.knownTerms(resumePhrases)

	var total float64
	for i, requirement := range jobPhrases {
		best, raw := matrix.RowMax(i)
		score := raw

		hint := a.bestTaxonomyMatch(requirement, resumeTerms)
		if hint != nil {
			score = min(1.0, raw+o.TaxonomyWeight*hint.Confidence)
		}
		total += score

		if score >= o.WeakThreshold {
			res.Matches = append(res.Matches, MatchRecord{
				JobRequirement: requirement,
				ResumeEvidence: resumePhrases[best],
				Similarity:     score,
				RawSimilarity:  raw,
				TaxonomyHint:   hint,
			})
			continue
		}

		gap := GapRecord{
			JobRequirement: requirement,
			BestMatch:      resumePhrases[best],
			Similarity:     score,
			RawSimilarity:  raw,
			TaxonomyHint:   hint,
		}
		if score < o.SimilarityThreshold {
			gap.Status = StatusMissing
			gap.Severity = SeverityMedium
			if score < o.HighSeverityCutoff {
				gap.Severity = SeverityHigh
			}
		} else {
			gap.Status = StatusWeak
			gap.Severity = SeverityLow
		}
		res.Gaps = append(res.Gaps, gap)
	}

	n := float64(len(jobPhrases))
	res.OverallMatch = total / n
	res.Coverage = float64(len(res.Matches)) / n

	sort.SliceStable(res.Gaps, func(i, j int) bool {
		return res.Gaps[i].Similarity < res.Gaps[j].Similarity
	})
	sort.SliceStable(res.Matches, func(i, j int) bool {
		return res.Matches[i].Similarity > res.Matches[j].Similarity
	})

	res.TopMissingSkills = a.topMissing(res.Gaps, o.TopN)
	res.TopMatchingSkills = a.topMatching(res.Matches, o.TopN)
}

// knownTerms collects the taxonomy skills and categories mentioned across
// phrases, in first-seen order.
func (a *Analyzer) knownTerms(phrases []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range phrases {
		for _, term := range a.taxonomy.ExtractKnownTerms(p) {
			if !seen[term] {
				seen[term] = true
				out = append(out, term)
			}
		}
	}
	return out
}

// bestTaxonomyMatch checks every term in requirement against every resume
// term and keeps the most confident relationship. The first pair found wins
// a tie.
func (a *Analyzer) bestTaxonomyMatch(requirement string, resumeTerms []string) *TaxonomyHint {
	if len(resumeTerms) == 0 {
		return nil
	}

	var best taxonomy.SkillMatch
	for _, jobTerm := range a.taxonomy.ExtractKnownTerms(requirement) {
		for _, resumeTerm := range resumeTerms {
			m := a.taxonomy.Match(jobTerm, resumeTerm)
			if m.Confidence > best.Confidence {
				best = m
			}
		}
	}
	if !best.Matched() {
		return nil
	}
	return &TaxonomyHint{
		JobSkill:    best.JobSkill,
		ResumeSkill: best.ResumeSkill,
		MatchType:   best.Type,
		Confidence:  best.Confidence,
	}
}

// allMissing marks every job phrase as a high-severity missing gap with no
// evidence.
func allMissing(jobPhrases []string) []GapRecord {
	gaps := make([]GapRecord, len(jobPhrases))
	for i, p := range jobPhrases {
		gaps[i] = GapRecord{
			JobRequirement: p,
			Status:         StatusMissing,
			Severity:       SeverityHigh,
		}
	}
	return gaps
}

// topMissing lists missing requirements, taxonomy-bearing ones first, each
// group ordered by ascending similarity.
func (a *Analyzer) topMissing(gaps []GapRecord, n int) []string {
	var known, other []GapRecord
	for _, g := range gaps {
		if g.Status != StatusMissing {
			continue
		}
		if a.taxonomy.MentionsSkill(g.JobRequirement) {
			known = append(known, g)
		} else {
			other = append(other, g)
		}
	}

	byScore := func(list []GapRecord) {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Similarity < list[j].Similarity })
	}
	byScore(known)
	byScore(other)

	out := make([]string, 0, n)
	for _, g := range append(known, other...) {
		if len(out) == n {
			break
		}
		out = append(out, truncate(g.JobRequirement))
	}
	return out
}

// topMatching lists matched requirements, taxonomy-bearing ones first, each
// group ordered by descending similarity.
func (a *Analyzer) topMatching(matches []MatchRecord, n int) []string {
	var known, other []MatchRecord
	for _, m := range matches {
		if a.taxonomy.MentionsSkill(m.JobRequirement) {
			known = append(known, m)
		} else {
			other = append(other, m)
		}
	}

	byScore := func(list []MatchRecord) {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Similarity > list[j].Similarity })
	}
	byScore(known)
	byScore(other)

	out := make([]string, 0, n)
	for _, m := range append(known, other...) {
		if len(out) == n {
			break
		}
		out = append(out, truncate(m.JobRequirement))
	}
	return out
}

func truncate(requirement string) string {
	runes := []rune(requirement)
	if len(runes) <= maxRequirementRunes {
		return requirement
	}
	return string(runes[:maxRequirementRunes])
}
