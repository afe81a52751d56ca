package analysis

import (
	"github.com/google/uuid"

	"github.com/jonathan/resume-gap/internal/taxonomy"
)

// Status is the classification of a job phrase that did not reach a strong match.
type Status string

// Gap statuses.
const (
	StatusMissing Status = "missing"
	StatusWeak    Status = "weak"
)

// Severity ranks how much a gap matters.
type Severity string

// Gap severities.
const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// TaxonomyHint records the taxonomy relationship that boosted a similarity.
type TaxonomyHint struct {
	JobSkill    string             `json:"job_skill"`
	ResumeSkill string             `json:"resume_skill"`
	MatchType   taxonomy.MatchType `json:"match_type"`
	Confidence  float64            `json:"confidence"`
}

// MatchRecord is a job phrase whose best resume phrase cleared the strong
// threshold.
type MatchRecord struct {
	JobRequirement string        `json:"job_requirement"`
	ResumeEvidence string        `json:"resume_evidence"`
	Similarity     float64       `json:"similarity"`
	RawSimilarity  float64       `json:"raw_similarity"`
	TaxonomyHint   *TaxonomyHint `json:"taxonomy_match,omitempty"`
}

// GapRecord is a job phrase whose best resume phrase fell short.
type GapRecord struct {
	JobRequirement string        `json:"job_requirement"`
	BestMatch      string        `json:"best_match"`
	Similarity     float64       `json:"similarity"`
	RawSimilarity  float64       `json:"raw_similarity"`
	Status         Status        `json:"status"`
	Severity       Severity      `json:"severity"`
	TaxonomyHint   *TaxonomyHint `json:"taxonomy_hint,omitempty"`
}

// Result is the outcome of one analysis. Every job phrase appears in
// exactly one of Gaps or Matches.
type Result struct {
	ID                uuid.UUID     `json:"id"`
	Model             string        `json:"model"`
	Actionable        bool          `json:"actionable"`
	OverallMatch      float64       `json:"overall_match"`
	Coverage          float64       `json:"coverage"`
	JobPhraseCount    int           `json:"job_phrase_count"`
	ResumePhraseCount int           `json:"resume_phrase_count"`
	Gaps              []GapRecord   `json:"gaps"`
	Matches           []MatchRecord `json:"matches"`
	TopMissingSkills  []string      `json:"top_missing_skills"`
	TopMatchingSkills []string      `json:"top_matching_skills"`
	Options           Options       `json:"options"`
}

// Missing returns the gaps with status missing.
func (r *Result) Missing() []GapRecord {
	return r.gapsWith(StatusMissing)
}

// Weak returns the gaps with status weak.
func (r *Result) Weak() []GapRecord {
	return r.gapsWith(StatusWeak)
}

func (r *Result) gapsWith(status Status) []GapRecord {
	out := make([]GapRecord, 0, len(r.Gaps))
	for _, g := range r.Gaps {
		if g.Status == status {
			out = append(out, g)
		}
	}
	return out
}
