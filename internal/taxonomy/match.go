package taxonomy

// Confidence assigned by each rung of the match ladder. The first rung that
// applies wins.
const (
	ConfidenceExact           = 1.0
	ConfidenceChildOfCategory = 0.9
	ConfidenceParentCategory  = 0.8
	ConfidenceSibling         = 0.75
	ConfidenceRelated         = 0.7
)

// MatchType labels how a resume skill satisfied a job skill.
type MatchType string

// Match types, in descending order of confidence.
const (
	MatchExact           MatchType = "exact"
	MatchChildOfCategory MatchType = "child_of_category"
	MatchParentCategory  MatchType = "parent_category"
	MatchSiblingSkill    MatchType = "sibling_skill"
	MatchRelatedSkill    MatchType = "related_skill"
	MatchWeakRelation    MatchType = "weak_relation"
	MatchNone            MatchType = "none"
)

// SkillMatch is the outcome of comparing one job skill with one resume skill.
type SkillMatch struct {
	JobSkill    string    `json:"job_skill"`
	ResumeSkill string    `json:"resume_skill"`
	Type        MatchType `json:"match_type"`
	Confidence  float64   `json:"confidence"`
}

// Matched reports whether the taxonomy found any relationship.
func (m SkillMatch) Matched() bool {
	return m.Confidence > 0
}

// CheckMatch reports whether resumeSkill satisfies jobSkill and with what
// confidence. Unknown skills simply produce (false, 0).
func (t *Taxonomy) CheckMatch(jobSkill, resumeSkill string) (bool, float64) {
	m := t.Match(jobSkill, resumeSkill)
	return m.Matched(), m.Confidence
}

// Match walks the confidence ladder for a job/resume skill pair:
//
//	exact                          1.0
//	resume skill under job category 0.9
//	resume skill is job's category  0.8
//	shared parent category          0.75
//	related in either direction     0.7
func (t *Taxonomy) Match(jobSkill, resumeSkill string) SkillMatch {
	job := t.Canonical(jobSkill)
	resume := t.Canonical(resumeSkill)

	m := SkillMatch{JobSkill: job, ResumeSkill: resume, Type: MatchNone}
	if job == "" || resume == "" {
		return m
	}

	switch {
	case job == resume:
		m.Confidence = ConfidenceExact
	case t.index.ParentToChildren[job].Has(resume):
		m.Confidence = ConfidenceChildOfCategory
	case t.parentSet(job).Has(resume):
		m.Confidence = ConfidenceParentCategory
	case sharesMember(t.parentSet(job), t.parentSet(resume)):
		m.Confidence = ConfidenceSibling
	case t.relatedSet(job).Has(resume) || t.relatedSet(resume).Has(job):
		m.Confidence = ConfidenceRelated
	default:
		return m
	}

	m.Type = MatchTypeFor(m.Confidence)
	return m
}

// MatchTypeFor converts a ladder confidence into its label.
func MatchTypeFor(confidence float64) MatchType {
	switch {
	case confidence >= ConfidenceExact:
		return MatchExact
	case confidence >= ConfidenceChildOfCategory:
		return MatchChildOfCategory
	case confidence >= ConfidenceParentCategory:
		return MatchParentCategory
	case confidence >= ConfidenceSibling:
		return MatchSiblingSkill
	case confidence >= ConfidenceRelated:
		return MatchRelatedSkill
	case confidence > 0:
		return MatchWeakRelation
	default:
		return MatchNone
	}
}

func sharesMember(a, b Set) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for name := range a {
		if b.Has(name) {
			return true
		}
	}
	return false
}
