package phrases

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-gap/internal/taxonomy"
)

// blockedPhrases is employer marketing and job-posting boilerplate. A
// candidate containing any of these is rejected before the taxonomy is
// consulted.
var blockedPhrases = []string{
	// employer marketing
	"global leader", "industry leader", "market leader", "world leader",
	"our team", "our company", "our mission", "our values", "our culture",
	"we are", "we offer", "we provide", "we believe", "we value",
	"learn more", "find out more", "discover more",
	"competitive salary", "competitive compensation", "great benefits",
	"equal opportunity", "equal opportunity employer", "eeo",
	"fast-paced environment", "dynamic environment", "exciting opportunity",
	"join our team", "be part of", "come join us",
	"about us", "about the company", "who we are", "what we do",
	"company description", "job description", "position description",
	"why join", "why work", "perks and benefits",
	"work-life balance", "flexible working", "remote friendly",
	"diverse and inclusive", "diversity and inclusion",
	"career growth", "professional development", "growth opportunities",
	"collaborative environment", "team environment",
	"innovative company", "cutting-edge", "state-of-the-art",
	"passionate team", "talented team", "amazing team",

	// posting framing
	"looking for", "seeking", "we need", "must have", "nice to have",
	"required", "preferred", "qualifications", "requirements",
	"responsibilities", "duties", "role", "position",
	"years of experience", "years experience", "x+ years",
	"the ideal candidate", "successful candidate", "right candidate",
	"ability to", "able to", "capable of",
	"strong", "excellent", "good", "great",
	"self-starter", "self-motivated", "go-getter",
	"team player", "works well with others",
	"attention to detail", "detail-oriented", "detail oriented",
	"deadline", "deadlines", "time management",

	// education
	"bachelor's degree", "bachelors degree", "bachelor degree",
	"master's degree", "masters degree", "master degree",
	"phd", "doctorate", "doctoral degree",
	"computer science", "cs degree", "engineering degree",
	"related field", "equivalent experience", "or equivalent",
	"degree in", "education in", "studied",

	// logistics
	"on-site", "onsite", "hybrid", "remote", "in-office",
	"full-time", "full time", "part-time", "part time",
	"contract", "permanent", "temporary",
	"relocation", "visa sponsorship", "work authorization",

	// application boilerplate
	"apply now", "submit resume", "send cv",
	"salary range", "compensation", "benefits package",
	"start date", "immediate start",
}

// blockedTerms matches any blockedPhrases entry as a whole-word run, so
// "position" rejects "position description" but not "composition".
var blockedTerms = compileBlocklist(blockedPhrases)

var blockedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(^|\s)\d+\+?\s*years?\b`),
	regexp.MustCompile(`^(a|an|the|our|your|their|we)\s+[\w-]+$`),
	regexp.MustCompile(`^\w{1,2}$`),
	regexp.MustCompile(`^(and|or|but|with|for|from|into|about)$`),
	regexp.MustCompile(`equal\s+opportunity`),
	regexp.MustCompile(`salary|compensation|benefits`),
	regexp.MustCompile(`apply\s+(now|today|here)`),
}

// genericWords carry no technical content on their own. A phrase made only
// of these is rejected unless it names a taxonomy skill.
var genericWords = map[string]bool{
	"team": true, "work": true, "company": true, "business": true, "job": true,
	"role": true, "position": true, "candidate": true, "opportunity": true,
	"experience": true, "skills": true, "ability": true, "environment": true,
	"culture": true, "values": true, "mission": true, "vision": true,
	"looking": true, "seeking": true, "need": true, "want": true,
	"require": true, "prefer": true, "strong": true, "excellent": true,
	"good": true, "great": true, "best": true, "top": true, "new": true,
	"innovative": true, "exciting": true, "dynamic": true, "fast": true,
	"join": true, "part": true, "member": true, "lead": true, "support": true,
	"help": true, "degree": true, "bachelor": true, "master": true,
	"phd": true, "education": true,
	"leader": true, "employer": true, "industry": true, "global": true,
	"world": true, "diversity": true, "people": true,
	"year": true, "years": true, "customer": true, "customers": true,
	"client": true, "clients": true, "passion": true, "passionate": true,
	"world-class": true, "leading": true, "salary": true, "benefits": true,
	"organization": true, "organisation": true, "employees": true,
}

// leadingWords are determiners and pronouns. They carry no content.
var leadingWords = map[string]bool{
	"a": true, "an": true, "the": true, "this": true, "that": true,
	"our": true, "your": true, "their": true, "his": true, "her": true,
	"its": true, "my": true, "we": true, "you": true, "they": true,
}

// fillerWords are function words that do not make a phrase specific on
// their own ("passion for customers").
var fillerWords = map[string]bool{
	"and": true, "or": true, "of": true, "for": true, "with": true,
	"in": true, "on": true, "at": true, "to": true, "by": true, "from": true,
}

// Gate decides whether a candidate phrase is a plausible requirement or
// piece of evidence rather than marketing or posting boilerplate.
type Gate struct {
	taxonomy *taxonomy.Taxonomy
}

// NewGate returns a gate that uses tax to recognise skill phrases.
func NewGate(tax *taxonomy.Taxonomy) *Gate {
	return &Gate{taxonomy: tax}
}

// Valid applies, in order: a minimum length, the boilerplate blocklist, the
// boilerplate patterns, the taxonomy override, and the generic-word check.
// Determiners and pronouns do not count as content ("our customers").
func (g *Gate) Valid(phrase string) bool {
	p := strings.ToLower(strings.TrimSpace(phrase))
	if len(p) < 3 {
		return false
	}

	if blockedTerms.MatchString(p) {
		return false
	}

	for _, re := range blockedPatterns {
		if re.MatchString(p) {
			return false
		}
	}

	if g.taxonomy.Contains(p) || g.taxonomy.MentionsSkill(p) {
		return true
	}

	return hasContent(strings.Fields(p))
}

// hasContent reports whether words hold at least one word that is not
// generic, filler or a determiner.
func hasContent(words []string) bool {
	for _, w := range words {
		if !genericWords[w] && !fillerWords[w] && !leadingWords[w] {
			return true
		}
	}
	return false
}

func compileBlocklist(terms []string) *regexp.Regexp {
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		quoted = append(quoted, regexp.QuoteMeta(term))
	}
	return regexp.MustCompile(`(?:^|[^a-z0-9])(?:` + strings.Join(quoted, "|") + `)(?:$|[^a-z0-9])`)
}
