package phrases

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-gap/internal/taxonomy"
)

const (
	minChunkTokens   = 2
	maxChunkTokens   = 6
	maxVerbObjTokens = 5
	maxVerbTokens    = 6
	maxSentences     = 10
)

// entityLabels are the entity types that tend to denote products,
// organisations or technologies.
var entityLabels = map[string]bool{
	"ORG":         true,
	"PRODUCT":     true,
	"WORK_OF_ART": true,
	"LAW":         true,
	"LANGUAGE":    true,
}

var actionVerbPattern = regexp.MustCompile(`\b(developed|built|designed|implemented|created|managed|led|improved|reduced|increased|deployed|architected|optimized|automated)\b`)

// nounPhrases keeps base noun phrases of 2-6 tokens, plus the bare head
// noun of every chunk the gate accepts. The head of a rejected chunk ("5+
// years") is dropped with it.
func nounPhrases(doc *Document, gate *Gate) []string {
	var out []string
	for _, chunk := range doc.NounChunks {
		text := strings.TrimSpace(chunk.Text)
		if chunk.Tokens >= minChunkTokens && !gate.Valid(text) {
			continue
		}
		if chunk.Tokens >= minChunkTokens && chunk.Tokens <= maxChunkTokens && len(text) >= 3 {
			out = append(out, text)
		}
		if chunk.Root.IsNoun() && len(chunk.Root.Text) >= 2 {
			out = append(out, chunk.Root.Text)
		}
	}
	return out
}

func entities(doc *Document) []string {
	var out []string
	for _, ent := range doc.Entities {
		if entityLabels[ent.Label] {
			out = append(out, strings.TrimSpace(ent.Text))
		}
	}
	return out
}

// taxonomyTerms runs known-term detection over the raw text, which catches
// skills and categories the parser split or mis-tagged.
func taxonomyTerms(tax *taxonomy.Taxonomy, text string) []string {
	return tax.ExtractKnownTerms(text)
}

// verbPhrases renders "verb object" phrases such as "led migration".
func verbPhrases(doc *Document) []string {
	var out []string
	for _, vp := range doc.VerbPhrases {
		parts := []string{vp.Verb}
		for _, obj := range vp.Objects {
			if len(strings.Fields(obj)) <= maxVerbObjTokens {
				parts = append(parts, obj)
			}
		}
		if len(parts) < 2 {
			continue
		}
		phrase := strings.Join(parts, " ")
		if len(strings.Fields(phrase)) <= maxVerbTokens {
			out = append(out, phrase)
		}
	}
	return out
}

// skillSentences keeps at most ten whole sentences that mention a skill or
// an achievement verb.
func skillSentences(tax *taxonomy.Taxonomy, doc *Document) []string {
	var out []string
	for _, sentence := range doc.Sentences {
		if len(out) == maxSentences {
			break
		}
		lower := strings.ToLower(sentence)
		if tax.MentionsSkill(lower) || actionVerbPattern.MatchString(lower) {
			out = append(out, sentence)
		}
	}
	return out
}
