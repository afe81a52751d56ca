package phrases

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-gap/internal/logging"
	"github.com/jonathan/resume-gap/internal/taxonomy"
)

// DefaultMaxPhrases caps Extract when the caller passes a non-positive limit.
const DefaultMaxPhrases = 50

// Extractor turns a block of text into ordered, deduplicated candidate
// phrases. It holds no per-call state and is safe for concurrent use when
// its Parser is.
type Extractor struct {
	taxonomy *taxonomy.Taxonomy
	parser   Parser
	gate     *Gate
	logger   *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used to report parser failures.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor builds an extractor over tax. A nil parser selects the
// prose-backed parser.
func NewExtractor(tax *taxonomy.Taxonomy, parser Parser, opts ...Option) *Extractor {
	if parser == nil {
		parser = NewProseParser()
	}
	e := &Extractor{
		taxonomy: tax,
		parser:   parser,
		gate:     NewGate(tax),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Gate exposes the validity gate used by Extract.
func (e *Extractor) Gate() *Gate {
	return e.gate
}

// Extract returns at most maxPhrases lower-cased phrases. Candidate phrases
// come first, longest first, with taxonomy-bearing phrases ahead of others
// of equal length; skill-bearing sentences follow. A parser failure yields
// an empty list.
func (e *Extractor) Extract(text string, maxPhrases int) []string {
	if maxPhrases <= 0 {
		maxPhrases = DefaultMaxPhrases
	}

	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return []string{}
	}

	doc, err := e.parser.Parse(text)
	if err != nil {
		e.logger.Warn("phrase parser failed, returning no phrases",
			zap.Error(err),
			zap.Int("text_length", len(text)),
			zap.String("text", logging.Truncate(text, 80)),
		)
		return []string{}
	}
	if doc == nil {
		doc = &Document{}
	}

	var candidates []string
	candidates = append(candidates, nounPhrases(doc, e.gate)...)
	candidates = append(candidates, entities(doc)...)
	candidates = append(candidates, taxonomyTerms(e.taxonomy, text)...)
	candidates = append(candidates, verbPhrases(doc)...)

	ordered := e.order(candidates)
	ordered = append(ordered, normalizeAll(skillSentences(e.taxonomy, doc))...)

	seen := make(map[string]bool, len(ordered))
	out := make([]string, 0, maxPhrases)
	for _, phrase := range ordered {
		if len(out) == maxPhrases {
			break
		}
		if seen[phrase] || !e.gate.Valid(phrase) {
			continue
		}
		seen[phrase] = true
		out = append(out, phrase)
	}

	e.logger.Debug("extracted phrases",
		zap.Int("candidates", len(ordered)),
		zap.Int("kept", len(out)),
	)
	return out
}

// order normalises candidates, drops exact duplicates and sorts them by
// descending length, then taxonomy mentions first, then lexically.
func (e *Extractor) order(candidates []string) []string {
	unique := make(map[string]bool, len(candidates))
	list := make([]string, 0, len(candidates))
	for _, c := range normalizeAll(candidates) {
		if !unique[c] {
			unique[c] = true
			list = append(list, c)
		}
	}

	mentions := make(map[string]bool, len(list))
	for _, c := range list {
		mentions[c] = e.taxonomy.MentionsSkill(c)
	}

	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		if mentions[a] != mentions[b] {
			return mentions[a]
		}
		return a < b
	})
	return list
}

func normalize(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}

func normalizeAll(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if n := normalize(p); n != "" {
			out = append(out, n)
		}
	}
	return out
}
