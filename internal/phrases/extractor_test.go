package phrases

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/resume-gap/internal/taxonomy"
)

type fakeParser struct {
	doc   *Document
	err   error
	calls int
}

func (f *fakeParser) Parse(string) (*Document, error) {
	f.calls++
	return f.doc, f.err
}

func chunk(text, root string) NounChunk {
	return NounChunk{Text: text, Root: Token{Text: root, Tag: "NN"}, Tokens: len(strings.Fields(text))}
}

func TestExtract_RequirementSentence(t *testing.T) {
	text := "Requires 5+ years of Python and experience with React for frontend development"
	parser := &fakeParser{doc: &Document{
		Sentences: []string{text},
		NounChunks: []NounChunk{
			chunk("5+ years", "years"),
			chunk("Python", "Python"),
			chunk("experience", "experience"),
			chunk("React", "React"),
			chunk("frontend development", "development"),
		},
		VerbPhrases: []VerbPhrase{{Verb: "Requires", Objects: []string{"5+ years"}}},
	}}

	got := NewExtractor(taxonomy.Default(), parser).Extract(text, 0)

	assert.Contains(t, got, "python")
	assert.Contains(t, got, "react")
	assert.Contains(t, got, "frontend development")
	assert.NotContains(t, got, "experience")
	assert.NotContains(t, got, "years")
	for _, phrase := range got {
		assert.NotContains(t, phrase, "5+", "duration boilerplate must not survive: %q", phrase)
	}
}

func TestExtract_OrderAndDedup(t *testing.T) {
	parser := &fakeParser{doc: &Document{
		NounChunks: []NounChunk{
			chunk("Kafka streams", "streams"),
			chunk("Go  services", "services"),
			chunk("go services", "services"),
		},
		Entities: []Entity{
			{Text: "Kafka", Label: "ORG"},
			{Text: "Berlin", Label: "GPE"},
		},
		VerbPhrases: []VerbPhrase{{Verb: "Shipped", Objects: []string{"Go services"}}},
		Sentences:   []string{"Shipped Go services.", "Enjoys hiking."},
	}}

	got := NewExtractor(taxonomy.Default(), parser).Extract("Shipped Go services on Kafka streams. Enjoys hiking.", 0)

	assert.Equal(t, []string{
		"shipped go services",
		"kafka streams",
		"go services",
		"services",
		"streams",
		"kafka",
		"shipped go services.",
	}, got)
	assert.NotContains(t, got, "berlin")
}

func TestExtract_TaxonomyFirstOnEqualLength(t *testing.T) {
	parser := &fakeParser{doc: &Document{
		NounChunks: []NounChunk{chunk("gizmo", "gizmo"), chunk("flask", "flask")},
	}}
	got := NewExtractor(taxonomy.Default(), parser).Extract("flask gizmo", 0)
	require.Len(t, got, 2)
	assert.Equal(t, "flask", got[0])
}

func TestExtract_Cap(t *testing.T) {
	parser := &fakeParser{doc: &Document{}}
	text := "python java go rust react vue angular docker kubernetes terraform"

	got := NewExtractor(taxonomy.Default(), parser).Extract(text, 3)
	assert.Len(t, got, 3)

	all := NewExtractor(taxonomy.Default(), parser).Extract(text, 0)
	assert.Equal(t, all[:3], got)
}

func TestExtract_MarketingOnly(t *testing.T) {
	text := "We are a global leader. Join our team! We are an equal opportunity employer."
	parser := &fakeParser{doc: &Document{
		Sentences: []string{"We are a global leader.", "Join our team!", "We are an equal opportunity employer."},
		NounChunks: []NounChunk{
			chunk("a global leader", "leader"),
			chunk("our team", "team"),
			chunk("an equal opportunity employer", "employer"),
		},
		VerbPhrases: []VerbPhrase{{Verb: "Join", Objects: []string{"our team"}}},
	}}

	got := NewExtractor(taxonomy.Default(), parser).Extract(text, 0)
	assert.Empty(t, got)
}

func TestExtract_PossessiveAndArticleBoilerplate(t *testing.T) {
	text := "We are a world-class company with a passion for our customers. " +
		"We offer a competitive salary and we are an equal opportunity employer."
	parser := &fakeParser{doc: &Document{
		Sentences: []string{
			"We are a world-class company with a passion for our customers.",
			"We offer a competitive salary and we are an equal opportunity employer.",
		},
		NounChunks: []NounChunk{
			chunk("a world-class company", "company"),
			chunk("a passion", "passion"),
			chunk("our customers", "customers"),
			chunk("a competitive salary", "salary"),
			chunk("an equal opportunity employer", "employer"),
		},
		VerbPhrases: []VerbPhrase{{Verb: "offer", Objects: []string{"a competitive salary"}}},
	}}

	got := NewExtractor(taxonomy.Default(), parser).Extract(text, 0)
	assert.Empty(t, got)
}

func TestExtract_ProseParser_Boilerplate(t *testing.T) {
	ex := NewExtractor(taxonomy.Default(), nil)

	for _, text := range []string{
		"We are a world-class company with a passion for our customers. " +
			"We offer a competitive salary and we are an equal opportunity employer.",
		"We are a global leader in our industry. Join our team!",
	} {
		assert.Empty(t, ex.Extract(text, 0), text)
	}
}

func TestExtract_ParserFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	parser := &fakeParser{err: errors.New("tagger exploded")}

	got := NewExtractor(taxonomy.Default(), parser, WithLogger(zap.New(core))).Extract("Python and React", 0)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "phrase parser failed, returning no phrases", logs.All()[0].Message)
}

func TestExtract_BlankTextSkipsParser(t *testing.T) {
	parser := &fakeParser{doc: &Document{}}
	got := NewExtractor(taxonomy.Default(), parser).Extract(" \n\t ", 10)
	assert.Empty(t, got)
	assert.Zero(t, parser.calls)
}

func TestExtract_ProseParser(t *testing.T) {
	ex := NewExtractor(taxonomy.Default(), nil)
	got := ex.Extract("Built frontend applications using React and Redux. Deployed services to AWS with Docker.", 0)

	assert.Contains(t, got, "react")
	assert.Contains(t, got, "aws")
	assert.Contains(t, got, "docker")
}

func TestNounPhrases_DropsHeadOfRejectedChunk(t *testing.T) {
	gate := NewGate(taxonomy.Default())
	doc := &Document{NounChunks: []NounChunk{
		chunk("competitive salary package", "package"),
		chunk("payments platform", "platform"),
		chunk("Terraform", "Terraform"),
	}}

	got := nounPhrases(doc, gate)
	assert.Equal(t, []string{"payments platform", "platform", "Terraform"}, got)
}
