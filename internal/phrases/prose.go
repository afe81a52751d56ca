package phrases

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// ProseParser implements Parser with the prose NLP library: sentence
// segmentation, part-of-speech tagging and named-entity extraction. Noun
// chunks and root-verb objects are derived from the tags.
type ProseParser struct{}

// NewProseParser returns a prose-backed parser.
func NewProseParser() *ProseParser {
	return &ProseParser{}
}

// Parse analyses text sentence by sentence.
func (p *ProseParser) Parse(text string) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("prose parser panicked: %v", r)
		}
	}()

	if strings.TrimSpace(text) == "" {
		return &Document{}, nil
	}

	full, err := prose.NewDocument(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text: %w", err)
	}

	out := &Document{}
	for _, ent := range full.Entities() {
		out.Entities = append(out.Entities, Entity{Text: ent.Text, Label: ent.Label})
	}

	for _, sent := range full.Sentences() {
		sentence := strings.TrimSpace(sent.Text)
		if sentence == "" {
			continue
		}
		out.Sentences = append(out.Sentences, sentence)

		tagged, err := prose.NewDocument(sentence,
			prose.WithSegmentation(false),
			prose.WithExtraction(false),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to tag sentence: %w", err)
		}

		tokens := make([]Token, 0, len(tagged.Tokens()))
		for _, tok := range tagged.Tokens() {
			tokens = append(tokens, Token{Text: tok.Text, Tag: tok.Tag})
		}

		chunks := ChunkNounPhrases(tokens)
		out.NounChunks = append(out.NounChunks, chunks...)
		if vp, ok := RootVerbPhrase(tokens, chunks); ok {
			out.VerbPhrases = append(out.VerbPhrases, vp)
		}
	}

	return out, nil
}
