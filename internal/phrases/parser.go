// Package phrases turns free text into a short, filtered list of candidate
// requirement or evidence phrases.
package phrases

// Parser is the natural-language analysis capability the extractor depends
// on. Implementations must be safe for concurrent use.
type Parser interface {
	Parse(text string) (*Document, error)
}

// Token is a word with its Penn Treebank part-of-speech tag.
type Token struct {
	Text string
	Tag  string
}

// IsNoun reports whether the token is a common or proper noun.
func (t Token) IsNoun() bool {
	switch t.Tag {
	case "NN", "NNS", "NNP", "NNPS":
		return true
	}
	return false
}

// NounChunk is a base noun phrase. Root is its head noun.
type NounChunk struct {
	Text   string
	Root   Token
	Tokens int
	start  int
	end    int // exclusive
}

// Entity is a named-entity span with its type label (ORG, PRODUCT, ...).
type Entity struct {
	Text  string
	Label string
}

// VerbPhrase is a sentence's root verb with the direct objects or
// complements it governs.
type VerbPhrase struct {
	Verb    string
	Objects []string
}

// Document is the parse of one block of text.
type Document struct {
	Sentences   []string
	NounChunks  []NounChunk
	Entities    []Entity
	VerbPhrases []VerbPhrase
}
