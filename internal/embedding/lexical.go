package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Feature weights for the lexical embedder.
const (
	wordWeight    = 1.0
	bigramWeight  = 0.7
	trigramWeight = 0.4
)

var lexicalToken = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}+#./-]*`)

var lexicalStopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "of": {}, "to": {}, "in": {},
	"on": {}, "at": {}, "by": {}, "with": {}, "for": {}, "from": {}, "as": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "using": {}, "into": {},
}

// Lexical is a deterministic, local embedder using the hashing trick over
// words, word bigrams and character trigrams. Phrases that share vocabulary
// or spelling land close together; it has no notion of synonymy.
type Lexical struct {
	dimension int
}

// NewLexical returns a lexical embedder producing vectors of the given
// dimension (DefaultDimension when non-positive).
func NewLexical(dimension int) *Lexical {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &Lexical{dimension: dimension}
}

// Name returns "lexical/<dimension>".
func (l *Lexical) Name() string {
	return "lexical/" + strconv.Itoa(l.dimension)
}

// Dimension returns the vector length.
func (l *Lexical) Dimension() int {
	return l.dimension
}

// Embed never fails except on a cancelled context.
func (l *Lexical) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, &ProviderError{Provider: l.Name(), Cause: err}
		}
		out[i] = l.vector(text)
	}
	return out, nil
}

func (l *Lexical) vector(text string) []float32 {
	acc := make([]float64, l.dimension)
	words := tokenize(text)

	for i, w := range words {
		l.add(acc, "w:"+w, wordWeight)
		if i > 0 {
			l.add(acc, "b:"+words[i-1]+" "+w, bigramWeight)
		}
		padded := "^" + w + "$"
		runes := []rune(padded)
		for j := 0; j+3 <= len(runes); j++ {
			l.add(acc, "c:"+string(runes[j:j+3]), trigramWeight)
		}
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	vec := make([]float32, l.dimension)
	if norm == 0 {
		return vec
	}
	for i, v := range acc {
		vec[i] = float32(v / norm)
	}
	return vec
}

// add folds one feature into acc. The high hash bit picks the sign so that
// collisions cancel out on average.
func (l *Lexical) add(acc []float64, feature string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	idx := int(sum % uint64(l.dimension))
	if sum>>63 == 1 {
		weight = -weight
	}
	acc[idx] += weight
}

func tokenize(text string) []string {
	raw := lexicalToken.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		tok = strings.TrimRight(tok, "./-")
		if tok == "" {
			continue
		}
		if _, stop := lexicalStopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}
