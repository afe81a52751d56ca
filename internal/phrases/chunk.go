package phrases

import "strings"

var chunkModifierTags = map[string]bool{
	"JJ": true, "JJR": true, "JJS": true, "CD": true, "VBG": true,
}

var chunkDeterminerTags = map[string]bool{
	"DT": true, "PDT": true, "PRP$": true,
}

var auxiliaryVerbs = map[string]bool{
	"is": true, "are": true, "was": true, "were": true, "be": true, "been": true,
	"am": true, "have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "can": true, "could": true,
	"should": true, "must": true, "may": true, "might": true,
}

// ChunkNounPhrases groups tagged tokens into base noun phrases: an optional
// determiner, any adjectives or numbers, and a run of nouns. The last noun
// is the root.
func ChunkNounPhrases(tokens []Token) []NounChunk {
	var chunks []NounChunk

	start := -1
	lastNoun := -1
	flush := func() {
		if start >= 0 && lastNoun >= start {
			chunks = append(chunks, newChunk(tokens, start, lastNoun+1))
		}
		start, lastNoun = -1, -1
	}

	for i, tok := range tokens {
		switch {
		case tok.IsNoun():
			if start < 0 {
				start = i
			}
			lastNoun = i
		case chunkDeterminerTags[tok.Tag]:
			flush()
			start = i
		case chunkModifierTags[tok.Tag]:
			// a modifier after the head noun opens a new phrase
			if lastNoun >= 0 {
				flush()
			}
			if start < 0 {
				start = i
			}
		default:
			flush()
		}
	}
	flush()

	return chunks
}

func newChunk(tokens []Token, start, end int) NounChunk {
	words := make([]string, 0, end-start)
	for _, tok := range tokens[start:end] {
		words = append(words, tok.Text)
	}
	return NounChunk{
		Text:   strings.Join(words, " "),
		Root:   tokens[end-1],
		Tokens: end - start,
		start:  start,
		end:    end,
	}
}

// RootVerbPhrase finds the first main verb of a sentence and the noun
// chunk it governs, either directly ("built pipeline") or through a single
// preposition or particle ("worked on payments").
func RootVerbPhrase(tokens []Token, chunks []NounChunk) (VerbPhrase, bool) {
	verb := -1
	for i, tok := range tokens {
		if strings.HasPrefix(tok.Tag, "VB") && !auxiliaryVerbs[strings.ToLower(tok.Text)] {
			verb = i
			break
		}
	}
	if verb < 0 {
		return VerbPhrase{}, false
	}

	vp := VerbPhrase{Verb: tokens[verb].Text}
	next := verb + 1
	if next < len(tokens) {
		switch tokens[next].Tag {
		case "IN", "TO", "RP":
			next++
		}
	}
	for _, c := range chunks {
		if c.start == verb+1 || c.start == next {
			vp.Objects = append(vp.Objects, c.Text)
			break
		}
	}
	return vp, true
}
