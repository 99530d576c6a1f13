package sitedex

import (
	"context"
	"regexp"
	"strings"
)

// DefaultChunkTokens bounds chunk size when no limit is configured.
const DefaultChunkTokens = 500

// Chunker splits page text into bounded-size segments for embedding.
// Segmentation prefers sentence boundaries and falls back to hard word
// splits only when a single sentence exceeds the token budget. Output is
// deterministic for a given input, which keeps re-embedding idempotent.
type Chunker struct {
	Tokens    TokenCounter
	MaxTokens int
}

// sentenceRe matches a sentence terminator followed by whitespace.
var sentenceRe = regexp.MustCompile(`([.!?])\s+`)

// Chunk splits text into ordered segments, each within the token budget.
func (c *Chunker) Chunk(ctx context.Context, text string) ([]string, error) {
	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultChunkTokens
	}

	text = normalizeWhitespace(text)
	if text == "" {
		return nil, nil
	}

	var chunks []string
	var current strings.Builder
	currentTokens := 0

	for _, sentence := range splitSentences(text) {
		n, err := c.Tokens.CountTokens(ctx, sentence)
		if err != nil {
			return nil, err
		}

		if n > maxTokens {
			// Oversized sentence: flush what we have and hard-split it.
			if current.Len() > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
				currentTokens = 0
			}
			pieces, err := c.hardSplit(ctx, sentence, maxTokens)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, pieces...)
			continue
		}

		if current.Len() > 0 && currentTokens+n > maxTokens {
			chunks = append(chunks, current.String())
			current.Reset()
			currentTokens = 0
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
		currentTokens += n
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks, nil
}

// hardSplit breaks an oversized sentence on word boundaries.
func (c *Chunker) hardSplit(ctx context.Context, sentence string, maxTokens int) ([]string, error) {
	words := strings.Fields(sentence)

	var pieces []string
	var current strings.Builder
	currentTokens := 0

	for _, word := range words {
		n, err := c.Tokens.CountTokens(ctx, word)
		if err != nil {
			return nil, err
		}
		if current.Len() > 0 && currentTokens+n > maxTokens {
			pieces = append(pieces, current.String())
			current.Reset()
			currentTokens = 0
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
		currentTokens += n
	}
	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}
	return pieces, nil
}

// splitSentences splits text after sentence terminators. The terminator
// stays attached to its sentence so concatenating the result loses only
// the inter-sentence whitespace.
func splitSentences(text string) []string {
	var sentences []string
	last := 0
	for _, loc := range sentenceRe.FindAllStringSubmatchIndex(text, -1) {
		// loc[3] is the end of the terminator group.
		end := loc[3]
		s := strings.TrimSpace(text[last:end])
		if s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}
	if s := strings.TrimSpace(text[last:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// normalizeWhitespace collapses runs of whitespace to single spaces.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
