package sitedex

import "context"

// TokenCounter counts tokens in text for a specific model.
// Implementations must be deterministic: the chunker relies on identical
// inputs producing identical counts.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
