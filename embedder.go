package sitedex

import "context"

// Embedder maps text to fixed-dimension vectors. The model is treated as a
// pure function: the same text always yields the same vector, and vectors
// are unit-normalized so cosine similarity reduces to a dot product.
type Embedder interface {
	// Embed encodes a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch encodes several texts in one round trip. The result has
	// one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the fixed vector dimension of the model.
	Dimension() int
}
