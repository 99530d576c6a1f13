package gemini

import (
	"context"

	"github.com/sitedex/sitedex"
	"google.golang.org/genai"
)

// DefaultEmbeddingModel is the embedding model used unless overridden.
const DefaultEmbeddingModel = "gemini-embedding-001"

// DefaultDimension is the requested output dimensionality. It must match
// the vector width the storage schema was created with.
const DefaultDimension = 1024

// Ensure Embedder implements sitedex.Embedder at compile time.
var _ sitedex.Embedder = (*Embedder)(nil)

// Embedder implements sitedex.Embedder using the Gemini embedding API.
// Returned vectors are unit-normalized so cosine similarity in storage
// reduces to a dot product.
type Embedder struct {
	client    *genai.Client
	model     string
	dimension int
}

// EmbedderOption configures an Embedder.
type EmbedderOption func(*Embedder)

// WithModel overrides the embedding model.
func WithModel(model string) EmbedderOption {
	return func(e *Embedder) {
		e.model = model
	}
}

// WithDimension overrides the output dimensionality.
func WithDimension(d int) EmbedderOption {
	return func(e *Embedder) {
		e.dimension = d
	}
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client, opts ...EmbedderOption) *Embedder {
	e := &Embedder{
		client:    client,
		model:     DefaultEmbeddingModel,
		dimension: DefaultDimension,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed encodes a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch encodes several texts in one API call, returning one vector
// per input in input order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	for _, text := range texts {
		if text == "" {
			return nil, sitedex.Errorf(sitedex.EINVALID, "cannot embed empty text")
		}
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, "user")
	}

	dim := int32(e.dimension)
	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &dim,
	})
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, sitedex.Errorf(sitedex.EINTERNAL, "gemini returned %d embeddings for %d texts", embeddingCount(result), len(texts))
	}

	vecs := make([][]float32, len(texts))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, sitedex.Errorf(sitedex.EINTERNAL, "gemini returned an empty embedding at index %d", i)
		}
		// Truncated-dimension embeddings are not normalized by the API.
		vecs[i] = sitedex.NormalizeVector(emb.Values)
	}
	return vecs, nil
}

// Dimension returns the configured output dimensionality.
func (e *Embedder) Dimension() int {
	return e.dimension
}

func embeddingCount(r *genai.EmbedContentResponse) int {
	if r == nil {
		return 0
	}
	return len(r.Embeddings)
}
