package vectorstore

import (
	"context"
	"errors"
	"fmt"

	"goldenspoon/internal/domain"
	"goldenspoon/internal/embedding"
	"goldenspoon/internal/logger"
)

const defaultBatchSize = 64

// Collection ties an embedder to a storage backend. Documents are embedded in
// document mode when indexed and queries are embedded in query mode.
type Collection struct {
	embedder  embedding.Embedder
	storage   Storage
	logger    logger.Logger
	batchSize int
}

func NewCollection(embedder embedding.Embedder, storage Storage, log logger.Logger) *Collection {
	if log == nil {
		log = logger.NewNop()
	}
	return &Collection{embedder: embedder, storage: storage, logger: log, batchSize: defaultBatchSize}
}

// Index embeds and stores docs unless the storage already holds records.
// Calling it again, or against a persisted store, is a no-op.
func (c *Collection) Index(ctx context.Context, docs []domain.Document) error {
	if p, ok := c.embedder.(embedding.Preparer); ok {
		texts := make([]string, len(docs))
		for i, d := range docs {
			texts[i] = d.Content
		}
		if err := p.Prepare(texts); err != nil {
			return fmt.Errorf("prepare embedder: %w", err)
		}
	}

	count, err := c.storage.Count(ctx)
	if err != nil {
		return fmt.Errorf("count records: %w", err)
	}
	if count > 0 {
		c.logger.Info("vectorstore", "collection already populated", map[string]interface{}{"count": count})
		return nil
	}
	if len(docs) == 0 {
		return nil
	}

	records := make([]domain.Record, 0, len(docs))
	for start := 0; start < len(docs); start += c.batchSize {
		end := min(start+c.batchSize, len(docs))
		batch := docs[start:end]
		texts := make([]string, len(batch))
		for i, d := range batch {
			texts[i] = d.Content
		}
		vectors, err := c.embedder.Embed(ctx, texts, embedding.ModeDocument)
		if err != nil {
			return fmt.Errorf("embed documents: %w", err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embed documents: got %d vectors for %d texts", len(vectors), len(batch))
		}
		for i, d := range batch {
			records = append(records, domain.Record{Document: d, Vector: vectors[i]})
		}
	}

	dim := len(records[0].Vector)
	if dim == 0 {
		return errors.New("embedder returned empty vectors")
	}
	if err := c.storage.Init(ctx, dim); err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	if err := c.storage.Upsert(ctx, records); err != nil {
		return fmt.Errorf("upsert records: %w", err)
	}
	c.logger.Info("vectorstore", "collection indexed", map[string]interface{}{
		"count":     len(records),
		"dimension": dim,
		"embedder":  c.embedder.Name(),
	})
	return nil
}

// Query returns up to k documents most similar to text, best first.
// k <= 0 is treated as 1.
func (c *Collection) Query(ctx context.Context, text string, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		k = 1
	}
	count, err := c.storage.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: count records: %v", domain.ErrRetrieval, err)
	}
	if count == 0 {
		return nil, nil
	}
	vectors, err := c.embedder.Embed(ctx, []string{text}, embedding.ModeQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrRetrieval, err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: embed query: got %d vectors", domain.ErrRetrieval, len(vectors))
	}
	results, err := c.storage.Search(ctx, vectors[0], k)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %w", domain.ErrRetrieval, err)
	}
	return results, nil
}

// BestMatch returns the content of the single most similar document, or ""
// when the collection is empty.
func (c *Collection) BestMatch(ctx context.Context, text string) (string, error) {
	results, err := c.Query(ctx, text, 1)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}
	return results[0].Document.Content, nil
}

// Clear removes every stored record so the next Index re-embeds the corpus.
func (c *Collection) Clear(ctx context.Context) error {
	return c.storage.Clear(ctx)
}
