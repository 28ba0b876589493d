package embedding

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"

	_ "modernc.org/sqlite"
)

// CachedEmbedder wraps an Embedder with a SQLite lookaside keyed by the
// SHA-256 of the text and the model name. Embedding calls are billed per
// token, and the canonical catalog plus recurring question phrasings repeat
// across runs, so the cache pays for itself immediately.
type CachedEmbedder struct {
	inner  Embedder
	model  string
	db     *sql.DB
	logger *slog.Logger
}

// OpenCache opens (and if needed initializes) the cache database at path.
func OpenCache(path string, inner Embedder, model string, logger *slog.Logger) (*CachedEmbedder, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open embedding cache: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS embeddings (
			text_hash TEXT NOT NULL,
			model     TEXT NOT NULL,
			dim       INTEGER NOT NULL,
			vector    BLOB NOT NULL,
			PRIMARY KEY (text_hash, model)
		)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init embedding cache: %w", err)
	}

	return &CachedEmbedder{inner: inner, model: model, db: db, logger: logger}, nil
}

func (c *CachedEmbedder) Close() error {
	return c.db.Close()
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := hashText(text)

	if vec, ok, err := c.lookup(ctx, key); err != nil {
		// a broken cache must not break embedding
		c.logger.Warn("embedding cache lookup failed", "error", err)
	} else if ok {
		return vec, nil
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := c.store(ctx, key, vec); err != nil {
		c.logger.Warn("embedding cache store failed", "error", err)
	}
	return vec, nil
}

func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := c.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (c *CachedEmbedder) lookup(ctx context.Context, key string) ([]float32, bool, error) {
	var dim int
	var blob []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT dim, vector FROM embeddings WHERE text_hash = ? AND model = ?`,
		key, c.model).Scan(&dim, &blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(blob) != dim*4 {
		return nil, false, fmt.Errorf("corrupt vector blob: dim=%d len=%d", dim, len(blob))
	}
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec, true, nil
}

func (c *CachedEmbedder) store(ctx context.Context, key string, vec []float32) error {
	blob := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO embeddings (text_hash, model, dim, vector) VALUES (?, ?, ?, ?)`,
		key, c.model, len(vec), blob)
	return err
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
