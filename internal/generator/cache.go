package generator

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// CachedGenerator wraps a Generator with a prompt-keyed response cache.
// Generation runs at temperature zero, so an identical prompt yields an
// equally useful response; replaying it avoids paying for the call a
// second time when a run is repeated.
type CachedGenerator struct {
	inner Generator
	db    *sql.DB
}

// OpenCache opens (or creates) the response cache for the given model
// under cacheDir and wraps inner with it.
func OpenCache(inner Generator, cacheDir, model string) (*CachedGenerator, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	path := filepath.Join(cacheDir, model+".db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS responses (
		prompt_hash TEXT PRIMARY KEY,
		response    TEXT NOT NULL,
		created_at  TIMESTAMP NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &CachedGenerator{inner: inner, db: db}, nil
}

// Generate returns the cached response for the prompt if one exists,
// otherwise calls the wrapped generator and stores its response.
func (c *CachedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	key := hashPrompt(prompt)

	var cached string
	err := c.db.QueryRowContext(ctx,
		"SELECT response FROM responses WHERE prompt_hash = ?", key).Scan(&cached)
	if err == nil {
		return cached, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("query cache: %w", err)
	}

	response, err := c.inner.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	if _, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO responses (prompt_hash, response, created_at) VALUES (?, ?, ?)",
		key, response, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("store cached response: %w", err)
	}

	return response, nil
}

// Close closes the cache database.
func (c *CachedGenerator) Close() error {
	return c.db.Close()
}

func hashPrompt(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// Verify CachedGenerator implements Generator at compile time.
var _ Generator = (*CachedGenerator)(nil)
