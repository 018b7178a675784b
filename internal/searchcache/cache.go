// Package searchcache keeps recent search proxy responses so repeated
// queries inside the shared-cache window are answered without calling
// Notion.
package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Cache stores upstream search responses by key.
type Cache interface {
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Close() error
}

// Key derives a cache key from normalized search parameters.
func Key(params any) (string, error) {
	b, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("marshal cache key: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// Noop never stores anything. It is used when caching is disabled.
type Noop struct{}

func (Noop) Get(context.Context, string) (json.RawMessage, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, string, json.RawMessage) error          { return nil }
func (Noop) Close() error                                                 { return nil }
