package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/erraggy/smithygen/parser"
)

// modelInput represents the two ways a model can be provided to a tool.
// Exactly one of File or Content must be set.
type modelInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a Smithy JSON AST model on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline Smithy JSON AST model content"`
}

type cacheEntry struct {
	result    *parser.ParseResult
	expiresAt time.Time
}

func (e *cacheEntry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// modelCacheStore caches loaded models for the session in an LRU. Files are
// keyed by absolute path and modification time, inline content by its
// SHA-256.
type modelCacheStore struct {
	lru            *lru.Cache
	maxSize        int
	sweeperStarted atomic.Bool
}

var modelCache = newModelCache(cfg.CacheMaxSize)

func newModelCache(size int) *modelCacheStore {
	c, err := lru.New(size)
	if err != nil {
		size = defaultCacheMaxSize
		c, _ = lru.New(size)
	}
	return &modelCacheStore{lru: c, maxSize: size}
}

// get returns a live cached result or nil, dropping the entry if it expired.
func (c *modelCacheStore) get(key string) *parser.ParseResult {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil
	}
	e := v.(*cacheEntry)
	if e.expired(time.Now()) {
		c.lru.Remove(key)
		return nil
	}
	return e.result
}

func (c *modelCacheStore) putWithTTL(key string, result *parser.ParseResult, ttl time.Duration) {
	c.lru.Add(key, &cacheEntry{result: result, expiresAt: time.Now().Add(ttl)})
}

// sweep removes every expired entry without touching recency.
func (c *modelCacheStore) sweep() {
	now := time.Now()
	for _, k := range c.lru.Keys() {
		if v, ok := c.lru.Peek(k); ok && v.(*cacheEntry).expired(now) {
			c.lru.Remove(k)
		}
	}
}

// startSweeper sweeps every interval until ctx ends. Only the first call
// while a sweeper runs has an effect.
func (c *modelCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

func (c *modelCacheStore) reset() { c.lru.Purge() }

func (c *modelCacheStore) size() int { return c.lru.Len() }

// makeCacheKey returns the cache key of m, or "" when m cannot be cached.
func makeCacheKey(m modelInput) string {
	switch {
	case m.File != "":
		absPath, err := filepath.Abs(m.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case m.Content != "":
		h := sha256.Sum256([]byte(m.Content))
		return "content:" + hex.EncodeToString(h[:])
	default:
		return ""
	}
}

// resolve loads the model from whichever input was provided, using the cache.
// Cached results are shared between calls and must not be modified.
func (m modelInput) resolve() (*parser.ParseResult, error) {
	if (m.File == "") == (m.Content == "") {
		return nil, fmt.Errorf("exactly one of file or content must be provided")
	}

	if m.Content != "" && int64(len(m.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set SMITHYGEN_MCP_MAX_INLINE_SIZE to increase",
			len(m.Content), cfg.MaxInlineSize)
	}

	var key string
	var ttl time.Duration
	if cfg.CacheEnabled {
		key = makeCacheKey(m)
		ttl = cfg.CacheContentTTL
		if m.File != "" {
			ttl = cfg.CacheFileTTL
		}
	}

	if key != "" {
		if cached := modelCache.get(key); cached != nil {
			return cached, nil
		}
	}

	var opt parser.Option
	if m.File != "" {
		opt = parser.WithFilePath(m.File)
	} else {
		opt = parser.WithBytes([]byte(m.Content))
	}
	result, err := parser.ParseWithOptions(opt)
	if err != nil {
		return nil, err
	}

	if key != "" {
		modelCache.putWithTTL(key, result, ttl)
	}
	return result, nil
}
