package mcpserver

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/smithygen/internal/testutil"
	"github.com/erraggy/smithygen/parser"
)

func TestModelInput_ResolveFile(t *testing.T) {
	modelCache.reset()
	path := testutil.WriteFile(t, "weather.json", testutil.WeatherModel)

	result, err := modelInput{File: path}.resolve()
	require.NoError(t, err)
	assert.Equal(t, "2.0", result.Version)
	assert.Equal(t, []string{"example.weather"}, result.Model.Namespaces())
}

func TestModelInput_ResolveContent(t *testing.T) {
	modelCache.reset()

	result, err := modelInput{Content: testutil.CatalogModel}.resolve()
	require.NoError(t, err)
	_, ok := result.Model.Lookup("example.catalog#Product")
	assert.True(t, ok)
}

func TestModelInput_ResolveNoneProvided(t *testing.T) {
	_, err := modelInput{}.resolve()
	assert.ErrorContains(t, err, "exactly one of file or content must be provided")
}

func TestModelInput_ResolveBothProvided(t *testing.T) {
	_, err := modelInput{File: "model.json", Content: "{}"}.resolve()
	assert.ErrorContains(t, err, "exactly one of file or content must be provided")
}

func TestModelInput_ResolveFileNotFound(t *testing.T) {
	modelCache.reset()
	_, err := modelInput{File: "/nonexistent/model.json"}.resolve()
	assert.Error(t, err)
}

func TestModelInput_InlineSizeLimit(t *testing.T) {
	old := cfg.MaxInlineSize
	cfg.MaxInlineSize = 16
	t.Cleanup(func() { cfg.MaxInlineSize = old })

	_, err := modelInput{Content: testutil.WeatherModel}.resolve()
	assert.ErrorContains(t, err, "exceeds maximum")
}

func TestModelCache_HitOnSameFile(t *testing.T) {
	modelCache.reset()
	input := modelInput{File: testutil.WriteFile(t, "weather.json", testutil.WeatherModel)}

	result1, err := input.resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, modelCache.size())

	result2, err := input.resolve()
	require.NoError(t, err)
	assert.Same(t, result1, result2, "expected same pointer from cache hit")
}

func TestModelCache_MissOnModifiedFile(t *testing.T) {
	modelCache.reset()
	path := testutil.WriteFile(t, "model.json", testutil.WeatherModel)
	input := modelInput{File: path}

	result1, err := input.resolve()
	require.NoError(t, err)
	_, ok := result1.Model.Lookup("example.catalog#Product")
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte(testutil.CatalogModel), 0o644))
	// Ensure mtime differs from the first write on coarse-grained filesystems.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	result2, err := input.resolve()
	require.NoError(t, err)
	assert.NotSame(t, result1, result2)
	_, ok = result2.Model.Lookup("example.catalog#Product")
	assert.True(t, ok)
}

func TestModelCache_ContentHash(t *testing.T) {
	modelCache.reset()
	input := modelInput{Content: testutil.WeatherModel}

	result1, err := input.resolve()
	require.NoError(t, err)
	result2, err := input.resolve()
	require.NoError(t, err)
	assert.Same(t, result1, result2)
}

func TestModelCache_Disabled(t *testing.T) {
	modelCache.reset()
	cfg.CacheEnabled = false
	t.Cleanup(func() { cfg.CacheEnabled = true })

	_, err := modelInput{Content: testutil.WeatherModel}.resolve()
	require.NoError(t, err)
	assert.Zero(t, modelCache.size())
}

func TestModelCache_LRUEviction(t *testing.T) {
	modelCache.reset()

	var firstKey string
	for i := range modelCache.maxSize + 1 {
		content := strings.Replace(testutil.WeatherModel, "2024-01-01", fmt.Sprintf("v%d", i), 1)
		if i == 0 {
			firstKey = makeCacheKey(modelInput{Content: content})
		}
		_, err := modelInput{Content: content}.resolve()
		require.NoError(t, err)
	}

	assert.Equal(t, modelCache.maxSize, modelCache.size())
	assert.Nil(t, modelCache.get(firstKey), "expected oldest entry to be evicted")
}

func TestModelCache_ExpiryAndSweep(t *testing.T) {
	modelCache.reset()
	modelCache.putWithTTL("expired", &parser.ParseResult{}, -time.Second)
	modelCache.putWithTTL("live", &parser.ParseResult{}, time.Hour)

	assert.Nil(t, modelCache.get("expired"))
	modelCache.putWithTTL("expired", &parser.ParseResult{}, -time.Second)
	modelCache.sweep()
	assert.Equal(t, 1, modelCache.size())
}

func TestModelCache_Sweeper(t *testing.T) {
	modelCache.reset()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	modelCache.putWithTTL("expired", &parser.ParseResult{}, -time.Second)
	modelCache.startSweeper(ctx, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return modelCache.size() == 0 }, time.Second, 10*time.Millisecond)
}
