package util

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSourceCache_ReadAndHit(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "Button.svelte", "<script>export let label;</script>")

	cache := NewSourceCache(0, DiscardLogger())
	defer cache.Close()

	first, err := cache.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "<script>export let label;</script>", string(first))

	second, err := cache.Read(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, 1, stats.Cached)
}

func TestSourceCache_ReturnsCopy(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "A.svelte", "abc")

	cache := NewSourceCache(0, DiscardLogger())
	defer cache.Close()

	data, err := cache.Read(path)
	require.NoError(t, err)
	data[0] = 'z'

	again, err := cache.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestSourceCache_Invalidate(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "A.svelte", "old")

	cache := NewSourceCache(0, DiscardLogger())
	defer cache.Close()

	_, err := cache.Read(path)
	require.NoError(t, err)

	cache.Invalidate(path)
	writeSource(t, dir, "A.svelte", "new contents")

	data, err := cache.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "new contents", string(data))
	assert.Equal(t, int64(1), cache.Stats().Invalidations)
}

func TestSourceCache_Clear(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "A.svelte", "old")

	cache := NewSourceCache(0, DiscardLogger())
	defer cache.Close()

	_, err := cache.Read(path)
	require.NoError(t, err)
	require.NoError(t, cache.Clear())
	assert.Equal(t, 0, cache.Len())

	writeSource(t, dir, "A.svelte", "replaced")
	data, err := cache.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(data))
}

func TestSourceCache_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "Empty.svelte", "")

	cache := NewSourceCache(0, DiscardLogger())
	defer cache.Close()

	data, err := cache.Read(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestSourceCache_MaxFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "A.svelte", "a")
	b := writeSource(t, dir, "B.svelte", "b")

	cache := NewSourceCache(1, DiscardLogger())
	defer cache.Close()

	_, err := cache.Read(a)
	require.NoError(t, err)
	data, err := cache.Read(b)
	require.NoError(t, err)

	assert.Equal(t, "b", string(data), "over the limit still reads")
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 1, cache.Limit())
}

func TestSourceCache_Errors(t *testing.T) {
	cache := NewSourceCache(0, DiscardLogger())
	defer cache.Close()

	_, err := cache.Read(filepath.Join(t.TempDir(), "missing.svelte"))
	assert.Error(t, err)

	_, err = cache.Read(t.TempDir())
	assert.Error(t, err)
}

func TestSourceCache_Concurrent(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "A.svelte", "<slot />")

	cache := NewSourceCache(0, DiscardLogger())
	defer cache.Close()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := cache.Read(path)
			assert.NoError(t, err)
			assert.Equal(t, "<slot />", string(data))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, cache.Len())
}
