package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShardedDumpReloadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	c := newTestContainer(t, Config{Path: dir})
	seedContainer(t, c, 10)
	require.NoError(t, c.UpdateYFeatures([][]float64{
		{0}, {1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}, {9},
	}))

	require.NoError(t, c.Dump("train", 3))

	for i := 0; i < 3; i++ {
		_, err := os.Stat(filepath.Join(dir, "train_"+string(rune('0'+i))+ShardExt))
		require.NoError(t, err, "shard %d must exist", i)
	}

	reloaded := newTestContainer(t, Config{Path: dir})
	require.True(t, reloaded.Load("train"))

	require.Equal(t, c.Len(), reloaded.Len())
	assert.Equal(t, c.xFeatures.Rows(), reloaded.xFeatures.Rows())
	assert.Equal(t, c.ys.Rows(), reloaded.ys.Rows())
	assert.Equal(t, c.yFeatures.Rows(), reloaded.yFeatures.Rows())
	assert.Equal(t, c.selected, reloaded.selected)

	for i := 0; i < c.Len(); i++ {
		want, err := c.Example(i)
		require.NoError(t, err)
		got, err := reloaded.Example(i)
		require.NoError(t, err)
		assert.Equal(t, want, got, "example %d", i)
	}
}

func TestShardedDumpUnevenSplit(t *testing.T) {
	dir := t.TempDir()

	c := newTestContainer(t, Config{Path: dir})
	seedContainer(t, c, 10)

	// 10 examples over 4 shards: ceiling division gives 3+3+3+1
	require.NoError(t, c.Dump("u", 4))

	reloaded := newTestContainer(t, Config{Path: dir})
	require.True(t, reloaded.Load("u"))
	assert.Equal(t, 10, reloaded.Len())
}

func TestLoadMissingPrefixReturnsFalse(t *testing.T) {
	c := newTestContainer(t, Config{Path: t.TempDir()})

	assert.False(t, c.Load("nonexistent_prefix"))
	assert.Equal(t, 0, c.Len())
}

func TestLoadCorruptShardReturnsFalse(t *testing.T) {
	dir := t.TempDir()

	c := newTestContainer(t, Config{Path: dir})
	seedContainer(t, c, 4)
	require.NoError(t, c.Dump("mix", 2))

	// Corrupt the second shard; the first still accumulates
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mix_1"+ShardExt), []byte("garbage"), 0o644))

	reloaded := newTestContainer(t, Config{Path: dir})
	assert.False(t, reloaded.Load("mix"))
	assert.Equal(t, 2, reloaded.Len(), "shards loaded before the failure are retained")
}

func TestLoadIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()

	c := newTestContainer(t, Config{Path: dir})
	seedContainer(t, c, 2)
	require.NoError(t, c.Dump("keep", 1))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep_notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other_0"+ShardExt), []byte("x"), 0o644))

	reloaded := newTestContainer(t, Config{Path: dir})
	require.True(t, reloaded.Load("keep"))
	assert.Equal(t, 2, reloaded.Len())
}

func TestDumpEmptyContainerPanics(t *testing.T) {
	c := newTestContainer(t, Config{Path: t.TempDir()})

	assert.Panics(t, func() { _ = c.Dump("empty", 1) })
}

func TestDumpWritesNoTempLeftovers(t *testing.T) {
	dir := t.TempDir()

	c := newTestContainer(t, Config{Path: dir})
	seedContainer(t, c, 3)
	require.NoError(t, c.Dump("atomic", 2))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".tmp")
	}
}
