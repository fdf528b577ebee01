package propagation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todoaskit/propy/pkg/graph"
)

func TestSnapshotDumpAndLoadExactName(t *testing.T) {
	dir := t.TempDir()
	e := lineEngine(t)
	e.SetInfoAttr(0, "depth", 2.0)

	path, err := e.Dump("net", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "net_num_info_1_nodes_3_edges_2_seed_42.snap"), path)

	loaded, err := LoadEngine(filepath.Base(path), dir, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, e.NumInfo(), loaded.NumInfo())
	assert.Equal(t, e.Seed(), loaded.Seed())
	assert.Equal(t, e.Title(), loaded.Title())
	assert.Equal(t, e.Events(0), loaded.Events(0))
	assert.Equal(t, e.Roots(), loaded.Roots())

	v, ok := loaded.InfoAttr(0, "depth")
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	// Graph annotations survived
	w, ok := loaded.Graph().EdgeAction(1, 2, graph.PropagateKey(0))
	require.True(t, ok)
	assert.Equal(t, 2.0, w)
	w, ok = loaded.Graph().EdgeAction(0, 1, graph.FollowKey())
	require.True(t, ok)
	assert.Equal(t, 1.0, w)
}

func TestSnapshotLoadByPrefix(t *testing.T) {
	dir := t.TempDir()
	e := lineEngine(t)

	_, err := e.Dump("net", dir)
	require.NoError(t, err)

	loaded, err := LoadEngine("net", dir, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, e.Title(), loaded.Title())
}

func TestSnapshotLoadPrefixPicksLast(t *testing.T) {
	dir := t.TempDir()

	// Two decoy snapshot files; the lexicographically last one matching
	// the prefix must win. Their content is a real snapshot.
	e := lineEngine(t)
	path, err := e.Dump("net", dir)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "net_a.snap"), []byte("junk"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "net_z.snap"), data, 0o644))

	loaded, err := LoadEngine("net_", dir, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, e.Title(), loaded.Title())
}

func TestSnapshotLoadMissing(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadEngine("nonexistent", dir, nil, nil)
	assert.Error(t, err)
}

func TestSnapshotActionCatalogRestored(t *testing.T) {
	dir := t.TempDir()

	e, err := NewEngine(
		[]graph.NodeID{0, 1, 2},
		[]graph.Edge{{From: 0, To: 1}, {From: 1, To: 2}},
		Config{
			NumInfo:     2,
			Prob:        0.9,
			UserActions: []graph.ActionKind{"retweet"},
			Seed:        5,
		})
	require.NoError(t, err)

	_, err = e.Dump("cat", dir)
	require.NoError(t, err)

	loaded, err := LoadEngine("cat", dir, nil, nil)
	require.NoError(t, err)

	assert.True(t, loaded.Actions().Contains(graph.FollowKey()))
	assert.True(t, loaded.Actions().Contains(graph.PropagateKey(1)))
	assert.True(t, loaded.Actions().Contains(graph.ActionKey{Kind: "retweet", Info: 1}))
	assert.Equal(t, e.Actions().Len(), loaded.Actions().Len())
}
