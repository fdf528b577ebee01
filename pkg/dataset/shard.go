package dataset

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/snappy"

	"github.com/todoaskit/propy/pkg/codec"
	"github.com/todoaskit/propy/pkg/graph"
	"github.com/todoaskit/propy/pkg/logging"
)

// ShardExt is the file extension of persisted shards.
const ShardExt = ".shard"

// shardRecord is the serializable form of one container shard.
type shardRecord struct {
	Actions   []graph.ActionKey
	EdgeLists [][]codec.TripleList
	Selected  [][]int
	XFeatures [][]float64
	YFeatures [][]float64
	Ys        [][]float64
}

// Dump partitions the example axis and the x-feature axis independently
// into numSubfiles contiguous ceiling-division chunks and writes each
// chunk as "<namePrefix>_<i>.shard" under the container's path, snappy
// compressed, via a temporary file renamed on success.
//
// Precondition: each example must only reference x-feature rows inside
// its own shard's slice; the partitioning does not guard against cross
// references.
//
// Dumping an empty container or one with diverging parallel fields is a
// contract violation and panics.
func (c *Container) Dump(namePrefix string, numSubfiles int) error {
	n := c.Len()
	if n == 0 {
		panic("dataset: dump on an empty container")
	}
	if numSubfiles <= 0 {
		numSubfiles = 1
	}

	exampleChunk := ceilDiv(n, numSubfiles)
	xChunk := ceilDiv(c.xFeatures.Len(), numSubfiles)

	for i := 0; i < numSubfiles; i++ {
		exStart, exEnd := clampRange(i*exampleChunk, (i+1)*exampleChunk, n)
		xStart, xEnd := clampRange(i*xChunk, (i+1)*xChunk, c.xFeatures.Len())

		shard, err := NewContainer(Config{
			Path:         c.path,
			Actions:      c.actions,
			COORepr:      c.cooRepr,
			XIndicesRepr: c.xIndicesRepr,
			Logger:       logging.NewNopLogger(),
		})
		if err != nil {
			return err
		}
		if err := shard.UpdateMatricesAndIndices(c.edgeLists[exStart:exEnd], c.selected[exStart:exEnd]); err != nil {
			return err
		}
		if err := shard.UpdateXFeatures(c.xFeatures.SliceRows(xStart, xEnd)); err != nil {
			return err
		}
		if err := shard.UpdateYFeatures(c.yFeatures.SliceRows(exStart, exEnd)); err != nil {
			return err
		}
		if err := shard.UpdateYs(c.ys.SliceRows(exStart, exEnd)); err != nil {
			return err
		}

		name := fmt.Sprintf("%s_%d%s", namePrefix, i, ShardExt)
		size, err := shard.writeShardFile(name)
		if err != nil {
			return err
		}
		if c.metrics != nil {
			c.metrics.RecordShardWritten(size)
		}
	}

	c.logger.Info("shards dumped",
		logging.String("prefix", namePrefix),
		logging.Count(numSubfiles),
		logging.NumExamples(n))
	return nil
}

func (c *Container) writeShardFile(name string) (int, error) {
	rec := shardRecord{
		Actions:   c.actions,
		EdgeLists: c.edgeLists,
		Selected:  c.selected,
		XFeatures: c.xFeatures.Rows(),
		YFeatures: c.yFeatures.Rows(),
		Ys:        c.ys.Rows(),
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return 0, fmt.Errorf("dataset: encode shard %s: %w", name, err)
	}
	data := snappy.Encode(nil, buf.Bytes())

	path := filepath.Join(c.path, name)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return 0, fmt.Errorf("dataset: write shard %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return 0, fmt.Errorf("dataset: rename shard %s: %w", path, err)
	}
	return len(data), nil
}

// Load scans the container's path for every shard whose name starts with
// namePrefix and accumulates them in listing order through the same
// concatenation semantics as live updates. It returns false when no shard
// matches or when any shard fails to load; fields accumulated from shards
// loaded before a failure are retained.
func (c *Container) Load(namePrefix string) bool {
	entries, err := os.ReadDir(c.path)
	if err != nil {
		c.logger.Error("load failed to scan path", logging.Path(c.path), logging.Error(err))
		return false
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasPrefix(name, namePrefix) && strings.HasSuffix(name, ShardExt) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		c.logger.Warn("no shards to load", logging.String("prefix", namePrefix), logging.Path(c.path))
		return false
	}
	sort.Strings(names)

	for _, name := range names {
		if err := c.loadShardFile(name); err != nil {
			c.logger.Error("shard load failed", logging.Path(filepath.Join(c.path, name)), logging.Error(err))
			if c.metrics != nil {
				c.metrics.RecordLoadFailure()
			}
			return false
		}
	}

	c.logger.Info("shards loaded",
		logging.String("prefix", namePrefix),
		logging.Count(len(names)),
		logging.NumExamples(c.Len()))
	return true
}

func (c *Container) loadShardFile(name string) error {
	data, err := os.ReadFile(filepath.Join(c.path, name))
	if err != nil {
		return err
	}
	decoded, err := snappy.Decode(nil, data)
	if err != nil {
		return fmt.Errorf("decompress: %w", err)
	}
	var rec shardRecord
	if err := gob.NewDecoder(bytes.NewReader(decoded)).Decode(&rec); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	if err := c.UpdateMatricesAndIndices(rec.EdgeLists, rec.Selected); err != nil {
		return err
	}
	if err := c.UpdateXFeatures(rec.XFeatures); err != nil {
		return err
	}
	if err := c.UpdateYFeatures(rec.YFeatures); err != nil {
		return err
	}
	return c.UpdateYs(rec.Ys)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func clampRange(start, end, max int) (int, int) {
	if start > max {
		start = max
	}
	if end > max {
		end = max
	}
	return start, end
}
