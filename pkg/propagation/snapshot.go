package propagation

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/snappy"

	"github.com/todoaskit/propy/pkg/graph"
	"github.com/todoaskit/propy/pkg/logging"
	"github.com/todoaskit/propy/pkg/metrics"
)

// SnapshotExt is the file extension of engine snapshots.
const SnapshotExt = ".snap"

func init() {
	// Item attributes are free-form; register the common value types so
	// they survive the gob round trip. Callers storing custom types must
	// gob.Register them before Dump/Load.
	gob.Register(map[string]any{})
	gob.Register([]float64{})
	gob.Register([]int{})
	gob.Register([]any{})
}

// snapshot is the serializable form of an Engine. Listeners hold function
// values and are not serialized; re-register them after LoadEngine.
type snapshot struct {
	Nodes       []graph.NodeID
	Edges       []graph.EdgeRecord
	NumInfo     int
	Seed        int64
	UserActions []graph.ActionKind
	InfoIDs     []int
	Propagation map[int][]Event
	Attributes  map[int]map[string]any
}

// Dump serializes the engine to dir as one snappy-compressed gob blob
// named "<filePrefix>_<title>.snap" and returns the written path. The file
// is written to a temporary path and renamed on success.
func (e *Engine) Dump(filePrefix, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("propagation: create %s: %w", dir, err)
	}

	snap := snapshot{
		Nodes:       e.g.Nodes(),
		Edges:       e.g.EdgeRecords(),
		NumInfo:     e.numInfo,
		Seed:        e.seed,
		InfoIDs:     e.InfoIDs(),
		Propagation: e.propagation,
		Attributes:  e.attrs,
	}
	for _, key := range e.catalog.Keys() {
		if key.Kind != graph.ActionFollow && key.Kind != graph.ActionPropagate && key.Info == 0 {
			snap.UserActions = append(snap.UserActions, key.Kind)
		}
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return "", fmt.Errorf("propagation: encode snapshot: %w", err)
	}
	data := snappy.Encode(nil, buf.Bytes())

	path := filepath.Join(dir, fmt.Sprintf("%s_%s%s", filePrefix, e.Title(), SnapshotExt))
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return "", fmt.Errorf("propagation: write snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("propagation: rename snapshot: %w", err)
	}

	if e.metrics != nil {
		e.metrics.RecordSnapshot(len(data))
	}
	e.logger.Info("snapshot dumped", logging.Path(path))
	return path, nil
}

// LoadEngine restores an engine from dir. nameOrPrefix is tried first as
// an exact file name; on a miss the directory is scanned for snapshot
// files starting with it and the listing-last match is loaded. Listeners
// are not restored.
func LoadEngine(nameOrPrefix, dir string, logger logging.Logger, reg *metrics.Registry) (*Engine, error) {
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	path := filepath.Join(dir, nameOrPrefix)
	data, err := os.ReadFile(path)
	if err != nil {
		var scanErr error
		path, scanErr = lastSnapshotWithPrefix(dir, nameOrPrefix)
		if scanErr != nil {
			return nil, scanErr
		}
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("propagation: read snapshot %s: %w", path, err)
		}
	}

	decoded, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("propagation: decompress snapshot %s: %w", path, err)
	}
	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(decoded)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("propagation: decode snapshot %s: %w", path, err)
	}

	g := graph.NewDiGraph()
	g.AddNodes(snap.Nodes)
	for _, rec := range snap.Edges {
		g.AddEdge(rec.From, rec.To)
		for key, w := range rec.Actions {
			g.SetEdgeAction(rec.From, rec.To, key, w)
		}
	}

	e := &Engine{
		g:           g,
		numInfo:     snap.NumInfo,
		seed:        snap.Seed,
		catalog:     newActionCatalog(snap.NumInfo, snap.UserActions),
		infoIDs:     snap.InfoIDs,
		propagation: snap.Propagation,
		attrs:       snap.Attributes,
		listeners:   make(map[string][]listenerEntry),
		logger:      logger.With(logging.Component("propagation")),
		metrics:     reg,
	}
	if e.attrs == nil {
		e.attrs = make(map[int]map[string]any)
	}
	e.logger.Info("snapshot loaded", logging.Path(path))
	return e, nil
}

// lastSnapshotWithPrefix returns the listing-last snapshot file in dir
// whose name starts with prefix.
func lastSnapshotWithPrefix(dir, prefix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("propagation: scan %s: %w", dir, err)
	}
	var matches []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasPrefix(name, prefix) && strings.HasSuffix(name, SnapshotExt) {
			matches = append(matches, name)
		}
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("propagation: no snapshot with prefix %q in %s", prefix, dir)
	}
	sort.Strings(matches)
	return filepath.Join(dir, matches[len(matches)-1]), nil
}
