package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ArtifactName is the file name of the persisted graph inside the output dir.
const ArtifactName = "graph.json"

// artifact is the on-disk shape: nodes as a sorted array rather than a map,
// matching the aggregated-results layout consumed by downstream tools.
type artifact struct {
	Repository Repository `json:"repository"`
	Nodes      []*Node    `json:"nodes"`
	Edges      []Edge     `json:"edges"`
	Statistics Stats      `json:"statistics"`
}

// Save writes the graph artifact to dir/graph.json, creating dir if needed.
// Nodes are emitted sorted by ID and edges by (subject, object, kind) so an
// unchanged repository round-trips to identical bytes.
func (g *Graph) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir output: %w", err)
	}

	nodes := make([]*Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	g.SortEdges()

	a := artifact{
		Repository: g.Repository,
		Nodes:      nodes,
		Edges:      g.Edges,
		Statistics: g.Statistics,
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}

	path := filepath.Join(dir, ArtifactName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	return os.Rename(tmp, path)
}

// Load reads a graph artifact previously written by Save.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse graph: %w", err)
	}

	g := &Graph{
		Repository: a.Repository,
		Nodes:      make(map[string]*Node, len(a.Nodes)),
		Edges:      a.Edges,
		Statistics: a.Statistics,
	}
	for _, n := range a.Nodes {
		if _, dup := g.Nodes[n.ID]; dup {
			return nil, fmt.Errorf("artifact %s: duplicate node id %q", path, n.ID)
		}
		g.Nodes[n.ID] = n
	}
	g.rebuildEdgeSet()
	return g, nil
}

// LoadDir reads the graph artifact from an output directory.
func LoadDir(dir string) (*Graph, error) {
	return Load(filepath.Join(dir, ArtifactName))
}
