package graph

import (
	"fmt"
	"sort"
	"strings"
)

// Node is one code construct in the unified dependency graph.
// IDs are globally unique, namespaced by file path and qualified name
// (dot-separated, e.g. "utils.helper.HelperClass.helper_method").
type Node struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Kind      NodeKind `json:"kind"`
	Language  string   `json:"language"`
	FilePath  string   `json:"file_path"`
	StartLine int      `json:"start_line"`
	EndLine   int      `json:"end_line"`
	Elided    bool     `json:"elided,omitempty"`
	Summary   string   `json:"summary,omitempty"`
}

// Edge is a directed relationship between two nodes. ObjectID references an
// existing node unless Unresolved is set, in which case it preserves the raw
// reference text the resolver could not bind.
type Edge struct {
	SubjectID   string   `json:"subject_id"`
	SubjectFile string   `json:"subject_file"`
	ObjectID    string   `json:"object_id"`
	ObjectFile  string   `json:"object_file,omitempty"`
	Kind        EdgeKind `json:"kind"`
	Evidence    string   `json:"evidence,omitempty"`
	Unresolved  bool     `json:"unresolved,omitempty"`
}

// FileFailure records a file that could not be processed and why.
type FileFailure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Repository describes the run that produced a graph.
type Repository struct {
	Name           string        `json:"name"`
	Path           string        `json:"path"`
	FilesProcessed int           `json:"total_files_processed"`
	FilesFailed    int           `json:"total_files_failed"`
	FailedFiles    []FileFailure `json:"failed_files"`
}

// Stats aggregates counts by node kind, edge kind, and language.
type Stats struct {
	TotalNodes      int            `json:"total_nodes"`
	TotalEdges      int            `json:"total_edges"`
	NodesByKind     map[string]int `json:"nodes_by_kind"`
	EdgesByKind     map[string]int `json:"edges_by_kind"`
	FilesByLanguage map[string]int `json:"files_by_language"`
}

// Graph is the unified dependency graph for one repository.
type Graph struct {
	Repository Repository       `json:"repository"`
	Nodes      map[string]*Node `json:"nodes"`
	Edges      []Edge           `json:"edges"`
	Statistics Stats            `json:"statistics"`

	// edgeSet deduplicates (subject, object, kind) triples. Rebuilt on load.
	edgeSet map[edgeKey]bool
}

type edgeKey struct {
	subject string
	object  string
	kind    EdgeKind
}

// New returns an empty graph.
func New(repoName, repoPath string) *Graph {
	return &Graph{
		Repository: Repository{Name: repoName, Path: repoPath},
		Nodes:      make(map[string]*Node),
		edgeSet:    make(map[edgeKey]bool),
	}
}

// AddNode inserts a node. Inserting a duplicate ID is an error: node IDs are
// unique within a graph.
func (g *Graph) AddNode(n *Node) error {
	if n.ID == "" {
		return fmt.Errorf("node in %s has empty id", n.FilePath)
	}
	if _, exists := g.Nodes[n.ID]; exists {
		return fmt.Errorf("duplicate node id %q", n.ID)
	}
	g.Nodes[n.ID] = n
	return nil
}

// AddEdge appends an edge, silently dropping exact duplicates of
// (subject_id, object_id, kind).
func (g *Graph) AddEdge(e Edge) {
	key := edgeKey{e.SubjectID, e.ObjectID, e.Kind}
	if g.edgeSet == nil {
		g.rebuildEdgeSet()
	}
	if g.edgeSet[key] {
		return
	}
	g.edgeSet[key] = true
	g.Edges = append(g.Edges, e)
}

func (g *Graph) rebuildEdgeSet() {
	g.edgeSet = make(map[edgeKey]bool, len(g.Edges))
	for _, e := range g.Edges {
		g.edgeSet[edgeKey{e.SubjectID, e.ObjectID, e.Kind}] = true
	}
}

// NodesInFile returns the nodes attributed to a file, ordered by start line
// (ties by ID for stable output).
func (g *Graph) NodesInFile(filePath string) []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.FilePath == filePath {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartLine != out[j].StartLine {
			return out[i].StartLine < out[j].StartLine
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Files returns the sorted set of file paths that have nodes in the graph.
func (g *Graph) Files() []string {
	seen := make(map[string]bool)
	for _, n := range g.Nodes {
		seen[n.FilePath] = true
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// RemoveFile deletes every node and edge attributed to filePath and returns
// the edges in other files whose object pointed at a removed node. Those
// edges stay in the graph but are flagged unresolved so the resolver can
// re-queue them.
func (g *Graph) RemoveFile(filePath string) (dirty []Edge) {
	removed := make(map[string]bool)
	for id, n := range g.Nodes {
		if n.FilePath == filePath {
			removed[id] = true
			delete(g.Nodes, id)
		}
	}

	kept := g.Edges[:0]
	for _, e := range g.Edges {
		if e.SubjectFile == filePath {
			continue
		}
		if !e.Unresolved && removed[e.ObjectID] {
			e.Unresolved = true
			e.ObjectFile = ""
			dirty = append(dirty, e)
		}
		kept = append(kept, e)
	}
	g.Edges = kept
	g.rebuildEdgeSet()
	return dirty
}

// DedupEdges drops exact (subject, object, kind) duplicates and returns how
// many were removed. Re-resolution rewrites object ids in place, so two
// spellings of the same reference can converge onto one triple after the
// fact; AddEdge's set only guards insertion time.
func (g *Graph) DedupEdges() int {
	seen := make(map[edgeKey]bool, len(g.Edges))
	kept := g.Edges[:0]
	for _, e := range g.Edges {
		key := edgeKey{e.SubjectID, e.ObjectID, e.Kind}
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, e)
	}
	dropped := len(g.Edges) - len(kept)
	g.Edges = kept
	g.edgeSet = seen
	return dropped
}

// PruneDanglingSubjects drops edges whose subject node does not exist and
// returns how many were removed. Every edge subject must exist; objects may
// dangle only behind the Unresolved flag.
func (g *Graph) PruneDanglingSubjects() int {
	kept := g.Edges[:0]
	dropped := 0
	for _, e := range g.Edges {
		if _, ok := g.Nodes[e.SubjectID]; ok {
			kept = append(kept, e)
		} else {
			dropped++
		}
	}
	g.Edges = kept
	if dropped > 0 {
		g.rebuildEdgeSet()
	}
	return dropped
}

// RecomputeStats rebuilds the aggregate counters from nodes and edges.
func (g *Graph) RecomputeStats() {
	s := Stats{
		TotalNodes:      len(g.Nodes),
		TotalEdges:      len(g.Edges),
		NodesByKind:     make(map[string]int),
		EdgesByKind:     make(map[string]int),
		FilesByLanguage: make(map[string]int),
	}
	byFile := make(map[string]string)
	for _, n := range g.Nodes {
		s.NodesByKind[string(n.Kind)]++
		if n.Language != "" {
			byFile[n.FilePath] = n.Language
		}
	}
	for _, lang := range byFile {
		s.FilesByLanguage[lang]++
	}
	for _, e := range g.Edges {
		s.EdgesByKind[string(e.Kind)]++
	}
	g.Statistics = s
}

// SortEdges orders the edge list deterministically so repeated runs over an
// unchanged repository produce byte-identical artifacts.
func (g *Graph) SortEdges() {
	sort.Slice(g.Edges, func(i, j int) bool {
		a, b := g.Edges[i], g.Edges[j]
		if a.SubjectID != b.SubjectID {
			return a.SubjectID < b.SubjectID
		}
		if a.ObjectID != b.ObjectID {
			return a.ObjectID < b.ObjectID
		}
		return a.Kind < b.Kind
	})
}

// Validate checks the graph's invariants: unique node IDs are structural
// (map keys), so it verifies edge referential integrity — every subject
// exists, every object exists or is flagged unresolved.
func (g *Graph) Validate() error {
	for i, e := range g.Edges {
		if _, ok := g.Nodes[e.SubjectID]; !ok {
			return fmt.Errorf("edge %d: subject %q not in graph", i, e.SubjectID)
		}
		if e.Unresolved {
			continue
		}
		if _, ok := g.Nodes[e.ObjectID]; !ok {
			return fmt.Errorf("edge %d: object %q not in graph and not flagged unresolved", i, e.ObjectID)
		}
	}
	return nil
}

// normalizeKind lowercases and canonicalizes a free-text kind string.
func normalizeKind(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "-", "_")
}
