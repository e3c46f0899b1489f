package analyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/anhnh2002/Universal-Parser/internal/graph"
)

// Direction selects which edges a k-hop traversal follows.
type Direction string

const (
	Outgoing Direction = "outgoing"
	Incoming Direction = "incoming"
	Both     Direction = "both"
)

// KHopResult is the subgraph reachable within k hops of a starting node:
// nodes grouped by their first hop level plus every edge between them.
type KHopResult struct {
	Start      *graph.Node
	K          int
	Direction  Direction
	NodesByHop [][]*graph.Node
	Edges      []graph.Edge
}

// TotalNodes counts the nodes across all hop levels.
func (r *KHopResult) TotalNodes() int {
	n := 0
	for _, level := range r.NodesByHop {
		n += len(level)
	}
	return n
}

// KHopAnalyzer answers k-hop reachability queries over a loaded graph.
type KHopAnalyzer struct {
	a *DefinitionAnalyzer
}

// NewKHopAnalyzer indexes the graph for traversal.
func NewKHopAnalyzer(g *graph.Graph) *KHopAnalyzer {
	return &KHopAnalyzer{a: NewDefinitionAnalyzer(g)}
}

// Analyze runs a breadth-first traversal from the definition named by
// (filePath, name), following edges in the given direction for at most k
// hops. A node is attributed to the level where it is first reached, so
// cycles terminate. An unknown definition returns ErrNotFound.
func (k *KHopAnalyzer) Analyze(filePath, name string, hops int, dir Direction) (*KHopResult, error) {
	if hops < 0 {
		return nil, fmt.Errorf("hops must be non-negative, got %d", hops)
	}
	switch dir {
	case Outgoing, Incoming, Both:
	default:
		return nil, fmt.Errorf("direction must be outgoing, incoming, or both, got %q", dir)
	}

	start := k.a.findNode(filePath, name)
	if start == nil {
		available := k.a.availableNames(filePath)
		return nil, fmt.Errorf("%w: node %q in file %q (available: %s)",
			ErrNotFound, name, filePath, strings.Join(available, ", "))
	}

	res := &KHopResult{
		Start:      start,
		K:          hops,
		Direction:  dir,
		NodesByHop: [][]*graph.Node{{start}},
	}

	visited := map[string]bool{start.ID: true}
	frontier := []string{start.ID}
	for level := 1; level <= hops && len(frontier) > 0; level++ {
		var next []string
		for _, id := range frontier {
			for _, nid := range k.neighbors(id, dir) {
				if !visited[nid] {
					visited[nid] = true
					next = append(next, nid)
				}
			}
		}
		if len(next) == 0 {
			break
		}
		sort.Strings(next)
		nodes := make([]*graph.Node, 0, len(next))
		for _, id := range next {
			nodes = append(nodes, k.a.g.Nodes[id])
		}
		res.NodesByHop = append(res.NodesByHop, nodes)
		frontier = next
	}

	for _, e := range k.a.g.Edges {
		if !e.Unresolved && visited[e.SubjectID] && visited[e.ObjectID] {
			res.Edges = append(res.Edges, e)
		}
	}
	return res, nil
}

// neighbors returns the adjacent node ids in the requested direction.
// Unresolved objects are raw references, not nodes, and are skipped.
func (k *KHopAnalyzer) neighbors(id string, dir Direction) []string {
	var out []string
	if dir == Outgoing || dir == Both {
		for _, e := range k.a.forward[id] {
			if !e.Unresolved {
				out = append(out, e.ObjectID)
			}
		}
	}
	if dir == Incoming || dir == Both {
		for _, e := range k.a.reverse[id] {
			out = append(out, e.SubjectID)
		}
	}
	return out
}

// Format renders the result as readable text: nodes by hop level, then the
// subgraph's edges grouped by kind.
func (r *KHopResult) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "K-hop Analysis: %s (k=%d, direction=%s)\n", r.Start.ID, r.K, r.Direction)
	fmt.Fprintf(&b, "Total Nodes: %d\n", r.TotalNodes())
	fmt.Fprintf(&b, "Total Edges: %d\n", len(r.Edges))
	b.WriteString(strings.Repeat("=", 60) + "\n")

	for level, nodes := range r.NodesByHop {
		fmt.Fprintf(&b, "\nHop %d (%d):\n", level, len(nodes))
		for _, n := range nodes {
			fmt.Fprintf(&b, "  %s [%s] %s L%d-%d\n", n.ID, n.Kind, n.FilePath, n.StartLine, n.EndLine)
		}
	}

	if len(r.Edges) == 0 {
		return b.String()
	}
	byKind := make(map[graph.EdgeKind][]graph.Edge)
	for _, e := range r.Edges {
		byKind[e.Kind] = append(byKind[e.Kind], e)
	}
	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	b.WriteString("\nEdges:\n")
	for _, kind := range kinds {
		edges := byKind[graph.EdgeKind(kind)]
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].SubjectID != edges[j].SubjectID {
				return edges[i].SubjectID < edges[j].SubjectID
			}
			return edges[i].ObjectID < edges[j].ObjectID
		})
		fmt.Fprintf(&b, "  %s (%d):\n", kind, len(edges))
		for _, e := range edges {
			fmt.Fprintf(&b, "    %s -> %s\n", e.SubjectID, e.ObjectID)
		}
	}
	return b.String()
}
