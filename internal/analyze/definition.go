package analyze

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/anhnh2002/Universal-Parser/internal/graph"
)

// ErrNotFound is returned when the requested definition or file is not in
// the graph. Callers get no partial output.
var ErrNotFound = errors.New("not found")

// Relation is one neighboring node and every edge kind connecting it to the
// analyzed definition.
type Relation struct {
	Node      *graph.Node
	EdgeKinds []graph.EdgeKind
}

// Definition is the full picture of one node: what it depends on and what
// depends on it.
type Definition struct {
	Node         *graph.Node
	Dependencies []Relation // outgoing edges, grouped by object
	Dependents   []Relation // incoming edges, grouped by subject
	Unresolved   int        // outgoing references that never resolved
}

// DefinitionAnalyzer answers read-only definition queries over a loaded
// graph. Indexes are built once in a single linear pass, so cyclic edge
// structures cost nothing.
type DefinitionAnalyzer struct {
	g       *graph.Graph
	forward map[string][]*graph.Edge
	reverse map[string][]*graph.Edge
}

// NewDefinitionAnalyzer indexes the graph for lookup.
func NewDefinitionAnalyzer(g *graph.Graph) *DefinitionAnalyzer {
	a := &DefinitionAnalyzer{
		g:       g,
		forward: make(map[string][]*graph.Edge),
		reverse: make(map[string][]*graph.Edge),
	}
	for i := range g.Edges {
		e := &g.Edges[i]
		a.forward[e.SubjectID] = append(a.forward[e.SubjectID], e)
		if !e.Unresolved {
			a.reverse[e.ObjectID] = append(a.reverse[e.ObjectID], e)
		}
	}
	return a
}

// Analyze looks up a definition by file path and name. The name may be
// plain ("SearchProvider") or dotted ("SearchProvider.search"); it matches
// on the node name or a dotted suffix of the node id.
func (a *DefinitionAnalyzer) Analyze(filePath, name string) (*Definition, error) {
	node := a.findNode(filePath, name)
	if node == nil {
		available := a.availableNames(filePath)
		return nil, fmt.Errorf("%w: node %q in file %q (available: %s)",
			ErrNotFound, name, filePath, strings.Join(available, ", "))
	}

	d := &Definition{Node: node}

	byObject := make(map[string][]graph.EdgeKind)
	for _, e := range a.forward[node.ID] {
		if e.Unresolved {
			d.Unresolved++
			continue
		}
		byObject[e.ObjectID] = append(byObject[e.ObjectID], e.Kind)
	}
	d.Dependencies = a.relations(byObject)

	bySubject := make(map[string][]graph.EdgeKind)
	for _, e := range a.reverse[node.ID] {
		bySubject[e.SubjectID] = append(bySubject[e.SubjectID], e.Kind)
	}
	d.Dependents = a.relations(bySubject)

	return d, nil
}

// relations materializes grouped edge kinds into a deterministic slice.
func (a *DefinitionAnalyzer) relations(grouped map[string][]graph.EdgeKind) []Relation {
	ids := make([]string, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []Relation
	for _, id := range ids {
		n, ok := a.g.Nodes[id]
		if !ok {
			continue
		}
		kinds := grouped[id]
		sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
		out = append(out, Relation{Node: n, EdgeKinds: kinds})
	}
	return out
}

// findNode matches by exact name first, then by dotted id suffix.
func (a *DefinitionAnalyzer) findNode(filePath, name string) *graph.Node {
	var suffixMatch *graph.Node
	for _, n := range a.g.NodesInFile(filePath) {
		if n.Name == name {
			return n
		}
		if suffixMatch == nil && strings.HasSuffix(n.ID, "."+name) {
			suffixMatch = n
		}
	}
	return suffixMatch
}

// availableNames lists up to ten node names in the file for error messages.
func (a *DefinitionAnalyzer) availableNames(filePath string) []string {
	var names []string
	for _, n := range a.g.NodesInFile(filePath) {
		names = append(names, n.Name)
		if len(names) == 10 {
			break
		}
	}
	return names
}

// Format renders the analysis as readable text.
func (d *Definition) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Definition: %s [%s]\n", d.Node.ID, d.Node.Kind)
	fmt.Fprintf(&b, "Location: %s L%d-%d\n", d.Node.FilePath, d.Node.StartLine, d.Node.EndLine)

	fmt.Fprintf(&b, "\nDependencies (%d):\n", len(d.Dependencies))
	writeRelations(&b, d.Dependencies)
	fmt.Fprintf(&b, "\nDependents (%d):\n", len(d.Dependents))
	writeRelations(&b, d.Dependents)
	if d.Unresolved > 0 {
		fmt.Fprintf(&b, "\nUnresolved references: %d\n", d.Unresolved)
	}
	return b.String()
}

func writeRelations(b *strings.Builder, rels []Relation) {
	if len(rels) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, r := range rels {
		kinds := make([]string, len(r.EdgeKinds))
		for i, k := range r.EdgeKinds {
			kinds[i] = string(k)
		}
		fmt.Fprintf(b, "  %s [%s] via %s\n", r.Node.ID, r.Node.Kind, strings.Join(kinds, ", "))
	}
}
