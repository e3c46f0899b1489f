package resolve

import (
	"path"
	"sort"
	"strings"

	"github.com/anhnh2002/Universal-Parser/internal/fqn"
	"github.com/anhnh2002/Universal-Parser/internal/graph"
)

// Table indexes every node by exact id and simple name, plus per-file import
// maps. Built single-threaded once all files have been normalized.
type Table struct {
	project string
	nodes   map[string]*graph.Node
	byName  map[string][]*graph.Node
	// imports maps file path -> local alias -> dotted import target.
	imports map[string]map[string]string
}

// NewTable creates an empty table for a project.
func NewTable(project string) *Table {
	return &Table{
		project: project,
		nodes:   make(map[string]*graph.Node),
		byName:  make(map[string][]*graph.Node),
		imports: make(map[string]map[string]string),
	}
}

// TableFromGraph indexes every node of g. Import nodes additionally feed the
// per-file import maps.
func TableFromGraph(project string, g *graph.Graph) *Table {
	t := NewTable(project)
	for _, n := range g.Nodes {
		t.Add(n)
	}
	return t
}

// Add indexes one node.
func (t *Table) Add(n *graph.Node) {
	t.nodes[n.ID] = n
	if n.Name != "" {
		t.byName[n.Name] = append(t.byName[n.Name], n)
	}
	if n.Kind == graph.NodeImport {
		t.addImport(n.FilePath, n.Name)
	}
}

// addImport records an import target under its local alias, the last dot or
// slash segment.
func (t *Table) addImport(file, target string) {
	dotted := strings.Trim(strings.NewReplacer("/", ".", "::", ".").Replace(target), ".")
	if dotted == "" {
		return
	}
	alias := fqn.SimpleName(dotted)
	if t.imports[file] == nil {
		t.imports[file] = make(map[string]string)
	}
	t.imports[file][alias] = dotted
}

// Lookup returns the node with the exact id.
func (t *Table) Lookup(id string) (*graph.Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// importTarget returns the dotted target a file imported under alias.
func (t *Table) importTarget(file, alias string) (string, bool) {
	m, ok := t.imports[file]
	if !ok {
		return "", false
	}
	target, ok := m[alias]
	return target, ok
}

// pick breaks ties deterministically: same directory as the referencing file
// first, then lexicographically smallest file path, then smallest start line.
func pick(cands []*graph.Node, subjectFile string) *graph.Node {
	if len(cands) == 0 {
		return nil
	}
	dir := path.Dir(subjectFile)
	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		aSame, bSame := path.Dir(a.FilePath) == dir, path.Dir(b.FilePath) == dir
		if aSame != bSame {
			return aSame
		}
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		return a.ID < b.ID
	})
	return cands[0]
}
