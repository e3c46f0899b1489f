package analyze

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anhnh2002/Universal-Parser/internal/graph"
)

func buildGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New("proj", "")
	nodes := []*graph.Node{
		{ID: "proj.utils.helper", Name: "helper", Kind: graph.NodeModule, Language: "python", FilePath: "utils/helper.py", StartLine: 1, EndLine: 20},
		{ID: "proj.utils.helper.HelperClass", Name: "HelperClass", Kind: graph.NodeClass, Language: "python", FilePath: "utils/helper.py", StartLine: 3, EndLine: 15},
		{ID: "proj.utils.helper.HelperClass.run", Name: "run", Kind: graph.NodeMethod, Language: "python", FilePath: "utils/helper.py", StartLine: 5, EndLine: 10},
		{ID: "proj.main.start", Name: "start", Kind: graph.NodeFunction, Language: "python", FilePath: "main.py", StartLine: 1, EndLine: 6},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	g.AddEdge(graph.Edge{SubjectID: "proj.utils.helper", SubjectFile: "utils/helper.py", ObjectID: "proj.utils.helper.HelperClass", ObjectFile: "utils/helper.py", Kind: graph.EdgeContains})
	g.AddEdge(graph.Edge{SubjectID: "proj.utils.helper.HelperClass", SubjectFile: "utils/helper.py", ObjectID: "proj.utils.helper.HelperClass.run", ObjectFile: "utils/helper.py", Kind: graph.EdgeContains})
	g.AddEdge(graph.Edge{SubjectID: "proj.main.start", SubjectFile: "main.py", ObjectID: "proj.utils.helper.HelperClass", ObjectFile: "utils/helper.py", Kind: graph.EdgeCalls})
	g.AddEdge(graph.Edge{SubjectID: "proj.main.start", SubjectFile: "main.py", ObjectID: "proj.utils.helper.HelperClass", ObjectFile: "utils/helper.py", Kind: graph.EdgeUsesType})
	g.AddEdge(graph.Edge{SubjectID: "proj.utils.helper.HelperClass.run", SubjectFile: "utils/helper.py", ObjectID: "missing_thing", Kind: graph.EdgeCalls, Unresolved: true})
	return g
}

func TestAnalyzeDefinition(t *testing.T) {
	a := NewDefinitionAnalyzer(buildGraph(t))

	d, err := a.Analyze("utils/helper.py", "HelperClass")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if len(d.Dependencies) != 1 || d.Dependencies[0].Node.ID != "proj.utils.helper.HelperClass.run" {
		t.Errorf("dependencies: %+v", d.Dependencies)
	}
	if len(d.Dependents) != 2 {
		t.Fatalf("expected 2 dependents, got %+v", d.Dependents)
	}
	// Grouped: main.start connects via two edge kinds.
	var fromStart *Relation
	for i := range d.Dependents {
		if d.Dependents[i].Node.ID == "proj.main.start" {
			fromStart = &d.Dependents[i]
		}
	}
	if fromStart == nil || len(fromStart.EdgeKinds) != 2 {
		t.Errorf("main.start relation: %+v", fromStart)
	}

	out := d.Format()
	if !strings.Contains(out, "Dependents (2)") || !strings.Contains(out, "proj.main.start") {
		t.Errorf("format output:\n%s", out)
	}
}

func TestAnalyzeDottedName(t *testing.T) {
	a := NewDefinitionAnalyzer(buildGraph(t))
	d, err := a.Analyze("utils/helper.py", "HelperClass.run")
	if err != nil {
		t.Fatalf("dotted lookup: %v", err)
	}
	if d.Node.ID != "proj.utils.helper.HelperClass.run" {
		t.Errorf("resolved %s", d.Node.ID)
	}
	if d.Unresolved != 1 {
		t.Errorf("unresolved count = %d, want 1", d.Unresolved)
	}
}

func TestAnalyzeNotFound(t *testing.T) {
	a := NewDefinitionAnalyzer(buildGraph(t))
	_, err := a.Analyze("utils/helper.py", "Nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	_, err = a.Analyze("ghost.py", "HelperClass")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown file, got %v", err)
	}
}

func TestAnalyzeCyclicInheritanceTerminates(t *testing.T) {
	g := graph.New("proj", "")
	for _, id := range []string{"proj.a.A", "proj.b.B"} {
		if err := g.AddNode(&graph.Node{
			ID: id, Name: id[strings.LastIndex(id, ".")+1:], Kind: graph.NodeClass,
			Language: "python", FilePath: strings.ToLower(id[5:6]) + ".py",
			StartLine: 1, EndLine: 5,
		}); err != nil {
			t.Fatal(err)
		}
	}
	g.AddEdge(graph.Edge{SubjectID: "proj.a.A", SubjectFile: "a.py", ObjectID: "proj.b.B", ObjectFile: "b.py", Kind: graph.EdgeInherits})
	g.AddEdge(graph.Edge{SubjectID: "proj.b.B", SubjectFile: "b.py", ObjectID: "proj.a.A", ObjectFile: "a.py", Kind: graph.EdgeInherits})

	a := NewDefinitionAnalyzer(g)
	d, err := a.Analyze("a.py", "A")
	if err != nil {
		t.Fatalf("cycle must not break analysis: %v", err)
	}
	if len(d.Dependencies) != 1 || len(d.Dependents) != 1 {
		t.Errorf("cycle relations: deps=%+v dependents=%+v", d.Dependencies, d.Dependents)
	}
}

func TestKHopBothDirections(t *testing.T) {
	a := NewKHopAnalyzer(buildGraph(t))
	r, err := a.Analyze("utils/helper.py", "HelperClass", 1, Both)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	// One hop reaches the containing module, the contained method, and the
	// caller; the unresolved reference from run is not a node.
	if r.TotalNodes() != 4 {
		t.Errorf("total nodes = %d, want 4", r.TotalNodes())
	}
	if len(r.NodesByHop) != 2 || len(r.NodesByHop[1]) != 3 {
		t.Fatalf("nodes by hop: %+v", r.NodesByHop)
	}
	if len(r.Edges) != 4 {
		t.Errorf("subgraph edges = %d, want 4", len(r.Edges))
	}

	out := r.Format()
	if !strings.Contains(out, "Hop 1 (3):") || !strings.Contains(out, "calls (1):") {
		t.Errorf("format output:\n%s", out)
	}
}

func TestKHopOutgoingOnly(t *testing.T) {
	a := NewKHopAnalyzer(buildGraph(t))
	r, err := a.Analyze("main.py", "start", 2, Outgoing)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.TotalNodes() != 3 {
		t.Errorf("total nodes = %d, want 3 (start, HelperClass, run)", r.TotalNodes())
	}
	if len(r.NodesByHop) != 3 || r.NodesByHop[2][0].ID != "proj.utils.helper.HelperClass.run" {
		t.Errorf("nodes by hop: %+v", r.NodesByHop)
	}
}

func TestKHopCycleTerminates(t *testing.T) {
	g := graph.New("proj", "")
	for _, id := range []string{"proj.a.A", "proj.b.B"} {
		if err := g.AddNode(&graph.Node{
			ID: id, Name: id[strings.LastIndex(id, ".")+1:], Kind: graph.NodeClass,
			Language: "python", FilePath: strings.ToLower(id[5:6]) + ".py",
			StartLine: 1, EndLine: 5,
		}); err != nil {
			t.Fatal(err)
		}
	}
	g.AddEdge(graph.Edge{SubjectID: "proj.a.A", SubjectFile: "a.py", ObjectID: "proj.b.B", ObjectFile: "b.py", Kind: graph.EdgeInherits})
	g.AddEdge(graph.Edge{SubjectID: "proj.b.B", SubjectFile: "b.py", ObjectID: "proj.a.A", ObjectFile: "a.py", Kind: graph.EdgeInherits})

	r, err := NewKHopAnalyzer(g).Analyze("a.py", "A", 5, Both)
	if err != nil {
		t.Fatalf("cycle must not break traversal: %v", err)
	}
	if r.TotalNodes() != 2 || len(r.NodesByHop) != 2 {
		t.Errorf("cycle subgraph: %+v", r.NodesByHop)
	}
}

func TestKHopValidation(t *testing.T) {
	a := NewKHopAnalyzer(buildGraph(t))
	if _, err := a.Analyze("utils/helper.py", "HelperClass", -1, Both); err == nil {
		t.Error("negative hops must be rejected")
	}
	if _, err := a.Analyze("utils/helper.py", "HelperClass", 1, Direction("sideways")); err == nil {
		t.Error("unknown direction must be rejected")
	}
	if _, err := a.Analyze("utils/helper.py", "Nope", 1, Both); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileSummary(t *testing.T) {
	repo := t.TempDir()
	content := "import os\n\nclass HelperClass:\n    x = 1\n    def run(self):\n        a = 1\n        b = 2\n        c = 3\n        return a + b + c\n    y = 2\n"
	if err := os.MkdirAll(filepath.Join(repo, "utils"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(repo, "utils", "helper.py"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	g := buildGraph(t)
	g.Repository.Path = repo

	a := NewFileSummaryAnalyzer(g, 2)
	out, err := a.Summarize("utils/helper.py")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	if !strings.Contains(out, "File Summary: utils/helper.py") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "L5-10 [method] (proj.utils.helper.HelperClass.run)") {
		t.Errorf("missing node header:\n%s", out)
	}
	// run spans 6 lines, 2 shown, 4 elided; it has 2 edges (contains in,
	// unresolved call out counts only the subject side).
	if !strings.Contains(out, "... eliding 4 more lines (edges: 2) ...") {
		t.Errorf("missing elision marker:\n%s", out)
	}
	if !g.Nodes["proj.utils.helper.HelperClass.run"].Elided {
		t.Error("elided node not flagged")
	}
	// Nodes appear in start-line order.
	if strings.Index(out, "(proj.utils.helper)") > strings.Index(out, "(proj.utils.helper.HelperClass)") {
		t.Errorf("nodes out of order:\n%s", out)
	}
}

func TestFileSummarySuffixMatch(t *testing.T) {
	a := NewFileSummaryAnalyzer(buildGraph(t), 3)
	out, err := a.Summarize("helper.py")
	if err != nil {
		t.Fatalf("suffix lookup: %v", err)
	}
	if !strings.Contains(out, "utils/helper.py") {
		t.Errorf("wrong file:\n%s", out)
	}
}

func TestFileSummaryNotFound(t *testing.T) {
	a := NewFileSummaryAnalyzer(buildGraph(t), 3)
	if _, err := a.Summarize("nope.py"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
