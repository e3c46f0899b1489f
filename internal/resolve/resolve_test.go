package resolve

import (
	"testing"

	"github.com/anhnh2002/Universal-Parser/internal/graph"
)

func defNode(id, name, file, language string, kind graph.NodeKind, start int) *graph.Node {
	return &graph.Node{
		ID: id, Name: name, Kind: kind, Language: language,
		FilePath: file, StartLine: start, EndLine: start + 3,
	}
}

func buildTable(nodes ...*graph.Node) *Table {
	t := NewTable("proj")
	for _, n := range nodes {
		t.Add(n)
	}
	return t
}

func TestResolveExactID(t *testing.T) {
	table := buildTable(
		defNode("proj.a.foo", "foo", "a.py", "python", graph.NodeFunction, 1),
	)
	r := New(table, nil)

	e := r.Resolve(graph.Edge{
		SubjectID: "proj.b.caller", SubjectFile: "b.py",
		ObjectID: "proj.a.foo", Kind: graph.EdgeCalls, Unresolved: true,
	})
	if e.Unresolved {
		t.Fatal("exact id should resolve")
	}
	if e.ObjectFile != "a.py" {
		t.Errorf("object file = %q, want a.py", e.ObjectFile)
	}
}

func TestResolveSameFileFirst(t *testing.T) {
	table := buildTable(
		defNode("proj.a.helper", "helper", "a.py", "python", graph.NodeFunction, 10),
		defNode("proj.b.helper", "helper", "b.py", "python", graph.NodeFunction, 1),
		defNode("proj.a.caller", "caller", "a.py", "python", graph.NodeFunction, 1),
	)
	r := New(table, nil)

	e := r.Resolve(graph.Edge{
		SubjectID: "proj.a.caller", SubjectFile: "a.py",
		ObjectID: "helper", Evidence: "helper",
		Kind: graph.EdgeCalls, Unresolved: true,
	})
	if e.Unresolved {
		t.Fatal("same-file helper should resolve")
	}
	if e.ObjectID != "proj.a.helper" {
		t.Errorf("resolved to %s, want proj.a.helper", e.ObjectID)
	}
}

func TestResolveViaImportMap(t *testing.T) {
	table := buildTable(
		defNode("proj.utils.helper.format_name", "format_name", "utils/helper.py", "python", graph.NodeFunction, 1),
		defNode("proj.main.run", "run", "main.py", "python", graph.NodeFunction, 1),
		&graph.Node{
			ID: "proj.main.imports.utils.helper", Name: "utils/helper",
			Kind: graph.NodeImport, Language: "python", FilePath: "main.py",
			StartLine: 1, EndLine: 1,
		},
	)
	r := New(table, nil)

	e := r.Resolve(graph.Edge{
		SubjectID: "proj.main.run", SubjectFile: "main.py",
		ObjectID: "helper.format_name", Evidence: "helper.format_name",
		Kind: graph.EdgeCalls, Unresolved: true,
	})
	if e.Unresolved {
		t.Fatal("imported helper.format_name should resolve")
	}
	if e.ObjectID != "proj.utils.helper.format_name" {
		t.Errorf("resolved to %s", e.ObjectID)
	}
}

func TestResolveSameLanguageTieBreak(t *testing.T) {
	table := buildTable(
		defNode("proj.pkg.z.parse", "parse", "pkg/z.py", "python", graph.NodeFunction, 1),
		defNode("proj.pkg.a.parse", "parse", "pkg/a.py", "python", graph.NodeFunction, 5),
		defNode("proj.web.parse", "parse", "web/parse.ts", "typescript", graph.NodeFunction, 1),
		defNode("proj.pkg.caller.run", "run", "pkg/caller.py", "python", graph.NodeFunction, 1),
	)
	r := New(table, nil)

	e := r.Resolve(graph.Edge{
		SubjectID: "proj.pkg.caller.run", SubjectFile: "pkg/caller.py",
		ObjectID: "parse", Evidence: "parse",
		Kind: graph.EdgeCalls, Unresolved: true,
	})
	if e.Unresolved {
		t.Fatal("same-language parse should resolve")
	}
	// Both python candidates share pkg/ with the caller; the lexicographically
	// smaller path wins.
	if e.ObjectID != "proj.pkg.a.parse" {
		t.Errorf("resolved to %s, want proj.pkg.a.parse", e.ObjectID)
	}
}

func TestResolveCrossLanguageOnlyWhenUnique(t *testing.T) {
	table := buildTable(
		defNode("proj.web.render", "render", "web/app.ts", "typescript", graph.NodeFunction, 1),
		defNode("proj.api.handler", "handler", "api/handler.py", "python", graph.NodeFunction, 1),
	)
	r := New(table, nil)

	e := r.Resolve(graph.Edge{
		SubjectID: "proj.api.handler", SubjectFile: "api/handler.py",
		ObjectID: "render", Evidence: "render",
		Kind: graph.EdgeCalls, Unresolved: true,
	})
	if e.Unresolved {
		t.Fatal("unique cross-language candidate should resolve")
	}
	if e.ObjectID != "proj.web.render" {
		t.Errorf("resolved to %s", e.ObjectID)
	}

	// A second cross-language candidate makes it ambiguous.
	table.Add(defNode("proj.cli.render", "render", "cli/render.rb", "ruby", graph.NodeFunction, 1))
	e2 := r.Resolve(graph.Edge{
		SubjectID: "proj.api.handler", SubjectFile: "api/handler.py",
		ObjectID: "render", Evidence: "render",
		Kind: graph.EdgeCalls, Unresolved: true,
	})
	if !e2.Unresolved {
		t.Fatal("ambiguous cross-language reference must stay unresolved")
	}
}

func TestResolveDemotesStaleResolvedEdge(t *testing.T) {
	table := buildTable(
		defNode("proj.a.keep", "keep", "a.py", "python", graph.NodeFunction, 1),
	)
	r := New(table, nil)

	e := r.Resolve(graph.Edge{
		SubjectID: "proj.a.keep", SubjectFile: "a.py",
		ObjectID: "proj.gone.removed", ObjectFile: "gone.py",
		Kind: graph.EdgeCalls, Unresolved: false,
	})
	if !e.Unresolved {
		t.Fatal("edge to removed node must be demoted to unresolved")
	}
	// The object falls back to the raw reference so the edge is identical to
	// one a fresh parse would leave unresolved.
	if e.ObjectID != "gone.removed" {
		t.Errorf("object id = %q, want raw reference gone.removed", e.ObjectID)
	}
	if e.ObjectFile != "" {
		t.Errorf("object file = %q, want empty", e.ObjectFile)
	}
}

func TestResolveDeterminism(t *testing.T) {
	mk := func() *Table {
		return buildTable(
			defNode("proj.x.m.f", "f", "x/m.py", "python", graph.NodeFunction, 4),
			defNode("proj.x.n.f", "f", "x/n.py", "python", graph.NodeFunction, 2),
			defNode("proj.y.o.f", "f", "y/o.py", "python", graph.NodeFunction, 1),
			defNode("proj.z.caller", "caller", "z/c.py", "python", graph.NodeFunction, 1),
		)
	}
	edge := graph.Edge{
		SubjectID: "proj.z.caller", SubjectFile: "z/c.py",
		ObjectID: "f", Evidence: "f", Kind: graph.EdgeCalls, Unresolved: true,
	}

	first := New(mk(), nil).Resolve(edge)
	for i := 0; i < 10; i++ {
		got := New(mk(), nil).Resolve(edge)
		if got.ObjectID != first.ObjectID {
			t.Fatalf("nondeterministic resolution: %s vs %s", got.ObjectID, first.ObjectID)
		}
	}
	if first.ObjectID != "proj.x.m.f" {
		t.Errorf("tie-break picked %s, want proj.x.m.f (smallest path)", first.ObjectID)
	}
}
