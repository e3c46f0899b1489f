package store

import (
	"path/filepath"
	"testing"

	"github.com/anhnh2002/Universal-Parser/internal/graph"
)

func sampleGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New("proj", "/tmp/proj")
	nodes := []*graph.Node{
		{ID: "proj.a.foo", Name: "foo", Kind: graph.NodeFunction, Language: "python", FilePath: "a.py", StartLine: 1, EndLine: 3},
		{ID: "proj.b.Bar", Name: "Bar", Kind: graph.NodeClass, Language: "python", FilePath: "b.py", StartLine: 1, EndLine: 8},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	g.AddEdge(graph.Edge{
		SubjectID: "proj.b.Bar", SubjectFile: "b.py",
		ObjectID: "proj.a.foo", ObjectFile: "a.py",
		Kind: graph.EdgeCalls, Evidence: "foo",
	})
	g.AddEdge(graph.Edge{
		SubjectID: "proj.a.foo", SubjectFile: "a.py",
		ObjectID: "ghost", Kind: graph.EdgeCalls, Evidence: "ghost", Unresolved: true,
	})
	g.Repository.FilesProcessed = 2
	g.RecomputeStats()
	return g
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "graph.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	g := sampleGraph(t)
	if err := s.SaveGraph(g); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := s.LoadGraph()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Nodes) != 2 || len(loaded.Edges) != 2 {
		t.Fatalf("round trip lost data: %d nodes, %d edges", len(loaded.Nodes), len(loaded.Edges))
	}
	if loaded.Nodes["proj.b.Bar"].Kind != graph.NodeClass {
		t.Errorf("node kind lost: %+v", loaded.Nodes["proj.b.Bar"])
	}
	var unresolved int
	for _, e := range loaded.Edges {
		if e.Unresolved {
			unresolved++
		}
	}
	if unresolved != 1 {
		t.Errorf("unresolved flag lost: %d", unresolved)
	}
	if loaded.Repository.FilesProcessed != 2 {
		t.Errorf("repository block lost: %+v", loaded.Repository)
	}
}

func TestSaveGraphReplacesSnapshot(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "graph.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.SaveGraph(sampleGraph(t)); err != nil {
		t.Fatal(err)
	}

	smaller := graph.New("proj", "/tmp/proj")
	if err := smaller.AddNode(&graph.Node{
		ID: "proj.only", Name: "only", Kind: graph.NodeFunction,
		Language: "go", FilePath: "only.go", StartLine: 1, EndLine: 2,
	}); err != nil {
		t.Fatal(err)
	}
	smaller.RecomputeStats()
	if err := s.SaveGraph(smaller); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadGraph()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Nodes) != 1 || len(loaded.Edges) != 0 {
		t.Fatalf("snapshot not replaced: %d nodes, %d edges", len(loaded.Nodes), len(loaded.Edges))
	}
}
