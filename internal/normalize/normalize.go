package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anhnh2002/Universal-Parser/internal/fqn"
	"github.com/anhnh2002/Universal-Parser/internal/graph"
	"github.com/anhnh2002/Universal-Parser/internal/llm"
	"github.com/anhnh2002/Universal-Parser/internal/parser"
)

// FileResult is one file's normalized contribution: nodes attributed to the
// file and edge candidates awaiting cross-file resolution.
type FileResult struct {
	RelPath  string
	Language string
	Nodes    []*graph.Node
	Edges    []graph.Edge
	Fallback bool // true when the rule-based mapping produced the result
}

// Normalizer turns raw extractions into graph nodes and edge candidates,
// preferring the model and falling back to the deterministic mapping.
type Normalizer struct {
	client  llm.Client // nil disables the model entirely
	project string
	log     *slog.Logger
}

// New builds a normalizer. A nil client routes every file through the
// rule-based fallback.
func New(client llm.Client, project string, log *slog.Logger) *Normalizer {
	if log == nil {
		log = slog.Default()
	}
	return &Normalizer{client: client, project: project, log: log}
}

// Normalize produces the file's nodes and edge candidates. It never fails:
// model outages, invalid responses, and empty candidate sets all route to
// the rule-based fallback, so every file yields a structural skeleton.
func (n *Normalizer) Normalize(ctx context.Context, ex *parser.Extraction, fileTree string) *FileResult {
	if n.client == nil {
		return n.fallback(ex)
	}

	prompt := BuildPrompt(fileTree, ex.Formatted)
	raw, err := n.client.Complete(ctx, prompt)
	if err != nil {
		n.log.Warn("normalize.fallback", "file", ex.RelPath, "reason", err)
		return n.fallback(ex)
	}

	res, err := n.parseResponse(raw, ex)
	if err != nil {
		n.log.Warn("normalize.fallback", "file", ex.RelPath, "reason", err)
		return n.fallback(ex)
	}
	if len(res.Nodes) == 0 {
		n.log.Warn("normalize.fallback", "file", ex.RelPath, "reason", "no valid candidates")
		return n.fallback(ex)
	}
	return res
}

type llmNode struct {
	ID                 string `json:"id"`
	ImplementationFile string `json:"implementation_file"`
	StartLine          int    `json:"start_line"`
	EndLine            int    `json:"end_line"`
	Type               string `json:"type"`
}

type llmEdge struct {
	SubjectID                 string `json:"subject_id"`
	SubjectImplementationFile string `json:"subject_implementation_file"`
	ObjectID                  string `json:"object_id"`
	ObjectImplementationFile  string `json:"object_implementation_file"`
	Type                      string `json:"type"`
}

type llmResponse struct {
	Nodes []llmNode `json:"nodes"`
	Edges []llmEdge `json:"edges"`
}

// parseResponse extracts the outermost JSON object from the model output and
// validates every candidate, silently discarding rejects.
func (n *Normalizer) parseResponse(raw string, ex *parser.Extraction) (*FileResult, error) {
	// Reasoning models may prefix their answer with a think block.
	if i := strings.LastIndex(raw, "</think>"); i >= 0 {
		raw = raw[i+len("</think>"):]
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var resp llmResponse
	if err := json.Unmarshal([]byte(raw[start:end+1]), &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	moduleQN := fqn.ModuleQN(n.project, ex.RelPath)
	res := &FileResult{
		RelPath:  ex.RelPath,
		Language: string(ex.Language),
		Nodes:    []*graph.Node{moduleNode(n.project, ex)},
	}
	seen := map[string]bool{res.Nodes[0].ID: true}

	for _, cand := range resp.Nodes {
		node, ok := n.validateNode(cand, ex, moduleQN)
		if !ok {
			n.log.Debug("normalize.discard", "file", ex.RelPath, "node", cand.ID, "type", cand.Type)
			continue
		}
		if seen[node.ID] {
			continue
		}
		seen[node.ID] = true
		res.Nodes = append(res.Nodes, node)
	}

	for _, cand := range resp.Edges {
		edge, ok := n.validateEdge(cand, ex)
		if !ok {
			n.log.Debug("normalize.discard", "file", ex.RelPath, "edge", cand.SubjectID+"->"+cand.ObjectID, "type", cand.Type)
			continue
		}
		res.Edges = append(res.Edges, edge)
	}
	return res, nil
}

// validateNode checks one node candidate: known kind, id under this file's
// module path, span clamped to the file.
func (n *Normalizer) validateNode(cand llmNode, ex *parser.Extraction, moduleQN string) (*graph.Node, bool) {
	if cand.ID == "" {
		return nil, false
	}
	kind, ok := graph.ParseNodeKind(cand.Type)
	if !ok {
		return nil, false
	}

	id := n.withProject(cand.ID)
	// Internal nodes only: the id must live under this file's module path.
	if id != moduleQN && !strings.HasPrefix(id, moduleQN+".") {
		return nil, false
	}
	if cand.ImplementationFile != "" && !samePath(cand.ImplementationFile, ex.RelPath) {
		return nil, false
	}

	start, end, ok := clampSpan(cand.StartLine, cand.EndLine, ex.LineCount)
	if !ok {
		return nil, false
	}

	return &graph.Node{
		ID:        id,
		Name:      fqn.SimpleName(id),
		Kind:      kind,
		Language:  string(ex.Language),
		FilePath:  ex.RelPath,
		StartLine: start,
		EndLine:   end,
	}, true
}

// validateEdge checks one edge candidate. Object ids may point at other
// files; edges start out unresolved and the resolver confirms them.
func (n *Normalizer) validateEdge(cand llmEdge, ex *parser.Extraction) (graph.Edge, bool) {
	if cand.SubjectID == "" || cand.ObjectID == "" {
		return graph.Edge{}, false
	}
	kind, ok := graph.ParseEdgeKind(cand.Type)
	if !ok {
		return graph.Edge{}, false
	}
	return graph.Edge{
		SubjectID:   n.withProject(cand.SubjectID),
		SubjectFile: ex.RelPath,
		ObjectID:    n.withProject(cand.ObjectID),
		ObjectFile:  cand.ObjectImplementationFile,
		Kind:        kind,
		Evidence:    cand.ObjectID,
		Unresolved:  true,
	}, true
}

// withProject prefixes the project name unless the id already carries it.
func (n *Normalizer) withProject(id string) string {
	if id == n.project || strings.HasPrefix(id, n.project+".") {
		return id
	}
	return n.project + "." + id
}

func samePath(a, b string) bool {
	clean := func(p string) string {
		p = strings.ReplaceAll(p, "\\", "/")
		return strings.TrimPrefix(p, "./")
	}
	return clean(a) == clean(b)
}

// clampSpan forces a candidate span into [1, lineCount]. A span entirely
// outside the file is rejected rather than clamped.
func clampSpan(start, end, lineCount int) (int, int, bool) {
	if lineCount <= 0 {
		return 0, 0, false
	}
	if start > lineCount || end < 1 || end < start {
		return 0, 0, false
	}
	if start < 1 {
		start = 1
	}
	if end > lineCount {
		end = lineCount
	}
	return start, end, true
}

// moduleNode is the file-level anchor every result carries: the subject for
// import edges and the parent for top-level definitions.
func moduleNode(project string, ex *parser.Extraction) *graph.Node {
	qn := fqn.ModuleQN(project, ex.RelPath)
	return &graph.Node{
		ID:        qn,
		Name:      fqn.SimpleName(qn),
		Kind:      graph.NodeModule,
		Language:  string(ex.Language),
		FilePath:  ex.RelPath,
		StartLine: 1,
		EndLine:   max(ex.LineCount, 1),
	}
}
