package normalize

import (
	"strings"

	"github.com/anhnh2002/Universal-Parser/internal/fqn"
	"github.com/anhnh2002/Universal-Parser/internal/graph"
	"github.com/anhnh2002/Universal-Parser/internal/parser"
)

// matchNodeKinds maps extractor match kinds onto the graph's node kinds.
var matchNodeKinds = map[parser.MatchKind]graph.NodeKind{
	parser.MatchFunction:  graph.NodeFunction,
	parser.MatchMethod:    graph.NodeMethod,
	parser.MatchClass:     graph.NodeClass,
	parser.MatchStruct:    graph.NodeStruct,
	parser.MatchInterface: graph.NodeInterface,
	parser.MatchEnum:      graph.NodeEnum,
	parser.MatchTypeAlias: graph.NodeTypeAlias,
	parser.MatchVariable:  graph.NodeVariable,
	parser.MatchField:     graph.NodeField,
}

// fallback maps raw matches onto the graph deterministically: definitions
// become nodes under their scope chain, imports become import nodes with an
// imports edge from the module, calls become unresolved edge candidates.
func (n *Normalizer) fallback(ex *parser.Extraction) *FileResult {
	moduleQN := fqn.ModuleQN(n.project, ex.RelPath)

	res := &FileResult{
		RelPath:  ex.RelPath,
		Language: string(ex.Language),
		Nodes:    []*graph.Node{moduleNode(n.project, ex)},
		Fallback: true,
	}
	seen := map[string]bool{moduleQN: true}

	addNode := func(node *graph.Node) bool {
		if seen[node.ID] {
			return false
		}
		seen[node.ID] = true
		res.Nodes = append(res.Nodes, node)
		return true
	}

	for _, m := range ex.Matches {
		switch m.Kind {
		case parser.MatchImport:
			if m.Name == "" {
				continue
			}
			id := moduleQN + ".imports." + importDots(m.Name)
			if addNode(&graph.Node{
				ID: id, Name: m.Name, Kind: graph.NodeImport,
				Language: string(ex.Language), FilePath: ex.RelPath,
				StartLine: m.StartLine, EndLine: m.EndLine,
			}) {
				res.Edges = append(res.Edges, graph.Edge{
					SubjectID: moduleQN, SubjectFile: ex.RelPath,
					ObjectID: id, ObjectFile: ex.RelPath,
					Kind: graph.EdgeImports, Evidence: m.Name,
				})
			}

		case parser.MatchCall:
			if m.Name == "" {
				continue
			}
			res.Edges = append(res.Edges, graph.Edge{
				SubjectID:   scopeQN(n.project, ex.RelPath, m.Scope),
				SubjectFile: ex.RelPath,
				ObjectID:    m.Name,
				Kind:        graph.EdgeCalls,
				Evidence:    m.Name,
				Unresolved:  true,
			})

		default:
			kind, ok := matchNodeKinds[m.Kind]
			if !ok || m.Name == "" {
				continue
			}
			// Module-level variables are noise, skip them.
			if m.Kind == parser.MatchVariable && m.Depth == 0 {
				continue
			}
			id := fqn.Compute(n.project, ex.RelPath, m.Scope, m.Name)
			if !addNode(&graph.Node{
				ID: id, Name: m.Name, Kind: kind,
				Language: string(ex.Language), FilePath: ex.RelPath,
				StartLine: m.StartLine, EndLine: m.EndLine,
			}) {
				continue
			}
			res.Edges = append(res.Edges, graph.Edge{
				SubjectID: scopeQN(n.project, ex.RelPath, m.Scope), SubjectFile: ex.RelPath,
				ObjectID: id, ObjectFile: ex.RelPath,
				Kind: graph.EdgeContains, Evidence: m.Name,
			})
		}
	}
	return res
}

// scopeQN returns the qualified name of the enclosing definition, or the
// module itself for top-level matches.
func scopeQN(project, relPath, scope string) string {
	if scope == "" {
		return fqn.ModuleQN(project, relPath)
	}
	return fqn.Compute(project, relPath, scope, "")
}

// importDots normalizes an import target into dot segments for use in an id.
func importDots(target string) string {
	target = strings.ReplaceAll(target, "/", ".")
	target = strings.ReplaceAll(target, "::", ".")
	target = strings.Trim(target, ".")
	return target
}
