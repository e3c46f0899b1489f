package resolve

import (
	"log/slog"
	"strings"

	"github.com/anhnh2002/Universal-Parser/internal/fqn"
	"github.com/anhnh2002/Universal-Parser/internal/graph"
)

// Resolver binds edge candidates to concrete nodes. Resolution order:
// same-file qualified match, import-map match, repo-wide same-language
// same-name match, cross-language match only when unique. Unmatched edges
// stay in the graph flagged Unresolved.
type Resolver struct {
	table *Table
	log   *slog.Logger
}

// New builds a resolver over a finished symbol table.
func New(table *Table, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{table: table, log: log}
}

// ResolveAll resolves every edge in place and returns counts of resolved and
// unresolved edges.
func (r *Resolver) ResolveAll(edges []graph.Edge) (resolved, unresolved int) {
	for i := range edges {
		edges[i] = r.Resolve(edges[i])
		if edges[i].Unresolved {
			unresolved++
		} else {
			resolved++
		}
	}
	return resolved, unresolved
}

// Resolve binds one edge candidate. Already-resolved edges are verified
// against the table; a missing object demotes them back to unresolved.
func (r *Resolver) Resolve(e graph.Edge) graph.Edge {
	if target, ok := r.table.Lookup(e.ObjectID); ok {
		e.ObjectFile = target.FilePath
		e.Unresolved = false
		return e
	}
	if !e.Unresolved {
		// A resolved edge whose object vanished, re-queued by file removal.
		e.Unresolved = true
	}

	callee := e.Evidence
	if callee == "" {
		callee = strings.TrimPrefix(e.ObjectID, r.table.project+".")
	}
	target := r.lookupCallee(callee, e.SubjectID, e.SubjectFile)
	if target == nil {
		// Keep the raw reference as the object so an unresolved edge looks
		// the same whether it came from a fresh parse or a demotion.
		e.ObjectID = callee
		e.ObjectFile = ""
		return e
	}
	e.ObjectID = target.ID
	e.ObjectFile = target.FilePath
	e.Unresolved = false
	return e
}

// lookupCallee applies the four resolution rules in order.
func (r *Resolver) lookupCallee(callee, subjectID, subjectFile string) *graph.Node {
	prefix, suffix, _ := strings.Cut(callee, ".")
	moduleQN := fqn.ModuleQN(r.table.project, subjectFile)

	// Rule 1: qualified match within the referencing file.
	if n, ok := r.table.Lookup(moduleQN + "." + callee); ok {
		return n
	}
	if suffix != "" {
		if n, ok := r.table.Lookup(moduleQN + "." + suffix); ok {
			return n
		}
	}

	// Rule 2: the callee's first segment was imported by this file.
	if target, ok := r.table.importTarget(subjectFile, prefix); ok {
		qualified := r.table.project + "." + target
		if suffix != "" {
			qualified += "." + suffix
		}
		if n, ok := r.table.Lookup(qualified); ok {
			return n
		}
		if suffix != "" {
			if n := r.suffixScan(r.table.project+"."+target, suffix); n != nil {
				return n
			}
		}
	}

	simple := fqn.SimpleName(callee)

	// Rule 3: repo-wide match restricted to the subject's language.
	subjLang := ""
	if subj, ok := r.table.Lookup(subjectID); ok {
		subjLang = subj.Language
	}
	if subjLang != "" {
		var sameLang []*graph.Node
		for _, n := range r.table.byName[simple] {
			if n.Language == subjLang && definitionKind(n.Kind) {
				sameLang = append(sameLang, n)
			}
		}
		if qualified := filterDottedSuffix(sameLang, callee); len(qualified) > 0 {
			sameLang = qualified
		}
		if n := pick(sameLang, subjectFile); n != nil {
			return n
		}
	}

	// Rule 4: cross-language only on a unique candidate.
	var any []*graph.Node
	for _, n := range r.table.byName[simple] {
		if definitionKind(n.Kind) {
			any = append(any, n)
		}
	}
	if len(any) == 1 {
		return any[0]
	}
	return nil
}

// suffixScan finds a node under root whose id ends with the dotted suffix,
// covering one-level-deep qualified imports.
func (r *Resolver) suffixScan(root, suffix string) *graph.Node {
	var matches []*graph.Node
	for id, n := range r.table.nodes {
		if strings.HasPrefix(id, root+".") && strings.HasSuffix(id, "."+suffix) {
			matches = append(matches, n)
		}
	}
	return pick(matches, "")
}

// filterDottedSuffix keeps candidates whose full id ends with the dotted
// callee, so "Greeter.greet" prefers the method over any bare "greet".
func filterDottedSuffix(cands []*graph.Node, callee string) []*graph.Node {
	if !strings.Contains(callee, ".") {
		return nil
	}
	var out []*graph.Node
	for _, n := range cands {
		if strings.HasSuffix(n.ID, "."+callee) {
			out = append(out, n)
		}
	}
	return out
}

// definitionKind reports whether a node can be the object of a name-resolved
// edge. Imports and files are anchors, not definitions.
func definitionKind(k graph.NodeKind) bool {
	switch k {
	case graph.NodeImport, graph.NodeFile, graph.NodeUnknown:
		return false
	}
	return true
}
