package parser

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/anhnh2002/Universal-Parser/internal/lang"
)

// MatchKind labels which catalog query produced a raw match.
type MatchKind string

const (
	MatchFunction  MatchKind = "function"
	MatchMethod    MatchKind = "method"
	MatchClass     MatchKind = "class"
	MatchStruct    MatchKind = "struct"
	MatchInterface MatchKind = "interface"
	MatchEnum      MatchKind = "enum"
	MatchTypeAlias MatchKind = "type_alias"
	MatchVariable  MatchKind = "variable"
	MatchField     MatchKind = "field"
	MatchImport    MatchKind = "import"
	MatchCall      MatchKind = "call"
)

// RawMatch is one unresolved, language-specific query hit: a span, the text
// it captured, and the query kind that produced it.
type RawMatch struct {
	Kind      MatchKind
	NodeType  string // tree-sitter node kind
	Name      string // declared name or call/import target text
	StartLine int    // 1-based, inclusive
	EndLine   int    // 1-based, inclusive
	Depth     int    // nesting depth of enclosing definitions
	Scope     string // dot-joined names of enclosing definitions
	Text      string // captured source text, truncated
}

// Extraction is the raw per-file extractor output handed to the normalizer.
type Extraction struct {
	Language  lang.Language
	RelPath   string
	Source    []byte
	LineCount int
	Matches   []RawMatch
	Formatted string // top-level AST window for the normalizer prompt
}

// maxMatchText bounds the evidence text captured per match.
const maxMatchText = 400

// Extract parses one file's source and applies the language's query catalog,
// producing raw candidate nodes and edges. Returns ErrUnsupportedLanguage
// when no grammar covers the file and ErrParse on malformed source.
func Extract(relPath string, language lang.Language, source []byte) (*Extraction, error) {
	spec := lang.ForLanguage(language)
	if spec == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}

	source = StripBOM(source)
	tree, err := Parse(language, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() && root.NamedChildCount() == 0 {
		return nil, fmt.Errorf("%w: %s has no parseable structure", ErrParse, relPath)
	}

	ex := &Extraction{
		Language:  language,
		RelPath:   relPath,
		Source:    source,
		LineCount: countLines(source),
	}

	kinds := definitionKinds(spec)
	var walk func(node *tree_sitter.Node, depth int, scope []string)
	walk = func(node *tree_sitter.Node, depth int, scope []string) {
		nodeType := node.Kind()
		childScope := scope

		if mk, ok := kinds[nodeType]; ok {
			m := newMatch(mk, node, source, spec)
			m.Depth = depth
			m.Scope = strings.Join(scope, ".")
			if mk == MatchStruct {
				m.Kind = refineStructKind(node)
			}
			ex.Matches = append(ex.Matches, m)
			if m.Name != "" && isScopeKind(mk) {
				childScope = append(append([]string{}, scope...), m.Name)
				depth++
			}
		} else if contains(spec.ImportNodeTypes, nodeType) {
			m := newMatch(MatchImport, node, source, spec)
			m.Depth = depth
			m.Scope = strings.Join(scope, ".")
			if m.Name == "" {
				m.Name = importTarget(m.Text)
			}
			ex.Matches = append(ex.Matches, m)
		} else if contains(spec.CallNodeTypes, nodeType) {
			m := newMatch(MatchCall, node, source, spec)
			m.Depth = depth
			m.Scope = strings.Join(scope, ".")
			if m.Name != "" {
				ex.Matches = append(ex.Matches, m)
			}
		}

		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child != nil {
				walk(child, depth, childScope)
			}
		}
	}
	walk(root, 0, nil)
	ex.Formatted = formatTopLevel(relPath, root, source)

	return ex, nil
}

// formatTopLevel renders the file's top-level constructs with line markers,
// the window the normalizer feeds to the model.
func formatTopLevel(relPath string, root *tree_sitter.Node, source []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", relPath)
	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if child == nil {
			continue
		}
		fmt.Fprintf(&b, "\nNode type: %s\n---Start Line: %d---\n%s\n---End Line: %d---\n",
			child.Kind(),
			child.StartPosition().Row+1,
			NodeText(child, source),
			child.EndPosition().Row+1)
	}
	return b.String()
}

// definitionKinds flattens a LanguageSpec's definition node-type lists into
// a single lookup table.
func definitionKinds(spec *lang.LanguageSpec) map[string]MatchKind {
	m := make(map[string]MatchKind)
	add := func(types []string, k MatchKind) {
		for _, t := range types {
			m[t] = k
		}
	}
	add(spec.FunctionNodeTypes, MatchFunction)
	add(spec.MethodNodeTypes, MatchMethod)
	add(spec.ClassNodeTypes, MatchClass)
	add(spec.StructNodeTypes, MatchStruct)
	add(spec.InterfaceNodeTypes, MatchInterface)
	add(spec.EnumNodeTypes, MatchEnum)
	add(spec.TypeAliasNodeTypes, MatchTypeAlias)
	add(spec.VariableNodeTypes, MatchVariable)
	add(spec.FieldNodeTypes, MatchField)
	return m
}

func newMatch(kind MatchKind, node *tree_sitter.Node, source []byte, spec *lang.LanguageSpec) RawMatch {
	text := NodeText(node, source)
	if len(text) > maxMatchText {
		text = text[:maxMatchText]
	}
	// Calls keep the full callee expression; the identifier fallback in
	// declaredName would truncate "a.helper" to "a".
	name := ""
	if kind == MatchCall {
		name = strings.TrimSpace(callTarget(node, source))
	}
	if name == "" {
		name = declaredName(node, source, spec)
	}
	return RawMatch{
		Kind:      kind,
		NodeType:  node.Kind(),
		Name:      name,
		StartLine: int(node.StartPosition().Row) + 1,
		EndLine:   int(node.EndPosition().Row) + 1,
		Text:      text,
	}
}

// declaredName extracts the name of a definition using the catalog's name
// fields, falling back to the first identifier-like descendant.
func declaredName(node *tree_sitter.Node, source []byte, spec *lang.LanguageSpec) string {
	for _, field := range spec.NameFields {
		if child := node.ChildByFieldName(field); child != nil {
			name := NodeText(child, source)
			// Declarator fields in C/C++ carry the whole signature; keep
			// only the identifier prefix.
			if i := strings.IndexAny(name, "(["); i > 0 {
				name = name[:i]
			}
			name = strings.TrimSpace(name)
			if name != "" {
				return name
			}
		}
	}
	var found string
	Walk(node, func(n *tree_sitter.Node) bool {
		if found != "" {
			return false
		}
		if strings.Contains(n.Kind(), "identifier") {
			found = NodeText(n, source)
			return false
		}
		return true
	})
	return found
}

// refineStructKind disambiguates catch-all struct node types (Go's type_spec
// wraps structs, interfaces, and aliases alike) by peeking at the declared
// type's node kind.
func refineStructKind(node *tree_sitter.Node) MatchKind {
	if typ := node.ChildByFieldName("type"); typ != nil {
		switch typ.Kind() {
		case "interface_type":
			return MatchInterface
		case "struct_type":
			return MatchStruct
		default:
			return MatchTypeAlias
		}
	}
	return MatchStruct
}

// callTarget extracts the callee text of a call node from its function field
// or leading identifier.
func callTarget(node *tree_sitter.Node, source []byte) string {
	for _, field := range []string{"function", "name", "method", "constructor"} {
		if child := node.ChildByFieldName(field); child != nil {
			return NodeText(child, source)
		}
	}
	if first := node.NamedChild(0); first != nil && strings.Contains(first.Kind(), "identifier") {
		return NodeText(first, source)
	}
	return ""
}

// importTarget pulls the imported path/name out of raw import statement text.
func importTarget(text string) string {
	text = strings.TrimSpace(text)
	for _, prefix := range []string{"import", "from", "use", "using", "#include", "require"} {
		text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
	}
	text = strings.Trim(text, `"'<>;`)
	if i := strings.IndexAny(text, " \t\n"); i > 0 {
		text = text[:i]
	}
	return strings.Trim(text, `"'<>;`)
}

func isScopeKind(k MatchKind) bool {
	switch k {
	case MatchClass, MatchStruct, MatchInterface, MatchEnum, MatchFunction, MatchMethod:
		return true
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func countLines(source []byte) int {
	if len(source) == 0 {
		return 0
	}
	n := 1
	for _, b := range source {
		if b == '\n' {
			n++
		}
	}
	return n
}
