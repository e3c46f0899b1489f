package graph

// NodeKind labels a node's semantic role. The set is closed: anything a
// normalizer produces outside it maps to NodeUnknown.
type NodeKind string

const (
	NodeFunction  NodeKind = "function"
	NodeMethod    NodeKind = "method"
	NodeClass     NodeKind = "class"
	NodeStruct    NodeKind = "struct"
	NodeInterface NodeKind = "interface"
	NodeEnum      NodeKind = "enum"
	NodeNamespace NodeKind = "namespace"
	NodeModule    NodeKind = "module"
	NodeTypeAlias NodeKind = "type_alias"
	NodeVariable  NodeKind = "variable"
	NodeConstant  NodeKind = "constant"
	NodeField     NodeKind = "field"
	NodeParameter NodeKind = "parameter"
	NodeImport    NodeKind = "import"
	NodeFile      NodeKind = "file"
	NodeUnknown   NodeKind = "unknown"
)

// EdgeKind labels an edge's semantic role. Closed, with EdgeUnknown fallback.
type EdgeKind string

const (
	EdgeImports       EdgeKind = "imports"
	EdgeIncludes      EdgeKind = "includes"
	EdgeDependsOn     EdgeKind = "depends_on"
	EdgeInherits      EdgeKind = "inherits"
	EdgeImplements    EdgeKind = "implements"
	EdgeExtends       EdgeKind = "extends"
	EdgeContains      EdgeKind = "contains"
	EdgeDefines       EdgeKind = "defines"
	EdgeBelongsTo     EdgeKind = "belongs_to"
	EdgeCalls         EdgeKind = "calls"
	EdgeOverrides     EdgeKind = "overrides"
	EdgeOverloads     EdgeKind = "overloads"
	EdgeUsesType      EdgeKind = "uses_type"
	EdgeReturnsType   EdgeKind = "returns_type"
	EdgeParameterType EdgeKind = "parameter_type"
	EdgeAccesses      EdgeKind = "accesses"
	EdgeLocatedIn     EdgeKind = "located_in"
	EdgeUnknown       EdgeKind = "unknown"
)

var nodeKinds = map[NodeKind]bool{
	NodeFunction: true, NodeMethod: true, NodeClass: true, NodeStruct: true,
	NodeInterface: true, NodeEnum: true, NodeNamespace: true, NodeModule: true,
	NodeTypeAlias: true, NodeVariable: true, NodeConstant: true,
	NodeField: true, NodeParameter: true, NodeImport: true, NodeFile: true,
	NodeUnknown: true,
}

var edgeKinds = map[EdgeKind]bool{
	EdgeImports: true, EdgeIncludes: true, EdgeDependsOn: true,
	EdgeInherits: true, EdgeImplements: true, EdgeExtends: true,
	EdgeContains: true, EdgeDefines: true, EdgeBelongsTo: true,
	EdgeCalls: true, EdgeOverrides: true, EdgeOverloads: true,
	EdgeUsesType: true, EdgeReturnsType: true, EdgeParameterType: true,
	EdgeAccesses: true, EdgeLocatedIn: true, EdgeUnknown: true,
}

// Valid reports whether k is a member of the closed node-kind set.
func (k NodeKind) Valid() bool { return nodeKinds[k] }

// Valid reports whether k is a member of the closed edge-kind set.
func (k EdgeKind) Valid() bool { return edgeKinds[k] }

// aliases smooth over common free-text variants an LLM emits.
var nodeKindAliases = map[string]NodeKind{
	"func":           NodeFunction,
	"fn":             NodeFunction,
	"type":           NodeTypeAlias,
	"trait":          NodeInterface,
	"const":          NodeConstant,
	"var":            NodeVariable,
	"package":        NodeNamespace,
	"mod":            NodeModule,
	"attribute":      NodeField,
	"property":       NodeField,
	"enumeration":    NodeEnum,
	"abstract class": NodeClass,
}

var edgeKindAliases = map[string]EdgeKind{
	"import":      EdgeImports,
	"include":     EdgeIncludes,
	"depends on":  EdgeDependsOn,
	"depends":     EdgeDependsOn,
	"inherit":     EdgeInherits,
	"inheritance": EdgeInherits,
	"implement":   EdgeImplements,
	"extend":      EdgeExtends,
	"contain":     EdgeContains,
	"define":      EdgeDefines,
	"call":        EdgeCalls,
	"invokes":     EdgeCalls,
	"uses type":   EdgeUsesType,
	"uses":        EdgeUsesType,
	"returns":     EdgeReturnsType,
	"access":      EdgeAccesses,
}

// ParseNodeKind maps free text onto the closed node-kind set.
// Unrecognized input yields NodeUnknown and ok=false.
func ParseNodeKind(s string) (NodeKind, bool) {
	k := NodeKind(normalizeKind(s))
	if k.Valid() {
		return k, true
	}
	if alias, ok := nodeKindAliases[normalizeKind(s)]; ok {
		return alias, true
	}
	return NodeUnknown, false
}

// ParseEdgeKind maps free text onto the closed edge-kind set.
// Unrecognized input yields EdgeUnknown and ok=false.
func ParseEdgeKind(s string) (EdgeKind, bool) {
	k := EdgeKind(normalizeKind(s))
	if k.Valid() {
		return k, true
	}
	if alias, ok := edgeKindAliases[normalizeKind(s)]; ok {
		return alias, true
	}
	return EdgeUnknown, false
}
