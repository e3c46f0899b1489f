package lang

// Language identifies a supported programming language.
type Language string

const (
	Python     Language = "python"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	Go         Language = "go"
	Rust       Language = "rust"
	Java       Language = "java"
	C          Language = "c"
	CPP        Language = "cpp"
	CSharp     Language = "c-sharp"
	Ruby       Language = "ruby"
	PHP        Language = "php"
	Lua        Language = "lua"
	Scala      Language = "scala"
	Kotlin     Language = "kotlin"
	Bash       Language = "bash"
)

// AllLanguages returns all supported languages.
func AllLanguages() []Language {
	return []Language{
		Python, JavaScript, TypeScript, TSX, Go, Rust, Java, C, CPP,
		CSharp, Ruby, PHP, Lua, Scala, Kotlin, Bash,
	}
}

// LanguageSpec is the query catalog entry for one language: the tree-sitter
// node kinds that count as definitions, imports, and dependencies.
type LanguageSpec struct {
	Language       Language
	FileExtensions []string

	// Definition queries, split by the structural kind they produce.
	FunctionNodeTypes  []string
	MethodNodeTypes    []string
	ClassNodeTypes     []string
	StructNodeTypes    []string
	InterfaceNodeTypes []string
	EnumNodeTypes      []string
	TypeAliasNodeTypes []string
	VariableNodeTypes  []string
	FieldNodeTypes     []string

	// Import queries.
	ImportNodeTypes []string

	// Dependency queries: naive call/reference spans.
	CallNodeTypes []string

	// NameFields are tree-sitter field names tried in order when extracting
	// the declared name of a definition node.
	NameFields []string
}

// registry maps file extensions to language specs.
var registry = map[string]*LanguageSpec{}

// Register adds a LanguageSpec to the global registry.
func Register(spec *LanguageSpec) {
	for _, ext := range spec.FileExtensions {
		registry[ext] = spec
	}
}

// ForExtension returns the LanguageSpec for a file extension (e.g. ".go").
func ForExtension(ext string) *LanguageSpec {
	return registry[ext]
}

// ForLanguage returns the LanguageSpec for a language.
func ForLanguage(lang Language) *LanguageSpec {
	for _, spec := range registry {
		if spec.Language == lang {
			return spec
		}
	}
	return nil
}

// LanguageForExtension returns the Language for a file extension.
func LanguageForExtension(ext string) (Language, bool) {
	spec := registry[ext]
	if spec == nil {
		return "", false
	}
	return spec.Language, true
}
