package lang

func init() {
	Register(&LanguageSpec{
		Language:          Python,
		FileExtensions:    []string{".py"},
		FunctionNodeTypes: []string{"function_definition"},
		ClassNodeTypes:    []string{"class_definition"},
		VariableNodeTypes: []string{"assignment"},
		ImportNodeTypes:   []string{"import_statement", "import_from_statement"},
		CallNodeTypes:     []string{"call"},
		NameFields:        []string{"name"},
	})
}
