package lang

func init() {
	Register(&LanguageSpec{
		Language:          Kotlin,
		FileExtensions:    []string{".kt", ".kts"},
		FunctionNodeTypes: []string{"function_declaration"},
		ClassNodeTypes:    []string{"class_declaration", "object_declaration"},
		VariableNodeTypes: []string{"property_declaration"},
		ImportNodeTypes:   []string{"import_header", "import"},
		CallNodeTypes:     []string{"call_expression"},
		NameFields:        []string{"name"},
	})
}
