package lang

func init() {
	Register(&LanguageSpec{
		Language:          JavaScript,
		FileExtensions:    []string{".js", ".mjs", ".cjs", ".jsx"},
		FunctionNodeTypes: []string{"function_declaration", "generator_function_declaration"},
		MethodNodeTypes:   []string{"method_definition"},
		ClassNodeTypes:    []string{"class_declaration"},
		VariableNodeTypes: []string{"lexical_declaration", "variable_declaration"},
		ImportNodeTypes:   []string{"import_statement"},
		CallNodeTypes:     []string{"call_expression", "new_expression"},
		NameFields:        []string{"name"},
	})
}
