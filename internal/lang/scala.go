package lang

func init() {
	Register(&LanguageSpec{
		Language:           Scala,
		FileExtensions:     []string{".scala", ".sc"},
		FunctionNodeTypes:  []string{"function_definition"},
		ClassNodeTypes:     []string{"class_definition", "object_definition"},
		InterfaceNodeTypes: []string{"trait_definition"},
		VariableNodeTypes:  []string{"val_definition", "var_definition"},
		ImportNodeTypes:    []string{"import_declaration"},
		CallNodeTypes:      []string{"call_expression"},
		NameFields:         []string{"name"},
	})
}
