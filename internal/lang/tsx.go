package lang

func init() {
	Register(&LanguageSpec{
		Language:           TSX,
		FileExtensions:     []string{".tsx"},
		FunctionNodeTypes:  []string{"function_declaration", "generator_function_declaration"},
		MethodNodeTypes:    []string{"method_definition"},
		ClassNodeTypes:     []string{"class_declaration", "abstract_class_declaration"},
		InterfaceNodeTypes: []string{"interface_declaration"},
		EnumNodeTypes:      []string{"enum_declaration"},
		TypeAliasNodeTypes: []string{"type_alias_declaration"},
		VariableNodeTypes:  []string{"lexical_declaration", "variable_declaration"},
		ImportNodeTypes:    []string{"import_statement"},
		CallNodeTypes:      []string{"call_expression", "new_expression"},
		NameFields:         []string{"name"},
	})
}
