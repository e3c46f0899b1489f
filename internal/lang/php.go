package lang

func init() {
	Register(&LanguageSpec{
		Language:           PHP,
		FileExtensions:     []string{".php"},
		FunctionNodeTypes:  []string{"function_definition"},
		MethodNodeTypes:    []string{"method_declaration"},
		ClassNodeTypes:     []string{"class_declaration", "trait_declaration"},
		InterfaceNodeTypes: []string{"interface_declaration"},
		EnumNodeTypes:      []string{"enum_declaration"},
		ImportNodeTypes:    []string{"namespace_use_declaration"},
		CallNodeTypes:      []string{"function_call_expression", "member_call_expression", "object_creation_expression"},
		NameFields:         []string{"name"},
	})
}
