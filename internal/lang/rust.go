package lang

func init() {
	Register(&LanguageSpec{
		Language:           Rust,
		FileExtensions:     []string{".rs"},
		FunctionNodeTypes:  []string{"function_item"},
		StructNodeTypes:    []string{"struct_item"},
		InterfaceNodeTypes: []string{"trait_item"},
		EnumNodeTypes:      []string{"enum_item"},
		TypeAliasNodeTypes: []string{"type_item"},
		VariableNodeTypes:  []string{"const_item", "static_item"},
		ImportNodeTypes:    []string{"use_declaration"},
		CallNodeTypes:      []string{"call_expression"},
		NameFields:         []string{"name"},
	})
}
