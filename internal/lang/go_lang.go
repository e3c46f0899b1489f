package lang

func init() {
	Register(&LanguageSpec{
		Language:           Go,
		FileExtensions:     []string{".go"},
		FunctionNodeTypes:  []string{"function_declaration"},
		MethodNodeTypes:    []string{"method_declaration"},
		StructNodeTypes:    []string{"type_spec"},
		TypeAliasNodeTypes: []string{"type_alias"},
		VariableNodeTypes:  []string{"var_declaration", "const_declaration"},
		FieldNodeTypes:     []string{"field_declaration"},
		ImportNodeTypes:    []string{"import_spec"},
		CallNodeTypes:      []string{"call_expression"},
		NameFields:         []string{"name"},
	})
}
