package lang

func init() {
	Register(&LanguageSpec{
		Language:           C,
		FileExtensions:     []string{".c", ".h"},
		FunctionNodeTypes:  []string{"function_definition"},
		StructNodeTypes:    []string{"struct_specifier"},
		EnumNodeTypes:      []string{"enum_specifier"},
		TypeAliasNodeTypes: []string{"type_definition"},
		ImportNodeTypes:    []string{"preproc_include"},
		CallNodeTypes:      []string{"call_expression"},
		NameFields:         []string{"declarator", "name"},
	})
}
