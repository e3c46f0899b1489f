package lang

func init() {
	Register(&LanguageSpec{
		Language:           CPP,
		FileExtensions:     []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
		FunctionNodeTypes:  []string{"function_definition"},
		ClassNodeTypes:     []string{"class_specifier"},
		StructNodeTypes:    []string{"struct_specifier"},
		EnumNodeTypes:      []string{"enum_specifier"},
		TypeAliasNodeTypes: []string{"type_definition", "alias_declaration"},
		ImportNodeTypes:    []string{"preproc_include"},
		CallNodeTypes:      []string{"call_expression"},
		NameFields:         []string{"declarator", "name"},
	})
}
