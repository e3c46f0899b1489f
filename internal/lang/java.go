package lang

func init() {
	Register(&LanguageSpec{
		Language:           Java,
		FileExtensions:     []string{".java"},
		MethodNodeTypes:    []string{"method_declaration", "constructor_declaration"},
		ClassNodeTypes:     []string{"class_declaration"},
		InterfaceNodeTypes: []string{"interface_declaration"},
		EnumNodeTypes:      []string{"enum_declaration"},
		FieldNodeTypes:     []string{"field_declaration"},
		ImportNodeTypes:    []string{"import_declaration"},
		CallNodeTypes:      []string{"method_invocation", "object_creation_expression"},
		NameFields:         []string{"name"},
	})
}
