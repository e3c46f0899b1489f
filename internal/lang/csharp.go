package lang

func init() {
	Register(&LanguageSpec{
		Language:           CSharp,
		FileExtensions:     []string{".cs"},
		MethodNodeTypes:    []string{"method_declaration", "constructor_declaration"},
		ClassNodeTypes:     []string{"class_declaration"},
		StructNodeTypes:    []string{"struct_declaration"},
		InterfaceNodeTypes: []string{"interface_declaration"},
		EnumNodeTypes:      []string{"enum_declaration"},
		FieldNodeTypes:     []string{"field_declaration", "property_declaration"},
		ImportNodeTypes:    []string{"using_directive"},
		CallNodeTypes:      []string{"invocation_expression", "object_creation_expression"},
		NameFields:         []string{"name"},
	})
}
