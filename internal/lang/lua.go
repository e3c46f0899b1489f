package lang

func init() {
	Register(&LanguageSpec{
		Language:          Lua,
		FileExtensions:    []string{".lua"},
		FunctionNodeTypes: []string{"function_declaration"},
		VariableNodeTypes: []string{"variable_declaration"},
		CallNodeTypes:     []string{"function_call"},
		NameFields:        []string{"name"},
	})
}
