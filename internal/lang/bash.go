package lang

func init() {
	Register(&LanguageSpec{
		Language:          Bash,
		FileExtensions:    []string{".sh", ".bash"},
		FunctionNodeTypes: []string{"function_definition"},
		VariableNodeTypes: []string{"variable_assignment"},
		CallNodeTypes:     []string{"command"},
		NameFields:        []string{"name"},
	})
}
