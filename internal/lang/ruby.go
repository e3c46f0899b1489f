package lang

func init() {
	Register(&LanguageSpec{
		Language:          Ruby,
		FileExtensions:    []string{".rb"},
		MethodNodeTypes:   []string{"method", "singleton_method"},
		ClassNodeTypes:    []string{"class"},
		CallNodeTypes:     []string{"call"},
		NameFields:        []string{"name"},
	})
}
