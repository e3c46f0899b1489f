package fqn

import "testing"

func TestCompute(t *testing.T) {
	cases := []struct {
		project, relPath, scope, name, want string
	}{
		{"proj", "utils/helper.py", "", "HelperClass", "proj.utils.helper.HelperClass"},
		{"proj", "utils/helper.py", "HelperClass", "helper_method", "proj.utils.helper.HelperClass.helper_method"},
		{"proj", "pkg/__init__.py", "", "setup", "proj.pkg.setup"},
		{"proj", "web/index.ts", "", "render", "proj.web.render"},
		{"proj", "src/net/mod.rs", "", "connect", "proj.src.net.connect"},
		{"proj", "main.go", "", "", "proj.main"},
		{"proj", "index.ts", "", "top", "proj.index.top"},
		// Package-index conventions are per language: a Python mod.py or a
		// Java index.java keeps its segment and cannot collide with pkg.py.
		{"proj", "pkg/mod.py", "", "top_level", "proj.pkg.mod.top_level"},
		{"proj", "pkg/index.java", "", "Render", "proj.pkg.index.Render"},
		{"proj", "pkg/__init__.rb", "", "setup", "proj.pkg.__init__.setup"},
		{"proj", "pkg/MOD.rs", "", "connect", "proj.pkg.MOD.connect"},
	}
	for _, tc := range cases {
		if got := Compute(tc.project, tc.relPath, tc.scope, tc.name); got != tc.want {
			t.Errorf("Compute(%q, %q, %q, %q) = %q, want %q",
				tc.project, tc.relPath, tc.scope, tc.name, got, tc.want)
		}
	}
}

func TestSimpleName(t *testing.T) {
	if got := SimpleName("a.b.c"); got != "c" {
		t.Errorf("SimpleName(a.b.c) = %q", got)
	}
	if got := SimpleName("plain"); got != "plain" {
		t.Errorf("SimpleName(plain) = %q", got)
	}
}
