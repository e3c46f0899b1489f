package parser

import (
	"errors"
	"testing"

	"github.com/anhnh2002/Universal-Parser/internal/lang"
)

const pySource = `import os
from collections import OrderedDict

def top(x):
    return helper(x)

class Greeter:
    def greet(self, name):
        print(name)
        return os.getcwd()
`

const goSource = `package demo

import "fmt"

type Widget struct {
	Name string
}

type Shaper interface {
	Area() float64
}

type ID = string

func Hello(w Widget) {
	fmt.Println(w.Name)
}
`

func matchesOfKind(ms []RawMatch, k MatchKind) []RawMatch {
	var out []RawMatch
	for _, m := range ms {
		if m.Kind == k {
			out = append(out, m)
		}
	}
	return out
}

func findByName(ms []RawMatch, k MatchKind, name string) *RawMatch {
	for i := range ms {
		if ms[i].Kind == k && ms[i].Name == name {
			return &ms[i]
		}
	}
	return nil
}

func TestExtractPython(t *testing.T) {
	ex, err := Extract("pkg/mod.py", lang.Python, []byte(pySource))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	fn := findByName(ex.Matches, MatchFunction, "top")
	if fn == nil {
		t.Fatal("function top not extracted")
	}
	if fn.StartLine != 4 {
		t.Errorf("top start line = %d, want 4", fn.StartLine)
	}
	if fn.Scope != "" || fn.Depth != 0 {
		t.Errorf("top should be module-level, got scope %q depth %d", fn.Scope, fn.Depth)
	}

	cls := findByName(ex.Matches, MatchClass, "Greeter")
	if cls == nil {
		t.Fatal("class Greeter not extracted")
	}

	greet := findByName(ex.Matches, MatchFunction, "greet")
	if greet == nil {
		t.Fatal("method greet not extracted")
	}
	if greet.Scope != "Greeter" {
		t.Errorf("greet scope = %q, want Greeter", greet.Scope)
	}

	imports := matchesOfKind(ex.Matches, MatchImport)
	if len(imports) != 2 {
		t.Fatalf("expected 2 imports, got %d: %+v", len(imports), imports)
	}

	calls := matchesOfKind(ex.Matches, MatchCall)
	var names []string
	for _, c := range calls {
		names = append(names, c.Name)
	}
	if findByName(ex.Matches, MatchCall, "helper") == nil {
		t.Errorf("call helper not extracted, got calls %v", names)
	}
	// Qualified callees keep the full dotted expression, not the receiver.
	if findByName(ex.Matches, MatchCall, "os.getcwd") == nil {
		t.Errorf("qualified call os.getcwd not extracted, got calls %v", names)
	}

	if ex.LineCount < 9 {
		t.Errorf("line count = %d, want >= 9", ex.LineCount)
	}
}

func TestExtractGoTypeSpecRefinement(t *testing.T) {
	ex, err := Extract("demo/demo.go", lang.Go, []byte(goSource))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if findByName(ex.Matches, MatchStruct, "Widget") == nil {
		t.Error("Widget should be a struct match")
	}
	if findByName(ex.Matches, MatchInterface, "Shaper") == nil {
		t.Error("Shaper should be an interface match")
	}
	if findByName(ex.Matches, MatchTypeAlias, "ID") == nil {
		t.Error("ID should be a type alias match")
	}
	if findByName(ex.Matches, MatchFunction, "Hello") == nil {
		t.Error("function Hello not extracted")
	}
	if findByName(ex.Matches, MatchCall, "fmt.Println") == nil {
		t.Error("qualified call fmt.Println not extracted")
	}
}

func TestExtractUnsupportedLanguage(t *testing.T) {
	_, err := Extract("x.zig", lang.Language("zig"), []byte("const x = 1;"))
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
}

func TestStripBOM(t *testing.T) {
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte("package x")...)
	if got := string(StripBOM(withBOM)); got != "package x" {
		t.Errorf("bom not stripped: %q", got)
	}
	plain := []byte("package x")
	if got := string(StripBOM(plain)); got != "package x" {
		t.Errorf("plain source mangled: %q", got)
	}
}

func TestParseReusesPooledParsers(t *testing.T) {
	for i := 0; i < 3; i++ {
		tree, err := Parse(lang.Python, []byte("x = 1\n"))
		if err != nil {
			t.Fatalf("parse %d: %v", i, err)
		}
		if tree.RootNode().Kind() != "module" {
			t.Errorf("parse %d: root kind = %s", i, tree.RootNode().Kind())
		}
		tree.Close()
	}
}
