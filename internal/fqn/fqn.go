package fqn

import (
	"path/filepath"
	"strings"
)

// Compute returns the canonical qualified name for a definition.
// Format: <project>.<rel_path_parts_dotted>[.<scope_chain>].<name>
// Examples:
//   - myproject.utils.helper.HelperClass
//   - myproject.utils.helper.HelperClass.helper_method
func Compute(project, relPath, scope, name string) string {
	parts := pathParts(relPath)

	all := append([]string{project}, parts...)
	if scope != "" {
		all = append(all, strings.Split(scope, ".")...)
	}
	if name != "" {
		all = append(all, name)
	}
	return strings.Join(all, ".")
}

// ModuleQN returns the qualified name for a file without a member name.
func ModuleQN(project, relPath string) string {
	return Compute(project, relPath, "", "")
}

// pathParts converts a slash-separated relative path into dot segments,
// dropping the extension and filename conventions that stand for the
// enclosing package (__init__.py, index.ts, mod.rs).
func pathParts(relPath string) []string {
	ext := strings.ToLower(filepath.Ext(relPath))
	stem := strings.TrimSuffix(relPath, filepath.Ext(relPath))
	parts := strings.Split(filepath.ToSlash(stem), "/")

	if len(parts) > 1 && packageIndexFile(parts[len(parts)-1], ext) {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// packageIndexFile reports whether a file name stands for its enclosing
// package in the language the extension implies. A Python mod.py or a Java
// index.java is an ordinary module and must keep its own segment.
func packageIndexFile(stem, ext string) bool {
	switch stem {
	case "__init__":
		return ext == ".py"
	case "mod":
		return ext == ".rs"
	case "index":
		switch ext {
		case ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts":
			return true
		}
	}
	return false
}

// SimpleName extracts the last dot-separated segment of a qualified name.
func SimpleName(qn string) string {
	if idx := strings.LastIndex(qn, "."); idx >= 0 {
		return qn[idx+1:]
	}
	return qn
}
