package normalize

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const promptTemplate = `Extract nodes and edges from the following formatted AST and project structure context.

Project Structure:
%s

Formatted AST:
%s

Output schema:
{
    "nodes": [
        # Internal nodes only, DO NOT include nodes that are not defined in this file; e.g. "utils.helper.HelperClass" is implemented in "utils/helper.py"
        {
            "id": <relative_path_to_node>,# ignore file extension; e.g. "utils.helper.HelperClass"
            "implementation_file": <relative_path_to_implementation_file>,# e.g. "utils/helper.py"
            "start_line": <start_line>,# int
            "end_line": <end_line>,# int
            "type": <node_type># one of: function, method, class, struct, interface, enum, namespace, module, type_alias, variable, constant, field, parameter, import, file
        },
        ...
    ],
    "edges": [
        # DO include all kinds of edges; e.g. "utils.helper.HelperClass" contains "utils.helper.HelperClass.helper_method", "utils.helper.HelperClass.helper_method" calls "llms.ChatLLM", ...
        {
            "subject_id": <relative_path_to_node>,# e.g. "utils.helper.HelperClass"
            "subject_implementation_file": <relative_path_to_subject_implementation_file>,# e.g. "utils/helper.py"
            "object_id": <relative_path_to_node>,# e.g. "utils.helper.HelperClass.helper_method"
            "object_implementation_file": <relative_path_to_object_implementation_file>,# e.g. "utils/helper.py"
            "type": <edge_type># one of: imports, includes, depends_on, inherits, implements, extends, contains, defines, belongs_to, calls, overrides, overloads, uses_type, returns_type, parameter_type, accesses, located_in
        },
        ...
    ]
}

IMPORTANT INSTRUCTIONS:
- Use the EXACT file path shown at the beginning of the formatted AST as the base for all relative paths
- For node IDs: convert the file path to dot notation and append the node name (e.g., if file is "autorag/chunker.py", use "autorag.chunker.ClassName")
- For implementation_file: use the EXACT file path as shown (e.g., "autorag/chunker.py")
- IGNORE built-in, third-party packages, and standard library dependencies
- IGNORE global variable nodes
- Use the provided project structure to understand the context and relationships between files`

// BuildPrompt assembles the normalization prompt from the project-tree
// excerpt and the formatted AST window.
func BuildPrompt(fileTree, formattedAST string) string {
	return fmt.Sprintf(promptTemplate, fileTree, formattedAST)
}

const (
	treeMaxDepth = 3
	treeMaxFiles = 100
)

// skippedTreeDirs are never shown in the project-structure excerpt.
var skippedTreeDirs = map[string]bool{
	"__pycache__": true, "node_modules": true, ".git": true,
	".vscode": true, "venv": true, "env": true, "tests": true,
}

// BuildFileTree renders a bounded tree of the project around relPath: it
// starts at relPath's first path segment (or the root for top-level files)
// and descends at most three levels and one hundred files.
func BuildFileTree(root, relPath string) string {
	start := root
	header := "Project Root:\n"
	if first, _, found := strings.Cut(filepath.ToSlash(relPath), "/"); found {
		start = filepath.Join(root, first)
		header = first + "/\n"
	}
	if _, err := os.Stat(start); err != nil {
		return header + "  (directory not found)\n"
	}

	count := 0
	var render func(dir, prefix string, depth int) string
	render = func(dir, prefix string, depth int) string {
		if depth >= treeMaxDepth || count >= treeMaxFiles {
			return ""
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return prefix + "├── (error reading directory)\n"
		}
		var names []string
		for _, e := range entries {
			name := e.Name()
			if strings.HasPrefix(name, ".") || skippedTreeDirs[name] {
				continue
			}
			names = append(names, name)
		}
		sort.Strings(names)

		var b strings.Builder
		for i, name := range names {
			if count >= treeMaxFiles {
				break
			}
			glyph, childPrefix := "├── ", prefix+"│   "
			if i == len(names)-1 {
				glyph, childPrefix = "└── ", prefix+"    "
			}
			full := filepath.Join(dir, name)
			if info, err := os.Stat(full); err == nil && info.IsDir() {
				b.WriteString(prefix + glyph + name + "/\n")
				b.WriteString(render(full, childPrefix, depth+1))
			} else {
				b.WriteString(prefix + glyph + name + "\n")
				count++
			}
		}
		return b.String()
	}

	return header + render(start, "", 0)
}
