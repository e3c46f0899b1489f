package analyze

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anhnh2002/Universal-Parser/internal/graph"
)

// FileSummaryAnalyzer renders a skeleton view of one file: every node's
// leading lines in start-line order, the rest elided.
type FileSummaryAnalyzer struct {
	g            *graph.Graph
	summaryLines int
}

// NewFileSummaryAnalyzer creates a summary analyzer. summaryLines bounds
// how many leading lines of each node's span are shown.
func NewFileSummaryAnalyzer(g *graph.Graph, summaryLines int) *FileSummaryAnalyzer {
	if summaryLines <= 0 {
		summaryLines = 1
	}
	return &FileSummaryAnalyzer{g: g, summaryLines: summaryLines}
}

// Summarize renders the summary for a file. The path may be given as a
// suffix ("helper.py" for "utils/helper.py") when unambiguous. An unknown
// file returns ErrNotFound.
func (a *FileSummaryAnalyzer) Summarize(filePath string) (string, error) {
	resolved, nodes, err := a.lookupFile(filePath)
	if err != nil {
		return "", err
	}

	source := a.readLines(resolved)
	edgeCounts := a.edgeCounts()

	var b strings.Builder
	fmt.Fprintf(&b, "File Summary: %s\n", resolved)
	fmt.Fprintf(&b, "Total Nodes: %d\n", len(nodes))
	if len(source) > 0 {
		fmt.Fprintf(&b, "Total File Lines: %d\n", len(source))
	}
	b.WriteString(strings.Repeat("=", 60) + "\n")

	for _, n := range nodes {
		fmt.Fprintf(&b, "\nL%d-%d [%s] (%s)\n", n.StartLine, n.EndLine, n.Kind, n.ID)

		shown := 0
		if len(source) > 0 {
			for line := n.StartLine; line <= n.EndLine && line <= len(source) && shown < a.summaryLines; line++ {
				b.WriteString(source[line-1] + "\n")
				shown++
			}
		}
		span := n.EndLine - n.StartLine + 1
		if elided := span - shown; elided > 0 || len(source) == 0 {
			if elided < 0 {
				elided = 0
			}
			n.Elided = true
			fmt.Fprintf(&b, "... eliding %d more lines (edges: %d) ...\n", elided, edgeCounts[n.ID])
		}
	}
	return b.String(), nil
}

// lookupFile finds the graph's nodes for a path, accepting suffix matches.
func (a *FileSummaryAnalyzer) lookupFile(filePath string) (string, []*graph.Node, error) {
	normalized := strings.TrimPrefix(filepath.ToSlash(filePath), "/")
	if nodes := a.g.NodesInFile(normalized); len(nodes) > 0 {
		return normalized, nodes, nil
	}

	var matches []string
	for _, f := range a.g.Files() {
		if strings.HasSuffix(f, normalized) || filepath.Base(f) == normalized {
			matches = append(matches, f)
		}
	}
	if len(matches) == 1 {
		return matches[0], a.g.NodesInFile(matches[0]), nil
	}

	files := a.g.Files()
	if len(files) > 10 {
		files = files[:10]
	}
	return "", nil, fmt.Errorf("%w: file %q (known files: %s)",
		ErrNotFound, filePath, strings.Join(files, ", "))
}

// readLines loads the file's source when the repository is still on disk.
// A missing file degrades to markers-only output.
func (a *FileSummaryAnalyzer) readLines(relPath string) []string {
	if a.g.Repository.Path == "" {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(a.g.Repository.Path, filepath.FromSlash(relPath)))
	if err != nil {
		return nil
	}
	return strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
}

// edgeCounts tallies each node's immediate edges, incoming plus outgoing.
func (a *FileSummaryAnalyzer) edgeCounts() map[string]int {
	counts := make(map[string]int)
	for i := range a.g.Edges {
		e := &a.g.Edges[i]
		counts[e.SubjectID]++
		if !e.Unresolved {
			counts[e.ObjectID]++
		}
	}
	return counts
}
