package main

import (
	"path/filepath"

	"github.com/anhnh2002/Universal-Parser/internal/analyze"
	"github.com/anhnh2002/Universal-Parser/internal/config"
	"github.com/anhnh2002/Universal-Parser/internal/graph"
)

// analyzeDefinition looks up one definition and renders it. Absolute paths
// are accepted and made relative to the graph's repository root.
func analyzeDefinition(g *graph.Graph, file, name string) (string, error) {
	d, err := analyze.NewDefinitionAnalyzer(g).Analyze(relToRepo(g, file), name)
	if err != nil {
		return "", err
	}
	return d.Format(), nil
}

func analyzeKHop(g *graph.Graph, file, name string, hops int, direction string) (string, error) {
	r, err := analyze.NewKHopAnalyzer(g).Analyze(relToRepo(g, file), name, hops, analyze.Direction(direction))
	if err != nil {
		return "", err
	}
	return r.Format(), nil
}

func summarizeFile(g *graph.Graph, cfg config.Config, file string) (string, error) {
	return analyze.NewFileSummaryAnalyzer(g, cfg.SummaryLines).Summarize(relToRepo(g, file))
}

func relToRepo(g *graph.Graph, file string) string {
	if !filepath.IsAbs(file) || g.Repository.Path == "" {
		return file
	}
	rel, err := filepath.Rel(g.Repository.Path, file)
	if err != nil {
		return file
	}
	return filepath.ToSlash(rel)
}
