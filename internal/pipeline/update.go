package pipeline

import (
	"context"
	"errors"
	"io/fs"

	"github.com/anhnh2002/Universal-Parser/internal/discover"
	"github.com/anhnh2002/Universal-Parser/internal/graph"
	"github.com/anhnh2002/Universal-Parser/internal/resolve"
)

// Update incrementally brings an existing artifact up to date with the
// repository: changed and removed files lose their attributed nodes and
// edges, changed and added files are re-run through the per-file pipeline,
// and dirty plus new edges are re-resolved. A missing artifact falls back
// to a full parse.
func (p *Pipeline) Update(ctx context.Context) (*graph.Graph, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	g, err := graph.LoadDir(p.cfg.OutputDir)
	if errors.Is(err, fs.ErrNotExist) {
		p.log.Info("update.full_parse", "reason", "no existing artifact")
		return p.parse(ctx)
	}
	if err != nil {
		return nil, err
	}
	manifest, err := graph.LoadManifest(p.cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	files, err := p.discover(ctx)
	if err != nil {
		return nil, err
	}

	added, modified, removed := classify(files, hashFiles(ctx, files), manifest)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.log.Info("update.classify",
		"added", len(added), "modified", len(modified), "removed", len(removed),
		"total", len(files))

	if len(added) == 0 && len(modified) == 0 && len(removed) == 0 {
		p.log.Info("update.noop", "reason", "no_changes")
		return g, nil
	}

	// Drop everything attributed to changed and removed files. Edges in
	// other files whose object pointed at a removed node are flagged
	// unresolved and re-queued below.
	for _, f := range modified {
		g.RemoveFile(f.RelPath)
	}
	for _, rel := range removed {
		g.RemoveFile(rel)
		delete(manifest, rel)
	}

	reprocess := append(added, modified...)
	outcomes := p.processFiles(ctx, reprocess)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.resetRunCounters(g, manifest, files, reprocess)
	newEdges := p.merge(g, manifest, outcomes)

	resolver := resolve.New(resolve.TableFromGraph(p.project, g), p.log)
	resolver.ResolveAll(newEdges)
	for _, e := range newEdges {
		g.AddEdge(e)
	}
	p.reResolve(g, resolver)
	if merged := g.DedupEdges(); merged > 0 {
		p.log.Debug("update.merged_edges", "count", merged, "reason", "references converged")
	}

	if dropped := g.PruneDanglingSubjects(); dropped > 0 {
		p.log.Debug("update.dropped_edges", "count", dropped, "reason", "subject not in graph")
	}
	g.RecomputeStats()
	if err := p.save(g, manifest); err != nil {
		return nil, err
	}
	p.log.Info("update.done",
		"nodes", len(g.Nodes), "edges", len(g.Edges),
		"failed_files", len(g.Repository.FailedFiles))
	return g, nil
}

// classify splits the current tree into added, modified, and removed
// relative to the manifest.
func classify(files []discover.FileInfo, hashes []string, manifest graph.Manifest) (added, modified []discover.FileInfo, removed []string) {
	present := make(map[string]bool, len(files))
	for i, f := range files {
		present[f.RelPath] = true
		entry, ok := manifest[f.RelPath]
		switch {
		case !ok:
			added = append(added, f)
		case entry.Hash != hashes[i]:
			modified = append(modified, f)
		}
	}
	for rel := range manifest {
		if !present[rel] {
			removed = append(removed, rel)
		}
	}
	return added, modified, removed
}

// resetRunCounters rebuilds the repository block for this run: processed
// counts the untouched manifest survivors, then merge adds the reprocessed
// files back in. Failed files are never in the manifest, so every update
// retries them.
func (p *Pipeline) resetRunCounters(g *graph.Graph, manifest graph.Manifest, files, reprocess []discover.FileInfo) {
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f.RelPath] = true
	}
	skip := make(map[string]bool, len(reprocess))
	for _, f := range reprocess {
		skip[f.RelPath] = true
	}
	processed := 0
	for rel := range manifest {
		if present[rel] && !skip[rel] {
			processed++
		}
	}
	g.Repository.FilesProcessed = processed
	g.Repository.FilesFailed = 0
	g.Repository.FailedFiles = nil
}
