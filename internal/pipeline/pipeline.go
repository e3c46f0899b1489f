package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anhnh2002/Universal-Parser/internal/config"
	"github.com/anhnh2002/Universal-Parser/internal/discover"
	"github.com/anhnh2002/Universal-Parser/internal/graph"
	"github.com/anhnh2002/Universal-Parser/internal/llm"
	"github.com/anhnh2002/Universal-Parser/internal/normalize"
	"github.com/anhnh2002/Universal-Parser/internal/parser"
	"github.com/anhnh2002/Universal-Parser/internal/resolve"
)

// Pipeline orchestrates repository parsing: discovery, bounded per-file
// extraction and normalization, then single-threaded resolution and
// aggregation behind the barrier.
type Pipeline struct {
	cfg     config.Config
	norm    *normalize.Normalizer
	log     *slog.Logger
	repoAbs string
	project string

	// mu serializes graph and manifest mutation between parse and update.
	mu sync.Mutex
}

// New creates a pipeline. A nil client disables the model and routes every
// file through the rule-based fallback.
func New(cfg config.Config, client llm.Client, log *slog.Logger) (*Pipeline, error) {
	repoAbs, err := filepath.Abs(cfg.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("resolve repo path: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	project := filepath.Base(repoAbs)
	return &Pipeline{
		cfg:     cfg,
		norm:    normalize.New(client, project, log),
		log:     log,
		repoAbs: repoAbs,
		project: project,
	}, nil
}

// Project returns the derived project name, the repository directory's base
// name.
func (p *Pipeline) Project() string { return p.project }

// fileOutcome is one file's result: a normalized contribution or a recorded
// failure. Failures never propagate to sibling files.
type fileOutcome struct {
	file discover.FileInfo
	hash string
	res  *normalize.FileResult
	err  error
}

// Parse runs a full parse of the repository and writes the artifact and
// manifest to the output directory.
func (p *Pipeline) Parse(ctx context.Context) (*graph.Graph, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.parse(ctx)
}

func (p *Pipeline) parse(ctx context.Context) (*graph.Graph, error) {
	p.log.Info("pipeline.start", "project", p.project, "path", p.repoAbs)

	files, err := p.discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	p.log.Info("pipeline.discovered", "files", len(files))

	outcomes := p.processFiles(ctx, files)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Barrier passed: everything below is single-threaded.
	g := graph.New(p.project, p.repoAbs)
	manifest := graph.Manifest{}
	edges := p.merge(g, manifest, outcomes)

	resolver := resolve.New(resolve.TableFromGraph(p.project, g), p.log)
	resolved, unresolved := resolver.ResolveAll(edges)
	for _, e := range edges {
		g.AddEdge(e)
	}

	if dropped := g.PruneDanglingSubjects(); dropped > 0 {
		p.log.Debug("pipeline.dropped_edges", "count", dropped, "reason", "subject not in graph")
	}
	g.RecomputeStats()
	if err := p.save(g, manifest); err != nil {
		return nil, err
	}
	p.log.Info("pipeline.done",
		"nodes", len(g.Nodes), "edges", len(g.Edges),
		"resolved", resolved, "unresolved", unresolved,
		"failed_files", len(g.Repository.FailedFiles))
	return g, nil
}

func (p *Pipeline) discover(ctx context.Context) ([]discover.FileInfo, error) {
	return discover.Discover(ctx, p.repoAbs, &discover.Options{
		IncludePatterns: p.cfg.IncludePatterns,
		ExcludePatterns: p.cfg.ExcludePatterns,
	})
}

// processFiles runs per-file pipelines with at most cfg.Concurrency in
// flight; the LLM call inside Normalize is the only suspension point.
func (p *Pipeline) processFiles(ctx context.Context, files []discover.FileInfo) []fileOutcome {
	outcomes := make([]fileOutcome, len(files))

	g := new(errgroup.Group)
	g.SetLimit(p.cfg.Concurrency)
	for i, f := range files {
		g.Go(func() error {
			outcomes[i] = p.processFile(ctx, f)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (p *Pipeline) processFile(ctx context.Context, f discover.FileInfo) fileOutcome {
	if err := ctx.Err(); err != nil {
		return fileOutcome{file: f, err: err}
	}
	source, err := os.ReadFile(f.Path)
	if err != nil {
		return fileOutcome{file: f, err: fmt.Errorf("read: %w", err)}
	}
	hash := contentHash(source)

	ex, err := parser.Extract(f.RelPath, f.Language, source)
	if err != nil {
		return fileOutcome{file: f, hash: hash, err: err}
	}

	tree := normalize.BuildFileTree(p.repoAbs, f.RelPath)
	res := p.norm.Normalize(ctx, ex, tree)
	return fileOutcome{file: f, hash: hash, res: res}
}

// merge folds outcomes into the graph: nodes, failure records, and manifest
// entries. Returns the collected edge candidates for resolution.
func (p *Pipeline) merge(g *graph.Graph, manifest graph.Manifest, outcomes []fileOutcome) []graph.Edge {
	var edges []graph.Edge
	now := time.Now().UTC()

	for _, o := range outcomes {
		if o.err != nil {
			p.log.Warn("pipeline.file_failed", "file", o.file.RelPath, "error", o.err)
			g.Repository.FilesFailed++
			g.Repository.FailedFiles = append(g.Repository.FailedFiles, graph.FileFailure{
				Path: o.file.RelPath, Reason: o.err.Error(),
			})
			// Not recorded in the manifest, so the next update retries it.
			continue
		}
		for _, n := range o.res.Nodes {
			if err := g.AddNode(n); err != nil {
				p.log.Debug("pipeline.duplicate_node", "id", n.ID, "file", o.file.RelPath)
			}
		}
		edges = append(edges, o.res.Edges...)
		manifest[o.file.RelPath] = graph.ManifestEntry{Hash: o.hash, ProcessedAt: now}
		g.Repository.FilesProcessed++
	}
	return edges
}

// reResolve retries every unresolved edge already in the graph against the
// final symbol table. New files can satisfy references older files left
// dangling.
func (p *Pipeline) reResolve(g *graph.Graph, resolver *resolve.Resolver) {
	for i := range g.Edges {
		if g.Edges[i].Unresolved {
			g.Edges[i] = resolver.Resolve(g.Edges[i])
		}
	}
}

func (p *Pipeline) save(g *graph.Graph, manifest graph.Manifest) error {
	if err := g.Save(p.cfg.OutputDir); err != nil {
		return fmt.Errorf("save graph: %w", err)
	}
	if err := manifest.Save(p.cfg.OutputDir); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	return nil
}
