package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/anhnh2002/Universal-Parser/internal/config"
	"github.com/anhnh2002/Universal-Parser/internal/graph"
	"github.com/anhnh2002/Universal-Parser/internal/llm"
	"github.com/anhnh2002/Universal-Parser/internal/pipeline"
	"github.com/anhnh2002/Universal-Parser/internal/store"
)

var (
	flagRepo        string
	flagOut         string
	flagConcurrency int
	flagModel       string
	flagBaseURL     string
	flagDB          string
	flagVerbose     bool
	flagInclude     []string
	flagExclude     []string
	flagHops        int
	flagDirection   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "universal-parser",
	Short:         "Build a unified dependency graph from a multi-language codebase",
	Long:          "universal-parser extracts code structure with tree-sitter, normalizes it through an LLM with a rule-based fallback, and resolves cross-file references into one dependency graph.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagRepo, "repo", "", "repository root to analyze (default: current directory)")
	pf.StringVar(&flagOut, "out", "", "output directory for graph.json and manifest.json")
	pf.IntVar(&flagConcurrency, "concurrency", 0, "max per-file pipelines in flight (default: number of CPUs)")
	pf.StringVar(&flagModel, "model", "", "LLM model name")
	pf.StringVar(&flagBaseURL, "base-url", "", "OpenAI-compatible API base URL")
	pf.StringVar(&flagDB, "db", "", "optional SQLite snapshot path")
	pf.BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(getDefinitionCmd)
	rootCmd.AddCommand(fileSummaryCmd)
	rootCmd.AddCommand(kHopCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Run a full parse of the repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p, err := buildPipeline(cfg)
		if err != nil {
			return err
		}
		g, err := p.Parse(cmd.Context())
		if err != nil {
			return err
		}
		return snapshot(cfg, g)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Incrementally update an existing graph",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p, err := buildPipeline(cfg)
		if err != nil {
			return err
		}
		g, err := p.Update(cmd.Context())
		if err != nil {
			return err
		}
		return snapshot(cfg, g)
	},
}

var getDefinitionCmd = &cobra.Command{
	Use:   "get-definition <file> <name>",
	Short: "Show a definition's dependencies and dependents",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		g, err := loadGraph(cfg)
		if err != nil {
			return err
		}
		d, err := analyzeDefinition(g, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), d)
		return nil
	},
}

var fileSummaryCmd = &cobra.Command{
	Use:   "file-summary <file>",
	Short: "Show a skeleton view of one file's definitions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		g, err := loadGraph(cfg)
		if err != nil {
			return err
		}
		out, err := summarizeFile(g, cfg, args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var kHopCmd = &cobra.Command{
	Use:   "k-hop <file> <name>",
	Short: "Show the dependency subgraph within k hops of a definition",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		g, err := loadGraph(cfg)
		if err != nil {
			return err
		}
		out, err := analyzeKHop(g, args[0], args[1], flagHops, flagDirection)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{parseCmd, updateCmd} {
		c.Flags().StringSliceVar(&flagInclude, "include", nil, "only process files matching these patterns")
		c.Flags().StringSliceVar(&flagExclude, "exclude", nil, "skip files matching these patterns")
	}
	kHopCmd.Flags().IntVar(&flagHops, "hops", 2, "how many hops to traverse")
	kHopCmd.Flags().StringVar(&flagDirection, "direction", "both", "edge direction to follow: outgoing, incoming, or both")
}

// loadConfig resolves defaults, .env, yaml, and finally CLI flags, then
// installs the logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagRepo != "" {
		cfg.RepoPath = flagRepo
	}
	if flagOut != "" {
		cfg.OutputDir = flagOut
	}
	if flagConcurrency > 0 {
		cfg.Concurrency = flagConcurrency
	}
	if flagModel != "" {
		cfg.LLMModel = flagModel
	}
	if flagBaseURL != "" {
		cfg.LLMBaseURL = flagBaseURL
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	if flagVerbose {
		cfg.Verbose = true
	}
	if len(flagInclude) > 0 {
		cfg.IncludePatterns = flagInclude
	}
	if len(flagExclude) > 0 {
		cfg.ExcludePatterns = flagExclude
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	return cfg, cfg.Validate()
}

func buildPipeline(cfg config.Config) (*pipeline.Pipeline, error) {
	var client llm.Client
	if cfg.LLMEnabled() {
		c, err := llm.NewOpenAIClient(llm.Options{
			Model:       cfg.LLMModel,
			BaseURL:     cfg.LLMBaseURL,
			APIKey:      cfg.LLMAPIKey,
			Timeout:     cfg.LLMTimeout,
			MaxAttempts: cfg.MaxAttempts,
		}, slog.Default())
		if err != nil {
			return nil, err
		}
		client = c
	} else {
		slog.Warn("llm.disabled", "reason", "no api key, using rule-based normalization")
	}
	return pipeline.New(cfg, client, slog.Default())
}

// snapshot writes the graph into SQLite when --db is set.
func snapshot(cfg config.Config, g *graph.Graph) error {
	if cfg.DBPath == "" {
		return nil
	}
	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.SaveGraph(g); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	slog.Info("snapshot.saved", "path", cfg.DBPath, "nodes", len(g.Nodes), "edges", len(g.Edges))
	return nil
}

// loadGraph reads the artifact for the read-only analyzers, from SQLite
// when --db is set and from graph.json otherwise.
func loadGraph(cfg config.Config) (*graph.Graph, error) {
	if cfg.DBPath != "" {
		s, err := store.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return s.LoadGraph()
	}
	return graph.LoadDir(cfg.OutputDir)
}
