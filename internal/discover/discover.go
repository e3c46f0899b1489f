package discover

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/anhnh2002/Universal-Parser/internal/lang"
)

// IGNORE_PATTERNS are directory names to skip during discovery.
var IGNORE_PATTERNS = map[string]bool{
	".cache": true, ".eggs": true, ".env": true, ".git": true,
	".gradle": true, ".hg": true, ".idea": true, ".mypy_cache": true,
	".nox": true, ".npm": true, ".nyc_output": true, ".pnpm-store": true,
	".pytest_cache": true, ".ruff_cache": true, ".svn": true, ".tmp": true,
	".tox": true, ".venv": true, ".vs": true, ".vscode": true,
	".yarn": true, "__pycache__": true, "bin": true,
	"bower_components": true, "build": true, "coverage": true,
	"dist": true, "env": true, "htmlcov": true, "node_modules": true,
	"obj": true, "out": true, "Pods": true, "site-packages": true,
	"target": true, "temp": true, "tmp": true, "vendor": true, "venv": true,
}

// IGNORE_SUFFIXES are file suffixes to skip.
var IGNORE_SUFFIXES = map[string]bool{
	".tmp": true, "~": true, ".pyc": true, ".pyo": true, ".min.js": true,
	".o": true, ".a": true, ".so": true, ".dll": true, ".class": true,
}

// FileInfo represents a discovered source file.
type FileInfo struct {
	Path     string        // absolute path
	RelPath  string        // relative to repo root, slash-separated
	Language lang.Language // detected language
}

// Options configures file discovery.
type Options struct {
	IgnoreFile      string   // path to .upignore file, defaults to <repo>/.upignore
	IncludePatterns []string // when non-empty, only matching rel paths survive
	ExcludePatterns []string // rel paths matching any pattern are dropped
}

// Discover walks a repository and returns all source files with a registered
// grammar, in walk order. Symlinks are not followed.
func Discover(ctx context.Context, repoPath string, opts *Options) ([]FileInfo, error) {
	repoPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}

	ignorePath := opts.IgnoreFile
	if ignorePath == "" {
		ignorePath = filepath.Join(repoPath, ".upignore")
	}
	// Missing ignore file is the common case; gitignore semantics otherwise.
	ign, _ := ignore.CompileIgnoreFile(ignorePath)

	var include *ignore.GitIgnore
	if len(opts.IncludePatterns) > 0 {
		include = ignore.CompileIgnoreLines(opts.IncludePatterns...)
	}
	var exclude *ignore.GitIgnore
	if len(opts.ExcludePatterns) > 0 {
		exclude = ignore.CompileIgnoreLines(opts.ExcludePatterns...)
	}

	var files []FileInfo

	err = filepath.Walk(repoPath, func(path string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			return filepath.SkipDir
		}

		rel, _ := filepath.Rel(repoPath, path)
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel == "." {
				return nil
			}
			if IGNORE_PATTERNS[info.Name()] {
				return filepath.SkipDir
			}
			if ign != nil && ign.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			if exclude != nil && exclude.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		for suffix := range IGNORE_SUFFIXES {
			if strings.HasSuffix(path, suffix) {
				return nil
			}
		}
		if ign != nil && ign.MatchesPath(rel) {
			return nil
		}
		if exclude != nil && exclude.MatchesPath(rel) {
			return nil
		}
		if include != nil && !include.MatchesPath(rel) {
			return nil
		}

		l, ok := lang.LanguageForExtension(filepath.Ext(path))
		if !ok {
			return nil
		}
		files = append(files, FileInfo{
			Path:     path,
			RelPath:  rel,
			Language: l,
		})
		return nil
	})

	return files, err
}
