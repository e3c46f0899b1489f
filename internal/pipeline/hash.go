package pipeline

import (
	"context"
	"encoding/hex"
	"io"
	"os"
	"runtime"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/anhnh2002/Universal-Parser/internal/discover"
)

// contentHash returns the xxh3 hex digest of already-read file content.
func contentHash(data []byte) string {
	h := xxh3.New()
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// fileHash hashes a file on disk without loading it whole.
func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := xxh3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// hashFiles hashes all files in parallel across CPU cores. A file that
// cannot be hashed gets an empty hash, which classifies it as changed.
func hashFiles(ctx context.Context, files []discover.FileInfo) []string {
	hashes := make([]string, len(files))

	numWorkers := runtime.NumCPU()
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	g := new(errgroup.Group)
	g.SetLimit(max(numWorkers, 1))
	for i, f := range files {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			hashes[i], _ = fileHash(f.Path)
			return nil
		})
	}
	_ = g.Wait()
	return hashes
}
