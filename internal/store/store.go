// Package store is used to write produced variants to different types of storage (memory, disk).
package store

import (
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	// imports required for go-digest
	_ "crypto/sha256"

	"github.com/opencontainers/go-digest"

	"github.com/resizetizer/resizetizer/internal/slog"
	"github.com/resizetizer/resizetizer/types"
)

// Store holds the files of an output root.
type Store interface {
	// Create begins writing the file at rel, a slash separated path relative to the root.
	// The file is not visible until the returned Writer is closed.
	Create(rel string) (Writer, error)
	// Open returns a reader for a previously written file.
	Open(rel string) (io.ReadCloser, error)
	// Path returns the location reported for rel, joined to the root.
	Path(rel string) string
}

// Writer is used to push content into a new file.
type Writer interface {
	io.Writer
	// Close commits the file to the store.
	Close() error
	// Cancel discards the file.
	Cancel()
	// Size reports the number of bytes written.
	Size() int64
	// Digest returns the digest of the bytes written.
	Digest() digest.Digest
}

type storeConf struct {
	log slog.Logger
}

// Opts includes options for the stores.
type Opts func(*storeConf)

// WithLog includes a logger on the store.
func WithLog(log slog.Logger) Opts {
	return func(sc *storeConf) {
		sc.log = log
	}
}

// Output returns the [types.Output] of a committed writer.
func Output(s Store, rel string, w Writer) types.Output {
	return types.Output{
		Path:   s.Path(rel),
		Rel:    rel,
		Digest: w.Digest(),
		Size:   w.Size(),
	}
}

// cleanRel rejects paths that would escape the root.
func cleanRel(rel string) (string, error) {
	if rel == "" || strings.HasPrefix(rel, "/") || filepath.IsAbs(rel) {
		return "", fmt.Errorf("path %q must be relative to the output root", rel)
	}
	c := path.Clean(filepath.ToSlash(rel))
	if c == "." || c == ".." || strings.HasPrefix(c, "../") {
		return "", fmt.Errorf("path %q is outside of the output root", rel)
	}
	return c, nil
}
