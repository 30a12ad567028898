package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/resizetizer/resizetizer/internal/slog"
	"github.com/resizetizer/resizetizer/types"
)

type dir struct {
	root string
	log  slog.Logger
}

type dirUpload struct {
	fh       *os.File
	w        io.Writer
	size     int64
	d        digest.Digester
	filename string
	target   string
}

// NewDir returns a store writing under the root directory.
func NewDir(root string, opts ...Opts) Store {
	sc := storeConf{}
	for _, opt := range opts {
		opt(&sc)
	}
	d := &dir{
		root: root,
		log:  sc.log,
	}
	if d.log == nil {
		d.log = slog.Null{}
	}
	return d
}

func (d *dir) Path(rel string) string {
	return filepath.Join(d.root, filepath.FromSlash(rel))
}

// Create writes to a temp file in the target directory that is renamed into place on close.
func (d *dir) Create(rel string) (Writer, error) {
	c, err := cleanRel(rel)
	if err != nil {
		return nil, err
	}
	target := d.Path(c)
	tgtDir := filepath.Dir(target)
	fi, err := os.Stat(tgtDir)
	if err == nil && !fi.IsDir() {
		return nil, &types.IOError{Op: "create", Path: target, Err: fmt.Errorf("%s is not a directory", tgtDir)}
	}
	if err != nil {
		//#nosec G301 directory permissions are intentionally world readable.
		err = os.MkdirAll(tgtDir, 0755)
		if err != nil {
			return nil, &types.IOError{Op: "create", Path: tgtDir, Err: err}
		}
	}
	tf, err := os.CreateTemp(tgtDir, "."+filepath.Base(target)+".*")
	if err != nil {
		return nil, &types.IOError{Op: "create", Path: target, Err: err}
	}
	dg := digest.Canonical.Digester()
	d.log.Debug("writing file", "path", target, "temp", tf.Name())
	return &dirUpload{
		fh:       tf,
		w:        io.MultiWriter(tf, dg.Hash()),
		d:        dg,
		filename: tf.Name(),
		target:   target,
	}, nil
}

func (d *dir) Open(rel string) (io.ReadCloser, error) {
	c, err := cleanRel(rel)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(d.Path(c))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to open %s: %w", rel, types.ErrNotFound)
		}
		return nil, &types.IOError{Op: "open", Path: d.Path(c), Err: err}
	}
	return fh, nil
}

func (du *dirUpload) Write(p []byte) (int, error) {
	if du.w == nil {
		return 0, fmt.Errorf("writer is closed")
	}
	n, err := du.w.Write(p)
	du.size += int64(n)
	return n, err
}

// Close finishes the file and moves it over any previous file at the target.
func (du *dirUpload) Close() error {
	if du.w == nil {
		return fmt.Errorf("writer is closed")
	}
	du.w = nil
	err := du.fh.Close()
	if err != nil {
		_ = os.Remove(du.filename)
		return &types.IOError{Op: "write", Path: du.target, Err: err}
	}
	//#nosec G302 file permissions are intentionally world readable.
	err = os.Chmod(du.filename, 0644)
	if err == nil {
		err = os.Rename(du.filename, du.target)
	}
	if err != nil {
		_ = os.Remove(du.filename)
		return &types.IOError{Op: "write", Path: du.target, Err: err}
	}
	return nil
}

func (du *dirUpload) Cancel() {
	du.w = nil
	if du.fh != nil {
		_ = du.fh.Close()
	}
	_ = os.Remove(du.filename)
}

func (du *dirUpload) Size() int64 {
	return du.size
}

func (du *dirUpload) Digest() digest.Digest {
	return du.d.Digest()
}
