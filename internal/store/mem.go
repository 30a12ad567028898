package store

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"

	"github.com/opencontainers/go-digest"

	"github.com/resizetizer/resizetizer/internal/slog"
	"github.com/resizetizer/resizetizer/types"
)

// Mem is an ephemeral store, used for dry runs and tests.
type Mem struct {
	mu    sync.Mutex
	root  string
	files map[string][]byte
	log   slog.Logger
}

type memUpload struct {
	buffer *bytes.Buffer
	w      io.Writer
	d      digest.Digester
	rel    string
	m      *Mem
}

// NewMem returns a memory store. The root is only used for reported paths.
func NewMem(root string, opts ...Opts) *Mem {
	sc := storeConf{}
	for _, opt := range opts {
		opt(&sc)
	}
	m := &Mem{
		root:  root,
		files: map[string][]byte{},
		log:   sc.log,
	}
	if m.log == nil {
		m.log = slog.Null{}
	}
	return m
}

func (m *Mem) Path(rel string) string {
	return filepath.Join(m.root, filepath.FromSlash(rel))
}

func (m *Mem) Create(rel string) (Writer, error) {
	c, err := cleanRel(rel)
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	dg := digest.Canonical.Digester()
	return &memUpload{
		buffer: buf,
		w:      io.MultiWriter(buf, dg.Hash()),
		d:      dg,
		rel:    c,
		m:      m,
	}, nil
}

func (m *Mem) Open(rel string) (io.ReadCloser, error) {
	c, err := cleanRel(rel)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[c]
	if !ok {
		return nil, fmt.Errorf("failed to open %s: %w", rel, types.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// List returns the relative paths of every committed file, sorted.
func (m *Mem) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]string, 0, len(m.files))
	for rel := range m.files {
		list = append(list, rel)
	}
	sort.Strings(list)
	return list
}

func (mu *memUpload) Write(p []byte) (int, error) {
	if mu.w == nil {
		return 0, fmt.Errorf("writer is closed")
	}
	return mu.w.Write(p)
}

func (mu *memUpload) Close() error {
	if mu.w == nil {
		return fmt.Errorf("writer is closed")
	}
	mu.w = nil
	mu.m.mu.Lock()
	mu.m.files[mu.rel] = mu.buffer.Bytes()
	mu.m.mu.Unlock()
	mu.m.log.Debug("stored file", "path", mu.rel, "size", mu.buffer.Len())
	return nil
}

func (mu *memUpload) Cancel() {
	mu.w = nil
	mu.buffer.Reset()
}

func (mu *memUpload) Size() int64 {
	return int64(mu.buffer.Len())
}

func (mu *memUpload) Digest() digest.Digest {
	return mu.d.Digest()
}
