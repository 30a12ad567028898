package render

import (
	"context"
	"io"
	"os"

	"github.com/resizetizer/resizetizer/internal/slog"
	"github.com/resizetizer/resizetizer/internal/store"
	"github.com/resizetizer/resizetizer/types"
)

// Copier places sources in the store without modification.
type Copier struct {
	store store.Store
	log   slog.Logger
}

// NewCopier returns a copier writing to s.
func NewCopier(s store.Store, opts ...Opts) *Copier {
	c := newConf(opts)
	return &Copier{
		store: s,
		log:   c.log,
	}
}

// Copy writes the bytes of the source to the destination.
// Failures return a [types.IOError].
func (c *Copier) Copy(ctx context.Context, req types.CopyRequest) (types.Output, error) {
	if err := ctx.Err(); err != nil {
		return types.Output{}, err
	}
	//#nosec G304 sources are listed by the caller.
	fh, err := os.Open(req.Source)
	if err != nil {
		return types.Output{}, &types.IOError{Op: "read", Path: req.Source, Err: err}
	}
	defer fh.Close()
	w, err := c.store.Create(req.Dest)
	if err != nil {
		return types.Output{}, err
	}
	_, err = io.Copy(w, fh)
	if err != nil {
		w.Cancel()
		return types.Output{}, &types.IOError{Op: "copy", Path: req.Source, Err: err}
	}
	err = w.Close()
	if err != nil {
		return types.Output{}, err
	}
	c.log.Debug("copied source", "source", req.Source, "dest", req.Dest, "size", w.Size())
	return store.Output(c.store, req.Dest, w), nil
}
