// Package resizetizer generates the density variants of source images required by a platform
// and returns a manifest of every produced file.
package resizetizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/resizetizer/resizetizer/config"
	"github.com/resizetizer/resizetizer/internal/render"
	"github.com/resizetizer/resizetizer/internal/slog"
	"github.com/resizetizer/resizetizer/internal/store"
	"github.com/resizetizer/resizetizer/types"
)

// Renderer produces a resized variant of a source image.
type Renderer interface {
	Render(ctx context.Context, req types.RenderRequest) (types.Output, error)
}

// Copier places an unmodified source image in the output.
type Copier interface {
	Copy(ctx context.Context, req types.CopyRequest) (types.Output, error)
}

// State is a step of a run.
type State int

const (
	StateIdle State = iota
	StateParsingInputs
	StateResolvingDensityTable
	StatePlanning
	StateExecuting
	StateBuildingManifest
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateParsingInputs:
		return "parsing-inputs"
	case StateResolvingDensityTable:
		return "resolving-density-table"
	case StatePlanning:
		return "planning"
	case StateExecuting:
		return "executing"
	case StateBuildingManifest:
		return "building-manifest"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Resizetizer runs the variant generation pipeline.
// It is safe to call Run from multiple goroutines when the runs write to different outputs.
type Resizetizer struct {
	conf     config.Config
	log      slog.Logger
	renderer Renderer
	copier   Copier
	stateFn  func(State)
}

// Opt configures a [Resizetizer].
type Opt func(*Resizetizer)

// WithRenderer replaces the default renderer.
func WithRenderer(rr Renderer) Opt {
	return func(r *Resizetizer) {
		r.renderer = rr
	}
}

// WithCopier replaces the default copier.
func WithCopier(c Copier) Opt {
	return func(r *Resizetizer) {
		r.copier = c
	}
}

// WithStateHook is called on every state transition of a run.
func WithStateHook(fn func(State)) Opt {
	return func(r *Resizetizer) {
		r.stateFn = fn
	}
}

// WithStore writes the default renderer and copier output to s instead of the configured store.
func WithStore(s store.Store) Opt {
	return func(r *Resizetizer) {
		r.renderer = render.New(s, render.WithLog(r.log), render.WithCache(r.conf.Cache.Count, r.conf.Cache.Age))
		r.copier = render.NewCopier(s, render.WithLog(r.log))
	}
}

// New returns a [Resizetizer] for the config.
func New(conf config.Config, opts ...Opt) *Resizetizer {
	conf.SetDefaults()
	r := &Resizetizer{
		conf: conf,
		log:  conf.Log,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.renderer == nil || r.copier == nil {
		var s store.Store
		switch conf.Output.StoreType {
		case config.StoreMem:
			s = store.NewMem(conf.Output.Root(), store.WithLog(r.log))
		default:
			s = store.NewDir(conf.Output.Root(), store.WithLog(r.log))
		}
		if r.renderer == nil {
			r.renderer = render.New(s, render.WithLog(r.log), render.WithCache(conf.Cache.Count, conf.Cache.Age))
		}
		if r.copier == nil {
			r.copier = render.NewCopier(s, render.WithLog(r.log))
		}
	}
	return r
}

type run struct {
	id    string
	state State
	r     *Resizetizer
}

func (rn *run) set(s State) {
	rn.r.log.Debug("state change", "run", rn.id, "from", rn.state.String(), "to", s.String())
	rn.state = s
	if rn.r.stateFn != nil {
		rn.r.stateFn(s)
	}
}

func (rn *run) failed(err error) error {
	rn.r.log.Error("run failed", "run", rn.id, "state", rn.state.String(), "err", err)
	rn.set(StateFailed)
	return err
}

// Run parses the items and generates their variants.
// Every item that fails to parse is reported in a [types.AggregateJobError] before any job runs.
func (r *Resizetizer) Run(ctx context.Context, items []types.ImageItem) (types.Manifest, error) {
	rn := r.newRun()
	rn.set(StateParsingInputs)
	images := make([]types.Image, 0, len(items))
	failures := []*types.JobError{}
	for _, item := range items {
		img, err := item.Parse()
		if err != nil {
			failures = append(failures, &types.JobError{Kind: "parse", Source: item.Path, Err: err})
			continue
		}
		images = append(images, img)
	}
	r.log.Info("parsed images", "run", rn.id, "count", len(images), "failed", len(failures))
	if len(failures) > 0 {
		return types.Manifest{}, rn.failed(&types.AggregateJobError{Errors: failures})
	}
	return r.runImages(ctx, rn, images)
}

// RunImages generates the variants of already parsed images.
func (r *Resizetizer) RunImages(ctx context.Context, images []types.Image) (types.Manifest, error) {
	return r.runImages(ctx, r.newRun(), images)
}

func (r *Resizetizer) newRun() *run {
	rn := &run{
		id:    uuid.NewString(),
		state: StateIdle,
		r:     r,
	}
	if r.stateFn != nil {
		r.stateFn(StateIdle)
	}
	return rn
}

func (r *Resizetizer) runImages(ctx context.Context, rn *run, images []types.Image) (types.Manifest, error) {
	platform := strings.ToLower(strings.TrimSpace(r.conf.Platform))
	rn.set(StateResolvingDensityTable)
	table, err := ResolveDensity(platform, r.conf.Platforms)
	if err != nil {
		return types.Manifest{}, rn.failed(err)
	}
	empty := types.Manifest{Platform: platform, Entries: []types.ManifestEntry{}}
	if len(table.Buckets) == 0 {
		r.log.Info("platform has no density buckets", "run", rn.id, "platform", platform)
		rn.set(StateDone)
		return empty, nil
	}

	rn.set(StatePlanning)
	jobs, err := Plan(images, table)
	if err != nil {
		return types.Manifest{}, rn.failed(err)
	}
	r.log.Info("planned jobs", "run", rn.id, "platform", platform, "images", len(images), "jobs", len(jobs))

	rn.set(StateExecuting)
	start := time.Now()
	variants, err := r.execute(ctx, jobs, r.conf.Workers)
	if err != nil {
		return types.Manifest{}, rn.failed(err)
	}
	r.log.Info("executed jobs", "run", rn.id, "jobs", len(jobs), "duration", time.Since(start))

	rn.set(StateBuildingManifest)
	manifestOpts := []ManifestOpts{}
	if *r.conf.Output.RelativePaths {
		manifestOpts = append(manifestOpts, WithRelativePaths(r.conf.Output.Dir))
	}
	m, err := BuildManifest(platform, variants, manifestOpts...)
	if err != nil {
		return types.Manifest{}, rn.failed(err)
	}
	rn.set(StateDone)
	return m, nil
}

// Forget drops cached decodes of the sources when the renderer keeps any.
func (r *Resizetizer) Forget(filenames ...string) {
	f, ok := r.renderer.(interface{ Forget(string) })
	if !ok {
		return
	}
	for _, filename := range filenames {
		f.Forget(filename)
	}
}
