package resizetizer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/resizetizer/resizetizer/types"
)

// results collects job outcomes from concurrent workers.
type results struct {
	mu       sync.Mutex
	variants []types.Variant
	failures []*types.JobError
}

func (res *results) add(v types.Variant) {
	res.mu.Lock()
	res.variants = append(res.variants, v)
	res.mu.Unlock()
}

func (res *results) fail(j Job, err error) {
	b := j.Bucket
	res.mu.Lock()
	res.failures = append(res.failures, &types.JobError{
		Kind:   j.Kind.String(),
		Source: j.Image.Filename,
		Bucket: &b,
		Err:    err,
	})
	res.mu.Unlock()
}

// execute runs every job with at most workers in flight.
// A failed job does not stop the others, and after all jobs finish any failure is returned in a [types.AggregateJobError].
// Once ctx is done, jobs not yet started are recorded as failed with the context error.
func (r *Resizetizer) execute(ctx context.Context, jobs []Job, workers int) ([]types.Variant, error) {
	res := &results{
		variants: make([]types.Variant, 0, len(jobs)),
	}
	g := errgroup.Group{}
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			res.fail(job, err)
			continue
		}
		g.Go(func() error {
			start := time.Now()
			out, err := r.runJob(ctx, job)
			if err != nil {
				r.log.Warn("job failed", "kind", job.Kind, "source", job.Image.Filename, "bucket", job.Bucket.String(), "err", err)
				res.fail(job, err)
				return nil
			}
			res.add(types.Variant{
				Filename: out.Path,
				Rel:      out.Rel,
				Bucket:   job.Bucket,
				Source:   job.Image.Filename,
				Digest:   out.Digest,
				Size:     out.Size,
			})
			r.log.Debug("job complete", "kind", job.Kind, "source", job.Image.Filename, "dest", out.Path, "duration", time.Since(start))
			return nil
		})
	}
	_ = g.Wait()
	if len(res.failures) > 0 {
		sort.SliceStable(res.failures, func(i, j int) bool {
			if res.failures[i].Source != res.failures[j].Source {
				return res.failures[i].Source < res.failures[j].Source
			}
			return res.failures[i].Bucket.Scale < res.failures[j].Bucket.Scale
		})
		return nil, &types.AggregateJobError{Errors: res.failures}
	}
	return res.variants, nil
}

// runJob converts a panic in a collaborator into an error for the job.
func (r *Resizetizer) runJob(ctx context.Context, job Job) (out types.Output, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic in %s job: %v", job.Kind, recovered)
		}
	}()
	return job.Execute(ctx, r.renderer, r.copier)
}
