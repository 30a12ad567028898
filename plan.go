package resizetizer

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/resizetizer/resizetizer/types"
)

// JobKind selects the collaborator that produces a variant.
type JobKind int

const (
	JobRender JobKind = iota // JobRender rasterizes the source at the bucket scale
	JobCopy                  // JobCopy places the unmodified source in the baseline bucket
)

func (k JobKind) String() string {
	switch k {
	case JobRender:
		return "render"
	case JobCopy:
		return "copy"
	}
	return fmt.Sprintf("JobKind(%d)", int(k))
}

// Job produces one variant of an image for one density bucket.
type Job struct {
	Kind   JobKind
	Image  types.Image
	Bucket types.DensityBucket
	// Dest is the output path relative to the output root, slash separated.
	Dest string
}

// Execute runs the job with the collaborator for its kind.
func (j Job) Execute(ctx context.Context, r Renderer, c Copier) (types.Output, error) {
	switch j.Kind {
	case JobRender:
		return r.Render(ctx, types.RenderRequest{
			Source:   j.Image.Filename,
			Dest:     j.Dest,
			BaseSize: j.Image.BaseSize,
			Scale:    j.Bucket.Scale,
			Tint:     j.Image.TintColor,
		})
	case JobCopy:
		return c.Copy(ctx, types.CopyRequest{
			Source: j.Image.Filename,
			Dest:   j.Dest,
		})
	}
	return types.Output{}, fmt.Errorf("unknown job kind %d", int(j.Kind))
}

// Plan returns the jobs for every image against the density table.
// Images with Resize set get a render job per bucket, other images get one copy job at the baseline bucket.
// Rendered variants are always written as png.
// Duplicate source filenames and output paths return an error wrapping [types.ErrDuplicate].
func Plan(images []types.Image, table types.DensityTable) ([]Job, error) {
	if len(table.Buckets) == 0 {
		return []Job{}, nil
	}
	baseline, ok := table.Baseline()
	if !ok {
		return nil, fmt.Errorf("density table has no baseline bucket%.0w", types.ErrInvalidTable)
	}
	jobs := make([]Job, 0, len(images)*len(table.Buckets))
	sources := map[string]bool{}
	dests := map[string]string{}
	add := func(j Job) error {
		if prev, ok := dests[j.Dest]; ok {
			return fmt.Errorf("output %s of %s conflicts with %s%.0w", j.Dest, j.Image.Filename, prev, types.ErrDuplicate)
		}
		dests[j.Dest] = j.Image.Filename
		jobs = append(jobs, j)
		return nil
	}
	for _, img := range images {
		if sources[img.Filename] {
			return nil, fmt.Errorf("image %s is listed more than once%.0w", img.Filename, types.ErrDuplicate)
		}
		sources[img.Filename] = true
		if !img.Resize {
			name := table.Naming.Apply(baseline.FileName(img.Name(), filepath.Ext(img.Filename)))
			err := add(Job{
				Kind:   JobCopy,
				Image:  img,
				Bucket: baseline,
				Dest:   path.Join(baseline.Path, name),
			})
			if err != nil {
				return nil, err
			}
			continue
		}
		for _, b := range table.Buckets {
			name := table.Naming.Apply(b.FileName(img.Name(), ".png"))
			err := add(Job{
				Kind:   JobRender,
				Image:  img,
				Bucket: b,
				Dest:   path.Join(b.Path, name),
			})
			if err != nil {
				return nil, err
			}
		}
	}
	return jobs, nil
}
