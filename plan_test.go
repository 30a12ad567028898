package resizetizer

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/resizetizer/resizetizer/types"
)

func TestPlan(t *testing.T) {
	t.Parallel()
	icon := types.Image{Filename: "/src/Icon-Main.svg", Resize: true}
	logo := types.Image{Filename: "/src/logo.png", Resize: true}
	splash := types.Image{Filename: "/src/Splash.GIF", Resize: false}
	tt := []struct {
		name        string
		platform    string
		images      []types.Image
		expectKinds []JobKind
		expectDest  []string
		expectErr   error
	}{
		{
			name:        "android resize",
			platform:    "android",
			images:      []types.Image{icon},
			expectKinds: []JobKind{JobRender, JobRender, JobRender, JobRender, JobRender},
			expectDest: []string{
				"drawable-mdpi/icon_main.png",
				"drawable-hdpi/icon_main.png",
				"drawable-xhdpi/icon_main.png",
				"drawable-xxhdpi/icon_main.png",
				"drawable-xxxhdpi/icon_main.png",
			},
		},
		{
			name:        "android copy",
			platform:    "android",
			images:      []types.Image{splash},
			expectKinds: []JobKind{JobCopy},
			expectDest:  []string{"drawable-mdpi/splash.gif"},
		},
		{
			name:        "ios mixed",
			platform:    "ios",
			images:      []types.Image{logo, splash},
			expectKinds: []JobKind{JobRender, JobRender, JobRender, JobCopy},
			expectDest:  []string{"Resources/logo.png", "Resources/logo@2x.png", "Resources/logo@3x.png", "Resources/Splash.GIF"},
		},
		{
			name:        "windows suffix",
			platform:    "windows",
			images:      []types.Image{logo},
			expectKinds: []JobKind{JobRender, JobRender, JobRender, JobRender, JobRender},
			expectDest:  []string{"logo.scale-100.png", "logo.scale-125.png", "logo.scale-150.png", "logo.scale-200.png", "logo.scale-400.png"},
		},
		{
			name:        "no images",
			platform:    "macos",
			images:      []types.Image{},
			expectKinds: []JobKind{},
			expectDest:  []string{},
		},
		{
			name:      "duplicate source",
			platform:  "android",
			images:    []types.Image{logo, logo},
			expectErr: types.ErrDuplicate,
		},
		{
			name:      "duplicate output",
			platform:  "android",
			images:    []types.Image{logo, {Filename: "/other/LOGO.svg", Resize: true}},
			expectErr: types.ErrDuplicate,
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dt, err := ResolveDensity(tc.platform, nil)
			if err != nil {
				t.Fatalf("failed to resolve: %v", err)
			}
			jobs, err := Plan(tc.images, dt)
			if tc.expectErr != nil {
				if !errors.Is(err, tc.expectErr) {
					t.Errorf("expected %v, received %v", tc.expectErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("failed to plan: %v", err)
			}
			kinds := []JobKind{}
			dests := []string{}
			for _, j := range jobs {
				kinds = append(kinds, j.Kind)
				dests = append(dests, j.Dest)
				if j.Kind == JobCopy && !j.Bucket.Baseline {
					t.Errorf("copy job %s is not at the baseline", j.Dest)
				}
			}
			if !slices.Equal(kinds, tc.expectKinds) {
				t.Errorf("expected kinds %v, received %v", tc.expectKinds, kinds)
			}
			if !slices.Equal(dests, tc.expectDest) {
				t.Errorf("expected dests %v, received %v", tc.expectDest, dests)
			}
		})
	}
}

func TestPlanTables(t *testing.T) {
	t.Parallel()
	img := types.Image{Filename: "/src/a.png", Resize: true}
	t.Run("empty", func(t *testing.T) {
		jobs, err := Plan([]types.Image{img}, types.DensityTable{})
		if err != nil {
			t.Fatalf("failed to plan: %v", err)
		}
		if jobs == nil || len(jobs) != 0 {
			t.Errorf("expected an empty job list, received %v", jobs)
		}
	})
	t.Run("no baseline", func(t *testing.T) {
		_, err := Plan([]types.Image{img}, types.DensityTable{
			Buckets: []types.DensityBucket{{Path: "x", Scale: 2.0}},
		})
		if !errors.Is(err, types.ErrInvalidTable) {
			t.Errorf("expected invalid table, received %v", err)
		}
	})
}

type recordGen struct {
	render *types.RenderRequest
	copy   *types.CopyRequest
}

func (g *recordGen) Render(_ context.Context, req types.RenderRequest) (types.Output, error) {
	g.render = &req
	return types.Output{Path: req.Dest}, nil
}

func (g *recordGen) Copy(_ context.Context, req types.CopyRequest) (types.Output, error) {
	g.copy = &req
	return types.Output{Path: req.Dest}, nil
}

func TestJobExecute(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tint := &types.Color{R: 1, A: 255}
	size := &types.Size{Width: 10, Height: 20}
	img := types.Image{Filename: "/src/a.png", Resize: true, TintColor: tint, BaseSize: size}
	bucket := types.DensityBucket{Path: "drawable-hdpi", Scale: 1.5}
	g := &recordGen{}
	_, err := Job{Kind: JobRender, Image: img, Bucket: bucket, Dest: "drawable-hdpi/a.png"}.Execute(ctx, g, g)
	if err != nil {
		t.Fatalf("failed to execute: %v", err)
	}
	if g.render == nil || g.copy != nil {
		t.Fatalf("render job called the wrong collaborator")
	}
	if g.render.Scale != 1.5 || g.render.Tint != tint || g.render.BaseSize != size || g.render.Source != img.Filename {
		t.Errorf("unexpected request: %v", *g.render)
	}
	g = &recordGen{}
	_, err = Job{Kind: JobCopy, Image: img, Bucket: bucket, Dest: "drawable-mdpi/a.png"}.Execute(ctx, g, g)
	if err != nil {
		t.Fatalf("failed to execute: %v", err)
	}
	if g.copy == nil || g.render != nil || g.copy.Dest != "drawable-mdpi/a.png" {
		t.Errorf("copy job called the wrong collaborator")
	}
	_, err = Job{Kind: JobKind(9)}.Execute(ctx, g, g)
	if err == nil {
		t.Errorf("unknown kind did not fail")
	}
}
