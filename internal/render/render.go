// Package render produces density variants of source images and writes them to a store.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"time"

	// registered raster decoders
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"

	"github.com/resizetizer/resizetizer/internal/cache"
	"github.com/resizetizer/resizetizer/internal/slog"
	"github.com/resizetizer/resizetizer/internal/store"
	"github.com/resizetizer/resizetizer/types"
)

type conf struct {
	log        slog.Logger
	cacheCount int
	cacheAge   time.Duration
}

// Opts configures the renderer and copier.
type Opts func(*conf)

// WithLog sets the logger.
func WithLog(log slog.Logger) Opts {
	return func(c *conf) {
		c.log = log
	}
}

// WithCache limits the decoded sources held between jobs.
// A count of zero or less disables the count limit, and an age of zero disables expiration.
func WithCache(count int, age time.Duration) Opts {
	return func(c *conf) {
		c.cacheCount = count
		c.cacheAge = age
	}
}

func newConf(opts []Opts) conf {
	c := conf{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.log == nil {
		c.log = slog.Null{}
	}
	return c
}

// source is a decoded input shared by every job of an image.
// Vector sources keep the raw document since each rasterization mutates the parsed icon.
type source struct {
	raster image.Image
	svg    []byte
	size   types.Size
}

// Renderer rasterizes sources to png at the requested scale.
type Renderer struct {
	store   store.Store
	log     slog.Logger
	sources *cache.Cache[string, *source]
}

// New returns a renderer writing to s.
func New(s store.Store, opts ...Opts) *Renderer {
	c := newConf(opts)
	cacheOpts := []cache.Opts[string, *source]{}
	if c.cacheCount > 0 {
		cacheOpts = append(cacheOpts, cache.WithCount[string, *source](c.cacheCount))
	}
	if c.cacheAge > 0 {
		cacheOpts = append(cacheOpts, cache.WithAge[string, *source](c.cacheAge))
	}
	return &Renderer{
		store:   s,
		log:     c.log,
		sources: cache.New(cacheOpts...),
	}
}

// Render writes the variant described by req.
// Decode and size failures return a [types.RenderError], write failures return a [types.IOError].
func (r *Renderer) Render(ctx context.Context, req types.RenderRequest) (types.Output, error) {
	if err := ctx.Err(); err != nil {
		return types.Output{}, err
	}
	src, err := r.sources.Load(req.Source, func() (*source, error) {
		return r.load(req.Source)
	})
	if err != nil {
		return types.Output{}, err
	}
	if req.BaseSize == nil && (src.size.Width == 0 || src.size.Height == 0) {
		return types.Output{}, &types.RenderError{Source: req.Source, Err: fmt.Errorf("no base size set and the source has no intrinsic size")}
	}
	target := req.TargetSize(src.size)
	var img *image.RGBA
	if src.svg != nil {
		img, err = rasterize(src.svg, target)
		if err != nil {
			return types.Output{}, &types.RenderError{Source: req.Source, Err: err}
		}
	} else {
		img = resample(src.raster, target)
	}
	if req.Tint != nil {
		tint(img, *req.Tint)
	}
	if err := ctx.Err(); err != nil {
		return types.Output{}, err
	}

	w, err := r.store.Create(req.Dest)
	if err != nil {
		return types.Output{}, err
	}
	err = png.Encode(w, img)
	if err != nil {
		w.Cancel()
		return types.Output{}, &types.IOError{Op: "write", Path: r.store.Path(req.Dest), Err: err}
	}
	err = w.Close()
	if err != nil {
		return types.Output{}, err
	}
	r.log.Debug("rendered variant", "source", req.Source, "dest", req.Dest, "scale", req.Scale.String(), "size", target.String())
	return store.Output(r.store, req.Dest, w), nil
}

// Forget drops any cached decode of the source, used when the file changes.
func (r *Renderer) Forget(filename string) {
	r.sources.Delete(filename)
}

func (r *Renderer) load(filename string) (*source, error) {
	//#nosec G304 sources are listed by the caller.
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, &types.IOError{Op: "read", Path: filename, Err: err}
	}
	if types.MediaTypeVector(types.MediaTypeFromPath(filename)) {
		icon, err := oksvg.ReadIconStream(bytes.NewReader(b), oksvg.IgnoreErrorMode)
		if err != nil {
			return nil, &types.RenderError{Source: filename, Err: err}
		}
		r.log.Debug("loaded vector source", "source", filename, "width", icon.ViewBox.W, "height", icon.ViewBox.H)
		return &source{
			svg: b,
			size: types.Size{
				Width:  int(icon.ViewBox.W + 0.5),
				Height: int(icon.ViewBox.H + 0.5),
			},
		}, nil
	}
	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, &types.RenderError{Source: filename, Err: err}
	}
	bounds := img.Bounds()
	r.log.Debug("loaded raster source", "source", filename, "format", format, "width", bounds.Dx(), "height", bounds.Dy())
	return &source{
		raster: img,
		size:   types.Size{Width: bounds.Dx(), Height: bounds.Dy()},
	}, nil
}

func rasterize(doc []byte, target types.Size) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(doc), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(target.Width), float64(target.Height))
	img := image.NewRGBA(image.Rect(0, 0, target.Width, target.Height))
	scanner := rasterx.NewScannerGV(target.Width, target.Height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(target.Width, target.Height, scanner), 1.0)
	return img, nil
}

func resample(src image.Image, target types.Size) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, target.Width, target.Height))
	if src.Bounds().Dx() == target.Width && src.Bounds().Dy() == target.Height {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// tint replaces the color of every pixel with c, scaling the alpha of c by the pixel alpha.
// RGBA pixels are alpha premultiplied.
func tint(img *image.RGBA, c types.Color) {
	tc := color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := uint32(img.Pix[i+3]) * uint32(tc.A) / 255
		img.Pix[i+0] = uint8(uint32(tc.R) * a / 255)
		img.Pix[i+1] = uint8(uint32(tc.G) * a / 255)
		img.Pix[i+2] = uint8(uint32(tc.B) * a / 255)
		img.Pix[i+3] = uint8(a)
	}
}
