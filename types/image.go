package types

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/opencontainers/go-digest"
)

// ImageItem is a source image as described by build metadata, before parsing.
type ImageItem struct {
	Path      string `json:"path" yaml:"path"`
	BaseSize  string `json:"baseSize,omitempty" yaml:"baseSize,omitempty"`
	Resize    string `json:"resize,omitempty" yaml:"resize,omitempty"`
	TintColor string `json:"tintColor,omitempty" yaml:"tintColor,omitempty"`
}

// Image describes one source image and its per-image overrides.
type Image struct {
	// Filename is the absolute path to the source, unique within a run.
	Filename string
	// BaseSize overrides the intrinsic size of the source when set.
	BaseSize *Size
	// Resize renders every density bucket, otherwise the source is copied to the baseline bucket.
	Resize bool
	// TintColor is applied uniformly to every rendered pixel when set.
	TintColor *Color
}

// Parse converts the item into an [Image].
// An empty resize flag defaults to true.
func (item ImageItem) Parse() (Image, error) {
	img := Image{Resize: true}
	if strings.TrimSpace(item.Path) == "" {
		return img, &ParseError{Field: "path", Value: item.Path, Err: fmt.Errorf("path is required")}
	}
	abs, err := filepath.Abs(item.Path)
	if err != nil {
		return img, &ParseError{Field: "path", Value: item.Path, Err: err}
	}
	img.Filename = abs
	img.BaseSize, err = ParseSize(item.BaseSize)
	if err != nil {
		return img, err
	}
	if rs := strings.TrimSpace(item.Resize); rs != "" {
		img.Resize, err = strconv.ParseBool(rs)
		if err != nil {
			return img, &ParseError{Field: "resize", Value: item.Resize, Err: err}
		}
	}
	img.TintColor, err = ParseColor(item.TintColor)
	if err != nil {
		return img, err
	}
	return img, nil
}

// Name returns the source file name without directory or extension.
func (img Image) Name() string {
	base := filepath.Base(img.Filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Variant is a file produced for one image at one density bucket.
type Variant struct {
	// Filename is the path of the file on disk, relative when the output root is relative.
	Filename string
	// Rel is the slash separated path within the output root.
	Rel    string
	Bucket DensityBucket
	Source string
	Digest digest.Digest
	Size   int64
}

// Output describes the content written by a renderer or copier.
type Output struct {
	Path string
	// Rel is the slash separated path within the output root.
	Rel    string
	Digest digest.Digest
	Size   int64
}
