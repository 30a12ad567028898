package types

// RenderRequest asks a renderer for one density variant of a source image.
type RenderRequest struct {
	// Source is the absolute path of the source image.
	Source string
	// Dest is the output path, slash separated and relative to the output root.
	Dest string
	// BaseSize replaces the intrinsic size of the source before scaling when set.
	BaseSize *Size
	Scale    Scale
	Tint     *Color
}

// TargetSize returns the pixel size of the variant for a source with the given intrinsic size.
func (r RenderRequest) TargetSize(intrinsic Size) Size {
	base := intrinsic
	if r.BaseSize != nil {
		base = *r.BaseSize
	}
	return base.Scale(float64(r.Scale))
}

// CopyRequest asks a copier to place a source unmodified at Dest.
type CopyRequest struct {
	Source string
	Dest   string
}
