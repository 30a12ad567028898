package types

import (
	"path/filepath"
	"strings"
)

const (
	// MediaTypePNG is the media type of rendered variants.
	MediaTypePNG = "image/png"
	// MediaTypeJPEG is a JPEG raster source.
	MediaTypeJPEG = "image/jpeg"
	// MediaTypeGIF is a GIF raster source, only the first frame is rendered.
	MediaTypeGIF = "image/gif"
	// MediaTypeWebP is a WebP raster source.
	MediaTypeWebP = "image/webp"
	// MediaTypeBMP is a BMP raster source.
	MediaTypeBMP = "image/bmp"
	// MediaTypeTIFF is a TIFF raster source.
	MediaTypeTIFF = "image/tiff"
	// MediaTypeSVG is a vector source.
	MediaTypeSVG = "image/svg+xml"
)

var extMediaTypes = map[string]string{
	".png":  MediaTypePNG,
	".jpg":  MediaTypeJPEG,
	".jpeg": MediaTypeJPEG,
	".gif":  MediaTypeGIF,
	".webp": MediaTypeWebP,
	".bmp":  MediaTypeBMP,
	".tif":  MediaTypeTIFF,
	".tiff": MediaTypeTIFF,
	".svg":  MediaTypeSVG,
}

// MediaTypeFromPath returns the media type for the file extension, or an empty string when unknown.
func MediaTypeFromPath(p string) string {
	return extMediaTypes[strings.ToLower(filepath.Ext(p))]
}

// MediaTypeVector returns true for media types that are rasterized rather than resampled.
func MediaTypeVector(mt string) bool {
	return mt == MediaTypeSVG
}
