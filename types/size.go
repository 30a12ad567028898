package types

import (
	"fmt"
	"strconv"
	"strings"
)

const sizeSeparators = ",;xX"

// Size is a width and height in pixels.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Scale multiplies both dimensions, rounding to the nearest pixel with a minimum of 1.
func (s Size) Scale(f float64) Size {
	return Size{
		Width:  scaleDim(s.Width, f),
		Height: scaleDim(s.Height, f),
	}
}

func scaleDim(d int, f float64) int {
	v := int(float64(d)*f + 0.5)
	if v < 1 {
		return 1
	}
	return v
}

// ParseSize parses "w,h", "wxh", "w;h", or a single "n" for a square size.
// An empty string returns nil without an error.
func ParseSize(s string) (*Size, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	i := strings.IndexAny(s, sizeSeparators)
	if i < 0 {
		w, err := parseDim(s)
		if err != nil {
			return nil, &ParseError{Field: "width", Value: s, Err: err}
		}
		return &Size{Width: w, Height: w}, nil
	}
	wStr, hStr := s[:i], s[i+1:]
	if strings.ContainsAny(hStr, sizeSeparators) {
		return nil, &ParseError{Field: "size", Value: s, Err: fmt.Errorf("too many separators")}
	}
	w, err := parseDim(wStr)
	if err != nil {
		return nil, &ParseError{Field: "width", Value: s, Err: err}
	}
	h, err := parseDim(hStr)
	if err != nil {
		return nil, &ParseError{Field: "height", Value: s, Err: err}
	}
	return &Size{Width: w, Height: h}, nil
}

func parseDim(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value %d", v)
	}
	return v, nil
}
