package types

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is a non-premultiplied RGBA tint.
type Color struct {
	R, G, B, A uint8
}

// RGBA implements [color.Color].
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// String returns the color as #RRGGBBAA.
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// ParseColor parses "#RRGGBB", "#RRGGBBAA", the "#RGB" and "#RGBA" short forms, or an SVG color name.
// Hex digits are case insensitive. An empty string returns nil without an error.
func ParseColor(s string) (*Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "#") {
		if c, ok := colornames.Map[strings.ToLower(s)]; ok {
			// colornames are fully opaque so premultiplied and straight alpha match
			return &Color{R: c.R, G: c.G, B: c.B, A: c.A}, nil
		}
		return nil, &ParseError{Field: "tint", Value: s, Err: fmt.Errorf("expected #RRGGBB, #RRGGBBAA, or a color name")}
	}
	hex := s[1:]
	digits := make([]uint8, len(hex))
	for i := 0; i < len(hex); i++ {
		d, ok := hexDigit(hex[i])
		if !ok {
			return nil, &ParseError{Field: "tint", Value: s, Err: fmt.Errorf("invalid hex digit %q", hex[i])}
		}
		digits[i] = d
	}
	c := Color{A: 0xff}
	switch len(digits) {
	case 3, 4:
		c.R, c.G, c.B = digits[0]*17, digits[1]*17, digits[2]*17
		if len(digits) == 4 {
			c.A = digits[3] * 17
		}
	case 6, 8:
		c.R = digits[0]<<4 | digits[1]
		c.G = digits[2]<<4 | digits[3]
		c.B = digits[4]<<4 | digits[5]
		if len(digits) == 8 {
			c.A = digits[6]<<4 | digits[7]
		}
	default:
		return nil, &ParseError{Field: "tint", Value: s, Err: fmt.Errorf("unexpected length %d", len(hex))}
	}
	return &c, nil
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
