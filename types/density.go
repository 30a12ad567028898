package types

import (
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
)

// Scale is a density multiplier relative to the baseline bucket.
type Scale float64

// String formats the scale with at least one decimal place, e.g. "1.0", "1.5", "1.25".
func (s Scale) String() string {
	str := strconv.FormatFloat(float64(s), 'f', -1, 64)
	if !strings.Contains(str, ".") {
		str += ".0"
	}
	return str
}

// DensityBucket is one scale tier of a platform and where its files are written.
type DensityBucket struct {
	// Path is the directory relative to the output root, e.g. "drawable-hdpi".
	Path string `json:"path" yaml:"path"`
	// Suffix is appended to the file name before the extension, e.g. "@2x".
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Scale  Scale  `json:"scale" yaml:"scale"`
	// Baseline marks the unscaled bucket used for copied images.
	Baseline bool `json:"baseline,omitempty" yaml:"baseline,omitempty"`
}

// Subpath is the identity of the bucket within its table.
func (b DensityBucket) Subpath() string {
	return path.Join(b.Path, "*"+b.Suffix)
}

func (b DensityBucket) String() string {
	return b.Subpath() + " " + b.Scale.String()
}

// FileName returns the output name of base with the bucket suffix inserted before ext.
func (b DensityBucket) FileName(base, ext string) string {
	return base + b.Suffix + ext
}

// Naming is a platform rule applied to output file names.
type Naming int

const (
	NamingPreserve Naming = iota // NamingPreserve keeps the source file name
	NamingAndroid                // NamingAndroid lowercases and replaces characters not valid in an Android resource name
)

func (n Naming) MarshalText() ([]byte, error) {
	var ret string
	switch n {
	case NamingPreserve:
		ret = "preserve"
	case NamingAndroid:
		ret = "android"
	}
	if ret == "" {
		return []byte{}, fmt.Errorf("unknown naming value %d", int(n))
	}
	return []byte(ret), nil
}

func (n *Naming) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	default:
		return fmt.Errorf("unknown naming value \"%s\"", b)
	case "", "preserve":
		*n = NamingPreserve
	case "android":
		*n = NamingAndroid
	}
	return nil
}

// Apply returns the file name adjusted for the naming rule.
func (n Naming) Apply(name string) string {
	if n != NamingAndroid {
		return name
	}
	b := []byte(strings.ToLower(name))
	for i, c := range b {
		if !(('a' <= c && c <= 'z') || ('0' <= c && c <= '9') || c == '_' || c == '.') {
			b[i] = '_'
		}
	}
	return string(b)
}

// DensityTable is the set of buckets for one platform.
type DensityTable struct {
	Buckets []DensityBucket `json:"buckets" yaml:"buckets"`
	Naming  Naming          `json:"naming" yaml:"naming"`
}

// Baseline returns the bucket marked as baseline.
// ok is false only for an empty table.
func (t DensityTable) Baseline() (DensityBucket, bool) {
	for _, b := range t.Buckets {
		if b.Baseline {
			return b, true
		}
	}
	return DensityBucket{}, false
}

// Sorted returns a copy of the table with buckets ordered by ascending scale.
func (t DensityTable) Sorted() DensityTable {
	t2 := DensityTable{
		Buckets: make([]DensityBucket, len(t.Buckets)),
		Naming:  t.Naming,
	}
	copy(t2.Buckets, t.Buckets)
	sort.SliceStable(t2.Buckets, func(i, j int) bool {
		return t2.Buckets[i].Scale < t2.Buckets[j].Scale
	})
	return t2
}

// Validate verifies buckets are distinct, scales are positive, and a non-empty table has one baseline at 1.0.
func (t DensityTable) Validate() error {
	if len(t.Buckets) == 0 {
		return nil
	}
	seen := map[string]bool{}
	baselines := 0
	for _, b := range t.Buckets {
		if b.Scale <= 0 {
			return fmt.Errorf("bucket %s has a non-positive scale%.0w", b.Subpath(), ErrInvalidTable)
		}
		if seen[b.Subpath()] {
			return fmt.Errorf("bucket %s is listed more than once%.0w", b.Subpath(), ErrInvalidTable)
		}
		seen[b.Subpath()] = true
		if b.Baseline {
			if b.Scale != 1 {
				return fmt.Errorf("baseline bucket %s must have scale 1.0, found %s%.0w", b.Subpath(), b.Scale, ErrInvalidTable)
			}
			baselines++
		}
	}
	if baselines != 1 {
		return fmt.Errorf("expected one baseline bucket, found %d%.0w", baselines, ErrInvalidTable)
	}
	return nil
}
