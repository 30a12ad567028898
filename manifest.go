package resizetizer

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/resizetizer/resizetizer/types"
)

type manifestConf struct {
	relative bool
	root     string
}

// ManifestOpts configures [BuildManifest].
type ManifestOpts func(*manifestConf)

// WithRelativePaths reports each item as its path within the output root joined to root, unmodified.
// The root should be the output directory as configured, before any resolution.
func WithRelativePaths(root string) ManifestOpts {
	return func(mc *manifestConf) {
		mc.relative = true
		mc.root = root
	}
}

// BuildManifest returns one entry per variant.
// Item paths are made absolute unless [WithRelativePaths] is set.
// Entries are sorted by item path for display.
func BuildManifest(platform string, variants []types.Variant, opts ...ManifestOpts) (types.Manifest, error) {
	mc := manifestConf{}
	for _, opt := range opts {
		opt(&mc)
	}
	m := types.Manifest{
		Platform: platform,
		Entries:  make([]types.ManifestEntry, 0, len(variants)),
	}
	for _, v := range variants {
		var itemPath string
		switch {
		case mc.relative && v.Rel != "":
			itemPath = filepath.Join(mc.root, filepath.FromSlash(v.Rel))
		case mc.relative:
			itemPath = v.Filename
		default:
			abs, err := filepath.Abs(v.Filename)
			if err != nil {
				return types.Manifest{}, fmt.Errorf("failed to resolve %s: %w", v.Filename, err)
			}
			itemPath = abs
		}
		m.Entries = append(m.Entries, types.ManifestEntry{
			ItemPath:     itemPath,
			DensityPath:  v.Bucket.Path,
			DensityScale: v.Bucket.Scale.String(),
			Source:       v.Source,
			Digest:       v.Digest,
			Size:         v.Size,
		})
	}
	sort.SliceStable(m.Entries, func(i, j int) bool {
		return m.Entries[i].ItemPath < m.Entries[j].ItemPath
	})
	return m, nil
}
