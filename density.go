package resizetizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/resizetizer/resizetizer/types"
)

var (
	tableAndroid = types.DensityTable{
		Naming: types.NamingAndroid,
		Buckets: []types.DensityBucket{
			{Path: "drawable-mdpi", Scale: 1.0, Baseline: true},
			{Path: "drawable-hdpi", Scale: 1.5},
			{Path: "drawable-xhdpi", Scale: 2.0},
			{Path: "drawable-xxhdpi", Scale: 3.0},
			{Path: "drawable-xxxhdpi", Scale: 4.0},
		},
	}
	tableIOS = types.DensityTable{
		Buckets: []types.DensityBucket{
			{Path: "Resources", Scale: 1.0, Baseline: true},
			{Path: "Resources", Suffix: "@2x", Scale: 2.0},
			{Path: "Resources", Suffix: "@3x", Scale: 3.0},
		},
	}
	tableMacOS = types.DensityTable{
		Buckets: []types.DensityBucket{
			{Path: "Resources", Scale: 1.0, Baseline: true},
			{Path: "Resources", Suffix: "@2x", Scale: 2.0},
		},
	}
	tableWindows = types.DensityTable{
		Buckets: []types.DensityBucket{
			{Path: "", Suffix: ".scale-100", Scale: 1.0, Baseline: true},
			{Path: "", Suffix: ".scale-125", Scale: 1.25},
			{Path: "", Suffix: ".scale-150", Scale: 1.5},
			{Path: "", Suffix: ".scale-200", Scale: 2.0},
			{Path: "", Suffix: ".scale-400", Scale: 4.0},
		},
	}

	// builtinTables maps each lower case platform name, including aliases, to its table.
	builtinTables = map[string]types.DensityTable{
		"android":     tableAndroid,
		"ios":         tableIOS,
		"macos":       tableMacOS,
		"mac":         tableMacOS,
		"maccatalyst": tableMacOS,
		"windows":     tableWindows,
		"uwp":         tableWindows,
		"winui":       tableWindows,
	}
)

// ResolveDensity returns the density table for a platform, ordered by ascending scale.
// Tables in custom take precedence over the built-in tables, and names are matched case insensitively.
// Custom names that differ only by case return an error wrapping [types.ErrDuplicate].
// An unknown platform returns a [types.UnsupportedPlatformError].
func ResolveDensity(platform string, custom map[string]types.DensityTable) (types.DensityTable, error) {
	name := strings.ToLower(strings.TrimSpace(platform))
	found := ""
	for k := range custom {
		if strings.ToLower(k) != name {
			continue
		}
		if found != "" {
			return types.DensityTable{}, fmt.Errorf("platforms %s and %s differ only by case%.0w", min(found, k), max(found, k), types.ErrDuplicate)
		}
		found = k
	}
	if found != "" {
		dt := custom[found]
		if err := dt.Validate(); err != nil {
			return types.DensityTable{}, err
		}
		return dt.Sorted(), nil
	}
	if dt, ok := builtinTables[name]; ok {
		return dt.Sorted(), nil
	}
	return types.DensityTable{}, &types.UnsupportedPlatformError{Platform: platform}
}

// Platforms returns the names of the built-in and custom platforms, sorted.
func Platforms(custom map[string]types.DensityTable) []string {
	seen := map[string]bool{}
	names := []string{}
	for name := range builtinTables {
		seen[name] = true
		names = append(names, name)
	}
	for name := range custom {
		lower := strings.ToLower(name)
		if !seen[lower] {
			seen[lower] = true
			names = append(names, lower)
		}
	}
	sort.Strings(names)
	return names
}
