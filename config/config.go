// Package config contains data types for configuration of resizetizer.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/resizetizer/resizetizer/internal/slog"
	"github.com/resizetizer/resizetizer/types"
)

type Store int

const (
	StoreUndef Store = iota // undefined backend storage is the invalid zero value
	StoreMem                // StoreMem keeps produced files in memory, for dry runs
	StoreDir                // StoreDir writes produced files under the output directory
)

const (
	PlatformDefault = "android"
	cacheCountDef   = 32
	envPrefix       = "RESIZETIZER_"
)

type Config struct {
	// Platform selects the density table, case insensitive.
	Platform string `yaml:"platform"`

	// Workers limits the number of concurrent jobs, defaults to GOMAXPROCS.
	Workers int `yaml:"workers"`

	// Platforms adds or replaces density tables by platform name.
	Platforms map[string]types.DensityTable `yaml:"platforms"`

	Output ConfigOutput      `yaml:"output"`
	Cache  ConfigCache       `yaml:"cache"`
	Images []types.ImageItem `yaml:"images"`
	Log    slog.Logger       `yaml:"-"`
}

type ConfigOutput struct {
	// Dir is the output root as written, relative paths are resolved against Base.
	Dir       string `yaml:"dir"`
	StoreType Store  `yaml:"store"`

	// Base is the directory of the loaded config file, empty for the working directory.
	Base string `yaml:"-"`

	// RelativePaths reports produced files without converting them to absolute paths.
	RelativePaths *bool `yaml:"relativePaths"`

	Manifest       string               `yaml:"manifest"`
	ManifestFormat types.ManifestFormat `yaml:"manifestFormat"`
}

// ConfigCache limits the decoded sources held while rendering.
type ConfigCache struct {
	Count int           `yaml:"count"`
	Age   time.Duration `yaml:"age"`
}

// SetDefaults fills unset values.
func (c *Config) SetDefaults() {
	if c.Platform == "" {
		c.Platform = PlatformDefault
	}
	if c.Output.StoreType == StoreUndef {
		c.Output.StoreType = StoreDir
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if c.Output.RelativePaths == nil {
		b := false
		c.Output.RelativePaths = &b
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Cache.Count <= 0 {
		c.Cache.Count = cacheCountDef
	}
	if c.Log == nil {
		c.Log = slog.Null{}
	}
}

// LoadFile reads a yaml config file.
// Relative image and manifest paths are resolved against the directory of the file.
// The output dir is kept as written and resolved by [ConfigOutput.Root].
func LoadFile(filename string) (Config, error) {
	c := Config{}
	//#nosec G304 the config file is provided by the user.
	b, err := os.ReadFile(filename)
	if err != nil {
		return c, fmt.Errorf("failed to read config %s: %w", filename, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	err = dec.Decode(&c)
	if err != nil {
		return c, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}
	base := filepath.Dir(filename)
	for i := range c.Images {
		if c.Images[i].Path != "" && !filepath.IsAbs(c.Images[i].Path) {
			c.Images[i].Path = filepath.Join(base, c.Images[i].Path)
		}
	}
	c.Output.Base = base
	if c.Output.Manifest != "" && !filepath.IsAbs(c.Output.Manifest) {
		c.Output.Manifest = filepath.Join(base, c.Output.Manifest)
	}
	names := map[string]string{}
	for name, dt := range c.Platforms {
		lower := strings.ToLower(name)
		if prev, ok := names[lower]; ok {
			return c, fmt.Errorf("platforms %s and %s in %s differ only by case%.0w", prev, name, filename, types.ErrDuplicate)
		}
		names[lower] = name
		if err := dt.Validate(); err != nil {
			return c, fmt.Errorf("platform %s in %s: %w", name, filename, err)
		}
	}
	return c, nil
}

// Root returns the directory files are written under, with a relative Dir resolved against Base.
func (o ConfigOutput) Root() string {
	if o.Base == "" || filepath.IsAbs(o.Dir) {
		return o.Dir
	}
	return filepath.Join(o.Base, o.Dir)
}

// ApplyEnv overrides values from RESIZETIZER_* variables returned by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(envPrefix + "PLATFORM"); ok && v != "" {
		c.Platform = v
	}
	if v, ok := lookup(envPrefix + "OUTPUT"); ok && v != "" {
		c.Output.Dir = v
		c.Output.Base = ""
	}
	if v, ok := lookup(envPrefix + "STORE"); ok && v != "" {
		err := c.Output.StoreType.UnmarshalText([]byte(v))
		if err != nil {
			return fmt.Errorf("%sSTORE: %w", envPrefix, err)
		}
	}
	if v, ok := lookup(envPrefix + "RELATIVE_PATHS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sRELATIVE_PATHS: %w", envPrefix, err)
		}
		c.Output.RelativePaths = &b
	}
	if v, ok := lookup(envPrefix + "WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sWORKERS: %w", envPrefix, err)
		}
		c.Workers = n
	}
	return nil
}

func (s Store) MarshalText() ([]byte, error) {
	var ret string
	switch s {
	case StoreMem:
		ret = "mem"
	case StoreDir:
		ret = "dir"
	}
	if ret == "" {
		return []byte{}, fmt.Errorf("unknown store value %d", int(s))
	}
	return []byte(ret), nil
}

func (s *Store) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	default:
		return fmt.Errorf("unknown store value \"%s\"", b)
	case "mem":
		*s = StoreMem
	case "dir":
		*s = StoreDir
	}
	return nil
}
