package types

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/opencontainers/go-digest"
	"gopkg.in/yaml.v3"
)

// Manifest lists every file produced by a run.
type Manifest struct {
	Platform string          `json:"platform" yaml:"platform"`
	Entries  []ManifestEntry `json:"entries" yaml:"entries"`
}

// ManifestEntry describes one produced file and the density it represents.
type ManifestEntry struct {
	// ItemPath is absolute, or the produced path unmodified when relative paths are enabled.
	ItemPath     string        `json:"itemPath" yaml:"itemPath"`
	DensityPath  string        `json:"densityPath" yaml:"densityPath"`
	DensityScale string        `json:"densityScale" yaml:"densityScale"`
	Source       string        `json:"source,omitempty" yaml:"source,omitempty"`
	Digest       digest.Digest `json:"digest,omitempty" yaml:"digest,omitempty"`
	Size         int64         `json:"size,omitempty" yaml:"size,omitempty"`
}

// Metadata returns the entry as build item metadata.
func (me ManifestEntry) Metadata() map[string]string {
	m := map[string]string{
		MetaDpiPath:  me.DensityPath,
		MetaDpiScale: me.DensityScale,
	}
	if me.Source != "" {
		m[MetaSource] = me.Source
	}
	return m
}

// ManifestFormat selects the encoding of a written manifest.
type ManifestFormat int

const (
	ManifestJSON ManifestFormat = iota
	ManifestYAML
)

func (f ManifestFormat) MarshalText() ([]byte, error) {
	switch f {
	case ManifestJSON:
		return []byte("json"), nil
	case ManifestYAML:
		return []byte("yaml"), nil
	}
	return []byte{}, fmt.Errorf("unknown manifest format %d", int(f))
}

func (f *ManifestFormat) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	default:
		return fmt.Errorf("unknown manifest format \"%s\"", b)
	case "", "json":
		*f = ManifestJSON
	case "yaml", "yml":
		*f = ManifestYAML
	}
	return nil
}

// Write encodes the manifest to w.
func (m Manifest) Write(w io.Writer, f ManifestFormat) error {
	if m.Entries == nil {
		m.Entries = []ManifestEntry{}
	}
	switch f {
	case ManifestYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}
}

// ReadManifest decodes a manifest written by [Manifest.Write].
func ReadManifest(r io.Reader, f ManifestFormat) (Manifest, error) {
	m := Manifest{}
	var err error
	switch f {
	case ManifestYAML:
		err = yaml.NewDecoder(r).Decode(&m)
	default:
		err = json.NewDecoder(r).Decode(&m)
	}
	if err != nil {
		return m, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return m, nil
}
