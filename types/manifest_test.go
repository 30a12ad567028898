package types

import (
	"bytes"
	"strings"
	"testing"
)

func TestManifestWrite(t *testing.T) {
	t.Parallel()
	m := Manifest{
		Platform: "ios",
		Entries: []ManifestEntry{
			{
				ItemPath:     "out/Resources/logo@2x.png",
				DensityPath:  "Resources",
				DensityScale: "2.0",
				Source:       "/src/logo.svg",
			},
		},
	}
	for _, f := range []ManifestFormat{ManifestJSON, ManifestYAML} {
		name, _ := f.MarshalText()
		t.Run(string(name), func(t *testing.T) {
			buf := &bytes.Buffer{}
			err := m.Write(buf, f)
			if err != nil {
				t.Errorf("failed to write: %v", err)
				return
			}
			if !strings.Contains(buf.String(), "logo@2x.png") {
				t.Errorf("output missing item path: %s", buf.String())
			}
			result, err := ReadManifest(buf, f)
			if err != nil {
				t.Errorf("failed to read: %v", err)
				return
			}
			if len(result.Entries) != 1 || result.Entries[0] != m.Entries[0] || result.Platform != m.Platform {
				t.Errorf("unexpected manifest %v", result)
			}
		})
	}
	t.Run("empty", func(t *testing.T) {
		buf := &bytes.Buffer{}
		err := Manifest{Platform: "web"}.Write(buf, ManifestJSON)
		if err != nil {
			t.Errorf("failed to write: %v", err)
			return
		}
		if !strings.Contains(buf.String(), `"entries": []`) {
			t.Errorf("empty manifest should list no entries: %s", buf.String())
		}
	})
}

func TestManifestEntryMetadata(t *testing.T) {
	t.Parallel()
	me := ManifestEntry{ItemPath: "a.png", DensityPath: "drawable-hdpi", DensityScale: "1.5"}
	meta := me.Metadata()
	if meta[MetaDpiPath] != "drawable-hdpi" || meta[MetaDpiScale] != "1.5" {
		t.Errorf("unexpected metadata %v", meta)
	}
	if _, ok := meta[MetaSource]; ok {
		t.Errorf("source should be omitted when empty")
	}
}
