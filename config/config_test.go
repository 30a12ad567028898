package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/resizetizer/resizetizer/types"
)

func TestSetDefaults(t *testing.T) {
	t.Parallel()
	c := Config{}
	c.SetDefaults()
	if c.Output.RelativePaths == nil || *c.Output.RelativePaths {
		t.Errorf("relative paths should default to false")
	}
	if c.Platform != PlatformDefault {
		t.Errorf("unexpected platform %s", c.Platform)
	}
	if c.Output.StoreType != StoreDir || c.Output.Dir == "" {
		t.Errorf("output should default to the current directory")
	}
	if c.Workers <= 0 || c.Cache.Count <= 0 {
		t.Errorf("workers and cache count should be positive")
	}
	if c.Log == nil {
		t.Errorf("log should not be nil")
	}
}

func TestStoreMarshal(t *testing.T) {
	t.Parallel()
	tt := []struct {
		val    Store
		str    string
		expErr bool
	}{
		{
			val: StoreDir,
			str: "dir",
		},
		{
			val: StoreMem,
			str: "mem",
		},
		{
			val:    StoreUndef,
			str:    "unknown",
			expErr: true,
		},
	}
	for _, tc := range tt {
		t.Run(tc.str, func(t *testing.T) {
			t.Run("marshal", func(t *testing.T) {
				result, err := tc.val.MarshalText()
				if tc.expErr {
					if err == nil {
						t.Errorf("marshal did not fail")
					}
					return
				}
				if err != nil {
					t.Errorf("failed to marshal: %v", err)
					return
				}
				if string(result) != tc.str {
					t.Errorf("expected %s, received %s", tc.str, string(result))
				}
			})
			t.Run("unmarshal", func(t *testing.T) {
				var s Store
				err := s.UnmarshalText([]byte(tc.str))
				if tc.expErr {
					if err == nil {
						t.Errorf("unmarshal did not fail")
					}
					return
				}
				if err != nil {
					t.Errorf("failed to unmarshal: %v", err)
				}
				if tc.val != s {
					t.Errorf("expected %d, received %d", tc.val, s)
				}
			})
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	good := filepath.Join(tempDir, "good.yaml")
	err := os.WriteFile(good, []byte(`
platform: web
workers: 3
output:
  dir: out
  store: mem
  relativePaths: true
  manifestFormat: yaml
cache:
  count: 4
  age: 2m
platforms:
  web:
    buckets: []
  tv:
    naming: android
    buckets:
      - path: res-1x
        scale: 1
        baseline: true
      - path: res-2x
        scale: 2
images:
  - path: images/logo.svg
    baseSize: 24,24
    tintColor: "#FF0000"
  - path: /abs/photo.png
    resize: "false"
`), 0600)
	if err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	bad := filepath.Join(tempDir, "bad.yaml")
	err = os.WriteFile(bad, []byte(`
platforms:
  tv:
    buckets:
      - path: res-2x
        scale: 2
`), 0600)
	if err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	dupCase := filepath.Join(tempDir, "dup-case.yaml")
	err = os.WriteFile(dupCase, []byte(`
platforms:
  Tizen:
    buckets: []
  tizen:
    buckets: []
`), 0600)
	if err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	unknown := filepath.Join(tempDir, "unknown.yaml")
	err = os.WriteFile(unknown, []byte("plattform: ios\n"), 0600)
	if err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Run("good", func(t *testing.T) {
		c, err := LoadFile(good)
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if c.Platform != "web" || c.Workers != 3 {
			t.Errorf("unexpected platform or workers: %s, %d", c.Platform, c.Workers)
		}
		if c.Output.Dir != "out" || c.Output.Root() != filepath.Join(tempDir, "out") || c.Output.StoreType != StoreMem ||
			c.Output.RelativePaths == nil || !*c.Output.RelativePaths || c.Output.ManifestFormat != types.ManifestYAML {
			t.Errorf("unexpected output %+v", c.Output)
		}
		if c.Cache.Count != 4 || c.Cache.Age != 2*time.Minute {
			t.Errorf("unexpected cache %+v", c.Cache)
		}
		if len(c.Platforms["web"].Buckets) != 0 || len(c.Platforms["tv"].Buckets) != 2 || c.Platforms["tv"].Naming != types.NamingAndroid {
			t.Errorf("unexpected platforms %+v", c.Platforms)
		}
		if len(c.Images) != 2 {
			t.Fatalf("expected 2 images, received %d", len(c.Images))
		}
		if c.Images[0].Path != filepath.Join(tempDir, "images", "logo.svg") || c.Images[0].BaseSize != "24,24" || c.Images[0].TintColor != "#FF0000" {
			t.Errorf("unexpected image %+v", c.Images[0])
		}
		if c.Images[1].Path != "/abs/photo.png" || c.Images[1].Resize != "false" {
			t.Errorf("unexpected image %+v", c.Images[1])
		}
	})
	t.Run("invalid table", func(t *testing.T) {
		_, err := LoadFile(bad)
		if !errors.Is(err, types.ErrInvalidTable) {
			t.Errorf("expected ErrInvalidTable, received %v", err)
		}
	})
	t.Run("platform case duplicate", func(t *testing.T) {
		_, err := LoadFile(dupCase)
		if !errors.Is(err, types.ErrDuplicate) {
			t.Errorf("expected ErrDuplicate, received %v", err)
		}
	})
	t.Run("unknown field", func(t *testing.T) {
		_, err := LoadFile(unknown)
		if err == nil {
			t.Errorf("unknown field did not fail")
		}
	})
	t.Run("missing", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(tempDir, "missing.yaml"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected not exist, received %v", err)
		}
	})
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()
	tt := []struct {
		name   string
		env    map[string]string
		expErr bool
		check  func(t *testing.T, c Config)
	}{
		{
			name: "all",
			env: map[string]string{
				"RESIZETIZER_PLATFORM":       "ios",
				"RESIZETIZER_OUTPUT":         "build",
				"RESIZETIZER_STORE":          "mem",
				"RESIZETIZER_RELATIVE_PATHS": "true",
				"RESIZETIZER_WORKERS":        "2",
			},
			check: func(t *testing.T, c Config) {
				if c.Platform != "ios" || c.Output.Dir != "build" || c.Output.StoreType != StoreMem ||
					c.Output.RelativePaths == nil || !*c.Output.RelativePaths || c.Workers != 2 {
					t.Errorf("unexpected config %+v", c)
				}
			},
		},
		{
			name: "none",
			env:  map[string]string{},
			check: func(t *testing.T, c Config) {
				if c.Platform != "" || c.Workers != 0 {
					t.Errorf("unexpected config %+v", c)
				}
			},
		},
		{
			name:   "bad workers",
			env:    map[string]string{"RESIZETIZER_WORKERS": "many"},
			expErr: true,
		},
		{
			name:   "bad relative",
			env:    map[string]string{"RESIZETIZER_RELATIVE_PATHS": "sometimes"},
			expErr: true,
		},
		{
			name:   "bad store",
			env:    map[string]string{"RESIZETIZER_STORE": "s3"},
			expErr: true,
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			c := Config{}
			err := c.ApplyEnv(func(k string) (string, bool) {
				v, ok := tc.env[k]
				return v, ok
			})
			if tc.expErr {
				if err == nil {
					t.Errorf("did not fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tc.check(t, c)
		})
	}
}

func TestReadEnvFile(t *testing.T) {
	t.Parallel()
	filename := filepath.Join(t.TempDir(), ".env")
	err := os.WriteFile(filename, []byte("RESIZETIZER_PLATFORM=windows\nRESIZETIZER_WORKERS=5\n"), 0600)
	if err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	lookup, err := ReadEnvFile(filename)
	if err != nil {
		t.Fatalf("failed to read env file: %v", err)
	}
	c := Config{}
	err = c.ApplyEnv(lookup)
	if err != nil {
		t.Fatalf("failed to apply env: %v", err)
	}
	if c.Platform != "windows" || c.Workers != 5 {
		t.Errorf("unexpected config %+v", c)
	}
}

func TestOutputRoot(t *testing.T) {
	t.Parallel()
	abs, _ := filepath.Abs("/abs/out")
	tt := []struct {
		name   string
		out    ConfigOutput
		expect string
	}{
		{
			name:   "working dir",
			out:    ConfigOutput{Dir: "out"},
			expect: "out",
		},
		{
			name:   "config dir",
			out:    ConfigOutput{Dir: "out", Base: filepath.Join("conf", "dir")},
			expect: filepath.Join("conf", "dir", "out"),
		},
		{
			name:   "absolute",
			out:    ConfigOutput{Dir: abs, Base: "conf"},
			expect: abs,
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if root := tc.out.Root(); root != tc.expect {
				t.Errorf("expected %s, received %s", tc.expect, root)
			}
		})
	}
}
