package render

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"

	"github.com/resizetizer/resizetizer/internal/store"
	"github.com/resizetizer/resizetizer/types"
)

func TestCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	content := []byte("GIF89a not really a gif")
	srcFile := filepath.Join(t.TempDir(), "anim.gif")
	if err := os.WriteFile(srcFile, content, 0644); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	outDir := t.TempDir()
	s := store.NewDir(outDir)
	c := NewCopier(s)
	t.Run("copy", func(t *testing.T) {
		out, err := c.Copy(ctx, types.CopyRequest{Source: srcFile, Dest: "drawable-mdpi/anim.gif"})
		if err != nil {
			t.Fatalf("failed to copy: %v", err)
		}
		if out.Path != filepath.Join(outDir, "drawable-mdpi", "anim.gif") {
			t.Errorf("unexpected path %s", out.Path)
		}
		if out.Digest != digest.Canonical.FromBytes(content) {
			t.Errorf("unexpected digest %s", out.Digest)
		}
		rdr, err := s.Open("drawable-mdpi/anim.gif")
		if err != nil {
			t.Fatalf("failed to open: %v", err)
		}
		defer rdr.Close()
		b, err := io.ReadAll(rdr)
		if err != nil {
			t.Fatalf("failed to read: %v", err)
		}
		if string(b) != string(content) {
			t.Errorf("content mismatch, expected %s, received %s", content, b)
		}
	})
	t.Run("missing", func(t *testing.T) {
		_, err := c.Copy(ctx, types.CopyRequest{Source: srcFile + ".missing", Dest: "drawable-mdpi/missing.gif"})
		var ie *types.IOError
		if !errors.As(err, &ie) {
			t.Errorf("expected io error, received %v", err)
		}
	})
	t.Run("escape", func(t *testing.T) {
		_, err := c.Copy(ctx, types.CopyRequest{Source: srcFile, Dest: "../anim.gif"})
		if err == nil {
			t.Errorf("copy outside of the output root did not fail")
		}
	})
}
