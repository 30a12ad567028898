package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	// imports required for go-digest
	_ "crypto/sha256"

	"github.com/spf13/cobra"

	"github.com/resizetizer/resizetizer/types"
)

type verifyOpts struct {
	root           *rootOpts
	dir            string
	manifestFormat string
}

func newVerifyCmd(root *rootOpts) *cobra.Command {
	opts := verifyOpts{
		root: root,
	}
	newCmd := &cobra.Command{
		Use:   "verify <manifest>",
		Short: "Verify generated files against a manifest",
		Long: `Recompute the digest of every file listed in a manifest.
Relative item paths are resolved against --dir.`,
		Args: cobra.ExactArgs(1),
		RunE: opts.run,
	}
	newCmd.Flags().StringVar(&opts.dir, "dir", ".", "base directory for relative item paths")
	newCmd.Flags().StringVar(&opts.manifestFormat, "manifest-format", "", "manifest encoding (json, yaml), defaults to the file extension")
	return newCmd
}

func (opts *verifyOpts) run(cmd *cobra.Command, args []string) error {
	var f types.ManifestFormat
	formatStr := opts.manifestFormat
	if formatStr == "" {
		formatStr = strings.TrimPrefix(filepath.Ext(args[0]), ".")
	}
	if err := f.UnmarshalText([]byte(formatStr)); err != nil && opts.manifestFormat != "" {
		return err
	}
	//#nosec G304 the manifest file is provided by the user.
	fh, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open manifest %s: %w", args[0], err)
	}
	m, err := types.ReadManifest(fh, f)
	_ = fh.Close()
	if err != nil {
		return err
	}
	errs := []error{}
	for _, e := range m.Entries {
		filename := e.ItemPath
		if !filepath.IsAbs(filename) {
			filename = filepath.Join(opts.dir, filename)
		}
		err := verifyEntry(filename, e)
		if err != nil {
			opts.root.log.Warn("verify failed", "file", filename, "err", err)
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", e.ItemPath, err)
			errs = append(errs, err)
			continue
		}
		opts.root.log.Debug("verified", "file", filename, "digest", e.Digest.String())
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d files failed verification: %w", len(errs), len(m.Entries), errors.Join(errs...))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "verified %d files\n", len(m.Entries))
	return nil
}

func verifyEntry(filename string, e types.ManifestEntry) error {
	//#nosec G304 files are listed in the manifest.
	fh, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", filename, types.ErrNotFound)
		}
		return &types.IOError{Op: "open", Path: filename, Err: err}
	}
	defer fh.Close()
	if e.Digest == "" {
		return nil
	}
	if err := e.Digest.Validate(); err != nil {
		return fmt.Errorf("invalid digest %s: %w", e.Digest, err)
	}
	v := e.Digest.Verifier()
	n, err := io.Copy(v, fh)
	if err != nil {
		return &types.IOError{Op: "read", Path: filename, Err: err}
	}
	if e.Size > 0 && n != e.Size {
		return fmt.Errorf("size %d, expected %d%.0w", n, e.Size, types.ErrDigestMismatch)
	}
	if !v.Verified() {
		return fmt.Errorf("expected %s%.0w", e.Digest, types.ErrDigestMismatch)
	}
	return nil
}
