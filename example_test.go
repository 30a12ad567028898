package resizetizer_test

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/resizetizer/resizetizer"
	"github.com/resizetizer/resizetizer/config"
	"github.com/resizetizer/resizetizer/types"
)

func ExampleNew_mem() {
	ctx := context.Background()
	// create a small source image
	dir, err := os.MkdirTemp("", "resizetizer-example")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v", err)
		return
	}
	defer os.RemoveAll(dir)
	srcFile := filepath.Join(dir, "Logo.png")
	fh, err := os.Create(srcFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create source: %v", err)
		return
	}
	err = png.Encode(fh, image.NewNRGBA(image.Rect(0, 0, 16, 16)))
	_ = fh.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode source: %v", err)
		return
	}
	// generate the android variants in memory
	relative := true
	r := resizetizer.New(config.Config{
		Platform: "android",
		Output: config.ConfigOutput{
			Dir:           "out",
			StoreType:     config.StoreMem,
			RelativePaths: &relative,
		},
	})
	m, err := r.Run(ctx, []types.ImageItem{{Path: srcFile}})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v", err)
		return
	}
	for _, e := range m.Entries {
		fmt.Printf("%s %s\n", filepath.ToSlash(e.ItemPath), e.DensityScale)
	}
	// Output:
	// out/drawable-hdpi/logo.png 1.5
	// out/drawable-mdpi/logo.png 1.0
	// out/drawable-xhdpi/logo.png 2.0
	// out/drawable-xxhdpi/logo.png 3.0
	// out/drawable-xxxhdpi/logo.png 4.0
}

func ExampleResolveDensity() {
	dt, err := resizetizer.ResolveDensity("ios", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve: %v", err)
		return
	}
	for _, b := range dt.Buckets {
		fmt.Printf("%s %s\n", b.FileName("icon", ".png"), b.Scale)
	}
	// Output:
	// icon.png 1.0
	// icon@2x.png 2.0
	// icon@3x.png 3.0
}
