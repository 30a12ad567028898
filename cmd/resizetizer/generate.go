package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/resizetizer/resizetizer"
	"github.com/resizetizer/resizetizer/config"
	"github.com/resizetizer/resizetizer/internal/template"
	"github.com/resizetizer/resizetizer/types"
)

type generateOpts struct {
	root           *rootOpts
	confFile       string
	platform       string
	output         string
	storeType      string
	relative       bool
	workers        int
	baseSize       string
	tint           string
	resize         string
	manifest       string
	manifestFormat string
	format         string
}

func newGenerateCmd(root *rootOpts) *cobra.Command {
	opts := generateOpts{
		root: root,
	}
	newCmd := &cobra.Command{
		Use:   "generate [image...]",
		Short: "Generate density variants",
		Long: `Generate the density variants of each image for a platform.
Images are listed as arguments or in the images section of the config file.
The manifest of produced files is written to stdout unless --manifest is set.`,
		Example: `
# generate the android variants of an svg
resizetizer generate --platform android --output Resources icon.svg

# use a base size and tint
resizetizer generate --platform ios --base-size 24x24 --tint "#512BD4" icon.svg

# generate every image in a config file
resizetizer generate --config resizetizer.yaml`,
		RunE: opts.run,
	}
	opts.flags(newCmd)
	return newCmd
}

func (opts *generateOpts) flags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&opts.confFile, "config", "c", "", "yaml config file")
	cmd.Flags().StringVarP(&opts.platform, "platform", "p", config.PlatformDefault, "target platform")
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().StringVar(&opts.storeType, "store", "dir", "storage type (dir, mem)")
	cmd.Flags().BoolVar(&opts.relative, "relative-paths", false, "report output paths without making them absolute")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent jobs, defaults to the number of CPUs")
	cmd.Flags().StringVar(&opts.baseSize, "base-size", "", "base size for image arguments, WxH or a single value")
	cmd.Flags().StringVar(&opts.tint, "tint", "", "tint color for image arguments, #RRGGBB[AA] or a color name")
	cmd.Flags().StringVar(&opts.resize, "resize", "", "set to false to copy image arguments to the baseline density")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "write the manifest to a file")
	cmd.Flags().StringVar(&opts.manifestFormat, "manifest-format", "", "manifest encoding (json, yaml)")
	cmd.Flags().StringVar(&opts.format, "format", "", "format output with go template syntax")
	_ = cmd.RegisterFlagCompletionFunc("platform", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return resizetizer.Platforms(nil), cobra.ShellCompDirectiveNoFileComp
	})
}

// loadConfig merges the config file, environment, flags, and arguments, in increasing precedence.
func (opts *generateOpts) loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	conf := config.Config{}
	var err error
	if opts.confFile != "" {
		conf, err = config.LoadFile(opts.confFile)
		if err != nil {
			return conf, err
		}
	}
	err = conf.ApplyEnv(os.LookupEnv)
	if err != nil {
		return conf, err
	}
	flags := cmd.Flags()
	if flags.Changed("platform") || conf.Platform == "" {
		conf.Platform = opts.platform
	}
	if flags.Changed("output") || conf.Output.Dir == "" {
		conf.Output.Dir = opts.output
		conf.Output.Base = ""
	}
	if flags.Changed("store") || conf.Output.StoreType == config.StoreUndef {
		err = conf.Output.StoreType.UnmarshalText([]byte(opts.storeType))
		if err != nil {
			return conf, fmt.Errorf("unable to parse store type %s: %w", opts.storeType, err)
		}
	}
	if flags.Changed("relative-paths") {
		conf.Output.RelativePaths = &opts.relative
	}
	if flags.Changed("workers") {
		conf.Workers = opts.workers
	}
	if flags.Changed("manifest") {
		conf.Output.Manifest = opts.manifest
	}
	if flags.Changed("manifest-format") {
		err = conf.Output.ManifestFormat.UnmarshalText([]byte(opts.manifestFormat))
		if err != nil {
			return conf, err
		}
	} else if flags.Changed("manifest") {
		// infer from the extension, unknown extensions are written as json
		_ = conf.Output.ManifestFormat.UnmarshalText([]byte(strings.TrimPrefix(filepath.Ext(conf.Output.Manifest), ".")))
	}
	for _, arg := range args {
		conf.Images = append(conf.Images, types.ImageItem{
			Path:      arg,
			BaseSize:  opts.baseSize,
			Resize:    opts.resize,
			TintColor: opts.tint,
		})
	}
	if len(conf.Images) == 0 {
		return conf, fmt.Errorf("no images to generate, list them as arguments or in a config file")
	}
	conf.Log = opts.root.log
	return conf, nil
}

func (opts *generateOpts) run(cmd *cobra.Command, args []string) error {
	conf, err := opts.loadConfig(cmd, args)
	if err != nil {
		return err
	}
	r := resizetizer.New(conf)
	m, err := r.Run(cmd.Context(), conf.Images)
	if err != nil {
		return err
	}
	return opts.write(cmd, conf, m)
}

func (opts *generateOpts) write(cmd *cobra.Command, conf config.Config, m types.Manifest) error {
	if conf.Output.Manifest != "" {
		err := writeManifest(conf.Output.Manifest, conf.Output.ManifestFormat, m)
		if err != nil {
			return err
		}
		opts.root.log.Info("wrote manifest", "file", conf.Output.Manifest, "entries", len(m.Entries))
	}
	if opts.format != "" {
		return template.Writer(cmd.OutOrStdout(), opts.format, m)
	}
	if conf.Output.Manifest == "" {
		return m.Write(cmd.OutOrStdout(), conf.Output.ManifestFormat)
	}
	return nil
}

func writeManifest(filename string, f types.ManifestFormat, m types.Manifest) error {
	//#nosec G304 the manifest file is provided by the user.
	fh, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create manifest %s: %w", filename, err)
	}
	err = m.Write(fh, f)
	if err != nil {
		_ = fh.Close()
		return fmt.Errorf("failed to write manifest %s: %w", filename, err)
	}
	return fh.Close()
}
