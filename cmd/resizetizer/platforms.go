package main

import (
	"github.com/spf13/cobra"

	"github.com/resizetizer/resizetizer"
	"github.com/resizetizer/resizetizer/config"
	"github.com/resizetizer/resizetizer/internal/template"
	"github.com/resizetizer/resizetizer/types"
)

const (
	platformsListFormat  = `{{ range . }}{{ println . }}{{ end }}`
	platformsTableFormat = `{{ range .Buckets }}{{ printf "%-18s %-12s %s" (or .Path ".") (or .Suffix "-") .Scale.String }}{{ if .Baseline }} baseline{{ end }}{{ println }}{{ end }}`
)

type platformsOpts struct {
	root     *rootOpts
	confFile string
	format   string
}

func newPlatformsCmd(root *rootOpts) *cobra.Command {
	opts := platformsOpts{
		root: root,
	}
	newCmd := &cobra.Command{
		Use:   "platforms [platform]",
		Short: "List platforms and their densities",
		Long: `Without arguments, list the supported platform names.
With a platform name, show the density buckets generated for it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: opts.run,
	}
	newCmd.Flags().StringVarP(&opts.confFile, "config", "c", "", "yaml config file with custom platforms")
	newCmd.Flags().StringVar(&opts.format, "format", "", "format output with go template syntax")
	return newCmd
}

func (opts *platformsOpts) run(cmd *cobra.Command, args []string) error {
	custom := map[string]types.DensityTable{}
	if opts.confFile != "" {
		conf, err := config.LoadFile(opts.confFile)
		if err != nil {
			return err
		}
		custom = conf.Platforms
	}
	if len(args) == 0 {
		format := opts.format
		if format == "" {
			format = platformsListFormat
		}
		return template.Writer(cmd.OutOrStdout(), format, resizetizer.Platforms(custom))
	}
	dt, err := resizetizer.ResolveDensity(args[0], custom)
	if err != nil {
		return err
	}
	opts.root.log.Debug("resolved platform", "platform", args[0], "buckets", len(dt.Buckets))
	format := opts.format
	if format == "" {
		format = platformsTableFormat
	}
	return template.Writer(cmd.OutOrStdout(), format, dt)
}
