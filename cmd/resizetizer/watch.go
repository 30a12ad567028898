package main

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/resizetizer/resizetizer"
	"github.com/resizetizer/resizetizer/internal/watch"
)

type watchOpts struct {
	generateOpts
}

func newWatchCmd(root *rootOpts) *cobra.Command {
	opts := watchOpts{
		generateOpts: generateOpts{
			root: root,
		},
	}
	newCmd := &cobra.Command{
		Use:   "watch [image...]",
		Short: "Regenerate variants when images change",
		Long: `Generate the density variants of each image, then regenerate them whenever a source or the config file changes.
Images added to the config file are not watched until the command is restarted.
Runs until interrupted.`,
		RunE: opts.run,
	}
	opts.flags(newCmd)
	return newCmd
}

func (opts *watchOpts) run(cmd *cobra.Command, args []string) error {
	conf, err := opts.loadConfig(cmd, args)
	if err != nil {
		return err
	}
	confFile := ""
	if opts.confFile != "" {
		confFile, err = filepath.Abs(opts.confFile)
		if err != nil {
			return err
		}
	}
	r := resizetizer.New(conf)
	regen := func(ctx context.Context, changed []string) {
		if confFile != "" && slices.Contains(changed, confFile) {
			newConf, err := opts.loadConfig(cmd, args)
			if err != nil {
				opts.root.log.Error("failed to reload config", "file", confFile, "err", err)
				return
			}
			conf = newConf
			r = resizetizer.New(conf)
		}
		r.Forget(changed...)
		m, err := r.Run(ctx, conf.Images)
		if err != nil {
			opts.root.log.Error("generate failed", "err", err)
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
			return
		}
		err = opts.write(cmd, conf, m)
		if err != nil {
			opts.root.log.Error("failed to write output", "err", err)
		}
	}
	regen(cmd.Context(), nil)
	files := []string{}
	for _, item := range conf.Images {
		if item.Path != "" {
			files = append(files, item.Path)
		}
	}
	if confFile != "" {
		files = append(files, confFile)
	}
	opts.root.log.Info("watching images", "count", len(files))
	return watch.Watch(cmd.Context(), files, func(ctx context.Context, changed []string) {
		opts.root.log.Info("regenerating", "changed", changed)
		regen(ctx, changed)
	}, watch.WithLog(opts.root.log))
}
