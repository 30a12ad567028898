package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/resizetizer/resizetizer/config"
	islog "github.com/resizetizer/resizetizer/internal/slog"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

type rootOpts struct {
	log      islog.Logger
	levelStr string
	envFiles []string
}

func newRootCmd() *cobra.Command {
	opts := rootOpts{}
	newCmd := &cobra.Command{
		Use:           "resizetizer <cmd>",
		Short:         "Generate density variants of images",
		Long:          "Generate the density variants of source images required by a target platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.log = islog.Null{}
	newCmd.PersistentFlags().StringVarP(&opts.levelStr, "verbosity", "v", "warn", "Log level (debug, info, warn, error)")
	_ = newCmd.RegisterFlagCompletionFunc("verbosity", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})
	newCmd.PersistentFlags().StringArrayVar(&opts.envFiles, "env-file", []string{}, ".env file with RESIZETIZER_* settings, may be repeated")
	newCmd.PersistentPreRunE = opts.preRun
	newCmd.AddCommand(
		newGenerateCmd(&opts),
		newPlatformsCmd(&opts),
		newVerifyCmd(&opts),
		newVersionCmd(&opts),
		newWatchCmd(&opts),
	)
	return newCmd
}

func (opts *rootOpts) preRun(cmd *cobra.Command, args []string) error {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(opts.levelStr))
	if err != nil {
		return fmt.Errorf("unable to parse verbosity %s: %v", opts.levelStr, err)
	}
	opts.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
	err = config.LoadEnvFiles(opts.envFiles...)
	if err != nil {
		return err
	}
	return nil
}
