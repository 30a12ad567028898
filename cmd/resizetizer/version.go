package main

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/resizetizer/resizetizer/internal/template"
)

const versionFormat = `{{ printf "%-10s %s" "VCSTag:" .VCSTag }}
{{ printf "%-10s %s" "VCSRef:" .VCSRef }}
{{ printf "%-10s %s" "VCSState:" .VCSState }}
{{ printf "%-10s %s" "VCSDate:" .VCSDate }}
{{ printf "%-10s %s" "Module:" .Module }}
{{ printf "%-10s %s" "GoVer:" .GoVer }}
{{ printf "%-10s %s" "Platform:" .Platform }}
`

type versionInfo struct {
	VCSTag   string `json:"vcsTag"`
	VCSRef   string `json:"vcsRef"`
	VCSState string `json:"vcsState"`
	VCSDate  string `json:"vcsDate"`
	Module   string `json:"module"`
	GoVer    string `json:"goVer"`
	Platform string `json:"platform"`
}

type versionOpts struct {
	root   *rootOpts
	format string
}

func newVersionCmd(root *rootOpts) *cobra.Command {
	opts := versionOpts{
		root: root,
	}
	newCmd := &cobra.Command{
		Use:   "version",
		Short: "Show the version",
		Long:  "Show the version",
		Args:  cobra.NoArgs,
		RunE:  opts.run,
	}
	newCmd.Flags().StringVar(&opts.format, "format", versionFormat, "format output with go template syntax")
	return newCmd
}

func (opts *versionOpts) run(cmd *cobra.Command, args []string) error {
	info := versionInfo{
		GoVer:    runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		VCSState: "unknown",
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.Module = bi.Main.Path + "@" + bi.Main.Version
		if bi.Main.Version != "(devel)" {
			info.VCSTag = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.VCSRef = s.Value
			case "vcs.time":
				info.VCSDate = s.Value
			case "vcs.modified":
				if s.Value == "true" {
					info.VCSState = "dirty"
				} else {
					info.VCSState = "clean"
				}
			}
		}
	}
	return template.Writer(cmd.OutOrStdout(), opts.format, info)
}
