package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/v0rts/wutag/internal/config"
)

const skipSetup = "wutag/skip-setup"

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "wutag",
		Short:         "Tool to tag and manage tags of files.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := cmd.Annotations[skipSetup]; ok {
				return nil
			}
			return a.setup()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "",
		"config file (default: "+config.DefaultConfigPath()+")")
	flags.StringP("dir", "d", "",
		"start looking for files from this directory instead of the current one")
	flags.IntP("max-depth", "m", 0,
		"maximum recursion depth of filesystem traversal (default 2)")
	flags.BoolP("no-color", "n", false, "disable colored output")
	flags.Bool("debug", false, "enable debug logging")

	_ = a.v.BindPFlag("walk.dir", flags.Lookup("dir"))
	_ = a.v.BindPFlag("walk.max_depth", flags.Lookup("max-depth"))
	_ = a.v.BindPFlag("ui.no_color", flags.Lookup("no-color"))
	_ = a.v.BindPFlag("debug", flags.Lookup("debug"))

	root.AddCommand(
		newListCmd(a),
		newSetCmd(a),
		newRmCmd(a),
		newClearCmd(a),
		newSearchCmd(a),
		newCpCmd(a),
		newEditCmd(a),
		newCleanCacheCmd(a),
		newCompletionsCmd(),
		newConfigCmd(),
	)

	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\n\n%s", err, cmd.UsageString())
	})
	return root
}
