package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/v0rts/wutag/internal/config"
)

func newListCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lists all available tags or files.",
	}
	cmd.PersistentFlags().BoolVarP(&raw, "raw", "r", false,
		"plain output that can be piped to other commands")

	tags := &cobra.Command{
		Use:   "tags",
		Short: "Lists all tags in the registry.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error {
				a.svc.ListTags(raw)
				return nil
			})
		},
	}

	var withTags bool
	files := &cobra.Command{
		Use:   "files",
		Short: "Lists all tagged files in the registry.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error {
				a.svc.ListFiles(withTags, raw)
				return nil
			})
		},
	}
	files.Flags().BoolVarP(&withTags, "with-tags", "t", false, "show the tags of each file")

	cmd.AddCommand(tags, files)
	return cmd
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set PATTERN TAGS...",
		Short: "Tags the files that match the given pattern with specified tags.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error {
				return a.svc.Set(cmd.Context(), args[0], args[1:])
			})
		},
	}
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm PATTERN TAGS...",
		Short: "Removes the specified tags of the files that match the provided pattern.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error {
				return a.svc.Remove(cmd.Context(), args[0], args[1:])
			})
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear PATTERN",
		Short: "Clears all tags of the files that match the provided pattern.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error {
				return a.svc.Clear(cmd.Context(), args[0])
			})
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	var raw, anyTag bool

	cmd := &cobra.Command{
		Use:   "search TAGS...",
		Short: "Searches for files that have all of the provided tags.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error {
				_, err := a.svc.Search(cmd.Context(), args, anyTag, raw)
				return err
			})
		},
	}
	cmd.Flags().BoolVarP(&raw, "raw", "r", false,
		"plain output that can be piped to other commands")
	cmd.Flags().BoolVarP(&anyTag, "any", "a", false,
		"return files from the registry having any of the tags")
	return cmd
}

func newCpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cp INPUT_PATH PATTERN",
		Short: "Copies tags from the specified file to files that match a pattern.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error {
				return a.svc.Copy(cmd.Context(), args[0], args[1])
			})
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "edit TAG",
		Short: "Edits a tag.",
		Long: `Edits a tag.

Colors are hex values like 0x000000, #1F1F1F or ff000a (case insensitive)
or terminal color names such as red or bright blue.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error {
				return a.svc.EditColor(args[0], color)
			})
		},
	}
	cmd.Flags().StringVarP(&color, "color", "c", "", "new color of the tag")
	_ = cmd.MarkFlagRequired("color")
	return cmd
}

func newCleanCacheCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clean-cache",
		Short: "Clean the cached tag registry.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func() error {
				a.svc.CleanCache()
				return nil
			})
		},
	}
}

func newCompletionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "print-completions SHELL",
		Short:       "Prints completions for the specified shell to stdout.",
		Long:        "Prints completions for the specified shell to stdout. Available shells are: bash, fish, powershell, zsh",
		Args:        cobra.ExactArgs(1),
		ValidArgs:   []string{"bash", "fish", "powershell", "zsh"},
		Annotations: map[string]string{skipSetup: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			case "zsh":
				return root.GenZshCompletion(out)
			default:
				return fmt.Errorf("invalid shell %q", args[0])
			}
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manages the wutag configuration file.",
		Annotations: map[string]string{skipSetup: ""},
	}

	initCmd := &cobra.Command{
		Use:         "init [PATH]",
		Short:       "Writes the default configuration.",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipSetup: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigPath()
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefaultConfig(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.AddCommand(initCmd)
	return cmd
}
