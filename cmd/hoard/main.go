package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const rootLong = `A command-line tool for organizing files using hardlinks.

hoard makes it easier to organize and access static files such as videos
and ebooks without a heavyweight GUI application. Everything is managed
with filesystem-native constructs: each file's content is stored once in a
content-addressed pool, and the file can appear in any number of folders
as hardlinks to that single copy.

Use 'hoard init' to create a new hoard.`

func main() {
	var verbose bool

	root := &cobra.Command{
		Use:           "hoard",
		Short:         "Organize files with content-addressed hardlinks",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.WarnLevel
			if verbose {
				level = log.DebugLevel
			}
			handler := log.NewWithOptions(os.Stderr, log.Options{
				Level:           level,
				ReportTimestamp: false,
			})
			slog.SetDefault(slog.New(handler))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newMvCmd())
	root.AddCommand(newRmCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newApplyCmd())
	root.AddCommand(newEditCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newQueryCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "hoard 0.1.0-dev")
		},
	}
}
