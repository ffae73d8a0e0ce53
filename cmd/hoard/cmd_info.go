package main

import (
	"fmt"

	"github.com/odvcencio/hoard/pkg/repo"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <name|hash|path>",
		Short: "Show information about an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			info, err := r.Lookup(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:  %s\n", info.Name)
			fmt.Fprintf(out, "hash:  %s\n", info.Hash)
			fmt.Fprintf(out, "inode: %d\n", info.Ino)
			fmt.Fprintf(out, "pool:  %s\n", info.Pool)
			for _, p := range info.Paths {
				fmt.Fprintf(out, "path:  %s\n", p)
			}
			return nil
		},
	}
}
