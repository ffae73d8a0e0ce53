package main

import (
	"fmt"

	"github.com/odvcencio/hoard/pkg/repo"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>...",
		Short: "Add files to the hoard",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			results, err := r.Add(args)
			for _, res := range results {
				verb := "exists"
				if res.Stored {
					verb = "stored"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s %s)\n", verb, res.Path, res.Name, res.Hash.Short())
			}
			return err
		},
	}
}
