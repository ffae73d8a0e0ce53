package main

import (
	"fmt"

	"github.com/odvcencio/hoard/pkg/repo"
	"github.com/spf13/cobra"
)

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Sync the working tree to the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			// Actions already performed are reported even when a later
			// step fails; there is no rollback.
			actions, err := r.Apply()
			for _, a := range actions {
				fmt.Fprintln(cmd.OutOrStdout(), a)
			}
			return err
		},
	}
}
