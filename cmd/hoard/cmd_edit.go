package main

import (
	"fmt"

	"github.com/odvcencio/hoard/pkg/repo"
	"github.com/spf13/cobra"
)

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the manifest and sync the working tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			actions, err := r.Edit()
			for _, a := range actions {
				fmt.Fprintln(cmd.OutOrStdout(), a)
			}
			return err
		},
	}
}
