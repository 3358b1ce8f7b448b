package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branch [name [start]]",
		Short: "List branches, or create one at a revision (default HEAD)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			// Create mode.
			if len(args) > 0 {
				start, err := resolveOrHead(r, args[1:])
				if err != nil {
					return err
				}
				if err := r.CreateBranch(args[0], start); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Branch %s created at %s\n", args[0], start.Short())
				return nil
			}

			// List mode.
			branches, err := r.ListBranches()
			if err != nil {
				return err
			}
			current, err := r.CurrentBranch()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, b := range branches {
				if b == current {
					fmt.Fprintf(out, "* %s\n", b)
				} else {
					fmt.Fprintf(out, "  %s\n", b)
				}
			}
			return nil
		},
	}
}
