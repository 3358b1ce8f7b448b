package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <branch|revision>",
		Short: "Switch the working directory to a branch or commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			if err := r.Checkout(args[0]); err != nil {
				return err
			}

			isBranch, err := r.IsBranch(args[0])
			if err != nil {
				return err
			}
			if isBranch {
				fmt.Fprintf(cmd.OutOrStdout(), "Switched to branch '%s'\n", args[0])
				return nil
			}
			head, _, err := r.Head()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "HEAD is now at %s\n", head.Short())
			return nil
		},
	}
}
