package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <revision>",
		Short: "Point the current branch at a revision, keeping the working directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			target, err := r.ResolveRevision(args[0])
			if err != nil {
				return err
			}
			if err := r.Reset(target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "HEAD is now at %s\n", target.Short())
			return nil
		},
	}
}
