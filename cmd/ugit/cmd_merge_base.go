package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMergeBaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge-base <a> <b>",
		Short: "Print a common ancestor of two commits",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			a, err := r.ResolveRevision(args[0])
			if err != nil {
				return err
			}
			b, err := r.ResolveRevision(args[1])
			if err != nil {
				return err
			}
			base, ok, err := r.MergeBase(a, b)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s and %s have no common ancestor", a.Short(), b.Short())
			}
			fmt.Fprintln(cmd.OutOrStdout(), base)
			return nil
		},
	}
}
