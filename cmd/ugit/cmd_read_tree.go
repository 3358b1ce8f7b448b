package main

import (
	"github.com/spf13/cobra"
)

func newReadTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read-tree <tree>",
		Short: "Replace the working directory with the content of a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			h, err := r.ResolveRevision(args[0])
			if err != nil {
				return err
			}
			return r.ReadTree(h)
		},
	}
}
