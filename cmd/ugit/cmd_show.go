package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/ugit/pkg/object"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [revision]",
		Short: "Show a commit and its changes against the first parent",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			h, err := resolveOrHead(r, args)
			if err != nil {
				return err
			}
			c, err := r.GetCommit(h)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "commit %s\n", h)
			printMessage(out, c)

			var parent object.Hash
			if len(c.Parents) > 0 {
				parent = c.Parents[0]
			}
			return r.DiffCommits(out, parent, h)
		},
	}
}
