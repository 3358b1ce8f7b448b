package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/ugit/pkg/remote"
)

func newPushCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "push <remote> <branch>",
		Short: "Send a branch and its objects to a remote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			upstream, err := openRemote(r, args[0])
			if err != nil {
				return err
			}
			res, err := remote.Push(r, upstream, args[1], force)
			if err != nil {
				return err
			}

			from := "(new)"
			if res.Old != "" {
				from = res.Old.Short()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s..%s %s (%d objects)\n", from, res.New.Short(), res.Ref, res.Objects)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "allow updates that are not fast-forwards")

	return cmd
}
