package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/ugit/pkg/remote"
)

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <remote>",
		Short: "Copy branches and their objects from a remote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			upstream, err := openRemote(r, args[0])
			if err != nil {
				return err
			}
			res, err := remote.Fetch(r, upstream)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, ref := range res.Refs {
				fmt.Fprintf(out, "%s -> %s\n", ref.Value.Hash().Short(), ref.Name)
			}
			fmt.Fprintf(out, "fetched %d objects\n", res.Objects)
			return nil
		},
	}
}
