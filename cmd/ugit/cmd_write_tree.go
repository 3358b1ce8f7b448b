package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWriteTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write-tree [dir]",
		Short: "Snapshot a directory of the working tree as tree objects",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			dir := r.RootDir
			if len(args) == 1 {
				if dir, err = absPath(args[0]); err != nil {
					return err
				}
			}
			h, ok, err := r.WriteTree(dir)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("write-tree: %s is inside the metadata directory", dir)
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}
