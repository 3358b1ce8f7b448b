package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/odvcencio/ugit/pkg/object"
)

func newHashObjectCmd() *cobra.Command {
	var objType string

	cmd := &cobra.Command{
		Use:   "hash-object <file>",
		Short: "Store a file's content as an object and print its hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			path, err := absPath(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return object.IOError("read "+args[0], err)
			}
			h, err := r.Store.Write(object.ObjectType(objType), data)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().StringVarP(&objType, "type", "t", string(object.TypeBlob), "object type")

	return cmd
}
