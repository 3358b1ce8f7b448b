package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/ugit/pkg/object"
)

func newCatFileCmd() *cobra.Command {
	var showType bool

	cmd := &cobra.Command{
		Use:   "cat-file <object>",
		Short: "Print the payload of an object",
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
			objType, data, err := r.Store.Read(h)
			if err != nil {
				return err
			}
			if showType {
				fmt.Fprintln(cmd.OutOrStdout(), objType)
				return nil
			}
			if objType == object.TypeTree {
				return printTree(cmd, data)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVarP(&showType, "type", "t", false, "print the object type instead of its payload")

	return cmd
}

func printTree(cmd *cobra.Command, data []byte) error {
	tree, err := object.UnmarshalTree(data)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, e := range tree.Entries {
		fmt.Fprintf(out, "%s %s\t%s\n", e.Type, e.Hash, e.Name)
	}
	return nil
}
