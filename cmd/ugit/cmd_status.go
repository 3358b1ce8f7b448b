package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current branch and uncommitted changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			st, err := r.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case st.Branch != "":
				fmt.Fprintf(out, "On branch %s\n", st.Branch)
			case st.Head != "":
				fmt.Fprintf(out, "HEAD detached at %s\n", st.Head.Short())
			}
			if st.Head == "" {
				fmt.Fprintln(out, "No commits yet")
			}
			if st.MergeHead != "" {
				fmt.Fprintf(out, "Merging with %s\n", st.MergeHead.Short())
			}

			if len(st.Changes) == 0 {
				fmt.Fprintln(out, "nothing to commit, working tree clean")
				return nil
			}
			fmt.Fprintln(out, "\nChanges to be committed:")
			for _, c := range st.Changes {
				fmt.Fprintf(out, "  %-9s %s\n", c.Kind.String()+":", c.Path)
			}
			return nil
		},
	}
}
