package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/ugit/pkg/repo"
)

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <revision>",
		Short: "Merge a revision into HEAD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			other, err := r.ResolveRevision(args[0])
			if err != nil {
				return err
			}
			report, err := r.Merge(other)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch report.Kind {
			case repo.MergeUpToDate:
				fmt.Fprintln(out, "Already up to date.")
			case repo.MergeFastForward:
				fmt.Fprintf(out, "Fast-forward to %s\n", other.Short())
			case repo.MergeThreeWay:
				for _, p := range report.Conflicts {
					fmt.Fprintf(out, "CONFLICT (content): Merge conflict in %s\n", p)
				}
				if len(report.Conflicts) > 0 {
					fmt.Fprintln(out, "Fix conflicts and then commit the result.")
				} else {
					fmt.Fprintln(out, "Merged in working tree. Please commit.")
				}
			}
			return nil
		},
	}
}
