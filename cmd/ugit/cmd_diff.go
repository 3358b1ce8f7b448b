package main

import (
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff [from] [to]",
		Short: "Show changes between commits, or between a commit and the working directory",
		Long: "With no arguments, compares HEAD with the working directory. With one\n" +
			"revision, compares it with the working directory. With two, compares\n" +
			"the two commits.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 2 {
				from, err := r.ResolveRevision(args[0])
				if err != nil {
					return err
				}
				to, err := r.ResolveRevision(args[1])
				if err != nil {
					return err
				}
				return r.DiffCommits(out, from, to)
			}

			from, _, err := r.Head()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if from, err = r.ResolveRevision(args[0]); err != nil {
					return err
				}
			}
			return r.DiffWorking(out, from)
		},
	}
}
