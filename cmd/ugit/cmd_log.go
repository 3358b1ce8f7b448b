package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/repo"
)

func newLogCmd() *cobra.Command {
	var oneline bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log [revision]",
		Short: "Show commit history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}
			start, err := resolveOrHead(r, args)
			if err != nil {
				return err
			}
			entries, err := r.Log(start, limit)
			if err != nil {
				return err
			}
			decorations, err := refDecorations(r)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, entry := range entries {
				decoration := ""
				if names := decorations[entry.Hash]; len(names) > 0 {
					decoration = " (" + strings.Join(names, ", ") + ")"
				}
				if oneline {
					fmt.Fprintf(out, "%s%s %s\n", entry.Hash.Short(), decoration, firstLine(entry.Commit.Message))
					continue
				}
				fmt.Fprintf(out, "commit %s%s\n", entry.Hash, decoration)
				printMessage(out, entry.Commit)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of commits to show (0 for all)")

	return cmd
}

// refDecorations maps commit hashes to the refs that point at them.
func refDecorations(r *repo.Repo) (map[object.Hash][]string, error) {
	refs, err := r.ListRefs("", true)
	if err != nil {
		return nil, err
	}
	out := make(map[object.Hash][]string)
	for _, ref := range refs {
		h := ref.Value.Hash()
		out[h] = append(out[h], strings.TrimPrefix(ref.Name, "refs/heads/"))
	}
	return out, nil
}

func printMessage(w io.Writer, c *object.CommitObj) {
	if len(c.Parents) > 1 {
		short := make([]string, len(c.Parents))
		for i, p := range c.Parents {
			short[i] = p.Short()
		}
		fmt.Fprintf(w, "Merge: %s\n", strings.Join(short, " "))
	}
	fmt.Fprintln(w)
	for _, line := range strings.Split(strings.TrimRight(c.Message, "\n"), "\n") {
		fmt.Fprintf(w, "    %s\n", line)
	}
	fmt.Fprintln(w)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
