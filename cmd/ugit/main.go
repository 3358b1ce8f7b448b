package main

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/repo"
)

const version = "ugit 0.1.0-dev"

// Process exit statuses.
const (
	exitOK       = 0
	exitUser     = 1
	exitInternal = 70
	exitNoRepo   = 128
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ugit: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ugit",
		Short:         "A small content-addressed version control system",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(cmd.ErrOrStderr())
			if viper.GetBool("verbose") {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.InfoLevel)
			}
		},
	}

	root.PersistentFlags().StringP("dir", "C", ".", "run as if started in this directory")
	root.PersistentFlags().BoolP("verbose", "v", false, "log debug details to stderr")
	viper.BindPFlag("dir", root.PersistentFlags().Lookup("dir"))
	viper.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	viper.SetEnvPrefix("UGIT")
	viper.AutomaticEnv()

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newHashObjectCmd())
	root.AddCommand(newCatFileCmd())
	root.AddCommand(newWriteTreeCmd())
	root.AddCommand(newReadTreeCmd())
	root.AddCommand(newCommitCmd())
	root.AddCommand(newLogCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newCheckoutCmd())
	root.AddCommand(newBranchCmd())
	root.AddCommand(newTagCmd())
	root.AddCommand(newResetCmd())
	root.AddCommand(newMergeCmd())
	root.AddCommand(newMergeBaseCmd())
	root.AddCommand(newRemoteCmd())
	root.AddCommand(newFetchCmd())
	root.AddCommand(newPushCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// exitCode maps an error to the process exit status: 128 outside a
// repository, 70 for storage faults and corrupt objects, 1 otherwise.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, repo.ErrNotARepository):
		return exitNoRepo
	case errors.Is(err, object.ErrIO),
		errors.Is(err, object.ErrMalformedCommit),
		errors.Is(err, object.ErrMalformedTree):
		return exitInternal
	default:
		return exitUser
	}
}
