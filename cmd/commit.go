package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCommitCommand replaces an image with a container's state (spec.md §6
// "commit").
func NewCommitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "commit <container_id> <image_id>",
		Short: "replace an image with a container's state",
		Args:  cobra.ExactArgs(2),
		RunE:  runCommit,
	}
}

func runCommit(cmd *cobra.Command, args []string) error {
	eng, err := newEngine(cmd)
	if err != nil {
		return opErr("commit", err)
	}
	defer eng.Close()

	if err := eng.Commit(args[0], args[1]); err != nil {
		return opErr("commit", err)
	}

	fmt.Printf("Committed: %s into %s\n", args[0], args[1])
	return nil
}
