package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPullCommand fetches and materializes a remote image (spec.md §6
// "pull").
func NewPullCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pull <name> <tag>",
		Short: "fetch and materialize a remote image",
		Args:  cobra.ExactArgs(2),
		RunE:  runPull,
	}
}

func runPull(cmd *cobra.Command, args []string) error {
	eng, err := newEngine(cmd)
	if err != nil {
		return opErr("pull", err)
	}
	defer eng.Close()

	img, err := eng.Pull(args[0], args[1])
	if err != nil {
		return opErr("pull", err)
	}

	fmt.Printf("Created: %s\n", img.Id)
	return nil
}
