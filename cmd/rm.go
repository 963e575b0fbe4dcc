package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRmCommand deletes an image or container (spec.md §6 "rm").
func NewRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "delete an image or container",
		Args:  cobra.ExactArgs(1),
		RunE:  runRm,
	}
}

func runRm(cmd *cobra.Command, args []string) error {
	eng, err := newEngine(cmd)
	if err != nil {
		return opErr("rm", err)
	}
	defer eng.Close()

	if err := eng.Remove(args[0]); err != nil {
		return opErr("rm", err)
	}

	fmt.Printf("Removed: %s\n", args[0])
	return nil
}
