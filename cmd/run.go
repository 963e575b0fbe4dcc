package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewRunCommand creates and runs a container foreground (spec.md §6
// "run").
func NewRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <image_id> <cmd...>",
		Short: "create and run a container in the foreground",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runRun,
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	eng, err := newEngine(cmd)
	if err != nil {
		return opErr("run", err)
	}
	defer eng.Close()

	imageID := args[0]
	cmdline := strings.Join(args[1:], " ")

	c, err := eng.Run(imageID, cmdline)
	if err != nil {
		return opErr("run", err)
	}

	fmt.Printf("Created: %s\n", c.Id)
	return nil
}
