package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogsCommand prints a container's captured output (spec.md §6
// "logs").
func NewLogsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logs <container_id>",
		Short: "print a container's captured output",
		Args:  cobra.ExactArgs(1),
		RunE:  runLogs,
	}
}

func runLogs(cmd *cobra.Command, args []string) error {
	eng, err := newEngine(cmd)
	if err != nil {
		return opErr("logs", err)
	}
	defer eng.Close()

	out, err := eng.Logs(args[0])
	if err != nil {
		return opErr("logs", err)
	}

	fmt.Print(out)
	return nil
}
