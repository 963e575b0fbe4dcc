package cmd

import (
	"github.com/spf13/cobra"
)

// NewExecCommand runs a command inside a running container (spec.md §6
// "exec").
func NewExecCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <container_id> <cmd...>",
		Short: "run a command inside a running container",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runExec,
	}
}

func runExec(cmd *cobra.Command, args []string) error {
	eng, err := newEngine(cmd)
	if err != nil {
		return opErr("exec", err)
	}
	defer eng.Close()

	// Exec runs argv as a forked child inside the container's namespaces
	// and returns once it exits; a non-zero exit comes back as an error.
	return opErr("exec", eng.Exec(args[0], args[1:]))
}
