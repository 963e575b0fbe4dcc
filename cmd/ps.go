package cmd

import (
	"os"

	"github.com/mirkobrombin/bocker/pkg/tools"
	"github.com/spf13/cobra"
)

// NewPsCommand lists containers with their launch command (spec.md §6
// "ps").
func NewPsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ps",
		Short: "list containers with their command",
		Args:  cobra.NoArgs,
		RunE:  runPs,
	}
}

func runPs(cmd *cobra.Command, args []string) error {
	eng, err := newEngine(cmd)
	if err != nil {
		return opErr("ps", err)
	}
	defer eng.Close()

	containers, err := eng.Containers()
	if err != nil {
		return opErr("ps", err)
	}

	rows := make([][]string, 0, len(containers))
	for _, c := range containers {
		rows = append(rows, []string{c.Id, c.Cmd})
	}

	return tools.WriteTabTable(os.Stdout, []string{"ID", "COMMAND"}, rows)
}
