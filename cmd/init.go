package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitCommand creates an image from a local directory tree (spec.md
// §6 "init").
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init <directory>",
		Short: "create an image from a local directory tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runInitImage,
	}
}

func runInitImage(cmd *cobra.Command, args []string) error {
	eng, err := newEngine(cmd)
	if err != nil {
		return opErr("init", err)
	}
	defer eng.Close()

	img, err := eng.Init(args[0])
	if err != nil {
		return opErr("init", err)
	}

	fmt.Printf("Created: %s\n", img.Id)
	return nil
}
