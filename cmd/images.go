package cmd

import (
	"os"

	"github.com/mirkobrombin/bocker/pkg/tools"
	"github.com/spf13/cobra"
)

// NewImagesCommand lists images with their origin (spec.md §6 "images").
func NewImagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "images",
		Short: "list images with their origin",
		Args:  cobra.NoArgs,
		RunE:  runImages,
	}
}

func runImages(cmd *cobra.Command, args []string) error {
	eng, err := newEngine(cmd)
	if err != nil {
		return opErr("images", err)
	}
	defer eng.Close()

	imgs, err := eng.Images()
	if err != nil {
		return opErr("images", err)
	}

	rows := make([][]string, 0, len(imgs))
	for _, img := range imgs {
		rows = append(rows, []string{img.Id, img.Source})
	}

	return tools.WriteTabTable(os.Stdout, []string{"ID", "SOURCE"}, rows)
}
