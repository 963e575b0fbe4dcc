package tools

import (
	"fmt"
	"io"
)

// WriteTabTable prints header followed by one tab-separated row per entry
// in rows, matching spec.md §6's scriptable output contract literally:
// "images" and "ps" must emit a header line and one record per object with
// fields joined by a real tab byte, so the output stays greppable and
// cuttable with `cut -f`. text/tabwriter does not do this — it treats tabs
// as column breaks and rewrites them into column-aligned runs of the pad
// character, which would silently violate that contract. Writing the
// joined line straight to w is what the contract actually calls for, so
// this stays the one file in the tree that doesn't reach for a pack
// dependency.
func WriteTabTable(w io.Writer, header []string, rows [][]string) error {
	if _, err := fmt.Fprintln(w, tabJoin(header)); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, tabJoin(row)); err != nil {
			return err
		}
	}
	return nil
}

func tabJoin(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += "\t"
		}
		out += f
	}
	return out
}
