package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewAuditCommand cross-checks the sqlite catalogue against the snapshot
// store and cgroup directories — a supplemented feature grounded on the
// teacher's pkg/cpak/cpak.go Audit function, not part of spec.md's core
// command table since it operates on ambient bookkeeping rather than
// lifecycle.
func NewAuditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "check the catalogue against the snapshot store and cgroups",
		Args:  cobra.NoArgs,
		RunE:  runAudit,
	}
	cmd.Flags().Bool("repair", false, "remove orphaned rows, cgroups, and stale pid files")
	return cmd
}

func runAudit(cmd *cobra.Command, args []string) error {
	eng, err := newEngine(cmd)
	if err != nil {
		return opErr("audit", err)
	}
	defer eng.Close()

	repair, _ := cmd.Flags().GetBool("repair")

	report, err := eng.Audit(repair)
	if err != nil {
		return opErr("audit", err)
	}

	var rows [][]string
	for _, id := range report.OrphanCatalogueRows {
		rows = append(rows, []string{id, "orphan catalogue row"})
	}
	for _, id := range report.OrphanCgroups {
		rows = append(rows, []string{id, "orphan cgroup"})
	}
	for _, id := range report.StalePidFiles {
		rows = append(rows, []string{id, "stale pid file"})
	}

	if len(rows) == 0 {
		fmt.Println("no inconsistencies found")
		return nil
	}

	showAuditTable(rows, repair)
	return nil
}

// showAuditTable renders the audit report's rows with a caption reflecting
// whether --repair was passed, so a plain read-only invocation isn't
// mistaken for one that already cleaned the drift it lists.
func showAuditTable(rows [][]string, repaired bool) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "ISSUE"})

	for _, v := range rows {
		table.Append(v)
	}

	fmt.Println()
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.Render()

	if repaired {
		fmt.Printf("%d inconsistencies repaired\n\n", len(rows))
	} else {
		fmt.Printf("%d inconsistencies found (rerun with --repair to fix)\n\n", len(rows))
	}
}
