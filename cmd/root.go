// Package cmd implements the thin command-line dispatcher (spec.md §1's
// "the command-line front-end is a thin dispatcher"): one *cobra.Command
// constructor per verb, each RunE handler building an *engine.Engine from
// the process-wide Config and delegating immediately.
package cmd

import (
	"fmt"
	"os"

	"github.com/mirkobrombin/bocker/pkg/config"
	"github.com/mirkobrombin/bocker/pkg/engine"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCommand assembles the full command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "bocker",
		Short: "a minimal Linux container engine",
		Long:  `bocker manages images and containers on a copy-on-write filesystem, kernel namespaces, a host bridge, and cgroups.`,
	}

	root.PersistentFlags().Int("cpu-share", 512, "legacy CPU share value")
	root.PersistentFlags().Int("mem-limit", 512, "memory ceiling in megabytes")
	root.PersistentFlags().Bool("debug", false, "enable debug logging")

	root.AddCommand(NewInitCommand())
	root.AddCommand(NewPullCommand())
	root.AddCommand(NewImagesCommand())
	root.AddCommand(NewPsCommand())
	root.AddCommand(NewRunCommand())
	root.AddCommand(NewExecCommand())
	root.AddCommand(NewLogsCommand())
	root.AddCommand(NewCommitCommand())
	root.AddCommand(NewRmCommand())
	root.AddCommand(NewRunInitCommand())
	root.AddCommand(NewAuditCommand())

	return root
}

// buildConfig reads the global --cpu-share/--mem-limit/--debug flags
// (spec.md §6's "any --key or --key=value preceding the subcommand")
// against the defaults, and environment overrides for the paths spec.md
// doesn't expose as flags (mirroring the teacher's CPAK_* environment
// override convention in getCpakOptions).
func buildConfig(cmd *cobra.Command) config.Config {
	cfg := config.Defaults()

	if v, err := cmd.Flags().GetInt("cpu-share"); err == nil {
		cfg.CPUShare = v
	}
	if v, err := cmd.Flags().GetInt("mem-limit"); err == nil {
		cfg.MemLimitMB = v
	}
	if v, err := cmd.Flags().GetBool("debug"); err == nil {
		cfg.Debug = v
	}

	if root := os.Getenv("BOCKER_ROOT"); root != "" {
		cfg.Root = root
	}
	if bridge := os.Getenv("BOCKER_BRIDGE"); bridge != "" {
		cfg.BridgeName = bridge
	}
	if ns := os.Getenv("BOCKER_NAMESERVER"); ns != "" {
		cfg.Nameserver = ns
	}

	return cfg
}

func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// newEngine builds the engine used by every verb's RunE handler.
func newEngine(cmd *cobra.Command) (*engine.Engine, error) {
	cfg := buildConfig(cmd)
	return engine.New(cfg, newLogger(cfg))
}

// opErr renders an engine error the way spec.md §7 intends: the category
// is the user-facing classification, the wrapped cause is the detail.
func opErr(verb string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", verb, err)
}
