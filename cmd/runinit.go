package cmd

import (
	"fmt"
	"os"
	"syscall"

	"github.com/mirkobrombin/bocker/pkg/syncpipe"
	"github.com/mirkobrombin/bocker/pkg/tools"
	"github.com/spf13/cobra"
)

// NewRunInitCommand is the re-exec target the supervisor launches under
// Cloneflags (spec.md §4.6 step 7). It is deliberately not advertised in
// `help`'s command table, the same way the teacher's `spawn` command is
// registered on the root cobra.Command but never meant to be typed by a
// user directly.
func NewRunInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "run-init <container_id> <rootfs> <cmd>",
		Hidden: true,
		Args:   cobra.ExactArgs(3),
		RunE:   runRunInit,
	}
	return cmd
}

// runRunInit performs spec.md §4.6 steps 7a-7e inside the already-cloned
// mount/UTS/IPC/PID namespace set (and, since CLONE_NEWNET was left out of
// the parent's Cloneflags, inside whatever netns the parent's OS thread
// had joined at clone time):
//
//	a. wait for the parent to confirm our pid is in the cgroup
//	b. (already done — network namespace was joined before clone)
//	c. (already done — clone created the remaining namespaces)
//	d. chroot into the container's rootfs
//	e. mount a fresh /proc, then exec the command via /bin/sh -c
func runRunInit(cmd *cobra.Command, args []string) error {
	id, rootfs, cmdline := args[0], args[1], args[2]

	pipeFile := os.NewFile(3, "syncpipe")
	if pipeFile == nil {
		return fmt.Errorf("run-init: sync pipe fd missing")
	}
	if err := syncpipe.WaitForRelease(pipeFile); err != nil {
		return fmt.Errorf("run-init: %w", err)
	}

	if err := tools.MakeMountsPrivate(); err != nil {
		return fmt.Errorf("run-init: isolating mount propagation: %w", err)
	}

	if err := syscall.Sethostname([]byte(id)); err != nil {
		return fmt.Errorf("run-init: setting hostname: %w", err)
	}

	if err := syscall.Chroot(rootfs); err != nil {
		return fmt.Errorf("run-init: chroot into %s: %w", rootfs, err)
	}
	if err := syscall.Chdir("/"); err != nil {
		return fmt.Errorf("run-init: chdir after chroot: %w", err)
	}

	if err := tools.MountProc("/proc"); err != nil {
		return fmt.Errorf("run-init: mounting /proc: %w", err)
	}

	return syscall.Exec("/bin/sh", []string{"sh", "-c", cmdline}, os.Environ())
}
