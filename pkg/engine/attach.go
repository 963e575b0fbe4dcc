package engine

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/process"
	"golang.org/x/sys/unix"
)

// Attach (exec) locates a running container's init process and runs argv
// inside its namespace set (spec.md §4.7). Per the REDESIGN FLAG in
// spec.md §9, this reads the pid recorded at fork time (<id>.pid) instead
// of scanning the host process table for an "unshare ..." command line —
// the original approach is brittle (fails if the binary name differs, or
// if more than one unshare process matches). Liveness is checked with
// gopsutil's process.PidExists, the same library the teacher's
// pkg/cpak/cpak.go Audit function uses for the same purpose.
func (e *Engine) Exec(id string, argv []string) (err error) {
	exists, err := e.snapshotExists(id)
	if err != nil {
		return kernelRefusalErr(id, err)
	}
	if !exists {
		return notFoundErr(id, fmt.Errorf("container does not exist"))
	}

	pid, err := e.readContainerPid(id)
	if err != nil {
		return busyErr(id, fmt.Errorf("container %s is not running: %w", id, err))
	}

	alive, err := process.PidExists(int32(pid))
	if err != nil || !alive {
		return busyErr(id, fmt.Errorf("container %s's init process (pid %d) is not running", id, pid))
	}

	return enterAndExec(pid, argv)
}

func (e *Engine) readContainerPid(id string) (int, error) {
	data, err := os.ReadFile(e.subvolumePath(id) + "/" + id + ".pid")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// enterAndExec joins the target pid's mount, UTS, IPC and network
// namespaces, chroots into its rootfs, then joins its PID namespace and
// runs argv in a forked child — no shell wrapping, per spec.md §4.7 step 3.
//
// The PID namespace has to be handled separately from the rest: per
// setns(2), entering CLONE_NEWPID only affects processes forked by the
// caller afterward, not the caller itself — its own pid and ancestry are
// fixed at its own fork time. Replacing this process's image with
// syscall.Exec, as the other namespaces do safely, would leave argv
// running with the caller's original pid still visible on the host's
// process table. docker-archive-libcontainer's setns path
// (container_linux.go's newSetnsProcess) has the same shape: join
// namespaces, then fork a fresh process to do the work. Here that fork is
// an ordinary exec.Cmd started after the PID namespace setns call, so the
// child — not this process — lands inside the container's PID namespace.
func enterAndExec(pid int, argv []string) error {
	for _, ns := range []string{"mnt", "uts", "ipc", "net"} {
		if err := joinNamespace(pid, ns); err != nil {
			return err
		}
	}

	root := fmt.Sprintf("/proc/%d/root", pid)
	if err := syscall.Chroot(root); err != nil {
		return fmt.Errorf("chroot into pid %d's root: %w", pid, err)
	}
	if err := syscall.Chdir("/"); err != nil {
		return fmt.Errorf("chdir after chroot: %w", err)
	}

	if err := joinNamespace(pid, "pid"); err != nil {
		return err
	}

	if len(argv) == 0 {
		return fmt.Errorf("no command given")
	}
	binPath, err := exec.LookPath(argv[0])
	if err != nil {
		binPath = argv[0]
	}

	cmd := exec.Command(binPath, argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s in pid %d's namespace set: %w", argv[0], pid, err)
	}
	return nil
}

func joinNamespace(pid int, ns string) error {
	f, err := os.Open(fmt.Sprintf("/proc/%d/ns/%s", pid, ns))
	if err != nil {
		return fmt.Errorf("opening %s namespace of pid %d: %w", ns, pid, err)
	}
	defer f.Close()
	if err := unix.Setns(int(f.Fd()), 0); err != nil {
		return fmt.Errorf("entering %s namespace of pid %d: %w", ns, pid, err)
	}
	return nil
}
