package tools

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
)

// IsMounted checks if the given source path is mounted in the given
// destination path, by reading /proc/mounts.
func IsMounted(srcPath string, destPath string) (bool, error) {
	mounts, err := os.Open("/proc/mounts")
	if err != nil {
		return false, fmt.Errorf("error opening /proc/mounts: %w", err)
	}
	defer mounts.Close()

	scanner := bufio.NewScanner(mounts)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, srcPath) && strings.Contains(line, destPath) {
			return true, nil
		}
	}

	return false, nil
}

// MountProc mounts a fresh procfs at target, matching the container
// supervisor's remount of /proc inside the new PID namespace (spec.md
// §4.6 step 7c/7e). It is a no-op if target is already a procfs mount,
// which run-init can hit if a prior attempt reached this point before
// dying later in the same launch.
func MountProc(target string) error {
	if mounted, err := IsMounted("proc", target); err == nil && mounted {
		return nil
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return err
	}
	return syscall.Mount("proc", target, "proc", syscall.MS_NOEXEC|syscall.MS_NOSUID|syscall.MS_NODEV, "")
}

// MakeMountsPrivate detaches the calling process's mount namespace from
// its parent's propagation group, so later mounts inside the container
// (notably the /proc remount) don't leak back to the host. Grounded on
// other_examples/lutaod-tinydock__container.go's "mount / as MS_SLAVE|
// MS_REC before mounting proc" step.
func MakeMountsPrivate() error {
	return syscall.Mount("", "/", "", syscall.MS_SLAVE|syscall.MS_REC, "")
}
