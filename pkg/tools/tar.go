package tools

import (
	"fmt"
	"os"
	"os/exec"
)

// TarUnpack extracts srcPath into dstPath, used both for a pulled image's
// docker-archive tarball and for each of its layer tarballs in turn
// (spec.md §4.3 pull steps 2-3). "dev" is excluded because layers routinely
// carry device-node entries for /dev/null and friends that an unprivileged
// extraction can't recreate, and bocker's supervisor mounts its own /proc
// and never touches /dev on the host's behalf.
//
// Note: not using the standard library's archive/tar here because it does
// not support the header types some published images' layers contain.
func TarUnpack(srcPath, dstPath string) error {
	cmd := exec.Command("tar", "--exclude", "dev", "-xf", srcPath, "-C", dstPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("extracting %s into %s: %w", srcPath, dstPath, err)
	}
	return nil
}
