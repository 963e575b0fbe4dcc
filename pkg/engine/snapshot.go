package engine

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// The snapshot store wraps a copy-on-write filesystem rooted at
// Config.Root. No real btrfs/zfs device is assumed available; subvolumes
// are plain directories and "snapshot" is a reflink-if-available copy,
// falling back to a full recursive copy — the same best-effort-fast-path,
// always-correct-fallback posture the teacher's pkg/tools/mount.go takes
// with overlay vs fuse-overlayfs.

// subvolumePath returns the on-disk path of a subvolume by ID.
func (e *Engine) subvolumePath(id string) string {
	return filepath.Join(e.Config.Root, id)
}

// snapshotExists reports whether a subvolume with the exact given name
// exists under the configured root (spec.md §4.2 exists).
func (e *Engine) snapshotExists(id string) (bool, error) {
	info, err := os.Stat(e.subvolumePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// createSubvolume creates an empty subvolume; fails if it already exists
// (spec.md §4.2 create).
func (e *Engine) createSubvolume(id string) error {
	exists, err := e.snapshotExists(id)
	if err != nil {
		return kernelRefusalErr(id, err)
	}
	if exists {
		return existsErr(id, fmt.Errorf("subvolume already exists"))
	}
	if err := os.MkdirAll(e.subvolumePath(id), 0o755); err != nil {
		return kernelRefusalErr(id, err)
	}
	return nil
}

// populate copies the contents of srcDir into the subvolume id, preserving
// mode and using reflink where the underlying filesystem supports it
// (spec.md §4.2 populate).
func (e *Engine) populate(id, srcDir string) error {
	info, err := os.Stat(srcDir)
	if err != nil {
		return notFoundErr(srcDir, err)
	}
	if !info.IsDir() {
		return preconditionErr(srcDir, fmt.Errorf("not a directory"))
	}
	return reflinkCopyTree(srcDir+"/.", e.subvolumePath(id))
}

// snapshot creates dstID as a writable copy-on-write clone of srcID
// (spec.md §4.2 snapshot). Delete must succeed even when the destination
// contains files created after the snapshot, which plain recursive removal
// already satisfies.
func (e *Engine) snapshot(srcID, dstID string) error {
	srcExists, err := e.snapshotExists(srcID)
	if err != nil {
		return kernelRefusalErr(srcID, err)
	}
	if !srcExists {
		return notFoundErr(srcID, fmt.Errorf("source subvolume does not exist"))
	}
	dstExists, err := e.snapshotExists(dstID)
	if err != nil {
		return kernelRefusalErr(dstID, err)
	}
	if dstExists {
		return existsErr(dstID, fmt.Errorf("destination subvolume already exists"))
	}
	if err := os.MkdirAll(e.subvolumePath(dstID), 0o755); err != nil {
		return kernelRefusalErr(dstID, err)
	}
	return reflinkCopyTree(e.subvolumePath(srcID)+"/.", e.subvolumePath(dstID))
}

// deleteSubvolume removes a subvolume (spec.md §4.2 delete).
func (e *Engine) deleteSubvolume(id string) error {
	if err := os.RemoveAll(e.subvolumePath(id)); err != nil {
		return kernelRefusalErr(id, err)
	}
	return nil
}

// listSubvolumes enumerates subvolumes whose names begin with prefix
// (spec.md §4.2 list).
func (e *Engine) listSubvolumes(prefix string) ([]string, error) {
	entries, err := os.ReadDir(e.Config.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, kernelRefusalErr("", err)
	}

	var ids []string
	for _, ent := range entries {
		if !ent.IsDir() {
			continue
		}
		if strings.HasPrefix(ent.Name(), prefix) {
			ids = append(ids, ent.Name())
		}
	}
	return ids, nil
}

// renameSubvolume atomically moves a subvolume from srcID to dstID,
// completing commit's snapshot-to-temporary-then-rename sequence.
func (e *Engine) renameSubvolume(srcID, dstID string) error {
	if err := os.Rename(e.subvolumePath(srcID), e.subvolumePath(dstID)); err != nil {
		return kernelRefusalErr(dstID, err)
	}
	return nil
}

// reflinkCopyTree copies src into dst using "cp -a --reflink=auto", the
// same reflink=auto copy original_source/bocker.py's own populate/snapshot
// step performs (there as "cp -rf"; -a here also preserves mode): reflink when the destination filesystem supports copy-on-write
// extents, a transparent full copy otherwise. Shelling out (rather than
// stdlib os/io tree-walking) is the only way to get reflink semantics
// without a cgo btrfs binding, matching the teacher's general posture of
// shelling to a well-understood system tool for filesystem operations it
// doesn't want to reimplement (pkg/tools/tar.go's TarUnpack).
func reflinkCopyTree(src, dst string) error {
	cmd := exec.Command("cp", "-a", "--reflink=auto", src, dst)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("reflink copy %s -> %s: %w", src, dst, err)
	}
	return nil
}
