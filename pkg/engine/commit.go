package engine

import "fmt"

// Commit replaces imageID's state with containerID's (spec.md §4.8). The
// original shell implementation deleted the destination image before
// snapshotting the container, which loses the image if the snapshot then
// fails; per spec.md §9's Open Question this implementation snapshots to
// a temporary ID first and only replaces the destination once that
// succeeds.
func (e *Engine) Commit(containerID, imageID string) (err error) {
	cExists, err := e.snapshotExists(containerID)
	if err != nil {
		return kernelRefusalErr(containerID, err)
	}
	if !cExists {
		return notFoundErr(containerID, fmt.Errorf("container does not exist"))
	}

	iExists, err := e.snapshotExists(imageID)
	if err != nil {
		return kernelRefusalErr(imageID, err)
	}
	if !iExists {
		return notFoundErr(imageID, fmt.Errorf("image does not exist"))
	}

	tmpID := imageID + ".commit-tmp"
	if exists, _ := e.snapshotExists(tmpID); exists {
		_ = e.deleteSubvolume(tmpID)
	}

	if err = e.snapshot(containerID, tmpID); err != nil {
		return err
	}

	// Read the image's origin before its subvolume is replaced, so the
	// catalogue row can be re-registered even if the container's tree has
	// no img.source of its own.
	img, readErr := readSourceFile(e.subvolumePath(imageID))

	if err = e.deleteSubvolume(imageID); err != nil {
		_ = e.deleteSubvolume(tmpID)
		return err
	}

	if err = e.renameSubvolume(tmpID, imageID); err != nil {
		return err
	}

	if updErr := e.store.removeImage(imageID); updErr != nil {
		e.Log.Debugf("refreshing catalogue row for %s: %v", imageID, updErr)
	}
	if readErr == nil {
		_ = e.store.newImage(img)
	}

	e.Log.Infof("committed %s into %s", containerID, imageID)
	return nil
}
