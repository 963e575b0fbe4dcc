package engine

import "fmt"

// Remove deletes the subvolume for id (image or container) and its cgroup
// directory if present (spec.md §4.9). A missing cgroup is non-fatal.
func (e *Engine) Remove(id string) error {
	exists, err := e.snapshotExists(id)
	if err != nil {
		return kernelRefusalErr(id, err)
	}
	if !exists {
		return notFoundErr(id, fmt.Errorf("no image or container with that id"))
	}

	if err := e.deleteSubvolume(id); err != nil {
		return err
	}

	e.removeCgroup(id)

	if err := e.store.removeImage(id); err != nil {
		e.Log.Debugf("removing catalogue image row for %s: %v", id, err)
	}
	if err := e.store.removeContainer(id); err != nil {
		e.Log.Debugf("removing catalogue container row for %s: %v", id, err)
	}

	e.Log.Infof("removed %s", id)
	return nil
}
