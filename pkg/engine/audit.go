package engine

import (
	"fmt"
	"os"
	"path/filepath"
)

// AuditReport is the result of cross-checking the sqlite catalogue against
// the snapshot store and cgroup directories — a supplemented feature
// grounded on the teacher's pkg/cpak/cpak.go Audit function, which
// performs the same three-way reconciliation between its store, its
// layers directory and running PIDs.
type AuditReport struct {
	OrphanCatalogueRows []string // rows with no backing subvolume
	OrphanCgroups       []string // cgroup dirs with no backing subvolume
	StalePidFiles       []string // <id>.pid files whose pid is dead
}

// Audit inspects the engine's bookkeeping for drift. With repair set, it
// removes orphaned catalogue rows, orphaned cgroup directories, and stale
// pid files it finds.
func (e *Engine) Audit(repair bool) (report AuditReport, err error) {
	imgs, err := e.store.images()
	if err != nil {
		return report, err
	}
	for _, img := range imgs {
		exists, _ := e.snapshotExists(img.Id)
		if !exists {
			report.OrphanCatalogueRows = append(report.OrphanCatalogueRows, img.Id)
			if repair {
				_ = e.store.removeImage(img.Id)
			}
		}
	}

	containers, err := e.store.containers()
	if err != nil {
		return report, err
	}
	for _, c := range containers {
		exists, _ := e.snapshotExists(c.Id)
		if !exists {
			report.OrphanCatalogueRows = append(report.OrphanCatalogueRows, c.Id)
			if repair {
				_ = e.store.removeContainer(c.Id)
			}
			continue
		}

		pidPath := filepath.Join(e.subvolumePath(c.Id), c.Id+".pid")
		if data, statErr := os.ReadFile(pidPath); statErr == nil {
			var pid int
			fmt.Sscanf(string(data), "%d", &pid)
			if pid != 0 {
				if _, statErr := os.Stat(fmt.Sprintf("/proc/%d", pid)); os.IsNotExist(statErr) {
					report.StalePidFiles = append(report.StalePidFiles, c.Id)
					if repair {
						_ = os.Remove(pidPath)
					}
				}
			}
		}
	}

	entries, err := os.ReadDir(e.Config.CgroupRoot())
	if err == nil {
		for _, ent := range entries {
			if !ent.IsDir() {
				continue
			}
			exists, _ := e.snapshotExists(ent.Name())
			if !exists {
				report.OrphanCgroups = append(report.OrphanCgroups, ent.Name())
				if repair {
					e.removeCgroup(ent.Name())
				}
			}
		}
	}

	return report, nil
}
