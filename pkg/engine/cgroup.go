package engine

import (
	"fmt"

	"github.com/containerd/cgroups/v3/cgroup2"
)

// Resource limiter (spec.md §4.5): a cgroup v2 child directory under the
// engine's parent, with best-effort CPU weight and memory ceiling.
// Controller absence or write failure never fails the container — it just
// runs unconstrained on that axis, per the best-effort contract.

// setupCgroup creates (or reuses) the engine's parent cgroup and a child
// group for the container, applying the configured CPU share and memory
// limit.
func (e *Engine) setupCgroup(id string) (*cgroup2.Manager, error) {
	weight := uint64(e.Config.CPUShare * 10000 / 1024)
	memMax := e.Config.MemLimitMB * 1_000_000

	res := &cgroup2.Resources{
		CPU: &cgroup2.CPU{
			Weight: &weight,
		},
		Memory: &cgroup2.Memory{
			Max: int64Ptr(int64(memMax)),
		},
	}

	group := "/" + e.Config.CgroupParent + "/" + id
	mgr, err := cgroup2.NewManager("/sys/fs/cgroup", group, res)
	if err != nil {
		// Best-effort per spec.md §4.5 step 4: controller absence or a
		// delegation failure must not refuse the run. Fall back to an
		// unconstrained group so the container can still be accounted and
		// torn down by ID.
		e.Log.Warnf("cgroup limits unavailable for %s: %v", id, err)
		mgr, err = cgroup2.NewManager("/sys/fs/cgroup", group, &cgroup2.Resources{})
		if err != nil {
			return nil, kernelRefusalErr(id, fmt.Errorf("creating cgroup: %w", err))
		}
	}

	return mgr, nil
}

// joinCgroup adds pid to the container's cgroup process list.
func joinCgroup(mgr *cgroup2.Manager, pid int) error {
	if err := mgr.AddProc(uint64(pid)); err != nil {
		return fmt.Errorf("joining cgroup: %w", err)
	}
	return nil
}

// removeCgroup migrates any remaining PIDs up to the root cgroup
// (best-effort) then deletes the child directory (spec.md §4.5, §4.9).
// A missing cgroup is non-fatal.
func (e *Engine) removeCgroup(id string) {
	group := "/" + e.Config.CgroupParent + "/" + id
	mgr, err := cgroup2.Load(group)
	if err != nil {
		return
	}

	if procs, err := mgr.Procs(false); err == nil {
		if root, rootErr := cgroup2.Load("/"); rootErr == nil {
			for _, p := range procs {
				_ = root.AddProc(p)
			}
		}
	}

	if err := mgr.Delete(); err != nil {
		e.Log.Debugf("removing cgroup %s: %v", id, err)
	}
}

func int64Ptr(v int64) *int64 { return &v }
