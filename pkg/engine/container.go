package engine

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/containerd/cgroups/v3/cgroup2"
	"github.com/mirkobrombin/bocker/pkg/syncpipe"
	"github.com/mirkobrombin/bocker/pkg/types"
	"github.com/vishvananda/netns"
)

// Container supervisor (spec.md §4.6). The original shell implementation
// built its child with "ip netns exec ... unshare ... chroot ..." string
// interpolation; per spec.md §9 this is replaced with a direct re-exec of
// the engine binary under syscall.SysProcAttr.Cloneflags, the pattern
// other_examples/lutaod-tinydock__container.go uses for its own
// /proc/self/exe-based child.
//
// Two orderings the atomic clone-time namespace model cannot express on
// its own are enforced explicitly:
//   - network namespace entry must precede the mount/UTS/IPC/PID
//     namespace set the clone creates, so CLONE_NEWNET is deliberately
//     left out of Cloneflags; instead the parent locks its OS thread,
//     joins the target netns with netns.Set before calling cmd.Start(),
//     and the forked child inherits whichever netns the thread was in at
//     clone time.
//   - the cgroup must be joined before the child proceeds past its
//     namespace transition; enforced with a syncpipe handshake (see
//     pkg/syncpipe), grounded on docker-archive-libcontainer/syncpipe.

const resolvConfPath = "etc/resolv.conf"

// Run creates and runs a container foreground from imageID (spec.md §4.6).
func (e *Engine) Run(imageID, cmdline string) (c types.Container, err error) {
	if _, err = e.store.getImage(imageID); err != nil {
		return types.Container{}, err
	}

	id, err := e.allocate(kindContainer)
	if err != nil {
		return types.Container{}, err
	}
	nnn, err := suffix(id)
	if err != nil {
		return types.Container{}, kernelRefusalErr(id, err)
	}

	if err = e.setupNetwork(id, nnn); err != nil {
		return types.Container{}, err
	}
	// Any failure from here on must tear the network back down before
	// surfacing, per spec.md §7's best-effort-reverse-teardown policy.
	cleanup := func() { e.teardownNetwork(id) }

	if err = e.snapshot(imageID, id); err != nil {
		cleanup()
		return types.Container{}, err
	}

	if err = os.WriteFile(filepath.Join(e.subvolumePath(id), resolvConfPath),
		[]byte("nameserver "+e.Config.Nameserver+"\n"), 0o644); err != nil {
		cleanup()
		return types.Container{}, kernelRefusalErr(id, err)
	}

	if err = os.WriteFile(filepath.Join(e.subvolumePath(id), id+".cmd"), []byte(cmdline), 0o644); err != nil {
		cleanup()
		return types.Container{}, kernelRefusalErr(id, err)
	}

	mgr, err := e.setupCgroup(id)
	if err != nil {
		cleanup()
		return types.Container{}, err
	}

	pid, waitErr := e.forkAndRun(id, cmdline, mgr)

	c = types.Container{
		Id:        id,
		ImageId:   imageID,
		Cmd:       cmdline,
		Timestamp: time.Now(),
		Pid:       pid,
		IP:        deriveIP(nnn),
		MAC:       deriveMAC(nnn).String(),
	}
	if storeErr := e.store.newContainer(c); storeErr != nil {
		e.Log.Warnf("recording container %s: %v", id, storeErr)
	}

	// Teardown always runs regardless of the payload's own exit status
	// (spec.md §4.6 step 9 — the payload's failure is logged, not
	// propagated as an engine error).
	e.teardownNetwork(id)

	if waitErr != nil {
		e.Log.Warnf("container %s payload exited with error: %v", id, waitErr)
	}

	return c, nil
}

// forkAndRun launches the run-init child and blocks until it exits,
// teeing its combined output to the container's log file and the
// caller's terminal (spec.md §4.6 steps 7-9).
func (e *Engine) forkAndRun(id string, cmdline string, mgr *cgroup2.Manager) (pid int, err error) {
	logPath := filepath.Join(e.subvolumePath(id), id+".log")
	logFile, err := os.Create(logPath)
	if err != nil {
		return 0, kernelRefusalErr(id, err)
	}
	defer logFile.Close()

	pipe, err := syncpipe.New()
	if err != nil {
		return 0, kernelRefusalErr(id, err)
	}

	self, err := os.Executable()
	if err != nil {
		return 0, kernelRefusalErr(id, err)
	}

	cmd := exec.Command(self, "run-init", id, e.subvolumePath(id), cmdline)
	cmd.Stdout = io.MultiWriter(os.Stdout, logFile)
	cmd.Stderr = io.MultiWriter(os.Stderr, logFile)
	cmd.ExtraFiles = []*os.File{pipe.ChildFile()}
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Cloneflags: syscall.CLONE_NEWNS | syscall.CLONE_NEWUTS | syscall.CLONE_NEWIPC | syscall.CLONE_NEWPID,
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	origNs, err := netns.Get()
	if err != nil {
		return 0, kernelRefusalErr(id, err)
	}
	defer origNs.Close()

	containerNs, err := netns.GetFromName(netnsName(id))
	if err != nil {
		return 0, kernelRefusalErr(id, fmt.Errorf("locating netns for %s: %w", id, err))
	}
	defer containerNs.Close()

	if err = netns.Set(containerNs); err != nil {
		return 0, kernelRefusalErr(id, err)
	}

	startErr := cmd.Start()
	_ = netns.Set(origNs)

	if startErr != nil {
		pipe.Close()
		return 0, kernelRefusalErr(id, fmt.Errorf("starting container init: %w", startErr))
	}

	pid = cmd.Process.Pid

	if joinErr := joinCgroup(mgr, pid); joinErr != nil {
		pipe.Close()
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return 0, kernelRefusalErr(id, joinErr)
	}

	if relErr := pipe.Release(); relErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return 0, kernelRefusalErr(id, relErr)
	}

	if pidErr := os.WriteFile(filepath.Join(e.subvolumePath(id), id+".pid"),
		[]byte(fmt.Sprintf("%d", pid)), 0o644); pidErr != nil {
		e.Log.Warnf("recording pid for %s: %v", id, pidErr)
	}

	err = cmd.Wait()
	return pid, err
}
