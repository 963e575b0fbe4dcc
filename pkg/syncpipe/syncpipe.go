// Package syncpipe provides a one-shot parent/child handshake used by the
// container supervisor to guarantee ordering the atomic-clone model of
// os/exec + Cloneflags cannot express on its own: the forked child must
// not proceed past its namespace transition until the parent has joined
// its host PID to the container's cgroup (spec.md §5's ordering
// guarantee). It is a narrower, single-purpose cousin of
// docker-archive-libcontainer's SyncPipe — that type exists to shuttle
// init errors back to the parent over the whole libcontainer init
// protocol; this one only blocks the child on a single release signal and
// carries no errors from child to parent, which is all the supervisor's
// run-init handshake needs.
package syncpipe

import (
	"fmt"
	"io"
	"os"
)

// Pipe holds both ends of an os.Pipe() pair split across a parent and its
// re-exec'd child. The child end is passed across exec via ExtraFiles; the
// parent keeps its end open in-process.
type Pipe struct {
	readEnd, writeEnd *os.File
}

// New creates a fresh pipe. The caller passes readEnd to the child (as an
// inherited fd) and keeps writeEnd to release it later.
func New() (*Pipe, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("creating sync pipe: %w", err)
	}
	return &Pipe{readEnd: r, writeEnd: w}, nil
}

// ChildFile returns the read end, meant to be appended to a child
// process's ExtraFiles.
func (p *Pipe) ChildFile() *os.File { return p.readEnd }

// Release writes a single byte and closes the write end, unblocking a
// child waiting in WaitForRelease. Called by the parent once the child's
// pid has been written to the cgroup's process list.
func (p *Pipe) Release() error {
	if _, err := p.writeEnd.Write([]byte{1}); err != nil {
		return fmt.Errorf("releasing child: %w", err)
	}
	return p.writeEnd.Close()
}

// Close abandons the pipe without releasing: a child still waiting in
// WaitForRelease sees an empty read, which it treats as a cancellation.
func (p *Pipe) Close() error {
	_ = p.readEnd.Close()
	return p.writeEnd.Close()
}

// WaitForRelease blocks (from the child side, passed the read end as fd 3)
// until the parent calls Release, or returns an error if the pipe closed
// without a release byte.
func WaitForRelease(f *os.File) error {
	buf := make([]byte, 1)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("waiting for cgroup join: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("parent closed sync pipe before releasing child")
	}
	return nil
}
