package syncpipe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseUnblocksWaitForRelease(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- WaitForRelease(p.ChildFile()) }()

	require.NoError(t, p.Release())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForRelease did not return after Release")
	}
}

func TestCloseWithoutReleaseIsReportedAsCancellation(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- WaitForRelease(p.ChildFile()) }()

	require.NoError(t, p.Close())

	select {
	case err := <-done:
		assert.Error(t, err, "a pipe closed without a release byte must be reported")
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForRelease did not return after Close")
	}
}
