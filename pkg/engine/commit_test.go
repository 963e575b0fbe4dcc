package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitRequiresBothContainerAndImage(t *testing.T) {
	e := newTestEngine(t)

	err := e.Commit("ps_100", "img_042")
	assert.Error(t, err, "committing a nonexistent container must fail")

	require.NoError(t, e.createSubvolume("ps_100"))
	err = e.Commit("ps_100", "img_042")
	assert.Error(t, err, "committing onto a nonexistent image must fail")
}

func TestCommitReplacesImageWithContainerState(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.createSubvolume("img_042"))
	require.NoError(t, os.WriteFile(filepath.Join(e.subvolumePath("img_042"), sourceFile), []byte("alpine:latest"), 0o644))

	require.NoError(t, e.createSubvolume("ps_100"))
	require.NoError(t, os.WriteFile(filepath.Join(e.subvolumePath("ps_100"), "changed.txt"), []byte("new state"), 0o644))

	require.NoError(t, e.Commit("ps_100", "img_042"))

	got, err := os.ReadFile(filepath.Join(e.subvolumePath("img_042"), "changed.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new state", string(got))

	// The container subvolume itself must survive the commit untouched.
	exists, err := e.snapshotExists("ps_100")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = e.store.getImage("img_042")
	assert.NoError(t, err, "commit must re-register the image in the catalogue")
}
