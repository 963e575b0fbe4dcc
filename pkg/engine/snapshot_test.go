package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubvolumeLifecycle(t *testing.T) {
	e := newTestEngine(t)

	exists, err := e.snapshotExists("img_100")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, e.createSubvolume("img_100"))

	exists, err = e.snapshotExists("img_100")
	require.NoError(t, err)
	assert.True(t, exists)

	err = e.createSubvolume("img_100")
	assert.Error(t, err, "creating an existing subvolume must fail")

	require.NoError(t, e.deleteSubvolume("img_100"))
	exists, err = e.snapshotExists("img_100")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPopulateCopiesTreeContents(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.createSubvolume("img_101"))

	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "hello.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "nested.txt"), []byte("there"), 0o644))

	require.NoError(t, e.populate("img_101", src))

	got, err := os.ReadFile(filepath.Join(e.subvolumePath("img_101"), "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(got))

	got, err = os.ReadFile(filepath.Join(e.subvolumePath("img_101"), "sub", "nested.txt"))
	require.NoError(t, err)
	assert.Equal(t, "there", string(got))
}

func TestSnapshotRequiresExistingSourceAndAbsentDestination(t *testing.T) {
	e := newTestEngine(t)

	err := e.snapshot("img_200", "ps_200")
	assert.Error(t, err, "snapshotting a nonexistent source must fail")

	require.NoError(t, e.createSubvolume("img_200"))
	require.NoError(t, e.createSubvolume("ps_200"))

	err = e.snapshot("img_200", "ps_200")
	assert.Error(t, err, "snapshotting onto an existing destination must fail")
}

func TestSnapshotClonesContentsAndIsIndependent(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.createSubvolume("img_201"))
	require.NoError(t, os.WriteFile(filepath.Join(e.subvolumePath("img_201"), "a.txt"), []byte("v1"), 0o644))

	require.NoError(t, e.snapshot("img_201", "ps_201"))

	got, err := os.ReadFile(filepath.Join(e.subvolumePath("ps_201"), "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	require.NoError(t, os.WriteFile(filepath.Join(e.subvolumePath("ps_201"), "a.txt"), []byte("v2"), 0o644))

	got, err = os.ReadFile(filepath.Join(e.subvolumePath("img_201"), "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got), "writes to the clone must not affect the source")
}

func TestListSubvolumesFiltersByPrefix(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.createSubvolume("img_042"))
	require.NoError(t, e.createSubvolume("img_043"))
	require.NoError(t, e.createSubvolume("ps_044"))

	ids, err := e.listSubvolumes("img_")
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.ElementsMatch(t, []string{"img_042", "img_043"}, ids)
}

func TestRenameSubvolumeMovesDirectory(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.createSubvolume("img_300"))
	require.NoError(t, os.WriteFile(filepath.Join(e.subvolumePath("img_300"), "marker"), []byte("x"), 0o644))

	require.NoError(t, e.renameSubvolume("img_300", "img_301"))

	exists, err := e.snapshotExists("img_300")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = e.snapshotExists("img_301")
	require.NoError(t, err)
	assert.True(t, exists)
}
