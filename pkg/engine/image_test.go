package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCreatesImageFromLocalDirectory(t *testing.T) {
	e := newTestEngine(t)

	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "bin.sh"), []byte("#!/bin/sh\n"), 0o755))

	img, err := e.Init(src)
	require.NoError(t, err)
	assert.Regexp(t, `^img_\d{3}$`, img.Id)
	assert.Equal(t, src, img.Source)

	got, err := e.store.getImage(img.Id)
	require.NoError(t, err)
	assert.Equal(t, img.Id, got.Id)

	_, err = os.Stat(filepath.Join(e.subvolumePath(img.Id), "bin.sh"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(e.subvolumePath(img.Id), sourceFile))
	require.NoError(t, err, "init must record the source directory in img.source")
}

func TestValidateImageNameRejectsBlank(t *testing.T) {
	assert.NoError(t, validateImageName("alpine"))
	assert.Error(t, validateImageName(""))
	assert.Error(t, validateImageName("   "))
}

func TestReadLegacyManifestParsesFirstEntry(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(`[
		{"Config": "abc123.json", "Layers": ["layer1/layer.tar", "layer2/layer.tar"]}
	]`), 0o644))

	m, err := readLegacyManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, "abc123.json", m.Config)
	assert.Equal(t, []string{"layer1/layer.tar", "layer2/layer.tar"}, m.Layers)
}

func TestReadLegacyManifestRejectsEmptyEntryList(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(`[]`), 0o644))

	_, err := readLegacyManifest(dir)
	assert.Error(t, err)
}

func TestReadSourceFileBuildsImageFromSubvolume(t *testing.T) {
	dir := t.TempDir()
	subvol := filepath.Join(dir, "img_077")
	require.NoError(t, os.MkdirAll(subvol, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(subvol, sourceFile), []byte("alpine:latest"), 0o644))

	img, err := readSourceFile(subvol)
	require.NoError(t, err)
	assert.Equal(t, "img_077", img.Id)
	assert.Equal(t, "alpine:latest", img.Source)
}
