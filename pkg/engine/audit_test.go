package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mirkobrombin/bocker/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditFindsOrphanCatalogueRow(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.store.newImage(types.Image{Id: "img_042", Source: "local", Timestamp: time.Now()}))

	report, err := e.Audit(false)
	require.NoError(t, err)
	assert.Contains(t, report.OrphanCatalogueRows, "img_042")

	_, err = e.store.getImage("img_042")
	require.NoError(t, err, "without repair the orphan row must still be present")
}

func TestAuditRepairRemovesOrphanCatalogueRow(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.store.newImage(types.Image{Id: "img_042", Source: "local", Timestamp: time.Now()}))

	_, err := e.Audit(true)
	require.NoError(t, err)

	_, err = e.store.getImage("img_042")
	assert.Error(t, err, "repair must delete the orphan row")
}

func TestAuditFindsStalePidFile(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.createSubvolume("ps_100"))
	require.NoError(t, e.store.newContainer(types.Container{Id: "ps_100", ImageId: "img_042", Cmd: "/bin/sh", Timestamp: time.Now()}))

	// pid 999999 is extremely unlikely to be alive in any test environment.
	pidPath := filepath.Join(e.subvolumePath("ps_100"), "ps_100.pid")
	require.NoError(t, os.WriteFile(pidPath, []byte("999999"), 0o644))

	report, err := e.Audit(true)
	require.NoError(t, err)
	assert.Contains(t, report.StalePidFiles, "ps_100")

	_, statErr := os.Stat(pidPath)
	assert.True(t, os.IsNotExist(statErr), "repair must remove the stale pid file")
}

func TestAuditCleanStateReportsNothing(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.createSubvolume("img_042"))
	require.NoError(t, e.store.newImage(types.Image{Id: "img_042", Source: "local", Timestamp: time.Now()}))

	report, err := e.Audit(false)
	require.NoError(t, err)
	assert.Empty(t, report.OrphanCatalogueRows)
	assert.Empty(t, report.OrphanCgroups)
	assert.Empty(t, report.StalePidFiles)
}
