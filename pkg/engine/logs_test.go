package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogsReturnsEmptyStringWhenNoLogFileExists(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.createSubvolume("ps_100"))

	out, err := e.Logs("ps_100")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestLogsReturnsCapturedOutput(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.createSubvolume("ps_100"))

	logPath := filepath.Join(e.subvolumePath("ps_100"), "ps_100.log")
	require.NoError(t, os.WriteFile(logPath, []byte("hello from container\n"), 0o644))

	out, err := e.Logs("ps_100")
	require.NoError(t, err)
	assert.Equal(t, "hello from container\n", out)
}
