package tools

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTabTableIncludesHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer

	err := WriteTabTable(&buf,
		[]string{"ID", "SOURCE"},
		[][]string{
			{"img_042", "local"},
			{"img_100", "alpine:latest"},
		},
	)
	require.NoError(t, err)

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "ID\tSOURCE", lines[0], "fields must be joined by a literal tab, not column-aligned")
	assert.Equal(t, "img_042\tlocal", lines[1])
	assert.Equal(t, "img_100\talpine:latest", lines[2])
}

func TestWriteTabTableWithNoRowsStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer

	err := WriteTabTable(&buf, []string{"ID", "STATUS"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ID\tSTATUS\n", buf.String())
}

func TestTabJoinSeparatesFieldsWithSingleTab(t *testing.T) {
	assert.Equal(t, "a\tb\tc", tabJoin([]string{"a", "b", "c"}))
	assert.Equal(t, "solo", tabJoin([]string{"solo"}))
	assert.Equal(t, "", tabJoin(nil))
}
