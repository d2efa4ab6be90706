package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestTrailWritesOneLinePerRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.log")
	trail, err := Open(path)
	require.NoError(t, err)
	defer trail.Close()

	trail.Infof("Monthly report created: %s", "ventas_2024-03.txt")
	trail.Warningf("Line %d malformed", 2)
	trail.Debugf("not recorded")

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[INFO]")
	assert.Contains(t, lines[0], "Monthly report created: ventas_2024-03.txt")
	assert.Contains(t, lines[1], "[WARNING]")
	assert.Equal(t, path, trail.Path())
}

func TestTrailAppendsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	first, err := Open(path)
	require.NoError(t, err)
	first.Infof("first")
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()
	second.Infof("second")

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "first"))
	assert.True(t, strings.HasSuffix(lines[1], "second"))
}

func TestRecordWritesLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	trail, err := Open(path)
	require.NoError(t, err)
	defer trail.Close()

	require.NoError(t, trail.Record("Custom file created: %s", "notas.txt"))

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "[INFO] - Custom file created: notas.txt")
}

func TestRecordFailsOnClosedTrail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	trail, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, trail.Close())

	assert.Error(t, trail.Record("lost"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}
