package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWriter_WritesAndReplaces(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fw := FileWriter{Dir: dir}

	path, err := fw.Write([]byte("first\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultFileName), path)

	path, err = fw.Write([]byte("second\n"))
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileWriter_FileIsWorldReadable(t *testing.T) {
	t.Parallel()

	path, err := FileWriter{Dir: t.TempDir()}.Write([]byte("x"))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestFileWriter_CustomName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, err := FileWriter{Dir: filepath.Join(dir, "nested"), FileName: "run.csv"}.Write([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "run.csv"), path)
}

func TestFileWriter_FailureIsExportIO(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("file"), 0o644))

	_, err := FileWriter{Dir: blocker}.Write([]byte("data"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExportIO)
}
