package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "RS.dcm")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))

	backup := filepath.Join(dir, "backup")
	dst, err := MoveFile(src, backup)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(backup, "RS.dcm"), dst)
	assert.NoFileExists(t, src)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestMoveFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := MoveFile(filepath.Join(dir, "gone.dcm"), filepath.Join(dir, "backup"))
	assert.Error(t, err)
}
