package exporter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

func TestDirExporter_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	exp := NewDirExporter(dir)

	location, err := exp.Save(context.Background(), []byte("## Note\n\nbody"), "yuque-notes_x.txt")

	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(location))
	content, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, "## Note\n\nbody", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestDirExporter_Overwrites(t *testing.T) {
	exp := NewDirExporter(t.TempDir())

	_, err := exp.Save(context.Background(), []byte("first"), "a.txt")
	require.NoError(t, err)
	location, err := exp.Save(context.Background(), []byte("second"), "a.txt")
	require.NoError(t, err)

	content, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
}

func TestDirExporter_RejectsPathsInFilename(t *testing.T) {
	exp := NewDirExporter(t.TempDir())

	for _, name := range []string{"", "../escape.txt", "sub/dir.txt", `win\dir.txt`} {
		_, err := exp.Save(context.Background(), []byte("x"), name)
		assert.ErrorIs(t, err, domain.ErrExportTargetUnavailable, name)
	}
}

func TestDirExporter_UnwritableTarget(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0600))

	_, err := NewDirExporter(file).Save(context.Background(), []byte("x"), "a.txt")

	assert.ErrorIs(t, err, domain.ErrExportTargetUnavailable)
}

func TestWriterExporter(t *testing.T) {
	var buf bytes.Buffer

	location, err := NewWriterExporter(&buf, "stdout").Save(context.Background(), []byte("text"), "ignored.txt")

	require.NoError(t, err)
	assert.Equal(t, "stdout", location)
	assert.Equal(t, "text\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestWriterExporter_Failure(t *testing.T) {
	_, err := NewWriterExporter(failingWriter{}, "stdout").Save(context.Background(), []byte("text"), "x.txt")

	assert.ErrorIs(t, err, domain.ErrExportTargetUnavailable)
}
