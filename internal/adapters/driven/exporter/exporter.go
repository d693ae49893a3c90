// Package exporter provides driven.FileExporter implementations that save
// the export document to a directory or stream it to a writer.
package exporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driven"
)

// Ensure exporters implement the interface.
var (
	_ driven.FileExporter = (*DirExporter)(nil)
	_ driven.FileExporter = (*WriterExporter)(nil)
)

// DirExporter writes export files into a directory.
type DirExporter struct {
	dir string
}

// NewDirExporter creates an exporter writing to dir. An empty dir means
// the current working directory.
func NewDirExporter(dir string) *DirExporter {
	if dir == "" {
		dir = "."
	}
	return &DirExporter{dir: dir}
}

// Save writes data atomically (temp file then rename) and returns the
// absolute path of the written file.
func (e *DirExporter) Save(ctx context.Context, data []byte, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExportTargetUnavailable, err)
	}
	if filename == "" || filename != filepath.Base(filename) || strings.ContainsAny(filename, `/\`) {
		return "", fmt.Errorf("%w: invalid filename %q", domain.ErrExportTargetUnavailable, filename)
	}

	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", domain.ErrExportTargetUnavailable, e.dir, err)
	}

	tmp, err := os.CreateTemp(e.dir, "."+filename+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExportTargetUnavailable, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: write %s: %w", domain.ErrExportTargetUnavailable, filename, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: close %s: %w", domain.ErrExportTargetUnavailable, filename, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExportTargetUnavailable, err)
	}

	target := filepath.Join(e.dir, filename)
	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("%w: rename to %s: %w", domain.ErrExportTargetUnavailable, target, err)
	}

	if abs, err := filepath.Abs(target); err == nil {
		return abs, nil
	}
	return target, nil
}

// WriterExporter streams the document to a writer, such as stdout.
type WriterExporter struct {
	w    io.Writer
	name string
}

// NewWriterExporter creates an exporter writing to w. name is reported
// as the location ("stdout").
func NewWriterExporter(w io.Writer, name string) *WriterExporter {
	return &WriterExporter{w: w, name: name}
}

// Save writes data followed by a newline.
func (e *WriterExporter) Save(_ context.Context, data []byte, _ string) (string, error) {
	if _, err := e.w.Write(data); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExportTargetUnavailable, err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		if _, err := io.WriteString(e.w, "\n"); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrExportTargetUnavailable, err)
		}
	}
	return e.name, nil
}
