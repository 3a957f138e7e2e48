package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists reports under Root, one folder per report name.
type Writer struct {
	Root string
}

// NewWriter returns a writer rooted at root.
func NewWriter(root string) *Writer {
	return &Writer{Root: root}
}

// Path returns where r would be written.
func (w *Writer) Path(r *Report) string {
	return filepath.Join(w.Root, r.Name(), r.FileName())
}

// Write creates the report folder if needed and replaces any previous report
// with the same name. The file is written to a temporary name and renamed so
// a reader never sees a partial report.
func (w *Writer) Write(r *Report) (string, error) {
	dir := filepath.Join(w.Root, r.Name())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".centroid-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp report: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := r.Render(tmp); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", fmt.Errorf("chmod report: %w", err)
	}

	path := filepath.Join(dir, r.FileName())
	// Rename does not replace an existing file on every platform.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("replace report: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("rename report: %w", err)
	}
	return path, nil
}
