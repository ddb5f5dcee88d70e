// Package storage writes validated uploads (resumes, profile images) to the
// local upload directory and hands back the stored path.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Files stores uploads under a base directory.
type Files struct {
	baseDir string
}

// NewFiles creates the base directory if needed.
func NewFiles(baseDir string) (*Files, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Files{baseDir: baseDir}, nil
}

// SaveUpload copies a multipart upload into subdir with a unique name built
// from the prefix, a random id, and the original extension. Returns the path
// relative to the base directory.
func (f *Files) SaveUpload(fh *multipart.FileHeader, subdir, prefix string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name := fmt.Sprintf("%s_%s%s", prefix, uuid.New().String(), ext)
	rel := filepath.Join(subdir, name)

	dir := filepath.Join(f.baseDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload subdir: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(f.baseDir, rel))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return rel, nil
}

// Remove deletes a stored upload. A missing file is not an error.
func (f *Files) Remove(rel string) error {
	err := os.Remove(filepath.Join(f.baseDir, rel))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// Abs resolves a stored relative path to its location on disk.
func (f *Files) Abs(rel string) string {
	return filepath.Join(f.baseDir, rel)
}
