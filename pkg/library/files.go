package library

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStore writes imported files under root/YYYY/MM/
type FileStore struct {
	root string
}

// NewFileStore creates the root directory if needed
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create library directory: %w", err)
	}
	return &FileStore{root: root}, nil
}

// Root returns the library directory
func (f *FileStore) Root() string {
	return f.root
}

// Abs returns the absolute location of a path returned by Save
func (f *FileStore) Abs(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(rel))
}

// Save copies r into a new file named after name in the month directory for
// now. Existing files are never overwritten: a short unique suffix is added on
// collision. It returns the slash-separated path relative to the root and the
// number of bytes written.
func (f *FileStore) Save(r io.Reader, name string, now time.Time) (string, int64, error) {
	dir := filepath.Join(f.root, now.Format("2006"), now.Format("01"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".import-*.tmp")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, r)
	closeErr := tmp.Close()
	if err != nil {
		os.Remove(tmpName)
		return "", 0, fmt.Errorf("failed to save file data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tmpName)
		return "", 0, fmt.Errorf("failed to close file: %w", closeErr)
	}

	final, err := reserve(dir, sanitizeName(name))
	if err != nil {
		os.Remove(tmpName)
		return "", 0, err
	}

	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		os.Remove(final)
		return "", 0, fmt.Errorf("failed to rename temporary file: %w", err)
	}

	rel, err := filepath.Rel(f.root, final)
	if err != nil {
		return "", 0, err
	}
	return filepath.ToSlash(rel), n, nil
}

// Remove deletes a file previously returned by Save
func (f *FileStore) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(f.Abs(rel))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// reserve creates an empty placeholder for a free file name in dir
func reserve(dir, name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(dir, name)
	for attempt := 0; attempt < 5; attempt++ {
		fh, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			fh.Close()
			return candidate, nil
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("failed to reserve file name: %w", err)
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%s%s", base, uuid.NewString()[:8], ext))
	}
	return "", fmt.Errorf("failed to find a free file name for %s", name)
}

// sanitizeName keeps the base name of a URL path and drops anything unsafe
func sanitizeName(name string) string {
	name = path.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '-'
	}, name)
	name = strings.Trim(name, ".-")
	if name == "" {
		return "image"
	}
	return name
}

// thumbnailName derives the thumbnail file name for an image path
func thumbnailName(rel string, size int) string {
	ext := path.Ext(rel)
	return fmt.Sprintf("%s-%dx%d%s", strings.TrimSuffix(rel, ext), size, size, ext)
}
