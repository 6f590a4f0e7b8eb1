// Package storage persists uploaded attachment files on local disk.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"parley/internal/models"
)

const maxUploadBytes = 5 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// LocalStore writes uploads under a single root directory. Stored names are
// timestamp-prefixed so two uploads of the same filename never collide.
type LocalStore struct {
	root string
}

// NewLocalStore creates the root directory if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Root returns the directory uploads are written to.
func (s *LocalStore) Root() string {
	return s.root
}

// Save writes content under a unique name derived from filename and returns
// the stored name, relative to the root.
func (s *LocalStore) Save(filename string, content []byte) (string, error) {
	if len(content) == 0 {
		return "", models.NewValidationError("Uploaded file is empty")
	}
	if len(content) > maxUploadBytes {
		return "", models.NewValidationError("Uploaded file too large (max 5MB)")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", models.NewValidationError("Unsupported file type")
	}

	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitizeName(filename))
	if err := os.WriteFile(filepath.Join(s.root, name), content, 0o600); err != nil {
		return "", models.NewInternalError(err)
	}
	return name, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *LocalStore) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return models.NewInternalError(err)
	}
	return nil
}

// sanitizeName strips path components and characters that do not belong in a
// stored filename.
func sanitizeName(filename string) string {
	base := filepath.Base(filename)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
