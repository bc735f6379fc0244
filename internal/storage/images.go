package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore is the file-storage collaborator for review images. The core
// only needs save and delete; serving the files is somebody else's job.
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}

// LocalStore keeps images under a base directory, addressed by a relative
// path like "reviews/<uuid>-<name>".
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, "reviews"), 0o755); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

func (s *LocalStore) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%s-%s", uuid.New().String(), sanitize(filename))
	rel := filepath.Join("reviews", name)

	f, err := os.Create(filepath.Join(s.baseDir, rel))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}
	return rel, nil
}

func (s *LocalStore) Delete(_ context.Context, path string) error {
	full := filepath.Join(s.baseDir, filepath.Clean(path))
	if !strings.HasPrefix(full, filepath.Clean(s.baseDir)+string(os.PathSeparator)) {
		return fmt.Errorf("image path %q escapes base directory", path)
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image file: %w", err)
	}
	return nil
}

func sanitize(filename string) string {
	name := filepath.Base(filename)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		}
		return '_'
	}, name)
}
