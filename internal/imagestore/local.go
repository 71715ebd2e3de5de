package imagestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore writes images into a directory on local disk. Two uploads in the
// same millisecond get the same name and the later one wins.
type LocalStore struct {
	dir string
	now func() time.Time
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir, now: time.Now}
}

func (s *LocalStore) Dir() string {
	return s.dir
}

// Store writes data as school_<unixMillis>.<ext> and returns the bare filename
func (s *LocalStore) Store(ctx context.Context, data []byte, originalFilename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	fileName := fmt.Sprintf("school_%d.%s", s.now().UnixMilli(), fileExtension(originalFilename))
	if err := os.WriteFile(filepath.Join(s.dir, fileName), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return fileName, nil
}

// Remove deletes a file previously returned by Store
func (s *LocalStore) Remove(ctx context.Context, reference string) error {
	name := filepath.Base(reference)
	if name != reference || name == "." || name == string(filepath.Separator) {
		return fmt.Errorf("invalid image reference %q", reference)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}

// fileExtension returns the text after the last dot, or the whole base name
// when there is none.
func fileExtension(name string) string {
	base := filepath.Base(name)
	if i := strings.LastIndex(base, "."); i >= 0 {
		return base[i+1:]
	}
	return base
}
