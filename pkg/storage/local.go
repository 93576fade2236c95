package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStore writes attachments under a directory that the server also
// serves statically at /uploads/.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{dir: dir, baseURL: baseURL}
}

// Save writes the content to <dir>/<kind>/<timestamp>-<nonce>-<name>
// and returns the relative reference "uploads/<kind>/<filename>". The
// nonce keeps two same-named files uploaded in the same second apart.
func (s *LocalStore) Save(ctx context.Context, kind, originalName string, content io.Reader) (string, error) {
	target := filepath.Join(s.dir, kind)
	if err := os.MkdirAll(target, 0755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	filename := fmt.Sprintf("%s-%s-%s",
		time.Now().Format("20060102-150405"),
		uuid.New().String()[:8],
		sanitizeFilename(originalName))

	dst, err := os.Create(filepath.Join(target, filename))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return fmt.Sprintf("uploads/%s/%s", kind, filename), nil
}

func (s *LocalStore) ResolveURL(reference string) string {
	return resolveWithBase(s.baseURL, reference)
}

// sanitizeFilename keeps only characters safe for a filesystem path.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
