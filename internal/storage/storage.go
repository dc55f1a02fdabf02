package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Storage keeps uploaded garment photos.
type Storage interface {
	// Save stores the image under the user's folder and returns its public path.
	Save(ctx context.Context, userID int64, filename, contentType string, r io.Reader) (string, error)

	// Delete removes an image by the public path Save returned.
	Delete(ctx context.Context, publicPath string) error
}

// PublicPrefix is the URL prefix local images are served under.
const PublicPrefix = "/images"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// objectName builds "<unix millis>_<sanitized base name>".
func objectName(filename string, now time.Time) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	if base == "" || base == "." || base == "/" || base == "_" {
		base = "image"
	}
	return fmt.Sprintf("%d_%s", now.UnixMilli(), base)
}

// LocalStorage implements Storage on the local filesystem.
type LocalStorage struct {
	dir string
	now func() time.Time
}

// NewLocalStorage creates the image directory if needed.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve image directory: %w", err)
	}
	return &LocalStorage{dir: abs, now: time.Now}, nil
}

// Dir is the root directory served under PublicPrefix.
func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Save(ctx context.Context, userID int64, filename, contentType string, r io.Reader) (string, error) {
	userDir := filepath.Join(s.dir, strconv.FormatInt(userID, 10))
	if err := os.MkdirAll(userDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create user directory: %w", err)
	}

	name := objectName(filename, s.now())
	f, err := os.Create(filepath.Join(userDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name()) // Clean up on error
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return fmt.Sprintf("%s/%d/%s", PublicPrefix, userID, name), nil
}

func (s *LocalStorage) Delete(ctx context.Context, publicPath string) error {
	rel := strings.TrimPrefix(publicPath, PublicPrefix+"/")
	if rel == publicPath {
		return fmt.Errorf("invalid image path: %s", publicPath)
	}
	path := filepath.Join(s.dir, filepath.FromSlash(rel))
	// Verify the path is within the image directory
	if !strings.HasPrefix(path, s.dir+string(filepath.Separator)) {
		return fmt.Errorf("invalid image path: must be within image directory")
	}
	return os.Remove(path)
}
