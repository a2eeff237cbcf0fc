// Package storage persists uploaded images on disk and hands out stable
// reference paths for them.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStore writes uploads under a base directory, one subdirectory per
// category (games, fanart). Reference paths are URL-style, rooted at /uploads.
type FileStore struct {
	baseDir string
}

// NewFileStore returns a store rooted at baseDir.
func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

// Save writes content into the category directory under a unique name built
// from a prefix, the current timestamp, and a random suffix, mirroring the
// upload naming the site has always used (e.g. game-1693526400000-a1b2c3d4.png).
// It returns the reference path to persist alongside the entity.
func (s *FileStore) Save(category, prefix, originalName string, content []byte) (string, error) {
	dir := filepath.Join(s.baseDir, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	suffix := uuid.NewString()[:8]
	name := fmt.Sprintf("%s-%d-%s%s", prefix, time.Now().UnixMilli(), suffix, ext)

	if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return "/uploads/" + category + "/" + name, nil
}

// Delete removes the file behind a reference path previously returned by Save.
// Missing files are not an error.
func (s *FileStore) Delete(refPath string) error {
	rel, ok := strings.CutPrefix(refPath, "/uploads/")
	if !ok {
		return fmt.Errorf("not an upload reference: %q", refPath)
	}

	full := filepath.Join(s.baseDir, filepath.FromSlash(rel))
	// Refuse anything that escapes the base directory.
	if !strings.HasPrefix(full, filepath.Clean(s.baseDir)+string(os.PathSeparator)) {
		return fmt.Errorf("upload reference escapes base directory: %q", refPath)
	}

	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// AllowedExtension reports whether the file name carries one of the allowed
// extensions (compared case-insensitively, leading dot optional in allowed).
func AllowedExtension(name string, allowed ...string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for _, a := range allowed {
		if ext == strings.TrimPrefix(strings.ToLower(a), ".") {
			return true
		}
	}
	return false
}
