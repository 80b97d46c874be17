package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore stores documents on the local filesystem.
type FileStore struct {
	Perm os.FileMode // mode for newly created files; 0644 when zero
}

// Resolve converts path to an absolute path.
func (s *FileStore) Resolve(path string) (string, error) {
	return filepath.Abs(path)
}

func (s *FileStore) Read(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	log.Debugf("read %s (%d bytes)", path, len(data))
	return string(data), nil
}

func (s *FileStore) Write(_ context.Context, path, content string) error {
	perm := s.Perm
	if perm == 0 {
		perm = 0644
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return err
	}
	log.Debugf("wrote %s (%d bytes)", path, len(content))
	return nil
}

// skipDirs are never descended into by ListFiles.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// ListFiles returns the regular files under root as slash-separated paths
// relative to root. Unreadable entries are skipped.
func ListFiles(root string) []string {
	var files []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return files
}
