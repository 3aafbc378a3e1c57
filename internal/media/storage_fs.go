/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
)

// FilesystemStorage keeps the media library under the data directory,
// one subdirectory per category.
type FilesystemStorage struct {
	rootDir string
	logger  zerolog.Logger
}

// NewFilesystemStorage creates a filesystem-based storage backend.
func NewFilesystemStorage(rootDir string, logger zerolog.Logger) *FilesystemStorage {
	return &FilesystemStorage{
		rootDir: rootDir,
		logger:  logger,
	}
}

// Store saves a file into its category directory.
func (fs *FilesystemStorage) Store(ctx context.Context, category, name string, file io.Reader) (string, error) {
	if !validCategory(category) {
		return "", fmt.Errorf("unknown media category: %s", category)
	}
	fullPath := filepath.Join(fs.rootDir, category, filepath.Base(name))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("create directories: %w", err)
	}

	dest, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, file); err != nil {
		os.Remove(fullPath) // Clean up on failure
		return "", fmt.Errorf("write file: %w", err)
	}

	fs.logger.Debug().
		Str("path", fullPath).
		Str("category", category).
		Msg("filesystem storage: file stored")

	return fullPath, nil
}

// Open reads a stored file.
func (fs *FilesystemStorage) Open(ctx context.Context, category, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(fs.rootDir, category, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("open media file: %w", err)
	}
	return f, nil
}

// Delete removes a file and, for videos, the sidecar thumbnail written
// next to it.
func (fs *FilesystemStorage) Delete(ctx context.Context, category, name string) error {
	fullPath := filepath.Join(fs.rootDir, category, filepath.Base(name))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	if category == CategoryVideos {
		base := fullPath[:len(fullPath)-len(filepath.Ext(fullPath))]
		if err := os.Remove(base + ".jpg"); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove video thumbnail: %w", err)
		}
	}

	fs.logger.Debug().Str("path", fullPath).Msg("filesystem storage: file deleted")
	return nil
}

// List returns the file names in a category directory, sorted.
func (fs *FilesystemStorage) List(ctx context.Context, category string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(fs.rootDir, category))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read category directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// CheckAccess verifies the data directory exists and is a directory.
func (fs *FilesystemStorage) CheckAccess(ctx context.Context) error {
	info, err := os.Stat(fs.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("data directory does not exist: %s", fs.rootDir)
		}
		return fmt.Errorf("cannot access data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data root is not a directory: %s", fs.rootDir)
	}
	return nil
}

// EnsureLayout creates the category directories under the data root so a
// fresh install starts with the expected tree.
func (fs *FilesystemStorage) EnsureLayout() error {
	for _, cat := range []string{CategoryBackgrounds, CategoryImages, CategoryVideos, CategoryBibles} {
		if err := os.MkdirAll(filepath.Join(fs.rootDir, cat), 0o755); err != nil {
			return fmt.Errorf("create %s directory: %w", cat, err)
		}
	}
	return nil
}
