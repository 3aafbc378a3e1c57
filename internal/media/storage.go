/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package media abstracts the media library: backgrounds, still images,
// videos, and bible corpora. The filesystem backend is the working copy
// the presentation engine reads from; the S3 backend mirrors the same
// category layout for off-site sync.
package media

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/friendsincode/projecton/internal/config"
)

// Library categories. Each maps to one directory (or key prefix).
const (
	CategoryBackgrounds = "backgrounds"
	CategoryImages      = "images"
	CategoryVideos      = "videos"
	CategoryBibles      = "bibles"
)

// Storage is a category-addressed blob store for the media library.
type Storage interface {
	// Store writes a file under a category and returns the path it can
	// later be opened by.
	Store(ctx context.Context, category, name string, file io.Reader) (string, error)
	// Open reads a stored file.
	Open(ctx context.Context, category, name string) (io.ReadCloser, error)
	// Delete removes a stored file. Missing files are not an error.
	Delete(ctx context.Context, category, name string) error
	// List returns the file names in a category, sorted.
	List(ctx context.Context, category string) ([]string, error)
	// CheckAccess verifies the backend is reachable and writable.
	CheckAccess(ctx context.Context) error
}

// NewStorage builds the backend named in the configuration.
func NewStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageFilesystem, "":
		return NewFilesystemStorage(cfg.DataDir, logger), nil
	case config.StorageS3:
		return NewS3Storage(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
}

func validCategory(category string) bool {
	switch category {
	case CategoryBackgrounds, CategoryImages, CategoryVideos, CategoryBibles:
		return true
	}
	return false
}
