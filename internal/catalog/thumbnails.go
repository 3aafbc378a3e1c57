/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package catalog

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/friendsincode/projecton/internal/models"
	"github.com/friendsincode/projecton/internal/telemetry"
)

// Thumbnail geometry: a 16:9 preview tile.
const (
	thumbWidth  = 96
	thumbHeight = 54
)

// ThumbnailTable selects which thumbnail index to reconcile.
type ThumbnailTable string

const (
	TableBackgrounds ThumbnailTable = "backgroundThumbnails"
	TableImages      ThumbnailTable = "imageThumbnails"
)

// IndexThumbnails reconciles a thumbnail table with the files present in
// dir: missing rows are generated, orphaned rows dropped. The two-way
// diff runs on every call; thumbnails are only regenerated when a
// divergence is detected.
func (s *Service) IndexThumbnails(dir string, table ThumbnailTable) error {
	onDisk, err := imageFiles(dir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}

	indexed, err := s.thumbnailNames(table)
	if err != nil {
		return err
	}

	missing, orphaned := diffNames(onDisk, indexed)
	if len(missing) == 0 && len(orphaned) == 0 {
		return nil
	}

	s.logger.Info().
		Str("table", string(table)).
		Int("missing", len(missing)).
		Int("orphaned", len(orphaned)).
		Msg("thumbnail index diverged from filesystem; reconciling")

	for _, name := range missing {
		blob, err := encodeThumbnail(filepath.Join(dir, name))
		if err != nil {
			s.logger.Warn().Err(err).Str("file", name).Msg("could not generate thumbnail")
			continue
		}
		if err := s.putThumbnail(table, name, blob); err != nil {
			return err
		}
		telemetry.ThumbnailsIndexedTotal.WithLabelValues(string(table)).Inc()
	}

	for _, name := range orphaned {
		if err := s.dropThumbnail(table, name); err != nil {
			return err
		}
	}
	return nil
}

// GetThumbnail returns the cached JPEG bytes for a file name.
func (s *Service) GetThumbnail(table ThumbnailTable, fileName string) ([]byte, error) {
	switch table {
	case TableBackgrounds:
		var row models.BackgroundThumbnail
		if err := s.db.Where("file_name = ?", fileName).First(&row).Error; err != nil {
			return nil, fmt.Errorf("thumbnail %q: %w", fileName, err)
		}
		return row.Image, nil
	default:
		var row models.ImageThumbnail
		if err := s.db.Where("file_name = ?", fileName).First(&row).Error; err != nil {
			return nil, fmt.Errorf("thumbnail %q: %w", fileName, err)
		}
		return row.Image, nil
	}
}

func (s *Service) thumbnailNames(table ThumbnailTable) ([]string, error) {
	var names []string
	var err error
	switch table {
	case TableBackgrounds:
		err = s.db.Model(&models.BackgroundThumbnail{}).Pluck("file_name", &names).Error
	default:
		err = s.db.Model(&models.ImageThumbnail{}).Pluck("file_name", &names).Error
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return names, nil
}

func (s *Service) putThumbnail(table ThumbnailTable, name string, blob []byte) error {
	var err error
	switch table {
	case TableBackgrounds:
		err = s.db.Create(&models.BackgroundThumbnail{ID: uuid.NewString(), FileName: name, Image: blob}).Error
	default:
		err = s.db.Create(&models.ImageThumbnail{ID: uuid.NewString(), FileName: name, Image: blob}).Error
	}
	if err != nil {
		return fmt.Errorf("store thumbnail %q: %w", name, err)
	}
	return nil
}

func (s *Service) dropThumbnail(table ThumbnailTable, name string) error {
	var err error
	switch table {
	case TableBackgrounds:
		err = s.db.Where("file_name = ?", name).Delete(&models.BackgroundThumbnail{}).Error
	default:
		err = s.db.Where("file_name = ?", name).Delete(&models.ImageThumbnail{}).Error
	}
	if err != nil {
		return fmt.Errorf("drop thumbnail %q: %w", name, err)
	}
	return nil
}

// encodeThumbnail scales the source image to 96x54 with a smooth
// transform and encodes it as JPEG.
func encodeThumbnail(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, thumbWidth, thumbHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return buf.Bytes(), nil
}

// imageFiles lists decodable image files in dir, sorted by name. A
// missing directory is treated as empty.
func imageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png", ".gif":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// diffNames computes the two-way diff between sorted disk names and
// indexed names in O(N+M).
func diffNames(onDisk, indexed []string) (missing, orphaned []string) {
	sort.Strings(indexed)
	i, j := 0, 0
	for i < len(onDisk) && j < len(indexed) {
		switch {
		case onDisk[i] == indexed[j]:
			i++
			j++
		case onDisk[i] < indexed[j]:
			missing = append(missing, onDisk[i])
			i++
		default:
			orphaned = append(orphaned, indexed[j])
			j++
		}
	}
	missing = append(missing, onDisk[i:]...)
	orphaned = append(orphaned, indexed[j:]...)
	return missing, orphaned
}
