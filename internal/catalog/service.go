/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package catalog owns the durable song, custom slide, web entry, and
// thumbnail tables. Titles are unique per table; all queries are
// parameterized through gorm.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/projecton/internal/models"
	"github.com/friendsincode/projecton/internal/slides"
)

var (
	// ErrTitleExists is returned when an insert collides with an
	// existing title.
	ErrTitleExists = errors.New("title already exists")
	// ErrNotFound is returned when a title has no row.
	ErrNotFound = errors.New("not found")
)

// Service provides catalog operations over the configured database.
type Service struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// New creates a catalog service.
func New(db *gorm.DB, logger zerolog.Logger) *Service {
	return &Service{db: db, logger: logger.With().Str("component", "catalog").Logger()}
}

// SaveSong inserts a song, or updates the row matching oldTitle when
// oldTitle is non-empty. Inserting a duplicate title fails with
// ErrTitleExists.
func (s *Service) SaveSong(song *models.Song, oldTitle string) error {
	if oldTitle != "" {
		var existing models.Song
		if err := s.db.Where("title = ?", oldTitle).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("update song %q: %w", oldTitle, ErrNotFound)
			}
			return fmt.Errorf("load song %q: %w", oldTitle, err)
		}
		song.ID = existing.ID
		song.CreatedAt = existing.CreatedAt
		if err := s.db.Save(song).Error; err != nil {
			return fmt.Errorf("update song %q: %w", oldTitle, err)
		}
		return nil
	}

	if s.titleTaken(&models.Song{}, song.Title) {
		return fmt.Errorf("save song %q: %w", song.Title, ErrTitleExists)
	}
	if song.ID == "" {
		song.ID = uuid.NewString()
	}
	if err := s.db.Create(song).Error; err != nil {
		return fmt.Errorf("save song %q: %w", song.Title, err)
	}
	return nil
}

// SaveCustom inserts or updates a custom slide, analogous to SaveSong.
func (s *Service) SaveCustom(slide *models.CustomSlide, oldTitle string) error {
	if oldTitle != "" {
		var existing models.CustomSlide
		if err := s.db.Where("title = ?", oldTitle).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("update custom slide %q: %w", oldTitle, ErrNotFound)
			}
			return fmt.Errorf("load custom slide %q: %w", oldTitle, err)
		}
		slide.ID = existing.ID
		slide.CreatedAt = existing.CreatedAt
		if err := s.db.Save(slide).Error; err != nil {
			return fmt.Errorf("update custom slide %q: %w", oldTitle, err)
		}
		return nil
	}

	if s.titleTaken(&models.CustomSlide{}, slide.Title) {
		return fmt.Errorf("save custom slide %q: %w", slide.Title, ErrTitleExists)
	}
	if slide.ID == "" {
		slide.ID = uuid.NewString()
	}
	if err := s.db.Create(slide).Error; err != nil {
		return fmt.Errorf("save custom slide %q: %w", slide.Title, err)
	}
	return nil
}

// SaveWeb upserts a web entry keyed on title.
func (s *Service) SaveWeb(title, url string) error {
	var existing models.WebEntry
	err := s.db.Where("title = ?", title).First(&existing).Error
	switch {
	case err == nil:
		existing.URL = url
		if err := s.db.Save(&existing).Error; err != nil {
			return fmt.Errorf("update web entry %q: %w", title, err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry := models.WebEntry{ID: uuid.NewString(), Title: title, URL: url}
		if err := s.db.Create(&entry).Error; err != nil {
			return fmt.Errorf("save web entry %q: %w", title, err)
		}
		return nil
	default:
		return fmt.Errorf("load web entry %q: %w", title, err)
	}
}

// GetAllSongs returns every song ordered by title.
func (s *Service) GetAllSongs() ([]models.Song, error) {
	var songs []models.Song
	if err := s.db.Order("title").Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	return songs, nil
}

// GetAllCustomSlides returns every custom slide ordered by title.
func (s *Service) GetAllCustomSlides() ([]models.CustomSlide, error) {
	var out []models.CustomSlide
	if err := s.db.Order("title").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list custom slides: %w", err)
	}
	return out, nil
}

// GetSongData returns one song by title.
func (s *Service) GetSongData(title string) (*models.Song, error) {
	var song models.Song
	if err := s.db.Where("title = ?", title).First(&song).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("song %q: %w", title, ErrNotFound)
		}
		return nil, fmt.Errorf("load song %q: %w", title, err)
	}
	return &song, nil
}

// GetCustomData returns one custom slide by title.
func (s *Service) GetCustomData(title string) (*models.CustomSlide, error) {
	var slide models.CustomSlide
	if err := s.db.Where("title = ?", title).First(&slide).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("custom slide %q: %w", title, ErrNotFound)
		}
		return nil, fmt.Errorf("load custom slide %q: %w", title, err)
	}
	return &slide, nil
}

// GetWebEntry returns one web entry by title.
func (s *Service) GetWebEntry(title string) (*models.WebEntry, error) {
	var entry models.WebEntry
	if err := s.db.Where("title = ?", title).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("web entry %q: %w", title, ErrNotFound)
		}
		return nil, fmt.Errorf("load web entry %q: %w", title, err)
	}
	return &entry, nil
}

// GetSongTitles returns all song titles ordered.
func (s *Service) GetSongTitles() ([]string, error) {
	var titles []string
	if err := s.db.Model(&models.Song{}).Order("title").Pluck("title", &titles).Error; err != nil {
		return nil, fmt.Errorf("list song titles: %w", err)
	}
	return titles, nil
}

// GetCustomTitles returns all custom slide titles ordered.
func (s *Service) GetCustomTitles() ([]string, error) {
	var titles []string
	if err := s.db.Model(&models.CustomSlide{}).Order("title").Pluck("title", &titles).Error; err != nil {
		return nil, fmt.Errorf("list custom titles: %w", err)
	}
	return titles, nil
}

// ItemRef identifies a deletable catalog item.
type ItemRef struct {
	Kind  slides.Kind
	Title string
	// Path is the media file for image/video refs.
	Path string
}

// DeleteItem removes an item by title from the appropriate table. For
// videos the media file and its sibling thumbnail image are removed too.
func (s *Service) DeleteItem(ref ItemRef) error {
	switch ref.Kind {
	case slides.KindSong:
		return s.deleteByTitle(&models.Song{}, ref.Title)
	case slides.KindCustom:
		return s.deleteByTitle(&models.CustomSlide{}, ref.Title)
	case slides.KindWeb:
		return s.deleteByTitle(&models.WebEntry{}, ref.Title)
	case slides.KindVideo:
		if ref.Path != "" {
			if err := os.Remove(ref.Path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove video %q: %w", ref.Path, err)
			}
			thumb := strings.TrimSuffix(ref.Path, filepath.Ext(ref.Path)) + ".jpg"
			if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
				s.logger.Warn().Err(err).Str("thumb", thumb).Msg("could not remove video thumbnail")
			}
		}
		return nil
	default:
		return fmt.Errorf("delete %q: unsupported kind %q", ref.Title, ref.Kind)
	}
}

// DeleteAllSongs truncates the songs table.
func (s *Service) DeleteAllSongs() error {
	if err := s.db.Where("1 = 1").Delete(&models.Song{}).Error; err != nil {
		return fmt.Errorf("delete all songs: %w", err)
	}
	return nil
}

func (s *Service) deleteByTitle(model any, title string) error {
	res := s.db.Where("title = ?", title).Delete(model)
	if res.Error != nil {
		return fmt.Errorf("delete %q: %w", title, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete %q: %w", title, ErrNotFound)
	}
	return nil
}

func (s *Service) titleTaken(model any, title string) bool {
	var count int64
	s.db.Model(model).Where("title = ?", title).Count(&count)
	return count > 0
}

// NextFreeTitle suggests "title (N)" for duplicate-title resolution
// during imports.
func (s *Service) NextFreeTitle(title string, kind slides.Kind) string {
	taken := func(t string) bool {
		switch kind {
		case slides.KindCustom:
			return s.titleTaken(&models.CustomSlide{}, t)
		default:
			return s.titleTaken(&models.Song{}, t)
		}
	}
	if !taken(title) {
		return title
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", title, n)
		if !taken(candidate) {
			return candidate
		}
	}
}
