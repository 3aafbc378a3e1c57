/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package importer ingests songs from external formats (ChordPro,
// OpenLyrics, OpenLP databases, CCLI SongSelect) into the catalog, and
// exports the catalog back out as OpenLyrics. All importers normalize
// into the internal bracket-tag lyric form before saving.
package importer

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/friendsincode/projecton/internal/catalog"
	"github.com/friendsincode/projecton/internal/models"
	"github.com/friendsincode/projecton/internal/slides"
)

// Song is the format-neutral result of one imported song. Lyrics are in
// the internal tagged form: bracket tags on their own line followed by
// the segment body.
type Song struct {
	Title      string
	Author     string
	Copyright  string
	CCLI       string
	VerseOrder string
	Lyrics     string
}

// ConflictPolicy decides what happens when an imported title collides
// with an existing catalog row.
type ConflictPolicy int

const (
	// ConflictRename stores the song under the next free "title (N)".
	ConflictRename ConflictPolicy = iota
	// ConflictSkip leaves the existing song untouched.
	ConflictSkip
	// ConflictReplace overwrites the existing song.
	ConflictReplace
)

// Report summarizes one import run.
type Report struct {
	Imported int
	Renamed  int
	Skipped  int
	Replaced int
}

// Save delivers imported songs to the catalog, applying the conflict
// policy per colliding title.
func Save(svc *catalog.Service, songs []Song, policy ConflictPolicy, logger zerolog.Logger) (Report, error) {
	var report Report
	for i := range songs {
		rec := toModel(&songs[i])

		err := svc.SaveSong(rec, "")
		switch {
		case err == nil:
			report.Imported++
			continue
		case !errors.Is(err, catalog.ErrTitleExists):
			return report, fmt.Errorf("import %q: %w", rec.Title, err)
		}

		switch policy {
		case ConflictSkip:
			logger.Info().Str("title", rec.Title).Msg("import skipped, title exists")
			report.Skipped++
		case ConflictReplace:
			if err := svc.SaveSong(rec, rec.Title); err != nil {
				return report, fmt.Errorf("replace %q: %w", rec.Title, err)
			}
			report.Replaced++
			report.Imported++
		default:
			free := svc.NextFreeTitle(rec.Title, slides.KindSong)
			logger.Info().Str("title", rec.Title).Str("renamed", free).Msg("import renamed, title exists")
			rec.Title = free
			if err := svc.SaveSong(rec, ""); err != nil {
				return report, fmt.Errorf("import %q: %w", rec.Title, err)
			}
			report.Renamed++
			report.Imported++
		}
	}
	return report, nil
}

func toModel(s *Song) *models.Song {
	return &models.Song{
		Title:      s.Title,
		Author:     s.Author,
		Copyright:  s.Copyright,
		CCLI:       s.CCLI,
		Lyrics:     s.Lyrics,
		VerseOrder: s.VerseOrder,
	}
}
