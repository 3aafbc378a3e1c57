/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package catalog

import (
	"github.com/friendsincode/projecton/internal/models"
	"github.com/friendsincode/projecton/internal/slides"
)

// SongSlide builds a detached slide record from a catalog song row.
func SongSlide(song *models.Song) slides.Slide {
	return slides.Slide{
		Kind:       slides.KindSong,
		Title:      song.Title,
		Author:     song.Author,
		Copyright:  song.Copyright,
		CCLI:       song.CCLI,
		RawText:    song.Lyrics,
		VerseOrder: song.VerseOrder,
		Override:   song.OverrideGlobal,
		Layout: slides.Layout{
			FontFamily:     song.Font,
			FontSize:       song.FontSize,
			FontColor:      song.FontColor,
			Background:     song.Background,
			UseShadow:      song.UseShadow,
			ShadowGrey:     song.ShadowColor,
			ShadowOffsetPx: song.ShadowOffset,
			UseOutline:     song.UseOutline,
			OutlineGrey:    song.OutlineColor,
			OutlineWidthPx: song.OutlineWidth,
			UseFooter:      song.Footer,
		},
	}
}

// CustomSlideRecord builds a detached slide record from a custom slide row.
func CustomSlideRecord(c *models.CustomSlide) slides.Slide {
	return slides.Slide{
		Kind:     slides.KindCustom,
		Title:    c.Title,
		RawText:  c.Text,
		Override: c.OverrideGlobal,
		Layout: slides.Layout{
			FontFamily:     c.Font,
			FontSize:       c.FontSize,
			FontColor:      c.FontColor,
			Background:     c.Background,
			UseShadow:      c.UseShadow,
			ShadowGrey:     c.ShadowColor,
			ShadowOffsetPx: c.ShadowOffset,
			UseOutline:     c.UseOutline,
			OutlineGrey:    c.OutlineColor,
			OutlineWidthPx: c.OutlineWidth,
		},
		AudioFile:   c.AudioFile,
		LoopAudio:   c.LoopAudio,
		AutoPlay:    c.AutoPlay,
		SlideDelay:  c.SlideDelay,
		SplitSlides: c.SplitSlides,
	}
}

// WebSlide builds a detached slide record from a web entry row.
func WebSlide(entry *models.WebEntry) slides.Slide {
	return slides.Slide{
		Kind:  slides.KindWeb,
		Title: entry.Title,
		URL:   entry.URL,
	}
}
