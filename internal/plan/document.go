/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package plan serializes an ordered service plan to a .pro file and
// reconstitutes it against the catalog.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/friendsincode/projecton/internal/catalog"
	"github.com/friendsincode/projecton/internal/scripture"
	"github.com/friendsincode/projecton/internal/slides"
)

// ErrEmptyPlan is returned when saving a service with no items.
var ErrEmptyPlan = errors.New("service has no items")

// Snapshot is the global-default layout stored at the top of a service
// file so a service renders the same way when moved between machines.
type Snapshot struct {
	GlobalSongBackground  string `json:"global_song_background"`
	GlobalBibleBackground string `json:"global_bible_background"`
	FontFace              string `json:"font_face"`
	FontSize              int    `json:"font_size"`
	FontColor             string `json:"font_color"`
	UseShadow             bool   `json:"use_shadow"`
	ShadowColor           int    `json:"shadow_color"`
	ShadowOffset          int    `json:"shadow_offset"`
	UseOutline            bool   `json:"use_outline"`
	OutlineColor          int    `json:"outline_color"`
	OutlineWidth          int    `json:"outline_width"`
}

// Entry is one ordered reference in a service file.
type Entry struct {
	Title string      `json:"title"`
	Kind  slides.Kind `json:"type"`
}

// Save writes the plan to path. The items are stored by reference
// (title, kind); content is resolved from the catalog at load time.
func Save(path string, snapshot Snapshot, items []slides.Slide) error {
	if len(items) == 0 {
		return ErrEmptyPlan
	}

	doc := make(map[string]any)
	doc["global_song_background"] = snapshot.GlobalSongBackground
	doc["global_bible_background"] = snapshot.GlobalBibleBackground
	doc["font_face"] = snapshot.FontFace
	doc["font_size"] = snapshot.FontSize
	doc["font_color"] = snapshot.FontColor
	doc["use_shadow"] = snapshot.UseShadow
	doc["shadow_color"] = snapshot.ShadowColor
	doc["shadow_offset"] = snapshot.ShadowOffset
	doc["use_outline"] = snapshot.UseOutline
	doc["outline_color"] = snapshot.OutlineColor
	doc["outline_width"] = snapshot.OutlineWidth

	for i, item := range items {
		doc[strconv.Itoa(i)] = Entry{Title: item.Title, Kind: item.Kind}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal service: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write service %s: %w", path, err)
	}
	return nil
}

// Resolver resolves service entries against the catalog and filesystem.
type Resolver struct {
	Catalog   *catalog.Service
	Bible     *scripture.Corpus // current default bible; may be nil
	ImagesDir string
	VideosDir string
	Logger    zerolog.Logger
}

// LoadResult carries the reconstituted plan plus per-entry warnings for
// references that did not resolve.
type LoadResult struct {
	Snapshot Snapshot
	Items    []slides.Slide
	Warnings []string
}

// Load reads a service file and resolves every entry. Unresolved
// references become visible placeholder entries; the load continues.
func Load(path string, r Resolver) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse service %s: %w", filepath.Base(path), err)
	}

	var result LoadResult
	if err := json.Unmarshal(data, &result.Snapshot); err != nil {
		return nil, fmt.Errorf("parse service snapshot: %w", err)
	}

	for i := 0; ; i++ {
		msg, ok := raw[strconv.Itoa(i)]
		if !ok {
			break
		}
		var entry Entry
		if err := json.Unmarshal(msg, &entry); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("entry %d is malformed", i))
			result.Items = append(result.Items, placeholder(entry))
			continue
		}
		item, warning := r.resolve(entry)
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Items = append(result.Items, item)
	}
	return &result, nil
}

func (r Resolver) resolve(entry Entry) (slides.Slide, string) {
	switch entry.Kind {
	case slides.KindSong:
		song, err := r.Catalog.GetSongData(entry.Title)
		if err != nil {
			return placeholder(entry), fmt.Sprintf("Missing song: %s", entry.Title)
		}
		return catalog.SongSlide(song), ""

	case slides.KindCustom:
		custom, err := r.Catalog.GetCustomData(entry.Title)
		if err != nil {
			return placeholder(entry), fmt.Sprintf("Missing custom slide: %s", entry.Title)
		}
		return catalog.CustomSlideRecord(custom), ""

	case slides.KindWeb:
		web, err := r.Catalog.GetWebEntry(entry.Title)
		if err != nil {
			return placeholder(entry), fmt.Sprintf("Missing web page: %s", entry.Title)
		}
		return catalog.WebSlide(web), ""

	case slides.KindImage:
		path := filepath.Join(r.ImagesDir, entry.Title)
		if _, err := os.Stat(path); err != nil {
			return placeholder(entry), fmt.Sprintf("Missing image: %s", entry.Title)
		}
		return slides.Slide{Kind: slides.KindImage, Title: entry.Title, ImagePath: path}, ""

	case slides.KindVideo:
		path := filepath.Join(r.VideosDir, entry.Title)
		if _, err := os.Stat(path); err != nil {
			return placeholder(entry), fmt.Sprintf("Missing video: %s", entry.Title)
		}
		return slides.Slide{Kind: slides.KindVideo, Title: entry.Title, VideoPath: path}, ""

	case slides.KindBible:
		// Scripture entries are re-parsed and refetched from the
		// current default bible so translation changes take effect.
		ref := scripture.Parse(entry.Title)
		if r.Bible == nil {
			return placeholder(entry), fmt.Sprintf("No bible loaded for: %s", entry.Title)
		}
		_, verses, err := r.Bible.Lookup(ref)
		if err != nil {
			return placeholder(entry), fmt.Sprintf("%s: %s", entry.Title, scripture.Status(err))
		}
		return slides.Slide{Kind: slides.KindBible, Title: entry.Title, Passages: verses}, ""

	default:
		return placeholder(entry), fmt.Sprintf("Unknown item type for: %s", entry.Title)
	}
}

// placeholder builds the visible stand-in for an unresolved reference.
// Its title is the display text shown in the service list.
func placeholder(entry Entry) slides.Slide {
	noun := map[slides.Kind]string{
		slides.KindSong:   "song",
		slides.KindBible:  "passage",
		slides.KindCustom: "custom slide",
		slides.KindImage:  "image",
		slides.KindVideo:  "video",
		slides.KindWeb:    "web page",
	}[entry.Kind]
	if noun == "" {
		noun = "item"
	}
	return slides.Slide{
		Kind:    entry.Kind,
		Title:   fmt.Sprintf("Missing %s: %s", noun, entry.Title),
		Missing: true,
	}
}
