/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package importer

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/friendsincode/projecton/internal/models"
	"github.com/friendsincode/projecton/internal/slides"
	"github.com/friendsincode/projecton/internal/version"
)

const openLyricsNS = "http://openlyrics.info/namespace/2009/song"

type olExportDoc struct {
	XMLName    xml.Name `xml:"song"`
	XMLNS      string   `xml:"xmlns,attr"`
	Version    string   `xml:"version,attr"`
	CreatedIn  string   `xml:"createdIn,attr"`
	Properties struct {
		Titles struct {
			Title []string `xml:"title"`
		} `xml:"titles"`
		Authors *struct {
			Author []string `xml:"author"`
		} `xml:"authors,omitempty"`
		Copyright  string `xml:"copyright,omitempty"`
		CCLINo     string `xml:"ccliNo,omitempty"`
		VerseOrder string `xml:"verseOrder,omitempty"`
	} `xml:"properties"`
	Lyrics struct {
		Verses []olExportVerse `xml:"verse"`
	} `xml:"lyrics"`
}

type olExportVerse struct {
	Name  string `xml:"name,attr"`
	Lines struct {
		Inner string `xml:",innerxml"`
	} `xml:"lines"`
}

// ExportOpenLyrics writes one OpenLyrics XML file per song into dir,
// named after the song title.
func ExportOpenLyrics(dir string, songs []models.Song) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	var written []string
	for i := range songs {
		data, err := marshalOpenLyrics(&songs[i])
		if err != nil {
			return written, fmt.Errorf("export %q: %w", songs[i].Title, err)
		}
		path := filepath.Join(dir, safeFileName(songs[i].Title)+".xml")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %q: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func marshalOpenLyrics(song *models.Song) ([]byte, error) {
	var doc olExportDoc
	doc.XMLNS = openLyricsNS
	doc.Version = "0.8"
	doc.CreatedIn = "ProjectOn " + version.Version
	doc.Properties.Titles.Title = []string{song.Title}
	if song.Author != "" {
		doc.Properties.Authors = &struct {
			Author []string `xml:"author"`
		}{Author: []string{song.Author}}
	}
	doc.Properties.Copyright = song.Copyright
	doc.Properties.CCLINo = song.CCLI
	doc.Properties.VerseOrder = song.VerseOrder

	for _, seg := range splitTaggedLyrics(song.Lyrics) {
		var verse olExportVerse
		verse.Name = seg.tag.String()
		verse.Lines.Inner = encodeLines(seg.lines)
		doc.Lyrics.Verses = append(doc.Lyrics.Verses, verse)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

type taggedSegment struct {
	tag   slides.Tag
	lines []string
}

// splitTaggedLyrics breaks the internal lyric form into tagged segments.
// Untagged leading text becomes an implicit v1.
func splitTaggedLyrics(lyrics string) []taggedSegment {
	var segs []taggedSegment
	current := -1
	for _, line := range strings.Split(lyrics, "\n") {
		if tag, ok := slides.ParseBracketTag(strings.TrimSpace(line)); ok {
			segs = append(segs, taggedSegment{tag: tag})
			current = len(segs) - 1
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if current < 0 {
			segs = append(segs, taggedSegment{tag: slides.Tag{Letter: 'v', Number: 1}})
			current = 0
		}
		segs[current].lines = append(segs[current].lines, line)
	}
	return segs
}

// encodeLines renders plain lyric lines as a <lines> body with <br/>
// separators, escaping the text content.
func encodeLines(lines []string) string {
	var b bytes.Buffer
	for i, line := range lines {
		if i > 0 {
			b.WriteString("<br/>")
		}
		xml.EscapeText(&b, []byte(line))
	}
	return b.String()
}

// safeFileName keeps titles usable as file names.
func safeFileName(title string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "*", "", "?", "", "\"", "", "<", "", ">", "", "|", "")
	name := strings.TrimSpace(replacer.Replace(title))
	if name == "" {
		name = "untitled"
	}
	return name
}
