/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package importer

import (
	"encoding/xml"
	"fmt"
	"html"
	"os"
	"regexp"
	"strings"

	"github.com/friendsincode/projecton/internal/slides"
)

// olSong mirrors the OpenLyrics document shape. The xml package matches
// local names regardless of the declared namespace, which covers every
// OpenLyrics version in the wild.
type olSong struct {
	XMLName    xml.Name `xml:"song"`
	Properties struct {
		Titles []struct {
			Value string `xml:",chardata"`
		} `xml:"titles>title"`
		Authors []struct {
			Value string `xml:",chardata"`
		} `xml:"authors>author"`
		Copyright  string `xml:"copyright"`
		CCLINo     string `xml:"ccliNo"`
		VerseOrder string `xml:"verseOrder"`
	} `xml:"properties"`
	Verses []olVerse `xml:"lyrics>verse"`
}

type olVerse struct {
	Name  string `xml:"name,attr"`
	Lines []struct {
		Inner string `xml:",innerxml"`
	} `xml:"lines"`
}

var (
	olBrRe  = regexp.MustCompile(`<br\s*/?>`)
	olTagRe = regexp.MustCompile(`<[^>]+>`)
)

// ImportOpenLyrics parses one OpenLyrics XML file.
func ImportOpenLyrics(path string) (Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Song{}, fmt.Errorf("read openlyrics file: %w", err)
	}
	return parseOpenLyrics(data)
}

func parseOpenLyrics(data []byte) (Song, error) {
	var doc olSong
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Song{}, fmt.Errorf("parse openlyrics xml: %w", err)
	}

	var song Song
	if len(doc.Properties.Titles) > 0 {
		song.Title = strings.TrimSpace(doc.Properties.Titles[0].Value)
	}
	var authors []string
	for _, a := range doc.Properties.Authors {
		if v := strings.TrimSpace(a.Value); v != "" {
			authors = append(authors, v)
		}
	}
	song.Author = strings.Join(authors, ", ")
	song.Copyright = strings.TrimSpace(doc.Properties.Copyright)
	song.CCLI = strings.TrimSpace(doc.Properties.CCLINo)
	song.VerseOrder = strings.TrimSpace(doc.Properties.VerseOrder)

	var body strings.Builder
	for i, verse := range doc.Verses {
		if i > 0 {
			body.WriteString("\n")
		}
		tag, ok := slides.ParseTag(verse.Name)
		if !ok {
			tag = slides.Tag{Letter: 'v', Number: i + 1}
		}
		body.WriteString(tag.Bracket())
		body.WriteString("\n")
		for j, lines := range verse.Lines {
			if j > 0 {
				body.WriteString("\n")
			}
			body.WriteString(flattenLines(lines.Inner))
		}
		body.WriteString("\n")
	}
	song.Lyrics = strings.TrimRight(body.String(), "\n")
	return song, nil
}

// flattenLines converts a <lines> body to plain text, turning <br/>
// into newlines and dropping any other inline markup (chords, comments).
func flattenLines(inner string) string {
	text := olBrRe.ReplaceAllString(inner, "\n")
	text = olTagRe.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, strings.TrimSpace(line))
	}
	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}
