/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package importer

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/friendsincode/projecton/internal/slides"
)

// openLPSong maps the songs table of an OpenLP database. Lyrics hold an
// inner XML blob whose verse elements carry type and label attributes.
type openLPSong struct {
	ID         int    `gorm:"column:id"`
	Title      string `gorm:"column:title"`
	Copyright  string `gorm:"column:copyright"`
	CCLINumber string `gorm:"column:ccli_number"`
	Lyrics     string `gorm:"column:lyrics"`
	VerseOrder string `gorm:"column:verse_order"`
}

func (openLPSong) TableName() string { return "songs" }

type openLPLyrics struct {
	XMLName xml.Name `xml:"song"`
	Verses  []struct {
		Type  string `xml:"type,attr"`
		Label string `xml:"label,attr"`
		Text  string `xml:",chardata"`
	} `xml:"lyrics>verse"`
}

// ImportOpenLP reads every song out of an OpenLP sqlite database,
// joining authors through authors_songs.
func ImportOpenLP(path string) ([]Song, error) {
	db, err := gorm.Open(sqlite.Open(path+"?mode=ro"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open openlp database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open openlp database: %w", err)
	}
	defer sqlDB.Close()

	var rows []openLPSong
	if err := db.Order("title").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read openlp songs: %w", err)
	}

	songs := make([]Song, 0, len(rows))
	for _, row := range rows {
		song := Song{
			Title:      row.Title,
			Copyright:  row.Copyright,
			CCLI:       row.CCLINumber,
			VerseOrder: convertVerseOrder(row.VerseOrder),
		}

		var authors []string
		err := db.Table("authors").
			Select("authors.display_name").
			Joins("JOIN authors_songs ON authors_songs.author_id = authors.id").
			Where("authors_songs.song_id = ?", row.ID).
			Order("authors.display_name").
			Pluck("display_name", &authors).Error
		if err != nil {
			return nil, fmt.Errorf("read authors for %q: %w", row.Title, err)
		}
		song.Author = strings.Join(authors, ", ")

		lyrics, err := convertOpenLPLyrics(row.Lyrics)
		if err != nil {
			return nil, fmt.Errorf("parse lyrics for %q: %w", row.Title, err)
		}
		song.Lyrics = lyrics

		songs = append(songs, song)
	}
	return songs, nil
}

// convertOpenLPLyrics rewrites the verse[@type,@label] XML into the
// internal bracket-tag form.
func convertOpenLPLyrics(blob string) (string, error) {
	var doc openLPLyrics
	if err := xml.Unmarshal([]byte(blob), &doc); err != nil {
		return "", err
	}

	var b strings.Builder
	for i, verse := range doc.Verses {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(openLPTag(verse.Type, verse.Label).Bracket())
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(verse.Text, "\n"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// openLPTag maps an OpenLP verse type and label to an internal tag.
// OpenLP types are single letters already; "o" (other) folds into
// verses.
func openLPTag(typ, label string) slides.Tag {
	letter := byte('v')
	if typ != "" {
		switch typ[0] {
		case 'v', 'c', 'p', 'b', 't', 'e':
			letter = typ[0]
		}
	}
	n := 1
	if v, err := strconv.Atoi(label); err == nil && v > 0 {
		n = v
	}
	return slides.Tag{Letter: letter, Number: n}
}

// convertVerseOrder rewrites OpenLP's "v1 c1 v2" order string, folding
// unknown types into verses the same way the lyric conversion does.
func convertVerseOrder(order string) string {
	fields := strings.Fields(order)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		out = append(out, openLPTag(f[:1], f[1:]).String())
	}
	return strings.Join(out, " ")
}
