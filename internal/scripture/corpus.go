/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package scripture

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/friendsincode/projecton/internal/slides"
)

// Retrieval error kinds. Each surfaces to the operator as a short status
// string; none of them aborts the process.
var (
	ErrNotEnoughInfo  = errors.New("not enough information in reference")
	ErrNoVersesFound  = errors.New("no verses found")
	ErrUnknownBook    = errors.New("unknown book")
	ErrChapterMissing = errors.New("chapter not in bible")
	ErrBookMissing    = errors.New("book not in bible")
	ErrBadVerseValue  = errors.New("bad verse value")
	ErrEmpty          = errors.New("empty reference")
)

// Corpus is one loaded bible translation.
type Corpus struct {
	Name string // display name from the biblename attribute
	Path string

	books map[string]*xmlBook // keyed by canonical (or lowercased) name
}

type xmlBible struct {
	XMLName xml.Name   `xml:"XMLBIBLE"`
	Name    string     `xml:"biblename,attr"`
	Books   []*xmlBook `xml:"BIBLEBOOK"`
}

type xmlBook struct {
	Name     string       `xml:"bname,attr"`
	Chapters []xmlChapter `xml:"CHAPTER"`
}

type xmlChapter struct {
	Number string     `xml:"cnumber,attr"`
	Verses []xmlVerse `xml:"VERS"`
}

type xmlVerse struct {
	Number string `xml:"vnumber,attr"`
	Text   string `xml:",chardata"`
}

// LoadCorpus parses one Zefania XML bible file.
func LoadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bible file: %w", err)
	}

	var bible xmlBible
	if err := xml.Unmarshal(data, &bible); err != nil {
		return nil, fmt.Errorf("parse bible file %s: %w", filepath.Base(path), err)
	}

	c := &Corpus{
		Name:  bible.Name,
		Path:  path,
		books: make(map[string]*xmlBook, len(bible.Books)),
	}
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	for _, b := range bible.Books {
		c.books[bookKey(b.Name)] = b
	}
	return c, nil
}

// ListCorpora scans a directory for Zefania files and returns the display
// names keyed by file path, sorted by name.
func ListCorpora(dir string) (map[string]string, []string, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.xml"))
	if err != nil {
		return nil, nil, err
	}
	byPath := make(map[string]string, len(entries))
	names := make([]string, 0, len(entries))
	for _, path := range entries {
		c, err := LoadCorpus(path)
		if err != nil {
			continue
		}
		byPath[path] = c.Name
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return byPath, names, nil
}

// Lookup resolves a parsed reference against the corpus, returning the
// canonical book name and the matching verses in order.
func (c *Corpus) Lookup(ref Ref) (string, []slides.Verse, error) {
	if ref.Book == "" {
		return "", nil, ErrEmpty
	}
	if !ref.Standardized {
		return "", nil, ErrUnknownBook
	}

	canonicalName := ref.Canonical()
	book, ok := c.books[bookKey(canonicalName)]
	if !ok {
		return canonicalName, nil, ErrBookMissing
	}

	chapterStart, chapterEnd, verseStart, verseEnd, err := resolveSpan(ref, canonicalName)
	if err != nil {
		return canonicalName, nil, err
	}

	var out []slides.Verse
	for chapter := chapterStart; chapter <= chapterEnd; chapter++ {
		xc := findChapter(book, chapter)
		if xc == nil {
			return canonicalName, nil, ErrChapterMissing
		}

		// Effective verse window for this chapter of the span.
		low, high := 1, int(^uint(0)>>1)
		switch {
		case chapterStart == chapterEnd:
			if verseStart > 0 {
				low = verseStart
			}
			if verseEnd > 0 {
				high = verseEnd
			} else if verseStart > 0 {
				high = verseStart
			}
		case chapter == chapterStart:
			if verseStart > 0 {
				low = verseStart
			}
		case chapter == chapterEnd:
			if verseEnd > 0 {
				high = verseEnd
			}
		}

		for _, v := range xc.Verses {
			n, err := strconv.Atoi(strings.TrimSpace(v.Number))
			if err != nil {
				continue
			}
			if n >= low && n <= high {
				out = append(out, slides.Verse{
					Number: strconv.Itoa(n),
					Text:   normalizeSpace(v.Text),
				})
			}
		}
	}

	if len(out) == 0 {
		return canonicalName, nil, ErrNoVersesFound
	}
	return canonicalName, out, nil
}

// resolveSpan converts the string reference fields into numeric chapter
// and verse bounds. Chapterless books resolve to chapter 1.
func resolveSpan(ref Ref, canonicalName string) (cs, ce, vs, ve int, err error) {
	if IsChapterless(canonicalName) {
		cs, ce = 1, 1
		vs, err = optionalInt(ref.VerseStart)
		if err != nil {
			return 0, 0, 0, 0, ErrBadVerseValue
		}
		ve, err = optionalInt(ref.VerseEnd)
		if err != nil {
			return 0, 0, 0, 0, ErrBadVerseValue
		}
		return cs, ce, vs, ve, nil
	}

	if ref.ChapterStart == "" {
		return 0, 0, 0, 0, ErrNotEnoughInfo
	}
	cs, err = strconv.Atoi(ref.ChapterStart)
	if err != nil {
		return 0, 0, 0, 0, ErrBadVerseValue
	}
	ce = cs
	if ref.ChapterEnd != "" {
		ce, err = strconv.Atoi(ref.ChapterEnd)
		if err != nil {
			return 0, 0, 0, 0, ErrBadVerseValue
		}
	}
	vs, err = optionalInt(ref.VerseStart)
	if err != nil {
		return 0, 0, 0, 0, ErrBadVerseValue
	}
	ve, err = optionalInt(ref.VerseEnd)
	if err != nil {
		return 0, 0, 0, 0, ErrBadVerseValue
	}
	if ce < cs {
		return 0, 0, 0, 0, ErrBadVerseValue
	}
	return cs, ce, vs, ve, nil
}

// Status maps a retrieval error to the short string shown to the
// operator.
func Status(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownBook), errors.Is(err, ErrEmpty), errors.Is(err, ErrNotEnoughInfo):
		return "unable to parse reference"
	case errors.Is(err, ErrBookMissing):
		return "book not found in this bible"
	case errors.Is(err, ErrChapterMissing):
		return "chapter not found in this bible"
	case errors.Is(err, ErrNoVersesFound):
		return "no verses found"
	case errors.Is(err, ErrBadVerseValue):
		return "bad chapter or verse value"
	default:
		return err.Error()
	}
}

func findChapter(book *xmlBook, number int) *xmlChapter {
	for i := range book.Chapters {
		if n, err := strconv.Atoi(strings.TrimSpace(book.Chapters[i].Number)); err == nil && n == number {
			return &book.Chapters[i]
		}
	}
	return nil
}

func bookKey(name string) string {
	if c, ok := CanonicalBook(name); ok {
		return strings.ToLower(c)
	}
	return strings.ToLower(strings.TrimSpace(name))
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
