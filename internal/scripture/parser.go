/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package scripture

import (
	"strings"
	"unicode"
)

// Ref is a parsed scripture reference. For chapterless books the chapter
// fields are empty and the verse fields carry the location; otherwise at
// least ChapterStart is set.
type Ref struct {
	Book         string // book text as typed, e.g. "1 Jn"
	ChapterStart string
	ChapterEnd   string
	VerseStart   string
	VerseEnd     string
	Standardized bool // true when Book matched the canonical table
}

// Canonical returns the canonical book name, or the raw book text when
// the book is not standardized.
func (r Ref) Canonical() string {
	if c, ok := CanonicalBook(r.Book); ok {
		return c
	}
	return r.Book
}

// Parse translates a loose reference such as "1 jn 2:3-5", "Ps 23",
// "jude 5-7", or "Matt 5:3-7:29" into a normalized Ref. Unknown books are
// returned with Standardized=false; the caller decides how to report.
func Parse(raw string) Ref {
	tokens := strings.Fields(strings.TrimSpace(raw))
	if len(tokens) == 0 {
		return Ref{}
	}

	var ref Ref
	rest := tokens[1:]
	ref.Book = tokens[0]
	if isNumeric(tokens[0]) && len(tokens) > 1 {
		ref.Book = tokens[0] + " " + tokens[1]
		rest = tokens[2:]
	}

	canonicalName, ok := CanonicalBook(ref.Book)
	ref.Standardized = ok

	location := strings.Join(rest, "")
	if location == "" {
		return ref
	}

	start, end, _ := strings.Cut(location, "-")

	if ok && IsChapterless(canonicalName) {
		ref.VerseStart = start
		ref.VerseEnd = end
		return ref
	}

	ref.ChapterStart, ref.VerseStart = splitChapterVerse(start)
	switch {
	case end == "":
		ref.ChapterEnd = ref.ChapterStart
	case strings.Contains(end, ":"):
		ref.ChapterEnd, ref.VerseEnd = splitChapterVerse(end)
	default:
		// End without an explicit chapter reuses the start chapter.
		ref.ChapterEnd = ref.ChapterStart
		ref.VerseEnd = end
	}
	return ref
}

// Format renders the canonical form of a reference; Parse(Format(r)) is a
// fixed point for well-formed references.
func Format(r Ref) string {
	var b strings.Builder
	b.WriteString(r.Canonical())

	if r.ChapterStart == "" {
		// Chapterless book: location is the verse span.
		if r.VerseStart != "" {
			b.WriteByte(' ')
			b.WriteString(r.VerseStart)
			if r.VerseEnd != "" {
				b.WriteByte('-')
				b.WriteString(r.VerseEnd)
			}
		}
		return b.String()
	}

	b.WriteByte(' ')
	b.WriteString(r.ChapterStart)
	if r.VerseStart != "" {
		b.WriteByte(':')
		b.WriteString(r.VerseStart)
	}

	multiChapter := r.ChapterEnd != "" && r.ChapterEnd != r.ChapterStart
	if multiChapter {
		b.WriteByte('-')
		b.WriteString(r.ChapterEnd)
		if r.VerseEnd != "" {
			b.WriteByte(':')
			b.WriteString(r.VerseEnd)
		}
	} else if r.VerseEnd != "" && r.VerseEnd != r.VerseStart {
		b.WriteByte('-')
		b.WriteString(r.VerseEnd)
	}
	return b.String()
}

func splitChapterVerse(s string) (chapter, verse string) {
	chapter, verse, _ = strings.Cut(s, ":")
	return chapter, verse
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
