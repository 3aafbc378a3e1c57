/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package slides

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag is a song segment marker: a role letter plus an ordinal, written
// `[v1]` in lyric bodies and `v1` in verse orders. Each (letter, number)
// pair is unique within a song.
type Tag struct {
	Letter byte // one of v c p b t e
	Number int
}

var tagTitles = map[byte]string{
	'v': "Verse",
	'c': "Chorus",
	'p': "Pre-Chorus",
	'b': "Bridge",
	't': "Tag",
	'e': "Ending",
}

// ParseTag parses a bare tag token such as "v1" or "c2".
func ParseTag(token string) (Tag, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if len(token) < 2 {
		return Tag{}, false
	}
	letter := token[0]
	if _, ok := tagTitles[letter]; !ok {
		return Tag{}, false
	}
	n, err := strconv.Atoi(token[1:])
	if err != nil || n < 1 {
		return Tag{}, false
	}
	return Tag{Letter: letter, Number: n}, true
}

// ParseBracketTag parses a bracketed marker such as "[v1]".
func ParseBracketTag(line string) (Tag, bool) {
	line = strings.TrimSpace(line)
	if len(line) < 4 || line[0] != '[' || line[len(line)-1] != ']' {
		return Tag{}, false
	}
	return ParseTag(line[1 : len(line)-1])
}

// String renders the bare token form, e.g. "v1".
func (t Tag) String() string {
	return fmt.Sprintf("%c%d", t.Letter, t.Number)
}

// Bracket renders the bracketed marker form, e.g. "[v1]".
func (t Tag) Bracket() string {
	return "[" + t.String() + "]"
}

// Title renders the human-readable segment title, e.g. "Verse 1".
func (t Tag) Title() string {
	name, ok := tagTitles[t.Letter]
	if !ok {
		name = "Verse"
	}
	return fmt.Sprintf("%s %d", name, t.Number)
}

// ParseVerseOrder splits a whitespace/comma verse order string into tags.
// Unknown tokens are skipped.
func ParseVerseOrder(order string) []Tag {
	fields := strings.FieldsFunc(order, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	tags := make([]Tag, 0, len(fields))
	for _, f := range fields {
		if t, ok := ParseTag(f); ok {
			tags = append(tags, t)
		}
	}
	return tags
}
