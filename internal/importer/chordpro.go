/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package importer

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/friendsincode/projecton/internal/slides"
)

var (
	directiveRe = regexp.MustCompile(`^\{\s*([a-zA-Z_]+)\s*:?\s*(.*?)\s*\}\s*$`)
	chordRe     = regexp.MustCompile(`\[[^\]]*\]`)
	sectionRe   = regexp.MustCompile(`(?i)^(verse|chorus|pre[- ]?chorus|bridge|tag|ending|outro)\s*(\d*)$`)
)

// ImportChordPro parses one ChordPro file. Chord annotations are
// stripped; {comment: Verse 1} directives become segment markers.
func ImportChordPro(path string) (Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Song{}, fmt.Errorf("read chordpro file: %w", err)
	}
	return parseChordPro(string(data)), nil
}

func parseChordPro(src string) Song {
	var song Song
	var body strings.Builder
	counts := map[byte]int{}
	tagged := false

	flushTag := func(letter byte) {
		counts[letter]++
		if body.Len() > 0 {
			body.WriteString("\n")
		}
		tag := slides.Tag{Letter: letter, Number: counts[letter]}
		body.WriteString(tag.Bracket())
		body.WriteString("\n")
		tagged = true
	}

	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimRight(line, "\r")

		if m := directiveRe.FindStringSubmatch(line); m != nil {
			name, value := strings.ToLower(m[1]), m[2]
			switch name {
			case "title", "t":
				song.Title = value
			case "artist", "composer", "lyricist", "author":
				if song.Author == "" {
					song.Author = value
				}
			case "copyright":
				song.Copyright = value
			case "ccli":
				song.CCLI = value
			case "comment", "c":
				if sm := sectionRe.FindStringSubmatch(strings.TrimSpace(value)); sm != nil {
					letter := sectionLetter(sm[1])
					n := counts[letter] + 1
					if sm[2] != "" {
						if v, err := strconv.Atoi(sm[2]); err == nil {
							n = v
						}
					}
					if body.Len() > 0 {
						body.WriteString("\n")
					}
					tag := slides.Tag{Letter: letter, Number: n}
					counts[letter] = n
					body.WriteString(tag.Bracket())
					body.WriteString("\n")
					tagged = true
				}
			}
			continue
		}

		text := strings.TrimRight(chordRe.ReplaceAllString(line, ""), " \t")
		if text == "" && body.Len() == 0 {
			continue
		}
		if !tagged && strings.TrimSpace(text) != "" && body.Len() == 0 {
			// Untagged files get a single implicit verse.
			flushTag('v')
		}
		body.WriteString(text)
		body.WriteString("\n")
	}

	song.Lyrics = strings.TrimRight(body.String(), "\n")
	return song
}

func sectionLetter(name string) byte {
	switch strings.ToLower(strings.ReplaceAll(name, " ", "-")) {
	case "chorus":
		return 'c'
	case "pre-chorus", "prechorus":
		return 'p'
	case "bridge":
		return 'b'
	case "tag":
		return 't'
	case "ending", "outro":
		return 'e'
	default:
		return 'v'
	}
}
