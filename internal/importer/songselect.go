/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package importer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/rs/zerolog"

	"github.com/friendsincode/projecton/internal/slides"
)

const (
	songSelectBase  = "https://songselect.ccli.com"
	songSelectLogin = songSelectBase + "/account/signin"
)

// SongSelect drives a headless browser against the CCLI SongSelect
// site, since the lyric downloads sit behind an interactive login.
type SongSelect struct {
	browser *rod.Browser
	logger  zerolog.Logger
}

// NewSongSelect launches the embedded browser and signs in.
func NewSongSelect(ctx context.Context, creds Credentials, logger zerolog.Logger) (*SongSelect, error) {
	controlURL, err := launcher.New().Headless(true).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	s := &SongSelect{
		browser: browser,
		logger:  logger.With().Str("component", "songselect").Logger(),
	}
	if err := s.signIn(creds); err != nil {
		browser.Close()
		return nil, err
	}
	return s, nil
}

// Close shuts the browser down.
func (s *SongSelect) Close() error {
	return s.browser.Close()
}

func (s *SongSelect) signIn(creds Credentials) error {
	err := rod.Try(func() {
		page := s.browser.MustPage(songSelectLogin)
		page.Timeout(30 * time.Second).MustElement("input[name=EmailAddress]").MustInput(creds.Username)
		page.MustElement("input[name=Password]").MustInput(creds.Password)
		page.MustElement("button[type=submit]").MustClick()
		page.MustWaitLoad()
	})
	if err != nil {
		return fmt.Errorf("songselect sign-in: %w", err)
	}
	s.logger.Info().Msg("signed in to songselect")
	return nil
}

// FetchSong opens a song's lyric page by CCLI number and parses the
// downloadable text format.
func (s *SongSelect) FetchSong(ccliNumber string) (Song, error) {
	var text string
	err := rod.Try(func() {
		url := fmt.Sprintf("%s/songs/%s/viewlyrics", songSelectBase, ccliNumber)
		page := s.browser.MustPage(url)
		page.Timeout(30 * time.Second).MustWaitLoad()
		text = page.MustElement("body").MustText()
	})
	if err != nil {
		return Song{}, fmt.Errorf("fetch song %s: %w", ccliNumber, err)
	}

	song := ParseSongSelectText(text)
	if song.CCLI == "" {
		song.CCLI = ccliNumber
	}
	if song.Title == "" {
		return Song{}, fmt.Errorf("fetch song %s: no title in lyric text", ccliNumber)
	}
	return song, nil
}

var (
	markerRe   = regexp.MustCompile(`(?i)^(verse|chorus|pre[- ]?chorus|bridge|tag|ending|outro|interlude)\s*(\d*)$`)
	ccliLineRe = regexp.MustCompile(`(?i)^CCLI Song #\s*(\d+)`)
)

// ParseSongSelectText parses the CCLI .txt lyric layout: the title on
// the first line, marker paragraphs for each segment, and a footer with
// the CCLI number and copyright lines.
func ParseSongSelectText(text string) Song {
	var song Song
	var body strings.Builder
	counts := map[byte]int{}
	inBody := false

	for _, para := range strings.Split(normalizeNewlines(text), "\n\n") {
		lines := splitClean(para)
		if len(lines) == 0 {
			continue
		}

		if song.Title == "" {
			song.Title = lines[0]
			if len(lines) > 1 {
				song.Author = strings.Join(lines[1:], ", ")
			}
			continue
		}

		if m := ccliLineRe.FindStringSubmatch(lines[0]); m != nil {
			song.CCLI = m[1]
			for _, l := range lines[1:] {
				if strings.HasPrefix(l, "©") {
					song.Copyright = strings.TrimSpace(strings.TrimPrefix(l, "©"))
					break
				}
			}
			continue
		}

		if m := markerRe.FindStringSubmatch(lines[0]); m != nil {
			letter := sectionLetter(m[1])
			n := counts[letter] + 1
			if m[2] != "" {
				fmt.Sscanf(m[2], "%d", &n)
			}
			counts[letter] = n

			if body.Len() > 0 {
				body.WriteString("\n")
			}
			tag := slides.Tag{Letter: letter, Number: n}
			body.WriteString(tag.Bracket())
			body.WriteString("\n")
			body.WriteString(strings.Join(lines[1:], "\n"))
			body.WriteString("\n")
			inBody = true
			continue
		}

		// Paragraph without a marker inside the body: continuation of
		// the previous segment.
		if inBody {
			body.WriteString(strings.Join(lines, "\n"))
			body.WriteString("\n")
		}
	}

	song.Lyrics = strings.TrimRight(body.String(), "\n")
	return song
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func splitClean(para string) []string {
	var out []string
	for _, line := range strings.Split(para, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return out
}
