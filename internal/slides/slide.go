/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package slides defines the uniform slide record shared by the service,
// preview, and live lists. A slide in a list is a detached copy; editing a
// catalog row does not mutate already-queued slides until they are
// re-resolved.
package slides

// Kind enumerates slide item kinds. The values match the `type` field of
// the service document format.
type Kind string

const (
	KindSong   Kind = "song"
	KindBible  Kind = "bible"
	KindCustom Kind = "custom"
	KindImage  Kind = "image"
	KindVideo  Kind = "video"
	KindWeb    Kind = "web"
)

// Valid reports whether k is a known slide kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSong, KindBible, KindCustom, KindImage, KindVideo, KindWeb:
		return true
	}
	return false
}

// Layout carries the typographic parameters of a slide. A slide uses its
// own Layout only when Override is set on the slide; otherwise the global
// defaults apply.
type Layout struct {
	FontFamily     string
	FontSize       int
	FontColor      string // named color or "r,g,b"
	Background     string // "global_song", "global_bible", file name, or "r,g,b"
	UseShadow      bool
	ShadowGrey     int // 0-255
	ShadowOffsetPx int // 0-15
	UseOutline     bool
	OutlineGrey    int
	OutlineWidthPx int
	UseFooter      bool
}

// Verse is one scripture verse as (number, text).
type Verse struct {
	Number string
	Text   string
}

// Segment is one projected slide: a human-readable title plus the HTML
// body produced by the paginator.
type Segment struct {
	Title string
	HTML  string
}

// Slide is the uniform record for every item in a service, preview, or
// live list.
type Slide struct {
	Kind Kind

	Title     string
	Author    string
	Copyright string
	CCLI      string

	// Content union; which field is populated depends on Kind.
	RawText   string  // song lyrics with segment tags, or custom slide text
	Passages  []Verse // scripture verses in order
	ImagePath string
	VideoPath string
	URL       string

	Layout   Layout
	Override bool

	VerseOrder string // songs only: whitespace/comma list of segment tags

	// Custom slide playback options.
	AudioFile   string
	LoopAudio   bool
	AutoPlay    bool
	SlideDelay  int
	SplitSlides bool

	// Segments is the parsed payload produced by the paginator; absent
	// for image/video/web slides.
	Segments []Segment

	// Missing marks a placeholder for a service reference that did not
	// resolve against the catalog.
	Missing bool
}

// Effective returns the layout to render this slide with: the slide's own
// layout when Override is set, the global defaults otherwise. Scripture
// and song slides fall back to their respective global backgrounds.
func (s *Slide) Effective(global Layout) Layout {
	if s.Override {
		return s.Layout
	}
	eff := global
	switch s.Kind {
	case KindBible:
		eff.Background = "global_bible"
	case KindSong:
		eff.Background = "global_song"
	}
	return eff
}

// Copy returns a detached copy of the slide with its own segment slice.
func (s *Slide) Copy() Slide {
	out := *s
	out.Segments = append([]Segment(nil), s.Segments...)
	out.Passages = append([]Verse(nil), s.Passages...)
	return out
}
