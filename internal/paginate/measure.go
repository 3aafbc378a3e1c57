/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package paginate decides which words land on which slide. It takes a
// free-form song body or a scripture passage plus the effective
// typographic settings and a target rectangle, and produces ordered
// (title, HTML) segments that fit the rectangle.
package paginate

import (
	"strings"
	"unicode"
)

// FontSpec is the subset of typography that affects measurement.
type FontSpec struct {
	Family         string
	SizePx         int
	OutlineWidthPx int
}

// Target is the rectangle segments must fit. The usable height is the
// display height minus the reserved footer area minus a safety margin.
type Target struct {
	Width        int
	Height       int
	FooterHeight int
}

// safetyMarginPx keeps ascenders/descenders clear of the display edge.
const safetyMarginPx = 40

// UsableHeight returns the height budget for one segment.
func (t Target) UsableHeight() int {
	h := t.Height - t.FooterHeight - safetyMarginPx
	if h < 0 {
		return 0
	}
	return h
}

// Measurer reports the rendered pixel height of a segment body. Bodies
// are HTML fragments whose lines are separated by <br/>. Implementations
// must be pure: identical inputs yield identical results and no I/O is
// performed, so pagination stays deterministic.
type Measurer interface {
	Height(body string, font FontSpec, width int) int
}

// Estimator is the default Measurer. It approximates glyph advances with
// a fixed width table, which is deterministic across platforms. The
// display renderer may substitute exact font metrics for its device.
type Estimator struct{}

// Height implements Measurer. Line height is the font size plus 25%
// leading, widened by the outline stroke on both edges.
func (Estimator) Height(body string, font FontSpec, width int) int {
	size := font.SizePx
	if size <= 0 {
		size = 40
	}
	lineHeight := size*5/4 + 2*font.OutlineWidthPx

	lines := 0
	for _, logical := range strings.Split(StripMarkup(body), "<br/>") {
		lines += wrappedLines(logical, size, width)
	}
	if lines == 0 {
		lines = 1
	}
	return lines * lineHeight
}

// wrappedLines counts how many display lines one logical line occupies.
func wrappedLines(line string, sizePx, width int) int {
	if width <= 0 {
		return 1
	}
	total := 0
	for _, r := range line {
		total += advance(r, sizePx)
	}
	if total == 0 {
		return 1
	}
	n := (total + width - 1) / width
	if n < 1 {
		n = 1
	}
	return n
}

// advance approximates the pixel advance of one glyph at sizePx.
func advance(r rune, sizePx int) int {
	switch {
	case r == ' ':
		return sizePx * 3 / 10
	case strings.ContainsRune("iIl.,;:'!|", r):
		return sizePx * 3 / 10
	case strings.ContainsRune("mMwW", r):
		return sizePx * 9 / 10
	case unicode.IsUpper(r):
		return sizePx * 7 / 10
	default:
		return sizePx * 11 / 20
	}
}

// StripMarkup removes inline formatting tags, leaving <br/> separators in
// place so line structure survives measurement.
func StripMarkup(body string) string {
	replacer := strings.NewReplacer(
		"<b>", "", "</b>", "",
		"<i>", "", "</i>", "",
		"<u>", "", "</u>", "",
	)
	return replacer.Replace(body)
}
