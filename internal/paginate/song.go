/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package paginate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/friendsincode/projecton/internal/slides"
	"github.com/friendsincode/projecton/internal/telemetry"
)

// Paginator turns raw lyric and scripture content into display segments.
// It never fails fatally; over-budget content is emitted with a warning.
type Paginator struct {
	measurer Measurer
	logger   zerolog.Logger
}

// New creates a paginator. A nil measurer falls back to the deterministic
// Estimator.
func New(measurer Measurer, logger zerolog.Logger) *Paginator {
	if measurer == nil {
		measurer = Estimator{}
	}
	return &Paginator{measurer: measurer, logger: logger}
}

// Song paginates a song slide into ordered segments. Segment order follows
// the slide's verse order when present, first-seen tag order otherwise.
func (p *Paginator) Song(s *slides.Slide, layout slides.Layout, tgt Target) []slides.Segment {
	body := NormalizeBody(s.RawText)
	tags, bodies := splitSegments(body)

	order := selectedOrder(s.VerseOrder, tags, bodies)

	font := FontSpec{Family: layout.FontFamily, SizePx: layout.FontSize, OutlineWidthPx: outlinePx(layout)}
	budget := tgt.UsableHeight()

	var out []slides.Segment
	for _, tag := range order {
		segBody, ok := bodies[tag]
		if !ok {
			continue
		}
		out = append(out, p.fit(tag.Title(), segBody, font, tgt.Width, budget)...)
	}
	return out
}

// Custom paginates a custom slide. With SplitSlides set, blank-line groups
// become separate slides; otherwise the whole text is one slide.
func (p *Paginator) Custom(s *slides.Slide, layout slides.Layout, tgt Target) []slides.Segment {
	body := NormalizeBody(s.RawText)
	var groups []string
	if s.SplitSlides {
		groups = splitBlankGroups(body)
	} else {
		groups = []string{body}
	}

	font := FontSpec{Family: layout.FontFamily, SizePx: layout.FontSize, OutlineWidthPx: outlinePx(layout)}
	budget := tgt.UsableHeight()

	var out []slides.Segment
	for i, g := range groups {
		title := "Slide " + strconv.Itoa(i+1)
		out = append(out, p.fit(title, g, font, tgt.Width, budget)...)
	}
	return out
}

// fit measures one segment body and applies at most one midpoint split.
// Secondary overflow is accepted and logged rather than sub-split further.
func (p *Paginator) fit(title, body string, font FontSpec, width, budget int) []slides.Segment {
	if budget <= 0 || p.measurer.Height(body, font, width) <= budget {
		return []slides.Segment{{Title: title, HTML: body}}
	}

	lines := strings.Split(body, "<br/>")
	if len(lines) < 2 {
		p.logger.Warn().Str("segment", title).Msg("single line exceeds display height; emitting oversized slide")
		return []slides.Segment{{Title: title, HTML: body}}
	}

	mid := len(lines) / 2
	first := strings.Join(lines[:mid], "<br/>")
	second := strings.Join(lines[mid:], "<br/>")
	first, second = rebalanceMarkup(first, second)

	telemetry.PaginationSplitsTotal.Inc()

	for _, half := range []string{first, second} {
		if p.measurer.Height(half, font, width) > budget {
			p.logger.Warn().Str("segment", title).Msg("segment still exceeds display height after split")
		}
	}

	return []slides.Segment{
		{Title: title + " - 1", HTML: first},
		{Title: title + " - 2", HTML: second},
	}
}

// NormalizeBody strips any rich-text document envelope, converts inline
// span styling to <b>/<i>/<u> pairs, and normalizes paragraph breaks to
// <br/> separators.
func NormalizeBody(raw string) string {
	body := stripEnvelope(raw)
	body = convertSpans(body)
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	body = strings.TrimRight(body, "\n")
	return strings.ReplaceAll(body, "\n", "<br/>")
}

var (
	bodyRe = regexp.MustCompile(`(?s)<body[^>]*>(.*)</body>`)
	paraRe = regexp.MustCompile(`(?s)<p[^>]*>(.*?)</p>`)
	spanRe = regexp.MustCompile(`(?s)<span style="([^"]*)">([^<]*)</span>`)
)

// stripEnvelope removes the outer document wrapper an editor may have
// saved around the lyrics, converting paragraph elements back to lines.
func stripEnvelope(raw string) string {
	if m := bodyRe.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}
	if paraRe.MatchString(raw) {
		paras := paraRe.FindAllStringSubmatch(raw, -1)
		lines := make([]string, 0, len(paras))
		for _, pm := range paras {
			lines = append(lines, strings.TrimSpace(pm[1]))
		}
		raw = strings.Join(lines, "\n")
	}
	return raw
}

// convertSpans rewrites styled spans to semantic bold/italic/underline
// tags. Spans are resolved innermost first so nesting is preserved.
func convertSpans(body string) string {
	for {
		m := spanRe.FindStringSubmatchIndex(body)
		if m == nil {
			return body
		}
		style := body[m[2]:m[3]]
		inner := body[m[4]:m[5]]
		if strings.Contains(style, "font-weight:600") || strings.Contains(style, "font-weight:bold") {
			inner = "<b>" + inner + "</b>"
		}
		if strings.Contains(style, "font-style:italic") {
			inner = "<i>" + inner + "</i>"
		}
		if strings.Contains(style, "text-decoration: underline") || strings.Contains(style, "text-decoration:underline") {
			inner = "<u>" + inner + "</u>"
		}
		body = body[:m[0]] + inner + body[m[1]:]
	}
}

// rebalanceMarkup closes formatting tags orphaned by a midpoint split and
// reopens them in the second half.
func rebalanceMarkup(first, second string) (string, string) {
	for _, tag := range []string{"b", "i", "u"} {
		open := "<" + tag + ">"
		closing := "</" + tag + ">"
		if strings.Count(first, open) > strings.Count(first, closing) {
			first += closing
			second = open + second
		}
	}
	return first, second
}

// splitSegments breaks a normalized body on bracketed segment tags. Bodies
// without tags split on blank-line groups as Verse 1..N.
func splitSegments(body string) ([]slides.Tag, map[slides.Tag]string) {
	lines := strings.Split(body, "<br/>")

	var order []slides.Tag
	bodies := make(map[slides.Tag]string)
	var current *slides.Tag
	var acc []string

	flush := func() {
		if current == nil {
			return
		}
		text := strings.Join(trimBlankEdges(acc), "<br/>")
		if _, seen := bodies[*current]; !seen {
			order = append(order, *current)
			bodies[*current] = text
		}
		acc = nil
	}

	for _, line := range lines {
		if tag, ok := slides.ParseBracketTag(stripTags(line)); ok {
			flush()
			t := tag
			current = &t
			continue
		}
		if current != nil {
			acc = append(acc, line)
		}
	}
	flush()

	if len(order) > 0 {
		return order, bodies
	}

	// No tags present: synthesize Verse 1..N from blank-line groups.
	for i, group := range splitBlankGroups(body) {
		tag := slides.Tag{Letter: 'v', Number: i + 1}
		order = append(order, tag)
		bodies[tag] = group
	}
	return order, bodies
}

// selectedOrder resolves the presentation order: the verse order filtered
// to defined tags, or first-seen order when the verse order is empty.
func selectedOrder(verseOrder string, firstSeen []slides.Tag, bodies map[slides.Tag]string) []slides.Tag {
	wanted := slides.ParseVerseOrder(verseOrder)
	if len(wanted) == 0 {
		return firstSeen
	}
	out := make([]slides.Tag, 0, len(wanted))
	for _, t := range wanted {
		if _, ok := bodies[t]; ok {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return firstSeen
	}
	return out
}

func splitBlankGroups(body string) []string {
	lines := strings.Split(body, "<br/>")
	var groups []string
	var acc []string
	for _, line := range lines {
		if strings.TrimSpace(StripMarkup(line)) == "" {
			if len(acc) > 0 {
				groups = append(groups, strings.Join(acc, "<br/>"))
				acc = nil
			}
			continue
		}
		acc = append(acc, line)
	}
	if len(acc) > 0 {
		groups = append(groups, strings.Join(acc, "<br/>"))
	}
	return groups
}

func trimBlankEdges(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

func stripTags(line string) string {
	return StripMarkup(line)
}

func outlinePx(layout slides.Layout) int {
	if !layout.UseOutline {
		return 0
	}
	return layout.OutlineWidthPx
}
