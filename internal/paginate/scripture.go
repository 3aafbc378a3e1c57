/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package paginate

import (
	"strings"

	"github.com/friendsincode/projecton/internal/slides"
)

// Scripture paginates an ordered verse list by greedy packing: verses are
// appended to the current slide until the rendered height exceeds the
// budget, then the last verse is backed off and the slide committed. A
// single verse that alone exceeds the budget is emitted on its own slide
// with a warning.
func (p *Paginator) Scripture(title string, verses []slides.Verse, layout slides.Layout, tgt Target) []slides.Segment {
	font := FontSpec{Family: layout.FontFamily, SizePx: layout.FontSize, OutlineWidthPx: outlinePx(layout)}
	budget := tgt.UsableHeight()

	var out []slides.Segment
	var batch []slides.Verse

	commit := func() {
		if len(batch) == 0 {
			return
		}
		out = append(out, slides.Segment{Title: title, HTML: joinVerses(batch)})
		batch = nil
	}

	for _, v := range verses {
		candidate := append(batch, v)
		if budget > 0 && p.measurer.Height(joinVerses(candidate), font, tgt.Width) > budget {
			commit()
			// Measure the verse alone; it may not fit even on a fresh
			// slide.
			if p.measurer.Height(joinVerses([]slides.Verse{v}), font, tgt.Width) > budget {
				p.logger.Warn().
					Str("verse", v.Number).
					Msg("single verse exceeds display height; emitting oversized slide")
				out = append(out, slides.Segment{Title: title, HTML: joinVerses([]slides.Verse{v})})
				continue
			}
			batch = []slides.Verse{v}
			continue
		}
		batch = candidate
	}
	commit()

	return out
}

// joinVerses concatenates verses with the verse number prepended inline,
// separated by single spaces.
func joinVerses(verses []slides.Verse) string {
	parts := make([]string, 0, len(verses))
	for _, v := range verses {
		parts = append(parts, v.Number+" "+v.Text)
	}
	return strings.Join(parts, " ")
}
