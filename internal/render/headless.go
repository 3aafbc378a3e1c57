/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package render hosts display back ends. The headless renderer keeps
// the engine runnable on a machine with no projector attached: remote
// and stage clients still see every transition, only the audience
// output is absent.
package render

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/friendsincode/projecton/internal/paginate"
	"github.com/friendsincode/projecton/internal/slides"
)

// Headless satisfies the coordinator's renderer capability without a
// physical display.
type Headless struct {
	logger zerolog.Logger
	target paginate.Target

	mu      sync.Mutex
	current string
}

// NewHeadless creates a headless renderer paginating against the given
// target geometry.
func NewHeadless(target paginate.Target, logger zerolog.Logger) *Headless {
	return &Headless{
		logger: logger.With().Str("component", "render").Logger(),
		target: target,
	}
}

// Geometry reports the pagination target.
func (h *Headless) Geometry() paginate.Target {
	return h.target
}

func (h *Headless) set(what string) {
	h.mu.Lock()
	h.current = what
	h.mu.Unlock()
}

// Current reports what would be on the audience display.
func (h *Headless) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

func (h *Headless) ShowSegment(seg slides.Segment, layout slides.Layout) {
	h.set("segment:" + seg.Title)
	h.logger.Debug().Str("segment", seg.Title).Msg("show segment")
}

func (h *Headless) ShowImage(path string) {
	h.set("image:" + path)
	h.logger.Debug().Str("path", path).Msg("show image")
}

func (h *Headless) PlayVideo(path string) {
	h.set("video:" + path)
	h.logger.Debug().Str("path", path).Msg("play video")
}

func (h *Headless) StopVideo() {
	h.logger.Debug().Msg("stop video")
}

func (h *Headless) ShowWeb(url string) {
	h.set("web:" + url)
	h.logger.Debug().Str("url", url).Msg("show web page")
}

func (h *Headless) ShowBlank() {
	h.set("blank")
	h.logger.Debug().Msg("show blank")
}

func (h *Headless) ShowLogo(path string) {
	h.set("logo:" + path)
	h.logger.Debug().Str("path", path).Msg("show logo")
}

// CaptureFrame has nothing to sample without a video pipeline.
func (h *Headless) CaptureFrame() ([]byte, bool) {
	return nil, false
}
