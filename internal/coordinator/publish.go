/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package coordinator

import (
	"fmt"
	"html"
	"strings"

	"github.com/friendsincode/projecton/internal/events"
	"github.com/friendsincode/projecton/internal/paginate"
)

// publishOOS pushes the full order-of-service listing to subscribers as
// a pre-rendered fragment so thin remote clients need no templating.
func (c *Coordinator) publishOOS() {
	c.mu.Lock()
	rows := c.serviceRow
	var b strings.Builder
	for i, item := range c.service {
		cls := "oos-item"
		if i == rows {
			cls += " current"
		}
		fmt.Fprintf(&b, "<li class=%q data-row=\"%d\">%s</li>\n", cls, i, html.EscapeString(item.Title))
	}
	c.mu.Unlock()

	c.bus.Publish(events.EventUpdateOOS, events.Payload{
		"html": b.String(),
		"row":  rows,
	})
}

// publishSlides pushes the live item's slide listing.
func (c *Coordinator) publishSlides() {
	c.mu.Lock()
	var b strings.Builder
	if c.hasLive {
		for i, seg := range c.live.Segments {
			cls := "slide"
			if i == c.liveRow {
				cls += " current"
			}
			fmt.Fprintf(&b, "<li class=%q data-row=\"%d\"><span class=\"tag\">%s</span>%s</li>\n",
				cls, i, html.EscapeString(seg.Title), seg.HTML)
		}
	}
	row := c.liveRow
	c.mu.Unlock()

	c.bus.Publish(events.EventUpdateSlides, events.Payload{
		"html": b.String(),
		"row":  row,
	})
}

func (c *Coordinator) publishSlideCursor() {
	c.mu.Lock()
	row := c.liveRow
	c.mu.Unlock()
	c.bus.Publish(events.EventChangeCurrentSlide, events.Payload{"row": row})
}

func (c *Coordinator) publishState(state DisplayState) {
	c.bus.Publish(events.EventDisplayState, events.Payload{"state": string(state)})
}

func (c *Coordinator) publishOverlays() {
	c.mu.Lock()
	overlay := c.overlay
	c.mu.Unlock()
	c.bus.Publish(events.EventBlackout, events.Payload{"active": overlay == StateBlackout})
	c.bus.Publish(events.EventLogo, events.Payload{"active": overlay == StateLogo})
}

// publishStage pushes the stage-display text: the current slide body with
// markup stripped, sized for confidence monitors.
func (c *Coordinator) publishStage() {
	c.mu.Lock()
	var current, next string
	if c.hasLive && c.liveRow < len(c.live.Segments) {
		current = stageText(c.live.Segments[c.liveRow].HTML)
		if c.liveRow+1 < len(c.live.Segments) {
			next = stageText(c.live.Segments[c.liveRow+1].HTML)
		}
	}
	c.mu.Unlock()

	c.bus.Publish(events.EventUpdateStage, events.Payload{
		"current": current,
		"next":    next,
	})
}

// StageText returns the current and next stage lines for the initial
// page render.
func (c *Coordinator) StageText() (current, next string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasLive && c.liveRow < len(c.live.Segments) {
		current = stageText(c.live.Segments[c.liveRow].HTML)
		if c.liveRow+1 < len(c.live.Segments) {
			next = stageText(c.live.Segments[c.liveRow+1].HTML)
		}
	}
	return current, next
}

// stageText flattens a slide body to plain lines for confidence
// monitors.
func stageText(body string) string {
	return strings.ReplaceAll(paginate.StripMarkup(body), "<br/>", "\n")
}

// OOSHTML returns the rendered order-of-service fragment for the initial
// page render.
func (c *Coordinator) OOSHTML() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var b strings.Builder
	for i, item := range c.service {
		cls := "oos-item"
		if i == c.serviceRow {
			cls += " current"
		}
		fmt.Fprintf(&b, "<li class=%q data-row=\"%d\">%s</li>\n", cls, i, html.EscapeString(item.Title))
	}
	return b.String()
}

// SlidesHTML returns the rendered live slide listing for the initial
// page render.
func (c *Coordinator) SlidesHTML() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var b strings.Builder
	if c.hasLive {
		for i, seg := range c.live.Segments {
			cls := "slide"
			if i == c.liveRow {
				cls += " current"
			}
			fmt.Fprintf(&b, "<li class=%q data-row=\"%d\"><span class=\"tag\">%s</span>%s</li>\n",
				cls, i, html.EscapeString(seg.Title), seg.HTML)
		}
	}
	return b.String()
}
