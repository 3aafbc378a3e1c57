/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package coordinator

import (
	"time"

	"github.com/friendsincode/projecton/internal/events"
	"github.com/friendsincode/projecton/internal/slides"
)

// DisplayState is the audience-facing display mode. Blackout and Logo
// are exclusive overlays layered over the underlying state; clearing an
// overlay restores whatever was live beneath it.
type DisplayState string

const (
	StateHidden   DisplayState = "hidden"
	StateLyrics   DisplayState = "lyrics"
	StateImage    DisplayState = "image"
	StateVideo    DisplayState = "video"
	StateWeb      DisplayState = "web"
	StateBlackout DisplayState = "blackout"
	StateLogo     DisplayState = "logo"
)

const (
	videoFrameInterval = time.Second
)

// applyDisplay renders the current live slide, honoring any active
// overlay, and keeps the autoplay and frame-sampler timers in step.
func (c *Coordinator) applyDisplay() {
	c.mu.Lock()
	if !c.hasLive {
		c.mu.Unlock()
		return
	}
	live := c.live.Copy()
	row := c.liveRow
	overlay := c.overlay
	prev := c.state
	c.state = stateFor(live.Kind)
	state := c.state
	c.mu.Unlock()

	if prev == StateVideo && state != StateVideo {
		c.renderer.StopVideo()
	}
	c.syncSampler(state, overlay)

	if overlay != "" {
		c.publishState(overlay)
		return
	}

	switch state {
	case StateLyrics:
		if row >= 0 && row < len(live.Segments) {
			global := c.store.Snapshot().GlobalLayout()
			c.renderer.ShowSegment(live.Segments[row], live.Effective(global))
		}
	case StateImage:
		c.renderer.ShowImage(live.ImagePath)
	case StateVideo:
		c.renderer.PlayVideo(live.VideoPath)
	case StateWeb:
		c.renderer.ShowWeb(live.URL)
	}

	c.syncAutoplay(live)
	c.publishState(state)
	c.publishStage()
}

func stateFor(kind slides.Kind) DisplayState {
	switch kind {
	case slides.KindImage:
		return StateImage
	case slides.KindVideo:
		return StateVideo
	case slides.KindWeb:
		return StateWeb
	default:
		return StateLyrics
	}
}

// toggleOverlay flips blackout or logo. Activating one replaces the
// other; deactivating restores the underlying live render.
func (c *Coordinator) toggleOverlay(overlay DisplayState) {
	c.mu.Lock()
	active := c.overlay == overlay
	if active {
		c.overlay = ""
	} else {
		c.overlay = overlay
	}
	c.mu.Unlock()

	c.stopAutoplay()

	if active {
		// Restore whatever was live beneath the overlay.
		c.mu.Lock()
		hasLive := c.hasLive
		c.mu.Unlock()
		if hasLive {
			c.applyDisplay()
		} else {
			c.renderer.ShowBlank()
			c.publishState(StateHidden)
		}
		c.publishOverlays()
		return
	}

	c.syncSampler(StateHidden, overlay)
	switch overlay {
	case StateBlackout:
		c.renderer.ShowBlank()
	case StateLogo:
		c.renderer.ShowLogo(c.store.Snapshot().LogoImage)
	}
	c.publishState(overlay)
	c.publishOverlays()
}

// hide blanks the display without touching the live selection.
func (c *Coordinator) hide() {
	c.mu.Lock()
	c.state = StateHidden
	c.overlay = ""
	c.mu.Unlock()

	c.stopAutoplay()
	c.stopSampler()
	c.renderer.StopVideo()
	c.renderer.ShowBlank()
	c.publishState(StateHidden)
}

// syncAutoplay starts the autoplay timer for custom items that request
// it and stops it for everything else.
func (c *Coordinator) syncAutoplay(live slides.Slide) {
	c.stopAutoplay()
	if live.Kind != slides.KindCustom || !live.AutoPlay || live.SlideDelay <= 0 {
		return
	}
	delay := time.Duration(live.SlideDelay) * time.Second
	c.mu.Lock()
	c.autoplay = newPeriodic(delay, func() {
		c.Submit(Command{Op: OpSlideForward, Origin: OriginAuto})
	})
	c.mu.Unlock()
}

func (c *Coordinator) stopAutoplay() {
	c.mu.Lock()
	p := c.autoplay
	c.autoplay = nil
	c.mu.Unlock()
	if p != nil {
		p.stop()
	}
}

// syncSampler keeps the video frame sampler running only while a video
// is actually on the audience display.
func (c *Coordinator) syncSampler(state, overlay DisplayState) {
	if state == StateVideo && overlay == "" {
		c.mu.Lock()
		running := c.sampler != nil
		c.mu.Unlock()
		if running {
			return
		}
		c.mu.Lock()
		c.sampler = newPeriodic(videoFrameInterval, c.sampleFrame)
		c.mu.Unlock()
		return
	}
	c.stopSampler()
}

func (c *Coordinator) stopSampler() {
	c.mu.Lock()
	p := c.sampler
	c.sampler = nil
	c.mu.Unlock()
	if p != nil {
		p.stop()
	}
}

func (c *Coordinator) sampleFrame() {
	frame, ok := c.renderer.CaptureFrame()
	if !ok {
		return
	}
	c.bus.Publish(events.EventVideoFrame, events.Payload{"frame": frame})
}

func (c *Coordinator) stopTimers() {
	c.stopAutoplay()
	c.stopSampler()
}

// periodic is a stoppable repeating timer. The callback runs on its own
// goroutine and must enqueue work rather than mutate state directly.
type periodic struct {
	stopCh chan struct{}
}

func newPeriodic(interval time.Duration, fn func()) *periodic {
	p := &periodic{stopCh: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-p.stopCh:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return p
}

func (p *periodic) stop() {
	select {
	case <-p.stopCh:
	default:
		close(p.stopCh)
	}
}
