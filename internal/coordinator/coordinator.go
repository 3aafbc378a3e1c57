/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package coordinator is the single source of truth for the service,
// preview, and live lists. Views submit commands and subscribe to events;
// no view holds a back-pointer into the coordinator. All list mutation
// happens on the coordinator's run loop, so remote clients and the local
// input path never race.
package coordinator

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/friendsincode/projecton/internal/events"
	"github.com/friendsincode/projecton/internal/paginate"
	"github.com/friendsincode/projecton/internal/settings"
	"github.com/friendsincode/projecton/internal/slides"
	"github.com/friendsincode/projecton/internal/telemetry"
)

// Origin identifies who issued a command. Remote-originated commands are
// filtered at the boundary while remote input is blocked; local input
// never is.
type Origin int

const (
	OriginLocal Origin = iota
	OriginRemote
	OriginAuto // autoplay ticker
)

// Op enumerates coordinator commands.
type Op string

const (
	OpSelectService Op = "select_service" // preview service row (Row)
	OpGoLiveItem    Op = "go_live_item"   // send service row live (Row)
	OpSendToLive    Op = "send_to_live"   // promote preview to live
	OpSetLiveRow    Op = "set_live_row"   // jump live cursor (Row)
	OpSlideForward  Op = "slide_forward"
	OpSlideBack     Op = "slide_back"
	OpItemForward   Op = "item_forward"
	OpItemBack      Op = "item_back"
	OpBlackout      Op = "black_screen"
	OpLogo          Op = "logo_screen"
	OpBlockRemote   Op = "block_remote" // Flag
	OpHide          Op = "hide"
)

// Command is one serializable instruction to the coordinator. Only
// primitive values cross the plane boundary.
type Command struct {
	Op     Op
	Row    int
	Flag   bool
	Origin Origin
}

// Renderer is the capability the coordinator requires from the display
// layer. Implementations wrap the concrete widget toolkit and media
// decoder; the core never depends on either.
type Renderer interface {
	// Geometry reports the target display rectangle used for pagination.
	Geometry() paginate.Target
	ShowSegment(seg slides.Segment, layout slides.Layout)
	ShowImage(path string)
	PlayVideo(path string)
	StopVideo()
	ShowWeb(url string)
	ShowBlank()
	ShowLogo(path string)
	// CaptureFrame grabs a downscaled preview frame of the playing
	// video; ok is false when no frame is available.
	CaptureFrame() (frame []byte, ok bool)
}

// Picker is the dialog capability the coordinator requires from the view
// layer for editor flows.
type Picker interface {
	PickFile(title, dir, filter string) (string, bool)
	PickColor(current string) (string, bool)
	PickFont(current string, size int) (string, int, bool)
}

// Coordinator owns the three cursored lists and the display state
// machine.
type Coordinator struct {
	logger    zerolog.Logger
	bus       *events.Bus
	paginator *paginate.Paginator
	renderer  Renderer
	store     *settings.Store

	mu sync.Mutex

	service    []slides.Slide
	serviceRow int

	preview    slides.Slide
	previewRow int
	hasPreview bool

	live    slides.Slide
	liveRow int
	hasLive bool

	state       DisplayState
	overlay     DisplayState // StateBlackout, StateLogo, or ""
	blockRemote bool

	dirty       bool
	servicePath string

	commands chan Command
	autoplay *periodic
	sampler  *periodic
}

// New creates a coordinator.
func New(p *paginate.Paginator, renderer Renderer, store *settings.Store, bus *events.Bus, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		logger:    logger.With().Str("component", "coordinator").Logger(),
		bus:       bus,
		paginator: p,
		renderer:  renderer,
		store:     store,
		state:     StateHidden,
		commands:  make(chan Command, 64),
	}
}

// Submit enqueues a command. Remote-originated commands are dropped at
// the boundary while remote input is blocked.
func (c *Coordinator) Submit(cmd Command) {
	if cmd.Origin == OriginRemote {
		c.mu.Lock()
		blocked := c.blockRemote
		c.mu.Unlock()
		if blocked && cmd.Op != OpBlockRemote {
			c.logger.Debug().Str("op", string(cmd.Op)).Msg("remote command dropped while blocked")
			return
		}
		telemetry.RemoteCommandsTotal.WithLabelValues(string(cmd.Op)).Inc()
	}
	select {
	case c.commands <- cmd:
	default:
		c.logger.Warn().Str("op", string(cmd.Op)).Msg("command queue full; dropping")
	}
}

// Run consumes commands until the context is cancelled. It is the only
// goroutine that mutates the lists.
func (c *Coordinator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.stopTimers()
			return
		case cmd := <-c.commands:
			c.dispatch(cmd)
		}
	}
}

func (c *Coordinator) dispatch(cmd Command) {
	// Any user input cancels a pending autoplay advance.
	if cmd.Origin != OriginAuto {
		c.stopAutoplay()
	}

	switch cmd.Op {
	case OpSelectService:
		c.selectService(cmd.Row)
	case OpGoLiveItem:
		c.goLiveItem(cmd.Row)
	case OpSendToLive:
		c.sendToLive()
	case OpSetLiveRow:
		c.setLiveRow(cmd.Row)
	case OpSlideForward:
		c.step(1)
	case OpSlideBack:
		c.step(-1)
	case OpItemForward:
		c.stepItem(1)
	case OpItemBack:
		c.stepItem(-1)
	case OpBlackout:
		c.toggleOverlay(StateBlackout)
	case OpLogo:
		c.toggleOverlay(StateLogo)
	case OpBlockRemote:
		c.setBlockRemote(cmd.Flag)
	case OpHide:
		c.hide()
	default:
		c.logger.Warn().Str("op", string(cmd.Op)).Msg("unknown command")
	}
}

// SetService replaces the service list, e.g. after loading a .pro file.
func (c *Coordinator) SetService(items []slides.Slide, path string) {
	c.mu.Lock()
	c.service = items
	c.serviceRow = 0
	c.servicePath = path
	c.dirty = false
	c.hasPreview = false
	c.hasLive = false
	c.mu.Unlock()

	c.publishOOS()
}

// Service returns a copy of the service list.
func (c *Coordinator) Service() []slides.Slide {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]slides.Slide, len(c.service))
	for i := range c.service {
		out[i] = c.service[i].Copy()
	}
	return out
}

// InsertItem appends or inserts a slide into the service list and marks
// the plan dirty.
func (c *Coordinator) InsertItem(item slides.Slide, at int) {
	c.mu.Lock()
	if at < 0 || at > len(c.service) {
		at = len(c.service)
	}
	c.service = append(c.service[:at], append([]slides.Slide{item}, c.service[at:]...)...)
	c.dirty = true
	c.mu.Unlock()

	c.bus.Publish(events.EventServiceDirty, events.Payload{"dirty": true})
	c.publishOOS()
}

// RemoveItem deletes a service row; out-of-range rows are ignored.
func (c *Coordinator) RemoveItem(row int) {
	c.mu.Lock()
	if row < 0 || row >= len(c.service) {
		c.mu.Unlock()
		return
	}
	c.service = append(c.service[:row], c.service[row+1:]...)
	if c.serviceRow >= len(c.service) && c.serviceRow > 0 {
		c.serviceRow--
	}
	c.dirty = true
	c.mu.Unlock()

	c.bus.Publish(events.EventServiceDirty, events.Payload{"dirty": true})
	c.publishOOS()
}

// MoveItem reorders a service row and marks the plan dirty.
func (c *Coordinator) MoveItem(from, to int) {
	c.mu.Lock()
	if from < 0 || from >= len(c.service) || to < 0 || to >= len(c.service) || from == to {
		c.mu.Unlock()
		return
	}
	item := c.service[from]
	rest := append(c.service[:from:from], c.service[from+1:]...)
	c.service = append(rest[:to:to], append([]slides.Slide{item}, rest[to:]...)...)
	c.dirty = true
	c.mu.Unlock()

	c.bus.Publish(events.EventServiceDirty, events.Payload{"dirty": true})
	c.publishOOS()
}

// Dirty reports whether the service list changed since the last save.
func (c *Coordinator) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// MarkSaved clears the dirty flag and records the saved path.
func (c *Coordinator) MarkSaved(path string) {
	c.mu.Lock()
	c.dirty = false
	c.servicePath = path
	c.mu.Unlock()
}

// ServicePath returns the current .pro path, empty for an unsaved plan.
func (c *Coordinator) ServicePath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.servicePath
}

// Blocked reports the remote-input block state.
func (c *Coordinator) Blocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blockRemote
}

// Cursors returns the service and live cursors.
func (c *Coordinator) Cursors() (serviceRow, liveRow int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.serviceRow, c.liveRow
}

// LiveSegments returns a copy of the live slide's segments.
func (c *Coordinator) LiveSegments() []slides.Segment {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasLive {
		return nil
	}
	return append([]slides.Segment(nil), c.live.Segments...)
}

// State returns the active display state, accounting for overlays.
func (c *Coordinator) State() DisplayState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.overlay != "" {
		return c.overlay
	}
	return c.state
}

func (c *Coordinator) selectService(row int) {
	c.mu.Lock()
	if len(c.service) == 0 {
		c.mu.Unlock()
		return
	}
	row = clamp(row, 0, len(c.service)-1)
	c.serviceRow = row
	item := c.service[row].Copy()
	c.mu.Unlock()

	c.ensureSegments(&item)

	c.mu.Lock()
	c.preview = item
	c.previewRow = 0
	c.hasPreview = true
	c.mu.Unlock()

	c.publishSlides()
}

// goLiveItem promotes a service row straight to live, cursor at 0.
func (c *Coordinator) goLiveItem(row int) {
	c.selectService(row)

	c.mu.Lock()
	if !c.hasPreview {
		c.mu.Unlock()
		return
	}
	c.live = c.preview.Copy()
	c.liveRow = 0
	c.hasLive = true
	row = c.serviceRow
	c.mu.Unlock()

	telemetry.SlidesShownTotal.WithLabelValues(string(c.live.Kind)).Inc()

	c.applyDisplay()
	c.bus.Publish(events.EventChangeCurrentOOS, events.Payload{"row": row})
	c.publishSlides()
	c.publishSlideCursor()
}

// sendToLive mirrors the preview list into the live list preserving the
// preview cursor, then advances the preview selection to the next item.
func (c *Coordinator) sendToLive() {
	c.mu.Lock()
	if !c.hasPreview {
		c.mu.Unlock()
		return
	}
	c.live = c.preview.Copy()
	c.liveRow = clamp(c.previewRow, 0, max(len(c.live.Segments)-1, 0))
	c.hasLive = true
	next := c.serviceRow + 1
	hasNext := next < len(c.service)
	c.mu.Unlock()

	telemetry.SlidesShownTotal.WithLabelValues(string(c.live.Kind)).Inc()

	c.applyDisplay()
	c.publishSlides()
	c.publishSlideCursor()

	if hasNext {
		c.selectService(next)
	}
}

// setLiveRow jumps the live cursor. Duplicate rows are idempotent and
// out-of-range rows clamp.
func (c *Coordinator) setLiveRow(row int) {
	c.mu.Lock()
	if !c.hasLive || len(c.live.Segments) == 0 {
		c.mu.Unlock()
		return
	}
	row = clamp(row, 0, len(c.live.Segments)-1)
	changed := row != c.liveRow
	c.liveRow = row
	c.mu.Unlock()

	if !changed {
		return
	}
	c.applyDisplay()
	c.publishSlideCursor()
}

// step moves the live cursor by delta; on an edge it rolls into the
// next or previous service item.
func (c *Coordinator) step(delta int) {
	c.mu.Lock()
	if !c.hasLive {
		c.mu.Unlock()
		return
	}
	target := c.liveRow + delta
	if target >= 0 && target < len(c.live.Segments) {
		c.liveRow = target
		c.mu.Unlock()
		c.applyDisplay()
		c.publishSlideCursor()
		return
	}
	row := c.serviceRow + delta
	atEnd := delta > 0
	inRange := row >= 0 && row < len(c.service)
	c.mu.Unlock()

	if !inRange {
		return
	}
	c.goLiveEdge(row, atEnd)
}

// goLiveEdge sends a service row live with the cursor at the first or
// last slide of the new item.
func (c *Coordinator) goLiveEdge(row int, first bool) {
	c.goLiveItem(row)
	if first {
		return
	}
	c.mu.Lock()
	n := len(c.live.Segments)
	c.mu.Unlock()
	if n > 1 {
		c.setLiveRow(n - 1)
	}
}

// stepItem advances or retreats the service cursor regardless of the live
// slide position.
func (c *Coordinator) stepItem(delta int) {
	c.mu.Lock()
	row := c.serviceRow + delta
	inRange := row >= 0 && row < len(c.service)
	c.mu.Unlock()
	if inRange {
		c.goLiveItem(row)
	}
}

func (c *Coordinator) setBlockRemote(blocked bool) {
	c.mu.Lock()
	c.blockRemote = blocked
	c.mu.Unlock()
	c.bus.Publish(events.EventRemoteBlock, events.Payload{"blocked": blocked})
}

// ensureSegments paginates a slide lazily on first selection.
func (c *Coordinator) ensureSegments(item *slides.Slide) {
	if len(item.Segments) > 0 {
		return
	}
	global := c.store.Snapshot().GlobalLayout()
	layout := item.Effective(global)
	tgt := c.renderer.Geometry()

	switch item.Kind {
	case slides.KindSong:
		item.Segments = c.paginator.Song(item, layout, tgt)
	case slides.KindBible:
		item.Segments = c.paginator.Scripture(item.Title, item.Passages, layout, tgt)
	case slides.KindCustom:
		item.Segments = c.paginator.Custom(item, layout, tgt)
	}
}

// ServiceRowByTitle resolves a service item title to its row; remote
// clients address items by title. Returns -1 when absent.
func (c *Coordinator) ServiceRowByTitle(title string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.service {
		if item.Title == title {
			return i
		}
	}
	return -1
}

// LiveRowByTitle resolves a live segment tag title to its row. Returns
// -1 when absent.
func (c *Coordinator) LiveRowByTitle(title string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasLive {
		return -1
	}
	for i, seg := range c.live.Segments {
		if seg.Title == title {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
