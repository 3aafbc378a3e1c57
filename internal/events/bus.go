/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package events

import "sync"

// EventType enumerates event categories.
type EventType string

const (
	// Remote surface events mirrored over the WebSocket plane.
	EventUpdateSlides       EventType = "update_slides"
	EventUpdateOOS          EventType = "update_oos"
	EventChangeCurrentOOS   EventType = "change_current_oos"
	EventChangeCurrentSlide EventType = "change_current_slide"
	EventUpdateStage        EventType = "update_stage"

	// Display state transitions.
	EventDisplayState EventType = "display.state"
	EventBlackout     EventType = "display.blackout"
	EventLogo         EventType = "display.logo"

	// Coordinator housekeeping.
	EventRemoteBlock    EventType = "remote.block"
	EventVideoFrame     EventType = "video.frame"
	EventServiceDirty   EventType = "service.dirty"
	EventSettingsChange EventType = "settings.changed"

	// Catalog cache invalidation events.
	EventSongSaved    EventType = "catalog.song_saved"
	EventSongDeleted  EventType = "catalog.song_deleted"
	EventCustomSaved  EventType = "catalog.custom_saved"
	EventThumbsSynced EventType = "catalog.thumbnails_synced"

	// Remote liveness.
	EventRemoteDown EventType = "remote.down"
)

// Payload generic event payload.
type Payload map[string]any

// Subscriber receives event payloads.
type Subscriber chan Payload

// Bus implements a simple in-process pubsub.
type Bus struct {
	mu   sync.RWMutex
	subs map[EventType][]Subscriber
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[EventType][]Subscriber)}
}

// Subscribe registers a subscriber for event type.
func (b *Bus) Subscribe(eventType EventType) Subscriber {
	ch := make(Subscriber, 8)
	b.mu.Lock()
	b.subs[eventType] = append(b.subs[eventType], ch)
	b.mu.Unlock()
	return ch
}

// Publish sends payload to subscribers.
func (b *Bus) Publish(eventType EventType, payload Payload) {
	b.mu.RLock()
	subs := append([]Subscriber(nil), b.subs[eventType]...)
	b.mu.RUnlock()
	for _, sub := range subs {
		select {
		case sub <- payload:
		default:
		}
	}
}

// Unsubscribe removes the subscriber.
func (b *Bus) Unsubscribe(eventType EventType, sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[eventType]
	for i, candidate := range subs {
		if candidate == sub {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	b.subs[eventType] = subs
	close(sub)
}
