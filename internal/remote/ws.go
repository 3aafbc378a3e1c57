/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	ws "nhooyr.io/websocket"

	"github.com/friendsincode/projecton/internal/events"
	"github.com/friendsincode/projecton/internal/telemetry"
)

// wsEvents are the bus events fanned out to remote clients.
var wsEvents = []events.EventType{
	events.EventUpdateSlides,
	events.EventUpdateOOS,
	events.EventChangeCurrentOOS,
	events.EventChangeCurrentSlide,
	events.EventUpdateStage,
	events.EventDisplayState,
	events.EventBlackout,
	events.EventLogo,
	events.EventRemoteBlock,
	events.EventVideoFrame,
}

// wsMessage is the frame pushed to every connected client.
type wsMessage struct {
	Type string         `json:"type"`
	Data events.Payload `json:"data"`
}

// Hub fans bus events out to WebSocket clients. Clients only listen;
// commands arrive over plain form POSTs.
type Hub struct {
	bus    *events.Bus
	logger zerolog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *ws.Conn
	send chan []byte
}

// NewHub creates the WebSocket hub.
func NewHub(bus *events.Bus, logger zerolog.Logger) *Hub {
	return &Hub{
		bus:     bus,
		logger:  logger.With().Str("component", "ws_hub").Logger(),
		clients: make(map[*client]struct{}),
	}
}

type taggedEvent struct {
	typ     events.EventType
	payload events.Payload
}

// Run subscribes to the event bus and broadcasts until the context is
// cancelled.
func (h *Hub) Run(ctx context.Context) {
	ch := make(chan taggedEvent, 64)
	subs := make(map[events.EventType]events.Subscriber, len(wsEvents))
	for _, et := range wsEvents {
		sub := h.bus.Subscribe(et)
		subs[et] = sub
		go func(et events.EventType, sub events.Subscriber) {
			for payload := range sub {
				ch <- taggedEvent{typ: et, payload: payload}
			}
		}(et, sub)
	}

	for {
		select {
		case <-ctx.Done():
			for et, sub := range subs {
				h.bus.Unsubscribe(et, sub)
			}
			h.closeAll()
			return
		case ev := <-ch:
			msg, err := json.Marshal(wsMessage{Type: string(ev.typ), Data: ev.payload})
			if err != nil {
				h.logger.Error().Err(err).Str("event", string(ev.typ)).Msg("marshal event")
				continue
			}
			h.broadcast(msg)
		}
	}
}

func (h *Hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// Slow consumer; drop it rather than stall the hub.
			delete(h.clients, c)
			close(c.send)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// Serve upgrades a request and streams events until the client leaves.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.Accept(w, r, &ws.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket accept failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 32)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	telemetry.WSClients.Set(float64(n))
	h.logger.Debug().Str("from", r.RemoteAddr).Int("clients", n).Msg("remote client connected")

	defer func() {
		h.mu.Lock()
		if _, ok := h.clients[c]; ok {
			delete(h.clients, c)
			close(c.send)
		}
		n := len(h.clients)
		h.mu.Unlock()
		telemetry.WSClients.Set(float64(n))
		conn.Close(ws.StatusNormalClosure, "bye")
	}()

	ctx := r.Context()

	// Reader: clients send nothing meaningful, but reading detects the
	// close handshake.
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := conn.Write(writeCtx, ws.MessageText, msg)
			cancel()
			if err != nil {
				h.logger.Debug().Err(err).Msg("websocket write failed, client disconnected")
				return
			}
		}
	}
}
