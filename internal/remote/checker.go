/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package remote

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/projecton/internal/config"
	"github.com/friendsincode/projecton/internal/events"
	"github.com/friendsincode/projecton/internal/telemetry"
)

const checkInterval = 5 * time.Second

// checkedPages are polled by the liveness checker.
var checkedPages = []string{"/remote", "/mremote", "/stage"}

// Checker polls the remote pages so the operator console can show a
// link-down indicator. It reports a single error and stops rather than
// flooding the log while the surface is unreachable.
type Checker struct {
	baseURL string
	bus     *events.Bus
	logger  zerolog.Logger
	client  *http.Client
	stopCh  chan struct{}
}

// NewChecker creates a remote liveness checker.
func NewChecker(bus *events.Bus, logger zerolog.Logger) *Checker {
	return &Checker{
		baseURL: fmt.Sprintf("http://127.0.0.1:%d", config.RemotePort),
		bus:     bus,
		logger:  logger.With().Str("component", "remote_checker").Logger(),
		client:  &http.Client{Timeout: 3 * time.Second},
		stopCh:  make(chan struct{}),
	}
}

// Run polls until the context is cancelled or a check fails.
func (c *Checker) Run(ctx context.Context) {
	c.logger.Debug().Msg("remote liveness checker started")
	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug().Msg("remote liveness checker stopped (context)")
			return
		case <-c.stopCh:
			c.logger.Debug().Msg("remote liveness checker stopped")
			return
		case <-ticker.C:
			if page, err := c.check(ctx); err != nil {
				c.logger.Error().Err(err).Str("page", page).Msg("remote surface unreachable")
				c.bus.Publish(events.EventRemoteDown, events.Payload{"page": page})
				return
			}
		}
	}
}

// Stop stops the checker.
func (c *Checker) Stop() {
	close(c.stopCh)
}

func (c *Checker) check(ctx context.Context) (string, error) {
	for _, page := range checkedPages {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+page, nil)
		if err != nil {
			return page, err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			telemetry.HealthChecksTotal.WithLabelValues(page, "error").Inc()
			return page, err
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			telemetry.HealthChecksTotal.WithLabelValues(page, "bad_status").Inc()
			return page, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		telemetry.HealthChecksTotal.WithLabelValues(page, "ok").Inc()
	}
	return "", nil
}
