/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package settings persists the operator-visible key/value bag. The bag is
// split across two files: a machine-local file for device-specific keys
// and a primary file for everything else.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/friendsincode/projecton/internal/events"
	"github.com/friendsincode/projecton/internal/slides"
)

// maxRecentServices bounds the MRU list of recently-used service files.
const maxRecentServices = 5

// Settings is the primary, shareable settings bag.
type Settings struct {
	GlobalSongBackground  string `json:"global_song_background"`
	GlobalBibleBackground string `json:"global_bible_background"`
	LogoImage             string `json:"logo_image"`
	FontFace              string `json:"font_face"`
	FontSize              int    `json:"font_size"`
	FontColor             string `json:"font_color"`
	UseShadow             bool   `json:"use_shadow"`
	ShadowColor           int    `json:"shadow_color"`
	ShadowOffset          int    `json:"shadow_offset"`
	UseOutline            bool   `json:"use_outline"`
	OutlineColor          int    `json:"outline_color"`
	OutlineWidth          int    `json:"outline_width"`
	UseFooter             bool   `json:"use_footer"`
	StageFontSize         int    `json:"stage_font_size"`
	CCLILicense           string `json:"ccli_license"`
	DefaultBible          string `json:"default_bible"`
	CountdownEnabled      bool   `json:"countdown_enabled"`
	CountdownTo           string `json:"countdown_to"`
	CountdownMessage      string `json:"countdown_message"`
}

// Machine is the device-specific settings bag.
type Machine struct {
	UsedServices       []string `json:"used_services"`
	LastSaveDir        string   `json:"last_save_dir"`
	DataDir            string   `json:"data_dir"`
	SelectedScreenName string   `json:"selected_screen_name"`
}

// Defaults returns the out-of-box settings.
func Defaults() Settings {
	return Settings{
		FontFace:      "Helvetica",
		FontSize:      40,
		FontColor:     "white",
		UseShadow:     true,
		ShadowColor:   0,
		ShadowOffset:  3,
		UseFooter:     true,
		StageFontSize: 28,
	}
}

// GlobalLayout projects the bag onto the global-default slide layout.
func (s Settings) GlobalLayout() slides.Layout {
	return slides.Layout{
		FontFamily:     s.FontFace,
		FontSize:       s.FontSize,
		FontColor:      s.FontColor,
		UseShadow:      s.UseShadow,
		ShadowGrey:     s.ShadowColor,
		ShadowOffsetPx: s.ShadowOffset,
		UseOutline:     s.UseOutline,
		OutlineGrey:    s.OutlineColor,
		OutlineWidthPx: s.OutlineWidth,
		UseFooter:      s.UseFooter,
	}
}

// Store owns the two settings files. The UI plane is the sole writer;
// other planes read snapshots.
type Store struct {
	mu          sync.RWMutex
	path        string
	machinePath string
	bus         *events.Bus

	current Settings
	machine Machine
}

// NewStore creates a store rooted at dir, loading existing files when
// present and writing defaults otherwise.
func NewStore(dir string, bus *events.Bus) (*Store, error) {
	st := &Store{
		path:        filepath.Join(dir, "settings.json"),
		machinePath: filepath.Join(dir, "settings.machine.json"),
		bus:         bus,
		current:     Defaults(),
	}

	if err := loadJSON(st.path, &st.current); err != nil {
		return nil, err
	}
	if err := loadJSON(st.machinePath, &st.machine); err != nil {
		return nil, err
	}
	return st, nil
}

// Snapshot returns a copy of the current settings.
func (st *Store) Snapshot() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// MachineSnapshot returns a copy of the machine-local settings.
func (st *Store) MachineSnapshot() Machine {
	st.mu.RLock()
	defer st.mu.RUnlock()
	m := st.machine
	m.UsedServices = append([]string(nil), st.machine.UsedServices...)
	return m
}

// Update applies fn to the primary bag and persists it, emitting a
// settings-changed event.
func (st *Store) Update(fn func(*Settings)) error {
	st.mu.Lock()
	fn(&st.current)
	snapshot := st.current
	st.mu.Unlock()

	if err := writeJSON(st.path, snapshot); err != nil {
		return err
	}
	if st.bus != nil {
		st.bus.Publish(events.EventSettingsChange, events.Payload{})
	}
	return nil
}

// UpdateMachine applies fn to the machine-local bag and persists it.
func (st *Store) UpdateMachine(fn func(*Machine)) error {
	st.mu.Lock()
	fn(&st.machine)
	snapshot := st.machine
	st.mu.Unlock()
	return writeJSON(st.machinePath, snapshot)
}

// AddRecentService pushes path to the front of the MRU list, deduplicated
// and bounded.
func (st *Store) AddRecentService(path string) error {
	return st.UpdateMachine(func(m *Machine) {
		out := []string{path}
		for _, p := range m.UsedServices {
			if p != path && len(out) < maxRecentServices {
				out = append(out, p)
			}
		}
		m.UsedServices = out
	})
}

// RecentServices returns the MRU list, most recent first.
func (st *Store) RecentServices() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return append([]string(nil), st.machine.UsedServices...)
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
