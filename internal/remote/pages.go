/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package remote

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/friendsincode/projecton/internal/coordinator"
)

// pageData is the context handed to every remote template.
type pageData struct {
	Title        string
	OOSHTML      template.HTML
	SlidesHTML   template.HTML
	ServiceRow   int
	SlideRow     int
	State        string
	Blocked      bool
	StageCurrent string
	StageNext    string
	StageSize    int
}

func (s *Server) pageData(title string) pageData {
	serviceRow, slideRow := s.coord.Cursors()
	current, next := s.coord.StageText()
	return pageData{
		Title:        title,
		OOSHTML:      template.HTML(s.coord.OOSHTML()),
		SlidesHTML:   template.HTML(s.coord.SlidesHTML()),
		ServiceRow:   serviceRow,
		SlideRow:     slideRow,
		State:        string(s.coord.State()),
		Blocked:      s.coord.Blocked(),
		StageCurrent: current,
		StageNext:    next,
		StageSize:    s.store.Snapshot().StageFontSize,
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error().Err(err).Str("template", name).Msg("render failed")
	}
}

// RemotePage serves the full desktop remote.
func (s *Server) RemotePage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "remote.html", s.pageData("ProjectOn Remote"))
}

// MobileRemotePage serves the compact phone remote.
func (s *Server) MobileRemotePage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "mremote.html", s.pageData("ProjectOn Remote"))
}

// StagePage serves the confidence monitor view.
func (s *Server) StagePage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "stage.html", s.pageData("Stage Display"))
}

// CommandSubmit translates a posted form into coordinator commands.
// Items and slides are addressed by title; bare action tokens map to
// navigation and overlay commands.
func (s *Server) CommandSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	if title := r.FormValue("oos_title"); title != "" {
		row := s.coord.ServiceRowByTitle(title)
		if row < 0 {
			// Older remotes address items by row number.
			if n, err := strconv.Atoi(title); err == nil {
				row = n
			}
		}
		if row < 0 {
			s.logger.Warn().Str("title", title).Msg("remote referenced unknown service item")
			http.Error(w, "unknown item", http.StatusNotFound)
			return
		}
		s.coord.Submit(coordinator.Command{Op: coordinator.OpGoLiveItem, Row: row, Origin: coordinator.OriginRemote})
	}

	if title := r.FormValue("slide_title"); title != "" {
		row := s.coord.LiveRowByTitle(title)
		if row < 0 {
			if n, err := strconv.Atoi(title); err == nil {
				row = n
			}
		}
		if row < 0 {
			s.logger.Warn().Str("title", title).Msg("remote referenced unknown slide")
			http.Error(w, "unknown slide", http.StatusNotFound)
			return
		}
		s.coord.Submit(coordinator.Command{Op: coordinator.OpSetLiveRow, Row: row, Origin: coordinator.OriginRemote})
	}

	for token, op := range actionTokens {
		if r.Form.Has(token) {
			s.coord.Submit(coordinator.Command{Op: op, Origin: coordinator.OriginRemote})
		}
	}

	w.WriteHeader(http.StatusOK)
}

// actionTokens maps bare form keys to coordinator operations.
var actionTokens = map[string]coordinator.Op{
	"slide_forward": coordinator.OpSlideForward,
	"slide_back":    coordinator.OpSlideBack,
	"item_forward":  coordinator.OpItemForward,
	"item_back":     coordinator.OpItemBack,
	"black_screen":  coordinator.OpBlackout,
	"logo_screen":   coordinator.OpLogo,
}
