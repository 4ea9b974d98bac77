// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/voter-roster/middleware"
	"github.com/danielhkuo/voter-roster/roster"
)

type StatsHandler struct {
	roster *roster.Roster
}

func NewStatsHandler(r *roster.Roster) *StatsHandler {
	return &StatsHandler{roster: r}
}

func (h *StatsHandler) load(w http.ResponseWriter, r *http.Request) bool {
	if err := ensureLoaded(r.Context(), h.roster); err != nil {
		slog.Error("failed to load roster", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Could not load voters")
		return false
	}
	return true
}

// Summary handles GET /stats
func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if !h.load(w, r) {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.roster.Stats())
}

// Leaders handles GET /stats/leaders
func (h *StatsHandler) Leaders(w http.ResponseWriter, r *http.Request) {
	if !h.load(w, r) {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.roster.LeaderStats())
}

// Municipalities handles GET /stats/municipalities
func (h *StatsHandler) Municipalities(w http.ResponseWriter, r *http.Request) {
	if !h.load(w, r) {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.roster.Municipalities())
}
