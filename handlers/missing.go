// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/voter-roster/middleware"
	"github.com/danielhkuo/voter-roster/models"
	"github.com/danielhkuo/voter-roster/roster"
)

type MissingHandler struct {
	roster *roster.Roster
}

func NewMissingHandler(r *roster.Roster) *MissingHandler {
	return &MissingHandler{roster: r}
}

// List handles GET /missing?filter=&leader=&q=
func (h *MissingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := roster.MissingFilter{
		Category: q.Get("filter"),
		Leader:   q.Get("leader"),
		Search:   q.Get("q"),
	}
	if !roster.ValidCategory(filter.Category) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "filter must be all, phone, address or voting_post")
		return
	}

	if err := ensureLoaded(r.Context(), h.roster); err != nil {
		slog.Error("failed to load roster", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Could not load voters")
		return
	}

	voters := h.roster.Missing(filter)
	middleware.JSONResponse(w, http.StatusOK, models.MissingResponse{
		Total:   len(voters),
		Leaders: h.roster.Leaders(),
		Voters:  voters,
	})
}

// Refresh handles POST /missing/refresh
func (h *MissingHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.roster.Refresh(r.Context()); err != nil {
		slog.Error("failed to refresh roster", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Could not load voters")
		return
	}
	n := h.roster.RefreshWorklist()
	slog.Info("worklist refreshed", "incomplete", n)

	middleware.JSONResponse(w, http.StatusOK, models.RefreshResponse{
		Total:    n,
		LoadedAt: h.roster.LoadedAt(),
	})
}
