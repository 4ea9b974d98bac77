// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/danielhkuo/voter-roster/db"
	"github.com/danielhkuo/voter-roster/ingest"
	"github.com/danielhkuo/voter-roster/middleware"
	"github.com/danielhkuo/voter-roster/models"
	"github.com/danielhkuo/voter-roster/roster"
)

type VoterHandler struct {
	store  db.Store
	roster *roster.Roster
	now    func() time.Time
}

func NewVoterHandler(store db.Store, r *roster.Roster) *VoterHandler {
	return &VoterHandler{store: store, roster: r, now: time.Now}
}

// ensureLoaded fills the roster on first use
func ensureLoaded(ctx context.Context, r *roster.Roster) error {
	if r.Loaded() {
		return nil
	}
	return r.Refresh(ctx)
}

// List handles GET /voters?leader=&q=
func (h *VoterHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := ensureLoaded(r.Context(), h.roster); err != nil {
		slog.Error("failed to load roster", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Could not load voters")
		return
	}

	q := r.URL.Query()
	records := h.roster.Filter(q.Get("leader"), q.Get("q"))

	middleware.JSONResponse(w, http.StatusOK, models.VoterListResponse{
		Total:   len(records),
		Leaders: h.roster.Leaders(),
		Records: records,
	})
}

// Export handles GET /voters/export?leader=&q=
func (h *VoterHandler) Export(w http.ResponseWriter, r *http.Request) {
	if err := ensureLoaded(r.Context(), h.roster); err != nil {
		slog.Error("failed to load roster", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Could not load voters")
		return
	}

	q := r.URL.Query()
	leader := q.Get("leader")
	records := h.roster.Filter(leader, q.Get("q"))
	if leader == roster.AllLeaders {
		leader = ""
	}
	filename := ingest.ExportFilename(leader, h.now())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)

	if err := ingest.Export(w, records); err != nil {
		slog.Error("failed to write export", "error", err)
		return
	}
	slog.Info("voters exported", "file", filename, "records", len(records))
}

// Update handles PATCH /voters/{id}
func (h *VoterHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var req models.UpdateVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := ensureLoaded(r.Context(), h.roster); err != nil {
		slog.Error("failed to load roster", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Could not load voters")
		return
	}

	edit, err := h.roster.BeginEdit(id, req.Fields)
	switch {
	case errors.Is(err, roster.ErrNoChanges), errors.Is(err, roster.ErrNotEditable):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, roster.ErrRecordNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	case err != nil:
		slog.Error("failed to begin edit", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update voter")
		return
	}

	if err := h.store.UpdateVoter(r.Context(), id, edit.Fields()); err != nil {
		if rbErr := edit.Rollback(); rbErr != nil {
			slog.Error("failed to roll back edit", "voter_id", id, "error", rbErr)
		}
		if errors.Is(err, db.ErrVoterNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
			return
		}
		slog.Error("failed to persist voter update", "voter_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update voter")
		return
	}
	edit.Commit()

	rec, err := edit.Record()
	if err != nil {
		// dropped by a concurrent refresh after the write
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	}

	slog.Info("voter updated", "voter_id", id, "fields", len(req.Fields))
	middleware.JSONResponse(w, http.StatusOK, models.UpdateVoterResponse{ID: id, Record: rec})
}

// Refresh handles POST /voters/refresh
func (h *VoterHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.roster.Refresh(r.Context()); err != nil {
		slog.Error("failed to refresh roster", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Could not load voters")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.RefreshResponse{
		Total:    h.roster.Len(),
		LoadedAt: h.roster.LoadedAt(),
	})
}
