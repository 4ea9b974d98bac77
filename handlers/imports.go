// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/voter-roster/auth"
	"github.com/danielhkuo/voter-roster/db"
	"github.com/danielhkuo/voter-roster/importer"
	"github.com/danielhkuo/voter-roster/ingest"
	"github.com/danielhkuo/voter-roster/middleware"
	"github.com/danielhkuo/voter-roster/models"
	"github.com/danielhkuo/voter-roster/roster"
)

// MaxUploadSize bounds an uploaded file
const MaxUploadSize = 32 << 20

// HoneypotField is the hidden form field people never fill in
const HoneypotField = "website"

type ImportHandler struct {
	store    db.Store
	roster   *roster.Roster
	registry *importer.Registry
}

func NewImportHandler(store db.Store, r *roster.Roster, registry *importer.Registry) *ImportHandler {
	return &ImportHandler{store: store, roster: r, registry: registry}
}

// Create handles POST /imports
func (h *ImportHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	if auth.IsBot(r.FormValue(HoneypotField)) {
		slog.Warn("honeypot triggered", "remote", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusBadRequest, "Request rejected")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("failed to read upload", "error", err)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	session := h.registry.Create()
	if err := session.Select(header.Filename, data); err != nil {
		slog.Error("failed to select file", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start import")
		return
	}

	slog.Info("import started", "session_id", session.ID(), "file", header.Filename, "size", humanize.Bytes(uint64(len(data))))

	if err := session.Parse(); err != nil {
		middleware.JSONResponse(w, http.StatusUnprocessableEntity, importResponse(session.Snapshot()))
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, importResponse(session.Snapshot()))
}

// Get handles GET /imports/{id}
func (h *ImportHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.registry.Get(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Import session not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, importResponse(session.Snapshot()))
}

// Save handles POST /imports/{id}/save
func (h *ImportHandler) Save(w http.ResponseWriter, r *http.Request) {
	session, err := h.registry.Get(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Import session not found")
		return
	}

	// a save cannot be aborted once started
	ctx := context.WithoutCancel(r.Context())
	res, err := session.Save(ctx, h.store)

	var connErr *importer.ConnectivityError
	var bulkErr *importer.BulkUpsertError
	switch {
	case errors.Is(err, importer.ErrInvalidTransition):
		middleware.ErrorResponse(w, http.StatusConflict, "Import is not ready to save")
		return
	case errors.As(err, &connErr):
		slog.Error("store unreachable", "session_id", session.ID(), "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Could not connect to the store")
		return
	case errors.As(err, &bulkErr):
		slog.Error("bulk voter upsert failed", "session_id", session.ID(), "voters", bulkErr.Voters, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save voters")
		return
	case err != nil:
		slog.Error("import save failed", "session_id", session.ID(), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save voters")
		return
	}

	if err := h.roster.Refresh(ctx); err != nil {
		slog.Warn("roster refresh after import failed", "error", err)
	}

	middleware.JSONResponse(w, http.StatusOK, models.SaveResponse{
		SessionID:         session.ID(),
		State:             string(importer.StateSaved),
		LeadersUpserted:   res.LeadersUpserted,
		FailedLeaders:     res.FailedLeaders,
		VotersSaved:       res.VotersSaved,
		DuplicatesDropped: res.DuplicatesDropped,
		MissingDocument:   res.MissingDocument,
		Message:           res.Summary(),
	})
}

func importResponse(snap importer.Snapshot) models.ImportResponse {
	resp := models.ImportResponse{
		SessionID: snap.ID,
		State:     string(snap.State),
		FileName:  snap.FileName,
	}

	if snap.Result != nil {
		resp.Attempt = snap.Result.Attempt.String()
		resp.Records = len(snap.Result.Records)
		resp.Preview, resp.Truncated = snap.Preview(importer.PreviewLimit)
		resp.Message = "Read " + humanize.Comma(int64(resp.Records)) + " records"
	}

	var exhausted *ingest.ParseExhaustedError
	switch {
	case errors.As(snap.ParseErr, &exhausted):
		resp.Message = exhausted.Error()
		resp.Missing = exhausted.Missing()
		resp.Details = exhausted.Details()
	case snap.ParseErr != nil:
		resp.Message = snap.ParseErr.Error()
	}

	if snap.SaveErr != nil {
		resp.Message = snap.SaveErr.Error()
	} else if snap.Save != nil {
		resp.Message = snap.Save.Summary()
	}

	return resp
}
