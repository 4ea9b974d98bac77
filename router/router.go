// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"time"

	"github.com/danielhkuo/voter-roster/auth"
	"github.com/danielhkuo/voter-roster/cliparse"
	"github.com/danielhkuo/voter-roster/db"
	"github.com/danielhkuo/voter-roster/handlers"
	"github.com/danielhkuo/voter-roster/importer"
	"github.com/danielhkuo/voter-roster/middleware"
	"github.com/danielhkuo/voter-roster/roster"
)

// SessionTTL is how long an idle import session is kept
const SessionTTL = time.Hour

func NewRouter(store db.Store, r *roster.Roster, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	limiter := auth.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	registry := importer.NewRegistry(SessionTTL)

	// Initialize handlers
	importHandler := handlers.NewImportHandler(store, r, registry)
	voterHandler := handlers.NewVoterHandler(store, r)
	statsHandler := handlers.NewStatsHandler(r)
	missingHandler := handlers.NewMissingHandler(r)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		if err := store.Ping(req.Context()); err != nil {
			middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Store unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Imports (rate limited)
	mux.HandleFunc("POST /imports", middleware.WithLogging(middleware.WithRateLimit(limiter, importHandler.Create)))
	mux.HandleFunc("GET /imports/{id}", middleware.WithLogging(importHandler.Get))
	mux.HandleFunc("POST /imports/{id}/save", middleware.WithLogging(middleware.WithRateLimit(limiter, importHandler.Save)))

	// Consolidated roster
	mux.HandleFunc("GET /voters", middleware.WithLogging(voterHandler.List))
	mux.HandleFunc("GET /voters/export", middleware.WithLogging(voterHandler.Export))
	mux.HandleFunc("PATCH /voters/{id}", middleware.WithLogging(voterHandler.Update))
	mux.HandleFunc("POST /voters/refresh", middleware.WithLogging(voterHandler.Refresh))

	// Statistics
	mux.HandleFunc("GET /stats", middleware.WithLogging(statsHandler.Summary))
	mux.HandleFunc("GET /stats/leaders", middleware.WithLogging(statsHandler.Leaders))
	mux.HandleFunc("GET /stats/municipalities", middleware.WithLogging(statsHandler.Municipalities))

	// Missing-data worklist
	mux.HandleFunc("GET /missing", middleware.WithLogging(missingHandler.List))
	mux.HandleFunc("POST /missing/refresh", middleware.WithLogging(missingHandler.Refresh))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("voter-roster API v1"))
	})

	return mux
}
