// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/danielhkuo/voter-roster/cliparse"
	"github.com/danielhkuo/voter-roster/db"
	"github.com/danielhkuo/voter-roster/middleware"
	"github.com/danielhkuo/voter-roster/roster"
	"github.com/danielhkuo/voter-roster/router"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect and create schema (tables)
	store, err := db.Connect(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database setup failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer store.DB().Close()
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Load the roster once up front; read endpoints retry on first use
	r := roster.New(store, cfg.RosterLimit)
	if err := r.Refresh(ctx); err != nil {
		slog.Warn("initial roster load failed", "error", err)
	} else {
		slog.Info("roster loaded", "voters", r.Len())
	}

	// Create router
	mux := router.NewRouter(store, r, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
