package main

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/robertof/wheel-bridge/bridge"
	"github.com/rs/zerolog/log"
)

// registerControlHandlers exposes the controller's properties and actions, the way
// host dashboards and button bindings would reach them.
func registerControlHandlers(mux *http.ServeMux, ctl *bridge.Controller, actions bridge.Actions) {
	mux.HandleFunc("GET /properties", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, ctl.Snapshot().Properties())
	})

	mux.HandleFunc("GET /properties/{name}", func(w http.ResponseWriter, r *http.Request) {
		v, ok := ctl.Property(r.PathValue("name"))
		if !ok {
			http.Error(w, "unknown property", http.StatusNotFound)
			return
		}

		writeJSON(w, v)
	})

	mux.HandleFunc("GET /actions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, actions.Names())
	})

	mux.HandleFunc("POST /actions/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")

		if !actions.Invoke(name) {
			http.Error(w, "unknown action", http.StatusNotFound)
			return
		}

		log.Debug().Str("Action", name).Msg("Invoked action over HTTP")
		writeJSON(w, ctl.Snapshot().Properties())
	})

	mux.HandleFunc("PUT /bitepoint", func(w http.ResponseWriter, r *http.Request) {
		body, ok := readValue(w, r)
		if !ok {
			return
		}

		v, err := strconv.ParseFloat(body, 64)
		if err != nil {
			http.Error(w, "bite point must be a number", http.StatusBadRequest)
			return
		}

		writeJSON(w, ctl.SetBitePoint(v))
	})

	mux.HandleFunc("PUT /mode", func(w http.ResponseWriter, r *http.Request) {
		body, ok := readValue(w, r)
		if !ok {
			return
		}

		enabled, err := strconv.ParseBool(body)
		if err != nil {
			http.Error(w, "mode must be a boolean", http.StatusBadRequest)
			return
		}

		writeJSON(w, ctl.SetAdjustmentMode(enabled))
	})

	mux.HandleFunc("GET /logs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, ctl.RecentLogLines())
	})
}

func readValue(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1024))
	if err != nil {
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return "", false
	}

	return strings.TrimSpace(string(body)), true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("Failed to encode response")
	}
}
