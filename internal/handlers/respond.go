// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"hostpress/internal/storage"
	"hostpress/internal/store"
)

// envelope is the response shape of every API endpoint.
type envelope struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
	Field string `json:"field,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeOK writes a success envelope around data.
func writeOK(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{OK: true, Data: data})
}

// writeFail writes a failure envelope with a human-readable message.
func writeFail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Error: msg})
}

// writeStoreError maps a repository error to a status and message.
// Validation failures are expected and shown inline; anything else is
// logged.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, envelope{Error: ve.Message, Field: ve.Field})
	case errors.Is(err, store.ErrDuplicateSlug):
		writeJSON(w, http.StatusConflict, envelope{Error: "A record with this slug already exists.", Field: "slug"})
	case errors.Is(err, store.ErrNotFound):
		writeFail(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, storage.ErrUnavailable):
		slog.Error("admin write failed, storage unavailable", "op", op, "error", err)
		writeFail(w, http.StatusServiceUnavailable, "Storage is unavailable, try again later.")
	default:
		slog.Error("admin write failed", "op", op, "error", err)
		writeFail(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
