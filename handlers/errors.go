// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/store"
)

// pathID reads and validates an entity ID path parameter
func pathID(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	id := r.PathValue(name)
	if err := auth.ValidateID(id); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid "+label+" ID")
		return "", false
	}
	return id, true
}

// lookupError writes 404 for missing records and 500 for everything else
func lookupError(w http.ResponseWriter, err error, notFoundMsg, logMsg string) {
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, notFoundMsg)
		return
	}
	slog.Error(logMsg, "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
}
