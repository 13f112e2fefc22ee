package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ovalles/medianoche/internal/errors"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError,
		map[string]string{"error": http.StatusText(http.StatusInternalServerError)})
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.logger.Debug(message, "method", r.Method, "uri", r.URL.RequestURI())
	app.writeJSON(w, r, status, map[string]string{"error": message})
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response", errors.SlogError(err))
	}
}

func (app *application) readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// currentGame resolves the session's live game.
func (app *application) currentGame(w http.ResponseWriter, r *http.Request) (*liveGame, bool) {
	id := app.sessionManager.GetString(r.Context(), sessionKeyGameID)
	if id == "" {
		app.clientError(w, r, http.StatusNotFound, "no active game in session")
		return nil, false
	}
	g, ok := app.games.get(id)
	if !ok {
		app.clientError(w, r, http.StatusNotFound, "game no longer live")
		return nil, false
	}
	return g, true
}
