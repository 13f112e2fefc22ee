package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	session := alice.New(app.sessionManager.LoadAndSave)

	mux.Handle("POST /api/game", session.ThenFunc(app.createGame))
	mux.Handle("GET /api/game/state", session.ThenFunc(app.gameState))
	mux.Handle("POST /api/game/ask", session.ThenFunc(app.askSuspect))
	mux.Handle("POST /api/game/advance", session.ThenFunc(app.advancePhase))
	mux.Handle("POST /api/game/accuse", session.ThenFunc(app.accuseSuspect))

	return app.recoverPanic(app.logRequest(secureHeaders(mux)))
}
