package main

import (
	"net/http"
	"time"

	"github.com/ovalles/medianoche/internal/errors"
	"github.com/ovalles/medianoche/internal/game"
	"github.com/ovalles/medianoche/internal/interrogate"
	"github.com/ovalles/medianoche/internal/models"
)

const sessionKeyGameID = "gameID"

type suspectView struct {
	Name          string `json:"name"`
	Role          string `json:"role"`
	QuestionsLeft int    `json:"questions_left"`
}

type evidenceView struct {
	Description string `json:"description"`
	Source      string `json:"source"`
}

func (app *application) createGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seed *int64 `json:"seed"`
	}
	if r.ContentLength > 0 && !app.readJSON(w, r, &req) {
		return
	}

	seed := app.defaultSeed
	if req.Seed != nil {
		seed = *req.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Bootstrap first so the drawn killer can be persisted with the row.
	g := app.newLiveGame("", seed)
	id, err := app.transcripts.CreateGame(r.Context(), app.caseFile.Title, seed, g.state.Killer())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	g.id = id

	// A fresh game replaces whatever the session pointed at before.
	if old := app.sessionManager.GetString(r.Context(), sessionKeyGameID); old != "" {
		app.games.remove(old)
	}
	app.games.put(g)
	app.sessionManager.Put(r.Context(), sessionKeyGameID, id)

	app.writeJSON(w, r, http.StatusCreated, map[string]any{
		"id":       id,
		"case":     app.caseFile.Title,
		"summary":  app.caseFile.Summary,
		"victim":   app.caseFile.Victim.Name,
		"phase":    g.state.Phase.String(),
		"suspects": app.suspectViews(g),
	})
}

func (app *application) gameState(w http.ResponseWriter, r *http.Request) {
	g, ok := app.currentGame(w, r)
	if !ok {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	evidence := make([]evidenceView, 0)
	for _, it := range g.state.Evidence() {
		evidence = append(evidence, evidenceView{Description: it.Description, Source: it.Source})
	}

	resp := map[string]any{
		"id":       g.id,
		"phase":    g.state.Phase.String(),
		"suspects": app.suspectViews(g),
		"evidence": evidence,
		"ended":    g.ended,
	}
	if g.ended {
		resp["ending"] = g.endingText
	}
	app.writeJSON(w, r, http.StatusOK, resp)
}

func (app *application) askSuspect(w http.ResponseWriter, r *http.Request) {
	g, ok := app.currentGame(w, r)
	if !ok {
		return
	}

	var req struct {
		Target   string `json:"target"`
		Question string `json:"question"`
	}
	if !app.readJSON(w, r, &req) {
		return
	}
	if req.Target == "" || req.Question == "" {
		app.clientError(w, r, http.StatusUnprocessableEntity, "target and question are required")
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ended {
		app.clientError(w, r, http.StatusConflict, "the case is closed")
		return
	}

	turn, err := g.orchestrator.Ask(r.Context(), req.Target, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, interrogate.ErrUnknownSuspect):
			app.clientError(w, r, http.StatusUnprocessableEntity, "suspect not recognized")
		case errors.Is(err, interrogate.ErrNoQuestionsLeft):
			app.clientError(w, r, http.StatusUnprocessableEntity, "no questions left for this suspect")
		default:
			app.serverError(w, r, err)
		}
		return
	}

	app.persistTurn(r, g, req.Question, turn)

	resp := map[string]any{
		"target":         turn.Target,
		"spoken":         turn.Spoken,
		"refocused":      turn.Refocused,
		"questions_left": turn.QuestionsLeft,
	}
	if turn.Clue != nil {
		resp["clue"] = evidenceView{Description: turn.Clue.Description, Source: turn.Clue.Source}
	}
	app.writeJSON(w, r, http.StatusOK, resp)
}

func (app *application) advancePhase(w http.ResponseWriter, r *http.Request) {
	g, ok := app.currentGame(w, r)
	if !ok {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ended {
		app.clientError(w, r, http.StatusConflict, "the case is closed")
		return
	}

	revealed, advanced := g.state.Advance()
	if !advanced {
		app.clientError(w, r, http.StatusConflict, "already in the final phase")
		return
	}

	if err := app.transcripts.UpdatePhase(r.Context(), g.id, g.state.Phase.String()); err != nil {
		app.logger.Warn("persist phase", "gameID", g.id, "error", err)
	}
	if revealed != "" {
		if err := app.transcripts.AppendEvidence(r.Context(), g.id, revealed, game.ScriptedSource); err != nil {
			app.logger.Warn("persist evidence", "gameID", g.id, "error", err)
		}
	}

	resp := map[string]any{"phase": g.state.Phase.String()}
	if revealed != "" {
		resp["revealed"] = revealed
	}
	app.writeJSON(w, r, http.StatusOK, resp)
}

func (app *application) accuseSuspect(w http.ResponseWriter, r *http.Request) {
	g, ok := app.currentGame(w, r)
	if !ok {
		return
	}

	var req struct {
		Suspect string `json:"suspect"`
	}
	if !app.readJSON(w, r, &req) {
		return
	}
	if req.Suspect == "" {
		app.clientError(w, r, http.StatusUnprocessableEntity, "suspect is required")
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ended {
		app.clientError(w, r, http.StatusConflict, "the case is closed")
		return
	}

	// Failed canonicalization still resolves the case: an accusation
	// against nobody in the roster is the invalid-accusation ending.
	accused := req.Suspect
	if canonical, found := g.resolver.Canonicalize(req.Suspect); found {
		accused = canonical
	}

	outcome, narration := g.narrator.Resolve(g.state, accused)
	g.ended = true
	g.endingText = narration

	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"accused":   accused,
		"outcome":   outcome.String(),
		"narration": narration,
	})
}

func (app *application) suspectViews(g *liveGame) []suspectView {
	views := make([]suspectView, 0, len(g.state.Case.Suspects))
	for _, s := range g.state.Case.Suspects {
		views = append(views, suspectView{
			Name:          s.Name,
			Role:          s.Role,
			QuestionsLeft: g.state.QuestionsLeft(s.Name),
		})
	}
	return views
}

// persistTurn writes the turn and any new clue to the transcript. Failures
// are logged, not surfaced; persistence lags must not break the game.
func (app *application) persistTurn(r *http.Request, g *liveGame, question string, turn *interrogate.Turn) {
	err := app.transcripts.AppendTurn(r.Context(), models.TranscriptEntry{
		GameID:   g.id,
		Target:   turn.Target,
		Question: question,
		Spoken:   turn.Spoken,
		Intent:   string(turn.Meta.Intent),
		Truthful: turn.Meta.Truthful,
		Evasive:  turn.Meta.Evasive,
	})
	if err != nil {
		app.logger.Warn("persist turn", "gameID", g.id, "error", err)
	}
	if turn.Clue != nil {
		if err = app.transcripts.AppendEvidence(r.Context(), g.id, turn.Clue.Description, turn.Clue.Source); err != nil {
			app.logger.Warn("persist evidence", "gameID", g.id, "error", err)
		}
	}
}
