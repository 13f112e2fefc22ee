package main

import (
	"sync"

	"github.com/ovalles/medianoche/internal/ending"
	"github.com/ovalles/medianoche/internal/game"
	"github.com/ovalles/medianoche/internal/interrogate"
	"github.com/ovalles/medianoche/internal/names"
	"github.com/ovalles/medianoche/internal/policy"
	"github.com/ovalles/medianoche/internal/random"
)

// liveGame is one in-flight session. The engine is strictly turn-based, so
// each game carries its own lock serializing turns.
type liveGame struct {
	mu           sync.Mutex
	id           string
	seed         int64
	state        *game.State
	resolver     *names.Resolver
	orchestrator *interrogate.Orchestrator
	narrator     *ending.Narrator
	ended        bool
	endingText   string
}

// gameRegistry keeps the live games by ID. Game state is not serializable
// mid-session; the transcript repository persists the reviewable parts.
type gameRegistry struct {
	mu    sync.RWMutex
	games map[string]*liveGame
}

func newGameRegistry() *gameRegistry {
	return &gameRegistry{games: make(map[string]*liveGame)}
}

func (r *gameRegistry) put(g *liveGame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[g.id] = g
}

func (r *gameRegistry) get(id string) (*liveGame, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	return g, ok
}

func (r *gameRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, id)
}

// newLiveGame bootstraps a session from the configured case and seed.
func (app *application) newLiveGame(id string, seed int64) *liveGame {
	src := random.NewSource(seed)
	state := game.NewState(app.caseFile, src)
	resolver := names.NewResolver(app.caseFile.Roster(), app.caseFile.AliasMap())
	engine := policy.NewEngine(policy.DefaultTables(), src.Stream("policy"))

	return &liveGame{
		id:           id,
		seed:         seed,
		state:        state,
		resolver:     resolver,
		orchestrator: interrogate.New(app.logger, state, resolver, engine, app.generator),
		narrator:     ending.NewNarrator(src.Stream("ending")),
	}
}
