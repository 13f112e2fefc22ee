package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/ovalles/medianoche/internal/ai"
	"github.com/ovalles/medianoche/internal/casefile"
	"github.com/ovalles/medianoche/internal/ending"
	"github.com/ovalles/medianoche/internal/errors"
	"github.com/ovalles/medianoche/internal/game"
	"github.com/ovalles/medianoche/internal/interrogate"
	"github.com/ovalles/medianoche/internal/logging"
	"github.com/ovalles/medianoche/internal/names"
	"github.com/ovalles/medianoche/internal/policy"
	"github.com/ovalles/medianoche/internal/random"
)

// session bundles everything one playthrough needs at the terminal.
type session struct {
	logger       *slog.Logger
	caseFile     *casefile.Case
	seed         int64
	state        *game.State
	resolver     *names.Resolver
	orchestrator *interrogate.Orchestrator
	narrator     *ending.Narrator
}

// newSession loads the case (the embedded one when casePath is empty) and
// wires the engine. A zero seed means a fresh draw from the clock.
func newSession(casePath string, seed int64, generator ai.Generator, debug bool) (*session, error) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	var (
		c   *casefile.Case
		err error
	)
	if casePath != "" {
		c, err = casefile.Load(casePath)
	} else {
		c, err = casefile.Default()
	}
	if err != nil {
		return nil, errors.Wrap(err, "load case")
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	src := random.NewSource(seed)
	state := game.NewState(c, src)
	resolver := names.NewResolver(c.Roster(), c.AliasMap())
	engine := policy.NewEngine(policy.DefaultTables(), src.Stream("policy"))

	return &session{
		logger:       logger,
		caseFile:     c,
		seed:         seed,
		state:        state,
		resolver:     resolver,
		orchestrator: interrogate.New(logger, state, resolver, engine, generator),
		narrator:     ending.NewNarrator(src.Stream("ending")),
	}, nil
}

// pickGenerator prefers the OpenAI backend when a key is configured and the
// player didn't ask for offline play.
func pickGenerator(offline bool, model string) ai.Generator {
	key := os.Getenv("OPENAI_API_KEY")
	if offline || key == "" {
		return ai.NewLocalGenerator()
	}
	return ai.NewClient(key, model)
}
