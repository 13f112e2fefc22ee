package main

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"

	"github.com/ovalles/medianoche/internal/ai"
	"github.com/ovalles/medianoche/internal/casefile"
	"github.com/ovalles/medianoche/internal/db"
	"github.com/ovalles/medianoche/internal/envstruct"
	"github.com/ovalles/medianoche/internal/logging"
	"github.com/ovalles/medianoche/internal/pprofserver"
	"github.com/ovalles/medianoche/internal/transcript"
)

type config struct {
	Addr        string `env:"MEDIANOCHE_ADDR" envDefault:"localhost:4000"`
	PprofPort   string `env:"MEDIANOCHE_PPROF_PORT" envDefault:":6060"`
	SqliteURL   string `env:"MEDIANOCHE_SQLITE_URL" envDefault:"./medianoche.sqlite"`
	CasePath    string `env:"MEDIANOCHE_CASE" envDefault:""`
	Seed        string `env:"MEDIANOCHE_SEED" envDefault:"0"`
	OpenAIKey   string `env:"OPENAI_API_KEY"`
	OpenAIModel string `env:"MEDIANOCHE_OPENAI_MODEL" envDefault:""`
}

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	generator      ai.Generator
	caseFile       *casefile.Case
	transcripts    *transcript.Repository
	games          *gameRegistry
	defaultSeed    int64
}

func main() {
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	})))

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", slog.Any("error", err))
	}

	var cfg config
	if err := envstruct.Populate(&cfg, os.LookupEnv); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	// pprof listens on localhost only so it's not open to the world.
	pprofserver.Launch(cfg.PprofPort, logger)

	seed, err := strconv.ParseInt(cfg.Seed, 10, 64)
	if err != nil {
		logger.Error("invalid MEDIANOCHE_SEED", slog.String("seed", cfg.Seed))
		os.Exit(1)
	}

	var c *casefile.Case
	if cfg.CasePath != "" {
		c, err = casefile.Load(cfg.CasePath)
	} else {
		c, err = casefile.Default()
	}
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	logger.Info("case loaded", slog.Any("case", c))

	database, err := db.NewDatabase(cfg.SqliteURL)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	logger.Info("connected to db")

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(database.ReadWrite.DB, 24*time.Hour)
	sessionManager.Lifetime = 12 * time.Hour

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		generator:      ai.NewClient(cfg.OpenAIKey, cfg.OpenAIModel),
		caseFile:       c,
		transcripts:    transcript.NewRepository(database, logger),
		games:          newGameRegistry(),
		defaultSeed:    seed,
	}

	logger.Info("starting server", slog.Any("addr", cfg.Addr))

	err = http.ListenAndServe(cfg.Addr, app.routes())
	logger.Error(err.Error())
	os.Exit(1)
}
