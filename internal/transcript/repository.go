// Package transcript persists game snapshots, interrogation turns and
// revealed evidence so web sessions survive restarts and finished cases can
// be reviewed.
package transcript

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/ovalles/medianoche/internal/db"
	"github.com/ovalles/medianoche/internal/errors"
	"github.com/ovalles/medianoche/internal/models"
	"github.com/ovalles/medianoche/internal/random"
)

// ErrGameNotFound is returned when the game ID has no row.
var ErrGameNotFound = errors.NewSentinel("game not found")

type Repository struct {
	dbs    *db.Database
	logger *slog.Logger
}

func NewRepository(dbs *db.Database, logger *slog.Logger) *Repository {
	return &Repository{
		dbs:    dbs,
		logger: logger.With("source", "TranscriptRepository"),
	}
}

// CreateGame inserts a new game row and returns its generated ID.
func (r *Repository) CreateGame(ctx context.Context, caseTitle string, seed int64, killer string) (string, error) {
	id, err := random.Letters(20)
	if err != nil {
		return "", errors.Wrap(err, "generate game ID")
	}

	stmt := `INSERT INTO games (id, case_title, seed, killer) VALUES (?, ?, ?, ?)`
	if _, err = r.dbs.ReadWrite.ExecContext(ctx, stmt, id, caseTitle, seed, killer); err != nil {
		return "", errors.Wrap(err, "insert game")
	}
	return id, nil
}

// GetGame loads a game snapshot.
func (r *Repository) GetGame(ctx context.Context, id string) (*models.Game, error) {
	var g models.Game
	stmt := `SELECT id, case_title, seed, killer, phase, created_at, updated_at FROM games WHERE id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &g, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrGameNotFound, "get game", slog.String("id", id))
		}
		return nil, errors.Wrap(err, "get game")
	}
	return &g, nil
}

// UpdatePhase records a phase transition.
func (r *Repository) UpdatePhase(ctx context.Context, id, phase string) error {
	stmt := `UPDATE games SET phase = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, phase, id)
	if err != nil {
		return errors.Wrap(err, "update phase")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return errors.Wrap(ErrGameNotFound, "update phase", slog.String("id", id))
	}
	return nil
}

// AppendTurn records one interrogation turn.
func (r *Repository) AppendTurn(ctx context.Context, entry models.TranscriptEntry) error {
	stmt := `INSERT INTO transcript_entries (game_id, target, question, spoken, intent, truthful, evasive)
	VALUES (:game_id, :target, :question, :spoken, :intent, :truthful, :evasive)`
	if _, err := r.dbs.ReadWrite.NamedExecContext(ctx, stmt, entry); err != nil {
		return errors.Wrap(err, "insert transcript entry")
	}
	return nil
}

// ListTurns returns a game's turns in ask order.
func (r *Repository) ListTurns(ctx context.Context, gameID string) ([]models.TranscriptEntry, error) {
	var entries []models.TranscriptEntry
	stmt := `SELECT id, game_id, target, question, spoken, intent, truthful, evasive, asked_at
	FROM transcript_entries WHERE game_id = ? ORDER BY id`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &entries, stmt, gameID); err != nil {
		return nil, errors.Wrap(err, "list transcript entries")
	}
	return entries, nil
}

// AppendEvidence records a revealed clue. Re-registering the same
// description for a game is a no-op, mirroring the in-memory dedupe.
func (r *Repository) AppendEvidence(ctx context.Context, gameID, description, source string) error {
	stmt := `INSERT INTO evidence_items (game_id, description, source) VALUES (?, ?, ?)
	ON CONFLICT (game_id, description) DO NOTHING`
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, gameID, description, source); err != nil {
		return errors.Wrap(err, "insert evidence item")
	}
	return nil
}

// ListEvidence returns a game's revealed clues in discovery order.
func (r *Repository) ListEvidence(ctx context.Context, gameID string) ([]models.EvidenceItem, error) {
	var items []models.EvidenceItem
	stmt := `SELECT id, game_id, description, source, found_at
	FROM evidence_items WHERE game_id = ? ORDER BY id`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &items, stmt, gameID); err != nil {
		return nil, errors.Wrap(err, "list evidence items")
	}
	return items, nil
}
