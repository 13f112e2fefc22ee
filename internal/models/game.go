// Package models holds the persistence records shared by the repositories
// and the surfaces.
package models

import "time"

// Game is a persisted session snapshot. Killer is stored so a session can be
// resumed with the same culprit; it is never sent to player-facing views.
type Game struct {
	ID        string    `db:"id"`
	CaseTitle string    `db:"case_title"`
	Seed      int64     `db:"seed"`
	Killer    string    `db:"killer"`
	Phase     string    `db:"phase"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// TranscriptEntry is one recorded interrogation turn.
type TranscriptEntry struct {
	ID       int64     `db:"id"`
	GameID   string    `db:"game_id"`
	Target   string    `db:"target"`
	Question string    `db:"question"`
	Spoken   string    `db:"spoken"`
	Intent   string    `db:"intent"`
	Truthful bool      `db:"truthful"`
	Evasive  bool      `db:"evasive"`
	AskedAt  time.Time `db:"asked_at"`
}

// EvidenceItem is one revealed clue row.
type EvidenceItem struct {
	ID          int64     `db:"id"`
	GameID      string    `db:"game_id"`
	Description string    `db:"description"`
	Source      string    `db:"source"`
	FoundAt     time.Time `db:"found_at"`
}
