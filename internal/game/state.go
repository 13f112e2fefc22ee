// Package game holds the mutable session state of one playthrough: phase
// progression, relationships, per-character memory, the evidence log, and
// question quotas. All mutation goes through methods so the invariants
// (monotonic phases, deduplicated evidence, clamped relations) hold in one
// place.
package game

import (
	"log/slog"
	mrand "math/rand"

	"github.com/ovalles/medianoche/internal/casefile"
	"github.com/ovalles/medianoche/internal/intent"
	"github.com/ovalles/medianoche/internal/random"
)

// Phase is one of the three ordered stages of a session. Transitions only
// move forward.
type Phase int

const (
	PhaseInicio Phase = iota
	PhaseDesarrollo
	PhaseConclusion
)

func (p Phase) String() string {
	switch p {
	case PhaseInicio:
		return "INICIO"
	case PhaseDesarrollo:
		return "DESARROLLO"
	case PhaseConclusion:
		return "CONCLUSION"
	}
	return "DESCONOCIDA"
}

// questionsPerPhase is each suspect's question quota, restored on every
// phase transition.
const questionsPerPhase = 3

// ScriptedSource attributes evidence surfaced by phase transitions, as
// opposed to clues extracted from a suspect.
const ScriptedSource = "la escena del crimen"

// Memory is what one suspect remembers about the interrogation so far.
// Created lazily on first interaction and only ever appended to.
type Memory struct {
	AccusedBy    map[string]struct{}
	SupportedBy  map[string]struct{}
	EvasionCount int
	ToldFacts    map[intent.Intent]map[string]struct{}
}

func newMemory() *Memory {
	return &Memory{
		AccusedBy:   make(map[string]struct{}),
		SupportedBy: make(map[string]struct{}),
		ToldFacts:   make(map[intent.Intent]map[string]struct{}),
	}
}

// EvidenceItem is one revealed clue and who it came from.
type EvidenceItem struct {
	Description string
	Source      string
}

// State is the session root. Not safe for concurrent use; the game is
// strictly turn-based.
type State struct {
	Case   *casefile.Case
	Victim string
	Phase  Phase

	killer        string
	relations     map[string]map[string]float64
	memory        map[string]*Memory
	evidence      []EvidenceItem
	evidenceSeen  map[string]struct{}
	pendingReveal []string
	questionsLeft map[string]int
}

// NewState bootstraps a session from a case: picks the killer, ingests the
// declared relationships, seeds the scripted evidence pool, and hands every
// suspect their opening question quota. The killer draw and the evidence
// shuffle come from independent streams of src so a fixed root seed replays
// the whole session.
func NewState(c *casefile.Case, src *random.Source) *State {
	s := &State{
		Case:          c,
		Victim:        c.Victim.Name,
		Phase:         PhaseInicio,
		relations:     make(map[string]map[string]float64),
		memory:        make(map[string]*Memory),
		evidenceSeen:  make(map[string]struct{}),
		questionsLeft: make(map[string]int),
	}

	roster := c.Roster()
	for _, name := range roster {
		s.relations[name] = make(map[string]float64)
		s.questionsLeft[name] = questionsPerPhase
	}
	for _, suspect := range c.Suspects {
		for other, v := range suspect.Relations {
			s.relations[suspect.Name][other] = clamp(v, -1, 1)
		}
	}

	if len(roster) > 0 {
		rnd := src.Stream("killer")
		s.killer = roster[rnd.Intn(len(roster))]
	}

	s.pendingReveal = seedEvidence(c.Evidence, src.Stream("evidence"))
	return s
}

// seedEvidence samples 3 real and 2 ambiguous items and shuffles them into
// the order phase transitions will reveal them in.
func seedEvidence(pools casefile.Evidence, rnd *mrand.Rand) []string {
	pick := func(items []string, k int) []string {
		if k > len(items) {
			k = len(items)
		}
		out := make([]string, 0, k)
		for _, i := range rnd.Perm(len(items))[:k] {
			out = append(out, items[i])
		}
		return out
	}

	pool := append(pick(pools.Real, 3), pick(pools.Ambiguous, 2)...)
	shuffled := make([]string, len(pool))
	for i, j := range rnd.Perm(len(pool)) {
		shuffled[i] = pool[j]
	}
	return shuffled
}

// Roster returns the suspect names in case order.
func (s *State) Roster() []string {
	return s.Case.Roster()
}

// Killer returns the hidden culprit. Player-facing views must not print it
// before the ending.
func (s *State) Killer() string {
	return s.killer
}

// ForceKiller overrides the killer draw. Used by scripted scenarios.
func (s *State) ForceKiller(name string) bool {
	if _, ok := s.Case.Suspect(name); !ok {
		return false
	}
	s.killer = name
	return true
}

// IsKiller reports whether name is the culprit.
func (s *State) IsKiller(name string) bool {
	return name == s.killer
}

// Advance moves to the next phase, restores every suspect's question quota,
// and reveals the next scripted evidence item. Returns false when the
// session is already in its final phase.
func (s *State) Advance() (revealed string, ok bool) {
	if s.Phase >= PhaseConclusion {
		return "", false
	}
	s.Phase++
	for name := range s.questionsLeft {
		s.questionsLeft[name] = questionsPerPhase
	}
	return s.revealNext(), true
}

func (s *State) revealNext() string {
	for len(s.pendingReveal) > 0 {
		item := s.pendingReveal[0]
		s.pendingReveal = s.pendingReveal[1:]
		if s.RegisterClue(item, ScriptedSource) {
			return item
		}
	}
	return ""
}

// Relation returns A's view of B, zero when unknown.
func (s *State) Relation(a, b string) float64 {
	return s.relations[a][b]
}

// ShiftRelation nudges A's view of B by delta, clamped to [-1, 1].
func (s *State) ShiftRelation(a, b string, delta float64) {
	if _, ok := s.relations[a]; !ok {
		return
	}
	s.relations[a][b] = clamp(s.relations[a][b]+delta, -1, 1)
}

// MemoryOf returns the suspect's memory, creating it on first use.
func (s *State) MemoryOf(name string) *Memory {
	mem, ok := s.memory[name]
	if !ok {
		mem = newMemory()
		s.memory[name] = mem
	}
	return mem
}

// RecordAccusation notes that accuser pointed at target, and sours the
// target's view of the accuser.
func (s *State) RecordAccusation(target, accuser string) {
	s.MemoryOf(target).AccusedBy[accuser] = struct{}{}
	s.ShiftRelation(target, accuser, -0.2)
}

// RecordSupport notes that supporter backed target, and warms the target's
// view of the supporter.
func (s *State) RecordSupport(target, supporter string) {
	s.MemoryOf(target).SupportedBy[supporter] = struct{}{}
	s.ShiftRelation(target, supporter, 0.1)
}

// IncrementEvasion bumps the suspect's evasive-answer count.
func (s *State) IncrementEvasion(name string) {
	s.MemoryOf(name).EvasionCount++
}

// RememberFact records that the suspect has spoken this fact aloud for the
// given topic.
func (s *State) RememberFact(name string, in intent.Intent, fact string) {
	mem := s.MemoryOf(name)
	bucket, ok := mem.ToldFacts[in]
	if !ok {
		bucket = make(map[string]struct{})
		mem.ToldFacts[in] = bucket
	}
	bucket[fact] = struct{}{}
}

// HasTold reports whether the suspect already said this fact for the topic.
func (s *State) HasTold(name string, in intent.Intent, fact string) bool {
	mem, ok := s.memory[name]
	if !ok {
		return false
	}
	_, told := mem.ToldFacts[in][fact]
	return told
}

// RegisterClue appends an evidence item unless its description is already
// logged. Reports whether the item was new.
func (s *State) RegisterClue(description, source string) bool {
	if _, dup := s.evidenceSeen[description]; dup {
		return false
	}
	s.evidenceSeen[description] = struct{}{}
	s.evidence = append(s.evidence, EvidenceItem{Description: description, Source: source})
	return true
}

// Evidence returns the revealed items in discovery order.
func (s *State) Evidence() []EvidenceItem {
	return append([]EvidenceItem(nil), s.evidence...)
}

// QuestionsLeft returns the suspect's remaining quota for this phase.
func (s *State) QuestionsLeft(name string) int {
	return s.questionsLeft[name]
}

// ConsumeQuestion decrements the suspect's quota, never below zero.
func (s *State) ConsumeQuestion(name string) {
	if s.questionsLeft[name] > 0 {
		s.questionsLeft[name]--
	}
}

// LogValue summarizes the session for structured logs without leaking the
// killer.
func (s *State) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("phase", s.Phase.String()),
		slog.Int("evidence", len(s.evidence)),
		slog.Int("suspects", len(s.relations)),
	)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
