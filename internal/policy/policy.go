// Package policy decides whether a suspect answers a question truthfully,
// deceptively, or with a hedge, and selects the content the answer is built
// around. It models social pressure: guilt raises the baseline propensity to
// lie, while being cornered (accusations, phase progression, hostile
// history) squeezes guilty and innocent suspects asymmetrically.
package policy

import (
	mrand "math/rand"
	"strings"
	"unicode"

	"github.com/ovalles/medianoche/internal/casefile"
	"github.com/ovalles/medianoche/internal/game"
	"github.com/ovalles/medianoche/internal/intent"
	"github.com/ovalles/medianoche/internal/quote"
)

// Decision is the per-turn response mode.
type Decision int

const (
	Truth Decision = iota
	Hedge
	Lie
)

func (d Decision) String() string {
	switch d {
	case Truth:
		return "TRUTH"
	case Hedge:
		return "HEDGE"
	case Lie:
		return "LIE"
	}
	return "UNKNOWN"
}

// hedgeBand is the probability mass above the truth chance reserved for
// hedging instead of an outright lie.
const hedgeBand = 0.2

// Tables holds the per-intent lie biases. Immutable after construction;
// DefaultTables matches the shipped game balance.
type Tables struct {
	KillerBias   map[intent.Intent]float64
	InnocentBias map[intent.Intent]float64
}

// DefaultTables biases the killer toward lying most on alibi, evidence and
// motive questions, and least on general chatter. Innocents get a slight
// push toward honesty on the same topics.
func DefaultTables() Tables {
	return Tables{
		KillerBias: map[intent.Intent]float64{
			intent.Alibi:         0.25,
			intent.Evidence:      0.2,
			intent.Motive:        0.2,
			intent.Relationships: 0.1,
			intent.Place:         0.15,
			intent.Object:        0.15,
			intent.Rumor:         0.1,
			intent.General:       0.1,
		},
		InnocentBias: map[intent.Intent]float64{
			intent.Alibi:    -0.05,
			intent.Evidence: -0.05,
			intent.Motive:   -0.02,
		},
	}
}

// Engine draws policy decisions from a dedicated random stream so a fixed
// seed replays identical playthroughs.
type Engine struct {
	tables Tables
	rnd    *mrand.Rand
}

// NewEngine builds an engine over the given tables and random stream.
func NewEngine(tables Tables, rnd *mrand.Rand) *Engine {
	return &Engine{tables: tables, rnd: rnd}
}

// Decide returns the response mode for this turn along with the accumulated
// pressure, which callers may surface for debugging.
func (e *Engine) Decide(ch casefile.Character, in intent.Intent, s *game.State, quoted *quote.Quote) (Decision, float64) {
	pressure := e.pressure(ch, s, quoted)
	chance := e.truthChance(ch, in, s, pressure)

	r := e.rnd.Float64()
	switch {
	case r < chance:
		return Truth, pressure
	case r < min(1, chance+hedgeBand):
		return Hedge, pressure
	default:
		return Lie, pressure
	}
}

// pressure accumulates the situational stress on the suspect. Each memory
// term is capped independently; the sum is only clamped later, when turned
// into a probability.
func (e *Engine) pressure(ch casefile.Character, s *game.State, quoted *quote.Quote) float64 {
	var p float64
	if s.Phase != game.PhaseInicio {
		p += 0.15
	}
	if quoted != nil && quoted.IsAccusation {
		p += 0.25
	}
	p += 0.30 * max(0, ch.Hostility)

	mem := s.MemoryOf(ch.Name)
	p += min(0.30, 0.10*float64(len(mem.AccusedBy)))
	p -= min(0.20, 0.05*float64(len(mem.SupportedBy)))
	p += min(0.15, 0.03*float64(mem.EvasionCount))
	return p
}

func (e *Engine) truthChance(ch casefile.Character, in intent.Intent, s *game.State, pressure float64) float64 {
	if s.IsKiller(ch.Name) {
		chance := clamp(0.50-pressure*0.25-e.tables.KillerBias[in], 0.05, 0.95)
		// The killer must stay extractable: on clue-bearing topics a
		// phase-dependent floor keeps occasional truth flowing even
		// late in the game.
		if intent.ClueBearing(in) {
			chance = max(chance, killerTruthFloor(s.Phase))
		}
		return chance
	}
	return clamp(ch.Truthfulness-pressure*0.10-e.tables.InnocentBias[in], 0.30, 0.98)
}

func killerTruthFloor(p game.Phase) float64 {
	switch p {
	case game.PhaseDesarrollo:
		return 0.20
	case game.PhaseConclusion:
		return 0.28
	}
	return 0.12
}

// Payload is the selected answer content, independent of its stylistic
// rendering by the generation service.
type Payload struct {
	Text       string
	Evasive    bool
	SaidBefore bool
}

// Fixed fallback lines for turns where the knowledge base has nothing to
// offer, or where the decision calls for deflection.
const (
	truthNoFactLine = "No tengo nada claro sobre eso, pero escuché pasos y tensión en el ambiente."
	flatDenialLine  = "No vi ni escuché nada que valga la pena sobre eso."
	lieNoFactLine   = "No recuerdo nada útil en ese punto."
	hedgeNoFactLine = "No podría asegurarlo, todo está muy confuso todavía."
)

var hedgePrefixes = []string{
	"Quizá",
	"Podría ser que",
	"No estoy totalmente seguro, pero",
	"Diría que",
}

// SelectPayload picks the content of the answer for the decided mode. Facts
// not yet spoken aloud are preferred; when only repeats remain, SaidBefore
// is set so the renderer can acknowledge it. Evasive is true whenever the
// payload is not a straightforward truthful fact.
func (e *Engine) SelectPayload(ch casefile.Character, in intent.Intent, s *game.State, d Decision) Payload {
	fact, saidBefore := e.pickFact(ch, in, s)

	switch {
	case d == Truth && fact != "":
		return Payload{Text: fact, SaidBefore: saidBefore}
	case d == Truth:
		return Payload{Text: truthNoFactLine, Evasive: true}
	case d == Hedge && fact != "":
		return Payload{Text: e.soften(fact), Evasive: true, SaidBefore: saidBefore}
	case d == Hedge:
		return Payload{Text: hedgeNoFactLine, Evasive: true}
	case fact != "":
		// Lying about a known fact: half the time soften it beyond
		// recognition, half the time deny flatly.
		if e.rnd.Float64() < 0.5 {
			return Payload{Text: e.soften(fact), Evasive: true, SaidBefore: saidBefore}
		}
		return Payload{Text: flatDenialLine, Evasive: true}
	default:
		return Payload{Text: lieNoFactLine, Evasive: true}
	}
}

// pickFact chooses among the suspect's facts for the topic, preferring ones
// not yet told. The draw is uniform within the preferred set.
func (e *Engine) pickFact(ch casefile.Character, in intent.Intent, s *game.State) (fact string, saidBefore bool) {
	facts := ch.Facts(in)
	if len(facts) == 0 {
		return "", false
	}

	var untold []string
	for _, f := range facts {
		if !s.HasTold(ch.Name, in, f) {
			untold = append(untold, f)
		}
	}
	if len(untold) > 0 {
		return untold[e.rnd.Intn(len(untold))], false
	}
	return facts[e.rnd.Intn(len(facts))], true
}

// soften wraps a fact in a hedging prefix, lower-casing its first rune so
// the sentence still reads naturally.
func (e *Engine) soften(fact string) string {
	runes := []rune(fact)
	if len(runes) > 0 && unicode.IsUpper(runes[0]) {
		runes[0] = unicode.ToLower(runes[0])
	}
	return strings.TrimSpace(hedgePrefixes[e.rnd.Intn(len(hedgePrefixes))] + " " + string(runes))
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
