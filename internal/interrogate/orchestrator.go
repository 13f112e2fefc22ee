// Package interrogate runs one interrogation turn end to end: guard,
// classification, quote side effects, policy decision, prompt assembly,
// generation, parsing, memory update, and clue registration. Generation
// faults are absorbed here; only unknown-name and exhausted-quota
// conditions surface to the caller.
package interrogate

import (
	"context"
	"log/slog"

	"github.com/ovalles/medianoche/internal/ai"
	"github.com/ovalles/medianoche/internal/answer"
	"github.com/ovalles/medianoche/internal/casefile"
	"github.com/ovalles/medianoche/internal/errors"
	"github.com/ovalles/medianoche/internal/game"
	"github.com/ovalles/medianoche/internal/intent"
	"github.com/ovalles/medianoche/internal/names"
	"github.com/ovalles/medianoche/internal/policy"
	"github.com/ovalles/medianoche/internal/prompt"
	"github.com/ovalles/medianoche/internal/quote"
)

var (
	// ErrUnknownSuspect is returned when the target or a quoted speaker
	// does not resolve to a roster name. The turn consumes nothing.
	ErrUnknownSuspect = errors.NewSentinel("suspect not recognized")
	// ErrNoQuestionsLeft is returned when the target's quota for the
	// current phase is spent. Not an error state; advance the phase.
	ErrNoQuestionsLeft = errors.NewSentinel("no questions left for this suspect")
)

// deflectionLine covers generation-service failures. In-character enough
// that the session continues without breaking the fiction.
const deflectionLine = "No sé si eso importa ahora, pregúntame otra cosa."

// Turn is the outcome of one question.
type Turn struct {
	Target        string
	Spoken        string
	Meta          answer.Meta
	Decision      policy.Decision
	Pressure      float64
	Clue          *game.EvidenceItem
	Refocused     bool
	QuestionsLeft int
}

// Orchestrator wires the engine components around a shared session state.
type Orchestrator struct {
	logger     *slog.Logger
	state      *game.State
	resolver   *names.Resolver
	classifier *intent.Classifier
	guard      *intent.Guard
	detector   *quote.Detector
	engine     *policy.Engine
	generator  ai.Generator
}

// New builds an orchestrator over an already-bootstrapped state.
func New(
	logger *slog.Logger,
	state *game.State,
	resolver *names.Resolver,
	engine *policy.Engine,
	generator ai.Generator,
) *Orchestrator {
	classifier := intent.NewClassifier()
	return &Orchestrator{
		logger:     logger.With(slog.String("source", "interrogate")),
		state:      state,
		resolver:   resolver,
		classifier: classifier,
		guard:      intent.NewGuard(classifier),
		detector:   quote.NewDetector(resolver),
		engine:     engine,
		generator:  generator,
	}
}

// ResolveTarget canonicalizes a free-text suspect reference.
func (o *Orchestrator) ResolveTarget(raw string) (string, error) {
	canonical, ok := o.resolver.Canonicalize(raw)
	if !ok {
		return "", errors.Wrap(ErrUnknownSuspect, "resolve target", slog.String("input", raw))
	}
	if _, ok := o.state.Case.Suspect(canonical); !ok {
		return "", errors.Wrap(ErrUnknownSuspect, "resolve target", slog.String("input", raw))
	}
	return canonical, nil
}

// Ask runs one full turn against the named suspect. Validation happens
// before any state mutation: an unknown target or quoted speaker, or an
// exhausted quota, leaves the session untouched.
func (o *Orchestrator) Ask(ctx context.Context, rawTarget, question string) (*Turn, error) {
	target, err := o.ResolveTarget(rawTarget)
	if err != nil {
		return nil, err
	}
	ch, _ := o.state.Case.Suspect(target)

	if o.state.QuestionsLeft(target) == 0 {
		return nil, errors.Wrap(ErrNoQuestionsLeft, "ask", slog.String("target", target))
	}

	if o.guard.IsOfftopic(question) {
		return o.refocus(target), nil
	}

	in := o.classifier.Classify(question)

	quoted, err := o.applyQuote(question)
	if err != nil {
		return nil, err
	}

	decision, pressure := o.engine.Decide(ch, in, o.state, quoted)
	payload := o.engine.SelectPayload(ch, in, o.state, decision)

	spoken := o.generate(ctx, prompt.Input{
		Character: ch,
		Question:  question,
		Intent:    in,
		Decision:  decision,
		Payload:   payload,
		State:     o.state,
		Quoted:    quoted,
	})

	// The engine, not the model, is the authority on what was decided:
	// the parsed metadata only contributes the spoken line.
	meta := answer.Meta{
		Intent:     in,
		Truthful:   decision == policy.Truth,
		Payload:    payload.Text,
		Evasive:    payload.Evasive,
		SaidBefore: payload.SaidBefore,
	}

	turn := &Turn{
		Target:   target,
		Spoken:   spoken,
		Meta:     meta,
		Decision: decision,
		Pressure: pressure,
	}
	o.commit(turn, ch)
	return turn, nil
}

// refocus is the off-topic short circuit: fixed line, forced meta, no
// generation. The quota is still spent; wasting questions has a cost.
func (o *Orchestrator) refocus(target string) *Turn {
	turn := &Turn{
		Target:    target,
		Spoken:    intent.RefocusLine,
		Meta:      answer.Meta{Intent: intent.General, Evasive: true},
		Decision:  policy.Hedge,
		Refocused: true,
	}
	ch, _ := o.state.Case.Suspect(target)
	o.commit(turn, ch)
	return turn
}

// applyQuote detects reported speech in the question and applies its
// relationship and memory side effects. A quoted speaker outside the roster
// aborts the turn before any mutation.
func (o *Orchestrator) applyQuote(question string) (*quote.Quote, error) {
	quoted := o.detector.Detect(question)
	if quoted == nil {
		return nil, nil
	}
	if _, ok := o.state.Case.Suspect(quoted.Source); !ok {
		return nil, errors.Wrap(ErrUnknownSuspect, "quoted speaker",
			slog.String("speaker", quoted.Source))
	}
	if quoted.About != "" && quoted.About != quoted.Source {
		if quoted.IsAccusation {
			o.state.RecordAccusation(quoted.About, quoted.Source)
		}
		if quoted.IsSupport {
			o.state.RecordSupport(quoted.About, quoted.Source)
		}
	}
	return quoted, nil
}

// generate renders and validates the prompt, calls the generation service,
// and parses its output. Every failure collapses to a deterministic line;
// the session never dies on a model fault.
func (o *Orchestrator) generate(ctx context.Context, in prompt.Input) string {
	rendered := prompt.Build(in)
	if err := prompt.Validate(rendered); err != nil {
		o.logger.LogAttrs(ctx, slog.LevelError, "prompt failed conformance check", errors.SlogError(err))
		return answer.FillerFor(in.Intent)
	}

	raw, err := o.generator.Generate(ctx, rendered)
	if err != nil {
		o.logger.LogAttrs(ctx, slog.LevelWarn, "generation failed, deflecting",
			errors.SlogError(err), slog.String("target", in.Character.Name))
		return deflectionLine
	}

	spoken, _ := answer.Parse(raw)
	return spoken
}

// commit applies the turn's state effects: memory, clue registration, and
// quota. Runs for every answered turn, including refocused ones.
func (o *Orchestrator) commit(turn *Turn, ch casefile.Character) {
	if turn.Meta.Evasive {
		o.state.IncrementEvasion(ch.Name)
	}
	if turn.Meta.Truthful && turn.Meta.Payload != "" {
		o.state.RememberFact(ch.Name, turn.Meta.Intent, turn.Meta.Payload)

		if intent.ClueBearing(turn.Meta.Intent) && o.state.RegisterClue(turn.Meta.Payload, ch.Name) {
			turn.Clue = &game.EvidenceItem{Description: turn.Meta.Payload, Source: ch.Name}
		}
	}
	o.state.ConsumeQuestion(ch.Name)
	turn.QuestionsLeft = o.state.QuestionsLeft(ch.Name)

	o.logger.LogAttrs(context.Background(), slog.LevelDebug, "turn completed",
		slog.String("target", ch.Name),
		slog.String("intent", string(turn.Meta.Intent)),
		slog.String("decision", turn.Decision.String()),
		slog.Bool("clue", turn.Clue != nil),
	)
}
