package interrogate_test

import (
	"context"
	"io"
	"testing"

	"github.com/ovalles/medianoche/internal/casefile"
	"github.com/ovalles/medianoche/internal/game"
	"github.com/ovalles/medianoche/internal/intent"
	"github.com/ovalles/medianoche/internal/interrogate"
	"github.com/ovalles/medianoche/internal/names"
	"github.com/ovalles/medianoche/internal/policy"
	"github.com/ovalles/medianoche/internal/random"
	"github.com/ovalles/medianoche/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

// stubGenerator scripts the generation service and records every prompt it
// receives.
type stubGenerator struct {
	raw     string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	if g.raw != "" {
		return g.raw, nil
	}
	return `<META>{"intent":"GENERAL","truthful":false,"payload":"","evasive":true,"said_before":false}</META> No tengo nada que ocultar.`, nil
}

func newFixture(t *testing.T, seed int64, gen *stubGenerator) (*interrogate.Orchestrator, *game.State) {
	t.Helper()
	c, err := casefile.Default()
	require.NoError(t, err)
	src := random.NewSource(seed)
	state := game.NewState(c, src)
	resolver := names.NewResolver(c.Roster(), c.AliasMap())
	engine := policy.NewEngine(policy.DefaultTables(), src.Stream("policy"))
	logger := testhelpers.NewLogger(io.Discard)
	return interrogate.New(logger, state, resolver, engine, gen), state
}

func TestAskUnknownTargetLeavesStateUntouched(t *testing.T) {
	gen := &stubGenerator{}
	o, state := newFixture(t, 1, gen)
	before := state.QuestionsLeft("Jack Domador")

	_, err := o.Ask(context.Background(), "el fantasma de la carpa", "¿Dónde estabas?")

	require.ErrorIs(t, err, interrogate.ErrUnknownSuspect)
	require.Empty(t, gen.prompts)
	require.Equal(t, before, state.QuestionsLeft("Jack Domador"))
}

func TestAskResolvesAliases(t *testing.T) {
	gen := &stubGenerator{}
	o, _ := newFixture(t, 1, gen)

	turn, err := o.Ask(context.Background(), "bombita", "¿Dónde estabas esa noche?")
	require.NoError(t, err)
	require.Equal(t, "Mefisto", turn.Target)
}

func TestAskExhaustsQuota(t *testing.T) {
	gen := &stubGenerator{}
	o, state := newFixture(t, 1, gen)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := o.Ask(ctx, "Jack Domador", "¿Dónde estabas esa noche?")
		require.NoError(t, err)
	}
	require.Equal(t, 0, state.QuestionsLeft("Jack Domador"))

	_, err := o.Ask(ctx, "Jack Domador", "¿Dónde estabas esa noche?")
	require.ErrorIs(t, err, interrogate.ErrNoQuestionsLeft)

	// Other suspects keep their quota.
	_, err = o.Ask(ctx, "Mefisto", "¿Dónde estabas esa noche?")
	require.NoError(t, err)
}

func TestAskOfftopicRefocusesWithoutGenerating(t *testing.T) {
	gen := &stubGenerator{}
	o, state := newFixture(t, 1, gen)
	before := state.QuestionsLeft("Mefisto")

	turn, err := o.Ask(context.Background(), "Mefisto", "¿Viste el partido de fútbol ayer?")
	require.NoError(t, err)

	require.True(t, turn.Refocused)
	require.Equal(t, intent.RefocusLine, turn.Spoken)
	require.Equal(t, intent.General, turn.Meta.Intent)
	require.True(t, turn.Meta.Evasive)
	require.Empty(t, gen.prompts, "refocusing must skip generation")
	require.Equal(t, before-1, state.QuestionsLeft("Mefisto"), "wasted questions still cost quota")
}

func TestAskAppliesAccusationSideEffects(t *testing.T) {
	gen := &stubGenerator{}
	o, state := newFixture(t, 1, gen)
	before := state.Relation("Jack Domador", "Silvana Funambula")

	_, err := o.Ask(context.Background(), "Mefisto", "Silvana acusó a Jack de mentir, ¿qué opinas?")
	require.NoError(t, err)

	require.Contains(t, state.MemoryOf("Jack Domador").AccusedBy, "Silvana Funambula")
	require.Less(t, state.Relation("Jack Domador", "Silvana Funambula"), before)
}

func TestAskRejectsUnknownQuotedSpeaker(t *testing.T) {
	gen := &stubGenerator{}
	o, state := newFixture(t, 1, gen)
	before := state.QuestionsLeft("Mefisto")

	_, err := o.Ask(context.Background(), "Mefisto", "Romualdo dijo que el vagón estaba abierto, ¿es cierto?")

	require.ErrorIs(t, err, interrogate.ErrUnknownSuspect)
	require.Equal(t, before, state.QuestionsLeft("Mefisto"))
}

// A truthful clue-bearing answer must land in the evidence log exactly once,
// attributed to the speaker.
func TestAskRegistersCluesOnce(t *testing.T) {
	ctx := context.Background()

	for seed := int64(1); seed <= 20; seed++ {
		gen := &stubGenerator{}
		o, state := newFixture(t, seed, gen)

		turn, err := o.Ask(ctx, "Silvana Funambula", "¿Qué pruebas encontraste?")
		require.NoError(t, err)
		if !turn.Meta.Truthful {
			continue
		}

		require.NotNil(t, turn.Clue)
		require.Equal(t, "Silvana Funambula", turn.Clue.Source)
		require.Len(t, state.Evidence(), 1)

		// The same fact again must not duplicate the log entry.
		turn2, err := o.Ask(ctx, "Silvana Funambula", "¿Qué pruebas encontraste?")
		require.NoError(t, err)
		if turn2.Meta.Truthful && turn2.Meta.Payload == turn.Meta.Payload {
			require.Nil(t, turn2.Clue)
			require.Len(t, state.Evidence(), 1)
		}
		return
	}
	t.Fatal("no truthful clue-bearing turn across 20 seeds")
}

func TestAskAbsorbsGenerationFailure(t *testing.T) {
	gen := &stubGenerator{err: context.DeadlineExceeded}
	o, _ := newFixture(t, 1, gen)

	turn, err := o.Ask(context.Background(), "Jack Domador", "¿Dónde estabas esa noche?")
	require.NoError(t, err, "generation faults must not surface")
	require.NotEmpty(t, turn.Spoken)
	require.NotEmpty(t, gen.prompts)
}

func TestAskUsesParsedSpokenLine(t *testing.T) {
	gen := &stubGenerator{raw: `<META>{"intent":"COARTADA","truthful":true,"payload":"x","evasive":false,"said_before":false}</META> Estaba revisando las jaulas, como cada noche.`}
	o, _ := newFixture(t, 1, gen)

	turn, err := o.Ask(context.Background(), "Jack Domador", "¿Dónde estabas esa noche?")
	require.NoError(t, err)
	require.Equal(t, "Estaba revisando las jaulas, como cada noche.", turn.Spoken)
	require.Equal(t, intent.Alibi, turn.Meta.Intent)
}

func TestAskEvasionIncrementsMemory(t *testing.T) {
	gen := &stubGenerator{}
	o, state := newFixture(t, 1, gen)
	ctx := context.Background()

	// Off-topic turns are always evasive, so the counter must move.
	_, err := o.Ask(ctx, "Mefisto", "Recomiéndame un restaurante")
	require.NoError(t, err)
	require.Equal(t, 1, state.MemoryOf("Mefisto").EvasionCount)
}

func TestAskMetaComesFromEngineNotModel(t *testing.T) {
	// The model claims a truthful evidence answer; the engine decided the
	// turn, so the model's meta must not leak through.
	gen := &stubGenerator{raw: `<META>{"intent":"PRUEBAS","truthful":true,"payload":"invento del modelo","evasive":false,"said_before":false}</META> Algo dije.`}
	o, _ := newFixture(t, 5, gen)

	turn, err := o.Ask(context.Background(), "Jack Domador", "¿Tienes algo más que decir?")
	require.NoError(t, err)
	require.Equal(t, intent.General, turn.Meta.Intent)
	require.NotEqual(t, "invento del modelo", turn.Meta.Payload)
}
