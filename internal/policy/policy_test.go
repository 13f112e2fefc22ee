package policy_test

import (
	"testing"
	"unicode"

	"github.com/ovalles/medianoche/internal/casefile"
	"github.com/ovalles/medianoche/internal/game"
	"github.com/ovalles/medianoche/internal/intent"
	"github.com/ovalles/medianoche/internal/policy"
	"github.com/ovalles/medianoche/internal/quote"
	"github.com/ovalles/medianoche/internal/random"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T, seed int64) (*policy.Engine, *game.State, *casefile.Case) {
	t.Helper()
	c, err := casefile.Default()
	require.NoError(t, err)
	src := random.NewSource(seed)
	s := game.NewState(c, src)
	e := policy.NewEngine(policy.DefaultTables(), src.Stream("policy"))
	return e, s, c
}

func suspect(t *testing.T, c *casefile.Case, name string) casefile.Character {
	t.Helper()
	ch, ok := c.Suspect(name)
	require.True(t, ok)
	return ch
}

func TestDecideIsDeterministicForAFixedSeed(t *testing.T) {
	run := func() []policy.Decision {
		e, s, c := newFixture(t, 42)
		require.True(t, s.ForceKiller("Jack Domador"))
		jack := suspect(t, c, "Jack Domador")

		var out []policy.Decision
		for i := 0; i < 20; i++ {
			d, _ := e.Decide(jack, intent.Alibi, s, nil)
			out = append(out, d)
		}
		return out
	}

	require.Equal(t, run(), run())
}

// An accusation must raise pressure for everyone; the exact probabilities
// are balance parameters, so only the direction is asserted.
func TestAccusationRaisesPressure(t *testing.T) {
	e, s, c := newFixture(t, 1)
	jack := suspect(t, c, "Jack Domador")

	_, calm := e.Decide(jack, intent.Alibi, s, nil)
	accusation := &quote.Quote{
		Source:       "Silvana Funambula",
		About:        "Jack Domador",
		IsAccusation: true,
	}
	_, pressed := e.Decide(jack, intent.Alibi, s, accusation)

	require.Greater(t, pressed, calm)
}

func TestHostileHistoryRaisesPressure(t *testing.T) {
	e, s, c := newFixture(t, 1)
	jack := suspect(t, c, "Jack Domador")

	_, before := e.Decide(jack, intent.General, s, nil)
	s.RecordAccusation("Jack Domador", "Silvana Funambula")
	s.RecordAccusation("Jack Domador", "Mefisto")
	s.IncrementEvasion("Jack Domador")
	_, after := e.Decide(jack, intent.General, s, nil)

	require.Greater(t, after, before)
}

func TestSupportLowersPressure(t *testing.T) {
	e, s, c := newFixture(t, 1)
	jack := suspect(t, c, "Jack Domador")

	_, before := e.Decide(jack, intent.General, s, nil)
	s.RecordSupport("Jack Domador", "Mefisto")
	_, after := e.Decide(jack, intent.General, s, nil)

	require.Less(t, after, before)
}

// Across many seeds the killer must both lie and tell the truth on alibi
// questions: the distribution is non-degenerate, and the killer lies more
// often than an innocent with the same history.
func TestDecisionDistributionIsNonDegenerate(t *testing.T) {
	var killerTruths, killerLies, innocentLies int
	const turns = 5

	for seed := int64(1); seed <= 100; seed++ {
		e, s, c := newFixture(t, seed)
		require.True(t, s.ForceKiller("Jack Domador"))
		jack := suspect(t, c, "Jack Domador")
		silvana := suspect(t, c, "Silvana Funambula")

		for i := 0; i < turns; i++ {
			switch d, _ := e.Decide(jack, intent.Alibi, s, nil); d {
			case policy.Truth:
				killerTruths++
			case policy.Lie:
				killerLies++
			}
			if d, _ := e.Decide(silvana, intent.Alibi, s, nil); d == policy.Lie {
				innocentLies++
			}
		}
	}

	require.Positive(t, killerTruths)
	require.Positive(t, killerLies)
	require.Greater(t, killerLies, innocentLies)
}

func TestSelectPayloadTruthPrefersUntoldFacts(t *testing.T) {
	e, s, c := newFixture(t, 3)
	jack := suspect(t, c, "Jack Domador")
	facts := jack.Facts(intent.Motive)
	require.Len(t, facts, 1)

	p := e.SelectPayload(jack, intent.Motive, s, policy.Truth)
	require.Equal(t, facts[0], p.Text)
	require.False(t, p.Evasive)
	require.False(t, p.SaidBefore)

	s.RememberFact("Jack Domador", intent.Motive, facts[0])
	p = e.SelectPayload(jack, intent.Motive, s, policy.Truth)
	require.Equal(t, facts[0], p.Text)
	require.True(t, p.SaidBefore)
}

func TestSelectPayloadTruthWithoutFactIsEvasive(t *testing.T) {
	e, s, c := newFixture(t, 3)
	// Jack has no RUMOR bucket in the shipped case.
	jack := suspect(t, c, "Jack Domador")
	require.Empty(t, jack.Facts(intent.Rumor))

	p := e.SelectPayload(jack, intent.Rumor, s, policy.Truth)
	require.NotEmpty(t, p.Text)
	require.True(t, p.Evasive)
}

func TestSelectPayloadHedgeSoftensTheFact(t *testing.T) {
	e, s, c := newFixture(t, 3)
	jack := suspect(t, c, "Jack Domador")
	fact := jack.Facts(intent.Motive)[0]

	lowered := []rune(fact)
	lowered[0] = unicode.ToLower(lowered[0])

	p := e.SelectPayload(jack, intent.Motive, s, policy.Hedge)
	require.True(t, p.Evasive)
	require.NotEqual(t, fact, p.Text)
	require.Contains(t, p.Text, string(lowered))
}

func TestSelectPayloadLieNeverLeaksTheFactVerbatim(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		e, s, c := newFixture(t, seed)
		jack := suspect(t, c, "Jack Domador")
		fact := jack.Facts(intent.Motive)[0]

		p := e.SelectPayload(jack, intent.Motive, s, policy.Lie)
		require.True(t, p.Evasive)
		require.NotEqual(t, fact, p.Text)
	}
}
