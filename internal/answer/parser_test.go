package answer_test

import (
	"strings"
	"testing"

	"github.com/ovalles/medianoche/internal/answer"
	"github.com/ovalles/medianoche/internal/intent"
	"github.com/stretchr/testify/require"
)

func TestParseWellFormedOutput(t *testing.T) {
	raw := `<META>{"intent":"COARTADA","truthful":true,"payload":"Estuve en las jaulas","evasive":false,"said_before":false}</META>
Revisaba las jaulas después de la función, pregúntale al vigilante.`

	spoken, meta := answer.Parse(raw)

	require.Equal(t, "Revisaba las jaulas después de la función, pregúntale al vigilante.", spoken)
	require.Equal(t, intent.Alibi, meta.Intent)
	require.True(t, meta.Truthful)
	require.Equal(t, "Estuve en las jaulas", meta.Payload)
	require.False(t, meta.Evasive)
}

func TestParseMissingMetaBlock(t *testing.T) {
	raw := "algo de narración\n\nNo pienso repetirlo otra vez."

	spoken, meta := answer.Parse(raw)

	require.Equal(t, "No pienso repetirlo otra vez.", spoken)
	require.Equal(t, intent.General, meta.Intent)
	require.False(t, meta.Truthful)
	require.True(t, meta.Evasive)
	require.Empty(t, meta.Payload)
}

func TestParseBrokenMetaJSON(t *testing.T) {
	raw := `<META>{not json at all</META> Ya dije lo que sabía.`

	spoken, meta := answer.Parse(raw)

	require.Equal(t, "Ya dije lo que sabía.", spoken)
	require.Equal(t, intent.General, meta.Intent)
	require.True(t, meta.Evasive)
}

func TestParsePayloadSanitation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty", payload: ""},
		{name: "template echo", payload: "<hecho/pista si aplica>"},
		{name: "brackets", payload: "[pista]"},
		{name: "n/a", payload: "n/a"},
		{name: "no aplica", payload: "No Aplica"},
		{name: "sin pista", payload: "sin pista"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `<META>{"intent":"PRUEBAS","truthful":true,"payload":"` + tt.payload + `","evasive":false,"said_before":false}</META> Algo vi.`
			_, meta := answer.Parse(raw)
			require.Empty(t, meta.Payload)
		})
	}
}

func TestParseKeepsRealPayload(t *testing.T) {
	raw := `<META>{"intent":"PRUEBAS","truthful":true,"payload":"Huella parcial en el espejo roto","evasive":false,"said_before":false}</META> La vi yo mismo.`

	_, meta := answer.Parse(raw)
	require.Equal(t, "Huella parcial en el espejo roto", meta.Payload)
}

func TestParseStripsPlaceholderFragmentsFromSpoken(t *testing.T) {
	raw := `<META>{"intent":"GENERAL","truthful":false,"payload":"","evasive":true,"said_before":false}</META>
{acotación} No tengo más que decir [gesto].`

	spoken, _ := answer.Parse(raw)
	require.Equal(t, "No tengo más que decir .", spoken)
}

// The spoken line must never come back empty, for any input.
func TestParseNeverReturnsEmptySpoken(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n  ",
		"<META>{}</META>",
		`<META>{"intent":"LUGAR","truthful":false,"payload":"","evasive":true,"said_before":false}</META> {placeholder}`,
		"[solo corchetes]",
	}
	for _, raw := range inputs {
		spoken, _ := answer.Parse(raw)
		require.NotEmpty(t, spoken, "input: %q", raw)
	}
}

func TestParseUsesIntentFillerForEmptySpoken(t *testing.T) {
	raw := `<META>{"intent":"OBJETO","truthful":false,"payload":"","evasive":true,"said_before":false}</META>`

	spoken, meta := answer.Parse(raw)
	require.Equal(t, intent.Object, meta.Intent)
	require.Equal(t, answer.FillerFor(intent.Object), spoken)
}

func TestParseTruncatesLongSpoken(t *testing.T) {
	long := strings.Repeat("palabra ", 100)
	raw := `<META>{"intent":"GENERAL","truthful":false,"payload":"","evasive":true,"said_before":false}</META> ` + long

	spoken, _ := answer.Parse(raw)
	require.LessOrEqual(t, len([]rune(spoken)), 280)
	require.True(t, strings.HasSuffix(spoken, "…"))
}

func TestParseUnknownIntentFallsBackToGeneral(t *testing.T) {
	raw := `<META>{"intent":"CHISMES","truthful":true,"payload":"","evasive":false,"said_before":false}</META> Bueno.`

	_, meta := answer.Parse(raw)
	require.Equal(t, intent.General, meta.Intent)
}
