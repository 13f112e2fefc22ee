package quote_test

import (
	"strings"
	"testing"

	"github.com/ovalles/medianoche/internal/names"
	"github.com/ovalles/medianoche/internal/quote"
	"github.com/stretchr/testify/require"
)

func testDetector() *quote.Detector {
	roster := []string{
		"Silvana Funambula",
		"Madame Seraphine",
		"Grigori Fuerte",
		"Lysandra Contorsionista",
		"Jack Domador",
		"Mefisto",
	}
	aliases := map[string][]string{
		"Silvana Funambula": {"Silvana", "Funambula"},
		"Madame Seraphine":  {"Madame", "Seraphine"},
		"Jack Domador":      {"Jack", "Domador"},
		"Mefisto":           {"Bombita"},
	}
	return quote.NewDetector(names.NewResolver(roster, aliases))
}

func TestDetectAccusation(t *testing.T) {
	d := testDetector()

	q := d.Detect("Silvana acusó a Jack de mentir")
	require.NotNil(t, q)
	require.Equal(t, "Silvana Funambula", q.Source)
	require.Equal(t, "Jack Domador", q.About)
	require.True(t, q.IsAccusation)
	require.False(t, q.IsSupport)
	require.Equal(t, "mentir", q.Content)
}

func TestDetectAccusationWithoutReason(t *testing.T) {
	d := testDetector()

	q := d.Detect("Grigori acusa a Bombita")
	require.NotNil(t, q)
	require.Equal(t, "Grigori Fuerte", q.Source)
	require.Equal(t, "Mefisto", q.About)
	require.True(t, q.IsAccusation)
	require.NotEmpty(t, q.Content)
}

func TestDetectSupport(t *testing.T) {
	d := testDetector()

	q := d.Detect("Madame Seraphine defiende a Silvana en todo")
	require.NotNil(t, q)
	require.Equal(t, "Madame Seraphine", q.Source)
	require.Equal(t, "Silvana Funambula", q.About)
	require.True(t, q.IsSupport)
	require.False(t, q.IsAccusation)
}

func TestDetectIntro(t *testing.T) {
	d := testDetector()

	q := d.Detect("Según Mefisto, la cuerda ya estaba cortada")
	require.NotNil(t, q)
	require.Equal(t, "Mefisto", q.Source)
	require.Equal(t, "la cuerda ya estaba cortada", q.Content)
	require.False(t, q.IsAccusation)
}

func TestDetectSayThat(t *testing.T) {
	d := testDetector()

	q := d.Detect("Jack dijo que vio a Silvana cerca del telón")
	require.NotNil(t, q)
	require.Equal(t, "Jack Domador", q.Source)
	require.Equal(t, "Silvana Funambula", q.About)
	require.Equal(t, "vio a Silvana cerca del telón", q.Content)
}

// The about slot must skip the speaker even when the speaker's name repeats
// inside the reported content.
func TestDetectAboutExcludesSource(t *testing.T) {
	d := testDetector()

	q := d.Detect("Silvana dijo que Silvana no sabía nada de Grigori")
	require.NotNil(t, q)
	require.Equal(t, "Silvana Funambula", q.Source)
	require.Equal(t, "Grigori Fuerte", q.About)
}

func TestDetectLooseFallback(t *testing.T) {
	d := testDetector()

	q := d.Detect("todos saben que hubo una acusacion contra Bombita")
	require.NotNil(t, q)
	require.Equal(t, "Mefisto", q.Source)
	require.True(t, q.IsAccusation)
}

func TestDetectNoQuote(t *testing.T) {
	d := testDetector()

	require.Nil(t, d.Detect("¿Dónde estabas esa noche?"))
	require.Nil(t, d.Detect(""))
	require.Nil(t, d.Detect("nadie comentó nada interesante"))
}

// Question openers are not speakers even though they carry a capital letter.
func TestDetectIgnoresInterrogativePronouns(t *testing.T) {
	d := testDetector()

	require.Nil(t, d.Detect("¿Quién dijo que había sangre en el camarín?"))
	require.Nil(t, d.Detect("¿Alguien comentó algo sobre la función?"))
}

func TestDetectTruncatesContent(t *testing.T) {
	d := testDetector()

	long := strings.Repeat("x", 500)
	q := d.Detect("Jack dijo que " + long)
	require.NotNil(t, q)
	require.LessOrEqual(t, len([]rune(q.Content)), 241)
	require.True(t, strings.HasSuffix(q.Content, "…"))
}

func TestDetectUnknownSpeakerKeepsRawName(t *testing.T) {
	d := testDetector()

	q := d.Detect("Romualdo dijo que el vagón estaba abierto")
	require.NotNil(t, q)
	require.Equal(t, "Romualdo", q.Source)
}
