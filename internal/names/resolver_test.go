package names_test

import (
	"github.com/ovalles/medianoche/internal/names"
	"github.com/stretchr/testify/require"
	"testing"
)

func testResolver() *names.Resolver {
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
	return names.NewResolver(roster, aliases)
}

func TestCanonicalize(t *testing.T) {
	r := testResolver()

	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{name: "exact", input: "Jack Domador", want: "Jack Domador", found: true},
		{name: "declared alias", input: "Bombita", want: "Mefisto", found: true},
		{name: "alias is accent-insensitive", input: "bombitá", want: "Mefisto", found: true},
		{name: "single token", input: "jack", want: "Jack Domador", found: true},
		{name: "normalized full name", input: "  SILVANA   funámbula ", want: "Silvana Funambula", found: true},
		{name: "token overlap with noise", input: "el tal Domador ese", want: "Jack Domador", found: true},
		{name: "fuzzy typo", input: "madame serafine", want: "Madame Seraphine", found: true},
		{name: "unknown", input: "zzz-unknown", want: "", found: false},
		{name: "empty", input: "   ", want: "", found: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Canonicalize(tt.input)
			require.Equal(t, tt.found, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

// Ties in token overlap must resolve to the earliest roster entry so that
// resolution is reproducible for a fixed roster.
func TestCanonicalizeDeterministicTieBreak(t *testing.T) {
	roster := []string{"Ana Flores", "Berta Flores"}
	r := names.NewResolver(roster, nil)

	got, ok := r.Canonicalize("la señora Flores")
	require.True(t, ok)
	require.Equal(t, "Ana Flores", got)
}

func TestFindAll(t *testing.T) {
	r := testResolver()

	require.Equal(t,
		[]string{"Silvana Funambula", "Jack Domador"},
		r.FindAll("Silvana acusó a Jack de mentir"))
	require.Equal(t,
		[]string{"Madame Seraphine"},
		r.FindAll("según madame seraphine todo fue un truco"))
	require.Empty(t, r.FindAll("nadie dijo nada"))
}
