package intent_test

import (
	"github.com/ovalles/medianoche/internal/intent"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestClassify(t *testing.T) {
	c := intent.NewClassifier()

	tests := []struct {
		name     string
		question string
		want     intent.Intent
	}{
		{name: "alibi basic", question: "¿Dónde estabas cuando ocurrió?", want: intent.Alibi},
		{name: "alibi by hour", question: "¿A qué hora saliste del camerino?", want: intent.Alibi},
		{name: "alibi keyword", question: "Cuéntame tu coartada", want: intent.Alibi},
		{name: "evidence", question: "¿Viste alguna huella o rastro de sangre?", want: intent.Evidence},
		{name: "object", question: "¿De quién era el pañuelo?", want: intent.Object},
		{name: "place", question: "¿Qué pasó en la carpa principal?", want: intent.Place},
		{name: "motive", question: "¿Quién tenía un motivo para matarlo?", want: intent.Motive},
		{name: "relationships", question: "¿Cómo te llevas con Silvana?", want: intent.Relationships},
		{name: "rumor", question: "Cuentan que hubo una pelea, ¿es cierto?", want: intent.Rumor},
		{name: "general", question: "¿Tienes algo más que decir?", want: intent.General},
		{name: "fallback activity is alibi", question: "¿Qué estabas haciendo esa madrugada?", want: intent.Alibi},
		{name: "fallback perception is evidence", question: "¿Escuchaste algo raro?", want: intent.Evidence},
		{name: "empty", question: "", want: intent.General},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, c.Classify(tt.question))
		})
	}
}

// Alibi phrasing must win even when keywords of later categories appear in the
// same sentence. The rule order is part of the engine's observable behavior.
func TestClassifyPriorityOrder(t *testing.T) {
	c := intent.NewClassifier()

	tests := []struct {
		question string
		want     intent.Intent
	}{
		{"¿Dónde estabas cuando encontraron las pruebas?", intent.Alibi},
		{"¿A qué hora viste la cuerda en la carpa?", intent.Alibi},
		{"¿Qué pruebas había junto al pañuelo?", intent.Evidence},
		{"¿La cuerda estaba en el camerino?", intent.Object},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, c.Classify(tt.question), "question: %s", tt.question)
	}
}

func TestClueBearing(t *testing.T) {
	require.True(t, intent.ClueBearing(intent.Evidence))
	require.True(t, intent.ClueBearing(intent.Object))
	require.True(t, intent.ClueBearing(intent.Place))
	require.True(t, intent.ClueBearing(intent.Rumor))
	require.False(t, intent.ClueBearing(intent.Alibi))
	require.False(t, intent.ClueBearing(intent.General))
}

func TestParse(t *testing.T) {
	require.Equal(t, intent.Alibi, intent.Parse("COARTADA"))
	require.Equal(t, intent.General, intent.Parse("whatever"))
}
