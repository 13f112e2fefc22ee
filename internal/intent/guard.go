package intent

import (
	"regexp"

	"github.com/ovalles/medianoche/internal/textnorm"
)

// RefocusLine is spoken verbatim whenever the guard trips.
const RefocusLine = "Concentrémonos en el caso. Esta conversación es sobre la muerte en el circo y lo ocurrido esa noche. " +
	"Si tienes una pregunta específica sobre coartadas, pruebas o testimonios, dila con claridad."

// Guard decides whether a question belongs to the case's domain at all.
// Questions that classify into a concrete intent are always on-topic; beyond
// that, a vocabulary of case-domain hints keeps borderline questions in play
// and only a blacklist of clearly unrelated topics pushes a question out.
// Short neutral questions get the benefit of the doubt.
type Guard struct {
	classifier *Classifier
	hints      *regexp.Regexp
	blacklist  *regexp.Regexp
}

// NewGuard builds the guard on top of the given classifier.
func NewGuard(classifier *Classifier) *Guard {
	return &Guard{
		classifier: classifier,
		hints: keywords(
			"victima", "muerte", "muerto", "murio", "asesino", "asesinato", "caso",
			"circo", "funcion", "espectaculo", "artista", "artistas",
			"sospechoso", "sospechosos", "culpable", "testigo", "testigos",
			"testimonio", "coartada", "prueba", "pruebas", "pista", "pistas",
			"quien", "que", "como", "cuando", "donde", "por que"),
		blacklist: keywords(
			"clima", "lluvia", "temperatura",
			"comida", "receta", "restaurante",
			"futbol", "deporte", "deportes", "partido",
			"politica", "elecciones", "gobierno",
			"instagram", "tiktok", "twitter", "redes sociales",
			"bolsa", "acciones", "criptomonedas", "inversiones",
			"vacaciones", "viaje", "viajes", "turismo",
			"pelicula", "peliculas", "serie", "series", "cancion",
			"chiste", "chistes"),
	}
}

// IsOfftopic reports whether question falls outside the case's domain.
func (g *Guard) IsOfftopic(question string) bool {
	if g.classifier.Classify(question) != General {
		return false
	}
	q := textnorm.Normalize(question)
	if g.hints.MatchString(q) {
		return false
	}
	return g.blacklist.MatchString(q)
}
