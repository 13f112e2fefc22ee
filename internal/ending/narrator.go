// Package ending composes the final resolution text once the detective
// points a finger. Three outcomes: the killer was caught, an innocent was
// accused, or the accusation named nobody in the roster. The failures always
// reveal the real killer.
package ending

import (
	"fmt"
	mrand "math/rand"
	"strings"

	"github.com/ovalles/medianoche/internal/game"
)

// Outcome classifies the accusation.
type Outcome int

const (
	KillerCaught Outcome = iota
	WrongSuspect
	InvalidAccusation
)

func (o Outcome) String() string {
	switch o {
	case KillerCaught:
		return "killer_caught"
	case WrongSuspect:
		return "wrong_suspect"
	case InvalidAccusation:
		return "invalid_accusation"
	}
	return "unknown"
}

var (
	successOpeners = []string{
		"El telón cayó y la verdad salió a la luz.",
		"Nadie pudo negar lo evidente.",
		"La carpa entera contuvo el aliento cuando el culpable confesó.",
	}
	wrongOpeners = []string{
		"El silencio se apoderó del lugar.",
		"La tensión se deshizo en incredulidad.",
		"Por un momento, todos pensaron que el caso estaba cerrado.",
	}
	invalidOpeners = []string{
		"El señalamiento fue confuso, como un truco mal ensayado.",
		"La carpa se llenó de murmullos, sin respuestas.",
	}
)

// Narrator renders endings from a dedicated random stream so the flavor
// opener is reproducible per seed.
type Narrator struct {
	rnd *mrand.Rand
}

// NewNarrator builds a narrator over the given random stream.
func NewNarrator(rnd *mrand.Rand) *Narrator {
	return &Narrator{rnd: rnd}
}

// Resolve classifies the accusation and composes the closing narration.
// accused must already be canonicalized; anything not in the roster counts
// as an invalid accusation.
func (n *Narrator) Resolve(s *game.State, accused string) (Outcome, string) {
	killer := s.Killer()
	evidence, plural := evidencePhrase(s.Evidence())
	verb := func(singular, pluralForm string) string {
		if plural {
			return pluralForm
		}
		return singular
	}

	if accused == killer {
		return KillerCaught, fmt.Sprintf(
			"%s %s no pudo sostener más su coartada. %s te %s hasta el culpable. El circo volvió a respirar.",
			n.pick(successOpeners), killer, capitalize(evidence), verb("condujo", "condujeron"),
		)
	}

	if _, ok := s.Case.Suspect(accused); ok {
		return WrongSuspect, fmt.Sprintf(
			"%s Pero las piezas no encajaban: %s %s a otro lado. El asesino real era %s, que desapareció entre bastidores.",
			n.pick(wrongOpeners), evidence, verb("apuntaba", "apuntaban"), killer,
		)
	}

	return InvalidAccusation, fmt.Sprintf(
		"%s Nadie creyó esa versión y %s %s sin interpretar. El asesino real era %s, y el misterio se desvaneció con el humo del espectáculo.",
		n.pick(invalidOpeners), evidence, verb("quedó", "quedaron"), killer,
	)
}

// evidencePhrase references up to the first three distinct evidence items.
func evidencePhrase(items []game.EvidenceItem) (phrase string, plural bool) {
	if len(items) > 3 {
		items = items[:3]
	}
	switch len(items) {
	case 0:
		return "las sospechas sin pruebas claras", true
	case 1:
		return fmt.Sprintf("la pista clave '%s'", items[0].Description), false
	case 2:
		return fmt.Sprintf("las pistas '%s' y '%s'", items[0].Description, items[1].Description), true
	default:
		return fmt.Sprintf("las señales '%s', '%s' y '%s'",
			items[0].Description, items[1].Description, items[2].Description), true
	}
}

func (n *Narrator) pick(openers []string) string {
	return openers[n.rnd.Intn(len(openers))]
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
