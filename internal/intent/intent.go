// Package intent classifies player questions into the discrete narrative
// categories the dialogue engine reasons about, and guards against questions
// that wander outside the murder case.
package intent

// Intent is the category of information a question is seeking. The labels are
// the Spanish machine-readable tags that also appear in the generation
// service's metadata contract.
type Intent string

const (
	Alibi         Intent = "COARTADA"
	Evidence      Intent = "PRUEBAS"
	Object        Intent = "OBJETO"
	Place         Intent = "LUGAR"
	Motive        Intent = "MOVIL"
	Relationships Intent = "RELACIONES"
	Rumor         Intent = "RUMOR"
	General       Intent = "GENERAL"
)

// All lists every intent in classifier priority order, General last.
var All = []Intent{Alibi, Evidence, Object, Place, Motive, Relationships, Rumor, General}

// ClueBearing reports whether a truthful payload for this intent is eligible
// to be registered as discoverable evidence.
func ClueBearing(i Intent) bool {
	switch i {
	case Evidence, Object, Place, Rumor:
		return true
	default:
		return false
	}
}

// Parse maps a raw tag (e.g. from generation-service metadata) back to a known
// intent, defaulting to General for anything unrecognized.
func Parse(raw string) Intent {
	for _, i := range All {
		if string(i) == raw {
			return i
		}
	}
	return General
}
