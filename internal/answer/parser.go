// Package answer extracts a structured meta record and a spoken line from
// the generation service's raw output. The service is untrusted: it may drop
// the metadata block, emit broken JSON, or leak template placeholders. Every
// failure path here has a deterministic repair; parsing never fails.
package answer

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/ovalles/medianoche/internal/intent"
)

// maxSpoken caps the spoken line length in runes.
const maxSpoken = 280

// Meta is the structured record accompanying every spoken line.
type Meta struct {
	Intent     intent.Intent `json:"intent"`
	Truthful   bool          `json:"truthful"`
	Payload    string        `json:"payload"`
	Evasive    bool          `json:"evasive"`
	SaidBefore bool          `json:"said_before"`
}

// DefaultMeta is the degraded record used when the output carries no usable
// metadata: general topic, untruthful, evasive, nothing claimable.
func DefaultMeta() Meta {
	return Meta{Intent: intent.General, Evasive: true}
}

var (
	metaRe = regexp.MustCompile(`(?s)<META>(.*?)</META>\s*(.*)$`)
	// bracketed fragments in the spoken line are residual template
	// placeholders, never dialogue.
	placeholderFragmentRe = regexp.MustCompile(`[\{\[][^}\]]*[\}\]]`)
	bracketRe             = regexp.MustCompile(`[<>\{\}\[\]]`)
)

// placeholderPayloads are exact payload values that mean "nothing", as
// emitted by models that echo the format example instead of filling it.
var placeholderPayloads = map[string]struct{}{
	"n/a":       {},
	"na":        {},
	"none":      {},
	"sin pista": {},
	"no aplica": {},
	"no hay":    {},
}

// intentFillers replace an empty spoken line, keyed by topic so the repair
// still sounds on-subject.
var intentFillers = map[intent.Intent]string{
	intent.Alibi:         "Estaba en mi rutina cuando ocurrió; no oí nada fuera de lo normal.",
	intent.Evidence:      "Vi algo raro cerca de los camerinos, podría ayudar.",
	intent.Motive:        "No sé quién tendría razones claras.",
	intent.Relationships: "Las cosas estaban tensas, sí.",
	intent.Place:         "Todo pasó alrededor de la carpa principal.",
	intent.Object:        "Se hablaba de una cuerda y un pañuelo.",
	intent.General:       "Puedo responder si concretas la pregunta.",
}

const defaultFiller = "Puedo responder si concretas la pregunta."

// Parse splits raw output into the spoken line and its meta record. The
// spoken line is never empty, whatever the input.
func Parse(raw string) (spoken string, meta Meta) {
	raw = strings.TrimSpace(raw)

	m := metaRe.FindStringSubmatch(raw)
	if m == nil {
		meta = DefaultMeta()
		return repairSpoken(lastNonEmptyLine(raw), meta.Intent), meta
	}

	if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &meta); err != nil {
		meta = DefaultMeta()
	}
	meta.Intent = intent.Parse(string(meta.Intent))
	meta.Payload = sanitizePayload(meta.Payload)

	return repairSpoken(m[2], meta.Intent), meta
}

// sanitizePayload blanks out payloads that are placeholders rather than
// facts: empty strings, anything carrying bracket characters, and the known
// "nothing here" phrases.
func sanitizePayload(payload string) string {
	payload = strings.TrimSpace(payload)
	if payload == "" || bracketRe.MatchString(payload) {
		return ""
	}
	low := strings.ToLower(payload)
	if _, ok := placeholderPayloads[low]; ok {
		return ""
	}
	if strings.Contains(low, "hecho/pista") || strings.Contains(low, "pista si aplica") {
		return ""
	}
	return payload
}

func repairSpoken(spoken string, in intent.Intent) string {
	spoken = strings.TrimSpace(placeholderFragmentRe.ReplaceAllString(spoken, ""))
	if spoken == "" {
		spoken = fillerFor(in)
	}
	return truncate(spoken)
}

// FillerFor is exposed for the orchestrator's generation-failure fallback.
func FillerFor(in intent.Intent) string {
	return fillerFor(in)
}

func fillerFor(in intent.Intent) string {
	if line, ok := intentFillers[in]; ok {
		return line
	}
	return defaultFiller
}

func lastNonEmptyLine(raw string) string {
	lines := strings.Split(raw, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxSpoken {
		return s
	}
	return strings.TrimRight(string(runes[:maxSpoken-2]), " ") + "…"
}
