// Package prompt renders one interrogation turn into the instruction
// document sent to the generation service. Rendering is pure: every
// decision (intent, policy, payload) is made upstream, assembly only
// serializes it.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ovalles/medianoche/internal/casefile"
	"github.com/ovalles/medianoche/internal/errors"
	"github.com/ovalles/medianoche/internal/game"
	"github.com/ovalles/medianoche/internal/intent"
	"github.com/ovalles/medianoche/internal/policy"
	"github.com/ovalles/medianoche/internal/quote"
)

// Input is everything one turn needs rendered.
type Input struct {
	Character casefile.Character
	Question  string
	Intent    intent.Intent
	Decision  policy.Decision
	Payload   policy.Payload
	State     *game.State
	Quoted    *quote.Quote
}

// requiredSections is the document schema. Validate enforces it before the
// prompt leaves the process; a missing section means an assembly bug, not a
// generation-service problem.
var requiredSections = []string{
	"[SYSTEM]",
	"[CHARACTER SHEET]",
	"[CONTEXT]",
	"[QUESTION]",
	"[INTENT]",
	"[POLICY]",
	"[STYLE]",
	"[OUTPUT FORMAT]",
}

// ErrMalformedPrompt reports a rendered prompt that violates the section
// schema.
var ErrMalformedPrompt = errors.NewSentinel("prompt: missing required section")

const systemDirective = `Eres un personaje dentro de un caso de misterio en un circo. ` +
	`Responde SIEMPRE en español, en primera persona y sin narrador. ` +
	`No inventes hechos fuera del contexto conocido. ` +
	`Tu salida tiene exactamente dos segmentos: un bloque de metadatos y una única línea hablada.`

// Build renders the turn. The output always passes Validate.
func Build(in Input) string {
	var b strings.Builder

	section(&b, "[SYSTEM]", systemDirective)
	section(&b, "[CHARACTER SHEET]", characterSheet(in.Character))
	section(&b, "[CONTEXT]", context(in.State))

	if hints := relationHints(in); hints != "" {
		section(&b, "[RELATIONS]", hints)
	}
	if mem := memorySummary(in); mem != "" {
		section(&b, "[MEMORY]", mem)
	}
	if in.Quoted != nil {
		section(&b, "[QUOTED]", quotedContext(in.Quoted))
	}

	section(&b, "[QUESTION]", in.Question)
	section(&b, "[INTENT]", string(in.Intent))
	section(&b, "[POLICY]", policyDirective(in.Decision, in.Payload))
	section(&b, "[STYLE]", styleDirective(in.Decision))
	section(&b, "[OUTPUT FORMAT]", outputFormat(in))

	return b.String()
}

// Validate checks the rendered prompt against the section schema.
func Validate(prompt string) error {
	for _, s := range requiredSections {
		if !strings.Contains(prompt, s) {
			return fmt.Errorf("%w: %s", ErrMalformedPrompt, s)
		}
	}
	return nil
}

func section(b *strings.Builder, header, body string) {
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n\n")
}

func characterSheet(ch casefile.Character) string {
	return fmt.Sprintf("Nombre: %s\nRol: %s\nRasgos: %s", ch.Name, ch.Role, ch.Personality)
}

func context(s *game.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fase: %s\n", s.Phase)
	fmt.Fprintf(&b, "Víctima: %s\n", s.Victim)

	items := s.Evidence()
	if len(items) == 0 {
		b.WriteString("Evidencias reveladas: ninguna todavía")
		return b.String()
	}
	// Recent evidence only; old clues stop steering the conversation.
	if len(items) > 3 {
		items = items[len(items)-3:]
	}
	descs := make([]string, len(items))
	for i, it := range items {
		descs[i] = it.Description
	}
	b.WriteString("Evidencias reveladas: " + strings.Join(descs, " | "))
	return b.String()
}

// relationHints describes how the character feels about anyone named in the
// quoted statement, so the tone of the answer can follow the relationship.
func relationHints(in Input) string {
	if in.Quoted == nil {
		return ""
	}
	var hints []string
	for _, other := range []string{in.Quoted.Source, in.Quoted.About} {
		if other == "" || other == in.Character.Name {
			continue
		}
		v := in.State.Relation(in.Character.Name, other)
		hints = append(hints, fmt.Sprintf("Hacia %s: %s (%.1f)", other, relationWord(v), v))
	}
	return strings.Join(hints, "\n")
}

func relationWord(v float64) string {
	switch {
	case v <= -0.5:
		return "hostilidad abierta"
	case v < 0:
		return "desconfianza"
	case v == 0:
		return "indiferencia"
	case v < 0.5:
		return "simpatía"
	default:
		return "lealtad"
	}
}

func memorySummary(in Input) string {
	mem := in.State.MemoryOf(in.Character.Name)
	var parts []string
	if n := len(mem.AccusedBy); n > 0 {
		parts = append(parts, fmt.Sprintf("Te han acusado: %s.", joinSorted(mem.AccusedBy)))
	}
	if n := len(mem.SupportedBy); n > 0 {
		parts = append(parts, fmt.Sprintf("Te han defendido: %s.", joinSorted(mem.SupportedBy)))
	}
	if mem.EvasionCount > 0 {
		parts = append(parts, fmt.Sprintf("Has dado %d respuestas evasivas en este interrogatorio.", mem.EvasionCount))
	}
	return strings.Join(parts, "\n")
}

func joinSorted(set map[string]struct{}) string {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func quotedContext(q *quote.Quote) string {
	kind := "cita"
	if q.IsAccusation {
		kind = "acusación"
	} else if q.IsSupport {
		kind = "apoyo"
	}
	about := q.About
	if about == "" {
		about = "alguien sin identificar"
	}
	return fmt.Sprintf("El detective reporta una %s: %s sobre %s → %q", kind, q.Source, about, q.Content)
}

func policyDirective(d policy.Decision, p policy.Payload) string {
	var rule string
	switch d {
	case policy.Truth:
		rule = "VERDAD: afirma el contenido base como hecho propio, sin rodeos."
	case policy.Hedge:
		rule = "DUDA: presenta el contenido base como algo incierto, sin confirmarlo ni negarlo."
	default:
		rule = "MENTIRA: niega o desvía de forma creíble; no confirmes el contenido base como cierto."
	}
	out := rule + "\nContenido base: " + p.Text
	if p.SaidBefore {
		out += "\nYa contaste esto antes; reconócelo con naturalidad."
	}
	return out
}

func styleDirective(d policy.Decision) string {
	if d == policy.Truth {
		return "Directo y concreto, 1 a 3 oraciones, en la voz del personaje."
	}
	return "Evasivo pero natural, 1 a 3 oraciones, en la voz del personaje."
}

func outputFormat(in Input) string {
	meta := fmt.Sprintf(
		`<META>{"intent":%q,"truthful":%t,"payload":%q,"evasive":%t,"said_before":%t}</META>`,
		in.Intent, in.Decision == policy.Truth, in.Payload.Text, in.Payload.Evasive, in.Payload.SaidBefore,
	)
	return "Primera línea, exactamente este bloque:\n" + meta +
		"\nSegunda línea: la única línea hablada del personaje, sin comillas ni etiquetas."
}
