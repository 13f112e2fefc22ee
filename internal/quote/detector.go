// Package quote parses player input for reported third-party speech
// ("Silvana acusó a Jack de mentir") into a structured statement event that
// the orchestrator feeds back into relationships and memory.
package quote

import (
	"regexp"
	"strings"

	"github.com/ovalles/medianoche/internal/names"
	"github.com/ovalles/medianoche/internal/textnorm"
)

// maxContent caps the reported content carried on a quote.
const maxContent = 240

// Quote is the structured record of one reported statement. About may be
// empty when the target could not be identified. IsAccusation and IsSupport
// are not mutually exclusive in principle, though real sentences almost
// always set at most one.
type Quote struct {
	Source       string
	About        string
	Content      string
	IsAccusation bool
	IsSupport    bool
}

// Patterns work on the raw, case-aware text: the leading capital letter is
// what anchors a name capture. Alternations cover the accented and
// unaccented verb spellings players actually type.
const (
	namePat    = `([A-ZÁÉÍÓÚÑ][\wáéíóúñÁÉÍÓÚÑ ]*?)`
	sayPat     = `(?:dijo|dice|coment[oó]|mencion[oó]|asegur[oó]|afirm[oó]|cont[oó]|declar[oó]|sostuvo|señal[oó]|explic[oó]|apunt[oó]|indic[oó])`
	accusePat  = `(?:acus[oó]|acusa|acusaba)`
	supportPat = `(?:defiende|defendi[oó]|apoya|apoy[oó]|respalda|respald[oó]|avala|aval[oó])`
	introPat   = `(?:[Ss]eg[uú]n|[Dd]e acuerdo con|[Aa] decir de|[Tt]al (?:y )?como dijo)`
)

var (
	accuseRe  = regexp.MustCompile(`\b` + namePat + `\s+` + accusePat + `\s+a\s+` + namePat + `(?:\s+de\s+(.*))?$`)
	supportRe = regexp.MustCompile(`\b` + namePat + `\s+` + supportPat + `\s+a\s+` + namePat + `\b(.*)$`)
	introRe   = regexp.MustCompile(introPat + `\s+` + namePat + `[\s,]+(.*)$`)
	sayThatRe = regexp.MustCompile(`\b` + namePat + `\s+` + sayPat + `\s+que\s+(.*)$`)
	sayRe     = regexp.MustCompile(`\b` + namePat + `\s+` + sayPat + `\b(.*)$`)

	accuseHintRe  = regexp.MustCompile(`\b(?:acuso|acusa|acusaba|acusacion)`)
	supportHintRe = regexp.MustCompile(`\b(?:defiende|defendio|apoya|apoyo|respalda|avala)`)
)

// notNames are capitalized words the name patterns can capture that are
// never speakers: question openers and pronouns. "¿Quién dijo que...?" is a
// question, not reported speech.
var notNames = map[string]struct{}{
	"quien": {}, "quienes": {}, "que": {}, "donde": {}, "cuando": {},
	"como": {}, "cual": {}, "cuales": {}, "por": {}, "acaso": {},
	"alguien": {}, "nadie": {}, "todos": {}, "todo": {}, "alguno": {},
	"alguna": {}, "usted": {}, "ustedes": {}, "el": {}, "ella": {},
	"ellos": {}, "ellas": {}, "tu": {}, "yo": {}, "me": {}, "se": {},
}

func plausibleName(raw string) bool {
	norm := textnorm.Normalize(raw)
	if norm == "" {
		return false
	}
	_, stop := notNames[norm]
	return !stop
}

// Detector runs the ordered pattern battery against player input.
type Detector struct {
	resolver *names.Resolver
}

// NewDetector builds a detector over the given roster resolver.
func NewDetector(resolver *names.Resolver) *Detector {
	return &Detector{resolver: resolver}
}

// Detect parses text for a reported statement. The patterns are tried in
// fixed order, first match wins. Nil means "no quote referenced", which is a
// normal outcome, not an error.
func (d *Detector) Detect(text string) *Quote {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if m := accuseRe.FindStringSubmatch(text); m != nil && plausibleName(m[1]) {
		source := d.resolveOrRaw(m[1])
		about, _ := d.resolver.Canonicalize(m[2])
		content := strings.TrimSpace(m[3])
		if content == "" {
			content = "algo serio"
		}
		return &Quote{
			Source:       source,
			About:        about,
			Content:      truncate(content),
			IsAccusation: true,
		}
	}

	if m := supportRe.FindStringSubmatch(text); m != nil && plausibleName(m[1]) {
		source := d.resolveOrRaw(m[1])
		about, _ := d.resolver.Canonicalize(m[2])
		content := strings.TrimSpace(m[3])
		if content == "" {
			content = source + " apoya a " + about
		}
		return &Quote{
			Source:    source,
			About:     about,
			Content:   truncate(content),
			IsSupport: true,
		}
	}

	if m := introRe.FindStringSubmatch(text); m != nil && plausibleName(m[1]) {
		source := d.resolveOrRaw(m[1])
		tail := strings.TrimSpace(m[2])
		content := tail
		if content == "" {
			content = "lo indicó de esa manera"
		}
		return &Quote{
			Source:       source,
			About:        d.aboutName(text, source),
			Content:      truncate(content),
			IsAccusation: hintsAccusation(tail),
			IsSupport:    hintsSupport(tail),
		}
	}

	if m := sayThatRe.FindStringSubmatch(text); m != nil && plausibleName(m[1]) {
		source := d.resolveOrRaw(m[1])
		content := strings.TrimSpace(m[2])
		if content == "" {
			content = "lo mencionó en términos generales"
		}
		return &Quote{
			Source:       source,
			About:        d.aboutName(text, source),
			Content:      truncate(content),
			IsAccusation: hintsAccusation(content),
			IsSupport:    hintsSupport(content),
		}
	}

	if m := sayRe.FindStringSubmatch(text); m != nil && plausibleName(m[1]) {
		source := d.resolveOrRaw(m[1])
		tail := strings.TrimSpace(m[2])
		content := tail
		if content == "" {
			content = "hizo un comentario"
		}
		return &Quote{
			Source:       source,
			About:        d.aboutName(text, source),
			Content:      truncate(content),
			IsAccusation: hintsAccusation(tail),
			IsSupport:    hintsSupport(tail),
		}
	}

	// Loose fallback: a known name co-occurring with an accusation or support
	// verb anywhere in the sentence.
	if mentions := d.resolver.FindAll(text); len(mentions) > 0 {
		norm := textnorm.Normalize(text)
		isAccusation := hintsAccusation(norm)
		isSupport := hintsSupport(norm)
		if isAccusation || isSupport {
			source := mentions[0]
			return &Quote{
				Source:       source,
				About:        d.aboutName(text, source),
				Content:      "lo señaló en esa línea",
				IsAccusation: isAccusation,
				IsSupport:    isSupport,
			}
		}
	}

	return nil
}

// resolveOrRaw canonicalizes a captured name, keeping the raw capture when
// the roster does not know it (the player may quote a bystander).
func (d *Detector) resolveOrRaw(raw string) string {
	if canonical, ok := d.resolver.Canonicalize(raw); ok {
		return canonical
	}
	return strings.TrimSpace(raw)
}

// aboutName finds who the statement is about: any known name in the text
// other than the speaker, preferring directed constructions ("a <name>",
// "sobre <name>") over bare mentions.
func (d *Detector) aboutName(text, exclude string) string {
	norm := textnorm.Normalize(text)
	mentions := d.resolver.Mentions(text)

	var bare string
	for _, m := range mentions {
		if m.Canonical == exclude {
			continue
		}
		prefix := norm[:m.Pos]
		if strings.HasSuffix(prefix, " a ") || strings.HasSuffix(prefix, " sobre ") {
			return m.Canonical
		}
		if bare == "" {
			bare = m.Canonical
		}
	}
	return bare
}

func hintsAccusation(s string) bool {
	return accuseHintRe.MatchString(textnorm.Normalize(s))
}

func hintsSupport(s string) bool {
	return supportHintRe.MatchString(textnorm.Normalize(s))
}

func truncate(s string) string {
	if len([]rune(s)) <= maxContent {
		return s
	}
	return string([]rune(s)[:maxContent]) + "…"
}
