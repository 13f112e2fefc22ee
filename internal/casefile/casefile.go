// Package casefile holds the static description of a murder case: victim,
// suspect roster, per-suspect knowledge, and the evidence pools the game
// draws from. A loaded Case is immutable; all mutable progress lives in the
// game state.
package casefile

import (
	"log/slog"

	"github.com/ovalles/medianoche/internal/intent"
)

// Case is a fully parsed and validated case description.
type Case struct {
	Title    string      `yaml:"title"`
	Location string      `yaml:"location"`
	Summary  string      `yaml:"summary"`
	Victim   Victim      `yaml:"victim"`
	Suspects []Character `yaml:"suspects"`
	Evidence Evidence    `yaml:"evidence"`
}

// Victim is the person the case revolves around. Victims never get
// interrogated, so they carry no knowledge or relations.
type Victim struct {
	Name        string `yaml:"name"`
	Role        string `yaml:"role"`
	Personality string `yaml:"personality"`
}

// Character is one interrogatable suspect. Knowledge maps intent labels
// (COARTADA, PRUEBAS, ...) to the facts this character can reveal when
// answering truthfully on that topic. Relations holds this character's view
// of the others in [-1, 1].
type Character struct {
	Name         string              `yaml:"name"`
	Role         string              `yaml:"role"`
	Personality  string              `yaml:"personality"`
	Aliases      []string            `yaml:"aliases"`
	Truthfulness float64             `yaml:"truthfulness"`
	Hostility    float64             `yaml:"hostility"`
	Relations    map[string]float64  `yaml:"relations"`
	Knowledge    map[string][]string `yaml:"knowledge"`
}

// Evidence holds the two pools the evidence seeder samples from. Real items
// point at the killer's trail; ambiguous items muddy the water.
type Evidence struct {
	Real      []string `yaml:"real"`
	Ambiguous []string `yaml:"ambiguous"`
}

// Roster returns the suspect names in declaration order.
func (c *Case) Roster() []string {
	names := make([]string, len(c.Suspects))
	for i, s := range c.Suspects {
		names[i] = s.Name
	}
	return names
}

// AliasMap returns the declared aliases per canonical suspect name.
func (c *Case) AliasMap() map[string][]string {
	aliases := make(map[string][]string, len(c.Suspects))
	for _, s := range c.Suspects {
		if len(s.Aliases) > 0 {
			aliases[s.Name] = s.Aliases
		}
	}
	return aliases
}

// Suspect returns the character record for a canonical name.
func (c *Case) Suspect(name string) (Character, bool) {
	for _, s := range c.Suspects {
		if s.Name == name {
			return s, true
		}
	}
	return Character{}, false
}

// Facts returns the character's knowledge bucket for an intent, nil when the
// character knows nothing on that topic.
func (ch *Character) Facts(in intent.Intent) []string {
	return ch.Knowledge[string(in)]
}

// LogValue keeps case logging compact: suspects by count, not by content.
func (c *Case) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("title", c.Title),
		slog.String("victim", c.Victim.Name),
		slog.Int("suspects", len(c.Suspects)),
	)
}
