package casefile

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ovalles/medianoche/internal/errors"
	"github.com/ovalles/medianoche/internal/intent"
)

//go:embed circo_medianoche.yaml
var defaultCase []byte

// Load reads and validates the case file at path.
func Load(path string) (*Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("casefile: open %q: %w", path, err)
	}
	defer f.Close()

	c, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("casefile: parse %q: %w", path, err)
	}
	return c, nil
}

// LoadFromReader decodes a YAML case from r and validates the result.
// Unknown fields are rejected so typos in hand-written case files surface
// immediately instead of silently dropping data.
func LoadFromReader(r io.Reader) (*Case, error) {
	c := &Case{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("casefile: decode yaml: %w", err)
	}
	applyDefaults(c)
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// applyDefaults fills the conventional values case authors rarely spell out.
// A zero truthfulness means "unset", not "compulsive liar".
func applyDefaults(c *Case) {
	for i := range c.Suspects {
		if c.Suspects[i].Truthfulness == 0 {
			c.Suspects[i].Truthfulness = 0.85
		}
	}
}

// Default returns the embedded case that ships with the game.
func Default() (*Case, error) {
	return LoadFromReader(bytes.NewReader(defaultCase))
}

// Validate checks that c is a playable case. It returns a joined error
// listing every problem found, so an author fixes a broken file in one pass.
func Validate(c *Case) error {
	var errs []error

	if c.Victim.Name == "" {
		errs = append(errs, fmt.Errorf("victim.name is required"))
	}
	if len(c.Suspects) < 2 {
		errs = append(errs, fmt.Errorf("at least 2 suspects are required, got %d", len(c.Suspects)))
	}

	seen := make(map[string]struct{}, len(c.Suspects))
	for i, s := range c.Suspects {
		prefix := fmt.Sprintf("suspects[%d]", i)
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", prefix))
			continue
		}
		if _, dup := seen[s.Name]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate name %q", prefix, s.Name))
		}
		seen[s.Name] = struct{}{}
		if s.Name == c.Victim.Name {
			errs = append(errs, fmt.Errorf("%s: %q is the victim and cannot be a suspect", prefix, s.Name))
		}
		if s.Truthfulness < 0 || s.Truthfulness > 1 {
			errs = append(errs, fmt.Errorf("%s: truthfulness %v outside [0, 1]", prefix, s.Truthfulness))
		}
		if s.Hostility < -1 || s.Hostility > 1 {
			errs = append(errs, fmt.Errorf("%s: hostility %v outside [-1, 1]", prefix, s.Hostility))
		}
		for other, v := range s.Relations {
			if v < -1 || v > 1 {
				errs = append(errs, fmt.Errorf("%s: relation to %q is %v, outside [-1, 1]", prefix, other, v))
			}
		}
		for label := range s.Knowledge {
			if !knownIntentLabel(label) {
				errs = append(errs, fmt.Errorf("%s: unknown knowledge topic %q", prefix, label))
			}
		}
	}

	// Relation targets must be suspects; a dangling name is a typo.
	for i, s := range c.Suspects {
		for other := range s.Relations {
			if _, ok := seen[other]; !ok {
				errs = append(errs, fmt.Errorf("suspects[%d]: relation target %q is not a suspect", i, other))
			}
		}
	}

	// The evidence seeder samples 3 real and 2 ambiguous items.
	if len(c.Evidence.Real) < 3 {
		errs = append(errs, fmt.Errorf("evidence.real needs at least 3 items, got %d", len(c.Evidence.Real)))
	}
	if len(c.Evidence.Ambiguous) < 2 {
		errs = append(errs, fmt.Errorf("evidence.ambiguous needs at least 2 items, got %d", len(c.Evidence.Ambiguous)))
	}

	if len(errs) > 0 {
		return fmt.Errorf("casefile: invalid case: %w", errors.Join(errs...))
	}
	return nil
}

func knownIntentLabel(label string) bool {
	for _, in := range intent.All {
		if string(in) == label {
			return true
		}
	}
	return false
}
