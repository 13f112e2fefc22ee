package random

import (
	"crypto/rand"
	"hash/fnv"
	"math/big"
	mathrand "math/rand"
)

var allowedLetters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

// Letters returns n cryptographically random ASCII letters. Used for unique
// identifiers such as in-memory database names.
func Letters(n uint) (string, error) {
	letters := make([]rune, n)
	for i := range letters {
		letterIndex, err := rand.Int(rand.Reader, big.NewInt(int64(len(allowedLetters))))
		if err != nil {
			return "", err
		}
		letters[i] = allowedLetters[letterIndex.Int64()]
	}
	return string(letters), nil
}

// Source derives independent deterministic pseudo-random streams from a single
// root seed. Every stochastic component of a game session (killer selection,
// evidence shuffling, policy draws, payload coin flips, ending flavor) pulls
// from its own named stream so that a fixed seed replays a session exactly,
// no matter how often the other components consume randomness.
type Source struct {
	seed int64
}

// NewSource creates a Source from the root seed.
func NewSource(seed int64) *Source {
	return &Source{seed: seed}
}

// Stream returns the deterministic sub-stream for the given name. Calling
// Stream twice with the same name returns two generators with identical
// output sequences.
func (s *Source) Stream(name string) *mathrand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	derived := int64(h.Sum64()) ^ s.seed
	return mathrand.New(mathrand.NewSource(derived))
}
