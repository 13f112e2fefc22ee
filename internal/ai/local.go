package ai

import (
	"context"
	"regexp"
	"strings"
)

// LocalGenerator is the offline backend: instead of calling a model it
// echoes the prompt's own metadata block and base content as the spoken
// line. Deterministic, free, and good enough for play without an API key.
type LocalGenerator struct{}

func NewLocalGenerator() *LocalGenerator {
	return &LocalGenerator{}
}

var (
	localMetaRe    = regexp.MustCompile(`<META>.*</META>`)
	localContentRe = regexp.MustCompile(`Contenido base: (.+)`)
)

// Generate extracts the format example and the base content from the
// rendered prompt and plays them back as a well-formed completion.
func (g *LocalGenerator) Generate(_ context.Context, prompt string) (string, error) {
	meta := localMetaRe.FindString(prompt)
	spoken := ""
	if m := localContentRe.FindStringSubmatch(prompt); m != nil {
		spoken = strings.TrimSpace(m[1])
	}
	return meta + "\n" + spoken, nil
}
