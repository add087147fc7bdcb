// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ner adapts named-entity recognizers to the shape the statement
// extractor needs: text in, entity spans grouped by label out.
package ner

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// Recognizer extracts entity spans from text, grouped by label.
type Recognizer interface {
	Recognize(text string) (map[string][]string, error)
}

// Func adapts a plain function to Recognizer.
type Func func(text string) (map[string][]string, error)

// Recognize calls f.
func (f Func) Recognize(text string) (map[string][]string, error) { return f(text) }

// Noop recognizes nothing.
type Noop struct{}

// Recognize returns an empty grouping.
func (Noop) Recognize(string) (map[string][]string, error) {
	return map[string][]string{}, nil
}

// Prose recognizes entities with the prose averaged-perceptron model.
// Sentence segmentation is disabled since evidence texts are short.
type Prose struct{}

// Recognize runs prose over text. Spans keep document order; a span seen
// twice under one label is listed twice, as the model reports it.
func (Prose) Recognize(text string) (map[string][]string, error) {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("running prose: %w", err)
	}
	out := make(map[string][]string)
	for _, ent := range doc.Entities() {
		out[ent.Label] = append(out[ent.Label], ent.Text)
	}
	return out, nil
}

// New returns the recognizer registered under name: "prose" or "none".
func New(name string) (Recognizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "prose":
		return Prose{}, nil
	case "none", "noop":
		return Noop{}, nil
	}
	return nil, fmt.Errorf("unknown recognizer %q", name)
}
