// Package kb holds the medical knowledge base: an immutable store of typed
// relational facts about conditions, symptoms and treatments, and two
// interchangeable query backends over it.
package kb

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed data/medical.kb
var embeddedKB string

// Backend kinds selectable at construction time
const (
	KindPattern  = "pattern"
	KindFallback = "fallback"
)

// New constructs the query backend once, at startup. kind selects the
// implementation; path optionally points at an external fact listing
// (empty means the embedded one). A pattern backend that cannot be built
// degrades to the fallback backend: the failure is logged, never returned,
// so callers always receive a working backend.
func New(kind, path string, verbose bool) Backend {
	if kind == KindFallback {
		return NewFallbackBackend()
	}

	text := embeddedKB
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "kb: read %s: %v; using fallback backend\n", path, err)
			return NewFallbackBackend()
		}
		text = string(data)
	}

	store, err := Load(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kb: %v; using fallback backend\n", err)
		return NewFallbackBackend()
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "kb: loaded %d facts\n", store.Len())
		if unknown := store.UnknownConditions(); len(unknown) > 0 {
			fmt.Fprintf(os.Stderr, "kb: %d undeclared condition tokens referenced: %v\n", len(unknown), unknown)
		}
	}

	return NewFactBackend(store)
}

// Load parses a fact listing into an immutable store
func Load(text string) (*Store, error) {
	facts, err := Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse fact listing: %w", err)
	}
	if len(facts) == 0 {
		return nil, fmt.Errorf("fact listing is empty")
	}
	return NewStore(facts), nil
}
