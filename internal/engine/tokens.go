package engine

import (
	"fmt"
	"maps"
)

// Tokens are the player choices carried forward through a playthrough.
// The first value written for a key wins.
type Tokens struct {
	m map[string]string
}

func NewTokens() *Tokens {
	return &Tokens{m: make(map[string]string)}
}

func (t *Tokens) Get(key string) (string, bool) {
	v, ok := t.m[key]
	return v, ok
}

// Add records key. Writing the stored value again is a no-op; writing a
// different value fails with ErrTokenConflict and keeps the original.
func (t *Tokens) Add(key, value string) error {
	if old, ok := t.m[key]; ok {
		if old == value {
			return nil
		}
		return fmt.Errorf("token %q is %q, not %q: %w", key, old, value, ErrTokenConflict)
	}
	t.m[key] = value
	return nil
}

// Reset replaces every token with tokens.
func (t *Tokens) Reset(tokens map[string]string) {
	t.m = maps.Clone(tokens)
	if t.m == nil {
		t.m = make(map[string]string)
	}
}

func (t *Tokens) Len() int { return len(t.m) }

// Map returns a copy of the tokens.
func (t *Tokens) Map() map[string]string { return maps.Clone(t.m) }
