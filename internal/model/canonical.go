package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Canonical returns the stable serialized form of v: keys sorted recursively,
// no insignificant whitespace. Two snapshots are considered unchanged iff
// their canonical forms are byte-identical; all change detection and diffing
// must compare canonical forms, never raw serialization order.
func Canonical(v any) ([]byte, error) {
	norm, err := normalize(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(norm)
}

// CanonicalIndent is Canonical pretty-printed with two-space indentation.
// Line-level diffing and JSON export both use this form so output is
// deterministic across runs.
func CanonicalIndent(v any) ([]byte, error) {
	norm, err := normalize(v)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(norm, "", "  ")
}

// Equal reports whether a and b have byte-identical canonical forms.
func Equal(a, b any) (bool, error) {
	ca, err := Canonical(a)
	if err != nil {
		return false, err
	}
	cb, err := Canonical(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ca, cb), nil
}

// normalize round-trips v through JSON so that every object becomes a
// map[string]any. encoding/json marshals map keys in sorted order, which
// gives the canonical key ordering for free.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	var norm any
	if err := json.Unmarshal(data, &norm); err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return norm, nil
}
