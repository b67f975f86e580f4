// Package diff compares job configuration versions: a summarized structural
// diff over canonicalized documents and a full line-level diff over their
// pretty-printed forms.
package diff

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/GavinEsch/mlcli/internal/model"
)

// NoDifferences is the summarized-diff result for canonically equal inputs.
const NoDifferences = "No differences found."

// Summarized reports added, removed, and changed entries between two
// documents. Keys are visited in sorted order at every level, so the output
// is deterministic and free of spurious noise from key insertion order.
func Summarized(a, b model.Document) (string, error) {
	na, err := normalizeDoc(a)
	if err != nil {
		return "", err
	}
	nb, err := normalizeDoc(b)
	if err != nil {
		return "", err
	}

	var lines []string
	walkDiff("", na, nb, &lines)
	if len(lines) == 0 {
		return NoDifferences, nil
	}
	return strings.Join(lines, "\n"), nil
}

// walkDiff appends one line per differing entry, recursing into nested
// documents. Paths are dotted.
func walkDiff(prefix string, a, b model.Document, lines *[]string) {
	keys := map[string]struct{}{}
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, k := range sorted {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		av, inA := a[k]
		bv, inB := b[k]

		switch {
		case !inA:
			*lines = append(*lines, fmt.Sprintf("+ %s: %s", path, compact(bv)))
		case !inB:
			*lines = append(*lines, fmt.Sprintf("- %s: %s", path, compact(av)))
		default:
			am, aIsDoc := av.(map[string]any)
			bm, bIsDoc := bv.(map[string]any)
			if aIsDoc && bIsDoc {
				walkDiff(path, am, bm, lines)
				continue
			}
			if compact(av) != compact(bv) {
				*lines = append(*lines, fmt.Sprintf("~ %s: %s -> %s", path, compact(av), compact(bv)))
			}
		}
	}
}

// Kind classifies a full-diff line.
type Kind int

const (
	Context Kind = iota
	Added
	Removed
)

// Line is one line of a full diff.
type Line struct {
	Kind Kind
	Text string
}

// Full computes a line-level diff between the pretty-printed canonical forms
// of a and b.
func Full(a, b model.Document) ([]Line, error) {
	ta, err := model.CanonicalIndent(a)
	if err != nil {
		return nil, err
	}
	tb, err := model.CanonicalIndent(b)
	if err != nil {
		return nil, err
	}

	dmp := diffmatchpatch.New()
	ca, cb, lineArray := dmp.DiffLinesToChars(string(ta)+"\n", string(tb)+"\n")
	diffs := dmp.DiffMain(ca, cb, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var out []Line
	for _, d := range diffs {
		kind := Context
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			kind = Added
		case diffmatchpatch.DiffDelete:
			kind = Removed
		}
		for _, text := range splitLines(d.Text) {
			out = append(out, Line{Kind: kind, Text: text})
		}
	}
	return out, nil
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// compact renders a value in its canonical single-line form for summary
// output.
func compact(v any) string {
	data, err := model.Canonical(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// normalizeDoc canonicalizes a document into plain map form.
func normalizeDoc(doc model.Document) (model.Document, error) {
	data, err := model.Canonical(doc)
	if err != nil {
		return nil, err
	}
	var out model.Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
