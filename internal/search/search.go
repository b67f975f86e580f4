// Package search filters flattened job rows: exact job_id lookup and fuzzy
// ranked matching over a fixed key subset.
package search

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/GavinEsch/mlcli/internal/model"
)

// DefaultThreshold is the fuzzy match cutoff: rows scoring at or below it are
// kept. Lower values are stricter; 0 means exact substring only.
const DefaultThreshold = 0.3

// DefaultKeys is the field subset local queries match against. It is
// intentionally narrower than the projection column set.
var DefaultKeys = []string{
	model.FieldJobID,
	model.FieldRuleName,
	model.FieldCreatedBy,
	model.FieldGroups,
	model.FieldDescription,
}

// FilterExact returns the rows whose job_id equals jobID (zero or one).
func FilterExact(rows []model.Row, jobID string) []model.Row {
	var out []model.Row
	for _, r := range rows {
		if r.Get(model.FieldJobID) == jobID {
			out = append(out, r)
		}
	}
	return out
}

// FuzzySearch keeps the rows whose best score over keys is at or below
// threshold, ordered best match first. The sort is stable, so ties keep
// their original order. An empty query applies no filter at all.
func FuzzySearch(rows []model.Row, query string, keys []string, threshold float64) []model.Row {
	if strings.TrimSpace(query) == "" {
		return rows
	}
	if len(keys) == 0 {
		keys = DefaultKeys
	}

	type scored struct {
		row   model.Row
		score float64
	}
	var matched []scored
	for _, row := range rows {
		best := 1.0
		for _, key := range keys {
			if s := Score(query, row.Get(key)); s < best {
				best = s
			}
		}
		if best <= threshold {
			matched = append(matched, scored{row: row, score: best})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score < matched[j].score
	})

	out := make([]model.Row, len(matched))
	for i, m := range matched {
		out[i] = m.row
	}
	return out
}

// Score rates how well query approximately matches text: 0 for a
// case-insensitive substring hit, otherwise the minimum length-normalized
// Levenshtein distance between the query and any query-sized window of the
// text. 1 means no resemblance at all.
func Score(query, text string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	t := strings.ToLower(text)
	if q == "" {
		return 0
	}
	if t == "" || t == strings.ToLower(model.NA) {
		return 1
	}
	if strings.Contains(t, q) {
		return 0
	}

	qr := []rune(q)
	tr := []rune(t)
	if len(tr) < len(qr) {
		return normalized(q, t, len(qr))
	}

	best := 1.0
	for i := 0; i+len(qr) <= len(tr); i++ {
		window := string(tr[i : i+len(qr)])
		if s := normalized(q, window, len(qr)); s < best {
			best = s
		}
	}
	return best
}

func normalized(a, b string, qlen int) float64 {
	d := levenshtein.ComputeDistance(a, b)
	s := float64(d) / float64(qlen)
	if s > 1 {
		return 1
	}
	return s
}
