package flatten

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/GavinEsch/mlcli/internal/model"
)

// lookup descends a nested document along path.
func lookup(doc model.Document, path ...string) (any, bool) {
	if doc == nil {
		return nil, false
	}
	var cur any = doc
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// lookupDoc returns the sub-document at path, or nil when the path is absent
// or not an object.
func lookupDoc(doc model.Document, path ...string) model.Document {
	v, ok := lookup(doc, path...)
	if !ok {
		return nil
	}
	sub, _ := v.(map[string]any)
	return sub
}

// stringAt renders the scalar at path, or model.NA when absent.
func stringAt(doc model.Document, path ...string) string {
	v, ok := lookup(doc, path...)
	if !ok || v == nil {
		return model.NA
	}
	return toString(v)
}

// joinAt renders the list of scalars at path joined by sep, or model.NA when
// the path is absent.
func joinAt(doc model.Document, sep string, path ...string) string {
	v, ok := lookup(doc, path...)
	if !ok {
		return model.NA
	}
	items, ok := v.([]any)
	if !ok {
		return model.NA
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, toString(item))
	}
	return strings.Join(parts, sep)
}

// listAt returns the sub-documents in the array at key, skipping non-objects.
func listAt(doc model.Document, key string) []model.Document {
	v, ok := lookup(doc, key)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	docs := make([]model.Document, 0, len(items))
	for _, item := range items {
		if d, ok := item.(map[string]any); ok {
			docs = append(docs, d)
		}
	}
	return docs
}

// detectorDescriptions joins each detector's description with " | ".
func detectorDescriptions(job model.Document) string {
	v, ok := lookup(job, "analysis_config", "detectors")
	if !ok {
		return model.NA
	}
	items, ok := v.([]any)
	if !ok {
		return model.NA
	}
	var parts []string
	for _, item := range items {
		d, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if desc, ok := d["detector_description"].(string); ok {
			parts = append(parts, desc)
		}
	}
	if len(parts) == 0 {
		return model.NA
	}
	return strings.Join(parts, " | ")
}

// toString renders a JSON-decoded scalar. Numbers decoded as float64 render
// without a trailing exponent or spurious decimals.
func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return model.NA
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return model.NA
		}
		return string(data)
	}
}

func sortedKeys(doc model.Document) []string {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
