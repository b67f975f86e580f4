package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Document is an arbitrarily nested JSON object: string keys mapping to
// scalars, arrays, or further documents.
type Document = map[string]any

// ConfigRecord is one machine-learning job configuration snapshot: the job
// document plus its optional companion datafeed document.
type ConfigRecord struct {
	Job      Document `json:"job"`
	Datafeed Document `json:"datafeed,omitempty"`
}

// JobID returns the record's job identifier, or "" when absent.
func (r ConfigRecord) JobID() string {
	id, _ := r.Job["job_id"].(string)
	return id
}

// VersionEntry is one immutable, numbered snapshot of a ConfigRecord.
// Entries are append-only; once written they are never modified.
type VersionEntry struct {
	JobID     string       `json:"job_id"`
	Version   int          `json:"version"`
	Snapshot  ConfigRecord `json:"snapshot"`
	CreatedAt time.Time    `json:"created_at"`
}

// ParseImport decodes an import payload. The payload must be a JSON array;
// each element is either a {job, datafeed} wrapper or a raw job document
// (with the datafeed optionally embedded under "datafeed_config").
func ParseImport(data []byte) ([]ConfigRecord, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("import payload must be a JSON array of job configurations: %w", err)
	}

	records := make([]ConfigRecord, 0, len(raw))
	for i, elem := range raw {
		var doc Document
		if err := json.Unmarshal(elem, &doc); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}

		rec := recordFromDocument(doc)
		if strings.TrimSpace(rec.JobID()) == "" {
			return nil, fmt.Errorf("element %d: missing job_id", i)
		}
		records = append(records, rec)
	}
	return records, nil
}

// recordFromDocument accepts both the wrapper form {job, datafeed} and a
// bare job document carrying an embedded datafeed_config.
func recordFromDocument(doc Document) ConfigRecord {
	if job, ok := doc["job"].(map[string]any); ok {
		rec := ConfigRecord{Job: job}
		if df, ok := doc["datafeed"].(map[string]any); ok {
			rec.Datafeed = df
		}
		return rec
	}

	rec := ConfigRecord{Job: doc}
	if df, ok := doc["datafeed_config"].(map[string]any); ok {
		job := make(Document, len(doc))
		for k, v := range doc {
			if k != "datafeed_config" {
				job[k] = v
			}
		}
		rec.Job = job
		rec.Datafeed = df
	}
	return rec
}
