package model

import (
	"encoding/json"
	"testing"
)

func TestParseImportWrapperForm(t *testing.T) {
	payload := []byte(`[{"job": {"job_id": "jb-1", "description": "d"}, "datafeed": {"datafeed_id": "df-1"}}]`)
	records, err := ParseImport(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].JobID() != "jb-1" {
		t.Errorf("job_id = %q, want jb-1", records[0].JobID())
	}
	if records[0].Datafeed["datafeed_id"] != "df-1" {
		t.Errorf("datafeed_id = %v, want df-1", records[0].Datafeed["datafeed_id"])
	}
}

func TestParseImportBareJobWithEmbeddedDatafeed(t *testing.T) {
	payload := []byte(`[{"job_id": "jb-2", "datafeed_config": {"datafeed_id": "df-2", "indices": ["logs-*"]}}]`)
	records, err := ParseImport(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := records[0]
	if rec.JobID() != "jb-2" {
		t.Errorf("job_id = %q, want jb-2", rec.JobID())
	}
	if rec.Datafeed["datafeed_id"] != "df-2" {
		t.Errorf("datafeed_id = %v, want df-2", rec.Datafeed["datafeed_id"])
	}
	if _, ok := rec.Job["datafeed_config"]; ok {
		t.Error("datafeed_config should be lifted out of the job document")
	}
}

func TestParseImportRejectsNonArray(t *testing.T) {
	if _, err := ParseImport([]byte(`{"job_id": "jb-1"}`)); err == nil {
		t.Fatal("expected error for non-array payload")
	}
}

func TestParseImportRejectsMissingJobID(t *testing.T) {
	if _, err := ParseImport([]byte(`[{"description": "no id"}]`)); err == nil {
		t.Fatal("expected error for record without job_id")
	}
}

func TestCanonicalIsOrderIndependent(t *testing.T) {
	a := []byte(`{"b": 1, "a": {"y": true, "x": [1, 2]}}`)
	b := []byte(`{"a": {"x": [1, 2], "y": true}, "b": 1}`)

	var da, db Document
	mustUnmarshal(t, a, &da)
	mustUnmarshal(t, b, &db)

	ca, err := Canonical(da)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cb, err := Canonical(db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(ca) != string(cb) {
		t.Errorf("canonical forms differ:\n%s\n%s", ca, cb)
	}
}

func TestEqualDetectsValueChange(t *testing.T) {
	a := Document{"k": "v1"}
	b := Document{"k": "v2"}
	eq, err := Equal(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eq {
		t.Error("documents with different values reported equal")
	}
}

func TestRowGetPlaceholder(t *testing.T) {
	r := Row{FieldJobID: "jb-1"}
	if got := r.Get(FieldJobID); got != "jb-1" {
		t.Errorf("Get(job_id) = %q", got)
	}
	if got := r.Get(FieldDescription); got != NA {
		t.Errorf("Get(description) = %q, want %q", got, NA)
	}
}

func mustUnmarshal(t *testing.T, data []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
}
