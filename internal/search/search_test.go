package search

import (
	"testing"

	"github.com/GavinEsch/mlcli/internal/model"
)

func rows() []model.Row {
	return []model.Row{
		{model.FieldJobID: "anomaly_detection_job", model.FieldDescription: "Detects anomalies"},
		{model.FieldJobID: "auth_rare_user", model.FieldDescription: "Rare authentications"},
		{model.FieldJobID: "network_beaconing", model.FieldDescription: "Beaconing activity"},
	}
}

func TestFilterExact(t *testing.T) {
	got := FilterExact(rows(), "auth_rare_user")
	if len(got) != 1 || got[0].Get(model.FieldJobID) != "auth_rare_user" {
		t.Fatalf("FilterExact = %v", got)
	}
	if got := FilterExact(rows(), "missing"); len(got) != 0 {
		t.Fatalf("expected no rows, got %v", got)
	}
}

func TestFuzzySearchRecall(t *testing.T) {
	got := FuzzySearch(rows(), "anomlay", []string{model.FieldJobID}, DefaultThreshold)
	if len(got) != 1 {
		t.Fatalf("expected 1 match for misspelled query, got %d", len(got))
	}
	if got[0].Get(model.FieldJobID) != "anomaly_detection_job" {
		t.Errorf("matched %q", got[0].Get(model.FieldJobID))
	}
}

func TestFuzzySearchRejectsUnrelated(t *testing.T) {
	got := FuzzySearch(rows(), "zzz_unrelated", []string{model.FieldJobID}, DefaultThreshold)
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestFuzzySearchEmptyQueryIsNoFilter(t *testing.T) {
	in := rows()
	got := FuzzySearch(in, "  ", DefaultKeys, DefaultThreshold)
	if len(got) != len(in) {
		t.Fatalf("empty query filtered rows: got %d, want %d", len(got), len(in))
	}
}

func TestFuzzySearchRanksExactFirst(t *testing.T) {
	in := []model.Row{
		{model.FieldJobID: "rare_user_auth"},
		{model.FieldJobID: "auth_rare_user"},
	}
	got := FuzzySearch(in, "auth_rare", []string{model.FieldJobID}, DefaultThreshold)
	if len(got) == 0 {
		t.Fatal("expected matches")
	}
	if got[0].Get(model.FieldJobID) != "auth_rare_user" {
		t.Errorf("best match = %q, want auth_rare_user", got[0].Get(model.FieldJobID))
	}
}

func TestFuzzySearchStableOnTies(t *testing.T) {
	in := []model.Row{
		{model.FieldJobID: "job_alpha_one"},
		{model.FieldJobID: "job_alpha_two"},
	}
	got := FuzzySearch(in, "alpha", []string{model.FieldJobID}, DefaultThreshold)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].Get(model.FieldJobID) != "job_alpha_one" || got[1].Get(model.FieldJobID) != "job_alpha_two" {
		t.Errorf("tie order not preserved: %v, %v",
			got[0].Get(model.FieldJobID), got[1].Get(model.FieldJobID))
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		query, text string
		lo, hi      float64
	}{
		{"auth", "auth_rare_user", 0, 0},
		{"AUTH", "auth_rare_user", 0, 0},
		{"anomlay", "anomaly_detection_job", 0.2, 0.3},
		{"zzzzz", "auth_rare_user", 0.5, 1},
		{"anything", "", 1, 1},
	}
	for _, tt := range tests {
		s := Score(tt.query, tt.text)
		if s < tt.lo || s > tt.hi {
			t.Errorf("Score(%q, %q) = %v, want in [%v, %v]", tt.query, tt.text, s, tt.lo, tt.hi)
		}
	}
}
