package flatten

import (
	"encoding/json"
	"testing"

	"github.com/GavinEsch/mlcli/internal/model"
)

const sampleRecord = `{
	"job": {
		"job_id": "auth_rare_user",
		"description": "Rare user authentications",
		"groups": ["security", "authentication"],
		"results_retention_days": 30,
		"custom_settings": {
			"security_app_display_name": "Unusual User Authentication",
			"created_by": "ml-module-security-auth"
		},
		"analysis_config": {
			"bucket_span": "15m",
			"model_prune_window": "30d",
			"influencers": ["user.name", "source.ip"],
			"detectors": [
				{"function": "rare", "by_field_name": "user.name", "detector_description": "rare user name"},
				{"function": "high_count", "detector_description": "high auth count"}
			]
		},
		"analysis_limits": {
			"model_memory_limit": "16mb",
			"categorization_examples_limit": 4
		}
	},
	"datafeed": {
		"datafeed_id": "datafeed-auth_rare_user",
		"indices": ["logs-*", "auditbeat-*"],
		"query": {
			"bool": {
				"filter": [
					{"match_phrase": {"event.category": "authentication"}}
				],
				"should": [
					{"bool": {"should": [
						{"term": {"data_stream.dataset": {"value": "system.auth"}}},
						{"term": {"data_stream.dataset": {"value": "okta.system"}}}
					]}}
				]
			}
		}
	}
}`

func sample(t *testing.T) model.ConfigRecord {
	t.Helper()
	var rec model.ConfigRecord
	if err := json.Unmarshal([]byte(sampleRecord), &rec); err != nil {
		t.Fatalf("decode sample: %v", err)
	}
	return rec
}

func TestFlatten(t *testing.T) {
	row := Flatten(sample(t))

	want := map[string]string{
		model.FieldJobID:            "auth_rare_user",
		model.FieldRuleName:         "Unusual User Authentication",
		model.FieldCreatedBy:        "ml-module-security-auth",
		model.FieldGroups:           "security, authentication",
		model.FieldDescription:      "Rare user authentications",
		model.FieldBucketSpan:       "15m",
		model.FieldDetectors:        "rare user name | high auth count",
		model.FieldInfluencers:      "user.name, source.ip",
		model.FieldModelPruneWindow: "30d",
		model.FieldModelMemoryLimit: "16mb",
		model.FieldCatLimit:         "4",
		model.FieldRetentionDays:    "30",
		model.FieldDatafeedID:       "datafeed-auth_rare_user",
		model.FieldIndices:          "logs-*, auditbeat-*",
		model.FieldQuery:            "Dataset: [system.auth, okta.system] | Filters: event.category: authentication",
	}
	for field, v := range want {
		if row[field] != v {
			t.Errorf("%s = %q, want %q", field, row[field], v)
		}
	}
}

func TestFlattenMissingPaths(t *testing.T) {
	row := Flatten(model.ConfigRecord{Job: model.Document{"job_id": "bare"}})

	if row[model.FieldJobID] != "bare" {
		t.Errorf("job_id = %q", row[model.FieldJobID])
	}
	for _, field := range []string{
		model.FieldRuleName, model.FieldCreatedBy, model.FieldGroups,
		model.FieldDescription, model.FieldBucketSpan, model.FieldDetectors,
		model.FieldInfluencers, model.FieldModelPruneWindow,
		model.FieldModelMemoryLimit, model.FieldCatLimit,
		model.FieldRetentionDays, model.FieldDatafeedID, model.FieldIndices,
		model.FieldQuery,
	} {
		if row[field] != model.NA {
			t.Errorf("%s = %q, want %q", field, row[field], model.NA)
		}
	}
}

func TestSimplifyQueryNoBoolWrapper(t *testing.T) {
	var q model.Document
	if err := json.Unmarshal([]byte(`{"match_all": {}}`), &q); err != nil {
		t.Fatal(err)
	}
	if got := SimplifyQuery(q); got != model.NA {
		t.Errorf("SimplifyQuery = %q, want %q", got, model.NA)
	}
	if got := SimplifyQuery(nil); got != model.NA {
		t.Errorf("SimplifyQuery(nil) = %q, want %q", got, model.NA)
	}
}

func TestSimplifyQueryEmptyClauses(t *testing.T) {
	var q model.Document
	if err := json.Unmarshal([]byte(`{"bool": {"filter": [], "should": []}}`), &q); err != nil {
		t.Fatal(err)
	}
	want := "Dataset: [] | Filters: "
	if got := SimplifyQuery(q); got != want {
		t.Errorf("SimplifyQuery = %q, want %q", got, want)
	}
}
