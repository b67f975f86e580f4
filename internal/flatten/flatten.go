// Package flatten projects nested job configuration documents onto the flat,
// fixed-field rows used by search and export.
package flatten

import (
	"fmt"
	"strings"

	"github.com/GavinEsch/mlcli/internal/model"
)

// Flatten derives the flat row view of a record. Every field is always
// present; source paths missing from the record map to model.NA.
func Flatten(rec model.ConfigRecord) model.Row {
	job := rec.Job
	datafeed := rec.Datafeed

	return model.Row{
		model.FieldJobID:            stringAt(job, "job_id"),
		model.FieldRuleName:         stringAt(job, "custom_settings", "security_app_display_name"),
		model.FieldCreatedBy:        stringAt(job, "custom_settings", "created_by"),
		model.FieldGroups:           joinAt(job, ", ", "groups"),
		model.FieldDescription:      stringAt(job, "description"),
		model.FieldBucketSpan:       stringAt(job, "analysis_config", "bucket_span"),
		model.FieldDetectors:        detectorDescriptions(job),
		model.FieldInfluencers:      joinAt(job, ", ", "analysis_config", "influencers"),
		model.FieldModelPruneWindow: stringAt(job, "analysis_config", "model_prune_window"),
		model.FieldModelMemoryLimit: stringAt(job, "analysis_limits", "model_memory_limit"),
		model.FieldCatLimit:         stringAt(job, "analysis_limits", "categorization_examples_limit"),
		model.FieldRetentionDays:    stringAt(job, "results_retention_days"),
		model.FieldDatafeedID:       stringAt(datafeed, "datafeed_id"),
		model.FieldIndices:          joinAt(datafeed, ", ", "indices"),
		model.FieldQuery:            SimplifyQuery(lookupDoc(datafeed, "query")),
	}
}

// FlattenAll projects the latest snapshot of every entry.
func FlattenAll(entries []*model.VersionEntry) []model.Row {
	rows := make([]model.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Flatten(e.Snapshot))
	}
	return rows
}

// SimplifyQuery reduces a datafeed query document to a one-line summary of
// its dataset identifiers and phrase-match filters:
//
//	Dataset: [d1, d2] | Filters: field: value, field: value
//
// A query without a boolean-clause wrapper summarizes as model.NA. Empty
// clause lists render as an empty bracket or string, not omitted.
func SimplifyQuery(query model.Document) string {
	boolClause := lookupDoc(query, "bool")
	if boolClause == nil {
		return model.NA
	}

	var filters []string
	for _, clause := range listAt(boolClause, "filter") {
		mp := lookupDoc(clause, "match_phrase")
		for _, field := range sortedKeys(mp) {
			filters = append(filters, fmt.Sprintf("%s: %s", field, toString(mp[field])))
		}
	}

	var datasets []string
	for _, outer := range listAt(boolClause, "should") {
		inner := lookupDoc(outer, "bool")
		for _, clause := range listAt(inner, "should") {
			term := lookupDoc(clause, "term")
			ds := lookupDoc(term, "data_stream.dataset")
			if v, ok := ds["value"]; ok {
				datasets = append(datasets, toString(v))
			}
		}
	}

	return fmt.Sprintf("Dataset: [%s] | Filters: %s",
		strings.Join(datasets, ", "), strings.Join(filters, ", "))
}
