package model

// Row is the flat, fixed-field projection of a ConfigRecord used by search
// and display. Values are always strings; missing source paths hold the
// literal placeholder NA.
type Row map[string]string

// NA is the placeholder rendered for any source path absent from a record.
const NA = "N/A"

// Flat field names.
const (
	FieldJobID            = "job_id"
	FieldRuleName         = "rule_name"
	FieldCreatedBy        = "created_by"
	FieldGroups           = "groups"
	FieldDescription      = "description"
	FieldBucketSpan       = "bucket_span"
	FieldDetectors        = "detectors"
	FieldInfluencers      = "influencers"
	FieldModelPruneWindow = "model_prune_window"
	FieldModelMemoryLimit = "model_memory_limit"
	FieldCatLimit         = "cat_limit"
	FieldRetentionDays    = "retention_days"
	FieldDatafeedID       = "datafeed_id"
	FieldIndices          = "indices"
	FieldQuery            = "query"
)

// DefaultColumns is the built-in column set used when no column selection has
// been configured. Order matters: exports render columns in this order.
var DefaultColumns = []string{
	FieldJobID,
	FieldRuleName,
	FieldCreatedBy,
	FieldGroups,
	FieldDescription,
	FieldBucketSpan,
	FieldDetectors,
	FieldInfluencers,
	FieldModelPruneWindow,
	FieldModelMemoryLimit,
	FieldCatLimit,
	FieldRetentionDays,
	FieldDatafeedID,
	FieldIndices,
	FieldQuery,
}

// Get returns the row's value for field, or NA when unset.
func (r Row) Get(field string) string {
	if v, ok := r[field]; ok && v != "" {
		return v
	}
	return NA
}
