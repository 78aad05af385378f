package entity

// Results accumulates analysis records and run metadata until they are written.
// It is owned by one caller at a time and is not safe for concurrent use; batch
// runs give each worker its own Results and merge them afterwards.
type Results struct {
	metadata map[string]string
	records  []AnalysisRecord
}

func NewResults() *Results {
	return &Results{metadata: make(map[string]string)}
}

// Add appends a record.
func (r *Results) Add(rec AnalysisRecord) {
	r.records = append(r.records, rec)
}

// SetMetadata records a run-level key/value pair, overwriting earlier values.
func (r *Results) SetMetadata(key, value string) {
	if r.metadata == nil {
		r.metadata = make(map[string]string)
	}
	r.metadata[key] = value
}

func (r *Results) Metadata() map[string]string {
	out := make(map[string]string, len(r.metadata))
	for k, v := range r.metadata {
		out[k] = v
	}
	return out
}

// Records returns a copy of the accumulated records in insertion order.
func (r *Results) Records() []AnalysisRecord {
	out := make([]AnalysisRecord, len(r.records))
	copy(out, r.records)
	return out
}

func (r *Results) Len() int {
	return len(r.records)
}

// Merge appends other's records after ours. Metadata keys already set are kept.
func (r *Results) Merge(other *Results) {
	if other == nil {
		return
	}
	r.records = append(r.records, other.records...)
	if r.metadata == nil && len(other.metadata) > 0 {
		r.metadata = make(map[string]string, len(other.metadata))
	}
	for k, v := range other.metadata {
		if _, ok := r.metadata[k]; !ok {
			r.metadata[k] = v
		}
	}
}

// Reset drops all records and metadata.
func (r *Results) Reset() {
	r.records = nil
	r.metadata = make(map[string]string)
}
