package entity

// Observation is one named measurement inside an analysis record.
type Observation struct {
	Variable string // e.g. "mean_temp"
	Trait    string // human readable trait name
	Method   string // producing method
	Scale    string // unit
	Datatype string // "float", "int", "list"
	Value    any
	Label    any // bin centers for histograms, "none" otherwise
}

// AnalysisRecord is the measurement summary for one ROI.
type AnalysisRecord struct {
	Image        string // input the record was measured on
	Sample       string // ROI label
	Measurement  string // producing measurer, e.g. "thermal"
	Area         int    // filtered area the record was computed over
	Observations []Observation
}

// Get looks up an observation by variable name.
func (r AnalysisRecord) Get(variable string) (Observation, bool) {
	for _, o := range r.Observations {
		if o.Variable == variable {
			return o, true
		}
	}
	return Observation{}, false
}
