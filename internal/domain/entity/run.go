package entity

// RunSummary describes one finished workflow run, for notifications and logs.
type RunSummary struct {
	RunID      string
	Workflow   string
	Inputs     []string
	ResultPath string
	Records    int
	Analyzed   []string // ROI labels that produced a record
	Skipped    []string // ROI labels with zero filtered area
}
