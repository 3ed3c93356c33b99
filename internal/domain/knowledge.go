package domain

// TaskBlock is the parsed knowledge unit for one task of a domain document.
// Blocks are created once per parse and never mutated afterwards; callers
// share them by value or through the cache's slices.
type TaskBlock struct {
	TaskName         string `json:"task_name"`
	VariantPhrases   string `json:"variant_phrases"`
	AdjacentTerms    string `json:"adjacent_terms"`
	Problems         string `json:"problems"`
	Opportunities    string `json:"opportunities"`
	Strategies       string `json:"strategies"`
	DiagnosticBridge string `json:"diagnostic_bridge"`
	RawBlock         string `json:"raw_block"`
}

// BridgeItem is one "symptom → metric → root area" line.
type BridgeItem struct {
	Symptom  string `json:"symptom"`
	Metric   string `json:"metric"`
	RootArea string `json:"root_area"`
	Raw      string `json:"raw"`
}

// DiagnosticSection is a user-facing rendering of one part of a TaskBlock.
type DiagnosticSection struct {
	Key            SectionKey   `json:"key"`
	Label          string       `json:"label"`
	Prompt         string       `json:"prompt"`
	Items          []string     `json:"items"`
	AllowsFreeText bool         `json:"allows_free_text"`
	Bridge         []BridgeItem `json:"bridge,omitempty"` // only for SectionDiagnosticBridge
}

// Diagnostic is what the engine knows about a (domain, task) pair.
type Diagnostic struct {
	MatchedTask string
	Tier        string
	Sections    []DiagnosticSection
	Strategies  string
	Block       *TaskBlock
}

// Empty reports whether there is nothing to ask the user.
func (d *Diagnostic) Empty() bool {
	return d == nil || len(d.Sections) == 0
}
