package diagnostics

import "time"

// GenerationRecord is one generation's worth of mating diagnostics, the
// summary-statistics analog of the teacher's GenerationDiagnostics —
// it never carries genomes or individuals (spec Non-goal: no
// persistence/serialization of generations).
type GenerationRecord struct {
	Generation   int       `json:"generation"`
	SubPopSizes  []int     `json:"sub_pop_sizes"`
	TotalSize    int       `json:"total_size"`
	FamSizes     []int     `json:"fam_sizes"`
	Warnings     []string  `json:"warnings,omitempty"`
	ControlTries int       `json:"control_tries,omitempty"`
	Committed    bool      `json:"committed"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// RunSummary is the top-level record persisted per mating run.
type RunSummary struct {
	RunID       string             `json:"run_id"`
	SchemeName  string             `json:"scheme_name"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
	Generations []GenerationRecord `json:"generations"`
}
