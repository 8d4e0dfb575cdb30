package ledger

import "time"

// Run statuses. A finished run stores faults.Kind of its error, so "ok"
// marks success and any other value names the failure class.
const (
	StatusRunning = "running"
	StatusOK      = "ok"
)

// Document outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// RunInfo describes a run when it starts.
type RunInfo struct {
	Command   string
	InputDir  string
	OutputDir string
	Language  string
	Layout    string
	SplitMode string
	Seed      uint64
}

// Run is one row of the runs table.
type Run struct {
	ID           string
	Command      string
	InputDir     string
	OutputDir    string
	Language     string
	Layout       string
	SplitMode    string
	Seed         uint64
	Status       string
	ErrorMessage string
	Accepted     int
	Rejected     int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Finished reports whether the run recorded a final status.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// Duration is the wall time of a finished run.
func (r Run) Duration() time.Duration {
	if !r.Finished() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// DocumentOutcome is the per-document row written during a run.
type DocumentOutcome struct {
	DocID      string
	SourcePath string
	Outcome    string
	Reason     string
	// Overwrote is set when the story file already existed before the run
	// wrote it.
	Overwrote bool
}

// RunResult is written when a run ends.
type RunResult struct {
	Status   string
	Error    string
	Accepted int
	Rejected int
}

// RunDetail bundles a run with its per-reason and per-split counts.
type RunDetail struct {
	Run         Run
	Rejections  map[string]int
	Assignments map[string]int
}
