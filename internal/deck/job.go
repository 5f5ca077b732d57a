package deck

import "strings"

// JobStatus represents the lifecycle of a server-tracked batch job.
type JobStatus string

const (
	JobPending   JobStatus = "PENDING"
	JobRunning   JobStatus = "RUNNING"
	JobCompleted JobStatus = "COMPLETED"
	JobPartial   JobStatus = "PARTIAL"
	JobFailed    JobStatus = "FAILED"
)

var jobStatusSet = map[JobStatus]struct{}{
	JobPending:   {},
	JobRunning:   {},
	JobCompleted: {},
	JobPartial:   {},
	JobFailed:    {},
}

// ParseJobStatus converts a string into a known JobStatus.
func ParseJobStatus(value string) (JobStatus, bool) {
	normalized := JobStatus(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := jobStatusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether the job has resolved. PARTIAL is terminal
// success for flow control even though some slots failed.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobCompleted, JobPartial, JobFailed:
		return true
	default:
		return false
	}
}

// JobKind identifies which pipeline operation a job performs.
type JobKind string

const (
	JobKindOutline      JobKind = "outline"
	JobKindDescriptions JobKind = "descriptions"
	JobKindImages       JobKind = "images"
	JobKindRegenerate   JobKind = "regenerate"
	JobKindExport       JobKind = "export"
)

// TaskProgress carries aggregate counters for one outstanding batch job.
// Counters always arrive as complete snapshots from the server, never deltas.
type TaskProgress struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// Valid reports whether the snapshot satisfies completed+failed <= total with
// non-negative counters.
func (p TaskProgress) Valid() bool {
	if p.Total < 0 || p.Completed < 0 || p.Failed < 0 {
		return false
	}
	return p.Completed+p.Failed <= p.Total
}

// Resolved reports whether every slot has reached a terminal state.
func (p TaskProgress) Resolved() bool {
	return p.Total > 0 && p.Completed+p.Failed == p.Total
}
