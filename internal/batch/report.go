package batch

import (
	"fmt"

	"github.com/handiism/addprompt/internal/model"
)

// Status is the outcome of one folder.
type Status int

const (
	// StatusPending marks a folder that was not processed, because the
	// run stopped or was cancelled first.
	StatusPending Status = iota
	StatusDone
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Result is the outcome of one folder.
type Result struct {
	Folder *model.Folder
	Status Status
	Err    error
}

// Report summarises a run.
type Report struct {
	Results []Result

	Done    int
	Skipped int
	Failed  int
	Pending int
}

// Report returns the per-folder outcomes so far, in folder order.
func (m *Manager) Report() Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := Report{Results: append([]Result(nil), m.results...)}
	for _, res := range r.Results {
		switch res.Status {
		case StatusDone:
			r.Done++
		case StatusSkipped:
			r.Skipped++
		case StatusFailed:
			r.Failed++
		default:
			r.Pending++
		}
	}
	return r
}

// Summary returns a one-line count of the outcomes.
func (r Report) Summary() string {
	s := fmt.Sprintf("%d done, %d skipped, %d failed", r.Done, r.Skipped, r.Failed)
	if r.Pending > 0 {
		s += fmt.Sprintf(", %d not processed", r.Pending)
	}
	return s
}

// Errors returns the errors of the failed folders.
func (r Report) Errors() []error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errs
}
