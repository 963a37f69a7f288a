package domain

import "time"

// Outcome records the result of synchronizing a single source. It is
// immutable once created.
type Outcome struct {
	URL     string `json:"url"`
	Output  string `json:"output"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Summary aggregates per-source outcomes for one sync run. Outcomes are
// ordered exactly as the sources were configured.
type Summary struct {
	StartedAt time.Time `json:"started_at"`
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Outcomes  []Outcome `json:"outcomes"`
}

// Summarize builds a Summary from per-source outcomes.
func Summarize(startedAt time.Time, outcomes []Outcome) *Summary {
	s := &Summary{
		StartedAt: startedAt,
		Total:     len(outcomes),
		Outcomes:  outcomes,
	}
	for _, o := range outcomes {
		if o.Success {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}

// Failures returns the failed outcomes, preserving configured order.
func (s *Summary) Failures() []Outcome {
	var failed []Outcome
	for _, o := range s.Outcomes {
		if !o.Success {
			failed = append(failed, o)
		}
	}
	return failed
}
