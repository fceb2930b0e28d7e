package timecard

import "time"

// Adjustment is the recalculated state written back onto a closed card.
type Adjustment struct {
	PunchIn       time.Time
	PunchOut      time.Time
	TotalHours    float64
	OvertimeHours float64
}

type OutcomeStatus string

const (
	OutcomeUpdated OutcomeStatus = "updated"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Outcome is the per-card result of a recalculation run.
type Outcome struct {
	TimeCardID string
	JobID      string
	UserID     string
	Status     OutcomeStatus
	Original   TimeCard
	Adjustment *Adjustment
	Err        error
}

type BatchResult struct {
	CompanyID   string
	JobIDs      []string
	Outcomes    []Outcome
	StartedAt   time.Time
	CompletedAt time.Time
}

func (b BatchResult) TotalProcessed() int {
	return len(b.Outcomes)
}

func (b BatchResult) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range b.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

func (b BatchResult) Errors() []CardError {
	var errs []CardError
	for _, o := range b.Outcomes {
		if o.Status == OutcomeFailed {
			errs = append(errs, CardError{TimeCardID: o.TimeCardID, Error: o.Err.Error()})
		}
	}
	return errs
}

func (b BatchResult) Response() RecalculateResponse {
	return RecalculateResponse{
		Success:        true,
		TotalProcessed: b.TotalProcessed(),
		UpdatedCount:   b.Count(OutcomeUpdated),
		Errors:         b.Errors(),
	}
}
