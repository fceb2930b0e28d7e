package timecard

import "errors"

// Timecard domain errors
var (
	// Request errors
	ErrCompanyIDRequired = errors.New("company_id is required")
	ErrInvalidTimeOfDay  = errors.New("invalid time of day")
	ErrForbiddenCompany  = errors.New("not allowed to act on this company")

	// Lifecycle errors
	ErrTimeCardNotFound   = errors.New("time card not found")
	ErrAlreadyPunchedIn   = errors.New("user already has an open time card")
	ErrNotPunchedIn       = errors.New("user has no open time card")
	ErrPunchOutBeforeIn   = errors.New("punch out time is before punch in time")
	ErrTimeCardNotClosed  = errors.New("time card is still open")
	ErrShiftConfigMissing = errors.New("job has no shift configuration")
)
