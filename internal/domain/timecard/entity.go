package timecard

import (
	"fmt"
	"time"
)

type TimeCard struct {
	ID               string
	CompanyID        string
	JobID            string
	UserID           string
	PunchInTime      time.Time
	PunchOutTime     *time.Time
	AdjustedPunchIn  *time.Time
	AdjustedPunchOut *time.Time
	TotalHours       float64
	OvertimeHours    float64
	DeletedAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsClosed reports whether the card can be picked up by a recalculation run.
func (t TimeCard) IsClosed() bool {
	return t.PunchOutTime != nil && t.DeletedAt == nil
}

// TimeOfDay is a wall clock time stored as seconds since midnight.
type TimeOfDay int

const secondsPerDay = 24 * 60 * 60

// ParseTimeOfDay accepts "15:04" or "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay(t.Hour()*3600 + t.Minute()*60 + t.Second()), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
}

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

func (t TimeOfDay) Hour() int   { return int(t) / 3600 }
func (t TimeOfDay) Minute() int { return int(t) % 3600 / 60 }
func (t TimeOfDay) Second() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// Valid reports whether t falls inside a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < secondsPerDay
}

// On combines the calendar date of day, as seen in loc, with t.
func (t TimeOfDay) On(day time.Time, loc *time.Location) time.Time {
	local := day.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}

const (
	DefaultEarlyPunchInGraceMinutes = 15
	DefaultLateGraceMinutes         = 15
	DefaultTimezone                 = "UTC"
)

// JobShiftConfig is the shift window and grace policy of a single job.
type JobShiftConfig struct {
	JobID                    string
	CompanyID                string
	ShiftStartTime           *TimeOfDay
	ShiftEndTime             *TimeOfDay
	CountEarlyPunchIn        bool
	EarlyPunchInGraceMinutes int
	CountLatePunchOut        bool
	LateGraceMinutes         int
	Timezone                 string
	UpdatedAt                time.Time
}

// NewJobShiftConfig returns a config carrying the column defaults.
func NewJobShiftConfig(companyID, jobID string) JobShiftConfig {
	return JobShiftConfig{
		JobID:                    jobID,
		CompanyID:                companyID,
		EarlyPunchInGraceMinutes: DefaultEarlyPunchInGraceMinutes,
		CountLatePunchOut:        true,
		LateGraceMinutes:         DefaultLateGraceMinutes,
		Timezone:                 DefaultTimezone,
	}
}

func (c JobShiftConfig) HasShiftWindow() bool {
	return c.ShiftStartTime != nil && c.ShiftEndTime != nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c JobShiftConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// PunchClockSettings holds overtime and auto-break rules. A row with a nil
// JobID is the company-wide fallback.
type PunchClockSettings struct {
	CompanyID                string
	JobID                    *string
	CalculateOvertime        bool
	OvertimeThresholdHours   float64
	AutoBreakDurationMinutes int
	AutoBreakWaitHours       float64
	UpdatedAt                time.Time
}

const (
	DefaultOvertimeThresholdHours   = 8
	DefaultAutoBreakDurationMinutes = 30
	DefaultAutoBreakWaitHours       = 6
)

func DefaultPunchClockSettings() PunchClockSettings {
	return PunchClockSettings{
		CalculateOvertime:        false,
		OvertimeThresholdHours:   DefaultOvertimeThresholdHours,
		AutoBreakDurationMinutes: DefaultAutoBreakDurationMinutes,
		AutoBreakWaitHours:       DefaultAutoBreakWaitHours,
	}
}

func (s PunchClockSettings) IsCompanyLevel() bool {
	return s.JobID == nil
}
