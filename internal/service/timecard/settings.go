package timecard

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/domain/timecard"
)

// SettingsResolver picks the effective punch clock settings for a job:
// the job's own row, else the company row, else the hard defaults.
type SettingsResolver struct {
	company *timecard.PunchClockSettings
	jobs    map[string]timecard.PunchClockSettings
}

func NewSettingsResolver(rows []timecard.PunchClockSettings) *SettingsResolver {
	r := &SettingsResolver{jobs: make(map[string]timecard.PunchClockSettings, len(rows))}
	for _, row := range rows {
		if row.IsCompanyLevel() {
			r.company = &row
			continue
		}
		r.jobs[*row.JobID] = row
	}
	return r
}

// LoadSettingsResolver fetches every settings row of a company once.
func LoadSettingsResolver(ctx context.Context, repo timecard.PunchClockSettingsRepository, companyID string) (*SettingsResolver, error) {
	rows, err := repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load punch clock settings: %w", err)
	}
	return NewSettingsResolver(rows), nil
}

func (r *SettingsResolver) Resolve(jobID string) timecard.PunchClockSettings {
	if s, ok := r.jobs[jobID]; ok {
		return s
	}
	if r.company != nil {
		return *r.company
	}
	return timecard.DefaultPunchClockSettings()
}
