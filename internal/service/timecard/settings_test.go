package timecard

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/domain/timecard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsResolver_Resolve(t *testing.T) {
	jobA, jobB := "job-a", "job-b"
	company := timecard.PunchClockSettings{CompanyID: "c1", CalculateOvertime: true, OvertimeThresholdHours: 10, AutoBreakDurationMinutes: 45, AutoBreakWaitHours: 5}
	jobRow := timecard.PunchClockSettings{CompanyID: "c1", JobID: &jobA, CalculateOvertime: true, OvertimeThresholdHours: 7, AutoBreakDurationMinutes: 0, AutoBreakWaitHours: 0}

	t.Run("job row wins", func(t *testing.T) {
		r := NewSettingsResolver([]timecard.PunchClockSettings{company, jobRow})
		assert.Equal(t, jobRow, r.Resolve(jobA))
	})

	t.Run("company row is the fallback", func(t *testing.T) {
		r := NewSettingsResolver([]timecard.PunchClockSettings{jobRow, company})
		assert.Equal(t, company, r.Resolve(jobB))
	})

	t.Run("defaults without rows", func(t *testing.T) {
		r := NewSettingsResolver(nil)
		assert.Equal(t, timecard.DefaultPunchClockSettings(), r.Resolve(jobA))
	})

	t.Run("job rows alone do not shadow the defaults", func(t *testing.T) {
		r := NewSettingsResolver([]timecard.PunchClockSettings{jobRow})
		assert.Equal(t, timecard.DefaultPunchClockSettings(), r.Resolve(jobB))
	})
}

func TestLoadSettingsResolver(t *testing.T) {
	jobA := "job-a"
	repo := &fakeSettingsRepo{rows: []timecard.PunchClockSettings{
		{CompanyID: "c1", JobID: &jobA, OvertimeThresholdHours: 6},
		{CompanyID: "c2", OvertimeThresholdHours: 12},
	}}

	r, err := LoadSettingsResolver(context.Background(), repo, "c1")
	require.NoError(t, err)
	assert.Equal(t, 6.0, r.Resolve(jobA).OvertimeThresholdHours)
	assert.Equal(t, float64(timecard.DefaultOvertimeThresholdHours), r.Resolve("other").OvertimeThresholdHours)

	repo.err = errors.New("boom")
	_, err = LoadSettingsResolver(context.Background(), repo, "c1")
	assert.ErrorIs(t, err, repo.err)
}
