package timecard

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/domain/timecard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tod(h, m int) *timecard.TimeOfDay {
	t := timecard.NewTimeOfDay(h, m, 0)
	return &t
}

func at(day, h, m, s int) time.Time {
	return time.Date(2025, 3, day, h, m, s, 0, time.UTC)
}

func dayShift() timecard.JobShiftConfig {
	cfg := timecard.NewJobShiftConfig("company-1", "job-1")
	cfg.ShiftStartTime = tod(8, 0)
	cfg.ShiftEndTime = tod(16, 0)
	cfg.CountEarlyPunchIn = false
	cfg.CountLatePunchOut = false
	return cfg
}

func TestAdjustPunches_EarlyGrace(t *testing.T) {
	tests := []struct {
		name    string
		countIn bool
		punchIn time.Time
		wantIn  time.Time
	}{
		{"outside grace is kept", false, at(3, 7, 44, 0), at(3, 7, 44, 0)},
		{"grace start is inclusive", false, at(3, 7, 45, 0), at(3, 8, 0, 0)},
		{"one minute inside grace snaps", false, at(3, 7, 46, 0), at(3, 8, 0, 0)},
		{"inside grace snaps to shift start", false, at(3, 7, 50, 0), at(3, 8, 0, 0)},
		{"on shift start is unchanged", false, at(3, 8, 0, 0), at(3, 8, 0, 0)},
		{"late arrival is kept", false, at(3, 8, 10, 0), at(3, 8, 10, 0)},
		{"counted early punch is kept", true, at(3, 7, 50, 0), at(3, 7, 50, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := dayShift()
			cfg.CountEarlyPunchIn = tt.countIn

			in, out := AdjustPunches(cfg, tt.punchIn, at(3, 16, 0, 0))
			assert.Equal(t, tt.wantIn, in)
			assert.Equal(t, at(3, 16, 0, 0), out)
		})
	}
}

func TestAdjustPunches_LateGrace(t *testing.T) {
	tests := []struct {
		name     string
		countOut bool
		punchOut time.Time
		wantOut  time.Time
	}{
		{"inside grace snaps to shift end", false, at(3, 16, 10, 0), at(3, 16, 0, 0)},
		{"grace end is inclusive", false, at(3, 16, 15, 0), at(3, 16, 0, 0)},
		{"outside grace is kept", false, at(3, 16, 16, 0), at(3, 16, 16, 0)},
		{"early leave is kept", false, at(3, 15, 30, 0), at(3, 15, 30, 0)},
		{"counted late punch is kept", true, at(3, 16, 10, 0), at(3, 16, 10, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := dayShift()
			cfg.CountLatePunchOut = tt.countOut

			in, out := AdjustPunches(cfg, at(3, 8, 0, 0), tt.punchOut)
			assert.Equal(t, at(3, 8, 0, 0), in)
			assert.Equal(t, tt.wantOut, out)
		})
	}
}

func TestAdjustPunches_NoShiftWindow(t *testing.T) {
	cfg := timecard.NewJobShiftConfig("company-1", "job-1")
	cfg.ShiftStartTime = tod(8, 0)

	in, out := AdjustPunches(cfg, at(3, 7, 50, 0), at(3, 16, 10, 0))
	assert.Equal(t, at(3, 7, 50, 0), in)
	assert.Equal(t, at(3, 16, 10, 0), out)
}

func TestAdjustPunches_Overnight(t *testing.T) {
	cfg := dayShift()
	cfg.ShiftStartTime = tod(22, 0)
	cfg.ShiftEndTime = tod(6, 0)

	t.Run("punch out on the next day", func(t *testing.T) {
		in, out := AdjustPunches(cfg, at(3, 21, 55, 0), at(4, 6, 10, 0))
		assert.Equal(t, at(3, 22, 0, 0), in)
		assert.Equal(t, at(4, 6, 0, 0), out)
	})

	t.Run("shift end rolls over when punch out shares the punch in date", func(t *testing.T) {
		start, end, ok := ShiftWindow(cfg, at(3, 23, 0, 0), at(3, 23, 30, 0))
		require.True(t, ok)
		assert.Equal(t, at(3, 22, 0, 0), start)
		assert.Equal(t, at(4, 6, 0, 0), end)

		in, out := AdjustPunches(cfg, at(3, 23, 0, 0), at(3, 23, 30, 0))
		assert.Equal(t, at(3, 23, 0, 0), in)
		assert.Equal(t, at(3, 23, 30, 0), out)
	})
}

func TestAdjustPunches_CollapsesCrossedInterval(t *testing.T) {
	in, out := AdjustPunches(dayShift(), at(3, 7, 50, 0), at(3, 7, 55, 0))
	assert.Equal(t, at(3, 7, 55, 0), in)
	assert.Equal(t, at(3, 7, 55, 0), out)
}

func TestAdjustPunches_Timezone(t *testing.T) {
	cfg := dayShift()
	cfg.Timezone = "America/New_York"

	// 07:50 EST
	in, _ := AdjustPunches(cfg, at(3, 12, 50, 0), at(3, 21, 0, 0))
	assert.Equal(t, at(3, 13, 0, 0), in.UTC())
}

func TestComputeHours(t *testing.T) {
	overtimeOn := timecard.DefaultPunchClockSettings()
	overtimeOn.CalculateOvertime = true

	tests := []struct {
		name         string
		in, out      time.Time
		settings     timecard.PunchClockSettings
		wantTotal    float64
		wantOvertime float64
	}{
		{"break not deducted at exactly the wait", at(3, 8, 0, 0), at(3, 14, 0, 0), timecard.DefaultPunchClockSettings(), 6, 0},
		{"break deducted just past the wait", at(3, 8, 0, 0), at(3, 14, 0, 36), timecard.DefaultPunchClockSettings(), 5.51, 0},
		{"overtime gated off", at(3, 8, 0, 0), at(3, 18, 0, 0), timecard.DefaultPunchClockSettings(), 9.5, 0},
		{"overtime past threshold", at(3, 8, 0, 0), at(3, 18, 0, 0), overtimeOn, 9.5, 1.5},
		{"no overtime under threshold", at(3, 8, 0, 0), at(3, 16, 0, 0), overtimeOn, 7.5, 0},
		{"zero length", at(3, 8, 0, 0), at(3, 8, 0, 0), overtimeOn, 0, 0},
		{
			"negative after break is clamped", at(3, 8, 0, 0), at(3, 8, 10, 0),
			timecard.PunchClockSettings{AutoBreakDurationMinutes: 30, OvertimeThresholdHours: 8},
			0, 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, overtime := ComputeHours(tt.in, tt.out, tt.settings)
			assert.InDelta(t, tt.wantTotal, total, 1e-9)
			assert.InDelta(t, tt.wantOvertime, overtime, 1e-9)
		})
	}
}

func TestAdjust(t *testing.T) {
	out := at(4, 6, 10, 0)
	card := timecard.TimeCard{ID: "tc-1", JobID: "job-1", PunchInTime: at(3, 21, 55, 0), PunchOutTime: &out}

	cfg := dayShift()
	cfg.ShiftStartTime = tod(22, 0)
	cfg.ShiftEndTime = tod(6, 0)

	adj := Adjust(card, cfg, timecard.DefaultPunchClockSettings())
	assert.Equal(t, at(3, 22, 0, 0), adj.PunchIn)
	assert.Equal(t, at(4, 6, 0, 0), adj.PunchOut)
	assert.InDelta(t, 7.5, adj.TotalHours, 1e-9)
	assert.Zero(t, adj.OvertimeHours)
}
