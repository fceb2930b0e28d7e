package timecard

import (
	"time"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/domain/timecard"
)

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

// ShiftWindow anchors the configured shift on the card's own dates: the start
// on the punch-in date, the end on the punch-out date. An end that lands
// before the start belongs to the next day. ok is false when the job has no
// shift window.
func ShiftWindow(cfg timecard.JobShiftConfig, punchIn, punchOut time.Time) (start, end time.Time, ok bool) {
	if !cfg.HasShiftWindow() {
		return time.Time{}, time.Time{}, false
	}

	loc := cfg.Location()
	start = cfg.ShiftStartTime.On(punchIn, loc)
	end = cfg.ShiftEndTime.On(punchOut, loc)
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}

	return start, end, true
}

// AdjustPunches applies the grace rules. Punches inside the grace window are
// snapped to the shift boundary unless the job counts that time; punches
// outside the window are always kept as-is. The result never starts before
// punchIn nor ends after punchOut.
func AdjustPunches(cfg timecard.JobShiftConfig, punchIn, punchOut time.Time) (time.Time, time.Time) {
	in, out := punchIn, punchOut

	shiftStart, shiftEnd, ok := ShiftWindow(cfg, punchIn, punchOut)
	if !ok {
		return in, out
	}

	if punchIn.Before(shiftStart) {
		graceStart := shiftStart.Add(-minutes(cfg.EarlyPunchInGraceMinutes))
		if !punchIn.Before(graceStart) && !cfg.CountEarlyPunchIn {
			in = shiftStart
		}
	}

	if punchOut.After(shiftEnd) {
		graceEnd := shiftEnd.Add(minutes(cfg.LateGraceMinutes))
		if !punchOut.After(graceEnd) && !cfg.CountLatePunchOut {
			out = shiftEnd
		}
	}

	// A card lying entirely inside a grace window can cross over; collapse
	// it to a zero-length interval within the original punches.
	if in.After(out) {
		p := in
		if p.After(punchOut) {
			p = punchOut
		}
		in, out = p, p
	}

	return in, out
}

// ComputeHours returns worked and overtime hours for an adjusted interval.
func ComputeHours(in, out time.Time, settings timecard.PunchClockSettings) (total, overtime float64) {
	total = out.Sub(in).Hours()

	if total > settings.AutoBreakWaitHours {
		total -= float64(settings.AutoBreakDurationMinutes) / 60
	}
	if total < 0 {
		total = 0
	}

	if settings.CalculateOvertime {
		overtime = max(0, total-settings.OvertimeThresholdHours)
	}

	return total, overtime
}

// Adjust recalculates a closed card. The caller guarantees PunchOutTime is set.
func Adjust(card timecard.TimeCard, cfg timecard.JobShiftConfig, settings timecard.PunchClockSettings) timecard.Adjustment {
	in, out := AdjustPunches(cfg, card.PunchInTime, *card.PunchOutTime)
	total, overtime := ComputeHours(in, out, settings)

	return timecard.Adjustment{
		PunchIn:       in,
		PunchOut:      out,
		TotalHours:    total,
		OvertimeHours: overtime,
	}
}
