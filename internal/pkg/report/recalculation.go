// Package report exports recalculation runs as spreadsheets for operators.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/domain/timecard"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet   = "Summary"
	TimeCardsSheet = "Timecards"
)

var timeCardHeader = []any{
	"Time Card ID", "Job ID", "User ID", "Status",
	"Punch In", "Punch Out", "Adjusted Punch In", "Adjusted Punch Out",
	"Total Hours", "Overtime Hours", "Error",
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func outcomeRow(o timecard.Outcome) []any {
	row := []any{
		o.TimeCardID, o.JobID, o.UserID, string(o.Status),
		formatTime(&o.Original.PunchInTime), formatTime(o.Original.PunchOutTime),
		"", "", "", "", "",
	}
	if o.Adjustment != nil {
		row[6] = formatTime(&o.Adjustment.PunchIn)
		row[7] = formatTime(&o.Adjustment.PunchOut)
		row[8] = o.Adjustment.TotalHours
		row[9] = o.Adjustment.OvertimeHours
	}
	if o.Err != nil {
		row[10] = o.Err.Error()
	}
	return row
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// WriteRecalculation renders result as an xlsx workbook with a summary sheet
// and one row per processed time card.
func WriteRecalculation(w io.Writer, result timecard.BatchResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}

	summary := [][]any{
		{"Company", result.CompanyID},
		{"Job Filter", strings.Join(result.JobIDs, ", ")},
		{"Started At", formatTime(&result.StartedAt)},
		{"Completed At", formatTime(&result.CompletedAt)},
		{"Total Processed", result.TotalProcessed()},
		{"Updated", result.Count(timecard.OutcomeUpdated)},
		{"Skipped", result.Count(timecard.OutcomeSkipped)},
		{"Failed", result.Count(timecard.OutcomeFailed)},
	}
	if err := setRows(f, SummarySheet, summary); err != nil {
		return err
	}

	if _, err := f.NewSheet(TimeCardsSheet); err != nil {
		return err
	}
	rows := make([][]any, 0, len(result.Outcomes)+1)
	rows = append(rows, timeCardHeader)
	for _, o := range result.Outcomes {
		rows = append(rows, outcomeRow(o))
	}
	if err := setRows(f, TimeCardsSheet, rows); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(TimeCardsSheet, "A1", "K1", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "A8", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(TimeCardsSheet, "A", "K", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "A", "B", 40); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveRecalculation writes the workbook to path.
func SaveRecalculation(path string, result timecard.BatchResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	if err := WriteRecalculation(file, result); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
