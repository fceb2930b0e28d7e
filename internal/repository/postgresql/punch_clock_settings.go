package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type punchClockSettingsRepository struct {
	db *database.DB
}

func NewPunchClockSettingsRepository(db *database.DB) timecard.PunchClockSettingsRepository {
	return &punchClockSettingsRepository{db: db}
}

const punchClockSettingsColumns = `
	company_id, job_id, calculate_overtime, overtime_threshold_hours,
	auto_break_duration_minutes, auto_break_wait_hours, updated_at`

func scanPunchClockSettings(row pgx.Row) (timecard.PunchClockSettings, error) {
	var s timecard.PunchClockSettings
	err := row.Scan(
		&s.CompanyID, &s.JobID, &s.CalculateOvertime, &s.OvertimeThresholdHours,
		&s.AutoBreakDurationMinutes, &s.AutoBreakWaitHours, &s.UpdatedAt,
	)
	return s, err
}

// ListByCompany implements timecard.PunchClockSettingsRepository.
func (r *punchClockSettingsRepository) ListByCompany(ctx context.Context, companyID string) ([]timecard.PunchClockSettings, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+punchClockSettingsColumns+`
		FROM punch_clock_settings
		WHERE company_id = $1`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query punch clock settings: %w", err)
	}
	defer rows.Close()

	var settings []timecard.PunchClockSettings
	for rows.Next() {
		s, err := scanPunchClockSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan punch clock settings: %w", err)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate punch clock settings: %w", err)
	}

	return settings, nil
}

// Upsert implements timecard.PunchClockSettingsRepository.
// The unique index on (company_id, job_id) treats NULL job ids as equal, so
// there is a single company-level row.
func (r *punchClockSettingsRepository) Upsert(ctx context.Context, s timecard.PunchClockSettings) (timecard.PunchClockSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO punch_clock_settings (
			company_id, job_id, calculate_overtime, overtime_threshold_hours,
			auto_break_duration_minutes, auto_break_wait_hours
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, job_id) DO UPDATE SET
			calculate_overtime = EXCLUDED.calculate_overtime,
			overtime_threshold_hours = EXCLUDED.overtime_threshold_hours,
			auto_break_duration_minutes = EXCLUDED.auto_break_duration_minutes,
			auto_break_wait_hours = EXCLUDED.auto_break_wait_hours,
			updated_at = NOW()
		RETURNING ` + punchClockSettingsColumns

	saved, err := scanPunchClockSettings(q.QueryRow(ctx, query,
		s.CompanyID, s.JobID, s.CalculateOvertime, s.OvertimeThresholdHours,
		s.AutoBreakDurationMinutes, s.AutoBreakWaitHours,
	))
	if err != nil {
		return timecard.PunchClockSettings{}, fmt.Errorf("failed to upsert punch clock settings: %w", err)
	}

	return saved, nil
}
