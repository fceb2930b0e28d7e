package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type jobShiftConfigRepository struct {
	db *database.DB
}

func NewJobShiftConfigRepository(db *database.DB) timecard.JobShiftConfigRepository {
	return &jobShiftConfigRepository{db: db}
}

func timeOfDayToPg(t *timecard.TimeOfDay) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: int64(*t) * 1_000_000, Valid: true}
}

func timeOfDayFromPg(t pgtype.Time) *timecard.TimeOfDay {
	if !t.Valid {
		return nil
	}
	tod := timecard.TimeOfDay(t.Microseconds / 1_000_000)
	return &tod
}

func scanJobShiftConfig(row pgx.Row) (timecard.JobShiftConfig, error) {
	var (
		cfg        timecard.JobShiftConfig
		start, end pgtype.Time
	)
	err := row.Scan(
		&cfg.JobID, &cfg.CompanyID, &start, &end,
		&cfg.CountEarlyPunchIn, &cfg.EarlyPunchInGraceMinutes,
		&cfg.CountLatePunchOut, &cfg.LateGraceMinutes,
		&cfg.Timezone, &cfg.UpdatedAt,
	)
	if err != nil {
		return timecard.JobShiftConfig{}, err
	}
	cfg.ShiftStartTime = timeOfDayFromPg(start)
	cfg.ShiftEndTime = timeOfDayFromPg(end)
	return cfg, nil
}

// GetByJobIDs implements timecard.JobShiftConfigRepository.
func (r *jobShiftConfigRepository) GetByJobIDs(ctx context.Context, companyID string, jobIDs []string) (map[string]timecard.JobShiftConfig, error) {
	configs := make(map[string]timecard.JobShiftConfig, len(jobIDs))
	if len(jobIDs) == 0 {
		return configs, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT job_id, company_id, shift_start_time, shift_end_time,
		       count_early_punch_in, early_punch_in_grace_minutes,
		       count_late_punch_out, late_grace_minutes,
		       timezone, updated_at
		FROM job_shift_configs
		WHERE company_id = $1 AND job_id = ANY($2::uuid[])
	`

	rows, err := q.Query(ctx, query, companyID, jobIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query job shift configs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		cfg, err := scanJobShiftConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job shift config: %w", err)
		}
		configs[cfg.JobID] = cfg
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job shift configs: %w", err)
	}

	return configs, nil
}

// Upsert implements timecard.JobShiftConfigRepository.
func (r *jobShiftConfigRepository) Upsert(ctx context.Context, cfg timecard.JobShiftConfig) (timecard.JobShiftConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO job_shift_configs (
			job_id, company_id, shift_start_time, shift_end_time,
			count_early_punch_in, early_punch_in_grace_minutes,
			count_late_punch_out, late_grace_minutes, timezone
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (job_id) DO UPDATE SET
			shift_start_time = EXCLUDED.shift_start_time,
			shift_end_time = EXCLUDED.shift_end_time,
			count_early_punch_in = EXCLUDED.count_early_punch_in,
			early_punch_in_grace_minutes = EXCLUDED.early_punch_in_grace_minutes,
			count_late_punch_out = EXCLUDED.count_late_punch_out,
			late_grace_minutes = EXCLUDED.late_grace_minutes,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()
		WHERE job_shift_configs.company_id = EXCLUDED.company_id
		RETURNING job_id, company_id, shift_start_time, shift_end_time,
		          count_early_punch_in, early_punch_in_grace_minutes,
		          count_late_punch_out, late_grace_minutes,
		          timezone, updated_at
	`

	saved, err := scanJobShiftConfig(q.QueryRow(ctx, query,
		cfg.JobID, cfg.CompanyID,
		timeOfDayToPg(cfg.ShiftStartTime), timeOfDayToPg(cfg.ShiftEndTime),
		cfg.CountEarlyPunchIn, cfg.EarlyPunchInGraceMinutes,
		cfg.CountLatePunchOut, cfg.LateGraceMinutes,
		cfg.Timezone,
	))
	if err != nil {
		// The conflict guard returns no row when the job belongs to another company.
		if errors.Is(err, pgx.ErrNoRows) {
			return timecard.JobShiftConfig{}, timecard.ErrForbiddenCompany
		}
		return timecard.JobShiftConfig{}, fmt.Errorf("failed to upsert job shift config: %w", err)
	}

	return saved, nil
}
