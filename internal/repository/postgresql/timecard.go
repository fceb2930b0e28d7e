package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const timeCardColumns = `
	id, company_id, job_id, user_id,
	punch_in_time, punch_out_time,
	adjusted_punch_in, adjusted_punch_out,
	total_hours, overtime_hours,
	deleted_at, created_at, updated_at`

type timeCardRepository struct {
	db *database.DB
}

func NewTimeCardRepository(db *database.DB) timecard.TimeCardRepository {
	return &timeCardRepository{db: db}
}

func scanTimeCard(row pgx.Row) (timecard.TimeCard, error) {
	var tc timecard.TimeCard
	err := row.Scan(
		&tc.ID, &tc.CompanyID, &tc.JobID, &tc.UserID,
		&tc.PunchInTime, &tc.PunchOutTime,
		&tc.AdjustedPunchIn, &tc.AdjustedPunchOut,
		&tc.TotalHours, &tc.OvertimeHours,
		&tc.DeletedAt, &tc.CreatedAt, &tc.UpdatedAt,
	)
	return tc, err
}

func collectTimeCards(rows pgx.Rows) ([]timecard.TimeCard, error) {
	defer rows.Close()

	var cards []timecard.TimeCard
	for rows.Next() {
		tc, err := scanTimeCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time card: %w", err)
		}
		cards = append(cards, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time cards: %w", err)
	}
	return cards, nil
}

// ListClosed implements timecard.TimeCardRepository.
func (r *timeCardRepository) ListClosed(ctx context.Context, companyID string, jobIDs []string) ([]timecard.TimeCard, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeCardColumns + `
		FROM time_cards
		WHERE company_id = $1
		  AND punch_out_time IS NOT NULL
		  AND deleted_at IS NULL`
	args := []any{companyID}

	if len(jobIDs) > 0 {
		query += ` AND job_id = ANY($2::uuid[])`
		args = append(args, jobIDs)
	}
	query += ` ORDER BY punch_in_time, id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query closed time cards: %w", err)
	}
	return collectTimeCards(rows)
}

// UpdateAdjusted implements timecard.TimeCardRepository.
func (r *timeCardRepository) UpdateAdjusted(ctx context.Context, id string, companyID string, adj timecard.Adjustment) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_cards
		SET adjusted_punch_in = $3,
		    adjusted_punch_out = $4,
		    total_hours = $5,
		    overtime_hours = $6,
		    updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id, companyID, adj.PunchIn, adj.PunchOut, adj.TotalHours, adj.OvertimeHours)
	if err != nil {
		return fmt.Errorf("failed to update time card: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timecard.ErrTimeCardNotFound
	}
	return nil
}

// Create implements timecard.TimeCardRepository.
func (r *timeCardRepository) Create(ctx context.Context, tc timecard.TimeCard) (timecard.TimeCard, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_cards (company_id, job_id, user_id, punch_in_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, tc.CompanyID, tc.JobID, tc.UserID, tc.PunchInTime).
		Scan(&tc.ID, &tc.CreatedAt, &tc.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return timecard.TimeCard{}, timecard.ErrAlreadyPunchedIn
		}
		return timecard.TimeCard{}, fmt.Errorf("failed to create time card: %w", err)
	}

	return tc, nil
}

// GetByID implements timecard.TimeCardRepository.
func (r *timeCardRepository) GetByID(ctx context.Context, id string, companyID string) (timecard.TimeCard, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeCardColumns + `
		FROM time_cards
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`

	tc, err := scanTimeCard(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timecard.TimeCard{}, timecard.ErrTimeCardNotFound
		}
		return timecard.TimeCard{}, fmt.Errorf("failed to get time card by ID: %w", err)
	}
	return tc, nil
}

// GetOpenByUser implements timecard.TimeCardRepository.
func (r *timeCardRepository) GetOpenByUser(ctx context.Context, userID string, companyID string) (*timecard.TimeCard, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeCardColumns + `
		FROM time_cards
		WHERE user_id = $1
		  AND company_id = $2
		  AND punch_out_time IS NULL
		  AND deleted_at IS NULL
		ORDER BY punch_in_time DESC
		LIMIT 1
		FOR UPDATE`

	tc, err := scanTimeCard(q.QueryRow(ctx, query, userID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open time card: %w", err)
	}
	return &tc, nil
}

// Close implements timecard.TimeCardRepository.
func (r *timeCardRepository) Close(ctx context.Context, id string, companyID string, punchOut time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_cards
		SET punch_out_time = $3, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		  AND punch_out_time IS NULL
		  AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id, companyID, punchOut)
	if err != nil {
		return fmt.Errorf("failed to close time card: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timecard.ErrNotPunchedIn
	}
	return nil
}

// List implements timecard.TimeCardRepository.
func (r *timeCardRepository) List(ctx context.Context, filter timecard.TimeCardFilter) ([]timecard.TimeCard, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "company_id = $1 AND deleted_at IS NULL"
	args := []any{filter.CompanyID}
	argIdx := 2

	if filter.JobID != nil {
		where += fmt.Sprintf(" AND job_id = $%d", argIdx)
		args = append(args, *filter.JobID)
		argIdx++
	}
	if filter.UserID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		where += fmt.Sprintf(" AND punch_in_time >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		where += fmt.Sprintf(" AND punch_in_time < ($%d::date + INTERVAL '1 day')", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM time_cards WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count time cards: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM time_cards WHERE %s ORDER BY punch_in_time DESC, id LIMIT $%d OFFSET $%d`,
		timeCardColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list time cards: %w", err)
	}
	cards, err := collectTimeCards(rows)
	if err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

// SoftDelete implements timecard.TimeCardRepository.
func (r *timeCardRepository) SoftDelete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE time_cards
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete time card: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timecard.ErrTimeCardNotFound
	}
	return nil
}
