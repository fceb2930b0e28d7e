package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/domain/timecard"
)

type TimeCardJobs struct {
	recalculationSvc timecard.RecalculationService
	companyIDs       []string
	interval         time.Duration
}

func NewTimeCardJobs(recalculationSvc timecard.RecalculationService, companyIDs []string, interval time.Duration) *TimeCardJobs {
	return &TimeCardJobs{
		recalculationSvc: recalculationSvc,
		companyIDs:       companyIDs,
		interval:         interval,
	}
}

// RegisterJobs adds the recalculation job when at least one company is configured.
func (j *TimeCardJobs) RegisterJobs(scheduler *Scheduler) {
	if len(j.companyIDs) == 0 {
		slog.Info("Cron: no companies configured for scheduled time card recalculation")
		return
	}
	scheduler.AddJob("recalculate_timecards", j.interval, j.RecalculateTimeCards)
}

// RecalculateTimeCards recalculates every configured company in turn. A failing
// company is logged and does not stop the others; the joined errors are returned.
func (j *TimeCardJobs) RecalculateTimeCards(ctx context.Context) error {
	slog.Info("Cron: Starting time card recalculation job", "company_count", len(j.companyIDs))

	var errs []error
	for _, companyID := range j.companyIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		result, err := j.recalculationSvc.Recalculate(ctx, timecard.RecalculateRequest{CompanyID: companyID})
		if err != nil {
			slog.Error("Cron: Failed to recalculate time cards", "company_id", companyID, "error", err)
			errs = append(errs, fmt.Errorf("company %s: %w", companyID, err))
			continue
		}

		for _, cardErr := range result.Errors {
			slog.Warn("Cron: Time card not recalculated",
				"company_id", companyID,
				"timecard_id", cardErr.TimeCardID,
				"error", cardErr.Error)
		}

		slog.Info("Cron: Time cards recalculated",
			"company_id", companyID,
			"total_processed", result.TotalProcessed,
			"updated_count", result.UpdatedCount,
			"error_count", len(result.Errors))
	}

	return errors.Join(errs...)
}
