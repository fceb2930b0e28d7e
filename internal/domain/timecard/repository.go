package timecard

import (
	"context"
	"time"
)

// TimeCardRepository defines data access for time cards.
// All methods take a companyID to keep tenants isolated.
type TimeCardRepository interface {
	// ListClosed returns punched-out, non-deleted cards of the company,
	// restricted to jobIDs when non-empty.
	ListClosed(ctx context.Context, companyID string, jobIDs []string) ([]TimeCard, error)

	// UpdateAdjusted writes the recalculated fields of a single card.
	UpdateAdjusted(ctx context.Context, id string, companyID string, adj Adjustment) error

	Create(ctx context.Context, tc TimeCard) (TimeCard, error)
	GetByID(ctx context.Context, id string, companyID string) (TimeCard, error)

	// GetOpenByUser returns nil when the user has no open card.
	GetOpenByUser(ctx context.Context, userID string, companyID string) (*TimeCard, error)

	Close(ctx context.Context, id string, companyID string, punchOut time.Time) error
	List(ctx context.Context, filter TimeCardFilter) ([]TimeCard, int64, error)
	SoftDelete(ctx context.Context, id string, companyID string) error
}

// JobShiftConfigRepository reads and writes per-job shift windows.
type JobShiftConfigRepository interface {
	// GetByJobIDs returns the configs found, keyed by job id. Jobs without
	// a row are absent from the map.
	GetByJobIDs(ctx context.Context, companyID string, jobIDs []string) (map[string]JobShiftConfig, error)

	Upsert(ctx context.Context, cfg JobShiftConfig) (JobShiftConfig, error)
}

// PunchClockSettingsRepository reads and writes overtime/break settings.
type PunchClockSettingsRepository interface {
	// ListByCompany returns the company-level row (JobID nil) and every
	// job-level row of the company.
	ListByCompany(ctx context.Context, companyID string) ([]PunchClockSettings, error)

	Upsert(ctx context.Context, s PunchClockSettings) (PunchClockSettings, error)
}
