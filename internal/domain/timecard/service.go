package timecard

import "context"

// RecalculationService recomputes adjusted punches and hours for closed cards.
type RecalculationService interface {
	// Recalculate runs a batch and renders it in the wire contract.
	Recalculate(ctx context.Context, req RecalculateRequest) (RecalculateResponse, error)

	// Run runs a batch and returns every per-card outcome.
	Run(ctx context.Context, req RecalculateRequest) (BatchResult, error)
}

// TimeCardService covers the card lifecycle and punch clock configuration.
type TimeCardService interface {
	PunchIn(ctx context.Context, req PunchInRequest) (TimeCardResponse, error)
	PunchOut(ctx context.Context, req PunchOutRequest) (TimeCardResponse, error)
	Get(ctx context.Context, id string, companyID string) (TimeCardResponse, error)
	List(ctx context.Context, filter TimeCardFilter) (ListTimeCardResponse, error)
	Delete(ctx context.Context, id string, companyID string) error

	UpsertShiftConfig(ctx context.Context, req UpsertShiftConfigRequest) (ShiftConfigResponse, error)
	UpsertSettings(ctx context.Context, req UpsertSettingsRequest) (SettingsResponse, error)
}
