package timecard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/domain/timecard"
)

type RecalculationServiceImpl struct {
	timeCardRepo    timecard.TimeCardRepository
	shiftConfigRepo timecard.JobShiftConfigRepository
	settingsRepo    timecard.PunchClockSettingsRepository
	now             func() time.Time
}

func NewRecalculationService(
	timeCardRepo timecard.TimeCardRepository,
	shiftConfigRepo timecard.JobShiftConfigRepository,
	settingsRepo timecard.PunchClockSettingsRepository,
) timecard.RecalculationService {
	return &RecalculationServiceImpl{
		timeCardRepo:    timeCardRepo,
		shiftConfigRepo: shiftConfigRepo,
		settingsRepo:    settingsRepo,
		now:             time.Now,
	}
}

// Recalculate implements timecard.RecalculationService.
func (s *RecalculationServiceImpl) Recalculate(ctx context.Context, req timecard.RecalculateRequest) (timecard.RecalculateResponse, error) {
	result, err := s.Run(ctx, req)
	if err != nil {
		return timecard.RecalculateResponse{}, err
	}
	return result.Response(), nil
}

// Run implements timecard.RecalculationService.
//
// Cards are processed one at a time and each write commits on its own, so a
// run that stops early leaves the cards already written updated and the rest
// untouched.
func (s *RecalculationServiceImpl) Run(ctx context.Context, req timecard.RecalculateRequest) (timecard.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return timecard.BatchResult{}, err
	}

	result := timecard.BatchResult{
		CompanyID: req.CompanyID,
		JobIDs:    req.JobIDs,
		StartedAt: s.now().UTC(),
	}

	cards, err := s.timeCardRepo.ListClosed(ctx, req.CompanyID, req.JobIDs)
	if err != nil {
		return timecard.BatchResult{}, fmt.Errorf("failed to list closed time cards: %w", err)
	}

	if len(cards) > 0 {
		configs, err := s.shiftConfigRepo.GetByJobIDs(ctx, req.CompanyID, distinctJobIDs(cards))
		if err != nil {
			return timecard.BatchResult{}, fmt.Errorf("failed to get job shift configs: %w", err)
		}

		resolver, err := LoadSettingsResolver(ctx, s.settingsRepo, req.CompanyID)
		if err != nil {
			return timecard.BatchResult{}, err
		}

		result.Outcomes = make([]timecard.Outcome, 0, len(cards))
		for _, card := range cards {
			if err := ctx.Err(); err != nil {
				return result, fmt.Errorf("recalculation aborted after %d of %d time cards: %w", len(result.Outcomes), len(cards), err)
			}
			result.Outcomes = append(result.Outcomes, s.processCard(ctx, card, configs, resolver))
		}
	}

	result.CompletedAt = s.now().UTC()

	slog.Info("Time cards recalculated",
		"company_id", req.CompanyID,
		"job_filter", len(req.JobIDs),
		"total_processed", result.TotalProcessed(),
		"updated_count", result.Count(timecard.OutcomeUpdated),
		"skipped_count", result.Count(timecard.OutcomeSkipped),
		"error_count", result.Count(timecard.OutcomeFailed),
		"duration", result.CompletedAt.Sub(result.StartedAt),
	)

	return result, nil
}

func (s *RecalculationServiceImpl) processCard(
	ctx context.Context,
	card timecard.TimeCard,
	configs map[string]timecard.JobShiftConfig,
	resolver *SettingsResolver,
) (outcome timecard.Outcome) {
	outcome = timecard.Outcome{
		TimeCardID: card.ID,
		JobID:      card.JobID,
		UserID:     card.UserID,
		Original:   card,
	}

	defer func() {
		if p := recover(); p != nil {
			outcome.Status = timecard.OutcomeFailed
			outcome.Adjustment = nil
			outcome.Err = fmt.Errorf("panic while recalculating: %v", p)
		}
		if outcome.Status == timecard.OutcomeFailed {
			slog.Warn("Failed to recalculate time card", "timecard_id", card.ID, "error", outcome.Err)
		}
	}()

	cfg, ok := configs[card.JobID]
	if !ok {
		slog.Debug("Skipping time card without job shift config", "timecard_id", card.ID, "job_id", card.JobID)
		outcome.Status = timecard.OutcomeSkipped
		outcome.Err = timecard.ErrShiftConfigMissing
		return outcome
	}

	if !card.IsClosed() {
		outcome.Status = timecard.OutcomeFailed
		outcome.Err = timecard.ErrTimeCardNotClosed
		return outcome
	}

	adj := Adjust(card, cfg, resolver.Resolve(card.JobID))
	if err := s.timeCardRepo.UpdateAdjusted(ctx, card.ID, card.CompanyID, adj); err != nil {
		outcome.Status = timecard.OutcomeFailed
		outcome.Err = err
		return outcome
	}

	outcome.Status = timecard.OutcomeUpdated
	outcome.Adjustment = &adj
	return outcome
}

func distinctJobIDs(cards []timecard.TimeCard) []string {
	seen := make(map[string]struct{}, len(cards))
	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		if _, ok := seen[c.JobID]; ok {
			continue
		}
		seen[c.JobID] = struct{}{}
		ids = append(ids, c.JobID)
	}
	return ids
}
