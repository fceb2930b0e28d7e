package timecard

import (
	"context"
	"fmt"
	"math"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/pkg/validator"
)

type TimeCardServiceImpl struct {
	tx              database.Transactor
	timeCardRepo    timecard.TimeCardRepository
	shiftConfigRepo timecard.JobShiftConfigRepository
	settingsRepo    timecard.PunchClockSettingsRepository
}

func NewTimeCardService(
	tx database.Transactor,
	timeCardRepo timecard.TimeCardRepository,
	shiftConfigRepo timecard.JobShiftConfigRepository,
	settingsRepo timecard.PunchClockSettingsRepository,
) timecard.TimeCardService {
	return &TimeCardServiceImpl{
		tx:              tx,
		timeCardRepo:    timeCardRepo,
		shiftConfigRepo: shiftConfigRepo,
		settingsRepo:    settingsRepo,
	}
}

// PunchIn implements timecard.TimeCardService.
func (s *TimeCardServiceImpl) PunchIn(ctx context.Context, req timecard.PunchInRequest) (timecard.TimeCardResponse, error) {
	if err := req.Validate(); err != nil {
		return timecard.TimeCardResponse{}, err
	}

	var created timecard.TimeCard
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		open, err := s.timeCardRepo.GetOpenByUser(ctx, req.UserID, req.CompanyID)
		if err != nil {
			return fmt.Errorf("failed to check open time card: %w", err)
		}
		if open != nil {
			return timecard.ErrAlreadyPunchedIn
		}

		created, err = s.timeCardRepo.Create(ctx, timecard.TimeCard{
			CompanyID:   req.CompanyID,
			JobID:       req.JobID,
			UserID:      req.UserID,
			PunchInTime: req.At,
		})
		return err
	})
	if err != nil {
		return timecard.TimeCardResponse{}, err
	}

	return timecard.NewTimeCardResponse(created), nil
}

// PunchOut implements timecard.TimeCardService.
//
// The closed card is computed right away with the same rules a recalculation
// run applies. Jobs without a shift config get their raw punches and the
// effective overtime/break settings.
func (s *TimeCardServiceImpl) PunchOut(ctx context.Context, req timecard.PunchOutRequest) (timecard.TimeCardResponse, error) {
	if err := req.Validate(); err != nil {
		return timecard.TimeCardResponse{}, err
	}

	var closed timecard.TimeCard
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		open, err := s.timeCardRepo.GetOpenByUser(ctx, req.UserID, req.CompanyID)
		if err != nil {
			return fmt.Errorf("failed to get open time card: %w", err)
		}
		if open == nil {
			return timecard.ErrNotPunchedIn
		}
		if req.At.Before(open.PunchInTime) {
			return timecard.ErrPunchOutBeforeIn
		}

		if err := s.timeCardRepo.Close(ctx, open.ID, open.CompanyID, req.At); err != nil {
			return err
		}
		open.PunchOutTime = &req.At

		configs, err := s.shiftConfigRepo.GetByJobIDs(ctx, open.CompanyID, []string{open.JobID})
		if err != nil {
			return fmt.Errorf("failed to get job shift config: %w", err)
		}
		cfg, ok := configs[open.JobID]
		if !ok {
			cfg = timecard.NewJobShiftConfig(open.CompanyID, open.JobID)
		}

		resolver, err := LoadSettingsResolver(ctx, s.settingsRepo, open.CompanyID)
		if err != nil {
			return err
		}

		adj := Adjust(*open, cfg, resolver.Resolve(open.JobID))
		if err := s.timeCardRepo.UpdateAdjusted(ctx, open.ID, open.CompanyID, adj); err != nil {
			return err
		}

		open.AdjustedPunchIn = &adj.PunchIn
		open.AdjustedPunchOut = &adj.PunchOut
		open.TotalHours = adj.TotalHours
		open.OvertimeHours = adj.OvertimeHours
		closed = *open
		return nil
	})
	if err != nil {
		return timecard.TimeCardResponse{}, err
	}

	return timecard.NewTimeCardResponse(closed), nil
}

// Get implements timecard.TimeCardService.
func (s *TimeCardServiceImpl) Get(ctx context.Context, id string, companyID string) (timecard.TimeCardResponse, error) {
	if !validator.IsValidUUID(id) {
		return timecard.TimeCardResponse{}, timecard.ErrTimeCardNotFound
	}
	tc, err := s.timeCardRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return timecard.TimeCardResponse{}, err
	}
	return timecard.NewTimeCardResponse(tc), nil
}

// List implements timecard.TimeCardService.
func (s *TimeCardServiceImpl) List(ctx context.Context, filter timecard.TimeCardFilter) (timecard.ListTimeCardResponse, error) {
	if err := filter.Validate(); err != nil {
		return timecard.ListTimeCardResponse{}, err
	}

	cards, total, err := s.timeCardRepo.List(ctx, filter)
	if err != nil {
		return timecard.ListTimeCardResponse{}, fmt.Errorf("failed to list time cards: %w", err)
	}

	resp := timecard.ListTimeCardResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		TimeCards:  make([]timecard.TimeCardResponse, 0, len(cards)),
	}
	for _, c := range cards {
		resp.TimeCards = append(resp.TimeCards, timecard.NewTimeCardResponse(c))
	}

	return resp, nil
}

// Delete implements timecard.TimeCardService.
func (s *TimeCardServiceImpl) Delete(ctx context.Context, id string, companyID string) error {
	if !validator.IsValidUUID(id) {
		return timecard.ErrTimeCardNotFound
	}
	return s.timeCardRepo.SoftDelete(ctx, id, companyID)
}

// UpsertShiftConfig implements timecard.TimeCardService.
func (s *TimeCardServiceImpl) UpsertShiftConfig(ctx context.Context, req timecard.UpsertShiftConfigRequest) (timecard.ShiftConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return timecard.ShiftConfigResponse{}, err
	}

	saved, err := s.shiftConfigRepo.Upsert(ctx, req.ToEntity())
	if err != nil {
		return timecard.ShiftConfigResponse{}, fmt.Errorf("failed to save job shift config: %w", err)
	}

	return timecard.NewShiftConfigResponse(saved), nil
}

// UpsertSettings implements timecard.TimeCardService.
func (s *TimeCardServiceImpl) UpsertSettings(ctx context.Context, req timecard.UpsertSettingsRequest) (timecard.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return timecard.SettingsResponse{}, err
	}

	saved, err := s.settingsRepo.Upsert(ctx, req.ToEntity())
	if err != nil {
		return timecard.SettingsResponse{}, fmt.Errorf("failed to save punch clock settings: %w", err)
	}

	return timecard.NewSettingsResponse(saved), nil
}
