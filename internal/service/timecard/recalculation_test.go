package timecard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/pkg/validator"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recalcFixture struct {
	companyID string
	jobID     string
	cards     *fakeTimeCardRepo
	configs   *fakeShiftConfigRepo
	settings  *fakeSettingsRepo
	svc       *RecalculationServiceImpl
}

func closedCard(companyID, jobID string, in, out time.Time) timecard.TimeCard {
	return timecard.TimeCard{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		JobID:        jobID,
		UserID:       uuid.NewString(),
		PunchInTime:  in,
		PunchOutTime: &out,
	}
}

func newRecalcFixture(cards ...func(companyID, jobID string) timecard.TimeCard) *recalcFixture {
	f := &recalcFixture{companyID: uuid.NewString(), jobID: uuid.NewString()}

	built := make([]timecard.TimeCard, 0, len(cards))
	for _, mk := range cards {
		built = append(built, mk(f.companyID, f.jobID))
	}

	cfg := timecard.NewJobShiftConfig(f.companyID, f.jobID)
	cfg.ShiftStartTime = tod(8, 0)
	cfg.ShiftEndTime = tod(16, 0)
	cfg.CountLatePunchOut = false

	f.cards = newFakeTimeCardRepo(built...)
	f.configs = newFakeShiftConfigRepo(cfg)
	f.settings = &fakeSettingsRepo{}
	f.svc = NewRecalculationService(f.cards, f.configs, f.settings).(*RecalculationServiceImpl)
	f.svc.now = func() time.Time { return at(10, 12, 0, 0) }
	return f
}

func dayCard(in, out time.Time) func(companyID, jobID string) timecard.TimeCard {
	return func(companyID, jobID string) timecard.TimeCard {
		return closedCard(companyID, jobID, in, out)
	}
}

func TestRecalculate_UpdatesClosedCards(t *testing.T) {
	f := newRecalcFixture(dayCard(at(3, 7, 50, 0), at(3, 16, 10, 0)))
	id := f.cards.order[0]

	resp, err := f.svc.Recalculate(context.Background(), timecard.RecalculateRequest{CompanyID: f.companyID})
	require.NoError(t, err)

	assert.Equal(t, timecard.RecalculateResponse{Success: true, TotalProcessed: 1, UpdatedCount: 1}, resp)

	got := f.cards.card(id)
	require.NotNil(t, got.AdjustedPunchIn)
	assert.Equal(t, at(3, 8, 0, 0), *got.AdjustedPunchIn)
	assert.Equal(t, at(3, 16, 0, 0), *got.AdjustedPunchOut)
	assert.InDelta(t, 7.5, got.TotalHours, 1e-9)
	assert.Equal(t, at(3, 7, 50, 0), got.PunchInTime, "original punch in must be preserved")
}

func TestRecalculate_Idempotent(t *testing.T) {
	f := newRecalcFixture(
		dayCard(at(3, 7, 50, 0), at(3, 16, 10, 0)),
		dayCard(at(4, 7, 30, 0), at(4, 18, 0, 0)),
	)
	req := timecard.RecalculateRequest{CompanyID: f.companyID}

	_, err := f.svc.Recalculate(context.Background(), req)
	require.NoError(t, err)
	first := []timecard.TimeCard{f.cards.card(f.cards.order[0]), f.cards.card(f.cards.order[1])}

	_, err = f.svc.Recalculate(context.Background(), req)
	require.NoError(t, err)
	second := []timecard.TimeCard{f.cards.card(f.cards.order[0]), f.cards.card(f.cards.order[1])}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run changed cards (-first +second):\n%s", diff)
	}
}

func TestRecalculate_SkipsJobsWithoutConfig(t *testing.T) {
	otherJob := uuid.NewString()
	f := newRecalcFixture(
		dayCard(at(3, 7, 50, 0), at(3, 16, 0, 0)),
		func(companyID, _ string) timecard.TimeCard {
			return closedCard(companyID, otherJob, at(3, 7, 50, 0), at(3, 16, 0, 0))
		},
	)

	result, err := f.svc.Run(context.Background(), timecard.RecalculateRequest{CompanyID: f.companyID})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalProcessed())
	assert.Equal(t, 1, result.Count(timecard.OutcomeUpdated))
	assert.Equal(t, 1, result.Count(timecard.OutcomeSkipped))
	assert.Empty(t, result.Errors())

	skipped := f.cards.card(f.cards.order[1])
	assert.Nil(t, skipped.AdjustedPunchIn)
	assert.ErrorIs(t, result.Outcomes[1].Err, timecard.ErrShiftConfigMissing)
}

func TestRecalculate_JobFilter(t *testing.T) {
	otherJob := uuid.NewString()
	f := newRecalcFixture(
		dayCard(at(3, 7, 50, 0), at(3, 16, 0, 0)),
		func(companyID, _ string) timecard.TimeCard {
			return closedCard(companyID, otherJob, at(3, 7, 50, 0), at(3, 16, 0, 0))
		},
	)

	resp, err := f.svc.Recalculate(context.Background(), timecard.RecalculateRequest{
		CompanyID: f.companyID,
		JobIDs:    []string{f.jobID},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalProcessed)
	assert.Equal(t, []string{f.cards.order[0]}, f.cards.updates)
}

func TestRecalculate_PartialFailure(t *testing.T) {
	f := newRecalcFixture(
		dayCard(at(3, 8, 0, 0), at(3, 16, 0, 0)),
		dayCard(at(4, 8, 0, 0), at(4, 16, 0, 0)),
		dayCard(at(5, 8, 0, 0), at(5, 16, 0, 0)),
	)
	failing := f.cards.order[1]
	f.cards.updateErr[failing] = errWriteFailed

	resp, err := f.svc.Recalculate(context.Background(), timecard.RecalculateRequest{CompanyID: f.companyID})
	require.NoError(t, err)

	want := timecard.RecalculateResponse{
		Success:        true,
		TotalProcessed: 3,
		UpdatedCount:   2,
		Errors:         []timecard.CardError{{TimeCardID: failing, Error: errWriteFailed.Error()}},
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
	assert.ElementsMatch(t, []string{f.cards.order[0], f.cards.order[2]}, f.cards.updates)
}

func TestRecalculate_UsesEffectiveSettings(t *testing.T) {
	f := newRecalcFixture(dayCard(at(3, 8, 0, 0), at(3, 18, 30, 0)))
	f.settings.rows = []timecard.PunchClockSettings{{
		CompanyID:                f.companyID,
		CalculateOvertime:        true,
		OvertimeThresholdHours:   8,
		AutoBreakDurationMinutes: 30,
		AutoBreakWaitHours:       6,
	}}

	result, err := f.svc.Run(context.Background(), timecard.RecalculateRequest{CompanyID: f.companyID})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)

	want := &timecard.Adjustment{
		PunchIn:       at(3, 8, 0, 0),
		PunchOut:      at(3, 18, 30, 0),
		TotalHours:    10,
		OvertimeHours: 2,
	}
	if diff := cmp.Diff(want, result.Outcomes[0].Adjustment, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("adjustment mismatch (-want +got):\n%s", diff)
	}
}

func TestRecalculate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     timecard.RecalculateRequest
		wantErr error
	}{
		{"missing company", timecard.RecalculateRequest{}, timecard.ErrCompanyIDRequired},
		{"blank company", timecard.RecalculateRequest{CompanyID: "   "}, timecard.ErrCompanyIDRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRecalcFixture(dayCard(at(3, 8, 0, 0), at(3, 16, 0, 0)))

			_, err := f.svc.Recalculate(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, "company_id is required", err.Error())
			assert.Empty(t, f.cards.updates)
			assert.Zero(t, f.configs.calls)
		})
	}

	t.Run("malformed ids", func(t *testing.T) {
		f := newRecalcFixture()

		_, err := f.svc.Recalculate(context.Background(), timecard.RecalculateRequest{CompanyID: "nope", JobIDs: []string{"bad"}})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "company_id")
		assert.Contains(t, verrs.ToMap(), "job_ids")
	})
}

func TestRecalculate_ListFailure(t *testing.T) {
	f := newRecalcFixture()
	f.cards.listErr = errors.New("connection refused")

	_, err := f.svc.Recalculate(context.Background(), timecard.RecalculateRequest{CompanyID: f.companyID})
	require.Error(t, err)
	assert.ErrorIs(t, err, f.cards.listErr)
	assert.Zero(t, f.settings.calls)
}

func TestRecalculate_NoCards(t *testing.T) {
	f := newRecalcFixture()

	resp, err := f.svc.Recalculate(context.Background(), timecard.RecalculateRequest{CompanyID: f.companyID})
	require.NoError(t, err)
	assert.Equal(t, timecard.RecalculateResponse{Success: true}, resp)
	assert.Zero(t, f.configs.calls)
}

func TestRecalculate_ContextCanceled(t *testing.T) {
	f := newRecalcFixture(
		dayCard(at(3, 8, 0, 0), at(3, 16, 0, 0)),
		dayCard(at(4, 8, 0, 0), at(4, 16, 0, 0)),
		dayCard(at(5, 8, 0, 0), at(5, 16, 0, 0)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.cards.onUpdate = cancel

	result, err := f.svc.Run(ctx, timecard.RecalculateRequest{CompanyID: f.companyID})
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, result.Outcomes, 1)
	assert.Len(t, f.cards.updates, 1)
}
