package timecard

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/domain/timecard"
	"github.com/google/uuid"
)

type fakeTimeCardRepo struct {
	mu        sync.Mutex
	cards     map[string]timecard.TimeCard
	order     []string
	listErr   error
	updateErr map[string]error
	updates   []string
	onUpdate  func()
}

func newFakeTimeCardRepo(cards ...timecard.TimeCard) *fakeTimeCardRepo {
	r := &fakeTimeCardRepo{cards: map[string]timecard.TimeCard{}, updateErr: map[string]error{}}
	for _, c := range cards {
		r.cards[c.ID] = c
		r.order = append(r.order, c.ID)
	}
	return r
}

func (r *fakeTimeCardRepo) ListClosed(ctx context.Context, companyID string, jobIDs []string) ([]timecard.TimeCard, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []timecard.TimeCard
	for _, id := range r.order {
		c := r.cards[id]
		if c.CompanyID != companyID || !c.IsClosed() {
			continue
		}
		if len(jobIDs) > 0 && !slices.Contains(jobIDs, c.JobID) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeTimeCardRepo) UpdateAdjusted(ctx context.Context, id string, companyID string, adj timecard.Adjustment) error {
	if r.onUpdate != nil {
		r.onUpdate()
	}
	if err := r.updateErr[id]; err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cards[id]
	if !ok || c.CompanyID != companyID {
		return timecard.ErrTimeCardNotFound
	}
	c.AdjustedPunchIn = &adj.PunchIn
	c.AdjustedPunchOut = &adj.PunchOut
	c.TotalHours = adj.TotalHours
	c.OvertimeHours = adj.OvertimeHours
	r.cards[id] = c
	r.updates = append(r.updates, id)
	return nil
}

func (r *fakeTimeCardRepo) Create(ctx context.Context, tc timecard.TimeCard) (timecard.TimeCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tc.ID = uuid.NewString()
	tc.CreatedAt = tc.PunchInTime
	tc.UpdatedAt = tc.PunchInTime
	r.cards[tc.ID] = tc
	r.order = append(r.order, tc.ID)
	return tc, nil
}

func (r *fakeTimeCardRepo) GetByID(ctx context.Context, id string, companyID string) (timecard.TimeCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cards[id]
	if !ok || c.CompanyID != companyID || c.DeletedAt != nil {
		return timecard.TimeCard{}, timecard.ErrTimeCardNotFound
	}
	return c, nil
}

func (r *fakeTimeCardRepo) GetOpenByUser(ctx context.Context, userID string, companyID string) (*timecard.TimeCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		c := r.cards[id]
		if c.UserID == userID && c.CompanyID == companyID && c.PunchOutTime == nil && c.DeletedAt == nil {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeTimeCardRepo) Close(ctx context.Context, id string, companyID string, punchOut time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cards[id]
	if !ok || c.CompanyID != companyID || c.PunchOutTime != nil {
		return timecard.ErrNotPunchedIn
	}
	c.PunchOutTime = &punchOut
	r.cards[id] = c
	return nil
}

func (r *fakeTimeCardRepo) List(ctx context.Context, filter timecard.TimeCardFilter) ([]timecard.TimeCard, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []timecard.TimeCard
	for _, id := range r.order {
		c := r.cards[id]
		if c.CompanyID == filter.CompanyID && c.DeletedAt == nil {
			all = append(all, c)
		}
	}

	start := min((filter.Page-1)*filter.Limit, len(all))
	end := min(start+filter.Limit, len(all))
	return all[start:end], int64(len(all)), nil
}

func (r *fakeTimeCardRepo) SoftDelete(ctx context.Context, id string, companyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cards[id]
	if !ok || c.CompanyID != companyID || c.DeletedAt != nil {
		return timecard.ErrTimeCardNotFound
	}
	now := time.Now()
	c.DeletedAt = &now
	r.cards[id] = c
	return nil
}

func (r *fakeTimeCardRepo) card(id string) timecard.TimeCard {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cards[id]
}

type fakeShiftConfigRepo struct {
	configs map[string]timecard.JobShiftConfig
	err     error
	calls   int
}

func newFakeShiftConfigRepo(configs ...timecard.JobShiftConfig) *fakeShiftConfigRepo {
	r := &fakeShiftConfigRepo{configs: map[string]timecard.JobShiftConfig{}}
	for _, c := range configs {
		r.configs[c.JobID] = c
	}
	return r
}

func (r *fakeShiftConfigRepo) GetByJobIDs(ctx context.Context, companyID string, jobIDs []string) (map[string]timecard.JobShiftConfig, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	out := map[string]timecard.JobShiftConfig{}
	for _, id := range jobIDs {
		if c, ok := r.configs[id]; ok && c.CompanyID == companyID {
			out[id] = c
		}
	}
	return out, nil
}

func (r *fakeShiftConfigRepo) Upsert(ctx context.Context, cfg timecard.JobShiftConfig) (timecard.JobShiftConfig, error) {
	if existing, ok := r.configs[cfg.JobID]; ok && existing.CompanyID != cfg.CompanyID {
		return timecard.JobShiftConfig{}, timecard.ErrForbiddenCompany
	}
	cfg.UpdatedAt = time.Now()
	r.configs[cfg.JobID] = cfg
	return cfg, nil
}

type fakeSettingsRepo struct {
	rows  []timecard.PunchClockSettings
	err   error
	calls int
}

func (r *fakeSettingsRepo) ListByCompany(ctx context.Context, companyID string) ([]timecard.PunchClockSettings, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	var out []timecard.PunchClockSettings
	for _, row := range r.rows {
		if row.CompanyID == companyID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeSettingsRepo) Upsert(ctx context.Context, s timecard.PunchClockSettings) (timecard.PunchClockSettings, error) {
	s.UpdatedAt = time.Now()
	for i, row := range r.rows {
		if row.CompanyID == s.CompanyID && equalJobID(row.JobID, s.JobID) {
			r.rows[i] = s
			return s, nil
		}
	}
	r.rows = append(r.rows, s)
	return s, nil
}

func equalJobID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// passthroughTx runs fn inline; the fakes need no transaction.
type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var errWriteFailed = errors.New("write failed")
