package timecard

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/pkg/validator"
)

// ========================================
// RECALCULATION DTOs
// ========================================

type RecalculateRequest struct {
	CompanyID string   `json:"company_id"`
	JobIDs    []string `json:"job_ids,omitempty"`
}

// Validate rejects the whole batch before any card is touched.
func (r *RecalculateRequest) Validate() error {
	r.CompanyID = strings.TrimSpace(r.CompanyID)
	if validator.IsEmpty(r.CompanyID) {
		return ErrCompanyIDRequired
	}

	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.CompanyID) {
		errs.Add("company_id", "company_id must be a valid UUID")
	}
	for i, id := range r.JobIDs {
		if !validator.IsValidUUID(id) {
			errs.Add("job_ids", fmt.Sprintf("job_ids[%d] must be a valid UUID", i))
			break
		}
	}

	return errs.Err()
}

type CardError struct {
	TimeCardID string `json:"timecard_id"`
	Error      string `json:"error"`
}

type RecalculateResponse struct {
	Success        bool        `json:"success"`
	TotalProcessed int         `json:"total_processed"`
	UpdatedCount   int         `json:"updated_count"`
	Errors         []CardError `json:"errors,omitempty"`
}

// ========================================
// TIME CARD DTOs
// ========================================

type PunchInRequest struct {
	CompanyID   string  `json:"company_id"`
	JobID       string  `json:"job_id"`
	UserID      string  `json:"user_id"`
	PunchInTime *string `json:"punch_in_time,omitempty"` // RFC3339, defaults to now

	At time.Time `json:"-"`
}

func (r *PunchInRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.CompanyID) {
		errs.Add("company_id", "company_id must be a valid UUID")
	}
	if !validator.IsValidUUID(r.JobID) {
		errs.Add("job_id", "job_id must be a valid UUID")
	}
	if !validator.IsValidUUID(r.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}

	r.At = time.Now().UTC()
	if r.PunchInTime != nil && *r.PunchInTime != "" {
		t, ok := validator.IsValidDateTime(*r.PunchInTime)
		if !ok {
			errs.Add("punch_in_time", "punch_in_time must be an ISO8601 timestamp")
		}
		r.At = t.UTC()
	}

	return errs.Err()
}

type PunchOutRequest struct {
	CompanyID    string  `json:"company_id"`
	UserID       string  `json:"user_id"`
	PunchOutTime *string `json:"punch_out_time,omitempty"` // RFC3339, defaults to now

	At time.Time `json:"-"`
}

func (r *PunchOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.CompanyID) {
		errs.Add("company_id", "company_id must be a valid UUID")
	}
	if !validator.IsValidUUID(r.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}

	r.At = time.Now().UTC()
	if r.PunchOutTime != nil && *r.PunchOutTime != "" {
		t, ok := validator.IsValidDateTime(*r.PunchOutTime)
		if !ok {
			errs.Add("punch_out_time", "punch_out_time must be an ISO8601 timestamp")
		}
		r.At = t.UTC()
	}

	return errs.Err()
}

type TimeCardResponse struct {
	ID               string   `json:"id"`
	CompanyID        string   `json:"company_id"`
	JobID            string   `json:"job_id"`
	UserID           string   `json:"user_id"`
	PunchInTime      string   `json:"punch_in_time"`
	PunchOutTime     *string  `json:"punch_out_time,omitempty"`
	AdjustedPunchIn  *string  `json:"adjusted_punch_in,omitempty"`
	AdjustedPunchOut *string  `json:"adjusted_punch_out,omitempty"`
	TotalHours       *float64 `json:"total_hours,omitempty"`
	OvertimeHours    *float64 `json:"overtime_hours,omitempty"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// NewTimeCardResponse renders a card; hours are only reported once the card is closed.
func NewTimeCardResponse(tc TimeCard) TimeCardResponse {
	resp := TimeCardResponse{
		ID:               tc.ID,
		CompanyID:        tc.CompanyID,
		JobID:            tc.JobID,
		UserID:           tc.UserID,
		PunchInTime:      tc.PunchInTime.UTC().Format(time.RFC3339),
		PunchOutTime:     formatTimePtr(tc.PunchOutTime),
		AdjustedPunchIn:  formatTimePtr(tc.AdjustedPunchIn),
		AdjustedPunchOut: formatTimePtr(tc.AdjustedPunchOut),
		CreatedAt:        tc.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        tc.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if tc.PunchOutTime != nil {
		total, overtime := tc.TotalHours, tc.OvertimeHours
		resp.TotalHours = &total
		resp.OvertimeHours = &overtime
	}
	return resp
}

type TimeCardFilter struct {
	CompanyID string  `json:"company_id"`
	JobID     *string `json:"job_id,omitempty"`
	UserID    *string `json:"user_id,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD, on punch in
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD, inclusive

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *TimeCardFilter) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(f.CompanyID) {
		errs.Add("company_id", "company_id must be a valid UUID")
	}
	if f.JobID != nil && !validator.IsValidUUID(*f.JobID) {
		errs.Add("job_id", "job_id must be a valid UUID")
	}
	if f.UserID != nil && !validator.IsValidUUID(*f.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

type ListTimeCardResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	TimeCards  []TimeCardResponse `json:"time_cards"`
}

// ========================================
// CONFIGURATION DTOs
// ========================================

type UpsertShiftConfigRequest struct {
	CompanyID                string  `json:"company_id"`
	JobID                    string  `json:"-"`
	ShiftStartTime           *string `json:"shift_start_time"` // HH:MM[:SS]
	ShiftEndTime             *string `json:"shift_end_time"`
	CountEarlyPunchIn        *bool   `json:"count_early_punch_in"`
	EarlyPunchInGraceMinutes *int    `json:"early_punch_in_grace_minutes"`
	CountLatePunchOut        *bool   `json:"count_late_punch_out"`
	LateGraceMinutes         *int    `json:"late_grace_minutes"`
	Timezone                 *string `json:"timezone"`
}

func (r *UpsertShiftConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.CompanyID) {
		errs.Add("company_id", "company_id must be a valid UUID")
	}
	if !validator.IsValidUUID(r.JobID) {
		errs.Add("job_id", "job_id must be a valid UUID")
	}

	hasStart := r.ShiftStartTime != nil && *r.ShiftStartTime != ""
	hasEnd := r.ShiftEndTime != nil && *r.ShiftEndTime != ""
	if hasStart != hasEnd {
		errs.Add("shift_end_time", "shift_start_time and shift_end_time must be set together")
	}
	if hasStart {
		if _, err := ParseTimeOfDay(*r.ShiftStartTime); err != nil {
			errs.Add("shift_start_time", "shift_start_time must be in HH:MM or HH:MM:SS format")
		}
	}
	if hasEnd {
		if _, err := ParseTimeOfDay(*r.ShiftEndTime); err != nil {
			errs.Add("shift_end_time", "shift_end_time must be in HH:MM or HH:MM:SS format")
		}
	}

	if r.EarlyPunchInGraceMinutes != nil && *r.EarlyPunchInGraceMinutes < 0 {
		errs.Add("early_punch_in_grace_minutes", "early_punch_in_grace_minutes must not be negative")
	}
	if r.LateGraceMinutes != nil && *r.LateGraceMinutes < 0 {
		errs.Add("late_grace_minutes", "late_grace_minutes must not be negative")
	}
	if r.Timezone != nil && !validator.IsValidTimezone(*r.Timezone) {
		errs.Add("timezone", "timezone must be a valid IANA timezone")
	}

	return errs.Err()
}

// ToEntity applies column defaults to omitted fields. Call after Validate.
func (r UpsertShiftConfigRequest) ToEntity() JobShiftConfig {
	cfg := NewJobShiftConfig(r.CompanyID, r.JobID)
	if r.ShiftStartTime != nil && *r.ShiftStartTime != "" {
		start, _ := ParseTimeOfDay(*r.ShiftStartTime)
		cfg.ShiftStartTime = &start
	}
	if r.ShiftEndTime != nil && *r.ShiftEndTime != "" {
		end, _ := ParseTimeOfDay(*r.ShiftEndTime)
		cfg.ShiftEndTime = &end
	}
	if r.CountEarlyPunchIn != nil {
		cfg.CountEarlyPunchIn = *r.CountEarlyPunchIn
	}
	if r.EarlyPunchInGraceMinutes != nil {
		cfg.EarlyPunchInGraceMinutes = *r.EarlyPunchInGraceMinutes
	}
	if r.CountLatePunchOut != nil {
		cfg.CountLatePunchOut = *r.CountLatePunchOut
	}
	if r.LateGraceMinutes != nil {
		cfg.LateGraceMinutes = *r.LateGraceMinutes
	}
	if r.Timezone != nil {
		cfg.Timezone = *r.Timezone
	}
	return cfg
}

type ShiftConfigResponse struct {
	JobID                    string  `json:"job_id"`
	CompanyID                string  `json:"company_id"`
	ShiftStartTime           *string `json:"shift_start_time"`
	ShiftEndTime             *string `json:"shift_end_time"`
	CountEarlyPunchIn        bool    `json:"count_early_punch_in"`
	EarlyPunchInGraceMinutes int     `json:"early_punch_in_grace_minutes"`
	CountLatePunchOut        bool    `json:"count_late_punch_out"`
	LateGraceMinutes         int     `json:"late_grace_minutes"`
	Timezone                 string  `json:"timezone"`
}

func NewShiftConfigResponse(cfg JobShiftConfig) ShiftConfigResponse {
	resp := ShiftConfigResponse{
		JobID:                    cfg.JobID,
		CompanyID:                cfg.CompanyID,
		CountEarlyPunchIn:        cfg.CountEarlyPunchIn,
		EarlyPunchInGraceMinutes: cfg.EarlyPunchInGraceMinutes,
		CountLatePunchOut:        cfg.CountLatePunchOut,
		LateGraceMinutes:         cfg.LateGraceMinutes,
		Timezone:                 cfg.Timezone,
	}
	if cfg.ShiftStartTime != nil {
		s := cfg.ShiftStartTime.String()
		resp.ShiftStartTime = &s
	}
	if cfg.ShiftEndTime != nil {
		s := cfg.ShiftEndTime.String()
		resp.ShiftEndTime = &s
	}
	return resp
}

type UpsertSettingsRequest struct {
	CompanyID                string   `json:"company_id"`
	JobID                    *string  `json:"job_id,omitempty"` // nil means company-wide
	CalculateOvertime        *bool    `json:"calculate_overtime"`
	OvertimeThresholdHours   *float64 `json:"overtime_threshold_hours"`
	AutoBreakDurationMinutes *int     `json:"auto_break_duration_minutes"`
	AutoBreakWaitHours       *float64 `json:"auto_break_wait_hours"`
}

func (r *UpsertSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.CompanyID) {
		errs.Add("company_id", "company_id must be a valid UUID")
	}
	if r.JobID != nil && !validator.IsValidUUID(*r.JobID) {
		errs.Add("job_id", "job_id must be a valid UUID")
	}
	if r.OvertimeThresholdHours != nil && *r.OvertimeThresholdHours <= 0 {
		errs.Add("overtime_threshold_hours", "overtime_threshold_hours must be greater than 0")
	}
	if r.AutoBreakDurationMinutes != nil && *r.AutoBreakDurationMinutes < 0 {
		errs.Add("auto_break_duration_minutes", "auto_break_duration_minutes must not be negative")
	}
	if r.AutoBreakWaitHours != nil && *r.AutoBreakWaitHours < 0 {
		errs.Add("auto_break_wait_hours", "auto_break_wait_hours must not be negative")
	}

	return errs.Err()
}

// ToEntity applies the hard defaults to omitted fields. Call after Validate.
func (r UpsertSettingsRequest) ToEntity() PunchClockSettings {
	s := DefaultPunchClockSettings()
	s.CompanyID = r.CompanyID
	s.JobID = r.JobID
	if r.CalculateOvertime != nil {
		s.CalculateOvertime = *r.CalculateOvertime
	}
	if r.OvertimeThresholdHours != nil {
		s.OvertimeThresholdHours = *r.OvertimeThresholdHours
	}
	if r.AutoBreakDurationMinutes != nil {
		s.AutoBreakDurationMinutes = *r.AutoBreakDurationMinutes
	}
	if r.AutoBreakWaitHours != nil {
		s.AutoBreakWaitHours = *r.AutoBreakWaitHours
	}
	return s
}

type SettingsResponse struct {
	CompanyID                string  `json:"company_id"`
	JobID                    *string `json:"job_id"`
	CalculateOvertime        bool    `json:"calculate_overtime"`
	OvertimeThresholdHours   float64 `json:"overtime_threshold_hours"`
	AutoBreakDurationMinutes int     `json:"auto_break_duration_minutes"`
	AutoBreakWaitHours       float64 `json:"auto_break_wait_hours"`
}

func NewSettingsResponse(s PunchClockSettings) SettingsResponse {
	return SettingsResponse{
		CompanyID:                s.CompanyID,
		JobID:                    s.JobID,
		CalculateOvertime:        s.CalculateOvertime,
		OvertimeThresholdHours:   s.OvertimeThresholdHours,
		AutoBreakDurationMinutes: s.AutoBreakDurationMinutes,
		AutoBreakWaitHours:       s.AutoBreakWaitHours,
	}
}
