package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

type TimeCardHandler interface {
	Recalculate(w http.ResponseWriter, r *http.Request)
	PunchIn(w http.ResponseWriter, r *http.Request)
	PunchOut(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	UpsertShiftConfig(w http.ResponseWriter, r *http.Request)
	UpsertSettings(w http.ResponseWriter, r *http.Request)
}

type timeCardHandlerImpl struct {
	recalculationService timecard.RecalculationService
	timeCardService      timecard.TimeCardService
	authEnabled          bool
}

// NewTimeCardHandler builds the handler. With authEnabled the caller's token
// scopes every request to the company in its claims.
func NewTimeCardHandler(recalculationService timecard.RecalculationService, timeCardService timecard.TimeCardService, authEnabled bool) TimeCardHandler {
	return &timeCardHandlerImpl{
		recalculationService: recalculationService,
		timeCardService:      timeCardService,
		authEnabled:          authEnabled,
	}
}

// resolveCompany picks the company a request acts on: the requested one when
// given, else the token's company claim.
func (h *timeCardHandlerImpl) resolveCompany(r *http.Request, requested string) (string, error) {
	if h.authEnabled {
		claims, err := jwt.ClaimsFromContext(r.Context())
		if err != nil {
			return "", err
		}
		if requested == "" && claims.CompanyID != nil {
			return *claims.CompanyID, nil
		}
		if requested != "" && !claims.CanActOn(requested) {
			return "", timecard.ErrForbiddenCompany
		}
	}

	if requested == "" {
		return "", timecard.ErrCompanyIDRequired
	}
	return requested, nil
}

func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Recalculate implements TimeCardHandler. It answers in the flat
// {success, total_processed, updated_count, errors} / {error} shape that
// existing callers of /recalculate-timecards consume.
func (h *timeCardHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	var req timecard.RecalculateRequest
	if err := decodeJSON(r, &req); err != nil {
		response.ErrorMessage(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if h.authEnabled && req.CompanyID != "" {
		if _, err := h.resolveCompany(r, req.CompanyID); err != nil {
			response.ErrorMessage(w, http.StatusForbidden, err.Error())
			return
		}
	}

	result, err := h.recalculationService.Recalculate(r.Context(), req)
	if err != nil {
		slog.Error("Failed to recalculate time cards", "company_id", req.CompanyID, "error", err)
		response.ErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// PunchIn implements TimeCardHandler.
func (h *timeCardHandlerImpl) PunchIn(w http.ResponseWriter, r *http.Request) {
	var req timecard.PunchInRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	companyID, err := h.resolveCompany(r, req.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.CompanyID = companyID

	result, err := h.timeCardService.PunchIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch in successful", result)
}

// PunchOut implements TimeCardHandler.
func (h *timeCardHandlerImpl) PunchOut(w http.ResponseWriter, r *http.Request) {
	var req timecard.PunchOutRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	companyID, err := h.resolveCompany(r, req.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.CompanyID = companyID

	result, err := h.timeCardService.PunchOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Punch out successful", result)
}

// List implements TimeCardHandler.
func (h *timeCardHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	companyID, err := h.resolveCompany(r, query.Get("company_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := timecard.TimeCardFilter{CompanyID: companyID}

	if jobID := query.Get("job_id"); jobID != "" {
		filter.JobID = &jobID
	}
	if userID := query.Get("user_id"); userID != "" {
		filter.UserID = &userID
	}
	if startDate := query.Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := query.Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}

	if p := query.Get("page"); p != "" {
		if page, err := strconv.Atoi(p); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if l := query.Get("limit"); l != "" {
		if limit, err := strconv.Atoi(l); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	result, err := h.timeCardService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.TimeCards, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Get implements TimeCardHandler.
func (h *timeCardHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	companyID, err := h.resolveCompany(r, r.URL.Query().Get("company_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.timeCardService.Get(r.Context(), chi.URLParam(r, "id"), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Delete implements TimeCardHandler.
func (h *timeCardHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	companyID, err := h.resolveCompany(r, r.URL.Query().Get("company_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.timeCardService.Delete(r.Context(), chi.URLParam(r, "id"), companyID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time card deleted successfully", nil)
}

// UpsertShiftConfig implements TimeCardHandler.
func (h *timeCardHandlerImpl) UpsertShiftConfig(w http.ResponseWriter, r *http.Request) {
	var req timecard.UpsertShiftConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.JobID = chi.URLParam(r, "jobID")

	companyID, err := h.resolveCompany(r, req.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.CompanyID = companyID

	result, err := h.timeCardService.UpsertShiftConfig(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift configuration saved", result)
}

// UpsertSettings implements TimeCardHandler.
func (h *timeCardHandlerImpl) UpsertSettings(w http.ResponseWriter, r *http.Request) {
	var req timecard.UpsertSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	companyID, err := h.resolveCompany(r, req.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.CompanyID = companyID

	result, err := h.timeCardService.UpsertSettings(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Punch clock settings saved", result)
}
