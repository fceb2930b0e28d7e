package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/punchclock-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/punchclock-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing access token")
	case errors.Is(err, jwt.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, timecard.ErrForbiddenCompany):
		Forbidden(w, "Not allowed to act on this company")

	// Timecard domain errors
	case errors.Is(err, timecard.ErrCompanyIDRequired):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, timecard.ErrTimeCardNotFound):
		NotFound(w, "Time card not found")
	case errors.Is(err, timecard.ErrAlreadyPunchedIn):
		Conflict(w, "User already has an open time card")
	case errors.Is(err, timecard.ErrNotPunchedIn):
		Conflict(w, "User has no open time card")
	case errors.Is(err, timecard.ErrPunchOutBeforeIn):
		BadRequest(w, "Punch out time is before punch in time", nil)

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
