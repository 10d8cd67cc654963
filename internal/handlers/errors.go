package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anudeepvarma123/TalentTrack/internal/logger"
	"github.com/anudeepvarma123/TalentTrack/internal/middleware"
	"github.com/anudeepvarma123/TalentTrack/internal/services"
)

// statusFor maps domain errors to HTTP status codes. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidOrExpiredToken),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrInvalidLeaveType),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrQuotaExceeded):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrEmailNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrEmployeeNotFound),
		errors.Is(err, services.ErrNoPendingRequest):
		return http.StatusNotFound
	case errors.Is(err, services.ErrProfileMissing),
		errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error": ...}. Internal failures are logged and
// hidden from the client.
func writeError(c *gin.Context, log *logger.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		middleware.RequestLog(c, log).Error(logger.Entry{
			Action:  "request_failed",
			Message: c.Request.Method + " " + c.FullPath(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{"error": err.Error()}
	if status == http.StatusForbidden {
		body["error"] = "Forbidden"
	}
	var quotaErr *services.QuotaExceededError
	if errors.As(err, &quotaErr) {
		body["remaining"] = quotaErr.Remaining
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data", "details": err.Error()})
}
