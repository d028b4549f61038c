package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-portal/internal/middleware"
	"github.com/stemsi/exam-portal/internal/response"
	"github.com/stemsi/exam-portal/internal/service"
)

// failService maps a service error onto the response envelope.
// Unrecognized errors are logged and reported as 500.
func failService(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrAccessDenied):
		response.Fail(c, http.StatusForbidden, response.ErrAccessDenied)
	case errors.Is(err, service.ErrNotReady):
		response.Fail(c, http.StatusConflict, response.ErrExamNotReady)
	case errors.Is(err, service.ErrAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrConstraintViolation):
		response.Fail(c, http.StatusConflict, response.ErrConstraintViolation)
	case errors.Is(err, service.ErrInvalidCorrectOption):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidCorrectOption,
			map[string]string{"correct_option": response.GetMessage(response.ErrInvalidCorrectOption)})
	default:
		log.Error().Err(err).
			Str("request_id", response.RequestID(c)).
			Str("path", c.FullPath()).
			Msg("Request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// parseID reads a positive int64 path parameter, writing a 400 if it is malformed.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// identity returns the authenticated caller, writing a 401 if there is none.
func identity(c *gin.Context) (service.Identity, bool) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
	}
	return id, ok
}
