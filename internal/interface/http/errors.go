package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-taskboard/internal/domain/apperror"
	"github.com/oksasatya/go-taskboard/pkg/response"
	"github.com/oksasatya/go-taskboard/pkg/validation"
)

func statusFor(k apperror.Kind) int {
	switch k {
	case apperror.KindValidation, apperror.KindConflict:
		return http.StatusBadRequest
	case apperror.KindAuth:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError renders err as a failure envelope. Errors that are not an
// *apperror.Error are logged and reported as a generic 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var ae *apperror.Error
	if errors.As(err, &ae) {
		response.Error(c, statusFor(ae.Kind), ae.Message, ae.Fields)
		return
	}
	if logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
}

// respondBindError renders a binding failure with per-field messages. order
// picks which field supplies the top-level message when several fail.
func respondBindError(c *gin.Context, err error, order ...string) {
	details := validation.ToDetails(err)
	response.Error(c, http.StatusBadRequest, validation.First(details, order...), details)
}
