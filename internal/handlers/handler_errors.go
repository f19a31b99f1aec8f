package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/payslip_portal/internal/apperrors"
	"github.com/SscSPs/payslip_portal/internal/dto"
	"github.com/SscSPs/payslip_portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusForError maps a service error onto an HTTP status code.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// respondError writes the error envelope. Client errors echo the service message; server errors
// are logged and prefixed with fallback.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromContext(c)
	code := statusForError(err)
	if code >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(code, dto.ErrorResponse{Status: "error", Message: fallback + ": " + err.Error()})
		return
	}
	logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", code))
	c.JSON(code, dto.ErrorResponse{Status: "error", Message: err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Status: "error", Message: message})
}
