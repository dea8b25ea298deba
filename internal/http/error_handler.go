package http

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "edu-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

// CustomHTTPErrorHandler handles all errors returned by handlers and middleware.
// It maps sentinel errors to appropriate HTTP status codes, sanitizes internal errors,
// and logs errors with request context.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	} else {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			code = http.StatusNotFound
			message = "Resource not found"
		case errors.Is(err, apperrors.ErrUnauthenticated):
			code = http.StatusUnauthorized
			message = "Unauthenticated"
		case errors.Is(err, apperrors.ErrExpired):
			code = http.StatusUnauthorized
			message = "Credentials expired"
		case errors.Is(err, apperrors.ErrForbidden):
			code = http.StatusForbidden
			message = "Forbidden"
		case errors.Is(err, apperrors.ErrBadRequest):
			code = http.StatusBadRequest
			message = "Bad request"
		case errors.Is(err, apperrors.ErrInvalidIdentity):
			code = http.StatusBadRequest
			message = "Invalid identity"
		case errors.Is(err, apperrors.ErrConflict):
			code = http.StatusConflict
			message = "Resource already exists"
		}

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			// Use the message from AppError if it's a client error
			if code < 500 {
				message = appErr.Message
			}
		}
	}

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = "unknown"
	}

	if code >= 500 {
		c.Logger().Error("internal_server_error",
			"request_id", requestID,
			"status", code,
			"error", err.Error())
		// Don't expose internal errors to clients
		message = "Internal server error"
	} else {
		c.Logger().Warn("client_error",
			"request_id", requestID,
			"status", code,
			"error", err.Error())
	}

	if err := c.JSON(code, map[string]interface{}{
		"error":      message,
		"request_id": requestID,
	}); err != nil {
		c.Logger().Error(err)
	}
}
