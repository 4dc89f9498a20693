package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

// ErrorResponse is the uniform JSON error body.
type ErrorResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// Error is the central HTTP error handler: it maps domain errors onto status
// codes so handlers can just return them.
func Error(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal Server Error"

		var he *echo.HTTPError
		var invalidProfile *models.InvalidProfileError
		switch {
		case errors.As(err, &he):
			code = he.Code
			if msg, ok := he.Message.(string); ok {
				message = msg
			}
		case errors.Is(err, models.ErrNotFound):
			code = http.StatusNotFound
			message = "not found"
		case errors.Is(err, models.ErrInvalidTransition):
			code = http.StatusConflict
			message = err.Error()
		case errors.As(err, &invalidProfile):
			code = http.StatusBadRequest
			message = err.Error()
		}

		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		logger.Error("api is returning an error",
			zap.Int("status", code),
			zap.String("request_id", requestID),
			zap.String("route", c.Path()),
			zap.Error(err))

		_ = c.JSON(code, ErrorResponse{Message: message, RequestID: requestID})
	}
}
