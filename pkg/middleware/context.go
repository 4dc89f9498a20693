package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Context assigns every request an id, echoed back in the response header
// and picked up by the request logger and error handler.
func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			return next(c)
		}
	}
}
