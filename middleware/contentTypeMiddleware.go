package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo"
)

/*
	Echo middleware to ensure JSON-RPC POST bodies declare a JSON content type
*/
func MandateJsonContentType(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		contentType := c.Request().Header.Get(echo.HeaderContentType)
		if !strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
			return echo.NewHTTPError(http.StatusUnsupportedMediaType, "Expected 'application/json' content type!")
		}
		return next(c)
	}
}
