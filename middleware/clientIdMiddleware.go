package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo"
)

/*
	Echo middleware to ensure a valid `clientId` HTTP query parameter was provided
*/
func MandateClientIdAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// check for clientId query parameter
		clientIdQP := c.QueryParam("clientId")
		if len(clientIdQP) == 0 {
			// if no id was provided return an error
			return echo.NewHTTPError(http.StatusBadRequest, "Missing 'clientId' query parameter!")
		}

		// verify:
		if _, conversionErr := uuid.Parse(clientIdQP); conversionErr != nil {
			// if invalid client id
			return echo.NewHTTPError(http.StatusBadRequest, "Error converting 'clientId' query parameter! Check your input")
		}

		return next(c)
	}
}
