package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "userhub/internal/errors"
)

// bindAndValidate decodes the request body and runs struct validation.
// Failures never reach business logic; they come back as 422 with the
// framework's message.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, apperrors.ErrorResponse{
			Detail: "invalid request body",
		})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, apperrors.ErrorResponse{
			Detail: err.Error(),
		})
	}
	return nil
}

// httpError translates a domain error into the echo error the client sees.
func httpError(err error) *echo.HTTPError {
	he := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}
