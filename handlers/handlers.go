// Package handlers maps HTTP verbs and paths onto store and cache
// operations. Handlers are stateless structs holding their injected
// dependencies; every error is converted to the {"error": msg} envelope
// by HTTPErrorHandler.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tech_office_cms_go/apperrors"
)

// HTTPErrorHandler converts errors escaping a handler into the JSON
// error envelope. Unknown errors become a generic 500; their detail is
// logged, not leaked.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		if appErr.Code() >= http.StatusInternalServerError {
			c.Logger().Error(err)
		}
		_ = c.JSON(appErr.Code(), echo.Map{"error": appErr.Message})
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		_ = c.JSON(httpErr.Code, echo.Map{"error": fmt.Sprintf("%v", httpErr.Message)})
		return
	}

	c.Logger().Error(err)
	_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

// paramID parses a numeric :id path parameter.
func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, apperrors.Validation("invalid %s", name)
	}
	return uint(id), nil
}

// HealthHandler reports liveness.
func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
