package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// statusFor maps an error onto an HTTP status and a client-safe message.
// Unknown errors become 500 with a fixed message.
func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		return he.Code, msg
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict, common.ErrorConflict.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, common.ErrorUnauthorized.Error()
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "task not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error(c.Request().Context(), "request failed", "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorResponse{StatusCode: code, Message: msg})
	}
	if err != nil {
		s.logger.Error(c.Request().Context(), "error writing response", "error", err)
	}
}
