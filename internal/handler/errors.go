package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tattler/internal/apperr"
	"github.com/iliyamo/tattler/internal/logger"
)

type errorBody struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
	Details any         `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// ErrorHandler renders every error returned by handlers and middleware as
// {"error": {"code", "message", "details"}}. Echo's own errors (unknown
// route, wrong method, oversized body) keep their status.
func ErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := renderError(err)
		ctx := log.WithField(c.Request().Context(), "code", string(body.Code))
		if status >= http.StatusInternalServerError {
			log.Error(ctx, "request failed", err)
		} else {
			log.Debug(ctx, body.Message)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, errorEnvelope{Error: body})
		}
		if err != nil {
			log.Error(ctx, "write error response", err)
		}
	}
}

func renderError(err error) (int, errorBody) {
	var he *echo.HTTPError
	if errors.As(err, &he) && apperr.As(err) == nil {
		return he.Code, errorBody{Code: codeForStatus(he.Code), Message: fmt.Sprint(he.Message)}
	}

	code := apperr.CodeOf(err)
	meta := apperr.MetadataFor(code)
	body := errorBody{Code: code, Message: meta.PublicMessage}
	if typed := apperr.As(err); typed != nil && code != apperr.CodeUpstream && typed.Message() != "" {
		body.Message = typed.Message()
	}
	if meta.DetailsAllowed {
		if typed := apperr.As(err); typed != nil {
			body.Details = typed.Details()
		}
	}
	return meta.HTTPStatus, body
}

func codeForStatus(status int) apperr.Code {
	switch status {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return apperr.CodeNotFound
	case http.StatusUnauthorized:
		return apperr.CodeUnauthenticated
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return apperr.CodeInvalidArgument
	case http.StatusTooManyRequests:
		return apperr.CodeRateLimit
	case http.StatusConflict:
		return apperr.CodeConflict
	}
	return apperr.CodeUpstream
}
