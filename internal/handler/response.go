package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"

    "github.com/iliyamo/easy-search/internal/service"
)

// Envelope wraps every successful response body.
type Envelope struct {
    StatusCode int         `json:"statusCode"`
    Success    bool        `json:"success"`
    Message    string      `json:"message"`
    Data       interface{} `json:"data,omitempty"`
}

// ErrorBody is the shape of every error response.
type ErrorBody struct {
    Success    bool        `json:"success"`
    StatusCode int         `json:"statusCode"`
    Message    string      `json:"message"`
    Data       interface{} `json:"data"`
    Timestamp  string      `json:"timestamp"`
    Path       string      `json:"path"`
}

const internalMessage = "Internal Server Error"

func ok(c echo.Context, message string, data interface{}) error {
    return c.JSON(http.StatusOK, Envelope{
        StatusCode: http.StatusOK,
        Success:    true,
        Message:    message,
        Data:       data,
    })
}

func statusOf(k service.Kind) int {
    switch k {
    case service.KindValidation:
        return http.StatusBadRequest
    case service.KindConflict:
        return http.StatusConflict
    case service.KindUnauthorized:
        return http.StatusUnauthorized
    case service.KindNotFound:
        return http.StatusNotFound
    }
    return http.StatusInternalServerError
}

// ErrorHandler returns an echo.HTTPErrorHandler that renders ErrorBody.
// Service errors map by kind; echo errors keep their code; anything else is
// a 500 whose message is only shown outside production.
func ErrorHandler(production bool, log zerolog.Logger) echo.HTTPErrorHandler {
    return func(err error, c echo.Context) {
        if c.Response().Committed {
            return
        }

        status := http.StatusInternalServerError
        message := internalMessage

        var se *service.Error
        var he *echo.HTTPError
        switch {
        case errors.As(err, &se):
            status = statusOf(se.Kind)
            message = se.Message
            if se.Kind == service.KindInternal {
                log.Error().Err(se.Err).Str("path", c.Request().URL.Path).Msg("internal error")
            }
        case errors.As(err, &he):
            status = he.Code
            if m, isStr := he.Message.(string); isStr {
                message = m
            } else {
                message = http.StatusText(he.Code)
            }
        default:
            log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("unhandled error")
            if !production {
                message = err.Error()
            }
        }

        body := ErrorBody{
            Success:    false,
            StatusCode: status,
            Message:    message,
            Data:       nil,
            Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
            Path:       c.Request().URL.RequestURI(),
        }
        var writeErr error
        if c.Request().Method == http.MethodHead {
            writeErr = c.NoContent(status)
        } else {
            writeErr = c.JSON(status, body)
        }
        if writeErr != nil {
            log.Error().Err(writeErr).Msg("write error response")
        }
    }
}
