package handler

import (
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"

    "github.com/iliyamo/easy-search/internal/service"
)

func render(t *testing.T, production bool, err error) (int, ErrorBody) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login?x=1", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    ErrorHandler(production, zerolog.Nop())(err, c)

    var body ErrorBody
    if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
        t.Fatalf("decode: %v", err)
    }
    return rec.Code, body
}

func TestErrorHandler_ServiceKinds(t *testing.T) {
    cases := []struct {
        err  error
        code int
    }{
        {service.ValidationError("email", "Email is required"), http.StatusBadRequest},
        {service.ConflictError("dup"), http.StatusConflict},
        {service.UnauthorizedError("Unauthorized"), http.StatusUnauthorized},
        {service.NotFoundError("No active session"), http.StatusNotFound},
        {service.InternalError("op", errors.New("db down")), http.StatusInternalServerError},
    }
    for _, tc := range cases {
        code, body := render(t, false, tc.err)
        if code != tc.code || body.StatusCode != tc.code || body.Success {
            t.Errorf("%v: got %d %+v", tc.err, code, body)
        }
        if body.Path != "/api/v1/auth/login?x=1" || body.Timestamp == "" {
            t.Errorf("%v: missing path/timestamp %+v", tc.err, body)
        }
    }
}

func TestErrorHandler_InternalDetailNeverRendered(t *testing.T) {
    _, body := render(t, false, service.InternalError("op", errors.New("secret dsn")))
    if body.Message != "Internal Server Error" {
        t.Fatalf("internal cause leaked: %q", body.Message)
    }
}

func TestErrorHandler_ForeignErrors(t *testing.T) {
    _, dev := render(t, false, errors.New("boom"))
    if dev.Message != "boom" {
        t.Fatalf("dev should show message, got %q", dev.Message)
    }
    _, prod := render(t, true, errors.New("boom"))
    if prod.Message != "Internal Server Error" {
        t.Fatalf("production leaked %q", prod.Message)
    }

    code, body := render(t, true, echo.NewHTTPError(http.StatusForbidden, "Forbidden resource"))
    if code != http.StatusForbidden || body.Message != "Forbidden resource" {
        t.Fatalf("echo error: %d %+v", code, body)
    }
}
