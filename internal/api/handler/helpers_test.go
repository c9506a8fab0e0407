package handler

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/petcare/clinic-api/internal/api/middleware"
	"github.com/petcare/clinic-api/internal/core/domain"
)

var (
	clientClaims = domain.Claims{SubjectID: "owner-1", Email: "ana@example.com", RoleType: "Client", Role: domain.RoleClient}
	vetClaims    = domain.Claims{SubjectID: "vet-1", Email: "vet@example.com", RoleType: "Veterinarian", Role: domain.RoleVeterinarian}
)

// newContext builds an echo context with the handler validator installed.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asCaller attaches claims the way the access guard does.
func asCaller(c echo.Context, claims domain.Claims) echo.Context {
	middleware.SetClaims(c, claims)
	return c
}

// expectHTTPError asserts err is an *echo.HTTPError carrying code.
func expectHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError with %d, got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d (%v)", code, he.Code, he.Message)
	}
	return he
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected %d, got %d: %s", code, rec.Code, rec.Body.String())
	}
}
