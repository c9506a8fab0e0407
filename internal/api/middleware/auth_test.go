package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/petcare/clinic-api/internal/core/authz"
	"github.com/petcare/clinic-api/internal/core/domain"
	"github.com/petcare/clinic-api/internal/core/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type captureRecorder struct {
	mu   sync.Mutex
	seen []domain.AccessDecision
}

func (r *captureRecorder) Record(d domain.AccessDecision) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, d)
}

func (r *captureRecorder) last() domain.AccessDecision {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen[len(r.seen)-1]
}

func newTokens(t *testing.T) *service.TokenService {
	t.Helper()
	key, err := service.NewSigningKey(testSecret, "petcare-test")
	if err != nil {
		t.Fatalf("signing key: %v", err)
	}
	return service.NewTokenService(key, time.Hour)
}

func issue(t *testing.T, tokens *service.TokenService, role domain.Role) string {
	t.Helper()
	group, _ := domain.GroupFor(role)
	session, err := tokens.Issue(&domain.Identity{ID: "subject-" + string(role), Email: "x@example.com", Group: group})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return session.Token
}

// serve runs the guard for op against a request with the given Authorization header.
func serve(t *testing.T, guard *Guard, op authz.Operation, header string) (bool, domain.Claims, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	var claims domain.Claims
	h := guard.For(op)(func(c echo.Context) error {
		called = true
		claims, _ = ClaimsFrom(c)
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	return called, claims, err
}

func expectStatus(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d", code, he.Code)
	}
	return he
}

func TestGuard_MissingHeader(t *testing.T) {
	rec := &captureRecorder{}
	guard := NewGuard(newTokens(t), rec)

	called, _, err := serve(t, guard, authz.OpViewProfile, "")
	he := expectStatus(t, err, http.StatusUnauthorized)
	if called {
		t.Fatal("handler must not run")
	}
	if !errors.Is(he.Internal, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken internal, got %v", he.Internal)
	}
	if rec.last().Outcome != authz.DenyMissingToken.String() {
		t.Fatalf("unexpected audit outcome %q", rec.last().Outcome)
	}
}

func TestGuard_MalformedHeaders(t *testing.T) {
	guard := NewGuard(newTokens(t), nil)
	for _, header := range []string{"Bearer", "Bearer   ", "Basic abc", "Token xyz"} {
		t.Run(header, func(t *testing.T) {
			called, _, err := serve(t, guard, authz.OpViewProfile, header)
			he := expectStatus(t, err, http.StatusUnauthorized)
			if called {
				t.Fatal("handler must not run")
			}
			if !errors.Is(he.Internal, domain.ErrMalformedHeader) {
				t.Fatalf("expected ErrMalformedHeader, got %v", he.Internal)
			}
		})
	}
}

func TestGuard_InvalidToken(t *testing.T) {
	guard := NewGuard(newTokens(t), nil)
	called, _, err := serve(t, guard, authz.OpViewProfile, "Bearer not.a.token")
	he := expectStatus(t, err, http.StatusUnauthorized)
	if called {
		t.Fatal("handler must not run")
	}
	if he.Message != msgUnauthorized {
		t.Fatalf("unexpected message %v", he.Message)
	}
}

func TestGuard_ExpiredAdminTokenIsUnauthorizedNotForbidden(t *testing.T) {
	tokens := newTokens(t)
	issuedAt := time.Now().Add(-2 * time.Hour)
	old := tokens.WithClock(func() time.Time { return issuedAt })
	token := issue(t, old, domain.RoleAdministrator)

	rec := &captureRecorder{}
	guard := NewGuard(tokens, rec)
	_, _, err := serve(t, guard, authz.OpRegisterVeterinarian, "Bearer "+token)
	he := expectStatus(t, err, http.StatusUnauthorized)
	if !errors.Is(he.Internal, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", he.Internal)
	}
	if rec.last().Outcome != authz.DenyInvalidToken.String() {
		t.Fatalf("unexpected audit outcome %q", rec.last().Outcome)
	}
}

func TestGuard_ClientOnStaffOperationIsForbidden(t *testing.T) {
	tokens := newTokens(t)
	rec := &captureRecorder{}
	guard := NewGuard(tokens, rec)

	called, _, err := serve(t, guard, authz.OpCreateConsultation, "Bearer "+issue(t, tokens, domain.RoleClient))
	he := expectStatus(t, err, http.StatusForbidden)
	if called {
		t.Fatal("handler must not run")
	}
	if he.Message != msgForbidden {
		t.Fatalf("unexpected message %v", he.Message)
	}
	last := rec.last()
	if last.SubjectID != "subject-CLI" || last.Role != domain.RoleClient {
		t.Fatalf("audit record missing subject: %+v", last)
	}
}

func TestGuard_VeterinarianAllowedOnStaffOperation(t *testing.T) {
	tokens := newTokens(t)
	guard := NewGuard(tokens, nil)

	called, claims, err := serve(t, guard, authz.OpCreateConsultation, "bearer "+issue(t, tokens, domain.RoleVeterinarian))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("handler not called")
	}
	if claims.SubjectID != "subject-VET" || claims.Role != domain.RoleVeterinarian {
		t.Fatalf("claims not attached: %+v", claims)
	}
}

func TestGuard_AnyAuthenticatedOperation(t *testing.T) {
	tokens := newTokens(t)
	guard := NewGuard(tokens, nil)
	for _, role := range []domain.Role{domain.RoleAdministrator, domain.RoleVeterinarian, domain.RoleClient} {
		called, _, err := serve(t, guard, authz.OpViewProfile, "Bearer "+issue(t, tokens, role))
		if err != nil || !called {
			t.Fatalf("%s: expected allow, got %v", role, err)
		}
	}
}

func TestGuard_FollowsPolicyDecision(t *testing.T) {
	tokens := newTokens(t)
	rec := &captureRecorder{}
	guard := NewGuard(tokens, rec)

	ops := []authz.Operation{
		authz.OpRegisterVeterinarian,
		authz.OpListOwnPets,
		authz.OpDeleteConsultation,
		authz.OpViewVaccine,
		authz.OpFinalizePrescription,
	}
	for _, op := range ops {
		for _, role := range []domain.Role{domain.RoleAdministrator, domain.RoleVeterinarian, domain.RoleClient} {
			want := authz.Decide(&domain.Claims{Role: role}, nil, op)

			called, _, _ := serve(t, guard, op, "Bearer "+issue(t, tokens, role))
			if called != (want == authz.Allow) {
				t.Fatalf("%s as %s: handler called=%v, policy says %s", op, role, called, want)
			}
			if got := rec.last().Outcome; got != want.String() {
				t.Fatalf("%s as %s: recorded %q, policy says %q", op, role, got, want)
			}
		}
	}
}

func TestGuard_UnknownOperationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for operation without policy entry")
		}
	}()
	NewGuard(newTokens(t), nil).For(authz.Operation("nope.unknown"))
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		token   string
		wantErr error
	}{
		{"", "", domain.ErrNoToken},
		{"Bearer abc", "abc", nil},
		{"BEARER abc", "abc", nil},
		{"Bearer", "", domain.ErrMalformedHeader},
		{"Bearer ", "", domain.ErrMalformedHeader},
		{"Basic abc", "", domain.ErrMalformedHeader},
	}
	for _, tt := range tests {
		token, err := BearerToken(tt.header)
		if err != tt.wantErr || token != tt.token {
			t.Fatalf("%q: got (%q, %v), want (%q, %v)", tt.header, token, err, tt.token, tt.wantErr)
		}
	}
}

func TestClaimsFrom_Missing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if _, ok := ClaimsFrom(c); ok {
		t.Fatal("expected no claims")
	}
}
