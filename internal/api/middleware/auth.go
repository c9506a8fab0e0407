package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/petcare/clinic-api/internal/api/metrics"
	"github.com/petcare/clinic-api/internal/core/authz"
	"github.com/petcare/clinic-api/internal/core/domain"
	"github.com/petcare/clinic-api/internal/core/ports"
)

const claimsKey = "auth.claims"

// Messages rendered to callers. Deny details stay in the internal error.
const (
	msgUnauthorized = "invalid or expired token"
	msgForbidden    = "insufficient permissions"
)

// DecisionRecorder receives every guard verdict. Record must not block.
type DecisionRecorder interface {
	Record(decision domain.AccessDecision)
}

// Guard is the Access Guard placed in front of every protected route.
type Guard struct {
	tokens   ports.TokenValidator
	recorder DecisionRecorder
	now      func() time.Time
}

// NewGuard builds a guard over tokens. recorder may be nil.
func NewGuard(tokens ports.TokenValidator, recorder DecisionRecorder) *Guard {
	return &Guard{tokens: tokens, recorder: recorder, now: time.Now}
}

// For returns the middleware enforcing the policy entry of op. It panics when
// op has no entry so a route cannot be registered unguarded.
func (g *Guard) For(op authz.Operation) echo.MiddlewareFunc {
	if _, ok := authz.Required(op); !ok {
		panic(fmt.Sprintf("authz: operation %q has no policy entry", op))
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, tokenErr := g.authenticate(c.Request().Header.Get(echo.HeaderAuthorization))
			decision := authz.Decide(claims, tokenErr, op)
			g.record(c, op, claims, decision)

			switch decision {
			case authz.Allow:
				SetClaims(c, *claims)
				return next(c)
			case authz.DenyInsufficientRole:
				return echo.NewHTTPError(http.StatusForbidden, msgForbidden).SetInternal(domain.ErrInsufficientRole)
			default:
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return echo.NewHTTPError(http.StatusUnauthorized, msgUnauthorized).SetInternal(tokenErr)
			}
		}
	}
}

func (g *Guard) authenticate(header string) (*domain.Claims, error) {
	token, err := BearerToken(header)
	if err != nil {
		return nil, err
	}
	claims, err := g.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	return &claims, nil
}

func (g *Guard) record(c echo.Context, op authz.Operation, claims *domain.Claims, decision authz.Decision) {
	metrics.AccessDecisionsTotal.WithLabelValues(string(op), decision.String()).Inc()
	if g.recorder == nil {
		return
	}

	d := domain.AccessDecision{
		Operation: string(op),
		Outcome:   decision.String(),
		Method:    c.Request().Method,
		Path:      c.Path(),
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
		At:        g.now().UTC(),
	}
	if claims != nil {
		d.SubjectID = claims.SubjectID
		d.Role = claims.Role
	}
	g.recorder.Record(d)
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", domain.ErrNoToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", domain.ErrMalformedHeader
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", domain.ErrMalformedHeader
	}
	return token, nil
}

// SetClaims attaches claims to c.
func SetClaims(c echo.Context, claims domain.Claims) {
	c.Set(claimsKey, claims)
}

// ClaimsFrom returns the claims the guard attached to c.
func ClaimsFrom(c echo.Context) (domain.Claims, bool) {
	claims, ok := c.Get(claimsKey).(domain.Claims)
	return claims, ok
}
