package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petcare/clinic-api/internal/api/middleware"
	"github.com/petcare/clinic-api/internal/core/domain"
)

// ctxActor returns the caller the Access Guard authenticated. A missing value
// means the route was registered without the guard.
func ctxActor(c echo.Context) (domain.Actor, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok || claims.SubjectID == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims.Actor(), nil
}
