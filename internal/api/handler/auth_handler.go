package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petcare/clinic-api/internal/api/metrics"
	"github.com/petcare/clinic-api/internal/api/middleware"
	"github.com/petcare/clinic-api/internal/core/domain"
	"github.com/petcare/clinic-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, identity, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.WithLabelValues(string(identity.Role())).Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      toIdentityResponse(identity),
	})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	default:
		return "error"
	}
}

// Register creates a client account together with the client's first pet.
//
// @Summary      Register a client
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Client and pet details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	identity, pet, err := h.authService.RegisterClient(c.Request().Context(), ports.RegisterClientInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Phone:           req.Phone,
		Document:        req.Document,
		Pet: ports.PetInput{
			Name:  req.Pet.Name,
			Breed: req.Pet.Breed,
			Age:   req.Pet.Age,
			Notes: req.Pet.Notes,
		},
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{User: toIdentityResponse(identity), Pet: pet})
}

// RegisterVeterinarian creates a veterinarian account.
//
// @Summary      Register a veterinarian
// @Tags         veterinarians
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerVeterinarianRequest  true  "Veterinarian details"
// @Success      201   {object}  identityResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /veterinarians [post]
func (h *AuthHandler) RegisterVeterinarian(c echo.Context) error {
	var req registerVeterinarianRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	identity, err := h.authService.RegisterVeterinarian(c.Request().Context(), ports.RegisterVeterinarianInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		License:  req.License,
		Shift:    req.Shift,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toIdentityResponse(identity))
}

// ListVeterinarians lists veterinarian accounts.
//
// @Summary      List veterinarians
// @Tags         veterinarians
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[identityResponse]
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /veterinarians [get]
func (h *AuthHandler) ListVeterinarians(c echo.Context) error {
	vets, err := h.authService.ListVeterinarians(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]identityResponse, 0, len(vets))
	for _, v := range vets {
		out = append(out, toIdentityResponse(v))
	}
	return c.JSON(http.StatusOK, newList(out))
}

// ResetPassword replaces the password of an account.
//
// @Summary      Reset a password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      resetPasswordRequest  true  "Account and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/password/reset [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := h.authService.ResetPassword(c.Request().Context(), ports.ResetPasswordInput{
		Email:              req.Email,
		NewPassword:        req.NewPassword,
		ConfirmNewPassword: req.ConfirmNewPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}

// Me echoes the claims recovered from the caller's token.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Claims
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return c.JSON(http.StatusOK, claims)
}

// RoleGroups lists the fixed role groups.
//
// @Summary      List role groups
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[roleGroupResponse]
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /role-groups [get]
func (h *AuthHandler) RoleGroups(c echo.Context) error {
	groups, err := h.authService.RoleGroups(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]roleGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toRoleGroupResponse(g))
	}
	return c.JSON(http.StatusOK, newList(out))
}
