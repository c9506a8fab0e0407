package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/petcare/clinic-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Accounts ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type petRequest struct {
	Name  string `json:"name"  validate:"required"`
	Breed string `json:"breed"`
	Age   int    `json:"age"   validate:"gte=0,lte=60"`
	Notes string `json:"notes"`
}

type registerRequest struct {
	Name            string     `json:"name"             validate:"required"`
	Email           string     `json:"email"            validate:"required,email"`
	Password        string     `json:"password"         validate:"required,min=8,max=72"`
	ConfirmPassword string     `json:"confirm_password" validate:"required"`
	Phone           string     `json:"phone"`
	Document        string     `json:"document"`
	Pet             petRequest `json:"pet"              validate:"required"`
}

type registerVeterinarianRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	License  string `json:"license"  validate:"required"`
	Shift    string `json:"shift"`
}

type resetPasswordRequest struct {
	Email              string `json:"email"                validate:"required,email"`
	NewPassword        string `json:"new_password"         validate:"required,min=8,max=72"`
	ConfirmNewPassword string `json:"confirm_new_password" validate:"required"`
}

type roleGroupResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

type identityResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	RoleType string `json:"role_type"`
	RoleCode string `json:"role_code"`
	Phone    string `json:"phone,omitempty"`
	License  string `json:"license,omitempty"`
	Shift    string `json:"shift,omitempty"`
}

type loginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      identityResponse `json:"user"`
}

type registerResponse struct {
	User identityResponse `json:"user"`
	Pet  *domain.Pet      `json:"pet"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toIdentityResponse(i *domain.Identity) identityResponse {
	return identityResponse{
		ID:       i.ID,
		Name:     i.Name,
		Email:    i.Email,
		RoleType: i.Group.Type,
		RoleCode: string(i.Role()),
		Phone:    i.Phone,
		License:  i.License,
		Shift:    i.Shift,
	}
}

func toRoleGroupResponse(g domain.RoleGroup) roleGroupResponse {
	return roleGroupResponse{ID: g.ID, Type: g.Type, Code: string(g.Code), Description: g.Description}
}

// --- Clinic records ---

type consultationRequest struct {
	PetID   string  `json:"pet_id"  validate:"required"`
	Date    string  `json:"date"    validate:"required"`
	Price   float64 `json:"price"   validate:"gte=0"`
	License string  `json:"license" validate:"required"`
}

type vaccineRequest struct {
	PetID        string `json:"pet_id"       validate:"required"`
	Name         string `json:"name"         validate:"required"`
	Dose         string `json:"dose"`
	AppliedOn    string `json:"applied_on"   validate:"required,datetime=2006-01-02"`
	NextDose     string `json:"next_dose"    validate:"omitempty,datetime=2006-01-02"`
	Lot          string `json:"lot"`
	Veterinarian string `json:"veterinarian" validate:"required"`
	Notes        string `json:"notes"`
}

type medicationRequest struct {
	Name      string `json:"name"   validate:"required"`
	Dosage    string `json:"dosage" validate:"required"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
	Route     string `json:"route"`
	Notes     string `json:"notes"`
}

type prescriptionRequest struct {
	PetID            string              `json:"pet_id"            validate:"required"`
	Veterinarian     string              `json:"veterinarian"      validate:"required"`
	VeterinarianID   string              `json:"veterinarian_id"`
	ConsultationDate string              `json:"consultation_date" validate:"required,datetime=2006-01-02"`
	Diagnosis        string              `json:"diagnosis"         validate:"required"`
	Medications      []medicationRequest `json:"medications"       validate:"required,min=1,dive"`
	Instructions     string              `json:"instructions"`
	FollowUp         string              `json:"follow_up"         validate:"omitempty,datetime=2006-01-02"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Count: len(items)}
}

// --- Parsing helpers ---

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusUnprocessableEntity, field+" must be a date (YYYY-MM-DD)")
	}
	return t, nil
}

func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseDateTime accepts RFC 3339 timestamps or plain dates.
func parseDateTime(field, value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(domain.DateLayout, value); err == nil {
		return t, nil
	}
	return time.Time{}, echo.NewHTTPError(http.StatusUnprocessableEntity, field+" must be an RFC 3339 timestamp or a date (YYYY-MM-DD)")
}

// bindAndValidate binds the body into req: 400 on malformed payloads, 422 on
// validation failures.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
