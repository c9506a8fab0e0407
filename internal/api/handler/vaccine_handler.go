package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petcare/clinic-api/internal/core/ports"
)

type VaccineHandler struct {
	service ports.VaccineService
}

func NewVaccineHandler(service ports.VaccineService) *VaccineHandler {
	return &VaccineHandler{service: service}
}

func toVaccineInput(req vaccineRequest) (ports.VaccineInput, error) {
	applied, err := parseDate("applied_on", req.AppliedOn)
	if err != nil {
		return ports.VaccineInput{}, err
	}
	next, err := parseOptionalDate("next_dose", req.NextDose)
	if err != nil {
		return ports.VaccineInput{}, err
	}
	return ports.VaccineInput{
		PetID:        req.PetID,
		Name:         req.Name,
		Dose:         req.Dose,
		AppliedOn:    applied,
		NextDose:     next,
		Lot:          req.Lot,
		Veterinarian: req.Veterinarian,
		Notes:        req.Notes,
	}, nil
}

// Create handles POST /vaccines.
//
// @Summary      Record a vaccine
// @Tags         vaccines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      vaccineRequest  true  "Vaccine"
// @Success      201   {object}  domain.Vaccine
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /vaccines [post]
func (h *VaccineHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req vaccineRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := toVaccineInput(req)
	if err != nil {
		return err
	}

	v, err := h.service.Create(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, v)
}

// Get handles GET /vaccines/:id.
//
// @Summary      Get a vaccine record
// @Tags         vaccines
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Vaccine id"
// @Success      200  {object}  domain.Vaccine
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /vaccines/{id} [get]
func (h *VaccineHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	v, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// ListByPet handles GET /pets/:id/vaccines.
//
// @Summary      Vaccination history of a pet
// @Tags         vaccines
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Pet id"
// @Success      200  {object}  listResponse[domain.Vaccine]
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /pets/{id}/vaccines [get]
func (h *VaccineHandler) ListByPet(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	list, err := h.service.ListByPet(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(list))
}

// Update handles PUT /vaccines/:id.
//
// @Summary      Update a vaccine record
// @Tags         vaccines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Vaccine id"
// @Param        body  body      vaccineRequest  true  "Vaccine"
// @Success      200   {object}  domain.Vaccine
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /vaccines/{id} [put]
func (h *VaccineHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req vaccineRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := toVaccineInput(req)
	if err != nil {
		return err
	}

	v, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// Delete handles DELETE /vaccines/:id.
//
// @Summary      Delete a vaccine record
// @Tags         vaccines
// @Security     BearerAuth
// @Param        id   path  string  true  "Vaccine id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /vaccines/{id} [delete]
func (h *VaccineHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
