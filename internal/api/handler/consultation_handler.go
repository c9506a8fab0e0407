package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petcare/clinic-api/internal/core/ports"
)

type ConsultationHandler struct {
	service ports.ConsultationService
}

func NewConsultationHandler(service ports.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{service: service}
}

// Create handles POST /consultations.
//
// @Summary      Schedule a consultation
// @Tags         consultations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      consultationRequest  true  "Consultation"
// @Success      201   {object}  domain.Consultation
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /consultations [post]
func (h *ConsultationHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req consultationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	date, err := parseDateTime("date", req.Date)
	if err != nil {
		return err
	}

	consultation, err := h.service.Create(c.Request().Context(), actor, ports.ConsultationInput{
		PetID:   req.PetID,
		Date:    date,
		Price:   req.Price,
		License: req.License,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, consultation)
}

// ListByPet handles GET /pets/:id/consultations.
//
// @Summary      List a pet's consultations
// @Tags         consultations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Pet id"
// @Success      200  {object}  listResponse[domain.Consultation]
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /pets/{id}/consultations [get]
func (h *ConsultationHandler) ListByPet(c echo.Context) error {
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

// ListByDay handles GET /consultations?date=YYYY-MM-DD.
//
// @Summary      List the consultations of a day
// @Tags         consultations
// @Produce      json
// @Security     BearerAuth
// @Param        date  query     string  true  "Day (YYYY-MM-DD)"
// @Success      200   {object}  listResponse[domain.Consultation]
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /consultations [get]
func (h *ConsultationHandler) ListByDay(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	day, err := parseDate("date", c.QueryParam("date"))
	if err != nil {
		return err
	}
	list, err := h.service.ListByDay(c.Request().Context(), actor, day)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(list))
}

// Delete handles DELETE /consultations/:id.
//
// @Summary      Delete a consultation
// @Tags         consultations
// @Security     BearerAuth
// @Param        id   path  string  true  "Consultation id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /consultations/{id} [delete]
func (h *ConsultationHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
