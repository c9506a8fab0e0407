package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petcare/clinic-api/internal/core/domain"
	"github.com/petcare/clinic-api/internal/core/ports"
)

type PrescriptionHandler struct {
	service ports.PrescriptionService
}

func NewPrescriptionHandler(service ports.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{service: service}
}

func toPrescriptionInput(req prescriptionRequest) (ports.PrescriptionInput, error) {
	consulted, err := parseDate("consultation_date", req.ConsultationDate)
	if err != nil {
		return ports.PrescriptionInput{}, err
	}
	followUp, err := parseOptionalDate("follow_up", req.FollowUp)
	if err != nil {
		return ports.PrescriptionInput{}, err
	}

	meds := make([]domain.Medication, 0, len(req.Medications))
	for _, m := range req.Medications {
		meds = append(meds, domain.Medication{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
			Route:     m.Route,
			Notes:     m.Notes,
		})
	}

	return ports.PrescriptionInput{
		PetID:            req.PetID,
		Veterinarian:     req.Veterinarian,
		VeterinarianID:   req.VeterinarianID,
		ConsultationDate: consulted,
		Diagnosis:        req.Diagnosis,
		Medications:      meds,
		Instructions:     req.Instructions,
		FollowUp:         followUp,
	}, nil
}

// Create handles POST /prescriptions.
//
// @Summary      Create a prescription
// @Tags         prescriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      prescriptionRequest  true  "Prescription"
// @Success      201   {object}  domain.Prescription
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /prescriptions [post]
func (h *PrescriptionHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req prescriptionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := toPrescriptionInput(req)
	if err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// Get handles GET /prescriptions/:id.
//
// @Summary      Get a prescription
// @Tags         prescriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Prescription id"
// @Success      200  {object}  domain.Prescription
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /prescriptions/{id} [get]
func (h *PrescriptionHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	p, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// ListByPet handles GET /pets/:id/prescriptions.
//
// @Summary      List a pet's prescriptions
// @Tags         prescriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Pet id"
// @Success      200  {object}  listResponse[domain.Prescription]
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /pets/{id}/prescriptions [get]
func (h *PrescriptionHandler) ListByPet(c echo.Context) error {
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

// Update handles PUT /prescriptions/:id.
//
// @Summary      Update an active prescription
// @Tags         prescriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Prescription id"
// @Param        body  body      prescriptionRequest  true  "Prescription"
// @Success      200   {object}  domain.Prescription
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /prescriptions/{id} [put]
func (h *PrescriptionHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req prescriptionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := toPrescriptionInput(req)
	if err != nil {
		return err
	}

	p, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Finalize handles PATCH /prescriptions/:id/finalize.
//
// @Summary      Mark a prescription completed
// @Tags         prescriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Prescription id"
// @Success      200  {object}  domain.Prescription
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /prescriptions/{id}/finalize [patch]
func (h *PrescriptionHandler) Finalize(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	p, err := h.service.Finalize(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /prescriptions/:id.
//
// @Summary      Delete a prescription
// @Tags         prescriptions
// @Security     BearerAuth
// @Param        id   path  string  true  "Prescription id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /prescriptions/{id} [delete]
func (h *PrescriptionHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
