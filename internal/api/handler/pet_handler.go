package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petcare/clinic-api/internal/core/ports"
)

type PetHandler struct {
	service ports.PetService
}

func NewPetHandler(service ports.PetService) *PetHandler {
	return &PetHandler{service: service}
}

// ListMine handles GET /pets/mine.
//
// @Summary      List the caller's pets
// @Tags         pets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.Pet]
// @Failure      401  {object}  errorResponse
// @Router       /pets/mine [get]
func (h *PetHandler) ListMine(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	pets, err := h.service.ListMine(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(pets))
}

// Get handles GET /pets/:id.
//
// @Summary      Get a pet
// @Tags         pets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Pet id"
// @Success      200  {object}  domain.Pet
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /pets/{id} [get]
func (h *PetHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	pet, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pet)
}

// Update handles PUT /pets/:id.
//
// @Summary      Update a pet
// @Tags         pets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string      true  "Pet id"
// @Param        body  body      petRequest  true  "Pet fields"
// @Success      200   {object}  domain.Pet
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /pets/{id} [put]
func (h *PetHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req petRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pet, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), ports.PetInput{
		Name:  req.Name,
		Breed: req.Breed,
		Age:   req.Age,
		Notes: req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pet)
}
