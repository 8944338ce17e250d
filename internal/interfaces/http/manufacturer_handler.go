package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-sync/internal/application/dto"
	"github.com/jhoicas/crm-sync/internal/application/usecase"
)

// ManufacturerHandler maneja las peticiones HTTP para Manufacturer (protegido).
type ManufacturerHandler struct {
	uc *usecase.ManufacturerUseCase
}

// NewManufacturerHandler construye el handler.
func NewManufacturerHandler(uc *usecase.ManufacturerUseCase) *ManufacturerHandler {
	return &ManufacturerHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar fabricante (admin)
// @Tags         manufacturers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateManufacturerRequest  true  "Datos del fabricante"
// @Success      201   {object}  dto.ManufacturerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/manufacturers [post]
func (h *ManufacturerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateManufacturerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener fabricante por ID
// @Tags         manufacturers
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del fabricante"
// @Success      200  {object}  dto.ManufacturerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/manufacturers/{id} [get]
func (h *ManufacturerHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "fabricante no encontrado")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar fabricantes
// @Tags         manufacturers
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ManufacturerResponse
// @Router       /api/manufacturers [get]
func (h *ManufacturerHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
