package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/joseolvr/egresos-bridge/internal/application/dto"
	"github.com/joseolvr/egresos-bridge/internal/application/usecase"
)

// EmpresaHandler maneja las peticiones HTTP de empresas (protegido).
type EmpresaHandler struct {
	uc *usecase.EmpresaUseCase
}

// NewEmpresaHandler construye el handler.
func NewEmpresaHandler(uc *usecase.EmpresaUseCase) *EmpresaHandler {
	return &EmpresaHandler{uc: uc}
}

// List godoc
// @Summary      Listar empresas disponibles
// @Tags         empresas
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.EmpresaResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/empresas [get]
func (h *EmpresaHandler) List(c *fiber.Ctx) error {
	empresas, err := h.uc.List(c.Context(), GetSesion(c))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(empresas)
}

// Seleccionar godoc
// @Summary      Seleccionar empresa de trabajo
// @Tags         empresas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SeleccionarEmpresaRequest  true  "guidDsl de la empresa"
// @Success      200   {object}  dto.EmpresaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/empresas/seleccionar [post]
func (h *EmpresaHandler) Seleccionar(c *fiber.Ctx) error {
	var in dto.SeleccionarEmpresaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	empresa, err := h.uc.Seleccionar(c.Context(), GetSesion(c), in.GuidDsl)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(empresa)
}
