package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/joseolvr/egresos-bridge/internal/application/dto"
	"github.com/joseolvr/egresos-bridge/internal/domain"
)

// responderError traduce los errores de dominio a respuestas HTTP. Los
// casos de uso envuelven los centinelas con contexto, por eso errors.Is.
func responderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrEmpresaNoSeleccionada):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_EMPRESA", Message: "selecciona una empresa primero"})
	case errors.Is(err, domain.ErrEgresoNoSeleccionado):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_EGRESO", Message: "abre un egreso primero"})
	case errors.Is(err, domain.ErrYaEnviado):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "YA_ENVIADO", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrUpstream):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: "el servicio de contabilidad no respondió"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
