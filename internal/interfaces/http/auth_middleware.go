package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/joseolvr/egresos-bridge/internal/application/dto"
	"github.com/joseolvr/egresos-bridge/internal/infrastructure/session"
	"github.com/joseolvr/egresos-bridge/pkg/jwt"
)

// Locals key para la sesión en Fiber.
const LocalSesion = "sesion"

// AuthMiddleware valida el Bearer Token JWT, recupera la sesión que
// referencia y la deja en c.Locals. La sesión carga el token del upstream,
// que nunca viaja al cliente.
func AuthMiddleware(jwtSecret string, sesiones *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		sessionID, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		ses, err := sesiones.Get(sessionID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: "la sesión expiró, inicia sesión de nuevo"})
		}
		c.Locals(LocalSesion, ses)
		return c.Next()
	}
}

// GetSesion devuelve la sesión del contexto (después del middleware de auth).
func GetSesion(c *fiber.Ctx) *session.Session {
	v := c.Locals(LocalSesion)
	if v == nil {
		return nil
	}
	ses, _ := v.(*session.Session)
	return ses
}
