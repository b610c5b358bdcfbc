package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/joseolvr/egresos-bridge/internal/application/usecase"
	"github.com/joseolvr/egresos-bridge/internal/infrastructure/session"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *usecase.AuthUseCase
	EmpresaUC *usecase.EmpresaUseCase
	EgresoUC  *usecase.EgresoUseCase
	DetalleUC *usecase.DetalleUseCase
	EnvioUC   *usecase.EnvioUseCase
	RapidoUC  *usecase.RapidoUseCase
	Sesiones  *session.Store
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público, logout protegido)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.Sesiones))

	protected.Post("/auth/logout", authHandler.Logout)

	// Empresas (protegido)
	empresas := protected.Group("/empresas")
	empresaHandler := NewEmpresaHandler(deps.EmpresaUC)
	empresas.Get("/", empresaHandler.List)
	empresas.Post("/seleccionar", empresaHandler.Seleccionar)

	// Egresos (protegido)
	egresos := protected.Group("/egresos")
	egresoHandler := NewEgresoHandler(deps.EgresoUC, deps.DetalleUC, deps.EnvioUC, deps.RapidoUC)
	egresos.Get("/", egresoHandler.Listar)
	egresos.Post("/abrir", egresoHandler.Abrir)
	egresos.Get("/detalle", egresoHandler.Detalle)
	egresos.Post("/enviar", egresoHandler.Enviar)
	egresos.Post("/rapido", egresoHandler.EnviarRapido)
	egresos.Get("/rapido/preview", egresoHandler.PreviewRapido)
}
