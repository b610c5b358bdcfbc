package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/joseolvr/egresos-bridge/internal/application/usecase"
	"github.com/joseolvr/egresos-bridge/internal/infrastructure/contaapi"
	"github.com/joseolvr/egresos-bridge/internal/infrastructure/session"
	httpRouter "github.com/joseolvr/egresos-bridge/internal/interfaces/http"
	"github.com/joseolvr/egresos-bridge/pkg/config"
	"github.com/joseolvr/egresos-bridge/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Servicio: cfg.App.Name,
		Env:      cfg.App.Env,
		Level:    "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	api := contaapi.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout(), log)
	sesiones := session.NewStore(cfg.Session.TTL())

	authUC := usecase.NewAuthUseCase(api, sesiones, log, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	empresaUC := usecase.NewEmpresaUseCase(api, log)
	egresoUC := usecase.NewEgresoUseCase(api, log)
	detalleUC := usecase.NewDetalleUseCase(api, log)
	envioUC := usecase.NewEnvioUseCase(api, log)
	rapidoUC := usecase.NewRapidoUseCase(api, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Egresos Bridge API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		EmpresaUC: empresaUC,
		EgresoUC:  egresoUC,
		DetalleUC: detalleUC,
		EnvioUC:   envioUC,
		RapidoUC:  rapidoUC,
		Sesiones:  sesiones,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
