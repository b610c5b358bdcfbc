package usecase

import (
	"context"
	"fmt"

	"github.com/joseolvr/egresos-bridge/internal/application/dto"
	"github.com/joseolvr/egresos-bridge/internal/application/ports"
	"github.com/joseolvr/egresos-bridge/internal/domain"
	"github.com/joseolvr/egresos-bridge/internal/infrastructure/session"
	"github.com/joseolvr/egresos-bridge/pkg/jwt"
	"github.com/joseolvr/egresos-bridge/pkg/logger"
)

// AuthUseCase autentica contra el upstream y administra las sesiones
// locales. El token del upstream queda guardado en la sesión del servidor;
// al cliente sólo se le entrega un JWT que la referencia.
type AuthUseCase struct {
	api      ports.ContaAPI
	sesiones *session.Store
	log      *logger.Logger

	jwtSecret  string
	jwtIssuer  string
	jwtMinutos int
}

// NewAuthUseCase construye el caso de uso de autenticación.
func NewAuthUseCase(api ports.ContaAPI, sesiones *session.Store, log *logger.Logger, jwtSecret, jwtIssuer string, jwtMinutos int) *AuthUseCase {
	return &AuthUseCase{
		api:        api,
		sesiones:   sesiones,
		log:        log,
		jwtSecret:  jwtSecret,
		jwtIssuer:  jwtIssuer,
		jwtMinutos: jwtMinutos,
	}
}

// Login delega las credenciales al upstream y abre una sesión local.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Usuario == "" || in.Contrasena == "" {
		return nil, fmt.Errorf("usuario y contraseña son obligatorios: %w", domain.ErrInvalidInput)
	}
	res, err := uc.api.Login(ctx, in.Usuario, in.Contrasena)
	if err != nil {
		return nil, err
	}
	if !res.Success || res.Token == "" {
		uc.log.Warn().Str("usuario", in.Usuario).Msg("login rechazado")
		return nil, fmt.Errorf("%s: %w", res.Message, domain.ErrUnauthorized)
	}

	ses := uc.sesiones.Create(res.Token)
	token, err := jwt.Generate(uc.jwtSecret, ses.ID, uc.jwtIssuer, uc.jwtMinutos)
	if err != nil {
		uc.sesiones.Delete(ses.ID)
		return nil, err
	}
	uc.log.Info().Str("usuario", in.Usuario).Msg("sesión iniciada")
	return &dto.LoginResponse{Token: token, Message: res.Message}, nil
}

// Logout cierra la sesión local. El token del upstream se descarta.
func (uc *AuthUseCase) Logout(sessionID string) {
	uc.sesiones.Delete(sessionID)
}

// Sesion recupera la sesión referida por un JWT ya validado.
func (uc *AuthUseCase) Sesion(sessionID string) (*session.Session, error) {
	return uc.sesiones.Get(sessionID)
}
