package usecase

import (
	"context"

	"github.com/joseolvr/egresos-bridge/internal/application/dto"
	"github.com/joseolvr/egresos-bridge/internal/application/ports"
	"github.com/joseolvr/egresos-bridge/internal/domain"
	"github.com/joseolvr/egresos-bridge/internal/infrastructure/session"
	"github.com/joseolvr/egresos-bridge/pkg/logger"
)

// EmpresaUseCase lista las empresas del upstream y fija la empresa de
// trabajo de la sesión.
type EmpresaUseCase struct {
	api ports.ContaAPI
	log *logger.Logger
}

// NewEmpresaUseCase construye el caso de uso de empresas.
func NewEmpresaUseCase(api ports.ContaAPI, log *logger.Logger) *EmpresaUseCase {
	return &EmpresaUseCase{api: api, log: log}
}

// List devuelve las empresas disponibles, marcando la seleccionada.
func (uc *EmpresaUseCase) List(ctx context.Context, ses *session.Session) ([]dto.EmpresaResponse, error) {
	empresas, err := uc.api.Empresas(ctx, ses.Token)
	if err != nil {
		return nil, err
	}
	seleccionada := ""
	if actual, err := ses.GetEmpresa(); err == nil {
		seleccionada = actual.GuidDsl
	}
	out := make([]dto.EmpresaResponse, 0, len(empresas))
	for _, e := range empresas {
		out = append(out, dto.EmpresaResponse{
			Nombre:       e.Nombre,
			BaseDatos:    e.BaseDatos,
			RFC:          e.RFC,
			GuidDsl:      e.GuidDsl,
			Seleccionada: e.GuidDsl != "" && e.GuidDsl == seleccionada,
		})
	}
	return out, nil
}

// Seleccionar fija la empresa de trabajo. Devuelve domain.ErrNotFound si el
// guid no corresponde a ninguna empresa del usuario.
func (uc *EmpresaUseCase) Seleccionar(ctx context.Context, ses *session.Session, guidDsl string) (*dto.EmpresaResponse, error) {
	if guidDsl == "" {
		return nil, domain.ErrInvalidInput
	}
	empresas, err := uc.api.Empresas(ctx, ses.Token)
	if err != nil {
		return nil, err
	}
	for _, e := range empresas {
		if e.GuidDsl == guidDsl {
			ses.SetEmpresa(e)
			uc.log.Info().Str("empresa", e.Nombre).Msg("empresa seleccionada")
			return &dto.EmpresaResponse{
				Nombre:       e.Nombre,
				BaseDatos:    e.BaseDatos,
				RFC:          e.RFC,
				GuidDsl:      e.GuidDsl,
				Seleccionada: true,
			}, nil
		}
	}
	return nil, domain.ErrNotFound
}
