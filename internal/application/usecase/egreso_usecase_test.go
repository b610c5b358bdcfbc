package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseolvr/egresos-bridge/internal/application/dto"
	"github.com/joseolvr/egresos-bridge/internal/domain"
	"github.com/joseolvr/egresos-bridge/internal/domain/entity"
	"github.com/joseolvr/egresos-bridge/internal/infrastructure/session"
)

func TestRangoSemanaActual(t *testing.T) {
	// miércoles 22 de mayo de 2024
	hoy := time.Date(2024, 5, 22, 15, 0, 0, 0, time.UTC)
	rango := RangoSemanaActual(hoy)
	assert.Equal(t, "2024-05-20", rango.Desde)
	assert.Equal(t, "2024-05-26", rango.Hasta)

	// un lunes es el inicio de su propia semana
	lunes := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	rango = RangoSemanaActual(lunes)
	assert.Equal(t, "2024-05-20", rango.Desde)

	// un domingo cierra la semana que empezó seis días antes
	domingo := time.Date(2024, 5, 26, 23, 0, 0, 0, time.UTC)
	rango = RangoSemanaActual(domingo)
	assert.Equal(t, "2024-05-20", rango.Desde)
	assert.Equal(t, "2024-05-26", rango.Hasta)
}

func apiConEgresos() *fakeContaAPI {
	return &fakeContaAPI{
		egresosFn: func(_, _, _, _ string) ([]*entity.Registro, error) {
			return []*entity.Registro{
				egresoPrueba("A1B2-C3D4-0001", "Arrendador Uno", "Rentas", true),
				egresoPrueba("B2C3-D4E5-0002", "Arrendador Dos", "Rentas", false),
				egresoPrueba("C3D4-E5F6-0003", "Papeleria Sur", "Servicios", false),
			}, nil
		},
	}
}

func TestListarSinEmpresa(t *testing.T) {
	uc := NewEgresoUseCase(apiConEgresos(), testLogger())
	ses := session.NewStore(time.Minute).Create("tok-upstream")

	_, err := uc.Listar(context.Background(), ses, dto.ListarEgresosRequest{})
	assert.ErrorIs(t, err, domain.ErrEmpresaNoSeleccionada)
}

func TestListarEgresos(t *testing.T) {
	uc := NewEgresoUseCase(apiConEgresos(), testLogger())
	_, ses := sesionConEmpresa(empresaPrueba())

	res, err := uc.Listar(context.Background(), ses, dto.ListarEgresosRequest{})
	require.NoError(t, err)
	require.Len(t, res.Egresos, 3)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, []string{"Rentas", "Servicios"}, res.Categorias)

	fila := res.Egresos[0]
	assert.Equal(t, "doc-A1B2-C3D4-0001", fila.RowID)
	assert.Equal(t, "Arrendador Uno", fila.Emisor)
	assert.Equal(t, "XAXX", fila.Serie)
	assert.Equal(t, "123", fila.Folio) // tres dígitos del UUID en la lista
	assert.Equal(t, "2024-05-20", fila.Fecha)
	assert.Equal(t, "$1,160.00", fila.Total)
	assert.True(t, fila.EnviadaAComercial)
	assert.False(t, res.Egresos[1].EnviadaAComercial)
}

func TestListarFiltros(t *testing.T) {
	uc := NewEgresoUseCase(apiConEgresos(), testLogger())
	_, ses := sesionConEmpresa(empresaPrueba())
	ctx := context.Background()

	res, err := uc.Listar(ctx, ses, dto.ListarEgresosRequest{Comercial: dto.ComercialPendientes})
	require.NoError(t, err)
	assert.Len(t, res.Egresos, 2)

	res, err = uc.Listar(ctx, ses, dto.ListarEgresosRequest{Comercial: dto.ComercialEnviadas})
	require.NoError(t, err)
	assert.Len(t, res.Egresos, 1)

	res, err = uc.Listar(ctx, ses, dto.ListarEgresosRequest{SoloRentas: true})
	require.NoError(t, err)
	assert.Len(t, res.Egresos, 2)

	res, err = uc.Listar(ctx, ses, dto.ListarEgresosRequest{Categoria: "Servicios"})
	require.NoError(t, err)
	require.Len(t, res.Egresos, 1)
	assert.Equal(t, "Papeleria Sur", res.Egresos[0].Emisor)

	// las categorías del filtro se calculan antes de filtrar
	assert.Equal(t, []string{"Rentas", "Servicios"}, res.Categorias)

	res, err = uc.Listar(ctx, ses, dto.ListarEgresosRequest{Busqueda: "papeleria"})
	require.NoError(t, err)
	require.Len(t, res.Egresos, 1)
	assert.Equal(t, "Papeleria Sur", res.Egresos[0].Emisor)
}

func TestListarGuardaRango(t *testing.T) {
	var consultas []entity.RangoFechas
	api := &fakeContaAPI{
		egresosFn: func(_, _, desde, hasta string) ([]*entity.Registro, error) {
			consultas = append(consultas, entity.RangoFechas{Desde: desde, Hasta: hasta})
			return nil, nil
		},
	}
	uc := NewEgresoUseCase(api, testLogger())
	_, ses := sesionConEmpresa(empresaPrueba())
	ctx := context.Background()

	_, err := uc.Listar(ctx, ses, dto.ListarEgresosRequest{Desde: "2024-05-01", Hasta: "2024-05-07"})
	require.NoError(t, err)

	// sin rango explícito se reutiliza el último consultado para la empresa
	_, err = uc.Listar(ctx, ses, dto.ListarEgresosRequest{})
	require.NoError(t, err)

	require.Len(t, consultas, 2)
	assert.Equal(t, consultas[0], consultas[1])
	assert.Equal(t, "2024-05-01", consultas[1].Desde)
}

func TestAbrirEgreso(t *testing.T) {
	uc := NewEgresoUseCase(apiConEgresos(), testLogger())
	_, ses := sesionConEmpresa(empresaPrueba())

	err := uc.Abrir(context.Background(), ses, "doc-B2C3-D4E5-0002")
	require.NoError(t, err)

	reg, err := ses.GetEgreso()
	require.NoError(t, err)

	v, ok := reg.Get("__serieCalculada")
	require.True(t, ok)
	assert.Equal(t, "XAXX", v)

	v, ok = reg.Get("__folioCalculado")
	require.True(t, ok)
	assert.Equal(t, "2345", v) // cuatro dígitos del UUID en el detalle

	v, ok = reg.Get("__rfcFuente")
	require.True(t, ok)
	assert.Equal(t, "XAXX010101000", v)

	v, ok = reg.Get("__uuidFuente")
	require.True(t, ok)
	assert.Equal(t, "B2C3-D4E5-0002", v)
}

func TestAbrirEgresoNoExiste(t *testing.T) {
	uc := NewEgresoUseCase(apiConEgresos(), testLogger())
	_, ses := sesionConEmpresa(empresaPrueba())

	err := uc.Abrir(context.Background(), ses, "doc-inexistente")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = uc.Abrir(context.Background(), ses, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
