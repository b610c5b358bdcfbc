package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseolvr/egresos-bridge/internal/domain"
	"github.com/joseolvr/egresos-bridge/internal/domain/entity"
	"github.com/joseolvr/egresos-bridge/internal/infrastructure/session"
)

// egresoDetalle simula el registro que deja Abrir en la sesión, con los
// campos precalculados al final.
func egresoDetalle() *entity.Registro {
	reg := egresoPrueba("B2C3-D4E5-0002", "Arrendador Uno", "Rentas", false)
	reg.Set("__rfcFuente", "XAXX010101000")
	reg.Set("__uuidFuente", "B2C3-D4E5-0002")
	reg.Set("__serieCalculada", "XAXX")
	reg.Set("__folioCalculado", "2345")
	return reg
}

func apiConDetalle() *fakeContaAPI {
	return &fakeContaAPI{
		detalleFn: func(guidDb, guidDocumento string) (any, error) {
			return comprobanteRentas, nil
		},
		conceptosFn: func() ([]*entity.Registro, error) {
			return []*entity.Registro{
				registroCon("cCodigoConcepto", "118", "cNombreConcepto", "Gastos por rentas"),
			}, nil
		},
		productosFn: func() ([]*entity.Registro, error) {
			return []*entity.Registro{
				registroCon("cCodigoProducto", "7000017", "cNombreProducto", "Renta persona fisica"),
			}, nil
		},
		proveedoresFn: func(rfc string) ([]*entity.Registro, error) {
			return []*entity.Registro{proveedorPrueba()}, nil
		},
	}
}

func TestDetalleVer(t *testing.T) {
	uc := NewDetalleUseCase(apiConDetalle(), testLogger())
	_, ses := sesionConEmpresa(empresaPrueba())
	ses.SetEgreso(egresoDetalle())

	out, err := uc.Ver(context.Background(), ses)
	require.NoError(t, err)

	// los campos precalculados por la lista mandan sobre las heurísticas
	assert.Equal(t, "XAXX", out.Serie)
	assert.Equal(t, "2345", out.Folio)
	assert.Equal(t, "XAXX010101000", out.RFC)
	assert.Equal(t, "B2C3-D4E5-0002", out.UUID)
	assert.Equal(t, "$1,160.00", out.Total)
	assert.Equal(t, "Rentas", out.Categoria)
	assert.False(t, out.EnviadaAComercial)

	assert.Empty(t, out.XMLError)
	assert.Equal(t, comprobanteRentas, out.XML)
	assert.NotEmpty(t, out.XMLFormateado)

	assert.Equal(t, "1000.00", out.Totales.Subtotal)
	assert.Equal(t, "160.00", out.Totales.TotalTrasladados)
	assert.Equal(t, "106.67", out.Totales.TotalRetenidos)

	require.NotNil(t, out.Vista)
	assert.Equal(t, "Arrendador Uno", out.Vista.Emisor.Nombre)

	require.Len(t, out.Retenciones, 1)
	assert.Equal(t, "IVA", out.Retenciones[0].Impuesto)
	assert.Equal(t, "10.6667%", out.Retenciones[0].Tasa)
	assert.Equal(t, "106.67", out.Retenciones[0].Importe)

	require.NotNil(t, out.Payload)
	assert.Equal(t, "XAXX", out.Payload.Serie)
	assert.Equal(t, float64(2345), out.Payload.Folio)
	assert.Equal(t, "2024-05-20T10:30:00.000Z", out.Payload.Fecha)
	assert.Equal(t, "B2C3-D4E5-0002", out.Payload.AsociarUUID)
	assert.Equal(t, float64(1000), out.Payload.Precio)
	assert.InDelta(t, 10.6667, out.Payload.TasaRetencionIVA, 0.0001)
	assert.InDelta(t, 10.6667, out.TasaRetencionIVA, 0.0001)

	assert.Equal(t, "612", out.RegimenFiscalEmisor)
	assert.False(t, out.TieneIVA08)

	// rentas con régimen 612 en MSU preselecciona concepto y producto
	require.NotNil(t, out.RentasDefaults)
	assert.Equal(t, "118", out.RentasDefaults.Concepto)
	assert.Equal(t, "7000017", out.RentasDefaults.Producto)

	require.Len(t, out.Catalogos.Conceptos, 1)
	assert.Equal(t, "Gastos por rentas", out.Catalogos.Conceptos[0].Etiqueta)
	assert.Equal(t, "118", out.Catalogos.Conceptos[0].Codigo)

	require.Len(t, out.Catalogos.Productos, 1)
	assert.Equal(t, "7000017 - Renta persona fisica", out.Catalogos.Productos[0].Etiqueta)

	require.Len(t, out.Catalogos.ProveedoresRFC, 1)
	assert.Equal(t, "PROV001 - Arrendador Uno SA", out.Catalogos.ProveedoresRFC[0].Etiqueta)
	assert.Equal(t, "SEG01", out.Catalogos.ProveedoresRFC[0].Segmento)
	assert.Equal(t, "SUC01", out.Catalogos.ProveedoresRFC[0].Sucursal)
	assert.Empty(t, out.Catalogos.Error)
}

func TestDetalleSinGuid(t *testing.T) {
	uc := NewDetalleUseCase(apiConDetalle(), testLogger())
	_, ses := sesionConEmpresa(empresaPrueba())
	reg := registroCon(
		"uuid", "B2C3-D4E5-0002",
		"nombreEmisor", "Arrendador Uno",
		"total", "1160.00",
	)
	ses.SetEgreso(reg)

	out, err := uc.Ver(context.Background(), ses)
	require.NoError(t, err)
	assert.Equal(t, "No se encontro guidDocument en este egreso", out.XMLError)
	assert.Empty(t, out.XML)
	assert.Nil(t, out.Vista)
}

func TestDetalleXMLFalla(t *testing.T) {
	api := apiConDetalle()
	api.detalleFn = func(_, _ string) (any, error) {
		return nil, domain.ErrUpstream
	}
	uc := NewDetalleUseCase(api, testLogger())
	_, ses := sesionConEmpresa(empresaPrueba())
	ses.SetEgreso(egresoDetalle())

	out, err := uc.Ver(context.Background(), ses)
	require.NoError(t, err)
	assert.Equal(t, "No se pudo cargar el detalle XML", out.XMLError)

	// los catálogos se cargan aunque el comprobante falle
	assert.Len(t, out.Catalogos.Conceptos, 1)
}

func TestDetalleCatalogosDegradan(t *testing.T) {
	api := apiConDetalle()
	api.conceptosFn = func() ([]*entity.Registro, error) {
		return nil, errors.New("timeout")
	}
	api.productosFn = func() ([]*entity.Registro, error) {
		return nil, errors.New("timeout")
	}
	uc := NewDetalleUseCase(api, testLogger())
	_, ses := sesionConEmpresa(empresaPrueba())
	ses.SetEgreso(egresoDetalle())

	out, err := uc.Ver(context.Background(), ses)
	require.NoError(t, err)
	assert.Equal(t, "No se pudieron cargar los datos de CONTPAQi", out.Catalogos.Error)
	assert.Empty(t, out.Catalogos.Productos)
	assert.Len(t, out.Catalogos.ProveedoresRFC, 1)
}

func TestDetalleSinEgresoSeleccionado(t *testing.T) {
	uc := NewDetalleUseCase(apiConDetalle(), testLogger())
	_, ses := sesionConEmpresa(empresaPrueba())

	_, err := uc.Ver(context.Background(), ses)
	assert.ErrorIs(t, err, domain.ErrEgresoNoSeleccionado)
}

func TestDetalleSinEmpresa(t *testing.T) {
	uc := NewDetalleUseCase(apiConDetalle(), testLogger())
	store := session.NewStore(time.Minute)
	ses := store.Create("tok-upstream")
	ses.SetEgreso(egresoDetalle())

	_, err := uc.Ver(context.Background(), ses)
	assert.ErrorIs(t, err, domain.ErrEmpresaNoSeleccionada)
}
