package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseolvr/egresos-bridge/internal/application/dto"
	"github.com/joseolvr/egresos-bridge/internal/domain/contpaqi"
	"github.com/joseolvr/egresos-bridge/internal/domain/entity"
)

// apiRapido arma el upstream del envío rápido: una renta pendiente, una ya
// enviada, un egreso de otra categoría y una renta sin guid de documento.
func apiRapido() *fakeContaAPI {
	sinGuid := registroCon(
		"fecha", "2024-05-21T09:00:00",
		"nombreEmisor", "Arrendador Tres",
		"rfc", "XAXX010101000",
		"uuid", "D4E5-F6A7-0004",
		"total", "5000.00",
		"tipoClasificacion", "Rentas",
		"enviadaAComercial", false,
	)
	api := apiConDetalle()
	api.egresosFn = func(_, _, _, _ string) ([]*entity.Registro, error) {
		return []*entity.Registro{
			egresoPrueba("A1B2-C3D4-0001", "Arrendador Uno", "Rentas", false),
			egresoPrueba("B2C3-D4E5-0002", "Arrendador Dos", "Rentas", true),
			egresoPrueba("C3D4-E5F6-0003", "Papeleria Sur", "Servicios", false),
			sinGuid,
		}, nil
	}
	return api
}

func TestRapidoEnviar(t *testing.T) {
	api := apiRapido()
	uc := NewRapidoUseCase(api, testLogger())
	_, ses := sesionConEmpresa(empresaPrueba())

	res, err := uc.Enviar(context.Background(), ses, dto.EnvioRapidoRequest{
		RowIDs: []string{
			"doc-A1B2-C3D4-0001",
			"doc-B2C3-D4E5-0002",
			"doc-C3D4-E5F6-0003",
			"D4E5-F6A7-0004",
			"no-existe",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Enviados)
	// toda fila no enviada cuenta como omitida
	assert.Equal(t, 4, res.Omitidos)
	assert.Equal(t, len(res.Errores), res.Omitidos)
	assert.Contains(t, res.Errores, "doc-B2C3-D4E5-0002: ya enviado")
	assert.Contains(t, res.Errores, "doc-C3D4-E5F6-0003: categoria no es rentas")
	assert.Contains(t, res.Errores, "D4E5-F6A7-0004: sin guid del documento")
	assert.Contains(t, res.Errores, "no-existe: egreso no encontrado")

	require.Len(t, api.creados, 1)
	doc := api.creados[0]
	assert.Equal(t, "118", doc.CodConcepto)
	assert.Equal(t, float64(1234), doc.Folio)
	assert.Equal(t, "PROV001", doc.CodigoCteProv)
	assert.Equal(t, "A1B2-C3D4-0001", doc.AsociarUUID)

	require.Len(t, doc.Movimientos, 1)
	mov := doc.Movimientos[0]
	assert.Equal(t, "7000017", mov.CodProdSer)
	assert.Equal(t, float64(1000), mov.Precio)
	assert.Equal(t, "SEG01", mov.Segmento)
	assert.Equal(t, "SUC01", mov.Referencia)

	// el envío rápido nunca manda la tasa de retención
	assert.Nil(t, mov.TasaRetencionIVA)
}

func TestRapidoSinProveedor(t *testing.T) {
	api := apiRapido()
	api.proveedoresFn = func(_ string) ([]*entity.Registro, error) {
		return nil, nil
	}
	uc := NewRapidoUseCase(api, testLogger())
	_, ses := sesionConEmpresa(empresaPrueba())

	res, err := uc.Enviar(context.Background(), ses, dto.EnvioRapidoRequest{
		RowIDs: []string{"doc-A1B2-C3D4-0001"},
	})
	require.NoError(t, err)
	assert.Zero(t, res.Enviados)
	assert.Equal(t, 1, res.Omitidos)
	assert.Contains(t, res.Errores, "doc-A1B2-C3D4-0001: proveedor no encontrado")
	assert.Empty(t, api.creados)
}

func TestRapidoProveedorIncompleto(t *testing.T) {
	api := apiRapido()
	api.proveedoresFn = func(_ string) ([]*entity.Registro, error) {
		return []*entity.Registro{registroCon(
			"cCodigoCliente", "PROV001",
			"razonSocial", "Arrendador Uno SA",
		)}, nil
	}
	uc := NewRapidoUseCase(api, testLogger())
	_, ses := sesionConEmpresa(empresaPrueba())

	res, err := uc.Enviar(context.Background(), ses, dto.EnvioRapidoRequest{
		RowIDs: []string{"doc-A1B2-C3D4-0001"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Omitidos)
	assert.Contains(t, res.Errores, "doc-A1B2-C3D4-0001: falta segmento o sucursal")
}

func TestRapidoFallaEnvio(t *testing.T) {
	api := apiRapido()
	api.crearFn = func(_ contpaqi.Documento) (any, error) {
		return nil, errors.New("upstream caido")
	}
	uc := NewRapidoUseCase(api, testLogger())
	_, ses := sesionConEmpresa(empresaPrueba())

	res, err := uc.Enviar(context.Background(), ses, dto.EnvioRapidoRequest{
		RowIDs: []string{"doc-A1B2-C3D4-0001"},
	})
	require.NoError(t, err)
	assert.Zero(t, res.Enviados)
	assert.Equal(t, 1, res.Omitidos)
	assert.Contains(t, res.Errores, "doc-A1B2-C3D4-0001: error al enviar")
}

func TestRapidoPreview(t *testing.T) {
	uc := NewRapidoUseCase(apiRapido(), testLogger())
	_, ses := sesionConEmpresa(empresaPrueba())

	res, err := uc.Preview(context.Background(), ses, "doc-A1B2-C3D4-0001")
	require.NoError(t, err)
	assert.Empty(t, res.Error)
	assert.Equal(t, "118", res.Concepto)
	assert.Equal(t, "7000017", res.Producto)
	assert.Equal(t, "SEG01", res.Segmento)
	assert.Equal(t, "SUC01", res.Sucursal)
	assert.Contains(t, res.RegimenFiscal, "612")
	assert.Equal(t, "PPD", res.MetodoPago)
}

func TestRapidoPreviewNoEncontrado(t *testing.T) {
	uc := NewRapidoUseCase(apiRapido(), testLogger())
	_, ses := sesionConEmpresa(empresaPrueba())

	res, err := uc.Preview(context.Background(), ses, "no-existe")
	require.NoError(t, err)
	assert.Equal(t, "Egreso no encontrado", res.Error)
}
