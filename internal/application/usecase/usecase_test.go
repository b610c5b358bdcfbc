package usecase

import (
	"context"
	"time"

	"github.com/joseolvr/egresos-bridge/internal/application/ports"
	"github.com/joseolvr/egresos-bridge/internal/domain/contpaqi"
	"github.com/joseolvr/egresos-bridge/internal/domain/entity"
	"github.com/joseolvr/egresos-bridge/internal/infrastructure/session"
	"github.com/joseolvr/egresos-bridge/pkg/logger"
)

// fakeContaAPI implementa el puerto del upstream para las pruebas. Cada
// operación se puede programar con una función; las no programadas
// devuelven vacío sin error. Los documentos creados quedan registrados.
type fakeContaAPI struct {
	loginFn       func(usuario, contrasena string) (*ports.LoginResult, error)
	empresasFn    func() ([]entity.Empresa, error)
	egresosFn     func(guid, rfc, desde, hasta string) ([]*entity.Registro, error)
	detalleFn     func(guidDb, guidDocumento string) (any, error)
	conceptosFn   func() ([]*entity.Registro, error)
	proveedoresFn func(rfc string) ([]*entity.Registro, error)
	productosFn   func() ([]*entity.Registro, error)
	crearFn       func(doc contpaqi.Documento) (any, error)

	creados []contpaqi.Documento
}

var _ ports.ContaAPI = (*fakeContaAPI)(nil)

func (f *fakeContaAPI) Login(_ context.Context, usuario, contrasena string) (*ports.LoginResult, error) {
	if f.loginFn != nil {
		return f.loginFn(usuario, contrasena)
	}
	return &ports.LoginResult{Success: true, Token: "tok-upstream"}, nil
}

func (f *fakeContaAPI) Empresas(_ context.Context, _ string) ([]entity.Empresa, error) {
	if f.empresasFn != nil {
		return f.empresasFn()
	}
	return nil, nil
}

func (f *fakeContaAPI) Egresos(_ context.Context, _, guid, rfc, desde, hasta string) ([]*entity.Registro, error) {
	if f.egresosFn != nil {
		return f.egresosFn(guid, rfc, desde, hasta)
	}
	return nil, nil
}

func (f *fakeContaAPI) DetalleXML(_ context.Context, _, guidDb, guidDocumento string) (any, error) {
	if f.detalleFn != nil {
		return f.detalleFn(guidDb, guidDocumento)
	}
	return "", nil
}

func (f *fakeContaAPI) ConceptosCompras(_ context.Context, _, _ string) ([]*entity.Registro, error) {
	if f.conceptosFn != nil {
		return f.conceptosFn()
	}
	return nil, nil
}

func (f *fakeContaAPI) Proveedores(_ context.Context, _, _, rfc string) ([]*entity.Registro, error) {
	if f.proveedoresFn != nil {
		return f.proveedoresFn(rfc)
	}
	return nil, nil
}

func (f *fakeContaAPI) Productos(_ context.Context, _, _ string) ([]*entity.Registro, error) {
	if f.productosFn != nil {
		return f.productosFn()
	}
	return nil, nil
}

func (f *fakeContaAPI) CrearDocumento(_ context.Context, _ string, doc contpaqi.Documento) (any, error) {
	f.creados = append(f.creados, doc)
	if f.crearFn != nil {
		return f.crearFn(doc)
	}
	return map[string]any{"ok": true}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// sesionConEmpresa abre una sesión de prueba con la empresa ya elegida.
func sesionConEmpresa(empresa entity.Empresa) (*session.Store, *session.Session) {
	store := session.NewStore(time.Minute)
	ses := store.Create("tok-upstream")
	ses.SetEmpresa(empresa)
	return store, ses
}

func empresaPrueba() entity.Empresa {
	return entity.Empresa{
		Nombre:    "MSU 2024",
		BaseDatos: "adMSU2024",
		RFC:       "MSU010203AB1",
		GuidDsl:   "guid-msu",
	}
}

// registroCon arma un registro ordenado a partir de pares clave/valor.
func registroCon(pares ...any) *entity.Registro {
	reg := entity.NewRegistro()
	for i := 0; i+1 < len(pares); i += 2 {
		reg.Set(pares[i].(string), pares[i+1])
	}
	return reg
}

// egresoPrueba es un egreso típico de la lista del upstream.
func egresoPrueba(uuid, emisor, categoria string, enviado bool) *entity.Registro {
	return registroCon(
		"fecha", "2024-05-20T10:30:00",
		"nombreEmisor", emisor,
		"rfc", "XAXX010101000",
		"uuid", uuid,
		"total", "1160.00",
		"tipoClasificacion", categoria,
		"guidDocument", "doc-"+uuid,
		"enviadaAComercial", enviado,
	)
}

// comprobanteRentas es un CFDI mínimo para las reglas de rentas: emisor
// persona física (612) con IVA trasladado al 16% y retenciones.
const comprobanteRentas = `<?xml version="1.0"?>
<cfdi:Comprobante SubTotal="1000.00" Total="1160.00" MetodoPago="PPD">
  <cfdi:Emisor Rfc="XAXX010101000" Nombre="Arrendador Uno" RegimenFiscal="612"/>
  <cfdi:Receptor Rfc="MSU010203AB1" Nombre="MSU" RegimenFiscalReceptor="601"/>
  <cfdi:Impuestos TotalImpuestosTrasladados="160.00" TotalImpuestosRetenidos="106.67">
    <cfdi:Retenciones>
      <cfdi:Retencion Impuesto="002" Importe="106.67" TasaOCuota="0.106667"/>
    </cfdi:Retenciones>
    <cfdi:Traslados>
      <cfdi:Traslado Impuesto="002" TasaOCuota="0.160000" Importe="160.00"/>
    </cfdi:Traslados>
  </cfdi:Impuestos>
</cfdi:Comprobante>`

// proveedorPrueba es la respuesta típica del catálogo de proveedores.
func proveedorPrueba() *entity.Registro {
	return registroCon(
		"cCodigoCliente", "PROV001",
		"razonSocial", "Arrendador Uno SA",
		"segmento", "SEG01",
		"sucursal", "SUC01",
	)
}
