package usecase

import (
	"context"
	"strings"

	"github.com/joseolvr/egresos-bridge/internal/application/dto"
	"github.com/joseolvr/egresos-bridge/internal/application/ports"
	"github.com/joseolvr/egresos-bridge/internal/domain/arrendamiento"
	"github.com/joseolvr/egresos-bridge/internal/domain/cfdi"
	"github.com/joseolvr/egresos-bridge/internal/domain/contpaqi"
	"github.com/joseolvr/egresos-bridge/internal/domain/entity"
	"github.com/joseolvr/egresos-bridge/internal/infrastructure/session"
	"github.com/joseolvr/egresos-bridge/pkg/logger"
	"github.com/joseolvr/egresos-bridge/pkg/sat"
)

// RapidoUseCase implementa el envío rápido de rentas: manda a CONTPAQi un
// lote de egresos de arrendamiento sin pasar por el detalle, resolviendo
// concepto, producto y proveedor con las reglas de rentas.
type RapidoUseCase struct {
	api ports.ContaAPI
	log *logger.Logger
}

// NewRapidoUseCase construye el caso de uso del envío rápido.
func NewRapidoUseCase(api ports.ContaAPI, log *logger.Logger) *RapidoUseCase {
	return &RapidoUseCase{api: api, log: log}
}

// preparado son los insumos resueltos de una fila lista para enviarse.
type preparado struct {
	defaults   arrendamiento.Defaults
	regimen    string
	metodoPago string
	codigoProv string
	segmento   string
	sucursal   string
	subtotal   string
	campos     cfdi.Fields
	uuid       string
	fecha      string
}

// Preview resuelve, sin enviar, los datos que el envío rápido usaría para
// una fila, para que el usuario los revise antes de confirmar.
func (uc *RapidoUseCase) Preview(ctx context.Context, ses *session.Session, rowID string) (*dto.PreviewRapidoResponse, error) {
	empresa, err := ses.GetEmpresa()
	if err != nil {
		return nil, err
	}
	reg, err := uc.buscarEgreso(ctx, ses, empresa, rowID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return &dto.PreviewRapidoResponse{Error: "Egreso no encontrado"}, nil
	}

	prep, motivo := uc.preparar(ctx, ses.Token, empresa, reg)
	if motivo != "" {
		return &dto.PreviewRapidoResponse{Error: previewErrores[motivo]}, nil
	}
	return &dto.PreviewRapidoResponse{
		Concepto:      prep.defaults.Concepto,
		Producto:      prep.defaults.Producto,
		Sucursal:      prep.sucursal,
		Segmento:      prep.segmento,
		RegimenFiscal: sat.RegimenFiscalDescripcion(prep.regimen),
		MetodoPago:    prep.metodoPago,
	}, nil
}

// Textos de error del preview por motivo interno.
var previewErrores = map[string]string{
	motivoSinGuid:      "Sin GUID del documento",
	motivoXMLVacio:     "XML vacío",
	motivoSinDefaults:  "Sin defaults para regimen fiscal",
	motivoSinProveedor: "Proveedor no encontrado",
	motivoSinSegmento:  "Falta segmento o sucursal",
}

// Motivos internos de rechazo de una fila.
const (
	motivoSinGuid      = "sin guid del documento"
	motivoXMLVacio     = "XML vacio"
	motivoSinDefaults  = "sin defaults de rentas"
	motivoSinProveedor = "proveedor no encontrado"
	motivoSinSegmento  = "falta segmento o sucursal"
)

// Enviar procesa las filas seleccionadas una por una, en orden. Cada fila
// que no se puede enviar queda registrada con su motivo; las demás se
// registran en CONTPAQi sin tasa de retención, como hace el envío rápido.
func (uc *RapidoUseCase) Enviar(ctx context.Context, ses *session.Session, in dto.EnvioRapidoRequest) (*dto.EnvioRapidoResponse, error) {
	empresa, err := ses.GetEmpresa()
	if err != nil {
		return nil, err
	}
	rango := rangoDeConsulta(ses, empresa, in.Desde, in.Hasta)
	registros, err := uc.api.Egresos(ctx, ses.Token, empresa.GuidDsl, empresa.RFC, rango.Desde, rango.Hasta)
	if err != nil {
		return nil, err
	}
	porFila := make(map[string]*entity.Registro, len(registros))
	for i, reg := range registros {
		porFila[cfdi.RowID(reg, i)] = reg
	}

	out := &dto.EnvioRapidoResponse{Errores: []string{}}
	for _, rowID := range in.RowIDs {
		reg, ok := porFila[rowID]
		if !ok {
			out.Omitidos++
			out.Errores = append(out.Errores, rowID+": egreso no encontrado")
			continue
		}
		if !esRentas(cfdi.Categoria(reg)) {
			out.Omitidos++
			out.Errores = append(out.Errores, rowID+": categoria no es rentas")
			continue
		}
		campos := cfdi.ResolveFields(reg, empresa.RFC, cfdi.FolioDetalle)
		if campos.EnviadaAComercial {
			out.Omitidos++
			out.Errores = append(out.Errores, rowID+": ya enviado")
			continue
		}
		prep, motivo := uc.preparar(ctx, ses.Token, empresa, reg)
		if motivo != "" {
			out.Omitidos++
			out.Errores = append(out.Errores, rowID+": "+motivo)
			continue
		}

		doc := contpaqi.Build(contpaqi.BuildParams{
			EmpresaBaseDatos: empresa.BaseDatos,
			EmpresaGuidDsl:   empresa.GuidDsl,
			CodConcepto:      prep.defaults.Concepto,
			Serie:            prep.campos.Serie,
			Folio:            prep.campos.Folio,
			Fecha:            prep.fecha,
			CodigoCteProv:    prep.codigoProv,
			Sucursal:         prep.sucursal,
			Segmento:         prep.segmento,
			UUID:             prep.uuid,
			Subtotal:         prep.subtotal,
			CodProducto:      prep.defaults.Producto,
			// el envío rápido nunca manda tasa de retención
			IncluirTasaRetencion: false,
		})
		if _, err := uc.api.CrearDocumento(ctx, ses.Token, doc); err != nil {
			uc.log.Warn().Err(err).Str("rowId", rowID).Msg("fallo el envío rápido de una fila")
			out.Omitidos++
			out.Errores = append(out.Errores, rowID+": error al enviar")
			continue
		}
		out.Enviados++
	}

	uc.log.Info().Int("enviados", out.Enviados).Int("omitidos", out.Omitidos).
		Int("errores", len(out.Errores)).Msg("envío rápido terminado")
	return out, nil
}

// preparar resuelve todo lo necesario para enviar una fila de rentas. El
// segundo valor es el motivo de rechazo, vacío si la fila está completa.
func (uc *RapidoUseCase) preparar(ctx context.Context, token string, empresa entity.Empresa, reg *entity.Registro) (preparado, string) {
	var prep preparado

	guid := cfdi.DocumentGuid(reg)
	if guid == "" {
		return prep, motivoSinGuid
	}
	crudo, err := uc.api.DetalleXML(ctx, token, empresa.GuidDsl, guid)
	if err != nil {
		uc.log.Warn().Err(err).Str("guidDocument", guid).Msg("no se pudo cargar el comprobante para el envío rápido")
		return prep, motivoXMLVacio
	}
	xmlString := cfdi.DisplayXML(crudo)
	if strings.TrimSpace(xmlString) == "" {
		return prep, motivoXMLVacio
	}

	prep.regimen = cfdi.RegimenFiscalEmisor(xmlString)
	defaults, ok := arrendamiento.DefaultsParaEmpresa(empresa.BaseDatos, prep.regimen, cfdi.HasIVA08(xmlString))
	if !ok {
		return prep, motivoSinDefaults
	}
	prep.defaults = defaults

	prep.campos = cfdi.ResolveFields(reg, empresa.RFC, cfdi.FolioDetalle)
	proveedores, err := uc.api.Proveedores(ctx, token, empresa.BaseDatos, cfdi.Cadena(prep.campos.RFC))
	if err != nil || len(proveedores) == 0 {
		return prep, motivoSinProveedor
	}
	proveedor := proveedores[0]
	prep.codigoProv = contpaqi.ProveedorCodigoCliente(proveedor)
	prep.segmento = contpaqi.ProveedorSegmento(proveedor)
	prep.sucursal = contpaqi.ProveedorSucursal(proveedor)
	if prep.segmento == "" || prep.sucursal == "" {
		return prep, motivoSinSegmento
	}

	prep.subtotal = cfdi.SubtotalFromXML(xmlString)
	if prep.subtotal == "" {
		prep.subtotal = cfdi.Cadena(prep.campos.Total)
	}
	prep.metodoPago = cfdi.ComprobanteAttr(xmlString, "MetodoPago")
	prep.uuid = cfdi.Cadena(prep.campos.UUID)
	prep.fecha = cfdi.Cadena(prep.campos.Fecha)
	return prep, ""
}

// buscarEgreso localiza una fila por su identificador dentro del último
// rango consultado. Devuelve nil sin error cuando la fila no aparece.
func (uc *RapidoUseCase) buscarEgreso(ctx context.Context, ses *session.Session, empresa entity.Empresa, rowID string) (*entity.Registro, error) {
	rango := rangoDeConsulta(ses, empresa, "", "")
	registros, err := uc.api.Egresos(ctx, ses.Token, empresa.GuidDsl, empresa.RFC, rango.Desde, rango.Hasta)
	if err != nil {
		return nil, err
	}
	for i, reg := range registros {
		if cfdi.RowID(reg, i) == rowID {
			return reg, nil
		}
	}
	return nil, nil
}
