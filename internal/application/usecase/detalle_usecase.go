package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/joseolvr/egresos-bridge/internal/application/dto"
	"github.com/joseolvr/egresos-bridge/internal/application/ports"
	"github.com/joseolvr/egresos-bridge/internal/domain/arrendamiento"
	"github.com/joseolvr/egresos-bridge/internal/domain/cfdi"
	"github.com/joseolvr/egresos-bridge/internal/domain/contpaqi"
	"github.com/joseolvr/egresos-bridge/internal/domain/entity"
	"github.com/joseolvr/egresos-bridge/internal/infrastructure/session"
	"github.com/joseolvr/egresos-bridge/pkg/logger"
)

// DetalleUseCase arma la vista completa del egreso abierto: campos
// resueltos, lectura del comprobante y catálogos de CONTPAQi para el envío.
type DetalleUseCase struct {
	api ports.ContaAPI
	log *logger.Logger
}

// NewDetalleUseCase construye el caso de uso del detalle.
func NewDetalleUseCase(api ports.ContaAPI, log *logger.Logger) *DetalleUseCase {
	return &DetalleUseCase{api: api, log: log}
}

// Ver arma el detalle del egreso seleccionado en la sesión. Las fallas
// parciales (XML o catálogos) degradan la respuesta en lugar de abortarla.
func (uc *DetalleUseCase) Ver(ctx context.Context, ses *session.Session) (*dto.DetalleResponse, error) {
	empresa, err := ses.GetEmpresa()
	if err != nil {
		return nil, err
	}
	reg, err := ses.GetEgreso()
	if err != nil {
		return nil, err
	}

	campos := cfdi.ResolveFieldsDetalle(reg, empresa.RFC)
	categoria := cfdi.Categoria(reg)

	out := &dto.DetalleResponse{
		Serie:             campos.Serie,
		Folio:             campos.Folio,
		RFC:               cfdi.FormatCell(campos.RFC),
		UUID:              cfdi.FormatCell(campos.UUID),
		Emisor:            cfdi.FormatCell(campos.Emisor),
		Fecha:             cfdi.FormatCell(campos.Fecha),
		Total:             cfdi.FormatTotal(campos.Total),
		Categoria:         categoria,
		EnviadaAComercial: campos.EnviadaAComercial,
		Entradas:          entradasDetalle(reg),
		Retenciones:       []dto.ResumenRetencionDTO{},
	}

	// comprobante
	xmlString := uc.cargarXML(ctx, ses, empresa, reg, out)
	if xmlString != "" {
		trasladados, retenidos := cfdi.ImpuestosTotales(xmlString)
		out.Totales = dto.TotalesXML{
			Subtotal:         cfdi.SubtotalFromXML(xmlString),
			Descuento:        cfdi.DescuentoFromXML(xmlString),
			TotalTrasladados: trasladados,
			TotalRetenidos:   retenidos,
		}
		vista := cfdi.BuildVista(xmlString)
		out.Vista = &vista
		for _, r := range cfdi.ResumirRetenciones(cfdi.RetencionesDelDocumento(xmlString)) {
			out.Retenciones = append(out.Retenciones, dto.ResumenRetencionDTO{
				Impuesto: r.Impuesto,
				Tasa:     r.Tasa,
				Importe:  r.Importe.String(),
			})
		}
		out.RegimenFiscalEmisor = cfdi.RegimenFiscalEmisor(xmlString)
		out.TieneIVA08 = cfdi.HasIVA08(xmlString)
		out.TasaRetencionIVA = cfdi.TasaRetencionIVA(xmlString)
	}

	subtotal := cfdi.SubtotalFromXML(xmlString)
	if subtotal == "" {
		subtotal = cfdi.Cadena(campos.Total)
	}
	fecha := contpaqi.NormalizeDate(cfdi.Cadena(campos.Fecha))
	if fecha == "" {
		fecha = contpaqi.NormalizeDate(cfdi.FormatDateOnly(cfdi.Cadena(campos.Fecha)))
	}
	out.Payload = &dto.PayloadPreviewDTO{
		Serie:            campos.Serie,
		Folio:            contpaqi.NormalizeNumber(campos.Folio),
		Fecha:            fecha,
		AsociarUUID:      cfdi.Cadena(campos.UUID),
		Precio:           contpaqi.NormalizeNumber(subtotal),
		TasaRetencionIVA: out.TasaRetencionIVA,
	}

	// catálogos de CONTPAQi, en paralelo y con degradación por sección
	out.Catalogos = uc.cargarCatalogos(ctx, ses.Token, empresa.BaseDatos, cfdi.Cadena(campos.RFC))

	if strings.ToLower(categoria) == "rentas" {
		if defaults, ok := arrendamiento.DefaultsParaEmpresa(empresa.BaseDatos, out.RegimenFiscalEmisor, out.TieneIVA08); ok {
			out.RentasDefaults = &dto.RentasDefaultsDTO{
				Concepto: defaults.Concepto,
				Producto: defaults.Producto,
			}
		}
	}

	return out, nil
}

// cargarXML pide el comprobante al upstream. Si el egreso no trae guid o la
// consulta falla, deja el aviso en la respuesta y devuelve cadena vacía.
func (uc *DetalleUseCase) cargarXML(ctx context.Context, ses *session.Session, empresa entity.Empresa, reg *entity.Registro, out *dto.DetalleResponse) string {
	guid := cfdi.DocumentGuid(reg)
	if guid == "" {
		out.XMLError = "No se encontro guidDocument en este egreso"
		return ""
	}
	crudo, err := uc.api.DetalleXML(ctx, ses.Token, empresa.GuidDsl, guid)
	if err != nil {
		uc.log.Warn().Err(err).Str("guidDocument", guid).Msg("no se pudo cargar el detalle XML")
		out.XMLError = "No se pudo cargar el detalle XML"
		return ""
	}
	xmlString := cfdi.DisplayXML(crudo)
	out.XML = xmlString
	if strings.HasPrefix(strings.TrimSpace(xmlString), "<") {
		out.XMLFormateado = cfdi.FormatXML(xmlString)
	}
	return xmlString
}

// cargarCatalogos consulta los cuatro catálogos en paralelo. Si fallan los
// conceptos se avisa; las demás secciones degradan a lista vacía.
func (uc *DetalleUseCase) cargarCatalogos(ctx context.Context, token, baseDatos, rfcProveedor string) dto.CatalogosContpaqi {
	var (
		wg                   sync.WaitGroup
		conceptos, productos []*entity.Registro
		provRFC, provTodos   []*entity.Registro
		errConceptos         error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		conceptos, errConceptos = uc.api.ConceptosCompras(ctx, token, baseDatos)
	}()
	go func() {
		defer wg.Done()
		var err error
		if productos, err = uc.api.Productos(ctx, token, baseDatos); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudieron cargar productos")
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if provRFC, err = uc.api.Proveedores(ctx, token, baseDatos, rfcProveedor); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudieron cargar proveedores por RFC")
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if provTodos, err = uc.api.Proveedores(ctx, token, baseDatos, ""); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudieron cargar proveedores")
		}
	}()
	wg.Wait()

	out := dto.CatalogosContpaqi{
		Conceptos:        opcionesConcepto(conceptos),
		Productos:        opcionesProducto(productos),
		ProveedoresRFC:   opcionesProveedor(provRFC, "prov-rfc"),
		ProveedoresTodos: opcionesProveedor(provTodos, "prov-all"),
	}
	if errConceptos != nil {
		uc.log.Warn().Err(errConceptos).Msg("no se pudieron cargar conceptos de compras")
		out.Error = "No se pudieron cargar los datos de CONTPAQi"
	}
	return out
}

func entradasDetalle(reg *entity.Registro) []dto.CampoDetalle {
	entradas := cfdi.DetailEntries(reg)
	out := make([]dto.CampoDetalle, 0, len(entradas))
	for _, e := range entradas {
		out = append(out, dto.CampoDetalle{Clave: e.Clave, Etiqueta: e.Etiqueta, Valor: e.Valor})
	}
	return out
}

func opcionesConcepto(items []*entity.Registro) []dto.OpcionCatalogo {
	out := make([]dto.OpcionCatalogo, 0, len(items))
	for i, item := range items {
		out = append(out, dto.OpcionCatalogo{
			Valor:    contpaqi.SelectValue(item, "concepto", i),
			Etiqueta: contpaqi.ConceptoNombre(item),
			Codigo:   contpaqi.ConceptoCodigo(item),
		})
	}
	return out
}

func opcionesProducto(items []*entity.Registro) []dto.OpcionCatalogo {
	out := make([]dto.OpcionCatalogo, 0, len(items))
	for i, item := range items {
		etiqueta := contpaqi.ProductoNombre(item)
		if codigo := contpaqi.ProductoCodigo(item); codigo != "" {
			etiqueta = codigo + " - " + etiqueta
		}
		out = append(out, dto.OpcionCatalogo{
			Valor:    contpaqi.SelectValue(item, "producto", i),
			Etiqueta: etiqueta,
			Codigo:   contpaqi.ProductoCodigo(item),
		})
	}
	return out
}

func opcionesProveedor(items []*entity.Registro, prefijo string) []dto.OpcionCatalogo {
	out := make([]dto.OpcionCatalogo, 0, len(items))
	for i, item := range items {
		out = append(out, dto.OpcionCatalogo{
			Valor:    contpaqi.SelectValue(item, prefijo, i),
			Etiqueta: contpaqi.ProveedorEtiqueta(item),
			Codigo:   contpaqi.ProveedorCodigoCliente(item),
			Segmento: contpaqi.ProveedorSegmento(item),
			Sucursal: contpaqi.ProveedorSucursal(item),
		})
	}
	return out
}
