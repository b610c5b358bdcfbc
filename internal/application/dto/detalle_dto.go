package dto

import "github.com/joseolvr/egresos-bridge/internal/domain/cfdi"

// CampoDetalle es una entrada visible del documento crudo.
type CampoDetalle struct {
	Clave    string `json:"clave"`
	Etiqueta string `json:"etiqueta"`
	Valor    string `json:"valor"`
}

// TotalesXML son los montos globales extraídos del comprobante.
type TotalesXML struct {
	Subtotal         string `json:"subtotal"`
	Descuento        string `json:"descuento"`
	TotalTrasladados string `json:"totalImpuestosTrasladados"`
	TotalRetenidos   string `json:"totalImpuestosRetenidos"`
}

// ResumenRetencionDTO total acumulado de una combinación impuesto/tasa.
type ResumenRetencionDTO struct {
	Impuesto string `json:"impuesto"`
	Tasa     string `json:"tasa"`
	Importe  string `json:"importe"`
}

// OpcionCatalogo elemento de un catálogo de CONTPAQi listo para un select.
type OpcionCatalogo struct {
	Valor    string `json:"valor"`
	Etiqueta string `json:"etiqueta"`
	Codigo   string `json:"codigo,omitempty"`
	Segmento string `json:"segmento,omitempty"`
	Sucursal string `json:"sucursal,omitempty"`
}

// CatalogosContpaqi catálogos cargados para el envío. Cada lista puede
// venir vacía si su consulta falló; Error avisa de la degradación.
type CatalogosContpaqi struct {
	Conceptos        []OpcionCatalogo `json:"conceptos"`
	Productos        []OpcionCatalogo `json:"productos"`
	ProveedoresRFC   []OpcionCatalogo `json:"proveedoresRfc"`
	ProveedoresTodos []OpcionCatalogo `json:"proveedoresTodos"`
	Error            string           `json:"error,omitempty"`
}

// PayloadPreviewDTO valores ya calculados que llevará el documento de
// egreso, independientes de las selecciones del usuario.
type PayloadPreviewDTO struct {
	Serie            string  `json:"serie"`
	Folio            float64 `json:"folio"`
	Fecha            string  `json:"fecha"`
	AsociarUUID      string  `json:"asociarUUID"`
	Precio           float64 `json:"precio"`
	TasaRetencionIVA float64 `json:"tasaRetencionIva"`
}

// RentasDefaultsDTO selección sugerida para egresos de rentas.
type RentasDefaultsDTO struct {
	Concepto string `json:"concepto"`
	Producto string `json:"producto"`
}

// DetalleResponse es la vista completa del egreso seleccionado.
type DetalleResponse struct {
	Serie             string         `json:"serie"`
	Folio             string         `json:"folio"`
	RFC               string         `json:"rfc"`
	UUID              string         `json:"uuid"`
	Emisor            string         `json:"emisor"`
	Fecha             string         `json:"fecha"`
	Total             string         `json:"total"`
	Categoria         string         `json:"categoria"`
	EnviadaAComercial bool           `json:"enviadaAComercial"`
	Entradas          []CampoDetalle `json:"entradas"`

	XML           string     `json:"xml,omitempty"`
	XMLFormateado string     `json:"xmlFormateado,omitempty"`
	XMLError      string     `json:"xmlError,omitempty"`
	Totales       TotalesXML `json:"totales"`

	Vista       *cfdi.Vista           `json:"vista,omitempty"`
	Retenciones []ResumenRetencionDTO `json:"retenciones"`

	RegimenFiscalEmisor string  `json:"regimenFiscalEmisor,omitempty"`
	TieneIVA08          bool    `json:"tieneIva08"`
	TasaRetencionIVA    float64 `json:"tasaRetencionIva"`

	Payload        *PayloadPreviewDTO `json:"payload,omitempty"`
	Catalogos      CatalogosContpaqi  `json:"catalogos"`
	RentasDefaults *RentasDefaultsDTO `json:"rentasDefaults,omitempty"`
}
