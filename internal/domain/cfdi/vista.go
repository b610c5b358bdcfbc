package cfdi

import "github.com/joseolvr/egresos-bridge/pkg/sat"

// VistaEmisor son los datos del emisor tomados del comprobante.
type VistaEmisor struct {
	RFC     string `json:"rfc"`
	Nombre  string `json:"nombre"`
	Regimen string `json:"regimen"`
}

// VistaReceptor son los datos del receptor tomados del comprobante.
type VistaReceptor struct {
	RFC       string `json:"rfc"`
	Nombre    string `json:"nombre"`
	UsoCFDI   string `json:"usoCfdi"`
	Domicilio string `json:"domicilio"`
	Regimen   string `json:"regimen"`
}

// VistaComprobante son los atributos globales del comprobante.
type VistaComprobante struct {
	Subtotal   string `json:"subtotal"`
	Descuento  string `json:"descuento"`
	Total      string `json:"total"`
	Fecha      string `json:"fecha"`
	MetodoPago string `json:"metodoPago"`
}

// VistaConcepto es una partida del comprobante.
type VistaConcepto struct {
	Clave         string `json:"clave"`
	Cantidad      string `json:"cantidad"`
	Unidad        string `json:"unidad"`
	Descripcion   string `json:"descripcion"`
	ValorUnitario string `json:"valorUnitario"`
	Importe       string `json:"importe"`
	Descuento     string `json:"descuento"`
}

// VistaTraslado es un impuesto trasladado listo para mostrar.
type VistaTraslado struct {
	Impuesto string `json:"impuesto"`
	Tasa     string `json:"tasa"`
	Importe  string `json:"importe"`
}

// VistaRetencion es un impuesto retenido listo para mostrar.
type VistaRetencion struct {
	Impuesto string `json:"impuesto"`
	Tasa     string `json:"tasa"`
	Importe  string `json:"importe"`
}

// Vista es la lectura estructurada del comprobante para la pantalla de
// detalle.
type Vista struct {
	Emisor      VistaEmisor      `json:"emisor"`
	Receptor    VistaReceptor    `json:"receptor"`
	Comprobante VistaComprobante `json:"comprobante"`
	Conceptos   []VistaConcepto  `json:"conceptos"`
	Traslados   []VistaTraslado  `json:"traslados"`
	Retenciones []VistaRetencion `json:"retenciones"`
}

func oGuion(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// BuildVista construye la lectura estructurada a partir del texto del
// comprobante. Con XML vacío devuelve una vista de guiones, nunca nil en
// los cortes.
func BuildVista(xml string) Vista {
	if xml == "" {
		return Vista{
			Emisor:      VistaEmisor{RFC: "-", Nombre: "-", Regimen: "-"},
			Receptor:    VistaReceptor{RFC: "-", Nombre: "-", UsoCFDI: "-", Domicilio: "-", Regimen: "-"},
			Comprobante: VistaComprobante{Subtotal: "-", Descuento: "-", Total: "-", Fecha: "-", MetodoPago: "-"},
		}
	}

	emisorAttrs := TagAttributes(xml, "Emisor")
	receptorAttrs := TagAttributes(xml, "Receptor")
	comprobanteAttrs := TagAttributes(xml, "Comprobante")

	var conceptos []VistaConcepto
	for _, m := range reConcepto.FindAllStringSubmatch(xml, -1) {
		attrs := m[1]
		unidad := AttrValue(attrs, "Unidad")
		if unidad == "" {
			unidad = AttrValue(attrs, "ClaveUnidad")
		}
		conceptos = append(conceptos, VistaConcepto{
			Clave:         AttrValue(attrs, "ClaveProdServ"),
			Cantidad:      AttrValue(attrs, "Cantidad"),
			Unidad:        unidad,
			Descripcion:   AttrValue(attrs, "Descripcion"),
			ValorUnitario: AttrValue(attrs, "ValorUnitario"),
			Importe:       AttrValue(attrs, "Importe"),
			Descuento:     AttrValue(attrs, "Descuento"),
		})
	}

	var traslados []VistaTraslado
	for _, t := range TrasladosGlobales(xml) {
		traslados = append(traslados, VistaTraslado(t))
	}

	var retenciones []VistaRetencion
	for _, r := range RetencionesDelDocumento(xml) {
		retenciones = append(retenciones, VistaRetencion{
			Impuesto: r.Impuesto,
			Tasa:     r.Tasa,
			Importe:  r.Importe,
		})
	}

	subtotal := AttrValue(comprobanteAttrs, "SubTotal")
	if subtotal == "" {
		subtotal = AttrValue(comprobanteAttrs, "Subtotal")
	}
	regimenReceptor := AttrValue(receptorAttrs, "RegimenFiscalReceptor")
	if regimenReceptor == "" {
		regimenReceptor = AttrValue(receptorAttrs, "RegimenFiscal")
	}

	return Vista{
		Emisor: VistaEmisor{
			RFC:     oGuion(AttrValue(emisorAttrs, "Rfc")),
			Nombre:  oGuion(AttrValue(emisorAttrs, "Nombre")),
			Regimen: sat.RegimenFiscalDescripcion(AttrValue(emisorAttrs, "RegimenFiscal")),
		},
		Receptor: VistaReceptor{
			RFC:       oGuion(AttrValue(receptorAttrs, "Rfc")),
			Nombre:    oGuion(AttrValue(receptorAttrs, "Nombre")),
			UsoCFDI:   oGuion(AttrValue(receptorAttrs, "UsoCFDI")),
			Domicilio: oGuion(AttrValue(receptorAttrs, "DomicilioFiscalReceptor")),
			Regimen:   sat.RegimenFiscalDescripcion(regimenReceptor),
		},
		Comprobante: VistaComprobante{
			Subtotal:   oGuion(subtotal),
			Descuento:  oGuion(AttrValue(comprobanteAttrs, "Descuento")),
			Total:      oGuion(AttrValue(comprobanteAttrs, "Total")),
			Fecha:      oGuion(AttrValue(comprobanteAttrs, "Fecha")),
			MetodoPago: oGuion(AttrValue(comprobanteAttrs, "MetodoPago")),
		},
		Conceptos:   conceptos,
		Traslados:   traslados,
		Retenciones: retenciones,
	}
}

// RegimenFiscalEmisor lee el régimen fiscal del emisor directamente del
// comprobante, sin descripción de catálogo. Lo usan las reglas de rentas.
func RegimenFiscalEmisor(xml string) string {
	return AttrValue(TagAttributes(xml, "Emisor"), "RegimenFiscal")
}
