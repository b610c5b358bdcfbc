package cfdi

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseolvr/egresos-bridge/pkg/sat"
)

// El CFDI se consume como texto plano con expresiones regulares tolerantes
// a prefijos de namespace. Los comprobantes llegan de múltiples PACs con
// namespaces y mayúsculas inconsistentes, y con frecuencia no son XML
// perfectamente bien formado, así que un parser estricto rechazaría
// documentos que sí queremos mostrar.

var (
	reImpuestosGlobal = regexp.MustCompile(`(?is)<(?:[a-zA-Z_][\w.-]*:)?Impuestos\b.*?</(?:[a-zA-Z_][\w.-]*:)?Impuestos>`)
	reRetencion       = regexp.MustCompile(`(?i)<(?:[a-zA-Z_][\w.-]*:)?Retencion\b([^>]*?)/?>`)
	reTraslado        = regexp.MustCompile(`(?i)<(?:[a-zA-Z_][\w.-]*:)?Traslado\b([^>]*?)/?>`)
	reConcepto        = regexp.MustCompile(`(?i)<(?:[a-zA-Z_][\w.-]*:)?Concepto\b([^>]*)>`)

	reSubtotalAttr    = regexp.MustCompile(`(?i)subtotal\s*=\s*["']([^"']+)["']`)
	reSubtotalElem    = regexp.MustCompile(`(?i)<[^>]*subtotal[^>]*>([^<]+)</[^>]*>`)
	reDescuentoAttr   = regexp.MustCompile(`(?i)Descuento\s*=\s*["']([^"']+)["']`)
	reTotTrasladados  = regexp.MustCompile(`(?i)TotalImpuestosTrasladados\s*=\s*["']([^"']+)["']`)
	reTotRetenidos    = regexp.MustCompile(`(?i)TotalImpuestosRetenidos\s*=\s*["']([^"']+)["']`)
	reNoNumerico      = regexp.MustCompile(`[^0-9.\-]`)
)

// TagAttributes devuelve el texto crudo de atributos de la primera etiqueta
// de apertura que coincida con el nombre, tolerando un prefijo de namespace
// opcional y sin distinguir mayúsculas.
func TagAttributes(xml, etiqueta string) string {
	re := regexp.MustCompile(`(?i)<\s*(?:[a-zA-Z_][\w.-]*:)?` + regexp.QuoteMeta(etiqueta) + `\b([^>]*)>`)
	if m := re.FindStringSubmatch(xml); m != nil {
		return m[1]
	}
	return ""
}

// AttrValue extrae el valor de un atributo nombre="valor" o nombre='valor',
// sin distinguir mayúsculas en el nombre. Vacío si no está.
func AttrValue(atributos, nombre string) string {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(nombre) + `\s*=\s*["']([^"']+)["']`)
	if m := re.FindStringSubmatch(atributos); m != nil {
		return m[1]
	}
	return ""
}

// ComprobanteAttr lee un atributo del elemento raíz Comprobante.
func ComprobanteAttr(xml, nombre string) string {
	return AttrValue(TagAttributes(xml, "Comprobante"), nombre)
}

// SubtotalFromXML extrae el subtotal del comprobante: primero como atributo
// (SubTotal o Subtotal) y si no aparece, como elemento con texto.
func SubtotalFromXML(xml string) string {
	if m := reSubtotalAttr.FindStringSubmatch(xml); m != nil {
		return m[1]
	}
	if m := reSubtotalElem.FindStringSubmatch(xml); m != nil {
		return m[1]
	}
	return ""
}

// DescuentoFromXML extrae el descuento global del comprobante.
func DescuentoFromXML(xml string) string {
	if m := reDescuentoAttr.FindStringSubmatch(xml); m != nil {
		return m[1]
	}
	return ""
}

// ImpuestosTotales extrae los totales globales de impuestos trasladados y
// retenidos. Sólo se usan los totales del nodo global, nunca los de cada
// concepto.
func ImpuestosTotales(xml string) (trasladados, retenidos string) {
	if m := reTotTrasladados.FindStringSubmatch(xml); m != nil {
		trasladados = m[1]
	}
	if m := reTotRetenidos.FindStringSubmatch(xml); m != nil {
		retenidos = m[1]
	}
	return trasladados, retenidos
}

// GlobalImpuestosSection devuelve el bloque <Impuestos> global del
// comprobante. Un CFDI trae un bloque por concepto más uno global al final;
// el global es siempre la ÚLTIMA aparición, tomar la primera sumaría los
// impuestos por partida como si fueran el total del documento.
func GlobalImpuestosSection(xml string) string {
	matches := reImpuestosGlobal.FindAllString(xml, -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1]
}

// Retencion es un impuesto retenido tal como aparece en el comprobante.
type Retencion struct {
	ImpuestoCodigo string
	Impuesto       string
	Tasa           string
	Importe        string
}

// RetencionesFromXml extrae todas las retenciones de un fragmento XML,
// mapeando el código de impuesto a su nombre y la tasa a porcentaje.
func RetencionesFromXml(xml string) []Retencion {
	if xml == "" {
		return nil
	}
	var rets []Retencion
	for _, m := range reRetencion.FindAllStringSubmatch(xml, -1) {
		attrs := m[1]
		codigo := AttrValue(attrs, "Impuesto")
		nombre := sat.ImpuestoNombre[codigo]
		if nombre == "" {
			nombre = codigo
		}
		rets = append(rets, Retencion{
			ImpuestoCodigo: codigo,
			Impuesto:       nombre,
			Tasa:           RateToPercent(AttrValue(attrs, "TasaOCuota")),
			Importe:        AttrValue(attrs, "Importe"),
		})
	}
	return rets
}

// TasaPercent formatea una tasa decimal del CFDI como porcentaje con dos
// decimales fijos ("0.16" se vuelve "16.00%"). Vacío si no es numérica.
func TasaPercent(tasa string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(tasa))
	if err != nil {
		return ""
	}
	return d.Shift(2).StringFixed(2) + "%"
}

// RateToPercent convierte una tasa del XML a porcentaje legible. El SAT
// expresa las tasas como fracción ("0.160000") pero algunos comprobantes
// traen ya el porcentaje ("16.00"); la magnitud decide la regla: valores
// con magnitud ≤ 1 se multiplican por 100 conservando los decimales
// significativos, los mayores sólo se limpian de ceros sobrantes.
func RateToPercent(tasa string) string {
	limpio := strings.TrimSpace(tasa)
	if limpio == "" {
		return ""
	}
	d, err := decimal.NewFromString(limpio)
	if err != nil {
		return ""
	}
	if d.Abs().Cmp(decimal.NewFromInt(1)) <= 0 {
		decimales := 0
		if idx := strings.Index(limpio, "."); idx >= 0 {
			decimales = len(limpio) - idx - 1 - 2
			if decimales < 0 {
				decimales = 0
			}
		}
		escalado := d.Shift(2).StringFixed(int32(decimales))
		return recortarCeros(escalado) + "%"
	}
	return recortarCeros(limpio) + "%"
}

// recortarCeros elimina ceros decimales sobrantes y el punto final.
func recortarCeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// ParseImporte interpreta un importe dinámico como decimal: limpia símbolos
// de moneda y separadores, devuelve cero si no queda un número válido.
func ParseImporte(v any) decimal.Decimal {
	if Vacio(v) {
		return decimal.Zero
	}
	limpio := reNoNumerico.ReplaceAllString(Cadena(v), "")
	d, err := decimal.NewFromString(limpio)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RetencionTasaMap asocia cada impuesto (por código y por nombre) con la
// primera tasa no vacía vista en el documento. Sirve para rellenar la tasa
// de retenciones que el comprobante trae sin TasaOCuota.
func RetencionTasaMap(xml string) map[string]string {
	tasas := make(map[string]string)
	for _, ret := range RetencionesFromXml(xml) {
		if ret.Tasa == "" {
			continue
		}
		if ret.ImpuestoCodigo != "" {
			if _, ok := tasas[ret.ImpuestoCodigo]; !ok {
				tasas[ret.ImpuestoCodigo] = ret.Tasa
			}
		}
		if ret.Impuesto != "" {
			if _, ok := tasas[ret.Impuesto]; !ok {
				tasas[ret.Impuesto] = ret.Tasa
			}
		}
	}
	return tasas
}

// RetencionesDelDocumento devuelve las retenciones relevantes para mostrar:
// las del bloque global si existe, o las de todo el documento si no, con la
// tasa rellenada desde el mapa de tasas cuando viene vacía.
func RetencionesDelDocumento(xml string) []Retencion {
	global := GlobalImpuestosSection(xml)
	tasas := RetencionTasaMap(xml)
	rets := RetencionesFromXml(global)
	if len(rets) == 0 {
		rets = RetencionesFromXml(xml)
	}
	for i := range rets {
		if rets[i].Tasa != "" {
			continue
		}
		if t, ok := tasas[rets[i].ImpuestoCodigo]; ok {
			rets[i].Tasa = t
		} else if t, ok := tasas[rets[i].Impuesto]; ok {
			rets[i].Tasa = t
		}
	}
	return rets
}

// ResumenRetencion es el total acumulado de una combinación impuesto/tasa.
type ResumenRetencion struct {
	Impuesto string
	Tasa     string
	Importe  decimal.Decimal
}

// ResumirRetenciones agrupa las retenciones por impuesto y tasa sumando los
// importes. Conserva el orden de primera aparición de cada grupo.
func ResumirRetenciones(rets []Retencion) []ResumenRetencion {
	indice := make(map[string]int)
	var resumen []ResumenRetencion
	for _, ret := range rets {
		impuesto := strings.TrimSpace(ret.Impuesto)
		if impuesto == "" {
			impuesto = "Retención"
		}
		tasa := strings.TrimSpace(ret.Tasa)
		importe := ParseImporte(ret.Importe)
		clave := impuesto + "|" + tasa
		if i, ok := indice[clave]; ok {
			resumen[i].Importe = resumen[i].Importe.Add(importe)
			continue
		}
		indice[clave] = len(resumen)
		resumen = append(resumen, ResumenRetencion{Impuesto: impuesto, Tasa: tasa, Importe: importe})
	}
	return resumen
}

// TasaRetencionIVA devuelve la tasa porcentual de IVA retenido del
// comprobante como número (16 para "16%"), o cero si no hay retención de
// IVA o la tasa no es numérica.
func TasaRetencionIVA(xml string) float64 {
	if xml == "" {
		return 0
	}
	tasas := RetencionTasaMap(xml)
	rets := RetencionesFromXml(GlobalImpuestosSection(xml))
	if len(rets) == 0 {
		rets = RetencionesFromXml(xml)
	}
	tasa := ""
	for _, ret := range rets {
		if ret.ImpuestoCodigo == sat.ImpuestoIVA || ret.Impuesto == "IVA" {
			tasa = ret.Tasa
			break
		}
	}
	if tasa == "" {
		if t, ok := tasas[sat.ImpuestoIVA]; ok {
			tasa = t
		} else if t, ok := tasas["IVA"]; ok {
			tasa = t
		}
	}
	if tasa == "" {
		return 0
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(tasa, "%"))
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// iva08 es la tasa de IVA fronterizo, comparada con tolerancia porque el
// XML puede traer "0.08", "0.080000" u "0.0800".
var iva08 = decimal.RequireFromString("0.08")
var tolIVA = decimal.RequireFromString("0.0001")

// HasIVA08 reporta si el bloque global de impuestos trae un traslado de IVA
// a la tasa fronteriza del 8%.
func HasIVA08(xml string) bool {
	if xml == "" {
		return false
	}
	global := GlobalImpuestosSection(xml)
	if global == "" {
		return false
	}
	for _, m := range reTraslado.FindAllStringSubmatch(global, -1) {
		attrs := m[1]
		impuesto := AttrValue(attrs, "Impuesto")
		if impuesto != sat.ImpuestoIVA && strings.ToUpper(impuesto) != "IVA" {
			continue
		}
		tasa, err := decimal.NewFromString(AttrValue(attrs, "TasaOCuota"))
		if err != nil {
			continue
		}
		if tasa.Sub(iva08).Abs().Cmp(tolIVA) < 0 {
			return true
		}
	}
	return false
}

// Traslado es un impuesto trasladado del bloque global.
type Traslado struct {
	Impuesto string
	Tasa     string
	Importe  string
}

// TrasladosGlobales extrae los traslados del bloque global de impuestos,
// con la tasa en porcentaje de dos decimales fijos.
func TrasladosGlobales(xml string) []Traslado {
	global := GlobalImpuestosSection(xml)
	var traslados []Traslado
	for _, m := range reTraslado.FindAllStringSubmatch(global, -1) {
		attrs := m[1]
		codigo := AttrValue(attrs, "Impuesto")
		nombre := sat.ImpuestoNombre[codigo]
		if nombre == "" {
			nombre = codigo
		}
		traslados = append(traslados, Traslado{
			Impuesto: nombre,
			Tasa:     TasaPercent(AttrValue(attrs, "TasaOCuota")),
			Importe:  AttrValue(attrs, "Importe"),
		})
	}
	return traslados
}
