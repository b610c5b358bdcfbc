package cfdi

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/joseolvr/egresos-bridge/internal/domain/entity"
)

var esMX = message.NewPrinter(language.MustParse("es-MX"))

// FormatCell presenta cualquier valor de celda: "-" para ausentes, JSON
// para valores compuestos y el texto tal cual para escalares.
func FormatCell(v any) string {
	if Vacio(v) {
		return "-"
	}
	switch v.(type) {
	case *entity.Registro, map[string]any, []any:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
		return "-"
	default:
		return Cadena(v)
	}
}

// FormatTotal presenta un importe como moneda mexicana ("$1,234.56"). Si el
// valor no es numérico se devuelve tal cual, y "-" si está ausente.
func FormatTotal(v any) string {
	if Vacio(v) {
		return "-"
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(Cadena(v)), 64)
	if err != nil {
		return Cadena(v)
	}
	return esMX.Sprintf("$%v", number.Decimal(f,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

var reFechaISO = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)

// Formatos de fecha que el upstream ha devuelto en los egresos.
var formatosFecha = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDateOnly reduce un valor de fecha a "AAAA-MM-DD". Si el texto ya
// empieza con esa forma se recorta directamente; si no, se intenta
// interpretar con los formatos conocidos y en último caso se devuelve el
// texto original.
func FormatDateOnly(v any) string {
	if Vacio(v) {
		return "-"
	}
	crudo := Cadena(v)
	if m := reFechaISO.FindStringSubmatch(crudo); m != nil {
		return m[1]
	}
	for _, formato := range formatosFecha {
		if t, err := time.Parse(formato, strings.TrimSpace(crudo)); err == nil {
			return t.UTC().Format("2006-01-02")
		}
	}
	return crudo
}

// FormatXML reindenta un documento XML para mostrarlo legible. La lectura
// es permisiva porque los comprobantes de algunos PACs no son XML estricto;
// si ni así se puede leer, se devuelve el texto original.
func FormatXML(xml string) string {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromString(xml); err != nil {
		return xml
	}
	doc.Indent(2)
	salida, err := doc.WriteToString()
	if err != nil {
		return xml
	}
	return strings.TrimSpace(salida)
}

// Etiquetas legibles para las claves más comunes de un egreso.
var fieldLabels = map[string]string{
	"__serieCalculada":  "Serie",
	"__folioCalculado":  "Folio",
	"uuid":              "UUID",
	"Uuid":              "UUID",
	"UUID":              "UUID",
	"guid":              "GUID",
	"Guid":              "GUID",
	"guidDocument":      "GUID del documento",
	"GuidDocument":      "GUID del documento",
	"guidDocumento":     "GUID del documento",
	"GuidDocumento":     "GUID del documento",
	"fecha":             "Fecha",
	"Fecha":             "Fecha",
	"fechaTimbrado":     "Fecha de timbrado",
	"FechaTimbrado":     "Fecha de timbrado",
	"nombreEmisor":      "Nombre del emisor",
	"NombreEmisor":      "Nombre del emisor",
	"emisor":            "Emisor",
	"Emisor":            "Emisor",
	"rfc":               "RFC",
	"RFC":               "RFC",
	"rfcEmisor":         "RFC emisor",
	"RfcEmisor":         "RFC emisor",
	"total":             "Total",
	"Total":             "Total",
	"importeTotal":      "Importe total",
	"ImporteTotal":      "Importe total",
	"tipoClasificacion": "Tipo de clasificacion",
	"TipoClasificacion": "Tipo de clasificacion",
	"enviadaAComercial": "Enviada a comercial",
	"EnviadaAComercial": "Enviada a comercial",
}

var reCamelCase = regexp.MustCompile(`([a-z])([A-Z])`)
var reSeparadores = regexp.MustCompile(`[_-]+`)

// FieldLabel devuelve la etiqueta legible de una clave: la del catálogo si
// existe, o la clave separada en palabras con inicial mayúscula.
func FieldLabel(clave string) string {
	if etiqueta, ok := fieldLabels[clave]; ok {
		return etiqueta
	}
	normalizada := reCamelCase.ReplaceAllString(clave, "$1 $2")
	normalizada = strings.TrimSpace(reSeparadores.ReplaceAllString(normalizada, " "))
	if normalizada == "" {
		return clave
	}
	return strings.ToUpper(normalizada[:1]) + normalizada[1:]
}

// Claves que no se muestran en el detalle: los campos precalculados de la
// lista y las variantes de serie/folio que el upstream trae crudas.
var clavesOcultas = map[string]bool{
	"__serieCalculada": true, "__folioCalculado": true,
	"__rfcFuente": true, "__uuidFuente": true,
	"serie": true, "Serie": true, "folio": true, "Folio": true,
	"noSerie": true, "NoSerie": true,
	"numeroSerie": true, "NumeroSerie": true, "numSerie": true, "NumSerie": true,
	"noFolio": true, "NoFolio": true,
	"numeroFolio": true, "NumeroFolio": true, "numFolio": true, "NumFolio": true,
}

// DetailEntry es un par clave/valor listo para mostrarse en el detalle.
type DetailEntry struct {
	Clave    string `json:"clave"`
	Etiqueta string `json:"etiqueta"`
	Valor    string `json:"valor"`
}

// DetailEntries devuelve las entradas visibles del egreso en orden de
// declaración, con etiqueta legible y valor formateado.
func DetailEntries(reg *entity.Registro) []DetailEntry {
	var entradas []DetailEntry
	for _, clave := range reg.Keys() {
		if clavesOcultas[clave] {
			continue
		}
		v, _ := reg.Get(clave)
		valor := "-"
		if !Vacio(v) {
			switch v.(type) {
			case *entity.Registro, map[string]any, []any:
				if b, err := json.MarshalIndent(v, "", "  "); err == nil {
					valor = string(b)
				}
			default:
				valor = Cadena(v)
			}
		}
		entradas = append(entradas, DetailEntry{
			Clave:    clave,
			Etiqueta: FieldLabel(clave),
			Valor:    valor,
		})
	}
	return entradas
}
