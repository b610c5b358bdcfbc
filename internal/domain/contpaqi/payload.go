package contpaqi

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joseolvr/egresos-bridge/internal/domain/cfdi"
)

// Movimiento es la partida del documento que se envía a CONTPAQi. La tasa
// de retención de IVA sólo viaja en el envío desde el detalle; el envío
// rápido la omite.
type Movimiento struct {
	Unidades         float64  `json:"unidades"`
	Precio           float64  `json:"precio"`
	TasaRetencionIVA *float64 `json:"tasaRetencionIVA,omitempty"`
	CodProdSer       string   `json:"codProdSer"`
	Referencia       string   `json:"referencia"`
	Segmento         string   `json:"segmento"`
}

// Documento es el egreso listo para registrarse en CONTPAQi.
type Documento struct {
	EmpresaRutaOrName string       `json:"empresaRutaOrName"`
	CodConcepto       string       `json:"codConcepto"`
	Serie             string       `json:"serie"`
	Folio             float64      `json:"folio"`
	Fecha             string       `json:"fecha"`
	CodigoCteProv     string       `json:"codigoCteProv"`
	Referencia        string       `json:"referencia"`
	AsociarUUID       string       `json:"asociarUUID"`
	AsociarBaseDb     string       `json:"asociarBaseDb"`
	Movimientos       []Movimiento `json:"movimientos"`
}

// BuildParams reúne los insumos ya resueltos para armar el documento.
type BuildParams struct {
	EmpresaBaseDatos string
	EmpresaGuidDsl   string
	CodConcepto      string
	Serie            string
	Folio            string
	Fecha            string
	CodigoCteProv    string
	Sucursal         string
	Segmento         string
	UUID             string
	Subtotal         string
	CodProducto      string
	// TasaRetencionIVA se incluye sólo cuando IncluirTasaRetencion es true.
	TasaRetencionIVA     float64
	IncluirTasaRetencion bool
}

// Build arma el documento de egreso para CONTPAQi a partir de los campos
// resueltos del comprobante y las selecciones del usuario.
func Build(p BuildParams) Documento {
	fecha := NormalizeDate(p.Fecha)
	if fecha == "" {
		fecha = NormalizeDate(cfdi.FormatDateOnly(p.Fecha))
	}
	mov := Movimiento{
		Unidades:   1,
		Precio:     NormalizeNumber(p.Subtotal),
		CodProdSer: p.CodProducto,
		Referencia: p.Sucursal,
		Segmento:   p.Segmento,
	}
	if p.IncluirTasaRetencion {
		tasa := p.TasaRetencionIVA
		mov.TasaRetencionIVA = &tasa
	}
	return Documento{
		EmpresaRutaOrName: p.EmpresaBaseDatos,
		CodConcepto:       p.CodConcepto,
		Serie:             p.Serie,
		Folio:             NormalizeNumber(p.Folio),
		Fecha:             fecha,
		CodigoCteProv:     p.CodigoCteProv,
		Referencia:        p.Sucursal,
		AsociarUUID:       p.UUID,
		AsociarBaseDb:     p.EmpresaGuidDsl,
		Movimientos:       []Movimiento{mov},
	}
}

var reNoNumerico = regexp.MustCompile(`[^0-9.\-]`)

// NormalizeNumber interpreta un número que puede venir con símbolos de
// moneda o separadores. Devuelve cero si no queda un número válido.
func NormalizeNumber(valor string) float64 {
	if valor == "" {
		return 0
	}
	limpio := reNoNumerico.ReplaceAllString(valor, "")
	f, err := strconv.ParseFloat(limpio, 64)
	if err != nil {
		return 0
	}
	return f
}

// Formatos de fecha aceptados al normalizar hacia CONTPAQi.
var formatosFecha = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeDate convierte una fecha a ISO 8601 UTC con milisegundos, el
// formato que CONTPAQi espera. Vacío si la fecha no se puede interpretar.
func NormalizeDate(valor string) string {
	valor = strings.TrimSpace(valor)
	if valor == "" || valor == "-" {
		return ""
	}
	for _, formato := range formatosFecha {
		if t, err := time.Parse(formato, valor); err == nil {
			return t.UTC().Format("2006-01-02T15:04:05.000") + "Z"
		}
	}
	return ""
}
