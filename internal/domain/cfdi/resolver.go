// Package cfdi implementa la resolución heurística de campos de egresos
// CFDI. El upstream devuelve documentos sin esquema fijo, con nombres de
// campos que varían por empresa y por versión, así que la extracción se
// hace por listas de sinónimos y pistas en lugar de structs tipados.
package cfdi

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseolvr/egresos-bridge/internal/domain/entity"
)

// Listas de claves sinónimas observadas en las respuestas del upstream.
// El orden codifica prioridad: clave canónica primero, luego variantes.
var (
	FechaKeys  = []string{"fecha", "Fecha", "fechaTimbrado", "FechaTimbrado"}
	EmisorKeys = []string{
		"nombreEmisor", "NombreEmisor", "emisor", "Emisor",
		"razonSocialEmisor", "RazonSocialEmisor",
	}
	RFCKeys   = []string{"rfc", "RFC", "rfcEmisor", "RfcEmisor"}
	UUIDKeys  = []string{"uuid", "UUID", "Uuid", "folioFiscal", "FolioFiscal"}
	TotalKeys = []string{"total", "Total", "importeTotal", "ImporteTotal"}

	ComercialKeys = []string{
		"enviadaAComercial", "EnviadaAComercial",
		"enviadaComercial", "EnviadaComercial",
		"enviadoComercial", "EnviadoComercial",
		"enviadoAComercial", "EnviadoAComercial",
		"comercial", "Comercial",
	}

	CategoriaKeys     = []string{"tipoClasificacion", "TipoClasificacion"}
	GuidDocumentoKeys = []string{
		"guidDocument", "GuidDocument", "guidDocumento", "GuidDocumento",
		"guid", "Guid",
	}

	RFCHints  = []string{"rfc"}
	UUIDHints = []string{"uuid", "foliofiscal", "guiddocument", "guid"}
)

// Longitud del folio derivado según la vista que lo muestra.
const (
	FolioLista   = 3
	FolioDetalle = 4
)

// CategoriaSinClasificar es la categoría asignada cuando el egreso no trae
// tipoClasificacion.
const CategoriaSinClasificar = "Sin categoria"

var noAlfanum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Vacio reporta si un valor dinámico cuenta como ausente: nil o cadena vacía.
func Vacio(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// Cadena convierte un valor dinámico a texto. Los números conservan su
// representación original y los valores compuestos se serializan como JSON.
func Cadena(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
		return ""
	}
}

// FirstValue recorre las claves candidatas en orden estricto y devuelve el
// primer valor presente (no nil ni cadena vacía). La búsqueda es por nombre
// exacto; las variantes van en la lista, no en la comparación.
func FirstValue(reg *entity.Registro, claves []string) any {
	for _, clave := range claves {
		if v, ok := reg.Get(clave); ok && !Vacio(v) {
			return v
		}
	}
	return nil
}

// ValueByKeyHint es el último recurso cuando las claves exactas fallan:
// normaliza cada clave del registro (sin caracteres no alfanuméricos, en
// minúsculas) y devuelve el primer valor cuya clave contenga alguna pista.
// Depende del orden de declaración del documento original, por eso Registro
// lo conserva. Es una heurística, no una búsqueda garantizada.
func ValueByKeyHint(reg *entity.Registro, pistas []string) any {
	for _, clave := range reg.Keys() {
		v, _ := reg.Get(clave)
		if Vacio(v) {
			continue
		}
		normalizada := strings.ToLower(noAlfanum.ReplaceAllString(clave, ""))
		for _, pista := range pistas {
			if strings.Contains(normalizada, pista) {
				return v
			}
		}
	}
	return nil
}

// SerieFromRFC deriva la serie del documento a partir del RFC del emisor.
// Un RFC limpio de 13 o más caracteres corresponde a persona física y la
// serie son sus primeros 4 caracteres; uno más corto es persona moral y la
// serie es "F" más los primeros 3. Sin RFC devuelve "-".
func SerieFromRFC(v any) string {
	if Vacio(v) {
		return "-"
	}
	rfc := strings.ToUpper(noAlfanum.ReplaceAllString(Cadena(v), ""))
	if rfc == "" {
		return "-"
	}
	if len(rfc) >= 13 {
		return rfc[:4]
	}
	if len(rfc) > 3 {
		rfc = rfc[:3]
	}
	return "F" + rfc
}

var (
	soloDigitos    = regexp.MustCompile(`\D`)
	cerosIniciales = regexp.MustCompile(`^0+`)
)

// FolioFromUUID deriva el folio a partir del UUID fiscal: conserva sólo los
// dígitos, elimina ceros a la izquierda y toma los primeros `largo`
// caracteres (3 en la lista, 4 en el detalle). Sin dígitos devuelve "-".
func FolioFromUUID(v any, largo int) string {
	if Vacio(v) {
		return "-"
	}
	digitos := soloDigitos.ReplaceAllString(Cadena(v), "")
	if digitos == "" {
		return "-"
	}
	digitos = cerosIniciales.ReplaceAllString(digitos, "")
	if digitos == "" {
		return "-"
	}
	if len(digitos) > largo {
		digitos = digitos[:largo]
	}
	return digitos
}

// ParseSentStatus interpreta el indicador "enviado a comercial" con los
// formatos que el upstream ha usado históricamente. Cadenas se comparan sin
// distinguir mayúsculas; cualquier otro tipo es falso.
func ParseSentStatus(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 1
	case int:
		return t == 1
	case float64:
		return t == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "si", "sí", "yes", "enviado":
			return true
		}
		return false
	default:
		return false
	}
}

// Fields son los campos resueltos de un egreso. Fecha, Emisor, RFC, UUID y
// Total conservan el valor crudo del documento; Serie y Folio son derivados.
type Fields struct {
	Fecha             any
	Emisor            any
	RFC               any
	UUID              any
	Total             any
	Serie             string
	Folio             string
	EnviadaAComercial bool
}

// ResolveFields resuelve los campos de un egreso de la lista. rfcEmpresa es
// el RFC de la empresa seleccionada y se usa como último recurso cuando el
// documento no trae ninguno.
func ResolveFields(reg *entity.Registro, rfcEmpresa string, folioLargo int) Fields {
	rfc := FirstValue(reg, RFCKeys)
	if rfc == nil {
		rfc = ValueByKeyHint(reg, RFCHints)
	}
	if rfc == nil && rfcEmpresa != "" {
		rfc = rfcEmpresa
	}
	uuid := FirstValue(reg, UUIDKeys)
	if uuid == nil {
		uuid = ValueByKeyHint(reg, UUIDHints)
	}
	return Fields{
		Fecha:             FirstValue(reg, FechaKeys),
		Emisor:            FirstValue(reg, EmisorKeys),
		RFC:               rfc,
		UUID:              uuid,
		Total:             FirstValue(reg, TotalKeys),
		Serie:             SerieFromRFC(rfc),
		Folio:             FolioFromUUID(uuid, folioLargo),
		EnviadaAComercial: ComercialStatus(reg),
	}
}

// ResolveFieldsDetalle resuelve los campos en la vista de detalle,
// respetando los valores precalculados que la lista dejó en el registro
// (__rfcFuente, __uuidFuente, __serieCalculada, __folioCalculado).
func ResolveFieldsDetalle(reg *entity.Registro, rfcEmpresa string) Fields {
	rfc, _ := reg.Get("__rfcFuente")
	if Vacio(rfc) {
		rfc = FirstValue(reg, RFCKeys)
		if rfc == nil {
			rfc = ValueByKeyHint(reg, RFCHints)
		}
		if rfc == nil && rfcEmpresa != "" {
			rfc = rfcEmpresa
		}
	}
	uuid, _ := reg.Get("__uuidFuente")
	if Vacio(uuid) {
		uuid = FirstValue(reg, UUIDKeys)
		if uuid == nil {
			uuid = ValueByKeyHint(reg, UUIDHints)
		}
	}

	serie := ""
	if v, ok := reg.Get("__serieCalculada"); ok && !Vacio(v) && Cadena(v) != "-" {
		serie = Cadena(v)
	}
	if serie == "" {
		serie = SerieFromRFC(rfc)
	}
	folio := ""
	if v, ok := reg.Get("__folioCalculado"); ok && !Vacio(v) && Cadena(v) != "-" {
		folio = Cadena(v)
	}
	if folio == "" {
		folio = FolioFromUUID(uuid, FolioDetalle)
	}

	return Fields{
		Fecha:             FirstValue(reg, FechaKeys),
		Emisor:            FirstValue(reg, EmisorKeys),
		RFC:               rfc,
		UUID:              uuid,
		Total:             FirstValue(reg, TotalKeys),
		Serie:             serie,
		Folio:             folio,
		EnviadaAComercial: ComercialStatus(reg),
	}
}

// ComercialStatus reporta si el egreso ya fue enviado al sistema comercial.
func ComercialStatus(reg *entity.Registro) bool {
	return ParseSentStatus(FirstValue(reg, ComercialKeys))
}

// Categoria devuelve la clasificación del egreso, o CategoriaSinClasificar
// si el documento no trae ninguna.
func Categoria(reg *entity.Registro) string {
	v := FirstValue(reg, CategoriaKeys)
	if Vacio(v) {
		return CategoriaSinClasificar
	}
	return Cadena(v)
}

// DocumentGuid devuelve el identificador del documento usado para pedir el
// XML al upstream, o cadena vacía si el egreso no trae ninguno.
func DocumentGuid(reg *entity.Registro) string {
	if v := FirstValue(reg, GuidDocumentoKeys); !Vacio(v) {
		return Cadena(v)
	}
	if v := ValueByKeyHint(reg, []string{"guiddocument", "guid"}); !Vacio(v) {
		return Cadena(v)
	}
	return ""
}

// RowID identifica una fila de la lista de forma estable: GUID del documento
// o UUID fiscal si existen, y como último recurso el índice de la fila.
func RowID(reg *entity.Registro, indice int) string {
	claves := make([]string, 0, len(GuidDocumentoKeys)+len(UUIDKeys))
	claves = append(claves, GuidDocumentoKeys...)
	claves = append(claves, UUIDKeys...)
	id := FirstValue(reg, claves)
	if id == nil {
		id = ValueByKeyHint(reg, []string{"guiddocument", "guid", "uuid", "foliofiscal"})
	}
	if !Vacio(id) {
		return Cadena(id)
	}
	return "fila-" + strconv.Itoa(indice)
}
