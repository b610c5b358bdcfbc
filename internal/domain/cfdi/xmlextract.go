package cfdi

import (
	"encoding/json"
	"reflect"
	"sort"
	"strings"

	"github.com/joseolvr/egresos-bridge/internal/domain/entity"
)

// Claves bajo las que el upstream suele envolver el XML del comprobante.
// Se revisan antes de recorrer el resto del documento: un hallazgo directo
// gana sobre cualquier hallazgo en profundidad.
var xmlPriorityKeys = []string{"content", "Content", "xml", "XML", "xmlContent", "XmlContent"}

// ExtractXMLContent busca el texto XML del comprobante dentro de una
// respuesta envuelta en niveles arbitrarios de objetos y arreglos. Las
// cadenas sólo cuentan como XML si, tras recortar espacios, empiezan con
// '<'. Devuelve cadena vacía si no encuentra nada.
func ExtractXMLContent(valor any) string {
	if s, ok := valor.(string); ok {
		if strings.HasPrefix(strings.TrimSpace(s), "<") {
			return s
		}
		return ""
	}
	visitados := make(map[uintptr]bool)
	return caminarXML(valor, visitados)
}

func caminarXML(nodo any, visitados map[uintptr]bool) string {
	switch t := nodo.(type) {
	case string:
		if strings.HasPrefix(strings.TrimSpace(t), "<") {
			return t
		}
		return ""
	case []any:
		if len(t) == 0 {
			return ""
		}
		ptr := reflect.ValueOf(t).Pointer()
		if visitados[ptr] {
			return ""
		}
		visitados[ptr] = true
		for _, item := range t {
			if hallado := caminarXML(item, visitados); hallado != "" {
				return hallado
			}
		}
		return ""
	case *entity.Registro:
		if t == nil {
			return ""
		}
		ptr := reflect.ValueOf(t).Pointer()
		if visitados[ptr] {
			return ""
		}
		visitados[ptr] = true
		// las claves prioritarias ganan sobre cualquier descenso
		for _, clave := range xmlPriorityKeys {
			if v, ok := t.Get(clave); ok {
				if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
					return s
				}
			}
		}
		for _, clave := range t.Keys() {
			v, _ := t.Get(clave)
			if hallado := caminarXML(v, visitados); hallado != "" {
				return hallado
			}
		}
		return ""
	case map[string]any:
		if len(t) == 0 {
			return ""
		}
		ptr := reflect.ValueOf(t).Pointer()
		if visitados[ptr] {
			return ""
		}
		visitados[ptr] = true
		for _, clave := range xmlPriorityKeys {
			if v, ok := t[clave]; ok {
				if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
					return s
				}
			}
		}
		// los mapas sueltos no conservan orden de declaración; se
		// recorren por clave ordenada para que el descenso sea estable
		claves := make([]string, 0, len(t))
		for clave := range t {
			claves = append(claves, clave)
		}
		sort.Strings(claves)
		for _, clave := range claves {
			if hallado := caminarXML(t[clave], visitados); hallado != "" {
				return hallado
			}
		}
		return ""
	default:
		return ""
	}
}

// DisplayXML devuelve siempre algo imprimible: el XML extraído si existe,
// la cadena original si el valor era texto, o el valor serializado como
// JSON con sangría si era un objeto.
func DisplayXML(valor any) string {
	if extraido := ExtractXMLContent(valor); extraido != "" {
		return extraido
	}
	switch t := valor.(type) {
	case string:
		return t
	case nil:
		return ""
	case *entity.Registro, map[string]any, []any:
		if b, err := json.MarshalIndent(t, "", "  "); err == nil {
			return string(b)
		}
		return ""
	default:
		return ""
	}
}
