package cfdi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractXMLContent_Cadenas(t *testing.T) {
	assert.Equal(t, "<a/>", ExtractXMLContent("<a/>"))
	assert.Equal(t, "  <a/>", ExtractXMLContent("  <a/>"), "se conserva el texto original, sólo se recorta para decidir")
	assert.Equal(t, "", ExtractXMLContent("no soy xml"))
}

func TestExtractXMLContent_ClavePrioritaria(t *testing.T) {
	reg := registroDesde(t, `{"otro":{"anidado":"<b/>"},"content":"<a/>"}`)
	// la clave prioritaria gana aunque haya un hallazgo más temprano en
	// profundidad
	assert.Equal(t, "<a/>", ExtractXMLContent(reg))
}

func TestExtractXMLContent_DescensoEnProfundidad(t *testing.T) {
	reg := registroDesde(t, `{"foo":{"bar":"<a/>"}}`)
	assert.Equal(t, "<a/>", ExtractXMLContent(reg))

	lista := registroDesde(t, `{"datos":[{"x":1},{"xml":"<c/>"}]}`)
	assert.Equal(t, "<c/>", ExtractXMLContent(lista))
}

func TestExtractXMLContent_SinXML(t *testing.T) {
	reg := registroDesde(t, `{"a":1,"b":{"c":"texto plano"}}`)
	assert.Equal(t, "", ExtractXMLContent(reg))
	assert.Equal(t, "", ExtractXMLContent(nil))
	assert.Equal(t, "", ExtractXMLContent(42))
}

func TestExtractXMLContent_CicloNoSeCuelga(t *testing.T) {
	ciclico := map[string]any{"dato": "sin xml"}
	ciclico["yo"] = ciclico
	assert.Equal(t, "", ExtractXMLContent(ciclico))

	conXML := map[string]any{"content": "<a/>"}
	conXML["yo"] = conXML
	assert.Equal(t, "<a/>", ExtractXMLContent(conXML))
}

func TestExtractXMLContent_MapaSueltoEsEstable(t *testing.T) {
	// un mapa de Go no conserva orden de declaración; el descenso va por
	// clave ordenada y siempre encuentra el mismo XML
	suelto := map[string]any{
		"zeta":  map[string]any{"dato": "<z/>"},
		"alfa":  map[string]any{"dato": "<a/>"},
		"media": map[string]any{"dato": "<m/>"},
	}
	for i := 0; i < 20; i++ {
		assert.Equal(t, "<a/>", ExtractXMLContent(suelto))
	}
}

func TestDisplayXML(t *testing.T) {
	assert.Equal(t, "<a/>", DisplayXML("<a/>"))
	assert.Equal(t, "texto plano", DisplayXML("texto plano"),
		"una cadena sin xml se devuelve tal cual")

	reg := registroDesde(t, `{"a":1}`)
	assert.JSONEq(t, `{"a":1}`, DisplayXML(reg),
		"un objeto sin xml se imprime como JSON")

	assert.Equal(t, "", DisplayXML(nil))
}
