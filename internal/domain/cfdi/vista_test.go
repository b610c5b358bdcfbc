package cfdi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVista(t *testing.T) {
	vista := BuildVista(xmlComprobante)

	assert.Equal(t, "AAA010101AAA", vista.Emisor.RFC)
	assert.Equal(t, "ACME SA", vista.Emisor.Nombre)
	assert.Equal(t, "601 - General de Ley Personas Morales", vista.Emisor.Regimen)

	assert.Equal(t, "XAXX010101000", vista.Receptor.RFC)
	assert.Equal(t, "G03", vista.Receptor.UsoCFDI)
	assert.Equal(t, "06000", vista.Receptor.Domicilio)
	assert.Equal(t, "616 - Sin obligaciones fiscales", vista.Receptor.Regimen)

	assert.Equal(t, "1000.00", vista.Comprobante.Subtotal)
	assert.Equal(t, "50.00", vista.Comprobante.Descuento)
	assert.Equal(t, "1110.00", vista.Comprobante.Total)
	assert.Equal(t, "PUE", vista.Comprobante.MetodoPago)

	require.Len(t, vista.Conceptos, 1)
	assert.Equal(t, "80131500", vista.Conceptos[0].Clave)
	assert.Equal(t, "E48", vista.Conceptos[0].Unidad, "sin Unidad se usa ClaveUnidad")
	assert.Equal(t, "Renta local", vista.Conceptos[0].Descripcion)

	require.Len(t, vista.Traslados, 1)
	assert.Equal(t, "IVA", vista.Traslados[0].Impuesto)
	assert.Equal(t, "16.00%", vista.Traslados[0].Tasa)

	require.Len(t, vista.Retenciones, 2)
	assert.Equal(t, "ISR", vista.Retenciones[0].Impuesto)
	assert.Equal(t, "10%", vista.Retenciones[0].Tasa)
}

func TestBuildVista_XMLVacio(t *testing.T) {
	vista := BuildVista("")

	assert.Equal(t, "-", vista.Emisor.RFC)
	assert.Equal(t, "-", vista.Receptor.UsoCFDI)
	assert.Equal(t, "-", vista.Comprobante.Total)
	assert.Empty(t, vista.Conceptos)
	assert.Empty(t, vista.Traslados)
	assert.Empty(t, vista.Retenciones)
}

func TestRegimenFiscalEmisor(t *testing.T) {
	assert.Equal(t, "601", RegimenFiscalEmisor(xmlComprobante))
	assert.Equal(t, "", RegimenFiscalEmisor("<doc/>"))
}
