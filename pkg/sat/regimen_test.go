package sat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegimenFiscalDescripcion(t *testing.T) {
	assert.Equal(t, "-", RegimenFiscalDescripcion(""))
	assert.Equal(t, "-", RegimenFiscalDescripcion("-"))
	assert.Equal(t, "601 - General de Ley Personas Morales", RegimenFiscalDescripcion("601"))
	assert.Equal(t, "626 - Régimen Simplificado de Confianza", RegimenFiscalDescripcion("626"))
	// códigos desconocidos se muestran tal cual
	assert.Equal(t, "999", RegimenFiscalDescripcion("999"))
}

func TestImpuestoNombre(t *testing.T) {
	assert.Equal(t, "ISR", ImpuestoNombre[ImpuestoISR])
	assert.Equal(t, "IVA", ImpuestoNombre[ImpuestoIVA])
	assert.Equal(t, "IEPS", ImpuestoNombre[ImpuestoIEPS])
}
