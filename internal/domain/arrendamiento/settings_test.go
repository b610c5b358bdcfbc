package arrendamiento

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTipoPersona(t *testing.T) {
	assert.Equal(t, PersonaFisica, TipoPersona("612"))
	assert.Equal(t, PersonaFisica, TipoPersona("606"))
	assert.Equal(t, PersonaResico, TipoPersona("626"))
	assert.Equal(t, PersonaMoral, TipoPersona("601"))
	assert.Equal(t, PersonaMoral, TipoPersona(""))
}

func TestDefaultsParaEmpresa(t *testing.T) {
	d, ok := DefaultsParaEmpresa("adMSU2024", "612", false)
	require.True(t, ok)
	assert.Equal(t, Defaults{Concepto: "118", Producto: "7000017"}, d)

	d, ok = DefaultsParaEmpresa("adCI_ANAHUAC_SA_D", "626", false)
	require.True(t, ok)
	assert.Equal(t, Defaults{Concepto: "130", Producto: "7000065"}, d)

	_, ok = DefaultsParaEmpresa("empresaDesconocida", "612", false)
	assert.False(t, ok)

	_, ok = DefaultsParaEmpresa("", "612", false)
	assert.False(t, ok)
}

func TestDefaultsParaEmpresa_IVA08(t *testing.T) {
	// con IVA fronterizo la empresa con overrides cambia de códigos
	d, ok := DefaultsParaEmpresa("adGRUPO_BUENAGUI", "612", true)
	require.True(t, ok)
	assert.Equal(t, Defaults{Concepto: "1103", Producto: "7001017"}, d)

	// persona moral no tiene override, caen los defaults normales
	d, ok = DefaultsParaEmpresa("adGRUPO_BUENAGUI", "601", true)
	require.True(t, ok)
	assert.Equal(t, Defaults{Concepto: "103", Producto: "7000041"}, d)

	// sin IVA al 8 no aplica el override
	d, ok = DefaultsParaEmpresa("adGRUPO_BUENAGUI", "612", false)
	require.True(t, ok)
	assert.Equal(t, Defaults{Concepto: "103", Producto: "7000017"}, d)
}
