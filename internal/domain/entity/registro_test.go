package entity

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistro_ConservaOrdenDeClaves(t *testing.T) {
	raw := `{"zeta":1,"alfa":"a","media":{"b":2,"a":1},"lista":[1,"dos",null]}`

	var r Registro
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	assert.Equal(t, []string{"zeta", "alfa", "media", "lista"}, r.Keys(),
		"las claves deben conservar el orden del documento original")

	anidado, ok := r.Get("media")
	require.True(t, ok)
	reg, ok := anidado.(*Registro)
	require.True(t, ok, "los objetos anidados deben decodificarse como *Registro")
	assert.Equal(t, []string{"b", "a"}, reg.Keys())
}

func TestRegistro_NumerosComoJSONNumber(t *testing.T) {
	var r Registro
	require.NoError(t, json.Unmarshal([]byte(`{"total":1234.56}`), &r))

	v, ok := r.Get("total")
	require.True(t, ok)
	num, ok := v.(json.Number)
	require.True(t, ok)
	assert.Equal(t, "1234.56", num.String())
}

func TestRegistro_MarshalRespetaOrden(t *testing.T) {
	raw := `{"c":1,"b":2,"a":3}`
	var r Registro
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	out, err := json.Marshal(&r)
	require.NoError(t, err)
	assert.Equal(t, raw, string(out))
}

func TestRegistro_SetConservaPosicion(t *testing.T) {
	r := NewRegistro()
	r.Set("uno", 1)
	r.Set("dos", 2)
	r.Set("uno", 11)

	assert.Equal(t, []string{"uno", "dos"}, r.Keys())
	v, _ := r.Get("uno")
	assert.Equal(t, 11, v)
}

func TestDecodeRegistros(t *testing.T) {
	raw := `[{"a":1},"basura",{"b":2}]`
	regs, err := DecodeRegistros(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, regs, 2, "los elementos que no son objetos se descartan")
	assert.Equal(t, []string{"a"}, regs[0].Keys())
	assert.Equal(t, []string{"b"}, regs[1].Keys())
}

func TestDecodeRegistros_ObjetoUnico(t *testing.T) {
	regs, err := DecodeRegistros(strings.NewReader(`{"a":1}`))
	require.NoError(t, err)
	require.Len(t, regs, 1)
}

func TestDecodeJSON_Escalares(t *testing.T) {
	v, err := DecodeJSON(strings.NewReader(`"hola"`))
	require.NoError(t, err)
	assert.Equal(t, "hola", v)
}
