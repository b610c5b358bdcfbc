package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Registro es un documento JSON sin esquema que conserva el orden de
// declaración de sus claves. Los egresos llegan del upstream con nombres
// de campos variables, y varias operaciones (búsqueda por pista, extracción
// de XML anidado) dependen del orden en que las claves aparecen en el
// documento original, cosa que un map de Go no garantiza.
type Registro struct {
	claves  []string
	valores map[string]any
}

// NewRegistro crea un registro vacío listo para usar.
func NewRegistro() *Registro {
	return &Registro{valores: make(map[string]any)}
}

// Set asigna un valor a la clave, conservando la posición si ya existía.
func (r *Registro) Set(clave string, valor any) {
	if r.valores == nil {
		r.valores = make(map[string]any)
	}
	if _, ok := r.valores[clave]; !ok {
		r.claves = append(r.claves, clave)
	}
	r.valores[clave] = valor
}

// Get devuelve el valor de la clave y si existe.
func (r *Registro) Get(clave string) (any, bool) {
	if r == nil || r.valores == nil {
		return nil, false
	}
	v, ok := r.valores[clave]
	return v, ok
}

// Keys devuelve las claves en orden de declaración.
func (r *Registro) Keys() []string {
	if r == nil {
		return nil
	}
	return r.claves
}

// Len devuelve el número de claves del registro.
func (r *Registro) Len() int {
	if r == nil {
		return 0
	}
	return len(r.claves)
}

// UnmarshalJSON decodifica un objeto JSON conservando el orden de claves.
// Los números se conservan como json.Number para no perder precisión.
func (r *Registro) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("se esperaba un objeto JSON, se encontró %v", tok)
	}
	parsed, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*r = *parsed
	return nil
}

// MarshalJSON serializa el registro respetando el orden de declaración.
func (r *Registro) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.claves {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.valores[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeObject consume los pares clave/valor de un objeto ya abierto.
func decodeObject(dec *json.Decoder) (*Registro, error) {
	r := NewRegistro()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		clave, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("clave de objeto inválida: %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		r.Set(clave, val)
	}
	// consume la llave de cierre
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return r, nil
}

// decodeValue decodifica el siguiente valor: objetos como *Registro,
// arreglos como []any, escalares como string/json.Number/bool/nil.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			var arr []any
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("delimitador inesperado: %v", t)
		}
	default:
		return t, nil
	}
}

// DecodeJSON decodifica un documento JSON arbitrario desde el lector.
// Devuelve *Registro para objetos, []any para arreglos y escalares tal cual.
func DecodeJSON(rd io.Reader) (any, error) {
	dec := json.NewDecoder(rd)
	dec.UseNumber()
	return decodeValue(dec)
}

// DecodeRegistros decodifica un arreglo JSON de objetos. Elementos que no
// sean objetos se descartan.
func DecodeRegistros(rd io.Reader) ([]*Registro, error) {
	v, err := DecodeJSON(rd)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		if reg, ok := v.(*Registro); ok {
			return []*Registro{reg}, nil
		}
		return nil, fmt.Errorf("se esperaba un arreglo JSON")
	}
	regs := make([]*Registro, 0, len(arr))
	for _, item := range arr {
		if reg, ok := item.(*Registro); ok {
			regs = append(regs, reg)
		}
	}
	return regs, nil
}
