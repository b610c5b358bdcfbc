// Package contpaqi modela la integración de salida hacia el sistema
// comercial CONTPAQi: lectura de sus catálogos dinámicos (conceptos,
// productos, proveedores) y construcción del documento de egreso.
package contpaqi

import (
	"strconv"

	"github.com/joseolvr/egresos-bridge/internal/domain/cfdi"
	"github.com/joseolvr/egresos-bridge/internal/domain/entity"
)

// Los catálogos de CONTPAQi también llegan sin esquema fijo; cada accessor
// prueba las variantes de clave conocidas en orden de prioridad.

var selectValueKeys = []string{
	"id", "Id", "ID", "guid", "Guid", "codigo", "Codigo", "cId", "CId", "rfc", "RFC",
}

// SelectValue devuelve un identificador estable para un elemento de
// catálogo, o "prefijo-índice" si el elemento no trae ninguno.
func SelectValue(item *entity.Registro, prefijo string, indice int) string {
	if v := cfdi.FirstValue(item, selectValueKeys); !cfdi.Vacio(v) {
		return cfdi.Cadena(v)
	}
	return prefijo + "-" + strconv.Itoa(indice)
}

// ConceptoNombre devuelve el nombre legible de un concepto, o el elemento
// serializado como JSON si no trae ninguno.
func ConceptoNombre(item *entity.Registro) string {
	v := cfdi.FirstValue(item, []string{
		"cNombreConcepto", "CNombreConcepto", "nombre", "Nombre",
		"concepto", "Concepto", "nombreConcepto", "NombreConcepto",
		"descripcion", "Descripcion",
	})
	if cfdi.Vacio(v) {
		return cfdi.FormatCell(item)
	}
	return cfdi.Cadena(v)
}

// ConceptoCodigo devuelve el código del concepto, vacío si no trae.
func ConceptoCodigo(item *entity.Registro) string {
	v := cfdi.FirstValue(item, []string{
		"cCodigoConcepto", "CCodigoConcepto", "codigoConcepto", "CodigoConcepto",
		"codigo", "Codigo", "idConcepto", "IdConcepto",
	})
	if cfdi.Vacio(v) {
		return ""
	}
	return cfdi.Cadena(v)
}

// ProductoNombre devuelve el nombre legible de un producto o servicio.
func ProductoNombre(item *entity.Registro) string {
	v := cfdi.FirstValue(item, []string{
		"cNombreProducto", "CNombreProducto", "cnombreproducto",
		"nombreProducto", "NombreProducto", "nombre", "Nombre",
		"descripcion", "Descripcion",
	})
	if cfdi.Vacio(v) {
		return cfdi.FormatCell(item)
	}
	return cfdi.Cadena(v)
}

// ProductoCodigo devuelve el código del producto, vacío si no trae.
func ProductoCodigo(item *entity.Registro) string {
	v := cfdi.FirstValue(item, []string{
		"cCodigoProducto", "CCodigoProducto", "ccodigoproducto",
		"codigoProducto", "CodigoProducto", "codigo", "Codigo",
		"idProducto", "IdProducto",
	})
	if cfdi.Vacio(v) {
		return ""
	}
	return cfdi.Cadena(v)
}

// ProveedorCodigoCliente devuelve el código de cliente/proveedor con el que
// CONTPAQi identifica al tercero.
func ProveedorCodigoCliente(item *entity.Registro) string {
	v := cfdi.FirstValue(item, []string{
		"codigoCliente", "CodigoCliente", "cCodigoCliente", "CCodigoCliente",
		"codigo", "Codigo", "idProveedor", "IdProveedor",
	})
	if cfdi.Vacio(v) {
		return "Sin codigo"
	}
	return cfdi.Cadena(v)
}

// ProveedorRazonSocial devuelve la razón social del proveedor. La variante
// "crAzonSocial" es un error histórico del upstream que hay que conservar.
func ProveedorRazonSocial(item *entity.Registro) string {
	v := cfdi.FirstValue(item, []string{
		"crAzonSocial", "CrAzonSocial", "razonSocial", "RazonSocial",
		"nombre", "Nombre", "nombreComercial", "NombreComercial",
	})
	if cfdi.Vacio(v) {
		return "Sin razon social"
	}
	return cfdi.Cadena(v)
}

// ProveedorEtiqueta arma la etiqueta "código - razón social" del proveedor.
func ProveedorEtiqueta(item *entity.Registro) string {
	return ProveedorCodigoCliente(item) + " - " + ProveedorRazonSocial(item)
}

// ProveedorSegmento devuelve el segmento contable del proveedor, vacío si
// no trae.
func ProveedorSegmento(item *entity.Registro) string {
	v := cfdi.FirstValue(item, []string{"segmento", "Segmento", "cSegmento", "CSegmento"})
	if cfdi.Vacio(v) {
		return ""
	}
	return cfdi.Cadena(v)
}

// ProveedorSucursal devuelve la sucursal del proveedor, vacío si no trae.
func ProveedorSucursal(item *entity.Registro) string {
	v := cfdi.FirstValue(item, []string{"sucursal", "Sucursal", "cSucursal", "CSucursal"})
	if cfdi.Vacio(v) {
		return ""
	}
	return cfdi.Cadena(v)
}

// BuscarPorCodigo localiza en un catálogo el elemento cuyo código coincide
// y devuelve su SelectValue, o vacío si ninguno coincide.
func BuscarPorCodigo(items []*entity.Registro, codigo, prefijo string, codigoDe func(*entity.Registro) string) string {
	for i, item := range items {
		if codigoDe(item) == codigo {
			return SelectValue(item, prefijo, i)
		}
	}
	return ""
}
